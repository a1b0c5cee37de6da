package buildsys

import (
	"context"
	"encoding/xml"

	"github.com/peelbox/peelbox/pkg/registry"
)

type pomMeta struct {
	XMLName    xml.Name `xml:"project"`
	ArtifactID string   `xml:"artifactId"`
	Version    string   `xml:"version"`
}

// Maven is the registry.BuildSystemPlugin for pom.xml projects.
type Maven struct{}

func (Maven) ID() registry.ID { return registry.BuildSystemMaven }

func (Maven) ManifestPatterns() []registry.ManifestPattern {
	return []registry.ManifestPattern{{Filename: "pom.xml", Priority: 100}}
}

func (Maven) CacheDirs() []string { return []string{"/root/.m2/repository"} }

func (Maven) BuildTemplate(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) (registry.BuildTemplate, error) {
	return registry.BuildTemplate{
		BuildCommands:   []string{"mvn -B -DskipTests package"},
		RuntimePackages: []string{"openjdk-21-jre-headless"},
		RuntimeCopy: []registry.CopyEntry{
			{From: "/app/target/{project_name}.jar", To: "/app/app.jar"},
		},
	}, nil
}

func (Maven) ParsePackageMetadata(content []byte) (string, string) {
	var pom pomMeta
	if err := xml.Unmarshal(content, &pom); err != nil {
		return "", ""
	}
	return pom.ArtifactID, pom.Version
}

// Gradle is the registry.BuildSystemPlugin for build.gradle /
// build.gradle.kts projects.
type Gradle struct{}

func (Gradle) ID() registry.ID { return registry.BuildSystemGradle }

func (Gradle) ManifestPatterns() []registry.ManifestPattern {
	return []registry.ManifestPattern{
		{Filename: "build.gradle", Priority: 100},
		{Filename: "build.gradle.kts", Priority: 100},
	}
}

func (Gradle) CacheDirs() []string { return []string{"/root/.gradle/caches"} }

func (Gradle) BuildTemplate(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) (registry.BuildTemplate, error) {
	return registry.BuildTemplate{
		BuildCommands:   []string{"gradle --no-daemon bootJar"},
		RuntimePackages: []string{"openjdk-21-jre-headless"},
		RuntimeCopy: []registry.CopyEntry{
			{From: "/app/build/libs/{project_name}.jar", To: "/app/app.jar"},
		},
	}, nil
}

// ParsePackageMetadata has no general-purpose way to pull a project
// name from Groovy/Kotlin DSL build files without a full Gradle
// evaluation, and settings.gradle's rootProject.name is not read
// either (spec.md §4.D9 falls back to the directory basename when this
// returns "").
func (Gradle) ParsePackageMetadata([]byte) (string, string) { return "", "" }
