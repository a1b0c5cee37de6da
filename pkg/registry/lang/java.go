package lang

import (
	"encoding/xml"
	"regexp"

	"github.com/peelbox/peelbox/pkg/registry"
)

// Java is the registry.LanguagePlugin for Maven (pom.xml) and Gradle
// (build.gradle / build.gradle.kts) projects.
type Java struct{}

func (Java) ID() registry.ID { return registry.LangJava }

func (Java) Extensions() []string { return []string{".java", ".kt"} }

func (Java) ExcludedDirs() []string { return []string{".gradle", "target", "build"} }

func (Java) WorkspaceConfigs() []string { return []string{"settings.gradle", "settings.gradle.kts"} }

func (Java) Detect(manifestName string, _ []byte) (registry.ID, float64) {
	switch manifestName {
	case "pom.xml":
		return registry.BuildSystemMaven, 0.9
	case "build.gradle", "build.gradle.kts":
		return registry.BuildSystemGradle, 0.9
	default:
		return registry.ID{}, 0
	}
}

type pomXML struct {
	XMLName      xml.Name `xml:"project"`
	ArtifactID   string   `xml:"artifactId"`
	Version      string   `xml:"version"`
	Dependencies struct {
		Dependency []pomDependency `xml:"dependency"`
	} `xml:"dependencies"`
	Modules struct {
		Module []string `xml:"module"`
	} `xml:"modules"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

var gradleDepRe = regexp.MustCompile(`(?:implementation|api|compile|runtimeOnly)\s*\(?['"]([^:'"]+):([^:'"]+):([^'"]+)['"]`)
var gradleSubprojectRe = regexp.MustCompile(`project\(['"]:([^'"]+)['"]\)`)

// ParseDependencies handles pom.xml via encoding/xml (the same
// approach the teacher's pomMiddlewareVersionDetector takes, there via
// regexp against raw bytes rather than a full unmarshal because it
// only needs one property; here the whole dependency list is needed,
// so a typed unmarshal is the better fit) and build.gradle via regex
// extraction, since Groovy/Kotlin DSL build files have no fixed
// grammar a generic parser could target.
func (Java) ParseDependencies(content []byte, _ []string) (registry.Dependencies, error) {
	deps := registry.Dependencies{DetectedBy: registry.DetectedByDeterministic}

	if len(content) > 0 && content[0] == '<' {
		var pom pomXML
		if err := xml.Unmarshal(content, &pom); err != nil {
			return registry.Dependencies{}, err
		}
		for _, d := range pom.Dependencies.Dependency {
			deps.External = append(deps.External, registry.Dep{
				Name: d.GroupID + ":" + d.ArtifactID, Version: d.Version,
			})
		}
		for _, m := range pom.Modules.Module {
			deps.Internal = append(deps.Internal, registry.Dep{Name: m, Path: m})
		}
		return deps, nil
	}

	for _, m := range gradleDepRe.FindAllStringSubmatch(string(content), -1) {
		deps.External = append(deps.External, registry.Dep{Name: m[1] + ":" + m[2], Version: m[3]})
	}
	for _, m := range gradleSubprojectRe.FindAllStringSubmatch(string(content), -1) {
		deps.Internal = append(deps.Internal, registry.Dep{Name: m[1], Path: m[1]})
	}
	return deps, nil
}

func (Java) EnvVarPatterns() []string { return []string{"JAVA_OPTS", "SERVER_PORT"} }

func (Java) PortPatterns() []string { return []string{`server\.port\s*=\s*(\d{2,5})`} }

func (Java) HealthPatterns() []string { return []string{"/actuator/health", "/health"} }

func (Java) DefaultPort() uint16 { return 8080 }

func (Java) RuntimeName() registry.ID { return registry.RuntimeJVM }

func (Java) DefaultEntrypoint(_ string) string { return "java -jar app.jar" }

func (Java) ParseEntrypointFromManifest(content []byte) (string, bool) {
	var pom pomXML
	if err := xml.Unmarshal(content, &pom); err != nil || pom.ArtifactID == "" {
		return "", false
	}
	return "java -jar " + pom.ArtifactID + "-" + pom.Version + ".jar", true
}
