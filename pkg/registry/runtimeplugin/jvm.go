package runtimeplugin

import (
	"context"
	"fmt"

	"github.com/peelbox/peelbox/pkg/registry"
)

// JVM is the registry.RuntimePlugin for the Java Virtual Machine.
// Grounded on original_source/src/stack/runtime/jvm.rs.
type JVM struct{}

func (JVM) ID() registry.ID { return registry.RuntimeJVM }

func (JVM) TryExtract(_ []string, framework registry.FrameworkPlugin) (*registry.RuntimeConfig, error) {
	return extractFromFramework(framework), nil
}

func (JVM) RuntimeBaseImage(version string) string {
	if version == "" {
		version = "21"
	}
	return fmt.Sprintf("eclipse-temurin:%s-jre-alpine", version)
}

func (JVM) RequiredPackages() []string { return []string{"ca-certificates"} }

func (JVM) StartCommand(entrypoint string) []string {
	return []string{"java", "-jar", entrypoint}
}

func (JVM) RuntimePackages(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) ([]string, error) {
	return nil, nil
}

func (JVM) RuntimeEnv(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) (map[string]string, error) {
	return map[string]string{"JAVA_TOOL_OPTIONS": "-XX:+UseContainerSupport"}, nil
}
