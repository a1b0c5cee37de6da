package runtimeplugin

import (
	"context"
	"fmt"

	"github.com/peelbox/peelbox/pkg/registry"
)

// Python is the registry.RuntimePlugin for the CPython runtime.
// Grounded on original_source/src/stack/runtime/python.rs.
type Python struct{}

func (Python) ID() registry.ID { return registry.RuntimePython }

func (Python) TryExtract(_ []string, framework registry.FrameworkPlugin) (*registry.RuntimeConfig, error) {
	return extractFromFramework(framework), nil
}

func (Python) RuntimeBaseImage(version string) string {
	if version == "" {
		version = "3.11"
	}
	return fmt.Sprintf("python:%s-alpine", version)
}

func (Python) RequiredPackages() []string { return nil }

func (Python) StartCommand(entrypoint string) []string {
	return []string{"python", entrypoint}
}

func (Python) RuntimePackages(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) ([]string, error) {
	return nil, nil
}

func (Python) RuntimeEnv(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) (map[string]string, error) {
	return map[string]string{"PYTHONUNBUFFERED": "1"}, nil
}
