// Package runtimeplugin holds the concrete registry.RuntimePlugin
// implementations. Each file owns one runtime and only imports
// pkg/registry.
package runtimeplugin

import (
	"context"
	"fmt"

	"github.com/peelbox/peelbox/pkg/registry"
)

// Node is the registry.RuntimePlugin for the Node.js runtime.
// Behavior is grounded on original_source/src/stack/runtime/node.rs.
type Node struct{}

func (Node) ID() registry.ID { return registry.RuntimeNode }

// TryExtract defers port/health entirely to the matched framework
// (mirrors the original's NodeRuntime::try_extract, which never
// inspects files itself — Node has no manifest-level runtime config
// comparable to a Procfile).
func (Node) TryExtract(_ []string, framework registry.FrameworkPlugin) (*registry.RuntimeConfig, error) {
	return extractFromFramework(framework), nil
}

func (Node) RuntimeBaseImage(version string) string {
	if version == "" {
		version = "20"
	}
	return fmt.Sprintf("node:%s-alpine", version)
}

func (Node) RequiredPackages() []string { return []string{"dumb-init"} }

func (Node) StartCommand(entrypoint string) []string {
	return []string{"node", entrypoint}
}

func (Node) RuntimePackages(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) ([]string, error) {
	return nil, nil
}

func (Node) RuntimeEnv(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) (map[string]string, error) {
	return map[string]string{"NODE_ENV": "production"}, nil
}
