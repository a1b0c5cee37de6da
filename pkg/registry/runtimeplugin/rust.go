package runtimeplugin

import (
	"context"

	"github.com/peelbox/peelbox/pkg/registry"
)

// Rust is the registry.RuntimePlugin for compiled Rust binaries.
// Grounded on original_source/src/stack/runtime/native.rs, matching
// spec.md's end-to-end scenario 1 (runtime.command =
// ["/usr/local/bin/hello"], runtime.ports = [8080]).
type Rust struct{}

func (Rust) ID() registry.ID { return registry.RuntimeRust }

func (Rust) TryExtract(_ []string, framework registry.FrameworkPlugin) (*registry.RuntimeConfig, error) {
	cfg := extractFromFramework(framework)
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	return cfg, nil
}

func (Rust) RuntimeBaseImage(_ string) string { return "debian:bookworm-slim" }

func (Rust) RequiredPackages() []string { return []string{"ca-certificates", "libgcc-s1"} }

func (Rust) StartCommand(entrypoint string) []string { return []string{entrypoint} }

func (Rust) RuntimePackages(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) ([]string, error) {
	return nil, nil
}

func (Rust) RuntimeEnv(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) (map[string]string, error) {
	return nil, nil
}
