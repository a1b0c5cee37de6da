package runtimeplugin

import (
	"context"

	"github.com/peelbox/peelbox/pkg/registry"
)

// Go is the registry.RuntimePlugin for statically-linked Go binaries.
// Grounded on original_source/src/stack/runtime/native.rs, the
// original's shared "compiles to a native binary" runtime — peelbox
// gives Go and Rust their own plugin instances (per spec.md's closed
// id enumeration, registry.RuntimeGo and registry.RuntimeRust are
// distinct) but both follow the same "alpine base, direct exec" shape.
type Go struct{}

func (Go) ID() registry.ID { return registry.RuntimeGo }

// TryExtract does not fall back to the framework for Go: Go services
// in this corpus are predominantly bare net/http binaries without a
// matched framework plugin, so the language's own DefaultPort
// (consulted by pkg/analyze's port sub-phase) is the meaningful
// default instead.
func (Go) TryExtract(_ []string, _ registry.FrameworkPlugin) (*registry.RuntimeConfig, error) {
	return &registry.RuntimeConfig{}, nil
}

func (Go) RuntimeBaseImage(_ string) string { return "alpine:3.20" }

func (Go) RequiredPackages() []string { return []string{"ca-certificates"} }

func (Go) StartCommand(entrypoint string) []string { return []string{entrypoint} }

func (Go) RuntimePackages(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) ([]string, error) {
	return nil, nil
}

func (Go) RuntimeEnv(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) (map[string]string, error) {
	return nil, nil
}
