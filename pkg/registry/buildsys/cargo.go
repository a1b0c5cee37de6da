package buildsys

import (
	"context"

	"github.com/pelletier/go-toml"

	"github.com/peelbox/peelbox/pkg/registry"
)

// Cargo is the registry.BuildSystemPlugin for Rust's Cargo.toml,
// matching spec.md's end-to-end scenario 1 (single Rust binary).
type Cargo struct{}

func (Cargo) ID() registry.ID { return registry.BuildSystemCargo }

func (Cargo) ManifestPatterns() []registry.ManifestPattern {
	return []registry.ManifestPattern{{Filename: "Cargo.toml", Priority: 100}}
}

func (Cargo) CacheDirs() []string { return []string{"/root/.cargo/registry", "target"} }

func (Cargo) BuildTemplate(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) (registry.BuildTemplate, error) {
	return registry.BuildTemplate{
		BuildCommands: []string{"cargo build --release"},
		RuntimeCopy: []registry.CopyEntry{
			{From: "/app/target/release/{project_name}", To: "/usr/local/bin/{project_name}"},
		},
		RuntimePackages: []string{"ca-certificates", "libgcc-s1"},
	}, nil
}

func (Cargo) ParsePackageMetadata(content []byte) (name string, version string) {
	tree, err := toml.LoadBytes(content)
	if err != nil {
		return "", ""
	}
	if n, ok := tree.Get("package.name").(string); ok {
		name = n
	}
	if v, ok := tree.Get("package.version").(string); ok {
		version = v
	}
	return name, version
}
