// Package buildsys holds the concrete registry.BuildSystemPlugin
// implementations. Like lang, each file owns one build system and
// only imports pkg/registry.
package buildsys

import (
	"context"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/peelbox/peelbox/pkg/registry"
)

// GoMod is the registry.BuildSystemPlugin for `go build`.
type GoMod struct{}

func (GoMod) ID() registry.ID { return registry.BuildSystemGoMod }

func (GoMod) ManifestPatterns() []registry.ManifestPattern {
	return []registry.ManifestPattern{{Filename: "go.mod", Priority: 100}}
}

func (GoMod) CacheDirs() []string { return []string{"/root/go/pkg/mod", "/root/.cache/go-build"} }

// BuildTemplate produces a static release build. ca-certificates is
// the only runtime package a Go binary typically needs (TLS roots);
// the index is consulted so an unusual base distro that already
// bundles certs does not get a redundant install.
func (GoMod) BuildTemplate(ctx context.Context, index registry.PackageIndex, servicePath string, _ []byte) (registry.BuildTemplate, error) {
	tmpl := registry.BuildTemplate{
		BuildCommands: []string{
			"go build -o /out/{project_name} ./...",
		},
		RuntimeCopy: []registry.CopyEntry{
			{From: "/out/{project_name}", To: "/usr/local/bin/{project_name}"},
		},
		BuildEnv: map[string]string{"CGO_ENABLED": "0"},
	}
	if index != nil {
		ok, err := index.Exists(ctx, GoMod{}.ID(), "ca-certificates")
		if err == nil && ok {
			tmpl.RuntimePackages = append(tmpl.RuntimePackages, "ca-certificates")
		}
	} else {
		tmpl.RuntimePackages = append(tmpl.RuntimePackages, "ca-certificates")
	}
	return tmpl, nil
}

// ParsePackageMetadata reports the last element of the module path as
// the name ("github.com/x/foo" gives "foo"). go.mod has no version
// field of its own.
func (GoMod) ParsePackageMetadata(content []byte) (name string, version string) {
	f, err := modfile.Parse("go.mod", content, nil)
	if err != nil || f.Module == nil {
		return "", ""
	}
	path := f.Module.Mod.Path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:], ""
	}
	return path, ""
}
