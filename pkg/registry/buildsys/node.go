package buildsys

import (
	"context"
	"encoding/json"

	"github.com/peelbox/peelbox/pkg/registry"
)

// nodePackageJSON mirrors the subset of package.json a build-system
// plugin needs: name/version for ParsePackageMetadata. scripts is not
// read.
type nodePackageJSON struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func parseNodeMetadata(content []byte) (string, string) {
	var pkg nodePackageJSON
	if err := json.Unmarshal(content, &pkg); err != nil {
		return "", ""
	}
	return pkg.Name, pkg.Version
}

// Npm is the registry.BuildSystemPlugin for npm-managed Node projects.
type Npm struct{}

func (Npm) ID() registry.ID { return registry.BuildSystemNpm }

func (Npm) ManifestPatterns() []registry.ManifestPattern {
	return []registry.ManifestPattern{
		{Filename: "package-lock.json", Priority: 90},
		{Filename: "package.json", Priority: 10},
	}
}

func (Npm) CacheDirs() []string { return []string{"node_modules", "/root/.npm"} }

func (Npm) BuildTemplate(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) (registry.BuildTemplate, error) {
	return registry.BuildTemplate{
		BuildCommands: []string{"npm ci", "npm run build --if-present"},
		RuntimeCopy: []registry.CopyEntry{
			{From: "/app/{project_name}", To: "/app"},
		},
	}, nil
}

func (Npm) ParsePackageMetadata(content []byte) (string, string) { return parseNodeMetadata(content) }

// Yarn is the registry.BuildSystemPlugin for Yarn-managed Node
// projects (Classic and Berry).
type Yarn struct{}

func (Yarn) ID() registry.ID { return registry.BuildSystemYarn }

func (Yarn) ManifestPatterns() []registry.ManifestPattern {
	return []registry.ManifestPattern{
		{Filename: "yarn.lock", Priority: 90},
		{Filename: "package.json", Priority: 10},
	}
}

func (Yarn) CacheDirs() []string { return []string{"node_modules", ".yarn/cache", "/usr/local/share/.cache/yarn"} }

func (Yarn) BuildTemplate(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) (registry.BuildTemplate, error) {
	return registry.BuildTemplate{
		BuildCommands: []string{"yarn install --frozen-lockfile", "yarn build --if-present"},
		RuntimeCopy: []registry.CopyEntry{
			{From: "/app/{project_name}", To: "/app"},
		},
	}, nil
}

func (Yarn) ParsePackageMetadata(content []byte) (string, string) { return parseNodeMetadata(content) }

// Pnpm is the registry.BuildSystemPlugin for pnpm-managed Node
// projects, including workspace roots (spec.md end-to-end scenario 3).
type Pnpm struct{}

func (Pnpm) ID() registry.ID { return registry.BuildSystemPnpm }

func (Pnpm) ManifestPatterns() []registry.ManifestPattern {
	return []registry.ManifestPattern{
		{Filename: "pnpm-lock.yaml", Priority: 90},
		{Filename: "package.json", Priority: 10},
	}
}

func (Pnpm) CacheDirs() []string { return []string{"node_modules", ".pnpm-store"} }

func (Pnpm) BuildTemplate(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) (registry.BuildTemplate, error) {
	return registry.BuildTemplate{
		BuildCommands: []string{"pnpm install --frozen-lockfile", "pnpm run build --if-present"},
		RuntimeCopy: []registry.CopyEntry{
			{From: "/app/{project_name}", To: "/app"},
		},
	}, nil
}

func (Pnpm) ParsePackageMetadata(content []byte) (string, string) { return parseNodeMetadata(content) }
