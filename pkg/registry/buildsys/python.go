package buildsys

import (
	"context"

	"github.com/BurntSushi/toml"

	"github.com/peelbox/peelbox/pkg/registry"
)

type pyprojectMeta struct {
	Project struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name    string `toml:"name"`
			Version string `toml:"version"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// Pip is the registry.BuildSystemPlugin for plain pip/requirements.txt
// projects.
type Pip struct{}

func (Pip) ID() registry.ID { return registry.BuildSystemPip }

func (Pip) ManifestPatterns() []registry.ManifestPattern {
	return []registry.ManifestPattern{
		{Filename: "requirements.txt", Priority: 50},
		{Filename: "pyproject.toml", Priority: 40},
	}
}

func (Pip) CacheDirs() []string { return []string{"/root/.cache/pip"} }

func (Pip) BuildTemplate(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) (registry.BuildTemplate, error) {
	return registry.BuildTemplate{
		BuildCommands:   []string{"pip install --no-cache-dir -r requirements.txt"},
		RuntimePackages: []string{"python3"},
		RuntimeCopy: []registry.CopyEntry{
			{From: "/app/{project_name}", To: "/app"},
		},
	}, nil
}

func (Pip) ParsePackageMetadata(content []byte) (string, string) {
	var p pyprojectMeta
	if err := toml.Unmarshal(content, &p); err != nil {
		return "", ""
	}
	return p.Project.Name, p.Project.Version
}

// Poetry is the registry.BuildSystemPlugin for Poetry-managed Python
// projects.
type Poetry struct{}

func (Poetry) ID() registry.ID { return registry.BuildSystemPoetry }

func (Poetry) ManifestPatterns() []registry.ManifestPattern {
	return []registry.ManifestPattern{
		{Filename: "poetry.lock", Priority: 90},
		{Filename: "pyproject.toml", Priority: 10},
	}
}

func (Poetry) CacheDirs() []string { return []string{"/root/.cache/pypoetry"} }

func (Poetry) BuildTemplate(_ context.Context, _ registry.PackageIndex, _ string, _ []byte) (registry.BuildTemplate, error) {
	return registry.BuildTemplate{
		BuildCommands:   []string{"poetry install --no-interaction --no-ansi --only main"},
		RuntimePackages: []string{"python3"},
		RuntimeCopy: []registry.CopyEntry{
			{From: "/app/{project_name}", To: "/app"},
		},
	}, nil
}

func (Poetry) ParsePackageMetadata(content []byte) (string, string) {
	var p pyprojectMeta
	if err := toml.Unmarshal(content, &p); err != nil {
		return "", ""
	}
	if p.Tool.Poetry.Name != "" {
		return p.Tool.Poetry.Name, p.Tool.Poetry.Version
	}
	return p.Project.Name, p.Project.Version
}
