package lang

import (
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/peelbox/peelbox/pkg/registry"
)

// Python is the registry.LanguagePlugin for pyproject.toml /
// requirements.txt projects.
type Python struct{}

func (Python) ID() registry.ID { return registry.LangPython }

func (Python) Extensions() []string { return []string{".py"} }

func (Python) ExcludedDirs() []string {
	return []string{"__pycache__", ".venv", "venv", ".pytest_cache", ".mypy_cache"}
}

func (Python) WorkspaceConfigs() []string { return nil }

type pyproject struct {
	Project struct {
		Name         string   `toml:"name"`
		Version      string   `toml:"version"`
		Dependencies []string `toml:"dependencies"`
		Scripts      map[string]string `toml:"scripts"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name         string            `toml:"name"`
			Version      string            `toml:"version"`
			Dependencies map[string]any    `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// Detect distinguishes Poetry from plain pip by the presence of the
// [tool.poetry] table, grounded on the teacher's pythonMiddlewareVersionDetector
// which reads the same file with the same BurntSushi/toml library
// (pkg/scaffolding/middleware_version.go).
func (Python) Detect(manifestName string, content []byte) (registry.ID, float64) {
	switch manifestName {
	case "requirements.txt":
		return registry.BuildSystemPip, 0.7
	case "pyproject.toml":
		if content == nil {
			return registry.BuildSystemPip, 0.5
		}
		var p pyproject
		if err := toml.Unmarshal(content, &p); err != nil {
			return registry.BuildSystemPip, 0.3
		}
		if p.Tool.Poetry.Name != "" || len(p.Tool.Poetry.Dependencies) > 0 {
			return registry.BuildSystemPoetry, 0.9
		}
		return registry.BuildSystemPip, 0.8
	default:
		return registry.ID{}, 0
	}
}

var requirementLineRe = regexp.MustCompile(`^([A-Za-z0-9_.\-]+)\s*([=<>!~]=?\s*[^\s;#]+)?`)

// ParseDependencies handles both pyproject.toml's PEP 621
// "name==1.2.3" strings and requirements.txt's line-oriented format.
// Python has no manifest-native notion of an internal/local dependency
// (no workspace protocol comparable to npm's); every parsed dependency
// is external, matching the original analyzer's behavior for this
// language.
func (Python) ParseDependencies(content []byte, _ []string) (registry.Dependencies, error) {
	deps := registry.Dependencies{DetectedBy: registry.DetectedByDeterministic}

	if strings.Contains(string(content), "[project]") || strings.Contains(string(content), "[tool.poetry]") {
		var p pyproject
		if err := toml.Unmarshal(content, &p); err != nil {
			return registry.Dependencies{}, err
		}
		for _, line := range p.Project.Dependencies {
			if m := requirementLineRe.FindStringSubmatch(line); m != nil {
				deps.External = append(deps.External, registry.Dep{Name: m[1], Version: strings.TrimSpace(m[2])})
			}
		}
		for name, spec := range p.Tool.Poetry.Dependencies {
			if name == "python" {
				continue
			}
			version, _ := spec.(string)
			deps.External = append(deps.External, registry.Dep{Name: name, Version: version})
		}
		return deps, nil
	}

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m := requirementLineRe.FindStringSubmatch(line); m != nil {
			deps.External = append(deps.External, registry.Dep{Name: m[1], Version: strings.TrimSpace(m[2])})
		}
	}
	return deps, nil
}

func (Python) EnvVarPatterns() []string { return []string{"PYTHONUNBUFFERED", "PORT"} }

func (Python) PortPatterns() []string {
	return []string{`port\s*=\s*(\d{2,5})`, `\.run\([^)]*port=(\d{2,5})`}
}

func (Python) HealthPatterns() []string { return []string{"/health", "/healthz"} }

func (Python) DefaultPort() uint16 { return 8000 }

func (Python) RuntimeName() registry.ID { return registry.RuntimePython }

// DefaultEntrypoint falls back to the interpreter/script convention
// when no console-script name is known; a non-empty name is a
// pyproject.toml [project.scripts] entry, installed onto PATH by pip
// and runnable directly.
func (Python) DefaultEntrypoint(name string) string {
	if name == "" {
		return "python main.py"
	}
	return name
}

// ParseEntrypointFromManifest reads pyproject.toml's [project.scripts]
// table, when declared, using the first script entry found.
func (Python) ParseEntrypointFromManifest(content []byte) (string, bool) {
	var p pyproject
	if err := toml.Unmarshal(content, &p); err != nil || len(p.Project.Scripts) == 0 {
		return "", false
	}
	for name := range p.Project.Scripts {
		return name, true
	}
	return "", false
}
