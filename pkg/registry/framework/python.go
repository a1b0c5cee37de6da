package framework

import (
	"strconv"
	"strings"

	"github.com/peelbox/peelbox/pkg/registry"
)

var pythonBuildSystems = []registry.ID{registry.BuildSystemPip, registry.BuildSystemPoetry}

// Flask is the registry.FrameworkPlugin for Flask.
type Flask struct{}

func (Flask) ID() registry.ID                       { return registry.FrameworkFlask }
func (Flask) CompatibleLanguages() []registry.ID    { return []registry.ID{registry.LangPython} }
func (Flask) CompatibleBuildSystems() []registry.ID { return pythonBuildSystems }
func (Flask) DependencyPatterns() []string          { return []string{"flask", "Flask"} }
func (Flask) DefaultPorts() []uint16                { return []uint16{5000} }
func (Flask) HealthEndpoints(_ []string) []string   { return []string{"/health", "/healthz"} }

func (Flask) RuntimeEnvVars() []registry.EnvVar {
	return []registry.EnvVar{
		{Name: "FLASK_APP", Value: "app:app"},
		{Name: "FLASK_RUN_HOST", Value: "0.0.0.0"},
	}
}

func (Flask) ConfigFiles() []string {
	return []string{"config.py", "instance/config.py", "app/config.py"}
}

// ParseConfig looks for a literal "PORT = N" assignment, recovered
// from original_source's flask.rs parse_config.
func (Flask) ParseConfig(_ string, content []byte) (*registry.FrameworkConfig, bool) {
	cfg := &registry.FrameworkConfig{}
	found := false
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "PORT") && strings.Contains(trimmed, "=") {
			if eq := strings.IndexByte(trimmed, '='); eq >= 0 {
				if n, err := strconv.Atoi(extractNumber(trimmed[eq+1:])); err == nil && n > 0 {
					cfg.Port = uint16(n)
					found = true
				}
			}
		}
	}
	if !found {
		return nil, false
	}
	return cfg, true
}

// Django is the registry.FrameworkPlugin for Django.
type Django struct{}

func (Django) ID() registry.ID                       { return registry.FrameworkDjango }
func (Django) CompatibleLanguages() []registry.ID    { return []registry.ID{registry.LangPython} }
func (Django) CompatibleBuildSystems() []registry.ID { return pythonBuildSystems }
func (Django) DependencyPatterns() []string          { return []string{"django", "Django"} }
func (Django) DefaultPorts() []uint16                { return []uint16{8000} }
func (Django) HealthEndpoints(_ []string) []string   { return []string{"/health", "/healthz"} }

func (Django) RuntimeEnvVars() []registry.EnvVar {
	return []registry.EnvVar{{Name: "DJANGO_SETTINGS_MODULE"}}
}

func (Django) ConfigFiles() []string { return []string{"settings.py", "manage.py"} }

func (Django) ParseConfig(_ string, _ []byte) (*registry.FrameworkConfig, bool) { return nil, false }

// FastAPI is the registry.FrameworkPlugin for FastAPI.
type FastAPI struct{}

func (FastAPI) ID() registry.ID                       { return registry.FrameworkFastAPI }
func (FastAPI) CompatibleLanguages() []registry.ID    { return []registry.ID{registry.LangPython} }
func (FastAPI) CompatibleBuildSystems() []registry.ID { return pythonBuildSystems }
func (FastAPI) DependencyPatterns() []string          { return []string{"fastapi"} }
func (FastAPI) DefaultPorts() []uint16                { return []uint16{8000} }
func (FastAPI) HealthEndpoints(_ []string) []string   { return []string{"/health", "/healthz"} }
func (FastAPI) RuntimeEnvVars() []registry.EnvVar      { return nil }
func (FastAPI) ConfigFiles() []string                 { return []string{"main.py"} }

// ParseConfig looks for the conventional `uvicorn.run(..., port=N)`
// literal call, the standard way FastAPI apps declare their own port
// when not delegating to an ASGI server's CLI flags.
func (FastAPI) ParseConfig(_ string, content []byte) (*registry.FrameworkConfig, bool) {
	idx := strings.Index(string(content), "uvicorn.run")
	if idx < 0 {
		return nil, false
	}
	tail := string(content)[idx:]
	portIdx := strings.Index(tail, "port=")
	if portIdx < 0 {
		return nil, false
	}
	num := extractNumber(tail[portIdx+len("port="):])
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return nil, false
	}
	return &registry.FrameworkConfig{Port: uint16(n)}, true
}

func extractNumber(s string) string {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && (s[i] < '0' || s[i] > '9') {
		i++
	}
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	return s[i:j]
}
