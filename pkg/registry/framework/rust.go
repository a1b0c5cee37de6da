package framework

import (
	"regexp"

	"github.com/peelbox/peelbox/pkg/registry"
)

var rustBuildSystems = []registry.ID{registry.BuildSystemCargo}

// Actix is the registry.FrameworkPlugin for actix-web.
type Actix struct{}

func (Actix) ID() registry.ID                       { return registry.FrameworkActix }
func (Actix) CompatibleLanguages() []registry.ID    { return []registry.ID{registry.LangRust} }
func (Actix) CompatibleBuildSystems() []registry.ID { return rustBuildSystems }
func (Actix) DependencyPatterns() []string          { return []string{"actix-web"} }
func (Actix) DefaultPorts() []uint16                { return []uint16{8080} }
func (Actix) HealthEndpoints(_ []string) []string   { return []string{"/health", "/healthz"} }
func (Actix) RuntimeEnvVars() []registry.EnvVar      { return nil }
func (Actix) ConfigFiles() []string                 { return nil }

var actixBindRe = regexp.MustCompile(`\.bind\(\s*\(?"[^"]*",?\s*(\d{2,5})`)

// ParseConfig looks for an actix HttpServer::bind(("0.0.0.0", N)) or
// bind("0.0.0.0:N") call in the service's main entrypoint.
func (Actix) ParseConfig(_ string, content []byte) (*registry.FrameworkConfig, bool) {
	m := actixBindRe.FindSubmatch(content)
	if m == nil {
		return nil, false
	}
	n, ok := parsePort(string(m[1]))
	if !ok {
		return nil, false
	}
	return &registry.FrameworkConfig{Port: n}, true
}

// Rocket is the registry.FrameworkPlugin for the Rocket web framework.
type Rocket struct{}

func (Rocket) ID() registry.ID                       { return registry.FrameworkRocket }
func (Rocket) CompatibleLanguages() []registry.ID    { return []registry.ID{registry.LangRust} }
func (Rocket) CompatibleBuildSystems() []registry.ID { return rustBuildSystems }
func (Rocket) DependencyPatterns() []string          { return []string{"rocket"} }
func (Rocket) DefaultPorts() []uint16                { return []uint16{8000} }
func (Rocket) HealthEndpoints(_ []string) []string   { return []string{"/health"} }
func (Rocket) RuntimeEnvVars() []registry.EnvVar {
	return []registry.EnvVar{{Name: "ROCKET_ADDRESS", Value: "0.0.0.0"}}
}
func (Rocket) ConfigFiles() []string { return []string{"Rocket.toml"} }

var rocketPortRe = regexp.MustCompile(`port\s*=\s*(\d{2,5})`)

// ParseConfig reads Rocket.toml's top-level "port = N" key; Rocket.toml
// is a plain TOML file but only one scalar is needed here, so a
// regex keeps this consistent with the framework plugins that parse a
// single value out of a larger config format.
func (Rocket) ParseConfig(_ string, content []byte) (*registry.FrameworkConfig, bool) {
	m := rocketPortRe.FindSubmatch(content)
	if m == nil {
		return nil, false
	}
	n, ok := parsePort(string(m[1]))
	if !ok {
		return nil, false
	}
	return &registry.FrameworkConfig{Port: n}, true
}
