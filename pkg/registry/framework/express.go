// Package framework holds the concrete registry.FrameworkPlugin
// implementations. Each file owns one framework and only imports
// pkg/registry.
package framework

import (
	"regexp"
	"strings"

	"github.com/peelbox/peelbox/pkg/registry"
)

// Express is the registry.FrameworkPlugin for Express.js.
type Express struct{}

func (Express) ID() registry.ID { return registry.FrameworkExpress }

func (Express) CompatibleLanguages() []registry.ID { return []registry.ID{registry.LangNode} }

func (Express) CompatibleBuildSystems() []registry.ID {
	return []registry.ID{registry.BuildSystemNpm, registry.BuildSystemYarn, registry.BuildSystemPnpm}
}

func (Express) DependencyPatterns() []string { return []string{"express"} }

func (Express) DefaultPorts() []uint16 { return []uint16{3000} }

func (Express) HealthEndpoints(_ []string) []string {
	return []string{"/health", "/healthz", "/ping"}
}

func (Express) RuntimeEnvVars() []registry.EnvVar {
	return []registry.EnvVar{{Name: "NODE_ENV", Value: "production"}}
}

func (Express) ConfigFiles() []string {
	return []string{"server.js", "app.js", "index.js", "src/server.js", "src/app.js", "src/index.js"}
}

var (
	listenCallRe   = regexp.MustCompile(`\.listen\(\s*(\d{2,5})`)
	listenDefaultRe = regexp.MustCompile(`process\.env\.PORT\s*\|\|\s*(\d{2,5})`)
	processEnvRe   = regexp.MustCompile(`process\.env\.([A-Z_][A-Z0-9_]*)`)
)

// ParseConfig scans an Express entrypoint file line by line for a
// literal app.listen/server.listen port and any process.env.* usage,
// mirroring the original analyzer's line-oriented Express config
// extractor (recovered from original_source's express.rs) rather than
// attempting a JS AST parse.
func (Express) ParseConfig(_ string, content []byte) (*registry.FrameworkConfig, bool) {
	cfg := &registry.FrameworkConfig{}
	found := false
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if (strings.Contains(trimmed, "app.listen") || strings.Contains(trimmed, "server.listen")) && cfg.Port == 0 {
			if m := listenCallRe.FindStringSubmatch(trimmed); m != nil {
				if p, ok := parsePort(m[1]); ok {
					cfg.Port = p
					found = true
				}
			}
		}
		if strings.Contains(trimmed, "PORT") && strings.Contains(trimmed, "||") && cfg.Port == 0 {
			if m := listenDefaultRe.FindStringSubmatch(trimmed); m != nil {
				if p, ok := parsePort(m[1]); ok {
					cfg.Port = p
					found = true
				}
			}
		}
		if strings.Contains(trimmed, "process.env.") {
			for _, m := range processEnvRe.FindAllStringSubmatch(trimmed, -1) {
				cfg.Env = append(cfg.Env, registry.EnvVar{Name: m[1]})
				found = true
			}
		}
	}
	if !found {
		return nil, false
	}
	return cfg, true
}

// Fastify is the registry.FrameworkPlugin for Fastify, which shares
// Express's `.listen(port)` convention closely enough to reuse the
// same line scan; it differs only in its health route convention.
type Fastify struct{}

func (Fastify) ID() registry.ID { return registry.FrameworkFastify }

func (Fastify) CompatibleLanguages() []registry.ID { return []registry.ID{registry.LangNode} }

func (Fastify) CompatibleBuildSystems() []registry.ID {
	return []registry.ID{registry.BuildSystemNpm, registry.BuildSystemYarn, registry.BuildSystemPnpm}
}

func (Fastify) DependencyPatterns() []string { return []string{"fastify"} }

func (Fastify) DefaultPorts() []uint16 { return []uint16{3000} }

func (Fastify) HealthEndpoints(_ []string) []string { return []string{"/health", "/healthz"} }

func (Fastify) RuntimeEnvVars() []registry.EnvVar {
	return []registry.EnvVar{{Name: "NODE_ENV", Value: "production"}}
}

func (Fastify) ConfigFiles() []string {
	return []string{"server.js", "app.js", "index.js", "src/server.js", "src/app.js", "src/index.js"}
}

// ParseConfig reuses Express's listen/env-var scan: Fastify's
// `fastify.listen({port})` and `.listen(port)` call forms both contain
// a bare port literal the same regex catches.
func (Fastify) ParseConfig(path string, content []byte) (*registry.FrameworkConfig, bool) {
	return Express{}.ParseConfig(path, content)
}

func parsePort(s string) (uint16, bool) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n <= 0 || n > 65535 {
		return 0, false
	}
	return uint16(n), true
}
