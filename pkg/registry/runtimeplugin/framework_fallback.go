package runtimeplugin

import "github.com/peelbox/peelbox/pkg/registry"

// extractFromFramework builds the RuntimeConfig every managed-runtime
// plugin (Node, Python, JVM) falls back to when it has no file-level
// signal of its own: the matched framework's first declared default
// port and first declared health endpoint. Grounded on
// original_source/src/stack/runtime/{node,python,jvm}.rs, whose
// try_extract bodies are identical modulo the runtime name.
func extractFromFramework(framework registry.FrameworkPlugin) *registry.RuntimeConfig {
	cfg := &registry.RuntimeConfig{}
	if framework == nil {
		return cfg
	}
	if ports := framework.DefaultPorts(); len(ports) > 0 {
		cfg.Port = ports[0]
	}
	if endpoints := framework.HealthEndpoints(nil); len(endpoints) > 0 {
		cfg.Health = &registry.HealthCheck{Path: endpoints[0]}
	}
	return cfg
}
