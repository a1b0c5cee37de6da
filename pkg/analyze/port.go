package analyze

import (
	"strconv"

	"github.com/peelbox/peelbox/pkg/registry"
)

// resolvePort restores the original pipeline's distinct port-detection
// precedence (SPEC_FULL.md §3.3, original_source's 07_5_port.rs): a
// port already found on disk by the runtime plugin's file-level
// extraction wins outright; failing that, a matched framework's own
// default port; failing that, the language's generic default. Each
// fallback (as opposed to a literal file match) is recorded as
// "from env" with a PORT env var, mirroring the original's from_env
// flag — the assumption being that a containerized service reads its
// listen port from the environment unless a file said otherwise.
func resolvePort(cfg *registry.RuntimeConfig, framework registry.FrameworkPlugin, lang registry.LanguagePlugin) {
	if cfg.Port != 0 {
		return
	}
	if framework != nil {
		if ports := framework.DefaultPorts(); len(ports) > 0 {
			setPortFromEnv(cfg, ports[0])
			return
		}
	}
	if p := lang.DefaultPort(); p != 0 {
		setPortFromEnv(cfg, p)
	}
}

func setPortFromEnv(cfg *registry.RuntimeConfig, port uint16) {
	cfg.Port = port
	cfg.EnvVars = append(cfg.EnvVars, registry.EnvVar{Name: "PORT", Value: strconv.Itoa(int(port))})
}
