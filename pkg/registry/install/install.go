// Package install wires every built-in plugin into a fresh
// registry.Registry. It is the one place in the module allowed to
// import every pkg/registry subpackage at once; pkg/registry itself
// stays dependency-free so plugin packages can each depend only on it.
package install

import (
	"github.com/peelbox/peelbox/pkg/registry"
	"github.com/peelbox/peelbox/pkg/registry/buildsys"
	"github.com/peelbox/peelbox/pkg/registry/framework"
	"github.com/peelbox/peelbox/pkg/registry/lang"
	"github.com/peelbox/peelbox/pkg/registry/orchestrator"
	"github.com/peelbox/peelbox/pkg/registry/runtimeplugin"
)

// New builds a registry.Registry pre-populated with every built-in
// plugin. Callers needing the LLM-discovery escape hatch register
// further plugins on the result with RegisterLLMLanguage /
// RegisterLLMBuildSystem.
func New() *registry.Registry {
	r := registry.New()

	r.RegisterLanguage(lang.Go{})
	r.RegisterLanguage(lang.Node{})
	r.RegisterLanguage(lang.Python{})
	r.RegisterLanguage(lang.Rust{})
	r.RegisterLanguage(lang.Java{})

	r.RegisterBuildSystem(buildsys.GoMod{})
	r.RegisterBuildSystem(buildsys.Npm{})
	r.RegisterBuildSystem(buildsys.Yarn{})
	r.RegisterBuildSystem(buildsys.Pnpm{})
	r.RegisterBuildSystem(buildsys.Pip{})
	r.RegisterBuildSystem(buildsys.Poetry{})
	r.RegisterBuildSystem(buildsys.Cargo{})
	r.RegisterBuildSystem(buildsys.Maven{})
	r.RegisterBuildSystem(buildsys.Gradle{})

	r.RegisterFramework(framework.Express{})
	r.RegisterFramework(framework.Fastify{})
	r.RegisterFramework(framework.Flask{})
	r.RegisterFramework(framework.Django{})
	r.RegisterFramework(framework.FastAPI{})
	r.RegisterFramework(framework.Spring{})
	r.RegisterFramework(framework.Actix{})
	r.RegisterFramework(framework.Rocket{})

	r.RegisterRuntime(runtimeplugin.Node{})
	r.RegisterRuntime(runtimeplugin.Python{})
	r.RegisterRuntime(runtimeplugin.Go{})
	r.RegisterRuntime(runtimeplugin.JVM{})
	r.RegisterRuntime(runtimeplugin.Rust{})

	r.RegisterOrchestrator(orchestrator.PnpmWorkspace{})
	r.RegisterOrchestrator(orchestrator.CargoWorkspace{})
	r.RegisterOrchestrator(orchestrator.Turborepo{})
	r.RegisterOrchestrator(orchestrator.Nx{})
	r.RegisterOrchestrator(orchestrator.YarnWorkspace{})

	return r
}
