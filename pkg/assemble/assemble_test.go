package assemble_test

import (
	"testing"

	"github.com/peelbox/peelbox/pkg/analyze"
	"github.com/peelbox/peelbox/pkg/assemble"
	"github.com/peelbox/peelbox/pkg/registry"
	"github.com/peelbox/peelbox/pkg/registry/framework"
)

func TestAssemble_EmptyEntrypointRejected(t *testing.T) {
	in := assemble.Input{
		Service:  registry.Service{Path: "services/api"},
		Analysis: analyze.Result{Runtime: registry.RuntimeConfig{Entrypoint: "   "}, ProjectName: "api"},
	}
	_, err := assemble.Assemble(in)
	if err == nil {
		t.Fatal("expected an error for an empty entrypoint")
	}
}

func TestAssemble_EnvLayerPrecedence(t *testing.T) {
	in := assemble.Input{
		Service: registry.Service{Path: "services/api"},
		Analysis: analyze.Result{
			ProjectName: "api",
			Build: registry.BuildTemplate{
				RuntimeEnv: map[string]string{"NODE_ENV": "development", "LOG_LEVEL": "info"},
			},
			Runtime: registry.RuntimeConfig{
				Entrypoint: "node index.js",
				Port:       3000,
				EnvVars:    []registry.EnvVar{{Name: "PORT", Value: "3000"}},
			},
		},
		Framework: framework.Express{},
	}
	ub, err := assemble.Assemble(in)
	if err != nil {
		t.Fatal(err)
	}
	if ub.Runtime.Env["NODE_ENV"] != "production" {
		t.Fatalf("expected framework env to win over build-system env, got %q", ub.Runtime.Env["NODE_ENV"])
	}
	if ub.Runtime.Env["LOG_LEVEL"] != "info" {
		t.Fatalf("expected build-system-only env preserved, got %q", ub.Runtime.Env["LOG_LEVEL"])
	}
	if ub.Runtime.Env["PORT"] != "3000" {
		t.Fatalf("expected runtime-layer env preserved, got %q", ub.Runtime.Env["PORT"])
	}
	if len(ub.Runtime.Ports) != 1 || ub.Runtime.Ports[0] != 3000 {
		t.Fatalf("expected ports [3000], got %v", ub.Runtime.Ports)
	}
	if len(ub.Runtime.Command) != 2 || ub.Runtime.Command[0] != "node" {
		t.Fatalf("expected split command [node index.js], got %v", ub.Runtime.Command)
	}
}

func TestAssemble_RootLevelProjectNameFallback(t *testing.T) {
	in := assemble.Input{
		Service: registry.Service{Path: "."},
		Analysis: analyze.Result{
			Runtime: registry.RuntimeConfig{Entrypoint: "/usr/local/bin/{project_name}", Port: 8080},
		},
	}
	ub, err := assemble.Assemble(in)
	if err != nil {
		t.Fatal(err)
	}
	if ub.Metadata.ProjectName != "app" {
		t.Fatalf("expected project name fallback \"app\", got %q", ub.Metadata.ProjectName)
	}
	if len(ub.Runtime.Command) != 1 || ub.Runtime.Command[0] != "/usr/local/bin/app" {
		t.Fatalf("expected entrypoint substitution, got %v", ub.Runtime.Command)
	}
}
