package rootcache_test

import (
	"reflect"
	"testing"

	"github.com/peelbox/peelbox/pkg/registry"
	"github.com/peelbox/peelbox/pkg/registry/install"
	"github.com/peelbox/peelbox/pkg/rootcache"
)

// TestResolve_PnpmMonorepo covers spec.md §8 end-to-end scenario 3:
// root-cache dirs include node_modules and .pnpm-store.
func TestResolve_PnpmMonorepo(t *testing.T) {
	reg := install.New()
	ws := registry.WorkspaceStructure{Orchestrator: registry.OrchestratorPnpmWorkspace}
	dirs := rootcache.Resolve(reg, []registry.ID{registry.BuildSystemPnpm}, ws)

	want := []string{".pnpm-store", "node_modules"}
	sortedEqual(t, dirs, want)
}

func TestResolve_NoOrchestrator(t *testing.T) {
	reg := install.New()
	dirs := rootcache.Resolve(reg, []registry.ID{registry.BuildSystemCargo}, registry.WorkspaceStructure{})
	sortedEqual(t, dirs, []string{"/root/.cargo/registry", "target"})
}

func sortedEqual(t *testing.T, got, want []string) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
