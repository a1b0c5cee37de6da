// Package universalbuild defines the UniversalBuild schema, the
// language-neutral handoff between the Detection Pipeline and the
// Build Session (spec.md §3). It has no dependency on pkg/registry:
// the Assembler (pkg/assemble) is the only producer, and pkg/session
// is the only consumer.
package universalbuild

// Version is the schema version stamped into every UniversalBuild.
const Version = "1.0"

// HealthCheck describes a liveness/readiness probe.
type HealthCheck struct {
	Path            string `json:"path"`
	IntervalSeconds int    `json:"interval_seconds,omitempty"`
}

// CopyEntry is a single (from, to) pair for a runtime-stage COPY.
type CopyEntry struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Metadata carries the assembler's provenance for a service.
type Metadata struct {
	ProjectName string `json:"project_name"`
	Language    string `json:"language"`
	BuildSystem string `json:"build_system"`
	Framework   string `json:"framework,omitempty"`
	Reasoning   string `json:"reasoning,omitempty"`
}

// Build is the build-stage half of a UniversalBuild.
type Build struct {
	Packages []string          `json:"packages"`
	Env      map[string]string `json:"env"`
	Commands []string          `json:"commands"`
	Cache    []string          `json:"cache"`
}

// Runtime is the runtime-stage half of a UniversalBuild.
type Runtime struct {
	Packages []string          `json:"packages"`
	Env      map[string]string `json:"env"`
	Copy     []CopyEntry       `json:"copy"`
	Command  []string          `json:"command"`
	Workdir  string            `json:"workdir"`
	Ports    []uint16          `json:"ports"`
	Health   *HealthCheck      `json:"health,omitempty"`
	// BaseImage names the runtime-stage container image the LLB
	// encoder (pkg/session) builds the final image atop, e.g.
	// "python:3.12-slim" or "alpine:3.20" — the runtime plugin's own
	// runtime_base_image(version), carried into the handoff artifact
	// so the Build Session never has to re-derive it from the
	// language/runtime identifiers.
	BaseImage string `json:"base_image"`
}

// UniversalBuild is the complete handoff artifact for one service. See
// spec.md §3 for the JSON shape and §8 invariant 1 (runtime.command
// and runtime.ports are both non-empty for every emitted build).
type UniversalBuild struct {
	SchemaVersion string   `json:"version"`
	Metadata      Metadata `json:"metadata"`
	Build         Build    `json:"build"`
	Runtime       Runtime  `json:"runtime"`
}

// New constructs a UniversalBuild stamped with the current schema
// version; callers still populate Metadata/Build/Runtime.
func New() UniversalBuild {
	return UniversalBuild{
		SchemaVersion: Version,
		Build:         Build{Env: map[string]string{}},
		Runtime:       Runtime{Env: map[string]string{}, Workdir: "/app"},
	}
}

// Valid reports the two structural invariants spec.md §3 and §8.1 make
// non-negotiable: a non-empty runtime command and at least one port.
func (u UniversalBuild) Valid() error {
	if len(u.Runtime.Command) == 0 {
		return errEmptyCommand{ProjectName: u.Metadata.ProjectName}
	}
	if len(u.Runtime.Ports) == 0 {
		return errEmptyPorts{ProjectName: u.Metadata.ProjectName}
	}
	return nil
}

type errEmptyCommand struct{ ProjectName string }

func (e errEmptyCommand) Error() string {
	return "service " + e.ProjectName + " has an empty runtime.command"
}

type errEmptyPorts struct{ ProjectName string }

func (e errEmptyPorts) Error() string {
	return "service " + e.ProjectName + " has an empty runtime.ports"
}
