package registry

import "context"

// Manifest is a file path plus its basename. A manifest belongs to
// exactly one (language, build system) at any instant (spec.md §3).
type Manifest struct {
	Path     string // relative to repo root
	Basename string
}

// DetectionStack is the Scanner's atomic output for one manifest.
type DetectionStack struct {
	BuildSystem    ID
	Language       ID
	ManifestPath   string
	Depth          int
	Confidence     Confidence
	IsWorkspaceRoot bool

	// rawConfidence is the plugin's internal scalar score, retained only
	// for deterministic tie-breaking during scanner deduplication. It is
	// never serialized or otherwise surfaced (spec.md §9).
	rawConfidence float64
}

// NewDetectionStack builds a DetectionStack from a plugin's raw score,
// deriving the public tri-state Confidence.
func NewDetectionStack(buildSystem, language ID, manifestPath string, depth int, score float64, isWorkspaceRoot bool) DetectionStack {
	return DetectionStack{
		BuildSystem:     buildSystem,
		Language:        language,
		ManifestPath:    manifestPath,
		Depth:           depth,
		Confidence:      confidenceFromScore(score),
		IsWorkspaceRoot: isWorkspaceRoot,
		rawConfidence:   score,
	}
}

// RawScore exposes the internal scalar strictly for tie-breaking logic
// within this module (scanner deduplication); it is unexported-backed
// and intentionally has no JSON tag.
func (d DetectionStack) RawScore() float64 { return d.rawConfidence }

// Package represents one package entry inside a WorkspaceStructure.
type Package struct {
	Path     string
	Manifest Manifest
}

// WorkspaceStructure is Structure's (D4) output.
type WorkspaceStructure struct {
	Orchestrator ID // zero value if none detected
	Packages     []Package
}

// Service is a single independently-deployable unit identified by the
// Classifier (D3).
type Service struct {
	Path        string // relative, canonical
	Manifest    Manifest
	LanguageID  ID
	BuildSystemID ID
}

// Stack is the (language, build system, framework?, runtime, version?)
// tuple derived by the Per-Service Analyzer's Stack Identification
// sub-phase (D8.1).
type Stack struct {
	Language    ID
	BuildSystem ID
	Framework   ID // zero value if none matched
	Runtime     ID
	Version     string // empty if undetermined
}

// EnvVar is a single environment variable, name/value pair. Value may
// be empty to indicate "declared, value unknown" (e.g. discovered via
// a pattern match rather than a literal default).
type EnvVar struct {
	Name  string
	Value string
}

// HealthCheck describes a liveness/readiness probe discovered from
// framework conventions or manifest content.
type HealthCheck struct {
	Path            string
	IntervalSeconds int
}

// EntrypointSource records which extraction step produced the
// runtime entrypoint, restoring the original pipeline's distinction
// between a manifest-declared and a runtime-default entrypoint
// (see SPEC_FULL.md §3, "Entrypoint sub-phase split").
type EntrypointSource string

const (
	EntrypointSourceManifest EntrypointSource = "manifest"
	EntrypointSourceDefault  EntrypointSource = "runtime-default"
	EntrypointSourceNone     EntrypointSource = ""
)

// RuntimeConfig is the Runtime Configuration sub-phase's (D8.2) output.
// Lifecycle: produced by the runtime plugin's TryExtract; may be empty
// (all zero values) without error.
type RuntimeConfig struct {
	Entrypoint       string
	EntrypointSource EntrypointSource
	Port             uint16 // 0 if undetermined
	EnvVars          []EnvVar
	Health           *HealthCheck
	NativeDeps       []string
	BaseImage        string
}

// Dep is a single dependency extracted from a manifest by a language
// plugin's ParseDependencies.
type Dep struct {
	Name    string
	Version string
	Path    string // non-empty for an Internal dep: the resolved local path
}

// DetectionMethod records whether a dependency parse was performed
// deterministically or required the LLM fallback (spec.md §4.D5).
type DetectionMethod string

const (
	DetectedByDeterministic DetectionMethod = "deterministic"
	DetectedByLLM           DetectionMethod = "llm"
)

// Dependencies is the per-manifest output of the Dependency Parser.
type Dependencies struct {
	Internal   []Dep
	External   []Dep
	DetectedBy DetectionMethod
}

// CopyEntry is a single (from, to) pair for runtime-stage COPY
// instructions in a BuildTemplate / UniversalBuild.
type CopyEntry struct {
	From string
	To   string
}

// BuildTemplate is generated by a build-system plugin's BuildTemplate
// method, given a package-index snapshot, the service path, and
// optional manifest content. Template strings may contain the
// placeholder "{project_name}", resolved at assembly time (D9).
type BuildTemplate struct {
	BuildPackages   []string
	RuntimePackages []string
	BuildEnv        map[string]string
	RuntimeEnv      map[string]string
	BuildCommands   []string
	RuntimeCopy     []CopyEntry
}

// PackageIndex is the read-only capability a build-system plugin uses
// to validate that a system package name actually exists before
// listing it in a BuildTemplate (spec.md §1, "the package-index
// service used to validate system package names" — an external
// collaborator whose contract is just this interface).
type PackageIndex interface {
	// Exists reports whether name is a valid system package for the
	// given build system's package manager (apt, apk, etc). Implementations
	// may return (true, nil) conservatively when the index is unavailable;
	// callers must not treat an error as "package does not exist".
	Exists(ctx context.Context, buildSystem ID, name string) (bool, error)
}
