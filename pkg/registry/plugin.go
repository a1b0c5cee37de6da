package registry

import "context"

// ManifestPattern is one filename a build system recognizes, with a
// priority used to break ties when a directory holds more than one
// manifest (spec.md §3 DetectionStack invariant).
type ManifestPattern struct {
	Filename string
	Priority int
}

// LanguagePlugin is the contract a language implementation fulfills.
// See spec.md §4.D1.
type LanguagePlugin interface {
	ID() ID
	Extensions() []string
	ExcludedDirs() []string
	WorkspaceConfigs() []string

	// Detect returns the build system this manifest implies, plus a
	// [0,1] confidence score. content is nil when the manifest has not
	// been read yet (detection from filename alone).
	Detect(manifestName string, content []byte) (ID, float64)

	// ParseDependencies delegates to the manifest's declarative shape
	// (TOML table, JSON object, regex-line, XML node...) and splits the
	// result into internal (path/workspace-local) vs external deps.
	ParseDependencies(content []byte, internalPaths []string) (Dependencies, error)

	EnvVarPatterns() []string
	PortPatterns() []string
	HealthPatterns() []string
	DefaultPort() uint16
	RuntimeName() ID
	DefaultEntrypoint(projectName string) string

	// ParseEntrypointFromManifest returns ("", false) when the manifest
	// does not declare an explicit entrypoint/main.
	ParseEntrypointFromManifest(content []byte) (string, bool)
}

// BuildSystemPlugin is the contract a build-system implementation
// fulfills. See spec.md §4.D1.
type BuildSystemPlugin interface {
	ID() ID
	ManifestPatterns() []ManifestPattern
	CacheDirs() []string

	BuildTemplate(ctx context.Context, index PackageIndex, servicePath string, manifestContent []byte) (BuildTemplate, error)

	// ParsePackageMetadata extracts the project name/version from
	// manifest content, when declared. Absent values are "".
	ParsePackageMetadata(content []byte) (name string, version string)
}

// FrameworkPlugin is the contract a web/application framework
// implementation fulfills. See spec.md §4.D1.
type FrameworkPlugin interface {
	ID() ID
	CompatibleLanguages() []ID
	CompatibleBuildSystems() []ID

	// DependencyPatterns are dependency names (or name prefixes) whose
	// presence in a service's parsed Dependencies implies this framework.
	DependencyPatterns() []string

	DefaultPorts() []uint16

	// HealthEndpoints inspects a file list (paths relative to the
	// service root) for conventional health-check routes.
	HealthEndpoints(files []string) []string

	RuntimeEnvVars() []EnvVar
	ConfigFiles() []string

	// ParseConfig parses one of ConfigFiles' content into a
	// FrameworkConfig, or (nil, false) if the file doesn't hold anything
	// this framework plugin recognizes.
	ParseConfig(path string, content []byte) (*FrameworkConfig, bool)
}

// FrameworkConfig is whatever structured data a framework plugin could
// pull out of one of its ConfigFiles (e.g. a declared port in a YAML
// settings file). Fields are all optional.
type FrameworkConfig struct {
	Port   uint16
	Health *HealthCheck
	Env    []EnvVar
}

// RuntimePlugin is the contract a language runtime implementation
// fulfills. See spec.md §4.D1.
type RuntimePlugin interface {
	ID() ID

	// TryExtract inspects the absolute file list (and optional matched
	// framework, whose own defaults the runtime plugin is expected to
	// fall back to for port/health when it has no file-level signal of
	// its own) to populate a RuntimeConfig. Returning (nil, nil) means
	// "nothing found", which is not an error.
	TryExtract(files []string, framework FrameworkPlugin) (*RuntimeConfig, error)

	RuntimeBaseImage(version string) string
	RequiredPackages() []string
	StartCommand(entrypoint string) []string

	RuntimePackages(ctx context.Context, index PackageIndex, path string, manifestContent []byte) ([]string, error)
	RuntimeEnv(ctx context.Context, index PackageIndex, path string, manifestContent []byte) (map[string]string, error)
}

// OrchestratorPlugin is the contract a monorepo orchestrator
// implementation fulfills. See spec.md §4.D1.
type OrchestratorPlugin interface {
	ID() ID
	Name() string

	// Detect inspects the scanned file tree (relative paths) and, for
	// files it needs to read, calls back into fs. Returns (nil, nil)
	// when this orchestrator's marker file is absent.
	Detect(fileTree []string, fs ReadFS) (*WorkspaceStructure, error)

	CacheDirs() []string

	// Priority breaks ties when more than one orchestrator plugin could
	// claim the same repository; lower runs first.
	Priority() int
}

// ReadFS is the minimal read capability an orchestrator (or the
// Scanner) needs against a repository: read one file's content by its
// path relative to the repo root. Kept deliberately narrow so test
// doubles are trivial to write.
type ReadFS interface {
	ReadFile(relPath string) ([]byte, error)
}
