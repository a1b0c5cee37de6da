// Package analyze implements the Per-Service Analyzer (spec.md §4.D8):
// given one classified Service, its parsed Dependencies, and an
// absolute repository root, it derives the service's Stack, its
// RuntimeConfig, its BuildTemplate, and its cache directories.
//
// The four sub-phases run in sequence and each may use the previous
// one's output (Runtime Configuration needs the matched Framework;
// Build takes its template from the build-system plugin and adds
// Runtime Configuration's native dependencies to its build packages). Failure in any sub-phase is per-service: the caller
// (pkg/assemble, eventually pkg/pipeline) decides whether one failing
// service sinks the whole run, per spec.md §7's PluginFailure
// classification (non-fatal, scoped to the offending service).
package analyze

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/peelbox/peelbox/pkg/perr"
	"github.com/peelbox/peelbox/pkg/registry"
)

// Input is everything the analyzer needs for one service.
type Input struct {
	RepoRoot        string
	Service         registry.Service
	ManifestContent []byte
	Dependencies    registry.Dependencies
	// AbsFiles is the absolute path of every file under the service's
	// directory, as required by RuntimePlugin.TryExtract.
	AbsFiles []string
}

// Result is the analyzer's complete per-service output, ready for the
// Assembler (D9) to fold into a UniversalBuild.
type Result struct {
	Stack          registry.Stack
	Runtime        registry.RuntimeConfig
	Build          registry.BuildTemplate
	CacheDirs      []string
	ProjectName    string
	ProjectVersion string

	// BuildCmd and OutputDir are the Build sub-phase's (D8.3) own
	// derived values (spec.md §4.D8 step 3). BuildCmd is the template's
	// build commands as-is; the Assembler resolves any "{project_name}"
	// placeholder in them. OutputDir is the first RuntimeCopy.From with
	// "{project_name}" stripped, trimmed to its containing directory
	// when the entry holds a glob.
	BuildCmd  []string
	OutputDir string
}

// Analyze runs all four D8 sub-phases for one service.
func Analyze(ctx context.Context, reg *registry.Registry, index registry.PackageIndex, in Input) (Result, error) {
	lang, err := reg.GetLanguage(in.Service.LanguageID)
	if err != nil {
		return Result{}, perr.PluginFailure{Service: in.Service.Path, Plugin: in.Service.LanguageID.String(), Cause: err}
	}
	buildSystem, err := reg.GetBuildSystem(in.Service.BuildSystemID)
	if err != nil {
		return Result{}, perr.PluginFailure{Service: in.Service.Path, Plugin: in.Service.BuildSystemID.String(), Cause: err}
	}

	stack := identifyStack(reg, lang, buildSystem, in.Dependencies)

	var framework registry.FrameworkPlugin
	if !stack.Framework.IsZero() {
		framework, err = reg.GetFramework(stack.Framework)
		if err != nil {
			return Result{}, perr.PluginFailure{Service: in.Service.Path, Plugin: stack.Framework.String(), Cause: err}
		}
	}

	runtimeCfg, err := configureRuntime(reg, stack.Runtime, lang, framework, in)
	if err != nil {
		return Result{}, err
	}

	buildTemplate, err := buildSystem.BuildTemplate(ctx, index, in.Service.Path, in.ManifestContent)
	if err != nil {
		return Result{}, perr.PluginFailure{Service: in.Service.Path, Plugin: in.Service.BuildSystemID.String(), Cause: err}
	}
	buildTemplate.BuildPackages = mergeUnique(buildTemplate.BuildPackages, runtimeCfg.NativeDeps)

	name, version := buildSystem.ParsePackageMetadata(in.ManifestContent)
	if name == "" {
		name = path.Base(in.Service.Path)
	}

	return Result{
		Stack:          stack,
		Runtime:        runtimeCfg,
		Build:          buildTemplate,
		CacheDirs:      buildSystem.CacheDirs(),
		ProjectName:    name,
		ProjectVersion: version,
		BuildCmd:       buildTemplate.BuildCommands,
		OutputDir:      deriveOutputDir(buildTemplate.RuntimeCopy),
	}, nil
}

// deriveOutputDir is the Build sub-phase's output_dir derivation
// (spec.md §4.D8 step 3): the first RuntimeCopy.From with
// "{project_name}" stripped. A glob entry ("dist/*") is trimmed to its
// containing directory, since the copy source isn't a single real path.
func deriveOutputDir(copies []registry.CopyEntry) string {
	if len(copies) == 0 {
		return ""
	}
	from := copies[0].From
	from = strings.ReplaceAll(from, "/{project_name}", "")
	from = strings.ReplaceAll(from, "{project_name}", "")
	from = strings.TrimRight(from, "/")
	if strings.Contains(from, "*") {
		return path.Dir(from)
	}
	return from
}

// identifyStack is Stack Identification (D8.1): the (language, build
// system) pair is already fixed by classification, so this sub-phase's
// only job is matching a framework by scanning the service's external
// dependency names against each candidate framework's
// DependencyPatterns, and mapping the language to its runtime id.
func identifyStack(reg *registry.Registry, lang registry.LanguagePlugin, buildSystem registry.BuildSystemPlugin, deps registry.Dependencies) registry.Stack {
	stack := registry.Stack{
		Language:    lang.ID(),
		BuildSystem: buildSystem.ID(),
		Runtime:     lang.RuntimeName(),
	}

	candidates := reg.Frameworks(lang.ID(), buildSystem.ID())
	for _, fw := range candidates {
		if matchesDependency(fw.DependencyPatterns(), deps) {
			stack.Framework = fw.ID()
			break
		}
	}
	return stack
}

func matchesDependency(patterns []string, deps registry.Dependencies) bool {
	for _, p := range patterns {
		for _, d := range append(append([]registry.Dep{}, deps.Internal...), deps.External...) {
			if strings.HasPrefix(d.Name, p) {
				return true
			}
		}
	}
	return false
}

// configureRuntime is Runtime Configuration (D8.2): the runtime
// plugin's own file-level extraction runs first, then the entrypoint,
// native-dependency, and port sub-phases backfill whatever it left
// unset.
func configureRuntime(reg *registry.Registry, runtimeID registry.ID, lang registry.LanguagePlugin, framework registry.FrameworkPlugin, in Input) (registry.RuntimeConfig, error) {
	runtime, err := reg.GetRuntime(runtimeID)
	if err != nil {
		return registry.RuntimeConfig{}, perr.PluginFailure{Service: in.Service.Path, Plugin: runtimeID.String(), Cause: err}
	}

	extracted, err := runtime.TryExtract(in.AbsFiles, framework)
	if err != nil {
		return registry.RuntimeConfig{}, perr.PluginFailure{Service: in.Service.Path, Plugin: runtimeID.String(), Cause: errors.Wrap(err, "extracting runtime config")}
	}
	cfg := registry.RuntimeConfig{}
	if extracted != nil {
		cfg = *extracted
	}

	if cfg.Entrypoint == "" {
		projectName := path.Base(in.Service.Path)
		cfg.Entrypoint, cfg.EntrypointSource = resolveEntrypoint(lang, projectName, in.ManifestContent)
	}

	depNames := make([]string, 0, len(in.Dependencies.External))
	for _, d := range in.Dependencies.External {
		depNames = append(depNames, d.Name)
	}
	cfg.NativeDeps = mergeUnique(cfg.NativeDeps, resolveNativeDeps(depNames))

	resolvePort(&cfg, framework, lang)

	if cfg.BaseImage == "" {
		cfg.BaseImage = runtime.RuntimeBaseImage("")
	}

	return cfg, nil
}

// mergeUnique appends b's elements to a, skipping any already present
// in a, preserving a's original order.
func mergeUnique(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]struct{}, len(a))
	for _, v := range a {
		seen[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		a = append(a, v)
	}
	return a
}

// ServicePath joins a repository root and a service's repo-relative
// path into an absolute, OS-native path. Callers building Input.AbsFiles
// use this so every absolute path in the analyzer is built the same
// way.
func ServicePath(repoRoot, servicePath string) string {
	return filepath.Join(repoRoot, filepath.FromSlash(servicePath))
}
