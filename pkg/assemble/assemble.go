// Package assemble implements the Assembler (spec.md §4.D9): it folds
// one service's analyze.Result, the matched framework and language
// plugins, and the workspace's root cache dirs into a single
// universalbuild.UniversalBuild, the language-neutral handoff to the
// Build Session.
package assemble

import (
	"path"
	"sort"
	"strings"

	"github.com/peelbox/peelbox/pkg/analyze"
	"github.com/peelbox/peelbox/pkg/perr"
	"github.com/peelbox/peelbox/pkg/registry"
	"github.com/peelbox/peelbox/pkg/universalbuild"
)

// Input is everything the Assembler needs for one service beyond the
// analyzer's own Result.
type Input struct {
	Service       registry.Service
	ManifestName  string
	Analysis      analyze.Result
	Framework     registry.FrameworkPlugin // nil if none matched
	RootCacheDirs []string
}

// Assemble produces one UniversalBuild, or a perr.PluginFailure-wrapped
// error per spec.md §8 invariant 1 when the entrypoint splits into an
// empty command — that service is rejected, not the whole run.
func Assemble(in Input) (universalbuild.UniversalBuild, error) {
	projectName := in.Analysis.ProjectName
	if projectName == "" || projectName == "." {
		projectName = projectNameFromPath(in.Service.Path)
	}

	ub := universalbuild.New()
	ub.Metadata = universalbuild.Metadata{
		ProjectName: projectName,
		Language:    in.Analysis.Stack.Language.String(),
		BuildSystem: in.Analysis.Stack.BuildSystem.String(),
		Framework:   in.Analysis.Stack.Framework.String(),
		Reasoning:   reasoning(in.ManifestName, in.Service.Path),
	}

	command := substitute(in.Analysis.Runtime.Entrypoint, projectName)
	commandParts := strings.Fields(command)
	if len(commandParts) == 0 {
		return universalbuild.UniversalBuild{}, perr.PluginFailure{
			Service: in.Service.Path,
			Plugin:  "assemble",
			Cause:   errEmptyEntrypoint{Service: in.Service.Path},
		}
	}

	var buildCommands []string
	for _, c := range in.Analysis.BuildCmd {
		buildCommands = append(buildCommands, substitute(c, projectName))
	}

	ub.Build = universalbuild.Build{
		Packages: in.Analysis.Build.BuildPackages,
		Env:      mergeEnv(in.Analysis.Build.BuildEnv, nil, nil),
		Commands: buildCommands,
		Cache:    unionSorted(in.Analysis.CacheDirs, in.RootCacheDirs),
	}

	var frameworkEnv []registry.EnvVar
	if in.Framework != nil {
		frameworkEnv = in.Framework.RuntimeEnvVars()
	}
	ub.Runtime = universalbuild.Runtime{
		Packages: in.Analysis.Build.RuntimePackages,
		Env:      mergeEnv(in.Analysis.Build.RuntimeEnv, frameworkEnv, in.Analysis.Runtime.EnvVars),
		Copy:     substituteCopies(in.Analysis.Build.RuntimeCopy, projectName),
		Command:  commandParts,
		Workdir:  ub.Runtime.Workdir,
		Ports:     unionPorts(in.Analysis.Runtime.Port),
		Health:    health(in.Analysis.Runtime),
		BaseImage: in.Analysis.Runtime.BaseImage,
	}

	if err := ub.Valid(); err != nil {
		return universalbuild.UniversalBuild{}, perr.PluginFailure{Service: in.Service.Path, Plugin: "assemble", Cause: err}
	}
	return ub, nil
}

// projectNameFromPath mirrors the original's directory-basename
// fallback: a root-level service ("." or "") has no meaningful
// basename, so it falls back to "app".
func projectNameFromPath(servicePath string) string {
	if servicePath == "" || servicePath == "." {
		return "app"
	}
	base := path.Base(servicePath)
	if base == "" || base == "." || base == "/" {
		return "app"
	}
	return base
}

func substitute(s, projectName string) string {
	return strings.ReplaceAll(s, "{project_name}", projectName)
}

func substituteCopies(copies []registry.CopyEntry, projectName string) []universalbuild.CopyEntry {
	out := make([]universalbuild.CopyEntry, 0, len(copies))
	for _, c := range copies {
		out = append(out, universalbuild.CopyEntry{
			From: substitute(c.From, projectName),
			To:   substitute(c.To, projectName),
		})
	}
	return out
}

// mergeEnv unions a build-system map with framework/runtime EnvVar
// slices; later arguments win on name conflict, per spec.md §4.D9's
// "later wins on conflict, deterministically" — argument order here IS
// the precedence order (build-system, then framework, then runtime).
func mergeEnv(base map[string]string, layers ...[]registry.EnvVar) map[string]string {
	out := make(map[string]string, len(base))
	for k, v := range base {
		out[k] = v
	}
	for _, layer := range layers {
		for _, ev := range layer {
			out[ev.Name] = ev.Value
		}
	}
	return out
}

// unionPorts returns detected (a non-zero analyzer-resolved port,
// which itself already folds in the framework/language default chain
// per pkg/analyze's port sub-phase) as a single-element slice, or nil
// when nothing was ever resolved.
func unionPorts(detected uint16) []uint16 {
	if detected == 0 {
		return nil
	}
	return []uint16{detected}
}

func unionSorted(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, s := range append(append([]string{}, a...), b...) {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func health(cfg registry.RuntimeConfig) *universalbuild.HealthCheck {
	if cfg.Health == nil {
		return nil
	}
	return &universalbuild.HealthCheck{Path: cfg.Health.Path, IntervalSeconds: cfg.Health.IntervalSeconds}
}

func reasoning(manifest, servicePath string) string {
	return "detected from " + manifest + " in " + servicePath
}

type errEmptyEntrypoint struct{ Service string }

func (e errEmptyEntrypoint) Error() string {
	return "service " + e.Service + " resolved to an empty runtime command"
}
