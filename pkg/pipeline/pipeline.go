// Package pipeline wires the nine Detection Pipeline components
// (spec.md §4 D1-D9) into the single entry point the CLI calls:
// Detect, which walks a repository and returns one universalbuild.
// UniversalBuild per independently-deployable service.
package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peelbox/peelbox/pkg/analyze"
	"github.com/peelbox/peelbox/pkg/assemble"
	"github.com/peelbox/peelbox/pkg/classify"
	"github.com/peelbox/peelbox/pkg/depgraph"
	"github.com/peelbox/peelbox/pkg/filesystem"
	"github.com/peelbox/peelbox/pkg/llm"
	"github.com/peelbox/peelbox/pkg/perr"
	"github.com/peelbox/peelbox/pkg/registry"
	"github.com/peelbox/peelbox/pkg/registry/install"
	"github.com/peelbox/peelbox/pkg/rootcache"
	"github.com/peelbox/peelbox/pkg/scan"
	"github.com/peelbox/peelbox/pkg/structure"
	"github.com/peelbox/peelbox/pkg/universalbuild"
)

// Options tunes one Detect call. A zero Options is a sane default: the
// noop LLM client (deterministic-only detection) and an always-present
// package index.
type Options struct {
	Client      llm.Client
	Index       registry.PackageIndex
	ScanOptions scan.Options
	// Warn receives human-readable warnings for non-fatal conditions
	// (scan truncation, a skipped service). Pass nil to discard them.
	Warn func(string)
}

// Result is the complete output of one detection run.
type Result struct {
	Builds        []universalbuild.UniversalBuild
	RootIsService bool
	Confidence    registry.Confidence
	HasCycle      bool
}

// conservativePackageIndex always reports a package as present. It
// stands in for the real package-index service, an external
// collaborator whose transport is out of scope (spec.md §1) — per
// registry.PackageIndex's own contract, a build-system plugin must
// treat this as "don't know, assume yes" rather than as a hard no.
type conservativePackageIndex struct{}

func (conservativePackageIndex) Exists(context.Context, registry.ID, string) (bool, error) {
	return true, nil
}

// Detect runs D1 through D9 against repoRoot and returns one
// UniversalBuild per classified service. A per-service failure
// (perr.PluginFailure) is warned and that service is skipped, never
// aborting the whole run (spec.md §7); any other error is fatal and
// returned immediately.
func Detect(ctx context.Context, repoRoot string, opts Options) (Result, error) {
	if opts.Client == nil {
		opts.Client = llm.Unavailable{}
	}
	if opts.Index == nil {
		opts.Index = conservativePackageIndex{}
	}
	warn := opts.Warn
	if warn == nil {
		warn = func(string) {}
	}

	reg := install.New()

	scanResult, err := scan.Scan(repoRoot, reg, opts.ScanOptions, warn)
	if err != nil {
		return Result{}, err
	}
	if len(scanResult.Detections) == 0 {
		return Result{}, perr.DetectionEmpty{Path: repoRoot}
	}

	classified, err := classify.Classify(ctx, scanResult.Detections, opts.Client)
	if err != nil {
		// A genuinely unavailable LLM provider is fatal when the fast
		// path couldn't answer on its own (spec.md §7 LLMUnavailable);
		// any other classify-path error is the "tolerate, fall back to
		// an empty result" policy classify.Classify already applied, so
		// it is only worth a warning here.
		if errors.Is(err, llm.ErrNoProviderConfigured) {
			return Result{}, perr.LLMUnavailable{Cause: err}
		}
		warn("classification fell back to treating every detection as an independent package: " + err.Error())
	}

	root, err := filepath.Abs(repoRoot)
	if err != nil {
		return Result{}, perr.InputInvalid{Reason: "cannot resolve repo path: " + err.Error()}
	}
	fs := filesystem.NewOsFilesystem(root)

	ws, err := structure.Resolve(reg, scanResult.FileTree, fs, scanResult.Detections)
	if err != nil {
		return Result{}, err
	}

	languageByPath := make(map[string]registry.ID, len(scanResult.Detections))
	buildSystemByPath := make(map[string]registry.ID, len(scanResult.Detections))
	for _, d := range scanResult.Detections {
		languageByPath[d.ManifestPath] = d.Language
		buildSystemByPath[d.ManifestPath] = d.BuildSystem
	}
	languageOf := func(p registry.Package) registry.ID { return languageByPath[p.Manifest.Path] }

	deps, err := depgraph.ParseAll(ctx, reg, root, ws.Packages, languageOf, opts.Client)
	if err != nil {
		return Result{}, err
	}

	nodes := make([]string, len(ws.Packages))
	internalDeps := make(map[string][]registry.Dep, len(ws.Packages))
	for i, p := range ws.Packages {
		nodes[i] = p.Path
		internalDeps[p.Path] = deps[p.Path].Internal
	}
	buildOrder := depgraph.Resolve(nodes, internalDeps)

	var rootBuildSystems []registry.ID
	for _, d := range scanResult.Detections {
		if d.IsWorkspaceRoot {
			rootBuildSystems = append(rootBuildSystems, d.BuildSystem)
		}
	}
	rootCacheDirs := rootcache.Resolve(reg, rootBuildSystems, ws)

	packageByManifest := make(map[string]registry.Package, len(ws.Packages))
	for _, p := range ws.Packages {
		packageByManifest[p.Manifest.Path] = p
	}

	var builds []universalbuild.UniversalBuild
	for _, svc := range classified.Services {
		pkg, ok := packageByManifest[svc.ManifestPath]
		if !ok {
			pkg = registry.Package{
				Path:     filepath.ToSlash(filepath.Dir(svc.ManifestPath)),
				Manifest: registry.Manifest{Path: svc.ManifestPath, Basename: filepath.Base(svc.ManifestPath)},
			}
		}

		manifestContent, readErr := os.ReadFile(filepath.Join(root, svc.ManifestPath))
		if readErr != nil {
			warn("skipping " + svc.ManifestPath + ": " + readErr.Error())
			continue
		}

		service := registry.Service{
			Path:          pkg.Path,
			Manifest:      pkg.Manifest,
			LanguageID:    svc.Language,
			BuildSystemID: svc.BuildSystem,
		}

		build, buildErr := detectOne(ctx, reg, opts.Index, root, service, manifestContent, deps[pkg.Path], scanResult.FileTree, rootCacheDirs)
		if buildErr != nil {
			if perr.Fatal(buildErr) {
				return Result{}, buildErr
			}
			warn("skipping " + service.Path + ": " + buildErr.Error())
			continue
		}
		builds = append(builds, build)
	}

	sort.Slice(builds, func(i, j int) bool { return builds[i].Metadata.ProjectName < builds[j].Metadata.ProjectName })

	return Result{
		Builds:        builds,
		RootIsService: classified.RootIsService,
		Confidence:    classified.Confidence,
		HasCycle:      buildOrder.HasCycle,
	}, nil
}

func detectOne(ctx context.Context, reg *registry.Registry, index registry.PackageIndex, root string, service registry.Service, manifestContent []byte, deps registry.Dependencies, fileTree []string, rootCacheDirs []string) (universalbuild.UniversalBuild, error) {
	absFiles := filesUnder(root, fileTree, service.Path)

	result, err := analyze.Analyze(ctx, reg, index, analyze.Input{
		RepoRoot:        root,
		Service:         service,
		ManifestContent: manifestContent,
		Dependencies:    deps,
		AbsFiles:        absFiles,
	})
	if err != nil {
		return universalbuild.UniversalBuild{}, err
	}

	var framework registry.FrameworkPlugin
	if !result.Stack.Framework.IsZero() {
		framework, _ = reg.GetFramework(result.Stack.Framework)
	}

	return assemble.Assemble(assemble.Input{
		Service:       service,
		ManifestName:  service.Manifest.Basename,
		Analysis:      result,
		Framework:     framework,
		RootCacheDirs: rootCacheDirs,
	})
}

// filesUnder returns the absolute path of every scanned file that
// belongs to the service at servicePath. A root-level service ("." or
// "") claims every scanned file, including files under other services'
// directories; any other service claims files under its own directory
// prefix.
func filesUnder(root string, fileTree []string, servicePath string) []string {
	var out []string
	prefix := servicePath + "/"
	isRoot := servicePath == "." || servicePath == ""
	for _, f := range fileTree {
		if isRoot || strings.HasPrefix(f, prefix) {
			out = append(out, filepath.Join(root, filepath.FromSlash(f)))
		}
	}
	return out
}
