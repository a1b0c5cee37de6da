// Package scan implements the Scanner (spec.md §4.D2): it walks a
// repository with gitignore semantics and registry-declared excluded
// directories, then runs the Registry's detector and deduplicates the
// result into one DetectionStack per directory.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/pkg/errors"

	"github.com/peelbox/peelbox/pkg/filesystem"
	"github.com/peelbox/peelbox/pkg/perr"
	"github.com/peelbox/peelbox/pkg/registry"
)

// DefaultFileCap bounds how many regular files a single scan will
// record before stopping early with a warning (spec.md §4.D2 step 3,
// §8 "File-cap reached" boundary behavior).
const DefaultFileCap = 50_000

// Options tunes one Scan call.
type Options struct {
	// FileCap overrides DefaultFileCap; zero means "use the default".
	FileCap int
}

// Result is the Scanner's output: the canonical, deduplicated file
// tree plus the surviving DetectionStack list, sorted by manifest
// path for determinism (spec.md §4.D2 step 7).
type Result struct {
	FileTree  []string
	Detections []registry.DetectionStack
	// Truncated reports whether FileCap was reached before the walk
	// completed (spec.md §8 "File-cap reached ⇒ scan terminates with a
	// warning, not an error").
	Truncated bool
}

// Scan walks repoRoot and returns its file tree plus deduplicated
// DetectionStacks. reg supplies the excluded-dir list and the
// per-manifest Detect logic; warn receives human-readable warnings for
// non-fatal conditions (I/O errors on individual entries, file-cap
// truncation) — pass nil to discard them.
func Scan(repoRoot string, reg *registry.Registry, opts Options, warn func(string)) (Result, error) {
	if warn == nil {
		warn = func(string) {}
	}
	root, err := filepath.Abs(repoRoot)
	if err != nil {
		return Result{}, perr.InputInvalid{Reason: "cannot resolve repo path: " + err.Error()}
	}
	info, err := os.Stat(root)
	if err != nil {
		return Result{}, perr.InputInvalid{Reason: "repo path does not exist: " + root}
	}
	if !info.IsDir() {
		return Result{}, perr.InputInvalid{Reason: "repo path is not a directory: " + root}
	}

	cap := opts.FileCap
	if cap <= 0 {
		cap = DefaultFileCap
	}

	excluded := map[string]struct{}{}
	for _, d := range reg.AllExcludedDirs() {
		excluded[d] = struct{}{}
	}

	var ignore *gitignore.GitIgnore
	if gi, giErr := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); giErr == nil {
		ignore = gi
	}

	var files []string
	truncated := false
	walkErr := filepath.Walk(root, func(p string, fi fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			warn("skipping " + p + ": " + walkErr.Error())
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if fi.IsDir() {
			base := fi.Name()
			if base == ".git" {
				return filepath.SkipDir
			}
			if _, ok := excluded[base]; ok {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(rel, ".git/") {
			return nil
		}
		if ignore != nil && ignore.MatchesPath(rel) {
			return nil
		}
		if len(files) >= cap {
			truncated = true
			return filepath.SkipAll
		}
		files = append(files, rel)
		return nil
	})
	if walkErr != nil {
		return Result{}, errors.Wrap(walkErr, "walking repository")
	}
	if truncated {
		warn("file cap reached, scan truncated")
	}

	detections := reg.DetectAllStacks(files, filesystem.NewOsFilesystem(root))
	deduped := dedup(detections, reg)
	sort.Slice(deduped, func(i, j int) bool { return deduped[i].ManifestPath < deduped[j].ManifestPath })

	return Result{FileTree: files, Detections: deduped, Truncated: truncated}, nil
}

// dedup groups detections by parent directory and keeps exactly one
// per directory: the build system's declared manifest-priority wins;
// ties break on confidence, then lexicographically on manifest path
// (spec.md §4.D2 step 5).
func dedup(detections []registry.DetectionStack, reg *registry.Registry) []registry.DetectionStack {
	byDir := map[string][]registry.DetectionStack{}
	for _, d := range detections {
		dir := filepath.ToSlash(filepath.Dir(d.ManifestPath))
		byDir[dir] = append(byDir[dir], d)
	}

	out := make([]registry.DetectionStack, 0, len(byDir))
	for _, group := range byDir {
		out = append(out, pickWinner(group, reg))
	}
	return out
}

func pickWinner(group []registry.DetectionStack, reg *registry.Registry) registry.DetectionStack {
	best := group[0]
	bestPriority := manifestPriority(best, reg)
	for _, d := range group[1:] {
		priority := manifestPriority(d, reg)
		switch {
		case priority > bestPriority:
			best, bestPriority = d, priority
		case priority == bestPriority && d.RawScore() > best.RawScore():
			best, bestPriority = d, priority
		case priority == bestPriority && d.RawScore() == best.RawScore() && d.ManifestPath < best.ManifestPath:
			best, bestPriority = d, priority
		}
	}
	return best
}

func manifestPriority(d registry.DetectionStack, reg *registry.Registry) int {
	bs, err := reg.GetBuildSystem(d.BuildSystem)
	if err != nil {
		return 0
	}
	base := filepath.Base(d.ManifestPath)
	for _, pattern := range bs.ManifestPatterns() {
		if pattern.Filename == base {
			return pattern.Priority
		}
	}
	return 0
}
