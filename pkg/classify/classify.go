// Package classify implements the Classifier (spec.md §4.D3): given
// the Scanner's DetectionStack list, decides which manifests are
// independently-deployable services versus library packages, and
// which path is the root.
package classify

import (
	"context"
	"sort"

	"github.com/peelbox/peelbox/pkg/llm"
	"github.com/peelbox/peelbox/pkg/registry"
)

// Result is the Classifier's output.
type Result struct {
	Services      []registry.DetectionStack
	Packages      []registry.DetectionStack
	RootIsService bool
	Confidence    registry.Confidence
}

// Classify runs the fast path when exactly one root-level (depth-0)
// detection exists; otherwise it invokes client's Classify and
// re-validates the response against detections before trusting it
// (spec.md §9 Open Question: re-validation must be enforced even
// though the distilled spec only says it "should" exist).
func Classify(ctx context.Context, detections []registry.DetectionStack, client llm.Client) (Result, error) {
	if len(detections) == 0 {
		return Result{}, nil
	}

	rootLevel := rootDetections(detections)
	if len(rootLevel) == 1 {
		return Result{
			Services:      []registry.DetectionStack{rootLevel[0]},
			Packages:      otherThan(detections, rootLevel[0]),
			RootIsService: true,
			Confidence:    registry.ConfidenceHigh,
		}, nil
	}

	isMonorepo := len(detections) > 1
	req := llm.ClassifyRequest{ManifestPaths: manifestPaths(detections), IsMonorepo: isMonorepo}
	resp, err := client.Classify(ctx, req)
	if err != nil {
		// Deterministic paths never catch broad errors to mask bugs
		// (spec.md §7 Policy); with no fast-path answer available and
		// the LLM unreachable, every detection is conservatively
		// reported as an independent package so the pipeline can still
		// emit something rather than nothing.
		return Result{Packages: detections}, err
	}

	byPath := indexByPath(detections)
	services := resolveAndFilter(resp.Services, byPath)
	packages := resolveAndFilter(resp.Packages, byPath)

	return Result{
		Services:      services,
		Packages:      packages,
		RootIsService: resp.RootIsService,
		Confidence:    registry.ConfidenceFromScore(resp.Confidence),
	}, nil
}

func rootDetections(detections []registry.DetectionStack) []registry.DetectionStack {
	var out []registry.DetectionStack
	for _, d := range detections {
		if d.Depth == 0 {
			out = append(out, d)
		}
	}
	return out
}

func otherThan(all []registry.DetectionStack, exclude registry.DetectionStack) []registry.DetectionStack {
	var out []registry.DetectionStack
	for _, d := range all {
		if d.ManifestPath != exclude.ManifestPath {
			out = append(out, d)
		}
	}
	return out
}

func manifestPaths(detections []registry.DetectionStack) []string {
	out := make([]string, len(detections))
	for i, d := range detections {
		out[i] = d.ManifestPath
	}
	return out
}

func indexByPath(detections []registry.DetectionStack) map[string]registry.DetectionStack {
	m := make(map[string]registry.DetectionStack, len(detections))
	for _, d := range detections {
		m[d.ManifestPath] = d
	}
	return m
}

// resolveAndFilter drops any LLM-claimed path that does not appear in
// the actually-scanned DetectionStack list (a hallucinated manifest),
// per spec.md §9's re-validation requirement.
func resolveAndFilter(paths []string, byPath map[string]registry.DetectionStack) []registry.DetectionStack {
	var out []registry.DetectionStack
	for _, p := range paths {
		if d, ok := byPath[p]; ok {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ManifestPath < out[j].ManifestPath })
	return out
}
