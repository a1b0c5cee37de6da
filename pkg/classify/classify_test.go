package classify_test

import (
	"context"
	"testing"

	"github.com/peelbox/peelbox/pkg/classify"
	"github.com/peelbox/peelbox/pkg/llm"
	"github.com/peelbox/peelbox/pkg/registry"
)

func stack(path string, depth int) registry.DetectionStack {
	return registry.NewDetectionStack(registry.BuildSystemCargo, registry.LangRust, path, depth, 0.9, false)
}

func TestClassify_FastPath_SingleRootDetection(t *testing.T) {
	detections := []registry.DetectionStack{stack("Cargo.toml", 0)}
	result, err := classify.Classify(context.Background(), detections, llm.Unavailable{})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Services) != 1 || result.Services[0].ManifestPath != "Cargo.toml" {
		t.Fatalf("expected the single root detection as a service, got %+v", result.Services)
	}
	if !result.RootIsService {
		t.Fatal("expected RootIsService to be true on the fast path")
	}
	if result.Confidence != registry.ConfidenceHigh {
		t.Fatalf("expected High confidence on the fast path, got %v", result.Confidence)
	}
}

type fakeClient struct {
	resp llm.ClassifyResponse
}

func (f fakeClient) Available(context.Context) error { return nil }
func (f fakeClient) Classify(context.Context, llm.ClassifyRequest) (llm.ClassifyResponse, error) {
	return f.resp, nil
}
func (f fakeClient) ExtractDependencies(context.Context, llm.DependencyRequest) (llm.DependencyResponse, error) {
	return llm.DependencyResponse{}, nil
}

func TestClassify_SlowPath_RejectsHallucinatedManifest(t *testing.T) {
	detections := []registry.DetectionStack{
		stack("packages/a/package.json", 2),
		stack("apps/web/package.json", 2),
	}
	client := fakeClient{resp: llm.ClassifyResponse{
		Services:      []string{"apps/web/package.json", "packages/does-not-exist/package.json"},
		Packages:      []string{"packages/a/package.json"},
		RootIsService: false,
		Confidence:    0.85,
	}}

	result, err := classify.Classify(context.Background(), detections, client)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Services) != 1 || result.Services[0].ManifestPath != "apps/web/package.json" {
		t.Fatalf("expected the hallucinated manifest dropped, got %+v", result.Services)
	}
	if len(result.Packages) != 1 || result.Packages[0].ManifestPath != "packages/a/package.json" {
		t.Fatalf("unexpected packages: %+v", result.Packages)
	}
	if result.Confidence != registry.ConfidenceHigh {
		t.Fatalf("expected High confidence for score 0.85, got %v", result.Confidence)
	}
}
