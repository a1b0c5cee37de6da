// Package llm defines the abstract collaborator contract the
// Classifier (D3) and Dependency Parser (D5) fall back to when
// deterministic parsing cannot produce an answer. Transport (which
// provider, which HTTP client, retry/backoff) is explicitly out of
// scope per spec.md §1 — this package only names the capability.
package llm

import "context"

// ClassifyRequest is handed to the LLM when the Classifier's fast path
// (exactly one root-level detection) does not apply.
type ClassifyRequest struct {
	// ManifestPaths lists every manifest the Scanner actually found.
	// The LLM's response MUST name only paths drawn from this list
	// (spec.md §4.D3, §9 Open Question — re-validation is enforced by
	// the caller, not trusted from the response alone).
	ManifestPaths []string
	IsMonorepo    bool
}

// ClassifyResponse is the Classifier's expected shape back from the
// LLM. Services and Packages are manifest paths, a subset of the
// request's ManifestPaths once re-validated.
type ClassifyResponse struct {
	Services     []string
	Packages     []string
	RootIsService bool
	Confidence   float64
}

// DependencyRequest asks the LLM to extract dependencies from a
// manifest format no declarative parser recognizes.
type DependencyRequest struct {
	ManifestPath string
	Content      []byte
	// InternalPaths lists already-known sibling package paths, so the
	// LLM can classify a dependency as internal when it names one.
	InternalPaths []string
}

// DependencyResponse mirrors registry.Dependencies's shape without
// importing pkg/registry (this package stays a leaf dependency of
// both pkg/classify and pkg/depgraph).
type DependencyResponse struct {
	Internal []NamedDep
	External []NamedDep
}

// NamedDep is one dependency name/version/path tuple.
type NamedDep struct {
	Name    string
	Version string
	Path    string
}

// Client is the abstract LLM collaborator. Implementations live
// outside this module (a concrete multi-provider chat client is
// explicitly out of scope per spec.md §1); pkg/classify and
// pkg/depgraph only depend on this interface.
type Client interface {
	// Available reports whether at least one configured provider can
	// currently serve a request. The health CLI command consults this
	// (spec.md §7 LLMUnavailable, §9 supplemented feature 5); the
	// Classifier does not, it calls Classify and handles its error.
	Available(ctx context.Context) error

	Classify(ctx context.Context, req ClassifyRequest) (ClassifyResponse, error)
	ExtractDependencies(ctx context.Context, req DependencyRequest) (DependencyResponse, error)
}
