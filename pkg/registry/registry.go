package registry

import (
	"strings"
	"sync"
)

// Registry holds every registered language, build-system, framework,
// runtime and orchestrator plugin. A Registry has no filesystem
// knowledge of its own: the Scanner and Analyzer hand it manifest
// names, file content, and file lists, and it answers detection and
// lookup queries against whatever is currently registered.
//
// Reads (the common case: concurrent Scanner goroutines walking a
// repository) take the RLock. Writes only happen once per detection
// run, when the LLM fallback installs a Custom id it discovered
// (spec.md §5, "many-reader, rare-writer"); RegisterLLM* takes the
// full Lock.
type Registry struct {
	mu sync.RWMutex

	languages     map[string]LanguagePlugin
	buildSystems  map[string]BuildSystemPlugin
	frameworks    map[string]FrameworkPlugin
	runtimes      map[string]RuntimePlugin
	orchestrators map[string]OrchestratorPlugin
}

// New returns an empty Registry. Callers append plugins with the
// Register* methods, typically through pkg/registry/install.New, which
// imports every concrete plugin subpackage.
func New() *Registry {
	return &Registry{
		languages:     make(map[string]LanguagePlugin),
		buildSystems:  make(map[string]BuildSystemPlugin),
		frameworks:    make(map[string]FrameworkPlugin),
		runtimes:      make(map[string]RuntimePlugin),
		orchestrators: make(map[string]OrchestratorPlugin),
	}
}

func (r *Registry) RegisterLanguage(p LanguagePlugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.languages[p.ID().String()] = p
}

func (r *Registry) RegisterBuildSystem(p BuildSystemPlugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buildSystems[p.ID().String()] = p
}

func (r *Registry) RegisterFramework(p FrameworkPlugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frameworks[p.ID().String()] = p
}

func (r *Registry) RegisterRuntime(p RuntimePlugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runtimes[p.ID().String()] = p
}

func (r *Registry) RegisterOrchestrator(p OrchestratorPlugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orchestrators[p.ID().String()] = p
}

// RegisterLLMLanguage installs a language plugin discovered by the LLM
// fallback mid-detection-run (spec.md §4.D3). Identical to
// RegisterLanguage but named separately so call sites document intent
// and the rare-writer path is greppable.
func (r *Registry) RegisterLLMLanguage(p LanguagePlugin) { r.RegisterLanguage(p) }

// RegisterLLMBuildSystem installs a build-system plugin discovered by
// the LLM fallback mid-detection-run.
func (r *Registry) RegisterLLMBuildSystem(p BuildSystemPlugin) { r.RegisterBuildSystem(p) }

func (r *Registry) GetLanguage(id ID) (LanguagePlugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.languages[id.String()]
	if !ok {
		return nil, ErrUnknown{Kind: KindLanguage, Name: id.String(), Known: r.knownLanguagesLocked()}
	}
	return p, nil
}

func (r *Registry) GetBuildSystem(id ID) (BuildSystemPlugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.buildSystems[id.String()]
	if !ok {
		return nil, ErrUnknown{Kind: KindBuildSystem, Name: id.String(), Known: r.knownBuildSystemsLocked()}
	}
	return p, nil
}

func (r *Registry) GetFramework(id ID) (FrameworkPlugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.frameworks[id.String()]
	if !ok {
		return nil, ErrUnknown{Kind: KindFramework, Name: id.String(), Known: r.knownFrameworksLocked()}
	}
	return p, nil
}

func (r *Registry) GetRuntime(id ID) (RuntimePlugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.runtimes[id.String()]
	if !ok {
		return nil, ErrUnknown{Kind: KindRuntime, Name: id.String(), Known: r.knownRuntimesLocked()}
	}
	return p, nil
}

func (r *Registry) GetOrchestrator(id ID) (OrchestratorPlugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.orchestrators[id.String()]
	if !ok {
		return nil, ErrUnknown{Kind: KindOrchestrator, Name: id.String(), Known: r.knownOrchestratorsLocked()}
	}
	return p, nil
}

// Languages returns every registered language plugin, in no particular
// order. Used by the Scanner to try each language's Detect against a
// discovered manifest.
func (r *Registry) Languages() []LanguagePlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]LanguagePlugin, 0, len(r.languages))
	for _, p := range r.languages {
		out = append(out, p)
	}
	return out
}

// Orchestrators returns every registered orchestrator plugin, ordered
// by ascending Priority so Structure (D4) can stop at the first match.
func (r *Registry) Orchestrators() []OrchestratorPlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]OrchestratorPlugin, 0, len(r.orchestrators))
	for _, p := range r.orchestrators {
		out = append(out, p)
	}
	sortOrchestratorsByPriority(out)
	return out
}

// Frameworks returns every registered framework plugin compatible with
// the given language and build system, used by the Per-Service
// Analyzer's Stack Identification sub-phase (D8.1).
func (r *Registry) Frameworks(lang, buildSystem ID) []FrameworkPlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []FrameworkPlugin
	for _, p := range r.frameworks {
		if idIn(lang, p.CompatibleLanguages()) && idIn(buildSystem, p.CompatibleBuildSystems()) {
			out = append(out, p)
		}
	}
	return out
}

// AllExcludedDirs merges every registered language plugin's
// ExcludedDirs with every registered build-system and orchestrator
// plugin's CacheDirs, deduplicated. The Scanner (D2) uses this as its
// base prune list before layering the repository's own .gitignore.
func (r *Registry) AllExcludedDirs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	add := func(dirs []string) {
		for _, d := range dirs {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	for _, p := range r.languages {
		add(p.ExcludedDirs())
	}
	for _, p := range r.buildSystems {
		add(p.CacheDirs())
	}
	for _, p := range r.orchestrators {
		add(p.CacheDirs())
	}
	return out
}

// DetectAllStacks runs every registered language's Detect against each
// file in fileList whose basename that language recognizes, producing
// one DetectionStack per match (spec.md §4.D1). fs is consulted for
// content only when a language reports a non-zero score from the
// filename alone but needs content to refine it or to decide
// is_workspace_root; manifests with no content requirement still get a
// read attempt so workspace-root detection can inspect them. Callers
// (the Scanner) are responsible for deduplicating per directory.
func (r *Registry) DetectAllStacks(fileList []string, fs ReadFS) []DetectionStack {
	r.mu.RLock()
	languages := make([]LanguagePlugin, 0, len(r.languages))
	for _, p := range r.languages {
		languages = append(languages, p)
	}
	r.mu.RUnlock()

	var out []DetectionStack
	for _, path := range fileList {
		base := basename(path)
		for _, lang := range languages {
			buildSystem, score := lang.Detect(base, nil)
			if score <= 0 {
				continue
			}
			var content []byte
			if fs != nil {
				content, _ = fs.ReadFile(path)
			}
			if content != nil {
				if bs, refined := lang.Detect(base, content); refined > 0 {
					buildSystem, score = bs, refined
				}
			}
			depth := strings.Count(path, "/")
			out = append(out, NewDetectionStack(buildSystem, lang.ID(), path, depth, score, isWorkspaceRoot(base, content, lang.WorkspaceConfigs())))
		}
	}
	return out
}

func basename(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// isWorkspaceRoot reports whether a manifest declares a workspace,
// per spec.md §4.D1's "peeking at content where the build-system
// declares a workspace indicator". A manifest name that is not in the
// language's WorkspaceConfigs can never be a workspace root. Some
// manifests are dedicated workspace files (go.work, settings.gradle)
// and are always a workspace root when present; others double as a
// service manifest and a workspace declaration depending on content
// (Cargo.toml's [workspace] table, package.json's "workspaces" key).
func isWorkspaceRoot(manifestName string, content []byte, workspaceConfigs []string) bool {
	isConfig := false
	for _, c := range workspaceConfigs {
		if c == manifestName {
			isConfig = true
			break
		}
	}
	if !isConfig {
		return false
	}
	switch manifestName {
	case "Cargo.toml":
		return content != nil && strings.Contains(string(content), "[workspace]")
	case "package.json":
		return content != nil && strings.Contains(string(content), `"workspaces"`)
	default:
		return true
	}
}

func idIn(id ID, ids []ID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func sortOrchestratorsByPriority(ps []OrchestratorPlugin) {
	for i := 1; i < len(ps); i++ {
		for j := i; j > 0 && ps[j].Priority() < ps[j-1].Priority(); j-- {
			ps[j], ps[j-1] = ps[j-1], ps[j]
		}
	}
}

func (r *Registry) knownLanguagesLocked() Known {
	out := make(Known, 0, len(r.languages))
	for k := range r.languages {
		out = append(out, Named(k))
	}
	return out
}

func (r *Registry) knownBuildSystemsLocked() Known {
	out := make(Known, 0, len(r.buildSystems))
	for k := range r.buildSystems {
		out = append(out, Named(k))
	}
	return out
}

func (r *Registry) knownFrameworksLocked() Known {
	out := make(Known, 0, len(r.frameworks))
	for k := range r.frameworks {
		out = append(out, Named(k))
	}
	return out
}

func (r *Registry) knownRuntimesLocked() Known {
	out := make(Known, 0, len(r.runtimes))
	for k := range r.runtimes {
		out = append(out, Named(k))
	}
	return out
}

func (r *Registry) knownOrchestratorsLocked() Known {
	out := make(Known, 0, len(r.orchestrators))
	for k := range r.orchestrators {
		out = append(out, Named(k))
	}
	return out
}
