package analyze

import (
	"strings"

	"github.com/peelbox/peelbox/pkg/registry"
)

// resolveEntrypoint restores the original pipeline's distinct
// "Entrypoint sub-phase" (SPEC_FULL.md §3.1, original_source's
// 07_3_entrypoint.rs): try the manifest-declared entrypoint first,
// then the language's generic default, recording which source won.
//
// A manifest-declared entrypoint is sometimes a full command already
// (Node's "node <main>", Java's "java -jar <jar>") and sometimes a
// bare identifier that still needs to be embedded into the language's
// executable-path convention (Python's [project.scripts] name, Rust's
// [[bin]] name or package name, per lang.ParseEntrypointFromManifest's
// own doc comment). A bare identifier has no path separator and no
// space; DefaultEntrypoint(name) is how every language plugin already
// knows how to embed a name into its own convention, so re-running it
// with the parsed name (instead of the project name) resolves the
// second case without this package hardcoding which languages do it.
func resolveEntrypoint(lang registry.LanguagePlugin, projectName string, manifestContent []byte) (string, registry.EntrypointSource) {
	if name, ok := lang.ParseEntrypointFromManifest(manifestContent); ok {
		if strings.ContainsAny(name, "/ ") {
			return name, registry.EntrypointSourceManifest
		}
		return lang.DefaultEntrypoint(name), registry.EntrypointSourceManifest
	}
	return lang.DefaultEntrypoint(projectName), registry.EntrypointSourceDefault
}
