package analyze

import "strings"

// nativeModuleMarkers are dependency names (or substrings thereof)
// whose presence implies a package that compiles native code at
// install time, restored from the original pipeline's deterministic
// native-dependency check (SPEC_FULL.md §3.2, original_source's
// 07_4_native_deps.rs).
var nativeModuleMarkers = []string{"node-gyp", "bcrypt", "sharp", "canvas", "sqlite3"}

// resolveNativeDeps inspects a service's external dependency names and
// returns the system packages its build stage needs, or nil when
// nothing matched. Detection is deterministic only: the original's LLM
// fallback for ambiguous cases is out of scope for this package's
// deterministic sub-phase (an unmatched service simply gets no native
// deps recorded, same as a Low-confidence original run with nothing to
// go on).
func resolveNativeDeps(depNames []string) []string {
	hasPrisma := false
	hasNative := false
	for _, d := range depNames {
		if strings.Contains(d, "prisma") {
			hasPrisma = true
		}
		for _, marker := range nativeModuleMarkers {
			if strings.Contains(d, marker) {
				hasNative = true
			}
		}
	}
	if !hasPrisma && !hasNative {
		return nil
	}

	deps := []string{"ca-certificates"}
	if hasPrisma {
		deps = append(deps, "openssl")
	}
	if hasNative {
		deps = append(deps, "gcc", "g++", "make", "python3")
	}
	return deps
}
