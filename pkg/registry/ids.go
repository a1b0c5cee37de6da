// Package registry holds the declarative registry of languages, build
// systems, frameworks, runtimes and monorepo orchestrators that the
// Detection Pipeline consults. It has no knowledge of the filesystem;
// callers hand it manifest names and file lists.
package registry

import "fmt"

// Kind distinguishes the five registries a Custom id can belong to.
type Kind string

const (
	KindLanguage     Kind = "language"
	KindBuildSystem  Kind = "buildSystem"
	KindFramework    Kind = "framework"
	KindRuntime      Kind = "runtime"
	KindOrchestrator Kind = "orchestrator"
)

// ID is a stable identifier for a language, build system, framework,
// runtime or orchestrator. The closed set of well-known names is
// enumerated per kind further down this file; Custom(name) is the
// escape hatch used by LLM-discovered kinds.
type ID struct {
	name   string
	custom bool
}

// Named constructs a well-known ID. Plugins use this for their own id.
func Named(name string) ID { return ID{name: name} }

// Custom constructs an ID for a kind discovered at runtime by the LLM
// fallback, reserved outside the closed enumeration.
func Custom(name string) ID { return ID{name: name, custom: true} }

// String returns the bare name, e.g. "python", "npm", "express".
func (i ID) String() string { return i.name }

// IsCustom reports whether this id was installed via the LLM fallback
// rather than being part of the closed enumeration.
func (i ID) IsCustom() bool { return i.custom }

// IsZero reports the zero value (no id set).
func (i ID) IsZero() bool { return i.name == "" }

func (i ID) GoString() string {
	if i.custom {
		return fmt.Sprintf("registry.Custom(%q)", i.name)
	}
	return fmt.Sprintf("registry.Named(%q)", i.name)
}

// Well-known language ids.
var (
	LangGo     = Named("go")
	LangNode   = Named("nodejs")
	LangPython = Named("python")
	LangRust   = Named("rust")
	LangJava   = Named("java")
)

// Well-known build-system ids.
var (
	BuildSystemGoMod = Named("gomod")
	BuildSystemNpm   = Named("npm")
	BuildSystemYarn  = Named("yarn")
	BuildSystemPnpm  = Named("pnpm")
	BuildSystemPip   = Named("pip")
	BuildSystemPoetry = Named("poetry")
	BuildSystemCargo = Named("cargo")
	BuildSystemMaven = Named("maven")
	BuildSystemGradle = Named("gradle")
)

// Well-known framework ids.
var (
	FrameworkExpress = Named("express")
	FrameworkFastify = Named("fastify")
	FrameworkFlask   = Named("flask")
	FrameworkDjango  = Named("django")
	FrameworkFastAPI = Named("fastapi")
	FrameworkSpring  = Named("spring")
	FrameworkActix   = Named("actix-web")
	FrameworkRocket  = Named("rocket")
)

// Well-known runtime ids. Runtimes are the "execution environment"
// associated 1:1 with a language (nodejs runtime runs nodejs code).
var (
	RuntimeNode   = Named("nodejs")
	RuntimePython = Named("python")
	RuntimeGo     = Named("go")
	RuntimeJVM    = Named("jvm")
	RuntimeRust   = Named("rust")
)

// Well-known orchestrator ids.
var (
	OrchestratorPnpmWorkspace = Named("pnpm-workspace")
	OrchestratorYarnWorkspace = Named("yarn-workspace")
	OrchestratorTurborepo     = Named("turborepo")
	OrchestratorNx            = Named("nx")
	OrchestratorCargoWorkspace = Named("cargo-workspace")
)

// Known is an ordered, pretty-printable list of ids, used for error
// messages that need to enumerate valid choices. A slice of ID rather
// than strings, so every plugin kind can reuse the same "quote, comma,
// and" formatting.
type Known []ID

func (k Known) String() string {
	if len(k) == 0 {
		return ""
	}
	if len(k) == 1 {
		return fmt.Sprintf("%q", k[0].String())
	}
	s := ""
	for i, id := range k {
		switch {
		case i < len(k)-2:
			s += fmt.Sprintf("%q, ", id.String())
		case i < len(k)-1:
			s += fmt.Sprintf("%q and ", id.String())
		default:
			s += fmt.Sprintf("%q", id.String())
		}
	}
	return s
}

// ErrUnknown is returned by a lookup method when the given id has no
// registered plugin.
type ErrUnknown struct {
	Kind  Kind
	Name  string
	Known Known
}

func (e ErrUnknown) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("%q is not a known %s", e.Name, e.Kind)
	}
	return fmt.Sprintf("%q is not a known %s. Available: %s", e.Name, e.Kind, e.Known)
}
