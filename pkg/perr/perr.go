// Package perr defines the error-kind taxonomy the CLI layer dispatches
// on to choose an exit code and a remediation message (spec.md §7).
// Each kind is its own exported struct, rather than one generic "kind"
// enum wrapped around an opaque cause.
package perr

import "fmt"

// InputInvalid covers a missing/unreadable repo path, a malformed
// build spec, or an unknown service name passed to --service.
type InputInvalid struct {
	Reason string
}

func (e InputInvalid) Error() string { return fmt.Sprintf("invalid input: %s", e.Reason) }

// DetectionEmpty is raised when the Scanner walks a repository and
// finds no recognized manifest at all.
type DetectionEmpty struct {
	Path string
}

func (e DetectionEmpty) Error() string {
	return fmt.Sprintf("no buildable manifest found under %q", e.Path)
}

// PluginFailure wraps a recovered panic or malformed return value from
// a plugin parser. It is logged and the offending service is skipped;
// it never aborts the whole detection run.
type PluginFailure struct {
	Service string
	Plugin  string
	Cause   error
}

func (e PluginFailure) Error() string {
	return fmt.Sprintf("plugin %q failed analyzing %q: %v", e.Plugin, e.Service, e.Cause)
}

func (e PluginFailure) Unwrap() error { return e.Cause }

// LLMUnavailable means every configured LLM provider was unreachable
// when the Classifier or Dependency Parser needed the LLM fallback.
type LLMUnavailable struct {
	Providers []string
	Cause     error
}

func (e LLMUnavailable) Error() string {
	if len(e.Providers) == 0 {
		return fmt.Sprintf("no LLM provider is available: %v", e.Cause)
	}
	return fmt.Sprintf("no LLM provider among %v is available: %v", e.Providers, e.Cause)
}

func (e LLMUnavailable) Unwrap() error { return e.Cause }

// BuilderUnreachable means B1 Connection could not dial the builder
// daemon at all.
type BuilderUnreachable struct {
	Endpoint string
	Cause    error
}

func (e BuilderUnreachable) Error() string {
	return fmt.Sprintf("cannot reach builder at %q: %v", e.Endpoint, e.Cause)
}

func (e BuilderUnreachable) Unwrap() error { return e.Cause }

// SessionRejected means the builder rejected the session attach.
type SessionRejected struct {
	StatusCode int
	Message    string
}

func (e SessionRejected) Error() string {
	return fmt.Sprintf("builder rejected session (status %d): %s", e.StatusCode, e.Message)
}

// SolveFailed means the build itself failed inside the builder daemon.
type SolveFailed struct {
	BuilderMessage string
}

func (e SolveFailed) Error() string { return fmt.Sprintf("build failed: %s", e.BuilderMessage) }

// ExportTimeout means the final image tar did not arrive within the
// session's export budget (default 5 minutes, spec.md §5).
type ExportTimeout struct {
	BudgetSeconds int
}

func (e ExportTimeout) Error() string {
	return fmt.Sprintf("export did not complete within %ds", e.BudgetSeconds)
}

// ExportIoError means the FileSend sink (docker-load pipe or output
// file) closed unexpectedly mid-transfer. Per spec.md §7 this is
// surfaced to the caller as a SolveFailed.
type ExportIoError struct {
	Cause error
}

func (e ExportIoError) Error() string { return fmt.Sprintf("export sink error: %v", e.Cause) }

func (e ExportIoError) Unwrap() error { return e.Cause }

// AsSolveFailed renders an ExportIoError as the SolveFailed the caller
// is meant to observe, per spec.md §7's propagation column.
func (e ExportIoError) AsSolveFailed() SolveFailed {
	return SolveFailed{BuilderMessage: e.Error()}
}

// CachePersistError means the local cache index file could not be
// read or written. Per spec.md §7 this is a warning, never fatal.
type CachePersistError struct {
	Path  string
	Cause error
}

func (e CachePersistError) Error() string {
	return fmt.Sprintf("cache index %q: %v", e.Path, e.Cause)
}

func (e CachePersistError) Unwrap() error { return e.Cause }

// Fatal reports whether err should cause a non-zero process exit, per
// spec.md §7's propagation column. PluginFailure and CachePersistError
// are the two kinds that are logged-and-continued rather than
// terminal; every other kind (and any error not in this taxonomy) is
// fatal.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	switch err.(type) {
	case PluginFailure, CachePersistError:
		return false
	default:
		return true
	}
}
