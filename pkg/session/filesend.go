package session

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"

	bksession "github.com/moby/buildkit/session"
	"github.com/moby/buildkit/session/filesync"
	"github.com/pkg/errors"

	"github.com/peelbox/peelbox/pkg/perr"
	"github.com/peelbox/peelbox/pkg/tar"
)

// Output describes where the exported image tar goes (spec.md §6's
// --output grammar), mirroring session.rs's OutputDestination enum
// (DockerLoad vs File{format, path}) one-for-one, plus a "local" format
// — borrowed from the --cache-from/--cache-to grammar's own type=local
// — that extracts the tar into a directory instead of writing it raw.
type Output struct {
	// Type is the builder exporter type: "docker", "oci", "tar", or
	// "local".
	Type string
	// Dest is the destination path: a file for "oci"/"tar", a
	// directory for "local", and unused (empty) for "docker", which
	// instead pipes the tar into a local `docker load`.
	Dest string
}

// ParseOutput parses the --output flag's grammar: a bare "type=docker"
// (no dest, pipes to docker load), "type=local,dest=dir" (extracts into
// dir, creating it if needed), or "type=oci,dest=path" / "dest=path"
// (format defaults to "oci" when only dest is given).
func ParseOutput(raw string) (Output, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Output{}, errors.New("empty --output value")
	}

	attrs := make(map[string]string)
	for _, field := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			return Output{}, errors.Errorf("invalid --output field %q: expected key=value", field)
		}
		attrs[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	typ := attrs["type"]
	dest := attrs["dest"]
	if typ == "" {
		if dest == "" {
			return Output{}, errors.New(`--output requires "type" or "dest"`)
		}
		typ = "oci"
	}
	if typ != "docker" && dest == "" {
		return Output{}, errors.Errorf("--output type=%s requires \"dest\"", typ)
	}
	return Output{Type: typ, Dest: dest}, nil
}

// ExporterType is the exporter type named to the builder over the wire.
// "local" isn't a tar-producing buildkit exporter (its real local
// exporter copies files through a different session method entirely,
// bypassing FileSend) — peelbox's own "local" output instead asks the
// builder for a real "oci" tar and extracts it into Dest itself, so the
// wire-level type is always one the single FileSend attachable above
// can actually receive.
func (o Output) ExporterType() string {
	if o.Type == "local" {
		return "oci"
	}
	return o.Type
}

// sink opens the io.WriteCloser the exported tar streams into: a
// directory-extraction sink for Type=="local", a file at Dest for any
// other named Dest, or a `docker load` subprocess's stdin when Dest is
// empty (docker load reads the tar from stdin when invoked with none).
func (o Output) sink(ctx context.Context) (io.WriteCloser, error) {
	if o.Type == "local" {
		return newExtractSink(o.Dest)
	}

	if o.Dest != "" {
		f, err := os.Create(o.Dest)
		if err != nil {
			return nil, perr.ExportIoError{Cause: err}
		}
		return f, nil
	}

	cmd := exec.CommandContext(ctx, "docker", "load")
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, perr.ExportIoError{Cause: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, perr.ExportIoError{Cause: err}
	}
	return &dockerLoadSink{stdin: stdin, cmd: cmd}, nil
}

// dockerLoadSink closes docker load's stdin and waits for the process
// on Close, surfacing a nonzero exit as perr.ExportIoError.
type dockerLoadSink struct {
	stdin io.WriteCloser
	cmd   *exec.Cmd
}

func (d *dockerLoadSink) Write(p []byte) (int, error) { return d.stdin.Write(p) }

func (d *dockerLoadSink) Close() error {
	if err := d.stdin.Close(); err != nil {
		return perr.ExportIoError{Cause: err}
	}
	if err := d.cmd.Wait(); err != nil {
		return perr.ExportIoError{Cause: err}
	}
	return nil
}

// extractSink pipes the exported tar stream straight into pkg/tar's
// extractor, running Extract concurrently with the writes instead of
// buffering the whole tar to disk first.
type extractSink struct {
	pw   *io.PipeWriter
	done chan error
}

// newExtractSink creates dest if it does not exist, then extracts into
// it; pkg/tar.Extract purges whatever dest already holds before
// repopulating it.
func newExtractSink(dest string) (*extractSink, error) {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, perr.ExportIoError{Cause: err}
	}

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- tar.Extract(pr, dest) }()
	return &extractSink{pw: pw, done: done}, nil
}

func (e *extractSink) Write(p []byte) (int, error) { return e.pw.Write(p) }

func (e *extractSink) Close() error {
	if err := e.pw.Close(); err != nil {
		return perr.ExportIoError{Cause: err}
	}
	if err := <-e.done; err != nil {
		return perr.ExportIoError{Cause: err}
	}
	return nil
}

// FileSend is the B4 FileSend service: it accepts the exported image
// tar via the session, appending to the configured Output sink, and
// fires a one-shot signal on the final EOF (spec.md §4.B4/§5: "final
// EOF fires the one-shot export-complete signal"; "bytes-written
// counter: atomic increment-only").
type FileSend struct {
	bytesWritten atomic.Uint64
	done         chan struct{}
	doneOnce     sync.Once
}

// NewFileSend allocates a FileSend tracker.
func NewFileSend() *FileSend {
	return &FileSend{done: make(chan struct{})}
}

// Attachable builds the session.Attachable that answers the builder's
// FileSend/DiffCopy calls, writing every chunk through w (the
// Output's sink) and closing over the counter and completion signal.
// Reuses moby/buildkit/session/filesync's own FileSend implementation
// (the wire-compatibility spec.md §6 demands is inherited directly
// from the builder's own client library rather than re-derived) —
// session.rs had to hand-write this server because it had no such
// library.
func (f *FileSend) Attachable(w io.WriteCloser) bksession.Attachable {
	return filesync.NewFSSyncTarget(func(map[string]string) (io.WriteCloser, error) {
		return countingOutput{fs: f, w: w}, nil
	})
}

// countingOutput wraps the sink so every Write increments the shared
// counter, and Close fires the export-complete signal exactly once
// regardless of how many times the builder calls it.
type countingOutput struct {
	fs *FileSend
	w  io.WriteCloser
}

func (c countingOutput) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.fs.bytesWritten.Add(uint64(n))
	return n, err
}

func (c countingOutput) Close() error {
	err := c.w.Close()
	c.fs.doneOnce.Do(func() { close(c.fs.done) })
	return err
}

// BytesWritten returns the atomic running total, read once at session
// end (spec.md §5).
func (f *FileSend) BytesWritten() uint64 { return f.bytesWritten.Load() }

// Done is closed exactly once, on the final EOF of the exported tar.
func (f *FileSend) Done() <-chan struct{} { return f.done }
