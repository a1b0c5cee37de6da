package session

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

func TestParseOutput_DockerShorthand(t *testing.T) {
	out, err := ParseOutput("type=docker")
	if err != nil {
		t.Fatal(err)
	}
	if out.Type != "docker" || out.Dest != "" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestParseOutput_DestOnlyDefaultsToOCI(t *testing.T) {
	out, err := ParseOutput("dest=/tmp/image.tar")
	if err != nil {
		t.Fatal(err)
	}
	if out.Type != "oci" || out.Dest != "/tmp/image.tar" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestParseOutput_TypeWithDest(t *testing.T) {
	out, err := ParseOutput("type=tar,dest=/tmp/image.tar")
	if err != nil {
		t.Fatal(err)
	}
	if out.Type != "tar" || out.Dest != "/tmp/image.tar" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestParseOutput_NonDockerRequiresDest(t *testing.T) {
	if _, err := ParseOutput("type=oci"); err == nil {
		t.Fatal("expected error: type=oci without dest")
	}
}

func TestParseOutput_LocalRequiresDest(t *testing.T) {
	if _, err := ParseOutput("type=local"); err == nil {
		t.Fatal("expected error: type=local without dest")
	}
	out, err := ParseOutput("type=local,dest=/tmp/out")
	if err != nil {
		t.Fatal(err)
	}
	if out.Type != "local" || out.Dest != "/tmp/out" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestOutput_ExporterType(t *testing.T) {
	if got := (Output{Type: "local"}).ExporterType(); got != "oci" {
		t.Fatalf("expected local to wire as oci, got %q", got)
	}
	if got := (Output{Type: "docker"}).ExporterType(); got != "docker" {
		t.Fatalf("expected docker to pass through unchanged, got %q", got)
	}
}

func TestParseOutput_Empty(t *testing.T) {
	if _, err := ParseOutput(""); err == nil {
		t.Fatal("expected error for empty --output")
	}
}

func TestParseOutput_MissingTypeAndDest(t *testing.T) {
	if _, err := ParseOutput("foo=bar"); err == nil {
		t.Fatal("expected error when neither type nor dest is given")
	}
}

func TestFileSend_CountsBytesAndFiresDoneOnce(t *testing.T) {
	var buf bytes.Buffer
	fs := NewFileSend()
	w := countingOutput{fs: fs, w: nopWriteCloser{&buf}}

	if _, err := io.WriteString(w, "hello"); err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, " world"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fs.Done():
	default:
		t.Fatal("expected Done to be closed after Close")
	}

	if got := fs.BytesWritten(); got != uint64(len("hello world")) {
		t.Fatalf("expected %d bytes written, got %d", len("hello world"), got)
	}
	if buf.String() != "hello world" {
		t.Fatalf("unexpected sink contents: %q", buf.String())
	}

	// Closing again must not double-close the Done channel.
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestFileSend_AttachableBuildsWithoutError(t *testing.T) {
	var buf bytes.Buffer
	fs := NewFileSend()
	if a := fs.Attachable(nopWriteCloser{&buf}); a == nil {
		t.Fatal("expected a non-nil Attachable")
	}
}

func TestOutput_Sink_LocalExtractsIntoDest(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out")
	out := Output{Type: "local", Dest: dest}

	w, err := out.sink(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	const content = "hello"
	if err := tw.WriteHeader(&tar.Header{Name: "a.txt", Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(content))}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(filepath.Join(dest, "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Fatalf("unexpected extracted contents: %q", got)
	}
}
