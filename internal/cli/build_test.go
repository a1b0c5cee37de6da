package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/peelbox/peelbox/pkg/universalbuild"
)

func sample(name string) universalbuild.UniversalBuild {
	u := universalbuild.New()
	u.Metadata.ProjectName = name
	u.Runtime.BaseImage = "python:3.12-slim"
	u.Runtime.Command = []string{"/app/run"}
	u.Runtime.Ports = []uint16{8080}
	return u
}

func writeSpec(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "spec.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadUniversalBuild_BareObject(t *testing.T) {
	path := writeSpec(t, sample("demo"))
	got, err := loadUniversalBuild(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if got.Metadata.ProjectName != "demo" {
		t.Fatalf("unexpected project name: %q", got.Metadata.ProjectName)
	}
}

func TestLoadUniversalBuild_ArrayOfOne(t *testing.T) {
	path := writeSpec(t, []universalbuild.UniversalBuild{sample("demo")})
	got, err := loadUniversalBuild(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if got.Metadata.ProjectName != "demo" {
		t.Fatalf("unexpected project name: %q", got.Metadata.ProjectName)
	}
}

func TestLoadUniversalBuild_ArraySelectsByService(t *testing.T) {
	path := writeSpec(t, []universalbuild.UniversalBuild{sample("api"), sample("worker")})
	got, err := loadUniversalBuild(path, "worker")
	if err != nil {
		t.Fatal(err)
	}
	if got.Metadata.ProjectName != "worker" {
		t.Fatalf("expected worker, got %q", got.Metadata.ProjectName)
	}
}

func TestLoadUniversalBuild_ArrayWithoutServiceErrors(t *testing.T) {
	path := writeSpec(t, []universalbuild.UniversalBuild{sample("api"), sample("worker")})
	if _, err := loadUniversalBuild(path, ""); err == nil {
		t.Fatal("expected an error when --service is missing for a multi-service spec")
	}
}

func TestLoadUniversalBuild_UnknownServiceErrors(t *testing.T) {
	path := writeSpec(t, []universalbuild.UniversalBuild{sample("api")})
	if _, err := loadUniversalBuild(path, "nope"); err == nil {
		t.Fatal("expected an error for an unknown --service name")
	}
}

func TestLoadUniversalBuild_MissingFile(t *testing.T) {
	if _, err := loadUniversalBuild(filepath.Join(t.TempDir(), "missing.json"), ""); err == nil {
		t.Fatal("expected an error for a missing spec file")
	}
}

func TestLoadUniversalBuild_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadUniversalBuild(path, ""); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestVersion_String(t *testing.T) {
	if got := (Version{}).String(); got != "(devel)" {
		t.Fatalf("expected (devel) for zero Version, got %q", got)
	}
	v := Version{Date: "2026-01-01", Vers: "v1.2.3", Hash: "abc123"}
	if got := v.String(); got != "v1.2.3 (abc123, 2026-01-01)" {
		t.Fatalf("unexpected version string: %q", got)
	}
}
