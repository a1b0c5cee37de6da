package session_test

import (
	"context"
	"testing"

	"github.com/peelbox/peelbox/pkg/session"
	"github.com/peelbox/peelbox/pkg/universalbuild"
)

func TestSolveRef_PrefixedBySessionID(t *testing.T) {
	ref := session.SolveRef("sess-123", "abc")
	if ref != "sess-123-abc" {
		t.Fatalf("unexpected solve ref: %q", ref)
	}
}

func TestEncode_RejectsMissingBaseImage(t *testing.T) {
	ub := universalbuild.New()
	ub.Runtime.Command = []string{"/app/run"}
	ub.Runtime.Ports = []uint16{8080}

	if _, err := session.Encode(context.Background(), ub, "sess-1"); err == nil {
		t.Fatal("expected an error when runtime.base_image is empty")
	}
}

func TestEncode_BuildsDefinitionForMinimalBuild(t *testing.T) {
	ub := universalbuild.New()
	ub.Metadata.ProjectName = "demo"
	ub.Runtime.BaseImage = "python:3.12-slim"
	ub.Runtime.Command = []string{"/app/run"}
	ub.Runtime.Ports = []uint16{8080}
	ub.Build.Commands = []string{"pip install -r requirements.txt"}
	ub.Runtime.Copy = []universalbuild.CopyEntry{{From: "/app", To: "/app"}}

	def, err := session.Encode(context.Background(), ub, "sess-2")
	if err != nil {
		t.Fatal(err)
	}
	if def == nil || len(def.Def) == 0 {
		t.Fatal("expected a non-empty LLB definition")
	}
}
