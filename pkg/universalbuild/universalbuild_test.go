package universalbuild_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/peelbox/peelbox/pkg/universalbuild"
)

func sample() universalbuild.UniversalBuild {
	u := universalbuild.New()
	u.Metadata = universalbuild.Metadata{
		ProjectName: "hello",
		Language:    "rust",
		BuildSystem: "cargo",
		Reasoning:   "single Cargo.toml at repo root",
	}
	u.Build.Commands = []string{"cargo build --release"}
	u.Build.Cache = []string{"target"}
	u.Runtime.Command = []string{"/usr/local/bin/hello"}
	u.Runtime.Ports = []uint16{8080}
	u.Runtime.Copy = []universalbuild.CopyEntry{{From: "/app/target/release/hello", To: "/usr/local/bin/hello"}}
	return u
}

// TestRoundTrip covers spec.md §8 invariant 5: parsing then
// serializing a UniversalBuild round-trips under JSON.
func TestRoundTrip(t *testing.T) {
	u := sample()
	data, err := json.Marshal(u)
	if err != nil {
		t.Fatal(err)
	}
	var got universalbuild.UniversalBuild
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(u, got) {
		t.Fatalf("round-trip mismatch:\n want %+v\n got  %+v", u, got)
	}
}

func TestValid_RejectsEmptyCommand(t *testing.T) {
	u := sample()
	u.Runtime.Command = nil
	if err := u.Valid(); err == nil {
		t.Fatal("expected an error for empty runtime.command")
	}
}

func TestValid_RejectsEmptyPorts(t *testing.T) {
	u := sample()
	u.Runtime.Ports = nil
	if err := u.Valid(); err == nil {
		t.Fatal("expected an error for empty runtime.ports")
	}
}

func TestValid_AcceptsWellFormed(t *testing.T) {
	if err := sample().Valid(); err != nil {
		t.Fatal(err)
	}
}

// TestArrayOfOneAcceptedWhereSingleExpected documents spec.md §6's
// "Array-of-one is accepted wherever a single-service spec is
// expected" contract at the schema level: a []UniversalBuild of
// length 1 unmarshals from the same document shape a bare object
// would produce once wrapped, and callers (cmd/peelbox build) accept
// both forms.
func TestArrayOfOneAcceptedWhereSingleExpected(t *testing.T) {
	u := sample()
	data, err := json.Marshal([]universalbuild.UniversalBuild{u})
	if err != nil {
		t.Fatal(err)
	}
	var got []universalbuild.UniversalBuild
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !reflect.DeepEqual(got[0], u) {
		t.Fatalf("unexpected round-trip of array-of-one: %+v", got)
	}
}
