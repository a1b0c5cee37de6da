package session

import (
	"context"
	"testing"
	"time"

	"github.com/moby/buildkit/client"
)

func TestProgressStream_ForwardsUpdates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	statusCh := make(chan *client.SolveStatus, 1)
	p := NewProgressStream(ctx, statusCh)

	statusCh <- &client.SolveStatus{Logs: []*client.VertexLog{{Data: []byte("hi")}}}
	close(statusCh)

	select {
	case u, ok := <-p.Updates():
		if !ok {
			t.Fatal("expected an update before channel close")
		}
		if len(u.Logs) != 1 || string(u.Logs[0].Data) != "hi" {
			t.Fatalf("unexpected update: %+v", u)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for forwarded update")
	}

	select {
	case _, ok := <-p.Updates():
		if ok {
			t.Fatal("expected Updates to close once statusCh is drained and closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Updates to close")
	}
}

func TestProgressStream_DropsOldestOnOverflow(t *testing.T) {
	p := &ProgressStream{updates: make(chan Update, 1)}

	first := Update{Logs: []*client.VertexLog{{Data: []byte("first")}}}
	second := Update{Logs: []*client.VertexLog{{Data: []byte("second")}}}

	p.forward(first)
	p.forward(second)

	select {
	case got := <-p.updates:
		if string(got.Logs[0].Data) != "second" {
			t.Fatalf("expected the newest update to survive, got %q", got.Logs[0].Data)
		}
	default:
		t.Fatal("expected a buffered update")
	}
}

func TestProgressStream_Drain(t *testing.T) {
	p := &ProgressStream{updates: make(chan Update, 2)}
	p.updates <- Update{}
	p.updates <- Update{}
	close(p.updates)

	done := make(chan struct{})
	go func() {
		p.Drain()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Drain did not return after channel close")
	}
}

func TestProgressStream_CancelStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	statusCh := make(chan *client.SolveStatus)
	p := NewProgressStream(ctx, statusCh)

	cancel()

	select {
	case _, ok := <-p.Updates():
		if ok {
			t.Fatal("expected no updates after cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("expected run() to exit and close updates after ctx cancellation")
	}
}
