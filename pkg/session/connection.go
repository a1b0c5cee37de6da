// Package session implements the Build Session (spec.md §4.B1-B6): a
// single build's channel to the builder daemon, from dial through LLB
// encoding, session attach, the inner FileSync/FileSend/Auth server,
// progress streaming, and the on-disk cache index. No Health service
// is registered on the session.
//
// Grounded on original_source/crates/buildkit/src/session.rs, the
// Rust build session this package replaces — that crate hand-rolled
// its own tonic server because it had no high-level client library.
// moby/buildkit's own Go client (already a real dependency, pulled in
// for client.CacheOptionsEntry and llb.State) already implements the
// session multiplexing, FileSync/FileSend attachables, and concurrent
// solve+status draining the Rust code built by hand; this package
// wires that client the way session.rs's BuildSession orchestrates
// its own, rather than re-implementing the wire protocol.
package session

import (
	"context"
	"net/url"
	"strings"

	"github.com/moby/buildkit/client"
	"github.com/pkg/errors"

	"github.com/peelbox/peelbox/pkg/perr"
)

// Connection is the single long-lived channel to the builder daemon
// spec.md §4.B1 describes. It wraps *client.Client; peelbox dials once
// and never reconnects — a dropped connection is reported to the
// caller as perr.BuilderUnreachable, the same as a dial failure.
type Connection struct {
	address string
	client  *client.Client
}

// Dial opens the single channel to the builder over a Unix domain
// socket or TCP endpoint (address is e.g. "unix:///run/buildkit/
// buildkitd.sock" or "tcp://127.0.0.1:1234", the same addressing
// client.New already accepts). Reconnection is never attempted: a
// dial failure is immediately perr.BuilderUnreachable.
func Dial(ctx context.Context, address string) (*Connection, error) {
	if address == "" {
		return nil, perr.BuilderUnreachable{Endpoint: address, Cause: errors.New("no builder address configured")}
	}
	if _, err := url.Parse(address); err != nil {
		return nil, perr.BuilderUnreachable{Endpoint: address, Cause: err}
	}

	c, err := client.New(ctx, address)
	if err != nil {
		return nil, perr.BuilderUnreachable{Endpoint: address, Cause: err}
	}
	return &Connection{address: address, client: c}, nil
}

// Client returns the underlying buildkit client for the Solve/Status
// calls B2-B5 drive.
func (c *Connection) Client() *client.Client { return c.client }

// Address reports the dialed endpoint, for logging and session
// metadata (the session-name/shared-key derivation in attach.go does
// not use it, but diagnostics do).
func (c *Connection) Address() string { return c.address }

// Close releases the connection. The byte stream itself must not be
// closed while a session is SERVING (spec.md §4.B3); callers close a
// Connection only after the session reaches DRAINING/CLOSED.
func (c *Connection) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// IsLocalSocket reports whether address names a Unix domain socket,
// used only to decide log phrasing ("local builder" vs "remote
// builder") — connection behavior itself is identical either way.
func IsLocalSocket(address string) bool {
	return strings.HasPrefix(address, "unix://")
}
