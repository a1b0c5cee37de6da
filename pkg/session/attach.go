package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	bksession "github.com/moby/buildkit/session"
)

// State is the Session Attach state machine spec.md §4.B3 names.
type State int

const (
	Idle State = iota
	Dialing
	Advertising
	Serving
	Draining
	Closed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Dialing:
		return "DIALING"
	case Advertising:
		return "ADVERTISING"
	case Serving:
		return "SERVING"
	case Draining:
		return "DRAINING"
	case Closed:
		return "CLOSED"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// drainGrace bounds how long a caller waits for the inner server to
// join before treating the session as forced-down (spec.md §4.B3/§5:
// "2-second join budget before forced drop").
const drainGrace = 2 * time.Second

// Attach tracks one session's IDLE→DIALING→ADVERTISING→SERVING→
// DRAINING→CLOSED lifecycle (spec.md §4.B3) and collects the
// Attachables (FileSync, FileSend, Auth) the builder's session
// protocol advertises.
//
// moby/buildkit's public client.Client.Solve already performs the
// dial/advertise/serve/drain sequence session.rs hand-rolled over
// tonic — it creates an internal bksession.Session from
// client.SolveOpt.Session, attaches it via the client's own dialer,
// keeps the byte-multiplex stream open for the call's duration (never
// observing our own EOF, satisfying spec.md §4.B3's invariant), and
// tears it down once Solve returns. Attach therefore does not run a
// second, competing session of its own; it tracks phase for
// observability/logging and hands its Attachables to the Solve call
// that performs the real state transitions.
type Attach struct {
	mu    sync.Mutex
	state State

	id string

	attachables []bksession.Attachable
}

// NewAttach allocates a session identity (spec.md's session-uuid;
// session-name and shared-key are derived from it the same way
// session.rs's generate_session_id-based trio was) without dialing
// yet.
func NewAttach() *Attach {
	return &Attach{state: Idle, id: uuid.NewString()}
}

// ID returns the session identity embedded in LLB (B2) and used as
// the SolveOpt.SharedKey so repeated builds of the same context reuse
// the builder's session-scoped caches.
func (a *Attach) ID() string { return a.id }

// State reports the current lifecycle state.
func (a *Attach) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Attach) transition(to State) {
	a.mu.Lock()
	a.state = to
	a.mu.Unlock()
}

// Register adds an inner-server Attachable (FileSync, FileSend, or
// Auth) before Solve is called. Must be called only while IDLE.
func (a *Attach) Register(attachable bksession.Attachable) {
	a.attachables = append(a.attachables, attachable)
}

// Attachables returns the collected session.Attachable list for
// client.SolveOpt.Session.
func (a *Attach) Attachables() []bksession.Attachable { return a.attachables }

// MarkDialing, MarkServing, and MarkClosed record phase transitions
// around the Solve call that performs them (see the Attach doc
// comment): MarkDialing/MarkServing bracket the call's start,
// MarkClosed (via MarkDraining first) its return.
func (a *Attach) MarkDialing() { a.transition(Dialing) }
func (a *Attach) MarkServing() { a.transition(Advertising); a.transition(Serving) }
func (a *Attach) MarkFailed()   { a.transition(Failed) }
func (a *Attach) MarkDraining() { a.transition(Draining) }
func (a *Attach) MarkClosed()   { a.transition(Closed) }
