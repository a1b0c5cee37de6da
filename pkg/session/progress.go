package session

import (
	"context"

	"github.com/moby/buildkit/client"
)

// statusChanCapacity is the bounded status-forwarding channel size
// spec.md §5 names ("status forwarding = 100"); overflow drops the
// oldest message, preferring freshness over completeness.
const statusChanCapacity = 100

// Update is one delta from the builder's status stream (spec.md
// §4.B5: "{vertexes, statuses, logs, warnings}").
type Update struct {
	Vertexes []*client.Vertex
	Statuses []*client.VertexStatus
	Logs     []*client.VertexLog
	Warnings []*client.VertexWarning
}

// ProgressStream consumes the builder's status stream concurrently
// with the solve call (B5), forwarding through a bounded channel that
// drops the oldest pending update on overflow rather than blocking
// the producer — spec.md §5's backpressure policy for this channel.
type ProgressStream struct {
	updates chan Update
}

// NewProgressStream starts draining statusCh (as populated by
// client.Client.Solve's own concurrent status goroutine) into a
// bounded, drop-oldest Update channel. Call Drain after the solve
// call returns to flush whatever is still buffered, matching
// session.rs's "process any remaining status updates" step before it
// reports the solve response.
func NewProgressStream(ctx context.Context, statusCh <-chan *client.SolveStatus) *ProgressStream {
	p := &ProgressStream{updates: make(chan Update, statusChanCapacity)}
	go p.run(ctx, statusCh)
	return p
}

func (p *ProgressStream) run(ctx context.Context, statusCh <-chan *client.SolveStatus) {
	defer close(p.updates)
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-statusCh:
			if !ok {
				return
			}
			p.forward(Update{
				Vertexes: st.Vertexes,
				Statuses: st.Statuses,
				Logs:     st.Logs,
				Warnings: st.Warnings,
			})
		}
	}
}

// forward pushes u onto the bounded channel, dropping the oldest
// buffered update to make room rather than blocking.
func (p *ProgressStream) forward(u Update) {
	select {
	case p.updates <- u:
		return
	default:
	}
	select {
	case <-p.updates:
	default:
	}
	select {
	case p.updates <- u:
	default:
	}
}

// Updates is the channel of forwarded progress deltas; it closes when
// the underlying status stream ends.
func (p *ProgressStream) Updates() <-chan Update { return p.updates }

// Drain consumes and discards any remaining buffered updates,
// returning once the channel is closed and empty — used after the
// solve call completes and the caller only cares that the final
// status messages have been observed, not their content.
func (p *ProgressStream) Drain() {
	for range p.updates {
	}
}
