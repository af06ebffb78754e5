// Package reorder applies drag reorders to an ordered collection and hands
// the resulting order to a remote store.
package reorder

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/pods/pkg/episode"
)

// Identified is anything with a stable episode id.
type Identified interface {
	ItemID() episode.ID
}

// Move removes the item with id dragged and reinserts it at target, where
// target is an index computed before the removal. The insertion index is
// clamped to the shortened slice. The input is never modified; when nothing
// moves the input slice itself is returned with ok false.
func Move[T Identified](items []T, dragged episode.ID, target int) ([]T, bool) {
	from := -1
	for i, it := range items {
		if it.ItemID() == dragged {
			from = i
			break
		}
	}
	if from < 0 || target < 0 || target == from {
		return items, false
	}

	out := make([]T, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)

	at := target
	if at > len(out) {
		at = len(out)
	}
	var zero T
	out = append(out, zero)
	copy(out[at+1:], out[at:])
	out[at] = items[from]
	return out, true
}

// Persister stores a complete queue order remotely.
type Persister interface {
	ReorderQueue(ctx context.Context, ids []episode.ID) error
}

// ErrNoPersister is reported by jobs run without a Persister.
var ErrNoPersister = errors.New("reorder: no persister configured")

// DefaultTimeout bounds a single persistence call.
const DefaultTimeout = 30 * time.Second

// Result is the outcome of one persistence job.
type Result struct {
	Op      uuid.UUID
	IDs     []episode.ID
	Err     error
	Elapsed time.Duration
}

// Job is a pending persistence call. Hosts run it off the render path.
type Job struct {
	Op  uuid.UUID
	IDs []episode.ID
	run func(ctx context.Context) Result
}

// Run performs the call. A nil job is a no-op.
func (j *Job) Run(ctx context.Context) Result {
	if j == nil || j.run == nil {
		return Result{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return j.run(ctx)
}

// Reconciler applies reorders locally and prepares the remote update. A
// failed update is logged and the local order is kept.
type Reconciler struct {
	Persister Persister
	Logger    *log.Logger
	Timeout   time.Duration
}

func (r *Reconciler) logger() *log.Logger {
	if r == nil || r.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return r.Logger
}

// Reorder moves dragged to target. When the order changed it returns the new
// collection and the job that persists it; otherwise the input and a nil job.
func (r *Reconciler) Reorder(items []episode.Episode, dragged episode.ID, target int) ([]episode.Episode, *Job, bool) {
	next, ok := Move(items, dragged, target)
	if !ok {
		return items, nil, false
	}
	return next, r.Persist(episode.IDs(next)), true
}

// Persist returns a job that sends the full id sequence to the Persister.
func (r *Reconciler) Persist(ids []episode.ID) *Job {
	ids = append([]episode.ID(nil), ids...)
	op := uuid.New()
	var p Persister
	timeout := DefaultTimeout
	if r != nil {
		p = r.Persister
		if r.Timeout > 0 {
			timeout = r.Timeout
		}
	}
	logger := r.logger()

	run := func(ctx context.Context) Result {
		res := Result{Op: op, IDs: ids}
		if p == nil {
			res.Err = ErrNoPersister
			logger.Printf("reorder %s: %v", op, res.Err)
			return res
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		start := time.Now()
		res.Err = p.ReorderQueue(ctx, ids)
		res.Elapsed = time.Since(start)
		if res.Err != nil {
			logger.Printf("reorder %s: failed to update order on server: %v", op, res.Err)
		} else {
			logger.Printf("reorder %s: stored %d episodes in %s", op, len(ids), res.Elapsed)
		}
		return res
	}
	return &Job{Op: op, IDs: ids, run: run}
}
