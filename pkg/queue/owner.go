package queue

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultFrame approximates one display frame.
const DefaultFrame = 16 * time.Millisecond

// ErrClosed is returned when talking to an Owner that has stopped.
var ErrClosed = errors.New("queue: owner closed")

// Owner serializes all access to a Model on one goroutine. Commands, view
// requests, frame timers and persistence results all funnel through its
// channel, so the collection is never shared.
type Owner struct {
	model *Model
	frame time.Duration

	cmds chan func(*Model)
	done chan struct{}
	once sync.Once
	jobs sync.WaitGroup
}

// OwnerOption configures an Owner.
type OwnerOption func(*Owner)

// WithFrame sets the frame interval used for ScheduleFrame effects.
func WithFrame(d time.Duration) OwnerOption {
	return func(o *Owner) {
		if d > 0 {
			o.frame = d
		}
	}
}

// NewOwner wraps m. Call Start before sending commands.
func NewOwner(m *Model, opts ...OwnerOption) *Owner {
	o := &Owner{
		model: m,
		frame: DefaultFrame,
		cmds:  make(chan func(*Model), 64),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start runs the owner loop until ctx is done, at which point the model is
// unmounted. In-flight persistence jobs are not cancelled; use Wait for them.
func (o *Owner) Start(ctx context.Context) {
	go o.loop(ctx)
}

func (o *Owner) loop(ctx context.Context) {
	defer o.once.Do(func() { close(o.done) })
	for {
		select {
		case <-ctx.Done():
			o.model.Apply(Unmounted{})
			return
		case fn := <-o.cmds:
			fn(o.model)
		}
	}
}

// Done is closed once the owner stops.
func (o *Owner) Done() <-chan struct{} { return o.done }

// Send applies cmd on the owner goroutine and runs its effects.
func (o *Owner) Send(ctx context.Context, cmd Command) error {
	return o.post(ctx, func(m *Model) {
		o.run(m.Apply(cmd))
	})
}

// Do runs fn on the owner goroutine and waits for it to return.
func (o *Owner) Do(ctx context.Context, fn func(*Model)) error {
	finished := make(chan struct{})
	if err := o.post(ctx, func(m *Model) {
		defer close(finished)
		fn(m)
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-o.done:
		// The loop may have run fn just before stopping.
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Update runs fn on the owner goroutine and waits for it. Commands passed to
// apply take effect at once and their effects run as with Send. No other
// command interleaves with fn, so reads before and after apply are consistent.
func (o *Owner) Update(ctx context.Context, fn func(m *Model, apply func(Command))) error {
	return o.Do(ctx, func(m *Model) {
		fn(m, func(cmd Command) { o.run(m.Apply(cmd)) })
	})
}

// View returns a snapshot taken on the owner goroutine.
func (o *Owner) View(ctx context.Context) (View, error) {
	var v View
	err := o.Do(ctx, func(m *Model) { v = m.View() })
	return v, err
}

// Wait blocks until every command sent so far has been applied and every
// persistence job it started has reported back.
func (o *Owner) Wait() {
	_ = o.Do(context.Background(), func(*Model) {})
	o.jobs.Wait()
	_ = o.Do(context.Background(), func(*Model) {})
}

func (o *Owner) post(ctx context.Context, fn func(*Model)) error {
	select {
	case <-o.done:
		return ErrClosed
	default:
	}
	select {
	case o.cmds <- fn:
		return nil
	case <-o.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run executes effects. It is only called from the owner goroutine.
func (o *Owner) run(effects []Effect) {
	for _, e := range effects {
		switch e := e.(type) {
		case ScheduleFrame:
			token := e.Token
			time.AfterFunc(o.frame, func() {
				_ = o.Send(context.Background(), FrameElapsed{Token: token})
			})
		case ScrollBy:
			// No native scroll container; feed the target straight back.
			o.run(o.model.Apply(Scrolled{Offset: e.Target}))
		case Persist:
			job := e.Job
			o.jobs.Add(1)
			go func() {
				defer o.jobs.Done()
				res := job.Run(context.Background())
				_ = o.Send(context.Background(), Persisted{Result: res})
			}()
		}
	}
}
