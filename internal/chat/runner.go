package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/domain"
)

// Sink receives the effects that change what the visitor sees: window,
// launcher and input state, typing indicator and messages.
type Sink interface {
	Emit(Effect) error
}

// SnapshotFunc loads the listing catalogue searched by the conversation.
type SnapshotFunc func(ctx context.Context) ([]domain.Listing, error)

// resume is posted when a Delay has elapsed.
type resume struct{}

func (resume) isEvent() {}

// Runner drives one Session. A single goroutine (Run) owns the session and
// applies events in arrival order. Paced output goes through a queue: a Delay
// holds back later output while events keep being handled.
type Runner struct {
	engine   Engine
	session  Session
	sink     Sink
	snapshot SnapshotFunc
	logger   *slog.Logger
	clock    func() time.Time

	events  chan Event
	done    chan struct{}
	queue   []Effect
	waiting bool

	idle     *time.Timer
	autoOpen *time.Timer
	pause    *time.Timer
}

func NewRunner(engine Engine, sink Sink, snapshot SnapshotFunc, logger *slog.Logger) *Runner {
	return &Runner{
		engine:   engine,
		session:  NewSession(),
		sink:     sink,
		snapshot: snapshot,
		logger:   logger,
		clock:    time.Now,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}
}

// Dispatch queues ev for the runner. It returns without effect once Run has
// stopped.
func (r *Runner) Dispatch(ev Event) {
	select {
	case r.events <- ev:
	case <-r.done:
	}
}

// Run processes events until ctx is cancelled or the sink fails.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)
	defer r.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-r.events:
			if err := r.handle(ctx, ev); err != nil {
				return err
			}
		}
	}
}

func (r *Runner) handle(ctx context.Context, ev Event) error {
	if _, ok := ev.(resume); ok {
		r.waiting = false
		return r.drain(ctx)
	}

	next, out := r.engine.Step(r.session, ev)
	r.session = next

	for _, eff := range out {
		if sequenced(eff) {
			r.queue = append(r.queue, eff)
			continue
		}
		if err := r.apply(eff); err != nil {
			return err
		}
	}
	return r.drain(ctx)
}

// apply executes an immediate effect.
func (r *Runner) apply(eff Effect) error {
	switch eff := eff.(type) {
	case ArmIdleTimer:
		stop(r.idle)
		gen := eff.Gen
		r.idle = time.AfterFunc(eff.After, func() { r.Dispatch(IdleElapsed{Gen: gen}) })
	case CancelIdleTimer:
		stop(r.idle)
		r.idle = nil
	case ArmAutoOpen:
		stop(r.autoOpen)
		r.autoOpen = time.AfterFunc(eff.After, func() { r.Dispatch(AutoOpenElapsed{At: r.clock()}) })
	default:
		return r.sink.Emit(eff)
	}
	return nil
}

// drain runs queued output until the queue is empty or a Delay starts.
func (r *Runner) drain(ctx context.Context) error {
	for !r.waiting && len(r.queue) > 0 {
		eff := r.queue[0]
		r.queue = r.queue[1:]

		switch eff := eff.(type) {
		case Delay:
			r.waiting = true
			r.pause = time.AfterFunc(eff.D, func() { r.Dispatch(resume{}) })
		case FetchSnapshot:
			go r.fetch(ctx)
		default:
			if err := r.sink.Emit(eff); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) fetch(ctx context.Context) {
	listings, err := r.snapshot(ctx)
	if err != nil {
		// The conversation continues with an empty catalogue.
		r.logger.Warn("chat snapshot fetch failed", "error", err)
		listings = nil
	}
	r.Dispatch(SnapshotLoaded{Listings: listings})
}

func (r *Runner) stopTimers() {
	stop(r.idle)
	stop(r.autoOpen)
	stop(r.pause)
}

func stop(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}
