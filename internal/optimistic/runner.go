// Package optimistic runs state mutations ahead of server confirmation.
//
// A Command is applied to local state synchronously, then executed against
// the server in the background, then either committed with the server result
// or rolled back. Every command goes through the same Runner, so every
// mutation gets the same guarantees:
//
//   - Apply completes before Execute starts.
//   - Commit and Rollback run only if the session generation observed by
//     Apply is still current; otherwise the outcome is dropped and the
//     pending operation resolves with ErrStale.
//   - State transitions are serialised by the Guard; Execute never holds it.
package optimistic

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cristianoliveira/rosterdesk/internal/logging"
)

// ErrStale is reported when a mutation outlived the session it started in.
var ErrStale = errors.New("session changed before the mutation settled")

// Guard serialises state transitions and tracks the session generation.
type Guard[S any] interface {
	// Transition runs fn with exclusive access and returns the generation.
	Transition(fn func(S)) uint64
	// TransitionIf runs fn only if the generation is still gen.
	TransitionIf(gen uint64, fn func(S)) bool
}

// Command describes one optimistic mutation over state S with a server
// result of type R.
type Command[S, R any] struct {
	// Name identifies the mutation in logs and errors.
	Name string
	// Apply writes the optimistic state. Returning false marks the mutation
	// as a no-op: nothing is sent to the server.
	Apply func(S) bool
	// Execute performs the server call.
	Execute func(ctx context.Context) (R, error)
	// Commit reconciles local state with the server result. Optional.
	Commit func(S, R)
	// Rollback restores the state seen before Apply. Optional.
	Rollback func(S)
}

// Runner executes commands against a guarded state.
type Runner[S any] struct {
	guard  Guard[S]
	logger logging.Logger

	mu       sync.Mutex
	inFlight int
	idle     chan struct{} // closed while nothing is in flight
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner[S any](guard Guard[S], logger logging.Logger) *Runner[S] {
	if logger == nil {
		logger = logging.Discard()
	}
	idle := make(chan struct{})
	close(idle)
	return &Runner[S]{guard: guard, logger: logger, idle: idle}
}

// InFlight returns the number of mutations that have been applied but not
// yet committed, rolled back or discarded.
func (r *Runner[S]) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight
}

// Settle blocks until no mutation is in flight or ctx is done.
func (r *Runner[S]) Settle(ctx context.Context) error {
	r.mu.Lock()
	idle := r.idle
	r.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner[S]) begin() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFlight == 0 {
		r.idle = make(chan struct{})
	}
	r.inFlight++
}

func (r *Runner[S]) end() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight--
	if r.inFlight == 0 {
		close(r.idle)
	}
}

// Submit applies cmd immediately and settles it in the background. The
// returned Pending resolves once Commit, Rollback or discard has happened.
func Submit[S, R any](r *Runner[S], ctx context.Context, cmd Command[S, R]) *Pending {
	p := newPending(cmd.Name)

	r.begin()
	var applied bool
	gen := r.guard.Transition(func(s S) {
		applied = cmd.Apply == nil || cmd.Apply(s)
	})
	if !applied {
		r.logger.Debug("mutation skipped", "mutation", cmd.Name)
		p.skipped = true
		p.resolve(nil)
		r.end()
		return p
	}

	go func() {
		err := settle(r, ctx, gen, cmd)
		p.resolve(err)
		r.end()
	}()
	return p
}

func settle[S, R any](r *Runner[S], ctx context.Context, gen uint64, cmd Command[S, R]) error {
	start := time.Now()
	result, err := cmd.Execute(ctx)
	log := r.logger.With("mutation", cmd.Name, "elapsed_ms", time.Since(start).Milliseconds())

	if err != nil {
		ran := r.guard.TransitionIf(gen, func(s S) {
			if cmd.Rollback != nil {
				cmd.Rollback(s)
			}
		})
		if !ran {
			log.Warn("mutation failed after session change", "error", err)
			return fmt.Errorf("%s: %w", cmd.Name, ErrStale)
		}
		log.Warn("mutation rolled back", "error", err)
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}

	ran := r.guard.TransitionIf(gen, func(s S) {
		if cmd.Commit != nil {
			cmd.Commit(s, result)
		}
	})
	if !ran {
		log.Info("mutation result discarded after session change")
		return fmt.Errorf("%s: %w", cmd.Name, ErrStale)
	}
	log.Debug("mutation committed")
	return nil
}
