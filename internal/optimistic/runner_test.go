package optimistic

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterState struct {
	value int
	log   []string
}

type fakeGuard struct {
	mu    sync.Mutex
	gen   uint64
	state *counterState
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{state: &counterState{}}
}

func (g *fakeGuard) Transition(fn func(*counterState)) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.state)
	return g.gen
}

func (g *fakeGuard) TransitionIf(gen uint64, fn func(*counterState)) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if gen != g.gen {
		return false
	}
	fn(g.state)
	return true
}

func (g *fakeGuard) bump() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	g.state.value = 0
}

func (g *fakeGuard) snapshot() counterState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return counterState{value: g.state.value, log: append([]string(nil), g.state.log...)}
}

func incrementCommand(release <-chan struct{}, result int, err error) Command[*counterState, int] {
	return Command[*counterState, int]{
		Name: "increment",
		Apply: func(s *counterState) bool {
			s.value++
			s.log = append(s.log, "apply")
			return true
		},
		Execute: func(ctx context.Context) (int, error) {
			<-release
			return result, err
		},
		Commit: func(s *counterState, r int) {
			s.value = r
			s.log = append(s.log, "commit")
		},
		Rollback: func(s *counterState) {
			s.value--
			s.log = append(s.log, "rollback")
		},
	}
}

func TestSubmitAppliesBeforeExecuteAndCommits(t *testing.T) {
	g := newFakeGuard()
	r := NewRunner[*counterState](g, nil)
	release := make(chan struct{})

	p := Submit(r, context.Background(), incrementCommand(release, 10, nil))

	assert.Equal(t, 1, g.snapshot().value, "optimistic value visible while in flight")
	assert.Equal(t, 1, r.InFlight())
	assert.NoError(t, p.Err(), "no outcome before settling")

	close(release)
	require.NoError(t, p.Wait(context.Background()))
	assert.False(t, p.Skipped())
	assert.Equal(t, 10, g.snapshot().value)
	assert.Equal(t, []string{"apply", "commit"}, g.snapshot().log)
	require.NoError(t, r.Settle(context.Background()))
	assert.Equal(t, 0, r.InFlight())
}

func TestSubmitRollsBackOnFailure(t *testing.T) {
	g := newFakeGuard()
	r := NewRunner[*counterState](g, nil)
	release := make(chan struct{})
	close(release)
	boom := errors.New("boom")

	p := Submit(r, context.Background(), incrementCommand(release, 0, boom))

	err := p.Wait(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "increment")
	assert.Equal(t, 0, g.snapshot().value)
	assert.Equal(t, []string{"apply", "rollback"}, g.snapshot().log)
}

func TestSubmitSkipsNoop(t *testing.T) {
	g := newFakeGuard()
	r := NewRunner[*counterState](g, nil)
	executed := false

	p := Submit(r, context.Background(), Command[*counterState, int]{
		Name:  "noop",
		Apply: func(*counterState) bool { return false },
		Execute: func(context.Context) (int, error) {
			executed = true
			return 0, nil
		},
	})

	select {
	case <-p.Done():
	default:
		t.Fatal("no-op must resolve immediately")
	}
	assert.NoError(t, p.Err())
	assert.True(t, p.Skipped())
	assert.False(t, executed)
	assert.Equal(t, 0, r.InFlight())
}

func TestSubmitDiscardsResultAfterGenerationChange(t *testing.T) {
	g := newFakeGuard()
	r := NewRunner[*counterState](g, nil)
	release := make(chan struct{})

	p := Submit(r, context.Background(), incrementCommand(release, 10, nil))
	g.bump()
	close(release)

	require.ErrorIs(t, p.Wait(context.Background()), ErrStale)
	assert.Equal(t, 0, g.snapshot().value, "stale commit must not write")
	assert.Equal(t, []string{"apply"}, g.snapshot().log)
}

func TestSubmitDiscardsRollbackAfterGenerationChange(t *testing.T) {
	g := newFakeGuard()
	r := NewRunner[*counterState](g, nil)
	release := make(chan struct{})

	p := Submit(r, context.Background(), incrementCommand(release, 0, errors.New("offline")))
	g.bump()
	close(release)

	require.ErrorIs(t, p.Wait(context.Background()), ErrStale)
	assert.Equal(t, 0, g.snapshot().value)
}

func TestOverlappingMutationsLastResponseWins(t *testing.T) {
	g := newFakeGuard()
	r := NewRunner[*counterState](g, nil)
	first := make(chan struct{})
	second := make(chan struct{})

	p1 := Submit(r, context.Background(), incrementCommand(first, 1, nil))
	p2 := Submit(r, context.Background(), incrementCommand(second, 2, nil))
	assert.Equal(t, 2, r.InFlight())

	close(second)
	require.NoError(t, p2.Wait(context.Background()))
	close(first)
	require.NoError(t, p1.Wait(context.Background()))

	assert.Equal(t, 1, g.snapshot().value)
}

func TestSettleHonoursContext(t *testing.T) {
	g := newFakeGuard()
	r := NewRunner[*counterState](g, nil)
	release := make(chan struct{})
	defer close(release)

	p := Submit(r, context.Background(), incrementCommand(release, 1, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, r.Settle(ctx), context.DeadlineExceeded)
	require.ErrorIs(t, p.Wait(ctx), context.DeadlineExceeded)
}

func TestResolved(t *testing.T) {
	p := Resolved("x", nil)
	assert.Equal(t, "x", p.Name())
	require.NoError(t, p.Wait(context.Background()))
	assert.False(t, p.Skipped())
}
