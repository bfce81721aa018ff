// Package session drives the roster cache for one signed-in user: it loads
// every domain when the user logs in, wipes everything on logout, and
// exposes read accessors plus the optimistic mutation triggers.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cristianoliveira/rosterdesk/internal/cache"
	"github.com/cristianoliveira/rosterdesk/internal/domain"
	"github.com/cristianoliveira/rosterdesk/internal/logging"
	"github.com/cristianoliveira/rosterdesk/internal/optimistic"
	"github.com/cristianoliveira/rosterdesk/internal/repository"
)

var (
	// ErrNotAuthenticated is returned by refreshes issued while logged out.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrLoggedOut is returned by WaitReady when the session ended before
	// loading finished.
	ErrLoggedOut = errors.New("logged out before the session was ready")

	// ErrPendingCreate is returned when editing a user whose create has not
	// been confirmed yet.
	ErrPendingCreate = errors.New("user is still being created")
)

// DefaultRecentActivityLimit is the number of activity log entries loaded.
const DefaultRecentActivityLimit = 20

// Phase is the authentication and loading state of a session.
type Phase int

const (
	Unauthenticated Phase = iota
	Loading
	Ready
)

func (p Phase) String() string {
	switch p {
	case Unauthenticated:
		return "unauthenticated"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Slice names an independently loaded part of the cache.
type Slice string

const (
	SliceUsers         Slice = "users"
	SliceNotifications Slice = "notifications"
	SliceRosters       Slice = "rosters"
	SliceActivities    Slice = "activities"
)

// LoadingFlags reports which slices have a fetch in flight.
type LoadingFlags struct {
	Users         bool
	Notifications bool
	Rosters       bool
	Activities    bool
}

// Any reports whether any slice is loading.
func (f LoadingFlags) Any() bool {
	return f.Users || f.Notifications || f.Rosters || f.Activities
}

// Repositories are the server contracts a session reads and writes through.
type Repositories struct {
	Users         repository.Users
	Notifications repository.Notifications
	Rosters       repository.Rosters
	Activities    repository.Activities
}

// FromBackend uses one backend for every contract.
func FromBackend(b repository.Backend) Repositories {
	return Repositories{Users: b, Notifications: b, Rosters: b, Activities: b}
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithClock sets the clock used for optimistic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithRecentActivityLimit sets how many activity entries are loaded.
func WithRecentActivityLimit(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.activityLimit = n
		}
	}
}

// Session is the cache front door used by the UI layer.
type Session struct {
	repos         Repositories
	store         *cache.Store
	runner        *optimistic.Runner[*cache.State]
	logger        logging.Logger
	now           func() time.Time
	activityLimit int

	mu            sync.Mutex
	authenticated bool
	initialized   bool
	loading       map[Slice]int
	ready         chan struct{}
	cancelLoad    context.CancelFunc
}

// New creates a logged-out session.
func New(repos Repositories, opts ...Option) *Session {
	s := &Session{
		repos:         repos,
		logger:        logging.GetGlobal(),
		now:           time.Now,
		activityLimit: DefaultRecentActivityLimit,
		loading:       make(map[Slice]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	s.logger = s.logger.With("component", "session")
	s.store = cache.NewStore(cache.WithClock(s.now))
	s.runner = optimistic.NewRunner[*cache.State](s.store, s.logger)
	return s
}

// Login marks the session authenticated and starts loading every slice
// concurrently. The returned channel is closed once all fetches have
// settled. Calling Login while already authenticated returns the channel of
// the current load.
func (s *Session) Login(ctx context.Context) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authenticated {
		return s.ready
	}
	s.authenticated = true
	s.initialized = false
	s.ready = make(chan struct{})
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancelLoad = cancel
	gen := s.store.Generation()

	s.logger.Info("login", "generation", gen)
	go s.loadAll(loadCtx, gen, s.ready)
	return s.ready
}

// WaitReady blocks until the current load settles. It fails with
// ErrLoggedOut if the session ended first and ErrNotAuthenticated if Login
// was never called.
func (s *Session) WaitReady(ctx context.Context) error {
	s.mu.Lock()
	ready := s.ready
	s.mu.Unlock()
	if ready == nil {
		return ErrNotAuthenticated
	}
	select {
	case <-ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	if !s.IsInitialized() {
		return ErrLoggedOut
	}
	return nil
}

// Logout wipes every cached collection, cancels in-flight loads and advances
// the generation so late results from this session are discarded.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}
	s.authenticated = false
	s.initialized = false
	s.loading = make(map[Slice]int)
	gen := s.store.Reset()
	s.logger.Info("logout", "generation", gen)
}

func (s *Session) loadAll(ctx context.Context, gen uint64, ready chan struct{}) {
	defer close(ready)
	start := time.Now()

	var wg sync.WaitGroup
	run := func(fn func(context.Context, uint64) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = fn(ctx, gen)
		}()
	}
	run(s.fetchUsers)
	for _, cat := range domain.Categories() {
		cat := cat
		run(func(ctx context.Context, gen uint64) error {
			return s.fetchCategory(ctx, gen, cat)
		})
	}
	run(s.fetchRosters)
	run(s.fetchRecentActivities)
	run(s.fetchActivityStats)
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated || s.store.Generation() != gen {
		s.logger.Debug("initial load finished after logout", "generation", gen)
		return
	}
	s.initialized = true
	s.logger.Info("session ready", "elapsed_ms", time.Since(start).Milliseconds())
}

// Phase returns the current state of the session.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case !s.authenticated:
		return Unauthenticated
	case !s.initialized:
		return Loading
	default:
		return Ready
	}
}

// IsAuthenticated reports whether Login has been called since the last
// Logout.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// IsInitialized reports whether the initial load has settled.
func (s *Session) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Loading returns the per-slice loading flags.
func (s *Session) Loading() LoadingFlags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return LoadingFlags{
		Users:         s.loading[SliceUsers] > 0,
		Notifications: s.loading[SliceNotifications] > 0,
		Rosters:       s.loading[SliceRosters] > 0,
		Activities:    s.loading[SliceActivities] > 0,
	}
}

// IsLoading reports whether the initial load or any refresh is in flight.
func (s *Session) IsLoading() bool {
	return s.Phase() == Loading || s.Loading().Any()
}

// InFlight returns the number of optimistic mutations awaiting the server.
func (s *Session) InFlight() int {
	return s.runner.InFlight()
}

// Settle blocks until every submitted mutation has settled.
func (s *Session) Settle(ctx context.Context) error {
	return s.runner.Settle(ctx)
}

// track marks a slice as loading for generation gen and returns the func
// that clears it. Fetches of an ended session are not tracked, and clearing
// is skipped once the generation has moved on since Logout already reset
// the flags.
func (s *Session) track(gen uint64, slice Slice) func() {
	s.mu.Lock()
	if !s.authenticated || s.store.Generation() != gen {
		s.mu.Unlock()
		return func() {}
	}
	s.loading[slice]++
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.store.Generation() != gen {
			return
		}
		if s.loading[slice] > 0 {
			s.loading[slice]--
		}
	}
}

// currentGeneration returns the generation refreshes should bind to.
func (s *Session) currentGeneration() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated {
		return 0, ErrNotAuthenticated
	}
	return s.store.Generation(), nil
}
