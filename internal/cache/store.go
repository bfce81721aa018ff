package cache

import (
	"sync"
	"time"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

// State is the mutable view handed to transitions. It must not escape the
// callback it was passed to.
type State struct {
	Users         *Collection[domain.User]
	Rosters       *Collection[domain.RosterPeriod]
	Activities    *Collection[domain.ActivityLog]
	ActivityStats *domain.ActivityStatistics
	Notifications *NotificationIndex
}

// Store owns every cached collection. Transitions run one at a time under an
// exclusive lock, so each is atomic to readers. The generation counter
// advances on Reset and lets callers discard work that started in an earlier
// session.
type Store struct {
	mu         sync.RWMutex
	generation uint64

	users         Collection[domain.User]
	rosters       Collection[domain.RosterPeriod]
	activities    Collection[domain.ActivityLog]
	activityStats domain.ActivityStatistics
	notifications *NotificationIndex
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	now func() time.Time
}

// WithClock sets the clock used for trash stamps.
func WithClock(now func() time.Time) StoreOption {
	return func(o *storeOptions) {
		o.now = now
	}
}

// NewStore returns an empty store at generation zero.
func NewStore(opts ...StoreOption) *Store {
	o := storeOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store{notifications: NewNotificationIndex(o.now)}
}

// Transition runs fn with exclusive access and returns the generation it
// ran in.
func (s *Store) Transition(fn func(*State)) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state())
	return s.generation
}

// TransitionIf runs fn only if the store is still at generation gen. It
// reports whether fn ran.
func (s *Store) TransitionIf(gen uint64, fn func(*State)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	fn(s.state())
	return true
}

// View runs fn with shared access. fn must only read.
func (s *Store) View(fn func(*State)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state())
}

// Generation returns the current session generation.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Reset empties every collection and advances the generation. It returns the
// new generation.
func (s *Store) Reset() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users.Clear()
	s.rosters.Clear()
	s.activities.Clear()
	s.activityStats = domain.ActivityStatistics{}
	s.notifications.Clear()
	s.generation++
	return s.generation
}

func (s *Store) state() *State {
	return &State{
		Users:         &s.users,
		Rosters:       &s.rosters,
		Activities:    &s.activities,
		ActivityStats: &s.activityStats,
		Notifications: s.notifications,
	}
}
