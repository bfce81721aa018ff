package session

import (
	"github.com/cristianoliveira/rosterdesk/internal/cache"
	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

// Users returns a copy of the cached user list.
func (s *Session) Users() []domain.User {
	var out []domain.User
	s.store.View(func(st *cache.State) { out = st.Users.Items() })
	return out
}

// User returns one cached user.
func (s *Session) User(id domain.ID) (domain.User, bool) {
	var (
		u  domain.User
		ok bool
	)
	s.store.View(func(st *cache.State) { u, ok = st.Users.Get(id) })
	return u, ok
}

// Rosters returns a copy of the cached roster periods.
func (s *Session) Rosters() []domain.RosterPeriod {
	var out []domain.RosterPeriod
	s.store.View(func(st *cache.State) { out = st.Rosters.Items() })
	return out
}

// Activities returns a copy of the recent activity log.
func (s *Session) Activities() []domain.ActivityLog {
	var out []domain.ActivityLog
	s.store.View(func(st *cache.State) { out = st.Activities.Items() })
	return out
}

// ActivityStats returns the cached activity statistics.
func (s *Session) ActivityStats() domain.ActivityStatistics {
	var out domain.ActivityStatistics
	s.store.View(func(st *cache.State) {
		out = *st.ActivityStats
		if st.ActivityStats.ByAction != nil {
			out.ByAction = make(map[string]int, len(st.ActivityStats.ByAction))
			for k, v := range st.ActivityStats.ByAction {
				out.ByAction[k] = v
			}
		}
	})
	return out
}

// Notifications returns the ordered contents of one category.
func (s *Session) Notifications(cat domain.Category) []domain.Notification {
	var out []domain.Notification
	s.store.View(func(st *cache.State) { out = st.Notifications.Bucket(cat) })
	return out
}

// Notification returns one cached notification.
func (s *Session) Notification(id int64) (domain.Notification, bool) {
	var (
		n  domain.Notification
		ok bool
	)
	s.store.View(func(st *cache.State) { n, ok = st.Notifications.Get(id) })
	return n, ok
}

// Stats returns the per-category counters.
func (s *Session) Stats() domain.Stats {
	var out domain.Stats
	s.store.View(func(st *cache.State) { out = st.Notifications.Stats() })
	return out
}
