package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cristianoliveira/rosterdesk/internal/cache"
	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

// RefreshUsers reloads the user list. On failure the list becomes empty.
func (s *Session) RefreshUsers(ctx context.Context) error {
	gen, err := s.currentGeneration()
	if err != nil {
		return err
	}
	return s.fetchUsers(ctx, gen)
}

// LoadCategory reloads one notification category. On failure the cached
// bucket is left as it was.
func (s *Session) LoadCategory(ctx context.Context, cat domain.Category) error {
	if !cat.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCategory, cat)
	}
	gen, err := s.currentGeneration()
	if err != nil {
		return err
	}
	return s.fetchCategory(ctx, gen, cat)
}

// LoadAllCategories reloads the four categories concurrently and joins their
// errors.
func (s *Session) LoadAllCategories(ctx context.Context) error {
	gen, err := s.currentGeneration()
	if err != nil {
		return err
	}
	cats := domain.Categories()
	errs := make([]error, len(cats))
	var wg sync.WaitGroup
	for i, cat := range cats {
		wg.Add(1)
		go func(i int, cat domain.Category) {
			defer wg.Done()
			errs[i] = s.fetchCategory(ctx, gen, cat)
		}(i, cat)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// RefreshRosters reloads roster periods. On failure the list becomes empty.
func (s *Session) RefreshRosters(ctx context.Context) error {
	gen, err := s.currentGeneration()
	if err != nil {
		return err
	}
	return s.fetchRosters(ctx, gen)
}

// RefreshActivities reloads the recent activity log and its statistics.
func (s *Session) RefreshActivities(ctx context.Context) error {
	gen, err := s.currentGeneration()
	if err != nil {
		return err
	}
	return errors.Join(s.fetchRecentActivities(ctx, gen), s.fetchActivityStats(ctx, gen))
}

func (s *Session) fetchUsers(ctx context.Context, gen uint64) error {
	defer s.track(gen, SliceUsers)()
	users, err := s.repos.Users.ListUsers(ctx)
	if err != nil {
		s.logger.Warn("load users failed", "error", err)
		users = nil
	}
	s.commitLoad("users", gen, func(st *cache.State) {
		st.Users.Load(users)
	})
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	return nil
}

func (s *Session) fetchCategory(ctx context.Context, gen uint64, cat domain.Category) error {
	defer s.track(gen, SliceNotifications)()
	page, err := s.repos.Notifications.ListNotifications(ctx, cat)
	if err != nil {
		s.logger.Warn("load notifications failed", "category", cat, "error", err)
		return fmt.Errorf("load %s notifications: %w", cat, err)
	}
	s.commitLoad(string(cat), gen, func(st *cache.State) {
		st.Notifications.LoadCategory(cat, page.Items, page.Total)
	})
	return nil
}

func (s *Session) fetchRosters(ctx context.Context, gen uint64) error {
	defer s.track(gen, SliceRosters)()
	rosters, err := s.repos.Rosters.ListRosters(ctx)
	if err != nil {
		s.logger.Warn("load rosters failed", "error", err)
		rosters = nil
	}
	s.commitLoad("rosters", gen, func(st *cache.State) {
		st.Rosters.Load(rosters)
	})
	if err != nil {
		return fmt.Errorf("load rosters: %w", err)
	}
	return nil
}

func (s *Session) fetchRecentActivities(ctx context.Context, gen uint64) error {
	defer s.track(gen, SliceActivities)()
	logs, err := s.repos.Activities.ListRecentActivities(ctx, s.activityLimit)
	if err != nil {
		s.logger.Warn("load activities failed", "error", err)
		logs = nil
	}
	s.commitLoad("activities", gen, func(st *cache.State) {
		st.Activities.Load(logs)
	})
	if err != nil {
		return fmt.Errorf("load activities: %w", err)
	}
	return nil
}

func (s *Session) fetchActivityStats(ctx context.Context, gen uint64) error {
	defer s.track(gen, SliceActivities)()
	stats, err := s.repos.Activities.ActivityStatistics(ctx)
	if err != nil {
		s.logger.Warn("load activity statistics failed", "error", err)
		stats = domain.ActivityStatistics{}
	}
	s.commitLoad("activity statistics", gen, func(st *cache.State) {
		*st.ActivityStats = stats
	})
	if err != nil {
		return fmt.Errorf("load activity statistics: %w", err)
	}
	return nil
}

// commitLoad writes a fetch result unless the session changed while the
// request was in flight.
func (s *Session) commitLoad(what string, gen uint64, fn func(*cache.State)) {
	if !s.store.TransitionIf(gen, fn) {
		s.logger.Debug("discarding stale load", "slice", what, "generation", gen)
	}
}
