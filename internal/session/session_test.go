package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
	"github.com/cristianoliveira/rosterdesk/internal/optimistic"
	"github.com/cristianoliveira/rosterdesk/internal/repository"
)

var (
	fixedNow  = time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	errServer = errors.New("server unavailable")
)

func notif(id int64, starred bool) domain.Notification {
	return domain.Notification{
		ID:          id,
		Title:       "Shift update",
		Message:     "Your shift moved",
		Type:        domain.TypeShiftChanged,
		SenderID:    1,
		RecipientID: 2,
		IsStarred:   starred,
		CreatedAt:   fixedNow,
	}
}

func user(id int64, name string) domain.User {
	return domain.User{
		ID:       domain.IntID(id),
		Name:     name,
		Email:    name + "@example.com",
		Role:     domain.RoleStaff,
		IsActive: true,
	}
}

type fixture struct {
	users      []domain.User
	categories map[domain.Category]repository.Page
	rosters    []domain.RosterPeriod
	activities []domain.ActivityLog
	stats      domain.ActivityStatistics
}

func defaultFixture() fixture {
	return fixture{
		users: []domain.User{user(1, "alice"), user(2, "bob")},
		categories: map[domain.Category]repository.Page{
			domain.CategoryInbox:   {Items: []domain.Notification{notif(10, false), notif(11, false)}, Total: 2},
			domain.CategoryStarred: {Items: []domain.Notification{}, Total: 0},
			domain.CategorySent:    {Items: []domain.Notification{notif(20, false)}, Total: 1},
			domain.CategoryTrash:   {Items: []domain.Notification{}, Total: 0},
		},
		rosters:    []domain.RosterPeriod{{ID: 5, Name: "March", StartDate: fixedNow, EndDate: fixedNow.AddDate(0, 0, 30), Status: domain.RosterPublished}},
		activities: []domain.ActivityLog{{ID: 7, UserID: 1, Action: "login", CreatedAt: fixedNow}},
		stats:      domain.ActivityStatistics{Total: 1, Today: 1, ActiveUsers: 1, ByAction: map[string]int{"login": 1}},
	}
}

func (f fixture) expect(m *mockBackend) {
	m.On("ListUsers", mock.Anything).Return(f.users, nil).Once()
	for cat, page := range f.categories {
		m.On("ListNotifications", mock.Anything, cat).Return(page, nil).Once()
	}
	m.On("ListRosters", mock.Anything).Return(f.rosters, nil).Once()
	m.On("ListRecentActivities", mock.Anything, DefaultRecentActivityLimit).Return(f.activities, nil).Once()
	m.On("ActivityStatistics", mock.Anything).Return(f.stats, nil).Once()
}

func newSession(m *mockBackend) *Session {
	return New(FromBackend(m), WithClock(func() time.Time { return fixedNow }))
}

func readySession(t *testing.T, m *mockBackend) *Session {
	t.Helper()
	defaultFixture().expect(m)
	s := newSession(m)
	s.Login(context.Background())
	require.NoError(t, s.WaitReady(context.Background()))
	return s
}

func wait(t *testing.T, p *optimistic.Pending) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return p.Wait(ctx)
}

func ids(items []domain.Notification) []int64 {
	out := make([]int64, 0, len(items))
	for _, n := range items {
		out = append(out, n.ID)
	}
	return out
}

func TestLogin_LoadsEveryDomain(t *testing.T) {
	m := &mockBackend{}
	s := newSession(m)
	assert.Equal(t, Unauthenticated, s.Phase())

	defaultFixture().expect(m)
	s.Login(context.Background())
	require.NoError(t, s.WaitReady(context.Background()))

	assert.Equal(t, Ready, s.Phase())
	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.IsInitialized())
	assert.False(t, s.IsLoading())
	assert.Len(t, s.Users(), 2)
	assert.Equal(t, []int64{10, 11}, ids(s.Notifications(domain.CategoryInbox)))
	assert.Equal(t, []int64{20}, ids(s.Notifications(domain.CategorySent)))
	assert.Equal(t, domain.Stats{Inbox: 2, Sent: 1}, s.Stats())
	assert.Len(t, s.Rosters(), 1)
	assert.Len(t, s.Activities(), 1)
	assert.Equal(t, 1, s.ActivityStats().ByAction["login"])
	m.AssertExpectations(t)
}

func TestLogin_IsIdempotentWhileAuthenticated(t *testing.T) {
	m := &mockBackend{}
	s := readySession(t, m)

	ch := s.Login(context.Background())
	select {
	case <-ch:
	default:
		t.Fatal("second login should return the settled load")
	}
	m.AssertExpectations(t)
}

func TestLogin_FailuresFallBackSafely(t *testing.T) {
	m := &mockBackend{}
	m.On("ListUsers", mock.Anything).Return(nil, errServer)
	m.On("ListNotifications", mock.Anything, domain.CategoryInbox).Return(repository.Page{}, errServer)
	m.On("ListNotifications", mock.Anything, domain.CategoryStarred).Return(repository.Page{Items: []domain.Notification{notif(30, true)}, Total: 4}, nil)
	m.On("ListNotifications", mock.Anything, domain.CategorySent).Return(repository.Page{}, nil)
	m.On("ListNotifications", mock.Anything, domain.CategoryTrash).Return(repository.Page{}, nil)
	m.On("ListRosters", mock.Anything).Return(nil, errServer)
	m.On("ListRecentActivities", mock.Anything, DefaultRecentActivityLimit).Return(nil, errServer)
	m.On("ActivityStatistics", mock.Anything).Return(domain.ActivityStatistics{}, errServer)

	s := newSession(m)
	s.Login(context.Background())
	require.NoError(t, s.WaitReady(context.Background()))

	assert.Equal(t, Ready, s.Phase())
	assert.Empty(t, s.Users())
	assert.Empty(t, s.Rosters())
	assert.Empty(t, s.Activities())
	assert.Empty(t, s.Notifications(domain.CategoryInbox))
	assert.Equal(t, []int64{30}, ids(s.Notifications(domain.CategoryStarred)))
	assert.Equal(t, 4, s.Stats().Starred)
}

func TestLogout_DiscardsLateLoads(t *testing.T) {
	m := &mockBackend{}
	release := make(chan struct{})
	f := defaultFixture()
	m.On("ListUsers", mock.Anything).Run(func(mock.Arguments) { <-release }).Return(f.users, nil)
	for cat, page := range f.categories {
		m.On("ListNotifications", mock.Anything, cat).Return(page, nil)
	}
	m.On("ListRosters", mock.Anything).Return(f.rosters, nil)
	m.On("ListRecentActivities", mock.Anything, DefaultRecentActivityLimit).Return(f.activities, nil)
	m.On("ActivityStatistics", mock.Anything).Return(f.stats, nil)

	s := newSession(m)
	ready := s.Login(context.Background())
	assert.Equal(t, Loading, s.Phase())
	require.Eventually(t, func() bool {
		return len(s.Notifications(domain.CategoryInbox)) == 2
	}, time.Second, 5*time.Millisecond)
	assert.True(t, s.Loading().Users)

	s.Logout()
	assert.Equal(t, Unauthenticated, s.Phase())
	assert.Empty(t, s.Notifications(domain.CategoryInbox))
	assert.False(t, s.Loading().Any())

	close(release)
	<-ready
	assert.Empty(t, s.Users())
	assert.Equal(t, domain.Stats{}, s.Stats())
	assert.ErrorIs(t, s.WaitReady(context.Background()), ErrLoggedOut)
}

func TestLoginLogoutReentryClearsLoadingFlags(t *testing.T) {
	m := &mockBackend{}
	f := defaultFixture()
	m.On("ListUsers", mock.Anything).Return(f.users, nil)
	for cat, page := range f.categories {
		m.On("ListNotifications", mock.Anything, cat).Return(page, nil)
	}
	m.On("ListRosters", mock.Anything).Return(f.rosters, nil)
	m.On("ListRecentActivities", mock.Anything, DefaultRecentActivityLimit).Return(f.activities, nil)
	m.On("ActivityStatistics", mock.Anything).Return(f.stats, nil)

	s := newSession(m)
	ctx := context.Background()
	for i := 0; i < 500; i++ {
		s.Login(ctx)
		s.Logout()
	}
	<-s.Login(ctx)

	assert.Equal(t, Ready, s.Phase())
	assert.Equal(t, LoadingFlags{}, s.Loading())
	assert.False(t, s.IsLoading())
}

func TestTrackIgnoresEndedGeneration(t *testing.T) {
	s := newSession(&mockBackend{})
	stale := s.store.Generation()
	s.Logout()

	done := s.track(stale, SliceUsers)
	assert.False(t, s.Loading().Users)
	done()

	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()
	done = s.track(s.store.Generation(), SliceUsers)
	assert.True(t, s.Loading().Users)
	done()
	assert.False(t, s.Loading().Users)
}

func TestRefresh_RequiresAuthentication(t *testing.T) {
	s := newSession(&mockBackend{})
	assert.ErrorIs(t, s.RefreshUsers(context.Background()), ErrNotAuthenticated)
	assert.ErrorIs(t, s.LoadCategory(context.Background(), domain.CategoryInbox), ErrNotAuthenticated)
	assert.ErrorIs(t, s.LoadCategory(context.Background(), "archive"), domain.ErrInvalidCategory)
	assert.ErrorIs(t, s.WaitReady(context.Background()), ErrNotAuthenticated)
}

func TestLoadCategory_FailureKeepsBucket(t *testing.T) {
	m := &mockBackend{}
	s := readySession(t, m)
	m.On("ListNotifications", mock.Anything, domain.CategoryInbox).Return(repository.Page{}, errServer).Once()

	err := s.LoadCategory(context.Background(), domain.CategoryInbox)
	require.ErrorIs(t, err, errServer)
	assert.Equal(t, []int64{10, 11}, ids(s.Notifications(domain.CategoryInbox)))
}

func TestLoadAllCategories_JoinsErrors(t *testing.T) {
	m := &mockBackend{}
	s := readySession(t, m)
	m.On("ListNotifications", mock.Anything, domain.CategoryInbox).Return(repository.Page{Items: []domain.Notification{notif(12, false)}, Total: 1}, nil).Once()
	m.On("ListNotifications", mock.Anything, domain.CategoryStarred).Return(repository.Page{}, errServer).Once()
	m.On("ListNotifications", mock.Anything, domain.CategorySent).Return(repository.Page{}, nil).Once()
	m.On("ListNotifications", mock.Anything, domain.CategoryTrash).Return(repository.Page{}, nil).Once()

	err := s.LoadAllCategories(context.Background())
	require.ErrorIs(t, err, errServer)
	assert.Equal(t, []int64{12}, ids(s.Notifications(domain.CategoryInbox)))
	assert.Equal(t, 1, s.Stats().Inbox)
}

func TestRefreshActivities(t *testing.T) {
	m := &mockBackend{}
	s := readySession(t, m)
	m.On("ListRecentActivities", mock.Anything, DefaultRecentActivityLimit).Return([]domain.ActivityLog{{ID: 8}, {ID: 9}}, nil).Once()
	m.On("ActivityStatistics", mock.Anything).Return(domain.ActivityStatistics{Total: 2}, nil).Once()

	require.NoError(t, s.RefreshActivities(context.Background()))
	assert.Len(t, s.Activities(), 2)
	assert.Equal(t, 2, s.ActivityStats().Total)
}
