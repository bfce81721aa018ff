package session

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
	"github.com/cristianoliveira/rosterdesk/internal/repository"
)

// mockBackend is a testify mock of repository.Backend.
type mockBackend struct {
	mock.Mock
}

var _ repository.Backend = (*mockBackend)(nil)

func (m *mockBackend) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func (m *mockBackend) CreateUser(ctx context.Context, in domain.UserInput) (domain.User, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockBackend) UpdateUser(ctx context.Context, id domain.ID, in domain.UserInput) (domain.User, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockBackend) DeleteUser(ctx context.Context, id domain.ID) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockBackend) RestoreUser(ctx context.Context, id domain.ID) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockBackend) ListNotifications(ctx context.Context, cat domain.Category) (repository.Page, error) {
	args := m.Called(ctx, cat)
	return args.Get(0).(repository.Page), args.Error(1)
}

func (m *mockBackend) MarkNotificationRead(ctx context.Context, id int64, read bool) error {
	args := m.Called(ctx, id, read)
	return args.Error(0)
}

func (m *mockBackend) ToggleNotificationStar(ctx context.Context, id int64) (domain.Notification, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Notification), args.Error(1)
}

func (m *mockBackend) TrashNotification(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBackend) RestoreNotification(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBackend) PurgeNotification(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBackend) SendNotification(ctx context.Context, draft domain.Draft) (domain.Notification, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(domain.Notification), args.Error(1)
}

func (m *mockBackend) ListRosters(ctx context.Context) ([]domain.RosterPeriod, error) {
	args := m.Called(ctx)
	rosters, _ := args.Get(0).([]domain.RosterPeriod)
	return rosters, args.Error(1)
}

func (m *mockBackend) ListRecentActivities(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	args := m.Called(ctx, limit)
	logs, _ := args.Get(0).([]domain.ActivityLog)
	return logs, args.Error(1)
}

func (m *mockBackend) ActivityStatistics(ctx context.Context) (domain.ActivityStatistics, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ActivityStatistics), args.Error(1)
}
