package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

var errDisk = errors.New("disk I/O error")

func newMockBackend(t *testing.T) (*Backend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	b, err := wrap(db, 1, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return b, mock
}

func TestNewRunsSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("PRAGMA busy_timeout").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("PRAGMA foreign_keys").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errDisk)

	_, err = New(db, 1)
	require.ErrorIs(t, err, errDisk)
	require.Contains(t, err.Error(), "create schema")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsersQueryError(t *testing.T) {
	b, mock := newMockBackend(t)
	mock.ExpectQuery("SELECT u.id").WillReturnError(errDisk)

	_, err := b.ListUsers(context.Background())
	require.ErrorIs(t, err, errDisk)
	require.Contains(t, err.Error(), "list users")
}

func TestListNotificationsRowError(t *testing.T) {
	b, mock := newMockBackend(t)
	rows := sqlmock.NewRows([]string{"id", "title", "message", "type", "sender_id", "recipient_id",
		"is_read", "is_starred", "read_at", "deleted_at", "created_at"}).
		AddRow(1, "t", "m", "general", 2, 1, false, false, nil, nil, formatTime(fixedNow)).
		RowError(0, errDisk)
	mock.ExpectQuery("FROM notifications WHERE recipient_id").WithArgs(int64(1)).WillReturnRows(rows)

	_, err := b.ListNotifications(context.Background(), domain.CategoryInbox)
	require.ErrorIs(t, err, errDisk)
}

func TestCreateUserRollsBackOnEmployeeFailure(t *testing.T) {
	b, mock := newMockBackend(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO employees").WillReturnError(errDisk)
	mock.ExpectRollback()

	_, err := b.CreateUser(context.Background(), domain.UserInput{
		Name: "Kim", Email: "kim@example.com", Role: domain.RoleStaff,
		Employee: &domain.Employee{Code: "E-7"},
	})
	require.ErrorIs(t, err, errDisk)
	require.Contains(t, err.Error(), "save employee")
}

func TestDeleteUserNoRows(t *testing.T) {
	b, mock := newMockBackend(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET is_active").
		WithArgs(false, sqlmock.AnyArg(), formatTime(fixedNow), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := b.DeleteUser(context.Background(), domain.IntID(5))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrashNotificationExecError(t *testing.T) {
	b, mock := newMockBackend(t)
	mock.ExpectExec("UPDATE notifications SET deleted_at").
		WithArgs(formatTime(fixedNow), int64(3), int64(1), int64(1)).
		WillReturnError(errDisk)

	err := b.TrashNotification(context.Background(), 3)
	require.ErrorIs(t, err, errDisk)
}

func TestBeginFailure(t *testing.T) {
	b, mock := newMockBackend(t)
	mock.ExpectBegin().WillReturnError(errDisk)

	_, err := b.SendNotification(context.Background(), domain.Draft{RecipientID: 2, Message: "hi"})
	require.ErrorIs(t, err, errDisk)
	require.Contains(t, err.Error(), "begin transaction")
}

func TestActivityStatisticsQueryError(t *testing.T) {
	b, mock := newMockBackend(t)
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(
		sqlmock.NewRows([]string{"total", "today", "active"}).AddRow(4, 1, 1))
	mock.ExpectQuery("GROUP BY action").WillReturnError(errDisk)

	_, err := b.ActivityStatistics(context.Background())
	require.ErrorIs(t, err, errDisk)
}
