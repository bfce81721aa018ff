// Package repository defines the server-facing contracts the roster cache
// consumes, one per domain.
package repository

import (
	"context"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

// Users is the user administration contract.
type Users interface {
	// ListUsers returns every user, active or not.
	ListUsers(ctx context.Context) ([]domain.User, error)
	// CreateUser stores a new user and returns it with its server id.
	CreateUser(ctx context.Context, in domain.UserInput) (domain.User, error)
	// UpdateUser replaces the editable fields of a user.
	UpdateUser(ctx context.Context, id domain.ID, in domain.UserInput) (domain.User, error)
	// DeleteUser deactivates a user.
	DeleteUser(ctx context.Context, id domain.ID) (domain.User, error)
	// RestoreUser reactivates a soft-deleted user.
	RestoreUser(ctx context.Context, id domain.ID) (domain.User, error)
}

// Page is one server page of a notification category. Total counts every
// notification in the category, not only those in Items.
type Page struct {
	Items []domain.Notification `json:"data"`
	Total int                   `json:"total"`
}

// Notifications is the notification contract, scoped to the signed-in user.
type Notifications interface {
	ListNotifications(ctx context.Context, cat domain.Category) (Page, error)
	MarkNotificationRead(ctx context.Context, id int64, read bool) error
	// ToggleNotificationStar flips the starred flag and returns the updated notification.
	ToggleNotificationStar(ctx context.Context, id int64) (domain.Notification, error)
	TrashNotification(ctx context.Context, id int64) error
	RestoreNotification(ctx context.Context, id int64) error
	PurgeNotification(ctx context.Context, id int64) error
	// SendNotification delivers a draft and returns the stored notification.
	SendNotification(ctx context.Context, draft domain.Draft) (domain.Notification, error)
}

// Rosters is the roster period contract.
type Rosters interface {
	ListRosters(ctx context.Context) ([]domain.RosterPeriod, error)
}

// Activities is the activity log contract.
type Activities interface {
	ListRecentActivities(ctx context.Context, limit int) ([]domain.ActivityLog, error)
	ActivityStatistics(ctx context.Context) (domain.ActivityStatistics, error)
}

// Backend bundles every contract. Both the HTTP client and the SQLite
// backend implement it.
type Backend interface {
	Users
	Notifications
	Rosters
	Activities
}
