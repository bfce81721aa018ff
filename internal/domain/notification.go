package domain

import (
	"fmt"
	"strings"
	"time"
)

// NotificationType classifies what a notification is about.
type NotificationType string

const (
	TypeGeneral         NotificationType = "general"
	TypeShiftAssigned   NotificationType = "shift_assigned"
	TypeShiftChanged    NotificationType = "shift_changed"
	TypeRosterPublished NotificationType = "roster_published"
	TypeLeaveRequest    NotificationType = "leave_request"
	TypeAnnouncement    NotificationType = "announcement"
)

// IsValid checks if the notification type is known.
func (t NotificationType) IsValid() bool {
	switch t {
	case TypeGeneral, TypeShiftAssigned, TypeShiftChanged, TypeRosterPublished, TypeLeaveRequest, TypeAnnouncement:
		return true
	default:
		return false
	}
}

// String returns the string representation of the type.
func (t NotificationType) String() string {
	return string(t)
}

// Notification is a message addressed to, or sent by, the signed-in user.
type Notification struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Type        NotificationType `json:"type"`
	SenderID    int64            `json:"sender_id,omitempty"`
	RecipientID int64            `json:"recipient_id"`
	IsRead      bool             `json:"is_read"`
	IsStarred   bool             `json:"is_starred"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
	DeletedAt   *time.Time       `json:"deleted_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Key returns the cache identity of the notification.
func (n Notification) Key() ID {
	return IntID(n.ID)
}

// IsTrashed reports whether the notification carries a deletion stamp.
func (n Notification) IsTrashed() bool {
	return n.DeletedAt != nil
}

// MarkRead sets the read flag and stamps ReadAt.
func (n *Notification) MarkRead(at time.Time) {
	n.IsRead = true
	n.ReadAt = &at
}

// MarkUnread clears the read flag and ReadAt.
func (n *Notification) MarkUnread() {
	n.IsRead = false
	n.ReadAt = nil
}

// Trash stamps the deletion time.
func (n *Notification) Trash(at time.Time) {
	n.DeletedAt = &at
}

// Untrash clears the deletion time.
func (n *Notification) Untrash() {
	n.DeletedAt = nil
}

// Validate validates the notification and returns an error if invalid.
func (n *Notification) Validate() error {
	if n.ID <= 0 {
		return fmt.Errorf("%w: invalid notification ID: %d", ErrValidation, n.ID)
	}
	if strings.TrimSpace(n.Message) == "" {
		return fmt.Errorf("%w: notification message cannot be empty", ErrValidation)
	}
	if n.Type != "" && !n.Type.IsValid() {
		return fmt.Errorf("%w: invalid notification type: %s", ErrValidation, n.Type)
	}
	return nil
}

// Draft is the payload of a notification being composed.
type Draft struct {
	RecipientID int64            `json:"recipient_id"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Type        NotificationType `json:"type,omitempty"`
}

// Validate checks that the draft can be sent.
func (d Draft) Validate() error {
	if d.RecipientID <= 0 {
		return fmt.Errorf("%w: recipient is required", ErrValidation)
	}
	if strings.TrimSpace(d.Message) == "" {
		return fmt.Errorf("%w: message cannot be empty", ErrValidation)
	}
	if d.Type != "" && !d.Type.IsValid() {
		return fmt.Errorf("%w: invalid notification type: %s", ErrValidation, d.Type)
	}
	return nil
}
