package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
	"github.com/cristianoliveira/rosterdesk/internal/repository"
)

const selectNotificationSQL = `
	SELECT id, title, message, type, sender_id, recipient_id, is_read, is_starred,
	       read_at, deleted_at, created_at
	FROM notifications`

// visibleSQL restricts a query to notifications the viewer sent or received.
const visibleSQL = `(recipient_id = ? OR sender_id = ?)`

// categoryFilter returns the WHERE clause and arguments of a category.
func (b *Backend) categoryFilter(cat domain.Category) (string, []any, error) {
	v := b.viewerID
	switch cat {
	case domain.CategoryInbox:
		return `recipient_id = ? AND deleted_at IS NULL`, []any{v}, nil
	case domain.CategoryStarred:
		return `is_starred = 1 AND deleted_at IS NULL AND ` + visibleSQL, []any{v, v}, nil
	case domain.CategorySent:
		return `sender_id = ? AND deleted_at IS NULL`, []any{v}, nil
	case domain.CategoryTrash:
		return `deleted_at IS NOT NULL AND ` + visibleSQL, []any{v, v}, nil
	default:
		return "", nil, fmt.Errorf("%w: %q", domain.ErrInvalidCategory, cat)
	}
}

func scanNotification(row scanner) (domain.Notification, error) {
	var (
		n                 domain.Notification
		kind, createdAt   string
		readAt, deletedAt sql.NullString
	)
	if err := row.Scan(&n.ID, &n.Title, &n.Message, &kind, &n.SenderID, &n.RecipientID,
		&n.IsRead, &n.IsStarred, &readAt, &deletedAt, &createdAt); err != nil {
		return domain.Notification{}, err
	}
	n.Type = domain.NotificationType(kind)
	var err error
	if n.ReadAt, err = parseNullTime(readAt); err != nil {
		return domain.Notification{}, err
	}
	if n.DeletedAt, err = parseNullTime(deletedAt); err != nil {
		return domain.Notification{}, err
	}
	if n.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Notification{}, err
	}
	return n, nil
}

// ListNotifications returns a category for the viewer, newest first. Total
// is the number of rows in the category.
func (b *Backend) ListNotifications(ctx context.Context, cat domain.Category) (repository.Page, error) {
	where, args, err := b.categoryFilter(cat)
	if err != nil {
		return repository.Page{}, err
	}
	rows, err := b.db.QueryContext(ctx, selectNotificationSQL+` WHERE `+where+` ORDER BY created_at DESC, id DESC`, args...)
	if err != nil {
		return repository.Page{}, fmt.Errorf("sqlite backend: list %s: %w", cat, err)
	}
	defer rows.Close()

	items := []domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return repository.Page{}, fmt.Errorf("sqlite backend: scan notification: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return repository.Page{}, fmt.Errorf("sqlite backend: list %s: %w", cat, err)
	}
	return repository.Page{Items: items, Total: len(items)}, nil
}

func (b *Backend) getNotification(ctx context.Context, id int64) (domain.Notification, error) {
	row := b.db.QueryRowContext(ctx, selectNotificationSQL+` WHERE id = ? AND `+visibleSQL, id, b.viewerID, b.viewerID)
	n, err := scanNotification(row)
	if err != nil {
		return domain.Notification{}, notFound(err, "notification", id)
	}
	return n, nil
}

// GetNotification returns one notification visible to the viewer.
func (b *Backend) GetNotification(ctx context.Context, id int64) (domain.Notification, error) {
	return b.getNotification(ctx, id)
}

// update runs an UPDATE or DELETE scoped to one visible notification.
func (b *Backend) update(ctx context.Context, what, stmt string, id int64, args ...any) error {
	args = append(args, id, b.viewerID, b.viewerID)
	res, err := b.db.ExecContext(ctx, stmt+` WHERE id = ? AND `+visibleSQL, args...)
	if err != nil {
		return fmt.Errorf("sqlite backend: %s: %w", what, err)
	}
	return affected(res, "notification", id)
}

// MarkNotificationRead sets or clears the read flag.
func (b *Backend) MarkNotificationRead(ctx context.Context, id int64, read bool) error {
	readAt := sql.NullString{}
	if read {
		readAt = sql.NullString{String: b.stamp(), Valid: true}
	}
	return b.update(ctx, "mark read", `UPDATE notifications SET is_read = ?, read_at = ?`, id, read, readAt)
}

// ToggleNotificationStar flips the starred flag and returns the result.
func (b *Backend) ToggleNotificationStar(ctx context.Context, id int64) (domain.Notification, error) {
	if err := b.update(ctx, "toggle star", `UPDATE notifications SET is_starred = 1 - is_starred`, id); err != nil {
		return domain.Notification{}, err
	}
	return b.getNotification(ctx, id)
}

// TrashNotification soft-deletes a notification. Trashing twice keeps the
// first stamp.
func (b *Backend) TrashNotification(ctx context.Context, id int64) error {
	return b.update(ctx, "trash", `UPDATE notifications SET deleted_at = COALESCE(deleted_at, ?)`, id, b.stamp())
}

// RestoreNotification takes a notification out of the trash.
func (b *Backend) RestoreNotification(ctx context.Context, id int64) error {
	return b.update(ctx, "restore", `UPDATE notifications SET deleted_at = NULL`, id)
}

// PurgeNotification permanently deletes a trashed notification.
func (b *Backend) PurgeNotification(ctx context.Context, id int64) error {
	res, err := b.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE id = ? AND deleted_at IS NOT NULL AND `+visibleSQL,
		id, b.viewerID, b.viewerID)
	if err != nil {
		return fmt.Errorf("sqlite backend: purge: %w", err)
	}
	return affected(res, "trashed notification", id)
}

// SendNotification stores a draft from the viewer to its recipient.
func (b *Backend) SendNotification(ctx context.Context, draft domain.Draft) (domain.Notification, error) {
	if err := draft.Validate(); err != nil {
		return domain.Notification{}, err
	}
	if draft.Type == "" {
		draft.Type = domain.TypeGeneral
	}
	var id int64
	err := b.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE id = ? AND deleted_at IS NULL)`, draft.RecipientID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("sqlite backend: check recipient: %w", err)
		}
		if !exists {
			return fmt.Errorf("recipient %d: %w", draft.RecipientID, domain.ErrNotFound)
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO notifications (title, message, type, sender_id, recipient_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			draft.Title, draft.Message, string(draft.Type), b.viewerID, draft.RecipientID, b.stamp())
		if err != nil {
			return fmt.Errorf("sqlite backend: send notification: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("sqlite backend: send notification id: %w", err)
		}
		return b.logActivity(ctx, tx, "send_notification", "notification", id, draft.Title)
	})
	if err != nil {
		return domain.Notification{}, err
	}
	return b.getNotification(ctx, id)
}
