package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

type seedUser struct {
	name, email string
	role        domain.Role
	active      bool
	employee    *domain.Employee
}

type seedNotification struct {
	from, to      int64
	title, msg    string
	kind          domain.NotificationType
	read, starred bool
	trashed       bool
	age           time.Duration
}

var seedUsers = []seedUser{
	{name: "Avery Admin", email: "avery@rosterdesk.test", role: domain.RoleAdmin, active: true},
	{name: "Morgan Manager", email: "morgan@rosterdesk.test", role: domain.RoleManager, active: true,
		employee: &domain.Employee{Code: "EMP-002", Department: "Operations", Position: "Shift Lead"}},
	{name: "Sam Staff", email: "sam@rosterdesk.test", role: domain.RoleStaff, active: true,
		employee: &domain.Employee{Code: "EMP-003", Department: "Operations", Position: "Nurse", Phone: "555-0103"}},
	{name: "Riley Relief", email: "riley@rosterdesk.test", role: domain.RoleStaff, active: false,
		employee: &domain.Employee{Code: "EMP-004", Department: "Emergency", Position: "Paramedic"}},
}

var seedNotifications = []seedNotification{
	{from: 2, to: 1, title: "Roster published", msg: "The March roster is live.", kind: domain.TypeRosterPublished, age: 2 * time.Hour},
	{from: 3, to: 1, title: "Leave request", msg: "Requesting leave on the 14th.", kind: domain.TypeLeaveRequest, starred: true, age: 5 * time.Hour},
	{from: 2, to: 1, title: "Shift swap", msg: "Sam and Riley swapped Friday nights.", kind: domain.TypeShiftChanged, read: true, age: 26 * time.Hour},
	{from: 3, to: 1, title: "Old note", msg: "Please ignore.", kind: domain.TypeGeneral, trashed: true, age: 72 * time.Hour},
	{from: 1, to: 2, title: "Welcome", msg: "Welcome to the operations team.", kind: domain.TypeAnnouncement, age: 48 * time.Hour},
	{from: 1, to: 3, title: "New shift", msg: "You are on the early shift Monday.", kind: domain.TypeShiftAssigned, age: 30 * time.Minute},
}

// Seed fills an empty database with demo users, notifications, rosters and
// activity. It does nothing when users already exist.
func (b *Backend) Seed(ctx context.Context) error {
	var count int
	if err := b.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("sqlite backend: seed: count users: %w", err)
	}
	if count > 0 {
		b.logger.Debug("seed skipped", "users", count)
		return nil
	}

	now := b.now().UTC()
	err := b.withTx(ctx, func(tx *sql.Tx) error {
		for _, u := range seedUsers {
			var deletedAt sql.NullString
			if !u.active {
				deletedAt = sql.NullString{String: formatTime(now), Valid: true}
			}
			res, err := tx.ExecContext(ctx, `
				INSERT INTO users (name, email, role, is_active, deleted_at, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				u.name, u.email, string(u.role), u.active, deletedAt, formatTime(now), formatTime(now))
			if err != nil {
				return fmt.Errorf("sqlite backend: seed user %s: %w", u.email, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("sqlite backend: seed user id: %w", err)
			}
			if u.employee != nil {
				if err := upsertEmployee(ctx, tx, id, u.employee); err != nil {
					return err
				}
			}
		}

		for _, n := range seedNotifications {
			created := now.Add(-n.age)
			var readAt, deletedAt sql.NullString
			if n.read {
				readAt = sql.NullString{String: formatTime(created.Add(time.Minute)), Valid: true}
			}
			if n.trashed {
				deletedAt = sql.NullString{String: formatTime(now), Valid: true}
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO notifications (title, message, type, sender_id, recipient_id, is_read, is_starred, read_at, deleted_at, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				n.title, n.msg, string(n.kind), n.from, n.to, n.read, n.starred, readAt, deletedAt, formatTime(created))
			if err != nil {
				return fmt.Errorf("sqlite backend: seed notification %q: %w", n.title, err)
			}
		}

		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		periods := []struct {
			name   string
			start  time.Time
			status domain.RosterStatus
			shifts int
		}{
			{name: month.AddDate(0, -1, 0).Format("January 2006"), start: month.AddDate(0, -1, 0), status: domain.RosterArchived, shifts: 3},
			{name: month.Format("January 2006"), start: month, status: domain.RosterPublished, shifts: 4},
			{name: month.AddDate(0, 1, 0).Format("January 2006"), start: month.AddDate(0, 1, 0), status: domain.RosterDraft},
		}
		for _, p := range periods {
			end := p.start.AddDate(0, 1, -1)
			res, err := tx.ExecContext(ctx,
				`INSERT INTO roster_periods (name, start_date, end_date, status) VALUES (?, ?, ?, ?)`,
				p.name, p.start.Format(dateLayout), end.Format(dateLayout), string(p.status))
			if err != nil {
				return fmt.Errorf("sqlite backend: seed roster %s: %w", p.name, err)
			}
			rosterID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("sqlite backend: seed roster id: %w", err)
			}
			for i := 0; i < p.shifts; i++ {
				start := p.start.AddDate(0, 0, i).Add(7 * time.Hour)
				_, err := tx.ExecContext(ctx,
					`INSERT INTO shifts (roster_period_id, user_id, starts_at, ends_at) VALUES (?, ?, ?, ?)`,
					rosterID, int64(2+i%2), formatTime(start), formatTime(start.Add(8*time.Hour)))
				if err != nil {
					return fmt.Errorf("sqlite backend: seed shift: %w", err)
				}
			}
		}

		for _, a := range []struct {
			user        int64
			action      string
			description string
		}{
			{1, "login", "signed in"},
			{2, "publish_roster", "published " + month.Format("January 2006")},
			{3, "login", "signed in"},
		} {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO activity_logs (user_id, action, entity_type, entity_id, description, created_at)
				VALUES (?, ?, '', 0, ?, ?)`,
				a.user, a.action, a.description, formatTime(now))
			if err != nil {
				return fmt.Errorf("sqlite backend: seed activity: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	b.logger.Info("database seeded", "users", len(seedUsers), "notifications", len(seedNotifications))
	return nil
}
