package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

const selectUserSQL = `
	SELECT u.id, u.name, u.email, u.role, u.is_active, u.deleted_at, u.created_at, u.updated_at,
	       e.id, e.code, e.department, e.position, e.phone
	FROM users u
	LEFT JOIN employees e ON e.user_id = u.id`

func scanUser(row scanner) (domain.User, error) {
	var (
		u                           domain.User
		id                          int64
		active                      bool
		deletedAt                   sql.NullString
		role, createdAt, updatedAt  string
		empID                       sql.NullInt64
		code, dept, position, phone sql.NullString
	)
	if err := row.Scan(&id, &u.Name, &u.Email, &role, &active, &deletedAt, &createdAt, &updatedAt,
		&empID, &code, &dept, &position, &phone); err != nil {
		return domain.User{}, err
	}
	u.ID = domain.IntID(id)
	u.Role = domain.Role(role)
	u.IsActive = active
	var err error
	if u.DeletedAt, err = parseNullTime(deletedAt); err != nil {
		return domain.User{}, err
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.User{}, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.User{}, err
	}
	if empID.Valid {
		u.Employee = &domain.Employee{
			ID:         empID.Int64,
			Code:       code.String,
			Department: dept.String,
			Position:   position.String,
			Phone:      phone.String,
		}
	}
	return u, nil
}

// ListUsers returns every user, deleted ones included, by id.
func (b *Backend) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := b.db.QueryContext(ctx, selectUserSQL+` ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite backend: list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite backend: scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite backend: list users: %w", err)
	}
	return users, nil
}

func (b *Backend) getUser(ctx context.Context, id int64) (domain.User, error) {
	u, err := scanUser(b.db.QueryRowContext(ctx, selectUserSQL+` WHERE u.id = ?`, id))
	if err != nil {
		return domain.User{}, notFound(err, "user", id)
	}
	return u, nil
}

// CreateUser stores a new user and its employee record, if any.
func (b *Backend) CreateUser(ctx context.Context, in domain.UserInput) (domain.User, error) {
	if err := in.Validate(); err != nil {
		return domain.User{}, err
	}
	var id int64
	err := b.withTx(ctx, func(tx *sql.Tx) error {
		now := b.stamp()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO users (name, email, role, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			in.Name, in.Email, string(in.Role), in.IsActive, now, now)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("email %s already in use: %w", in.Email, domain.ErrConflict)
			}
			return fmt.Errorf("sqlite backend: create user: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("sqlite backend: create user id: %w", err)
		}
		if err := upsertEmployee(ctx, tx, id, in.Employee); err != nil {
			return err
		}
		return b.logActivity(ctx, tx, "create_user", "user", id, "created user "+in.Name)
	})
	if err != nil {
		return domain.User{}, err
	}
	return b.getUser(ctx, id)
}

// UpdateUser replaces the editable fields of a user.
func (b *Backend) UpdateUser(ctx context.Context, id domain.ID, in domain.UserInput) (domain.User, error) {
	n, err := rowID(id)
	if err != nil {
		return domain.User{}, err
	}
	if err := in.Validate(); err != nil {
		return domain.User{}, err
	}
	err = b.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE users SET name = ?, email = ?, role = ?, is_active = ?, updated_at = ?
			WHERE id = ?`,
			in.Name, in.Email, string(in.Role), in.IsActive, b.stamp(), n)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("email %s already in use: %w", in.Email, domain.ErrConflict)
			}
			return fmt.Errorf("sqlite backend: update user: %w", err)
		}
		if err := affected(res, "user", n); err != nil {
			return err
		}
		if err := upsertEmployee(ctx, tx, n, in.Employee); err != nil {
			return err
		}
		return b.logActivity(ctx, tx, "update_user", "user", n, "updated user "+in.Name)
	})
	if err != nil {
		return domain.User{}, err
	}
	return b.getUser(ctx, n)
}

// DeleteUser soft-deletes a user: it is deactivated and stamped.
func (b *Backend) DeleteUser(ctx context.Context, id domain.ID) (domain.User, error) {
	return b.setUserActive(ctx, id, false)
}

// RestoreUser reactivates a soft-deleted user.
func (b *Backend) RestoreUser(ctx context.Context, id domain.ID) (domain.User, error) {
	return b.setUserActive(ctx, id, true)
}

func (b *Backend) setUserActive(ctx context.Context, id domain.ID, active bool) (domain.User, error) {
	n, err := rowID(id)
	if err != nil {
		return domain.User{}, err
	}
	now := b.stamp()
	deletedAt := sql.NullString{String: now, Valid: !active}
	action := "delete_user"
	if active {
		action = "restore_user"
	}
	err = b.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE users SET is_active = ?, deleted_at = ?, updated_at = ? WHERE id = ?`,
			active, deletedAt, now, n)
		if err != nil {
			return fmt.Errorf("sqlite backend: %s: %w", action, err)
		}
		if err := affected(res, "user", n); err != nil {
			return err
		}
		return b.logActivity(ctx, tx, action, "user", n, "")
	})
	if err != nil {
		return domain.User{}, err
	}
	return b.getUser(ctx, n)
}

// upsertEmployee writes or removes the employee row of a user.
func upsertEmployee(ctx context.Context, tx *sql.Tx, userID int64, emp *domain.Employee) error {
	if emp == nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM employees WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("sqlite backend: remove employee: %w", err)
		}
		return nil
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO employees (user_id, code, department, position, phone)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			code = excluded.code,
			department = excluded.department,
			position = excluded.position,
			phone = excluded.phone`,
		userID, emp.Code, emp.Department, emp.Position, emp.Phone)
	if err != nil {
		return fmt.Errorf("sqlite backend: save employee: %w", err)
	}
	return nil
}

// rowID converts a cache id to a row id. Temporary ids never reach storage.
func rowID(id domain.ID) (int64, error) {
	n, ok := id.Int()
	if !ok || n <= 0 {
		return 0, fmt.Errorf("user id %s: %w", id, domain.ErrInvalidID)
	}
	return n, nil
}
