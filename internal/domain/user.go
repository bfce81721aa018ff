package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Role is the permission level of a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// IsValid checks if the role is known.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	default:
		return false
	}
}

// ParseRole parses a string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: invalid role: %s", ErrValidation, s)
	}
	return r, nil
}

// Employee is the HR record optionally linked to a user.
type Employee struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// User is an account of the roster administration system.
type User struct {
	ID        ID         `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"is_active"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	Employee  *Employee  `json:"employee,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Key returns the cache identity of the user.
func (u User) Key() ID {
	return u.ID
}

// IsDeleted reports whether the user has been soft-deleted.
func (u User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// SoftDelete deactivates the user and stamps DeletedAt.
func (u *User) SoftDelete(at time.Time) {
	u.IsActive = false
	u.DeletedAt = &at
	u.UpdatedAt = at
}

// Reactivate reverses SoftDelete.
func (u *User) Reactivate(at time.Time) {
	u.IsActive = true
	u.DeletedAt = nil
	u.UpdatedAt = at
}

// Validate validates the user and returns an error if invalid.
func (u *User) Validate() error {
	if u.ID.IsZero() {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	return validateUserFields(u.Name, u.Email, u.Role)
}

// UserInput is the create and update payload for a user.
type UserInput struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	IsActive bool      `json:"is_active"`
	Employee *Employee `json:"employee,omitempty"`
}

// Validate checks the payload.
func (in UserInput) Validate() error {
	return validateUserFields(in.Name, in.Email, in.Role)
}

// Placeholder builds the optimistic user shown while a create is in flight.
func (in UserInput) Placeholder(id ID, at time.Time) User {
	return in.ApplyTo(User{ID: id, CreatedAt: at}, at)
}

// ApplyTo returns u with the payload fields written over it.
func (in UserInput) ApplyTo(u User, at time.Time) User {
	u.Name = in.Name
	u.Email = in.Email
	u.Role = in.Role
	u.IsActive = in.IsActive
	if in.Employee != nil {
		emp := *in.Employee
		u.Employee = &emp
	} else {
		u.Employee = nil
	}
	u.UpdatedAt = at
	return u
}

func validateUserFields(name, email string, role Role) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: user name cannot be empty", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrValidation, email)
	}
	if !role.IsValid() {
		return fmt.Errorf("%w: invalid role: %s", ErrValidation, role)
	}
	return nil
}
