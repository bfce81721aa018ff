package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/rosterdesk/internal/colors"
	"github.com/cristianoliveira/rosterdesk/internal/domain"
	"github.com/cristianoliveira/rosterdesk/internal/optimistic"
	"github.com/cristianoliveira/rosterdesk/internal/session"
)

// NewUsersCmd creates the users command group.
func NewUsersCmd(conn connector) *cobra.Command {
	if conn == nil {
		panic("NewUsersCmd: connector dependency cannot be nil")
	}
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List and manage users",
	}
	cmd.AddCommand(
		newUsersListCmd(conn),
		newUsersCreateCmd(conn),
		newUsersUpdateCmd(conn),
		newUserStateCmd(conn, "delete", "Deactivate a user", (*session.Session).DeleteUser, "deleted"),
		newUserStateCmd(conn, "restore", "Reactivate a deleted user", (*session.Session).RestoreUser, "restored"),
	)
	return cmd
}

func newUsersListCmd(conn connector) *cobra.Command {
	var outputFormat string
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := formatterFor(outputFormat)
			if err != nil {
				return err
			}
			s, err := conn.Connect(cmd.Context())
			if err != nil {
				return err
			}
			users := s.Users()
			if !all {
				kept := users[:0]
				for _, u := range users {
					if !u.IsDeleted() {
						kept = append(kept, u)
					}
				}
				users = kept
			}
			return f.Users(cmd.OutOrStdout(), users)
		},
	}
	addFormatFlag(cmd, &outputFormat)
	cmd.Flags().BoolVar(&all, "all", false, "Include deleted users")
	return cmd
}

// userFlags are the editable user fields.
type userFlags struct {
	name, email, role                 string
	inactive                          bool
	code, department, position, phone string
}

func (uf *userFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&uf.name, "name", "", "Full name")
	fl.StringVar(&uf.email, "email", "", "Email address")
	fl.StringVar(&uf.role, "role", "", "Role: admin, manager or staff")
	fl.BoolVar(&uf.inactive, "inactive", false, "Mark the account inactive")
	fl.StringVar(&uf.code, "employee-code", "", "Employee code; links an employee record")
	fl.StringVar(&uf.department, "department", "", "Employee department")
	fl.StringVar(&uf.position, "position", "", "Employee position")
	fl.StringVar(&uf.phone, "phone", "", "Employee phone")
}

// apply writes the flags the user set over in.
func (uf *userFlags) apply(cmd *cobra.Command, in domain.UserInput) (domain.UserInput, error) {
	changed := cmd.Flags().Changed
	if changed("name") {
		in.Name = uf.name
	}
	if changed("email") {
		in.Email = uf.email
	}
	if changed("role") {
		role, err := domain.ParseRole(uf.role)
		if err != nil {
			return in, err
		}
		in.Role = role
	}
	if changed("inactive") {
		in.IsActive = !uf.inactive
	}
	if changed("employee-code") || changed("department") || changed("position") || changed("phone") {
		emp := domain.Employee{}
		if in.Employee != nil {
			emp = *in.Employee
		}
		if changed("employee-code") {
			emp.Code = uf.code
		}
		if changed("department") {
			emp.Department = uf.department
		}
		if changed("position") {
			emp.Position = uf.position
		}
		if changed("phone") {
			emp.Phone = uf.phone
		}
		if strings.TrimSpace(emp.Code) == "" {
			return in, fmt.Errorf("%w: employee code is required", domain.ErrValidation)
		}
		in.Employee = &emp
	}
	return in, nil
}

func inputFrom(u domain.User) domain.UserInput {
	in := domain.UserInput{Name: u.Name, Email: u.Email, Role: u.Role, IsActive: u.IsActive}
	if u.Employee != nil {
		emp := *u.Employee
		in.Employee = &emp
	}
	return in
}

func newUsersCreateCmd(conn connector) *cobra.Command {
	var uf userFlags
	cmd := &cobra.Command{
		Use:   "create --name <name> --email <email> [--role staff]",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := uf.apply(cmd, domain.UserInput{Role: domain.RoleStaff, IsActive: true})
			if err != nil {
				return err
			}
			s, err := conn.Connect(cmd.Context())
			if err != nil {
				return err
			}
			_, p := s.CreateUser(cmd.Context(), in)
			if err := p.Wait(cmd.Context()); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			for _, u := range s.Users() {
				if strings.EqualFold(u.Email, in.Email) && !u.ID.IsTemp() {
					colors.Success(fmt.Sprintf("User %s created with id %s", u.Name, u.ID))
					return nil
				}
			}
			colors.Success("User created")
			return nil
		},
	}
	uf.register(cmd)
	return cmd
}

func newUsersUpdateCmd(conn connector) *cobra.Command {
	var uf userFlags
	cmd := &cobra.Command{
		Use:   "update <id> [flags]",
		Short: "Update a user; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID(args[0])
			if err != nil {
				return err
			}
			s, err := conn.Connect(cmd.Context())
			if err != nil {
				return err
			}
			existing, ok := s.User(id)
			if !ok {
				return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
			}
			in, err := uf.apply(cmd, inputFrom(existing))
			if err != nil {
				return err
			}
			if err := s.UpdateUser(cmd.Context(), id, in).Wait(cmd.Context()); err != nil {
				return fmt.Errorf("update user %s: %w", id, err)
			}
			colors.Success(fmt.Sprintf("User %s updated", id))
			return nil
		},
	}
	uf.register(cmd)
	return cmd
}

type userAction func(s *session.Session, ctx context.Context, id domain.ID) *optimistic.Pending

func newUserStateCmd(conn connector, use, short string, action userAction, done string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID(args[0])
			if err != nil {
				return err
			}
			s, err := conn.Connect(cmd.Context())
			if err != nil {
				return err
			}
			if _, ok := s.User(id); !ok {
				return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
			}
			applied, err := waitApplied(cmd.Context(), action(s, cmd.Context(), id))
			if err != nil {
				return fmt.Errorf("%s user %s: %w", use, id, err)
			}
			if !applied {
				colors.Warning(fmt.Sprintf("User %s: nothing to do", id))
				return nil
			}
			colors.Success(fmt.Sprintf("User %s %s", id, done))
			return nil
		},
	}
}
