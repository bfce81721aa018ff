package format

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateTimeLayout)
}

func flag(b bool, mark string) string {
	if b {
		return mark
	}
	return ""
}

// UserTable lists users.
func UserTable() *Table[domain.User] {
	return NewTable(
		Column[domain.User]{Name: "ID", Width: 16, Value: func(u domain.User) string { return u.ID.String() }},
		Column[domain.User]{Name: "Name", Width: 22, Value: func(u domain.User) string { return u.Name }},
		Column[domain.User]{Name: "Email", Width: 28, Value: func(u domain.User) string { return u.Email }},
		Column[domain.User]{Name: "Role", Width: 8, Value: func(u domain.User) string { return string(u.Role) }},
		Column[domain.User]{Name: "Status", Width: 8, Value: userStatus},
		Column[domain.User]{Name: "Employee", Width: 10, Value: func(u domain.User) string {
			if u.Employee == nil {
				return ""
			}
			return u.Employee.Code
		}},
	)
}

func userStatus(u domain.User) string {
	switch {
	case u.IsDeleted():
		return "deleted"
	case u.IsActive:
		return "active"
	default:
		return "inactive"
	}
}

// NotificationTable lists notifications.
func NotificationTable() *Table[domain.Notification] {
	return NewTable(
		Column[domain.Notification]{Name: "ID", Width: 5, Align: AlignRight, Value: func(n domain.Notification) string {
			return strconv.FormatInt(n.ID, 10)
		}},
		Column[domain.Notification]{Name: "", Width: 2, Value: func(n domain.Notification) string {
			return flag(n.IsStarred, "*") + flag(!n.IsRead, "•")
		}},
		Column[domain.Notification]{Name: "Date", Width: 16, Value: func(n domain.Notification) string { return formatTime(n.CreatedAt) }},
		Column[domain.Notification]{Name: "Type", Width: 16, Value: func(n domain.Notification) string { return n.Type.String() }},
		Column[domain.Notification]{Name: "Title", Width: 20, Value: func(n domain.Notification) string { return n.Title }},
		Column[domain.Notification]{Name: "Message", Width: 40, Value: func(n domain.Notification) string { return n.Message }},
	)
}

// RosterTable lists roster periods.
func RosterTable() *Table[domain.RosterPeriod] {
	return NewTable(
		Column[domain.RosterPeriod]{Name: "ID", Width: 5, Align: AlignRight, Value: func(r domain.RosterPeriod) string {
			return strconv.FormatInt(r.ID, 10)
		}},
		Column[domain.RosterPeriod]{Name: "Name", Width: 20, Value: func(r domain.RosterPeriod) string { return r.Name }},
		Column[domain.RosterPeriod]{Name: "Start", Width: 10, Value: func(r domain.RosterPeriod) string { return r.StartDate.Format(dateLayout) }},
		Column[domain.RosterPeriod]{Name: "End", Width: 10, Value: func(r domain.RosterPeriod) string { return r.EndDate.Format(dateLayout) }},
		Column[domain.RosterPeriod]{Name: "Status", Width: 9, Value: func(r domain.RosterPeriod) string { return string(r.Status) }},
		Column[domain.RosterPeriod]{Name: "Shifts", Width: 6, Align: AlignRight, Value: func(r domain.RosterPeriod) string {
			return strconv.Itoa(r.ShiftCount)
		}},
	)
}

// ActivityTable lists activity log entries.
func ActivityTable() *Table[domain.ActivityLog] {
	return NewTable(
		Column[domain.ActivityLog]{Name: "When", Width: 16, Value: func(a domain.ActivityLog) string { return formatTime(a.CreatedAt) }},
		Column[domain.ActivityLog]{Name: "User", Width: 5, Align: AlignRight, Value: func(a domain.ActivityLog) string {
			return strconv.FormatInt(a.UserID, 10)
		}},
		Column[domain.ActivityLog]{Name: "Action", Width: 18, Value: func(a domain.ActivityLog) string { return a.Action }},
		Column[domain.ActivityLog]{Name: "Description", Width: 40, Value: func(a domain.ActivityLog) string { return a.Description }},
	)
}

type tableFormatter struct{}

func (tableFormatter) Users(w io.Writer, users []domain.User) error {
	return UserTable().Write(w, users, "No users.")
}

func (tableFormatter) Notifications(w io.Writer, items []domain.Notification) error {
	return NotificationTable().Write(w, items, "No notifications.")
}

func (tableFormatter) Rosters(w io.Writer, rosters []domain.RosterPeriod) error {
	return RosterTable().Write(w, rosters, "No roster periods.")
}

func (tableFormatter) Activities(w io.Writer, logs []domain.ActivityLog) error {
	return ActivityTable().Write(w, logs, "No activity.")
}

func (tableFormatter) Stats(w io.Writer, s domain.Stats) error {
	_, err := fmt.Fprintf(w, "%s %d  %s %d  %s %d  %s %d\n",
		headerStyle.Render("Inbox"), s.Inbox,
		headerStyle.Render("Starred"), s.Starred,
		headerStyle.Render("Sent"), s.Sent,
		headerStyle.Render("Trash"), s.Trash)
	return err
}

func (tableFormatter) ActivityStats(w io.Writer, s domain.ActivityStatistics) error {
	if _, err := fmt.Fprintf(w, "%s %d  %s %d  %s %d\n",
		headerStyle.Render("Total"), s.Total,
		headerStyle.Render("Today"), s.Today,
		headerStyle.Render("Active users"), s.ActiveUsers); err != nil {
		return err
	}
	for _, action := range sortedKeys(s.ByAction) {
		if _, err := fmt.Fprintf(w, "  %-20s %d\n", action, s.ByAction[action]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
