package format

import (
	"fmt"
	"io"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

type simpleFormatter struct{}

func (simpleFormatter) Users(w io.Writer, users []domain.User) error {
	for _, u := range users {
		if _, err := fmt.Fprintf(w, "%s\t%s <%s>\t%s\n", u.ID, u.Name, u.Email, userStatus(u)); err != nil {
			return err
		}
	}
	return nil
}

func (simpleFormatter) Notifications(w io.Writer, items []domain.Notification) error {
	for _, n := range items {
		msg := n.Message
		if n.Title != "" {
			msg = n.Title + ": " + msg
		}
		if _, err := fmt.Fprintf(w, "%-4d  %s  - %s\n", n.ID, formatTime(n.CreatedAt), truncate(msg, 60)); err != nil {
			return err
		}
	}
	return nil
}

func (simpleFormatter) Rosters(w io.Writer, rosters []domain.RosterPeriod) error {
	for _, r := range rosters {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\n", r.ID, r.Name, r.Status); err != nil {
			return err
		}
	}
	return nil
}

func (simpleFormatter) Activities(w io.Writer, logs []domain.ActivityLog) error {
	for _, a := range logs {
		if _, err := fmt.Fprintf(w, "%s  %s  %s\n", formatTime(a.CreatedAt), a.Action, a.Description); err != nil {
			return err
		}
	}
	return nil
}

func (simpleFormatter) Stats(w io.Writer, s domain.Stats) error {
	_, err := fmt.Fprintf(w, "inbox=%d starred=%d sent=%d trash=%d\n", s.Inbox, s.Starred, s.Sent, s.Trash)
	return err
}

func (simpleFormatter) ActivityStats(w io.Writer, s domain.ActivityStatistics) error {
	_, err := fmt.Fprintf(w, "total=%d today=%d active_users=%d\n", s.Total, s.Today, s.ActiveUsers)
	return err
}
