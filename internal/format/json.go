package format

import (
	"encoding/json"
	"io"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

type jsonFormatter struct{}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (jsonFormatter) Users(w io.Writer, users []domain.User) error {
	return writeJSON(w, nonNil(users))
}

func (jsonFormatter) Notifications(w io.Writer, items []domain.Notification) error {
	return writeJSON(w, nonNil(items))
}

func (jsonFormatter) Rosters(w io.Writer, rosters []domain.RosterPeriod) error {
	return writeJSON(w, nonNil(rosters))
}

func (jsonFormatter) Activities(w io.Writer, logs []domain.ActivityLog) error {
	return writeJSON(w, nonNil(logs))
}

func (jsonFormatter) Stats(w io.Writer, s domain.Stats) error {
	return writeJSON(w, s)
}

func (jsonFormatter) ActivityStats(w io.Writer, s domain.ActivityStatistics) error {
	return writeJSON(w, s)
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
