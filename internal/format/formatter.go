// Package format renders cached roster data for the CLI.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

// Formatter writes each kind of record to w.
type Formatter interface {
	Users(w io.Writer, users []domain.User) error
	Notifications(w io.Writer, items []domain.Notification) error
	Rosters(w io.Writer, rosters []domain.RosterPeriod) error
	Activities(w io.Writer, logs []domain.ActivityLog) error
	Stats(w io.Writer, stats domain.Stats) error
	ActivityStats(w io.Writer, stats domain.ActivityStatistics) error
}

// Type names an output style.
type Type string

const (
	// TypeTable prints aligned columns with a header.
	TypeTable Type = "table"
	// TypeSimple prints one terse line per record.
	TypeSimple Type = "simple"
	// TypeJSON prints indented JSON.
	TypeJSON Type = "json"
)

// Types lists the supported output styles.
func Types() []Type {
	return []Type{TypeTable, TypeSimple, TypeJSON}
}

// ParseType parses an output style name.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeTable, TypeSimple, TypeJSON:
		return t, nil
	case "":
		return TypeTable, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, simple or json)", s)
}

// New returns the formatter for t. Unknown types fall back to the table.
func New(t Type) Formatter {
	switch t {
	case TypeJSON:
		return jsonFormatter{}
	case TypeSimple:
		return simpleFormatter{}
	default:
		return tableFormatter{}
	}
}
