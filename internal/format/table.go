package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Alignment of a column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))

// Column is one table column. Value extracts the cell from a row.
type Column[T any] struct {
	Name  string
	Width int
	Align Alignment
	Value func(T) string
}

// Table renders rows of T under a header.
type Table[T any] struct {
	Columns     []Column[T]
	ShowHeaders bool
}

// NewTable returns a table with headers enabled.
func NewTable[T any](columns ...Column[T]) *Table[T] {
	return &Table[T]{Columns: columns, ShowHeaders: true}
}

// WithColumns appends columns.
func (t *Table[T]) WithColumns(columns ...Column[T]) *Table[T] {
	t.Columns = append(t.Columns, columns...)
	return t
}

// Write renders rows. An empty slice writes emptyMsg instead, if set.
func (t *Table[T]) Write(w io.Writer, rows []T, emptyMsg string) error {
	if len(rows) == 0 {
		if emptyMsg == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, emptyMsg)
		return err
	}
	if t.ShowHeaders {
		header := make([]string, len(t.Columns))
		sep := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			header[i] = headerStyle.Render(fit(col.Name, col.Width, AlignLeft))
			sep[i] = strings.Repeat("-", col.Width)
		}
		if err := writeLine(w, header); err != nil {
			return err
		}
		if err := writeLine(w, sep); err != nil {
			return err
		}
	}
	cells := make([]string, len(t.Columns))
	for _, row := range rows {
		for i, col := range t.Columns {
			cells[i] = fit(col.Value(row), col.Width, col.Align)
		}
		if err := writeLine(w, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, cells []string) error {
	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	return err
}

// fit pads or truncates s to width display cells. Truncated text ends in
// "...".
func fit(s string, width int, align Alignment) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if width <= 0 {
		return s
	}
	if lipgloss.Width(s) > width {
		s = truncate(s, width)
	}
	pad := width - lipgloss.Width(s)
	if pad <= 0 {
		return s
	}
	if align == AlignRight {
		return strings.Repeat(" ", pad) + s
	}
	return s + strings.Repeat(" ", pad)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if width < 4 {
		return string(runes[:min(width, len(runes))])
	}
	out := make([]rune, 0, width)
	for _, r := range runes {
		if lipgloss.Width(string(append(out, r)))+3 > width {
			break
		}
		out = append(out, r)
	}
	return string(out) + "..."
}
