// Package search filters cached notifications with interchangeable match
// strategies (substring, regex, token) behind one Provider interface.
package search

import (
	"fmt"
	"strconv"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

// Provider decides whether a notification matches a query.
type Provider interface {
	// Match reports whether n matches query. An empty query matches
	// everything.
	Match(n domain.Notification, query string) bool

	// Name identifies the strategy.
	Name() string
}

// Field names accepted by WithFields.
const (
	FieldTitle   = "title"
	FieldMessage = "message"
	FieldType    = "type"
	FieldSender  = "sender"
)

// Options configures a provider.
type Options struct {
	CaseInsensitive bool
	Fields          []string
	// SenderNames resolves sender ids to display names so a search for
	// "Morgan" finds what Morgan sent.
	SenderNames map[int64]string
}

// DefaultOptions searches title and message, case-insensitively.
func DefaultOptions() Options {
	return Options{
		CaseInsensitive: true,
		Fields:          []string{FieldTitle, FieldMessage},
	}
}

// Option modifies Options.
type Option func(*Options)

// WithCaseInsensitive toggles case folding.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithFields sets the searched fields.
func WithFields(fields ...string) Option {
	return func(o *Options) {
		o.Fields = fields
	}
}

// WithSenderNames enables name lookup for the sender field.
func WithSenderNames(names map[int64]string) Option {
	return func(o *Options) {
		o.SenderNames = names
	}
}

// SenderNamesFrom maps user ids to names.
func SenderNamesFrom(users []domain.User) map[int64]string {
	names := make(map[int64]string, len(users))
	for _, u := range users {
		if id, ok := u.ID.Int(); ok {
			names[id] = u.Name
		}
	}
	return names
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// fieldValues returns the non-empty values of the configured fields.
func (o Options) fieldValues(n domain.Notification) []string {
	values := make([]string, 0, len(o.Fields)+1)
	add := func(v string) {
		if v != "" {
			values = append(values, v)
		}
	}
	for _, field := range o.Fields {
		switch field {
		case FieldTitle:
			add(n.Title)
		case FieldMessage:
			add(n.Message)
		case FieldType:
			add(string(n.Type))
		case FieldSender:
			if n.SenderID > 0 {
				add(strconv.FormatInt(n.SenderID, 10))
				add(o.SenderNames[n.SenderID])
			}
		}
	}
	return values
}

// New returns the provider named kind: substring, regex or token.
func New(kind string, opts ...Option) (Provider, error) {
	switch kind {
	case "", "substring":
		return NewSubstringProvider(opts...), nil
	case "regex":
		return NewRegexProvider(opts...), nil
	case "token":
		return NewTokenProvider(opts...), nil
	}
	return nil, fmt.Errorf("unknown search mode %q (want substring, regex or token)", kind)
}

// Filter returns the items p matches, keeping their order.
func Filter(items []domain.Notification, query string, p Provider) []domain.Notification {
	if query == "" || p == nil {
		return items
	}
	out := make([]domain.Notification, 0, len(items))
	for _, n := range items {
		if p.Match(n, query) {
			out = append(out, n)
		}
	}
	return out
}
