package search

import (
	"strings"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

// SubstringProvider matches when any field contains the query.
type SubstringProvider struct {
	opts Options
}

// NewSubstringProvider creates a substring provider.
func NewSubstringProvider(opts ...Option) Provider {
	return &SubstringProvider{opts: applyOptions(opts)}
}

func (p *SubstringProvider) Match(n domain.Notification, query string) bool {
	if query == "" {
		return true
	}
	if p.opts.CaseInsensitive {
		query = strings.ToLower(query)
	}
	for _, v := range p.opts.fieldValues(n) {
		if p.opts.CaseInsensitive {
			v = strings.ToLower(v)
		}
		if strings.Contains(v, query) {
			return true
		}
	}
	return false
}

func (p *SubstringProvider) Name() string {
	return "substring"
}
