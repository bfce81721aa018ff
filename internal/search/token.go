package search

import (
	"strings"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

// TokenProvider splits the query on whitespace; every text token must match
// some field. The tokens read, unread and starred filter on flags instead.
type TokenProvider struct {
	opts Options
}

// NewTokenProvider creates a token provider.
func NewTokenProvider(opts ...Option) Provider {
	return &TokenProvider{opts: applyOptions(opts)}
}

func (p *TokenProvider) Match(n domain.Notification, query string) bool {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return true
	}

	var readFilter, unreadFilter, starredFilter bool
	text := make([]string, 0, len(tokens))
	for _, token := range tokens {
		switch strings.ToLower(token) {
		case "read":
			readFilter = true
		case "unread":
			unreadFilter = true
		case "starred":
			starredFilter = true
		default:
			if p.opts.CaseInsensitive {
				token = strings.ToLower(token)
			}
			text = append(text, token)
		}
	}

	// read and unread together cancel out.
	if readFilter && unreadFilter {
		readFilter, unreadFilter = false, false
	}
	if (readFilter && !n.IsRead) || (unreadFilter && n.IsRead) || (starredFilter && !n.IsStarred) {
		return false
	}

	values := p.opts.fieldValues(n)
	if p.opts.CaseInsensitive {
		for i, v := range values {
			values[i] = strings.ToLower(v)
		}
	}
	for _, token := range text {
		matched := false
		for _, v := range values {
			if strings.Contains(v, token) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (p *TokenProvider) Name() string {
	return "token"
}
