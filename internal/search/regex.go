package search

import (
	"regexp"
	"sync"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

// RegexProvider matches when any field matches the query as a regular
// expression. Compiled patterns are cached.
type RegexProvider struct {
	opts    Options
	cache   map[string]*regexp.Regexp
	cacheMu sync.RWMutex
}

// NewRegexProvider creates a regex provider.
func NewRegexProvider(opts ...Option) Provider {
	return &RegexProvider{
		opts:  applyOptions(opts),
		cache: make(map[string]*regexp.Regexp),
	}
}

// Match returns false for every notification when query does not compile;
// use Compile to surface the error.
func (p *RegexProvider) Match(n domain.Notification, query string) bool {
	if query == "" {
		return true
	}
	re, err := p.Compile(query)
	if err != nil {
		return false
	}
	for _, v := range p.opts.fieldValues(n) {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}

// Compile returns the cached expression for pattern.
func (p *RegexProvider) Compile(pattern string) (*regexp.Regexp, error) {
	p.cacheMu.RLock()
	re, ok := p.cache[pattern]
	p.cacheMu.RUnlock()
	if ok {
		return re, nil
	}

	expr := pattern
	if p.opts.CaseInsensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	p.cacheMu.Lock()
	p.cache[pattern] = re
	p.cacheMu.Unlock()
	return re, nil
}

func (p *RegexProvider) Name() string {
	return "regex"
}
