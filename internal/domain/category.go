package domain

import (
	"fmt"
	"strings"
)

// Category names one of the four notification buckets.
type Category string

const (
	CategoryInbox   Category = "inbox"
	CategoryStarred Category = "starred"
	CategorySent    Category = "sent"
	CategoryTrash   Category = "trash"
)

// Categories returns every bucket in canonical order. The order is also the
// search order used when resolving a notification by id.
func Categories() []Category {
	return []Category{CategoryInbox, CategoryStarred, CategorySent, CategoryTrash}
}

// IsValid checks if the category is one of the four buckets.
func (c Category) IsValid() bool {
	switch c {
	case CategoryInbox, CategoryStarred, CategorySent, CategoryTrash:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// ParseCategory parses a string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidCategory, s)
	}
	return c, nil
}

// Stats holds one counter per bucket.
type Stats struct {
	Inbox   int `json:"inbox"`
	Starred int `json:"starred"`
	Sent    int `json:"sent"`
	Trash   int `json:"trash"`
}

// Get returns the counter for a category.
func (s Stats) Get(c Category) int {
	switch c {
	case CategoryInbox:
		return s.Inbox
	case CategoryStarred:
		return s.Starred
	case CategorySent:
		return s.Sent
	case CategoryTrash:
		return s.Trash
	default:
		return 0
	}
}

// Set overwrites the counter for a category. Negative values become zero.
func (s *Stats) Set(c Category, n int) {
	if n < 0 {
		n = 0
	}
	switch c {
	case CategoryInbox:
		s.Inbox = n
	case CategoryStarred:
		s.Starred = n
	case CategorySent:
		s.Sent = n
	case CategoryTrash:
		s.Trash = n
	}
}

// Add adjusts the counter for a category by delta, floored at zero.
func (s *Stats) Add(c Category, delta int) {
	s.Set(c, s.Get(c)+delta)
}

// Total returns the sum of all counters.
func (s Stats) Total() int {
	return s.Inbox + s.Starred + s.Sent + s.Trash
}
