// Package cache holds the in-memory copies of users, notifications, rosters
// and activity logs, and the state transitions that mutate them.
//
// Nothing in this package performs I/O. Transitions are plain methods; the
// Store serialises them and guards readers.
package cache

import "github.com/cristianoliveira/rosterdesk/internal/domain"

// Collection is an ordered list of entities keyed by id.
// The zero value is an empty collection ready to use.
type Collection[T domain.Entity] struct {
	items []T
}

// Load replaces the whole collection.
func (c *Collection[T]) Load(items []T) {
	c.items = append(make([]T, 0, len(items)), items...)
}

// Add prepends an item.
func (c *Collection[T]) Add(item T) {
	c.items = append([]T{item}, c.items...)
}

// Update replaces the item with the given id. It reports whether the id was
// present; a missing id is a no-op.
func (c *Collection[T]) Update(id domain.ID, item T) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.items[i] = item
	return true
}

// Patch edits the item with the given id in place. Missing ids are a no-op.
func (c *Collection[T]) Patch(id domain.ID, fn func(*T)) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	fn(&c.items[i])
	return true
}

// Remove deletes the item with the given id. Missing ids are a no-op.
func (c *Collection[T]) Remove(id domain.ID) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// Replace resolves an optimistic create. The temp entry is removed and, when
// real is non-nil, the real entity takes its place. If the real id is already
// present (a reload landed first) that entry is overwritten instead, so the
// collection never holds the real id twice. A nil real is a pure rollback.
func (c *Collection[T]) Replace(tempID domain.ID, real *T) {
	pos := c.indexOf(tempID)
	if pos >= 0 {
		c.items = append(c.items[:pos], c.items[pos+1:]...)
	}
	if real == nil {
		return
	}
	if existing := c.indexOf((*real).Key()); existing >= 0 {
		c.items[existing] = *real
		return
	}
	if pos < 0 {
		pos = 0
	}
	c.insertAt(pos, *real)
}

// Get returns the item with the given id.
func (c *Collection[T]) Get(id domain.ID) (T, bool) {
	i := c.indexOf(id)
	if i < 0 {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// Items returns a copy of the collection in order.
func (c *Collection[T]) Items() []T {
	return append(make([]T, 0, len(c.items)), c.items...)
}

// Len returns the number of items.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// Clear empties the collection.
func (c *Collection[T]) Clear() {
	c.items = nil
}

func (c *Collection[T]) indexOf(id domain.ID) int {
	for i := range c.items {
		if c.items[i].Key() == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) insertAt(pos int, item T) {
	if pos > len(c.items) {
		pos = len(c.items)
	}
	c.items = append(c.items, item)
	copy(c.items[pos+1:], c.items[pos:])
	c.items[pos] = item
}
