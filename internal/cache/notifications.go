package cache

import (
	"time"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

// NotificationIndex stores each notification once and tracks bucket
// membership as ordered id lists, so a flag flip is a single write no matter
// how many buckets reference the notification.
//
// Invariants:
//   - an id in trash is in no other bucket
//   - an id appears at most once per bucket
//   - every id in a bucket has an entry in the table, and vice versa
//   - counters change in the same call that changes membership, by the exact
//     number of memberships added or removed, never below zero
type NotificationIndex struct {
	table   map[int64]domain.Notification
	buckets map[domain.Category][]int64
	stats   domain.Stats
	now     func() time.Time
}

// NewNotificationIndex returns an empty index. now stamps trash times and
// defaults to time.Now.
func NewNotificationIndex(now func() time.Time) *NotificationIndex {
	if now == nil {
		now = time.Now
	}
	return &NotificationIndex{
		table:   make(map[int64]domain.Notification),
		buckets: make(map[domain.Category][]int64),
		now:     now,
	}
}

// LoadCategory replaces one bucket with a server page. The counter is set to
// the server total, which may exceed the page size.
//
// Trash keeps exclusivity against pages that raced a local move: a page for
// inbox, starred or sent skips ids currently in trash and counts them out of
// its total, and a trash page pulls its ids out of every other bucket.
func (ix *NotificationIndex) LoadCategory(cat domain.Category, items []domain.Notification, total int) {
	previous := ix.buckets[cat]
	trash := cat == domain.CategoryTrash
	ids := make([]int64, 0, len(items))
	seen := make(map[int64]bool, len(items))
	skipped := 0
	for _, n := range items {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		if !trash && ix.Contains(domain.CategoryTrash, n.ID) {
			skipped++
			continue
		}
		if trash {
			for _, other := range []domain.Category{domain.CategoryInbox, domain.CategoryStarred, domain.CategorySent} {
				if ix.remove(other, n.ID) {
					ix.stats.Add(other, -1)
				}
			}
		}
		ix.table[n.ID] = n
		ids = append(ids, n.ID)
	}
	ix.buckets[cat] = ids
	ix.stats.Set(cat, max(total-skipped, 0))
	for _, id := range previous {
		ix.prune(id)
	}
}

// ToggleStar flips the starred flag of a notification and keeps the starred
// bucket in step with it. Buckets are searched in canonical order and the
// first match decides the current state. It reports the new state, and false
// for ok when the id is not cached.
//
// A trashed notification only has its flag flipped; it never joins starred.
func (ix *NotificationIndex) ToggleStar(id int64) (starred bool, ok bool) {
	n, ok := ix.find(id)
	if !ok {
		return false, false
	}
	n.IsStarred = !n.IsStarred
	ix.table[id] = n

	if n.IsStarred {
		if !ix.Contains(domain.CategoryTrash, id) && ix.prepend(domain.CategoryStarred, id) {
			ix.stats.Add(domain.CategoryStarred, 1)
		}
	} else if ix.remove(domain.CategoryStarred, id) {
		ix.stats.Add(domain.CategoryStarred, -1)
	}
	return n.IsStarred, true
}

// MoveToTrash moves a notification found in from into trash. It leaves inbox,
// starred and sent together, and each of those counters drops by one only if
// the notification was actually there. Missing ids, and from == trash, are
// no-ops.
func (ix *NotificationIndex) MoveToTrash(id int64, from domain.Category) bool {
	if from == domain.CategoryTrash || !ix.Contains(from, id) {
		return false
	}
	for _, cat := range []domain.Category{domain.CategoryInbox, domain.CategoryStarred, domain.CategorySent} {
		if ix.remove(cat, id) {
			ix.stats.Add(cat, -1)
		}
	}
	n := ix.table[id]
	n.Trash(ix.now())
	ix.table[id] = n
	if ix.prepend(domain.CategoryTrash, id) {
		ix.stats.Add(domain.CategoryTrash, 1)
	}
	return true
}

// RestoreFromTrash takes a notification out of trash and puts it back at the
// head of inbox, and of starred when it is still flagged starred. Ids not in
// trash are a no-op.
func (ix *NotificationIndex) RestoreFromTrash(id int64) bool {
	if !ix.remove(domain.CategoryTrash, id) {
		return false
	}
	ix.stats.Add(domain.CategoryTrash, -1)

	n := ix.table[id]
	n.Untrash()
	ix.table[id] = n
	if ix.prepend(domain.CategoryInbox, id) {
		ix.stats.Add(domain.CategoryInbox, 1)
	}
	if n.IsStarred && ix.prepend(domain.CategoryStarred, id) {
		ix.stats.Add(domain.CategoryStarred, 1)
	}
	return true
}

// AddToSent records a sent notification at the head of sent. No other
// bucket is touched.
func (ix *NotificationIndex) AddToSent(n domain.Notification) {
	ix.table[n.ID] = n
	if ix.prepend(domain.CategorySent, n.ID) {
		ix.stats.Add(domain.CategorySent, 1)
	}
}

// RemoveFromCategory drops a notification from exactly one bucket.
func (ix *NotificationIndex) RemoveFromCategory(id int64, cat domain.Category) bool {
	if !ix.remove(cat, id) {
		return false
	}
	ix.stats.Add(cat, -1)
	ix.prune(id)
	return true
}

// UpdateFields edits the cached notification in place. Membership and
// counters are untouched, so fn must not be used to flip IsStarred.
func (ix *NotificationIndex) UpdateFields(id int64, fn func(*domain.Notification)) bool {
	n, ok := ix.table[id]
	if !ok {
		return false
	}
	fn(&n)
	n.ID = id
	ix.table[id] = n
	return true
}

// Reconcile overwrites a cached notification with the server copy and
// aligns starred membership with the server flag. Uncached ids are ignored.
func (ix *NotificationIndex) Reconcile(n domain.Notification) bool {
	if _, ok := ix.table[n.ID]; !ok {
		return false
	}
	ix.table[n.ID] = n
	switch {
	case n.IsStarred && !ix.Contains(domain.CategoryTrash, n.ID):
		if ix.prepend(domain.CategoryStarred, n.ID) {
			ix.stats.Add(domain.CategoryStarred, 1)
		}
	case !n.IsStarred:
		if ix.remove(domain.CategoryStarred, n.ID) {
			ix.stats.Add(domain.CategoryStarred, -1)
		}
	}
	return true
}

// Get returns the cached notification.
func (ix *NotificationIndex) Get(id int64) (domain.Notification, bool) {
	n, ok := ix.table[id]
	return n, ok
}

// Contains reports whether a bucket references the id.
func (ix *NotificationIndex) Contains(cat domain.Category, id int64) bool {
	return indexOf(ix.buckets[cat], id) >= 0
}

// Bucket returns copies of the notifications in a bucket, in order.
func (ix *NotificationIndex) Bucket(cat domain.Category) []domain.Notification {
	ids := ix.buckets[cat]
	out := make([]domain.Notification, 0, len(ids))
	for _, id := range ids {
		out = append(out, ix.table[id])
	}
	return out
}

// Len returns the number of notifications cached in a bucket.
func (ix *NotificationIndex) Len(cat domain.Category) int {
	return len(ix.buckets[cat])
}

// Stats returns the bucket counters.
func (ix *NotificationIndex) Stats() domain.Stats {
	return ix.stats
}

// Clear empties every bucket and zeroes the counters.
func (ix *NotificationIndex) Clear() {
	ix.table = make(map[int64]domain.Notification)
	ix.buckets = make(map[domain.Category][]int64)
	ix.stats = domain.Stats{}
}

// Membership is a point-in-time record of one notification: its cached value
// and its position in every bucket (-1 when absent).
type Membership struct {
	ID        int64
	Entity    domain.Notification
	Known     bool
	Positions map[domain.Category]int
}

// Capture records the current membership of id so it can be restored.
func (ix *NotificationIndex) Capture(id int64) Membership {
	n, known := ix.table[id]
	m := Membership{ID: id, Entity: n, Known: known, Positions: make(map[domain.Category]int, 4)}
	for _, cat := range domain.Categories() {
		m.Positions[cat] = indexOf(ix.buckets[cat], id)
	}
	return m
}

// Restore puts a notification back exactly as captured: same value, same
// buckets, same positions where the buckets still allow it. Counters move by
// the membership difference.
func (ix *NotificationIndex) Restore(m Membership) {
	if m.Known {
		ix.table[m.ID] = m.Entity
	}
	for _, cat := range domain.Categories() {
		want := m.Known && m.Positions[cat] >= 0
		had := ix.remove(cat, m.ID)
		switch {
		case want:
			ix.insertAt(cat, m.Positions[cat], m.ID)
			if !had {
				ix.stats.Add(cat, 1)
			}
		case had:
			ix.stats.Add(cat, -1)
		}
	}
	ix.prune(m.ID)
}

// find resolves an id by scanning buckets in canonical order.
func (ix *NotificationIndex) find(id int64) (domain.Notification, bool) {
	for _, cat := range domain.Categories() {
		if ix.Contains(cat, id) {
			return ix.table[id], true
		}
	}
	return domain.Notification{}, false
}

func (ix *NotificationIndex) prepend(cat domain.Category, id int64) bool {
	if ix.Contains(cat, id) {
		return false
	}
	ix.buckets[cat] = append([]int64{id}, ix.buckets[cat]...)
	return true
}

func (ix *NotificationIndex) insertAt(cat domain.Category, pos int, id int64) {
	ids := ix.buckets[cat]
	if pos > len(ids) {
		pos = len(ids)
	}
	ids = append(ids, 0)
	copy(ids[pos+1:], ids[pos:])
	ids[pos] = id
	ix.buckets[cat] = ids
}

func (ix *NotificationIndex) remove(cat domain.Category, id int64) bool {
	ids := ix.buckets[cat]
	i := indexOf(ids, id)
	if i < 0 {
		return false
	}
	ix.buckets[cat] = append(ids[:i:i], ids[i+1:]...)
	return true
}

// prune drops a table entry no bucket references any more.
func (ix *NotificationIndex) prune(id int64) {
	for _, cat := range domain.Categories() {
		if ix.Contains(cat, id) {
			return
		}
	}
	delete(ix.table, id)
}

func indexOf(ids []int64, id int64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
