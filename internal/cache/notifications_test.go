package cache

import (
	"testing"
	"time"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var trashTime = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func notif(id int64) domain.Notification {
	return domain.Notification{ID: id, Title: "n", Message: "message", Type: domain.TypeGeneral, RecipientID: 1}
}

func newIndex() *NotificationIndex {
	return NewNotificationIndex(func() time.Time { return trashTime })
}

// inboxWithTwo is the starting point used throughout: inbox=[N1,N2],
// starred=[], stats={inbox:2}.
func inboxWithTwo() *NotificationIndex {
	ix := newIndex()
	ix.LoadCategory(domain.CategoryInbox, []domain.Notification{notif(1), notif(2)}, 2)
	ix.LoadCategory(domain.CategoryStarred, nil, 0)
	ix.LoadCategory(domain.CategorySent, nil, 0)
	ix.LoadCategory(domain.CategoryTrash, nil, 0)
	return ix
}

func ids(ns []domain.Notification) []int64 {
	out := make([]int64, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.ID)
	}
	return out
}

func requireConsistent(t *testing.T, ix *NotificationIndex) {
	t.Helper()
	stats := ix.Stats()
	for _, cat := range domain.Categories() {
		require.Equal(t, ix.Len(cat), stats.Get(cat), "counter for %s", cat)
	}
	for _, n := range ix.Bucket(domain.CategoryTrash) {
		for _, cat := range []domain.Category{domain.CategoryInbox, domain.CategoryStarred, domain.CategorySent} {
			require.False(t, ix.Contains(cat, n.ID), "trashed %d also in %s", n.ID, cat)
		}
	}
}

func TestLoadCategoryUsesServerTotal(t *testing.T) {
	ix := newIndex()
	ix.LoadCategory(domain.CategoryInbox, []domain.Notification{notif(1), notif(2), notif(2)}, 40)

	assert.Equal(t, []int64{1, 2}, ids(ix.Bucket(domain.CategoryInbox)))
	assert.Equal(t, 40, ix.Stats().Inbox)
}

func TestLoadCategoryPrunesDroppedEntities(t *testing.T) {
	ix := inboxWithTwo()
	ix.LoadCategory(domain.CategoryInbox, []domain.Notification{notif(2)}, 1)

	_, ok := ix.Get(1)
	assert.False(t, ok)
	_, ok = ix.Get(2)
	assert.True(t, ok)
}

func TestLoadCategoryLatePageSkipsTrashed(t *testing.T) {
	ix := inboxWithTwo()
	require.True(t, ix.MoveToTrash(1, domain.CategoryInbox))

	// inbox page fetched before the move lands after it
	ix.LoadCategory(domain.CategoryInbox, []domain.Notification{notif(1), notif(2)}, 2)

	assert.Equal(t, []int64{2}, ids(ix.Bucket(domain.CategoryInbox)))
	assert.Equal(t, []int64{1}, ids(ix.Bucket(domain.CategoryTrash)))
	n, ok := ix.Get(1)
	require.True(t, ok)
	assert.True(t, n.IsTrashed(), "trashed copy is kept")
	assert.Equal(t, domain.Stats{Inbox: 1, Trash: 1}, ix.Stats())
	requireConsistent(t, ix)
}

func TestLoadCategoryTrashPageEvictsOtherBuckets(t *testing.T) {
	ix := inboxWithTwo()
	_, ok := ix.ToggleStar(1)
	require.True(t, ok)
	ix.AddToSent(notif(1))

	ix.LoadCategory(domain.CategoryTrash, []domain.Notification{notif(1)}, 1)

	assert.Equal(t, []int64{2}, ids(ix.Bucket(domain.CategoryInbox)))
	assert.Empty(t, ix.Bucket(domain.CategoryStarred))
	assert.Empty(t, ix.Bucket(domain.CategorySent))
	assert.Equal(t, domain.Stats{Inbox: 1, Trash: 1}, ix.Stats())
	requireConsistent(t, ix)
}

func TestToggleStarScenario(t *testing.T) {
	ix := inboxWithTwo()

	starred, ok := ix.ToggleStar(1)
	require.True(t, ok)
	assert.True(t, starred)

	assert.Equal(t, []int64{1}, ids(ix.Bucket(domain.CategoryStarred)))
	assert.True(t, ix.Bucket(domain.CategoryStarred)[0].IsStarred)
	inbox := ix.Bucket(domain.CategoryInbox)
	assert.Equal(t, []int64{1, 2}, ids(inbox))
	assert.True(t, inbox[0].IsStarred, "inbox copy must be flagged too")
	assert.Equal(t, 1, ix.Stats().Starred)
	assert.Equal(t, 2, ix.Stats().Inbox)
	requireConsistent(t, ix)
}

func TestToggleStarRoundTrip(t *testing.T) {
	ix := inboxWithTwo()
	before := ix.Capture(1)
	beforeStats := ix.Stats()

	ix.ToggleStar(1)
	ix.ToggleStar(1)

	assert.Equal(t, before, ix.Capture(1))
	assert.Equal(t, beforeStats, ix.Stats())
	assert.Empty(t, ix.Bucket(domain.CategoryStarred))
}

func TestToggleStarCountsOnceAcrossBuckets(t *testing.T) {
	ix := inboxWithTwo()
	ix.AddToSent(notif(1))

	ix.ToggleStar(1)
	assert.Equal(t, 1, ix.Stats().Starred)
	for _, cat := range []domain.Category{domain.CategoryInbox, domain.CategorySent, domain.CategoryStarred} {
		for _, n := range ix.Bucket(cat) {
			if n.ID == 1 {
				assert.True(t, n.IsStarred, "copy in %s", cat)
			}
		}
	}
	requireConsistent(t, ix)
}

func TestToggleStarMissingIDIsNoop(t *testing.T) {
	ix := inboxWithTwo()
	beforeStats := ix.Stats()
	beforeInbox := ix.Bucket(domain.CategoryInbox)

	_, ok := ix.ToggleStar(99)

	assert.False(t, ok)
	assert.Equal(t, beforeStats, ix.Stats())
	assert.Equal(t, beforeInbox, ix.Bucket(domain.CategoryInbox))
	assert.Empty(t, ix.Bucket(domain.CategoryStarred))
}

func TestToggleStarInTrashKeepsExclusivity(t *testing.T) {
	ix := inboxWithTwo()
	require.True(t, ix.MoveToTrash(1, domain.CategoryInbox))

	starred, ok := ix.ToggleStar(1)
	require.True(t, ok)
	assert.True(t, starred)
	assert.False(t, ix.Contains(domain.CategoryStarred, 1))
	requireConsistent(t, ix)
}

func TestMoveToTrashStarredInboxItem(t *testing.T) {
	ix := inboxWithTwo()
	ix.ToggleStar(1)

	require.True(t, ix.MoveToTrash(1, domain.CategoryInbox))

	assert.Equal(t, []int64{2}, ids(ix.Bucket(domain.CategoryInbox)))
	assert.Empty(t, ix.Bucket(domain.CategoryStarred))
	trash := ix.Bucket(domain.CategoryTrash)
	require.Equal(t, []int64{1}, ids(trash))
	require.NotNil(t, trash[0].DeletedAt)
	assert.Equal(t, trashTime, *trash[0].DeletedAt)

	stats := ix.Stats()
	assert.Equal(t, 1, stats.Trash)
	assert.Equal(t, 1, stats.Inbox)
	assert.Equal(t, 0, stats.Starred, "starred counter follows the starred bucket")
	requireConsistent(t, ix)
}

func TestMoveToTrashFromStarredLeavesInboxToo(t *testing.T) {
	ix := inboxWithTwo()
	ix.ToggleStar(2)

	require.True(t, ix.MoveToTrash(2, domain.CategoryStarred))

	assert.False(t, ix.Contains(domain.CategoryInbox, 2))
	assert.False(t, ix.Contains(domain.CategoryStarred, 2))
	assert.True(t, ix.Contains(domain.CategoryTrash, 2))
	requireConsistent(t, ix)
}

func TestMoveToTrashMissingIsNoop(t *testing.T) {
	ix := inboxWithTwo()
	before := ix.Stats()

	assert.False(t, ix.MoveToTrash(99, domain.CategoryInbox))
	assert.False(t, ix.MoveToTrash(1, domain.CategorySent), "not in the named bucket")
	assert.False(t, ix.MoveToTrash(1, domain.CategoryTrash))

	assert.Equal(t, before, ix.Stats())
	assert.Empty(t, ix.Bucket(domain.CategoryTrash))
}

func TestRestoreFromTrash(t *testing.T) {
	ix := inboxWithTwo()
	ix.ToggleStar(1)
	ix.MoveToTrash(1, domain.CategoryInbox)

	require.True(t, ix.RestoreFromTrash(1))

	inbox := ix.Bucket(domain.CategoryInbox)
	assert.Equal(t, []int64{1, 2}, ids(inbox))
	assert.Nil(t, inbox[0].DeletedAt)
	assert.True(t, ix.Contains(domain.CategoryStarred, 1), "still starred, so back in starred")
	assert.Empty(t, ix.Bucket(domain.CategoryTrash))
	requireConsistent(t, ix)

	assert.False(t, ix.RestoreFromTrash(1), "no longer in trash")
}

func TestAddToSentTouchesOnlySent(t *testing.T) {
	ix := inboxWithTwo()
	sent := notif(10)
	sent.SenderID = 1

	ix.AddToSent(sent)
	ix.AddToSent(sent)

	assert.Equal(t, []int64{10}, ids(ix.Bucket(domain.CategorySent)))
	assert.Equal(t, 1, ix.Stats().Sent)
	assert.Equal(t, 2, ix.Stats().Inbox)
	requireConsistent(t, ix)
}

func TestRemoveFromCategoryPermanentDelete(t *testing.T) {
	ix := inboxWithTwo()
	ix.MoveToTrash(1, domain.CategoryInbox)

	require.True(t, ix.RemoveFromCategory(1, domain.CategoryTrash))

	assert.Empty(t, ix.Bucket(domain.CategoryTrash))
	assert.Equal(t, 0, ix.Stats().Trash)
	_, ok := ix.Get(1)
	assert.False(t, ok, "entity dropped once unreferenced")
	assert.False(t, ix.RemoveFromCategory(1, domain.CategoryTrash))
	requireConsistent(t, ix)
}

func TestRemoveFromCategoryFloorsCounter(t *testing.T) {
	ix := newIndex()
	ix.LoadCategory(domain.CategoryTrash, []domain.Notification{notif(1)}, 0)

	ix.RemoveFromCategory(1, domain.CategoryTrash)

	assert.Equal(t, 0, ix.Stats().Trash)
}

func TestUpdateFieldsAppliesOnceForAllBuckets(t *testing.T) {
	ix := inboxWithTwo()
	ix.ToggleStar(1)
	before := ix.Stats()

	require.True(t, ix.UpdateFields(1, func(n *domain.Notification) { n.MarkRead(trashTime) }))

	assert.True(t, ix.Bucket(domain.CategoryInbox)[0].IsRead)
	assert.True(t, ix.Bucket(domain.CategoryStarred)[0].IsRead)
	assert.Equal(t, before, ix.Stats())
	assert.False(t, ix.UpdateFields(99, func(n *domain.Notification) { n.IsRead = true }))
}

func TestReconcileAlignsStarredMembership(t *testing.T) {
	ix := inboxWithTwo()
	ix.ToggleStar(1)

	server, _ := ix.Get(1)
	server.IsStarred = false
	server.Title = "from server"
	require.True(t, ix.Reconcile(server))

	assert.False(t, ix.Contains(domain.CategoryStarred, 1))
	got, _ := ix.Get(1)
	assert.Equal(t, "from server", got.Title)
	requireConsistent(t, ix)

	assert.False(t, ix.Reconcile(notif(99)))
}

func TestCaptureRestoreUndoesTrash(t *testing.T) {
	ix := inboxWithTwo()
	ix.ToggleStar(2)
	snapshot := ix.Capture(2)
	stats := ix.Stats()

	ix.MoveToTrash(2, domain.CategoryInbox)
	ix.Restore(snapshot)

	assert.Equal(t, []int64{1, 2}, ids(ix.Bucket(domain.CategoryInbox)), "position restored")
	assert.Equal(t, []int64{2}, ids(ix.Bucket(domain.CategoryStarred)))
	assert.Empty(t, ix.Bucket(domain.CategoryTrash))
	assert.Equal(t, stats, ix.Stats())
	got, _ := ix.Get(2)
	assert.Nil(t, got.DeletedAt)
}

func TestCaptureRestoreUndoesPermanentDelete(t *testing.T) {
	ix := inboxWithTwo()
	ix.MoveToTrash(1, domain.CategoryInbox)
	snapshot := ix.Capture(1)

	ix.RemoveFromCategory(1, domain.CategoryTrash)
	ix.Restore(snapshot)

	assert.Equal(t, []int64{1}, ids(ix.Bucket(domain.CategoryTrash)))
	requireConsistent(t, ix)
}

func TestRestoreOfUnknownRemovesEverywhere(t *testing.T) {
	ix := inboxWithTwo()
	snapshot := ix.Capture(10)

	ix.AddToSent(notif(10))
	ix.Restore(snapshot)

	assert.Empty(t, ix.Bucket(domain.CategorySent))
	_, ok := ix.Get(10)
	assert.False(t, ok)
	requireConsistent(t, ix)
}

func TestStatsConsistentAfterOperationSequence(t *testing.T) {
	ix := inboxWithTwo()
	ix.LoadCategory(domain.CategorySent, []domain.Notification{notif(3)}, 1)

	ix.ToggleStar(1)
	ix.ToggleStar(3)
	ix.MoveToTrash(3, domain.CategorySent)
	ix.MoveToTrash(1, domain.CategoryStarred)
	ix.RestoreFromTrash(3)
	ix.ToggleStar(2)
	ix.ToggleStar(99)
	ix.AddToSent(notif(4))
	ix.RemoveFromCategory(1, domain.CategoryTrash)
	ix.UpdateFields(2, func(n *domain.Notification) { n.IsRead = true })

	requireConsistent(t, ix)
}

func TestClear(t *testing.T) {
	ix := inboxWithTwo()
	ix.ToggleStar(1)
	ix.Clear()

	for _, cat := range domain.Categories() {
		assert.Empty(t, ix.Bucket(cat))
	}
	assert.Equal(t, domain.Stats{}, ix.Stats())
}
