package session

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/rosterdesk/internal/cache"
	"github.com/cristianoliveira/rosterdesk/internal/domain"
	"github.com/cristianoliveira/rosterdesk/internal/optimistic"
)

type command[R any] = optimistic.Command[*cache.State, R]

// CreateUser shows a placeholder under a temporary id right away and swaps
// it for the server record once the create succeeds.
func (s *Session) CreateUser(ctx context.Context, in domain.UserInput) (domain.ID, *optimistic.Pending) {
	const name = "create user"
	if err := in.Validate(); err != nil {
		return domain.ID{}, optimistic.Resolved(name, err)
	}
	tempID := domain.NewTempID()
	at := s.now()
	p := optimistic.Submit(s.runner, ctx, command[domain.User]{
		Name: name,
		Apply: func(st *cache.State) bool {
			st.Users.Add(in.Placeholder(tempID, at))
			return true
		},
		Execute: func(ctx context.Context) (domain.User, error) {
			return s.repos.Users.CreateUser(ctx, in)
		},
		Commit: func(st *cache.State, u domain.User) {
			st.Users.Replace(tempID, &u)
		},
		Rollback: func(st *cache.State) {
			st.Users.Replace(tempID, nil)
		},
	})
	return tempID, p
}

// UpdateUser writes in over the cached user and sends it to the server.
func (s *Session) UpdateUser(ctx context.Context, id domain.ID, in domain.UserInput) *optimistic.Pending {
	const name = "update user"
	if err := in.Validate(); err != nil {
		return optimistic.Resolved(name, err)
	}
	at := s.now()
	return s.editUser(ctx, name, id,
		func(u domain.User) domain.User { return in.ApplyTo(u, at) },
		func(ctx context.Context) (domain.User, error) { return s.repos.Users.UpdateUser(ctx, id, in) },
	)
}

// DeleteUser soft-deletes a user.
func (s *Session) DeleteUser(ctx context.Context, id domain.ID) *optimistic.Pending {
	at := s.now()
	return s.editUser(ctx, "delete user", id,
		func(u domain.User) domain.User { u.SoftDelete(at); return u },
		func(ctx context.Context) (domain.User, error) { return s.repos.Users.DeleteUser(ctx, id) },
	)
}

// RestoreUser reactivates a soft-deleted user.
func (s *Session) RestoreUser(ctx context.Context, id domain.ID) *optimistic.Pending {
	at := s.now()
	return s.editUser(ctx, "restore user", id,
		func(u domain.User) domain.User { u.Reactivate(at); return u },
		func(ctx context.Context) (domain.User, error) { return s.repos.Users.RestoreUser(ctx, id) },
	)
}

// editUser is the shared shape of every mutation on an existing user: the
// previous record is kept for rollback and the server record replaces the
// optimistic one on success. Unknown ids are a no-op.
func (s *Session) editUser(
	ctx context.Context,
	name string,
	id domain.ID,
	edit func(domain.User) domain.User,
	execute func(context.Context) (domain.User, error),
) *optimistic.Pending {
	if id.IsTemp() {
		return optimistic.Resolved(name, fmt.Errorf("%s %s: %w", name, id, ErrPendingCreate))
	}
	var previous domain.User
	return optimistic.Submit(s.runner, ctx, command[domain.User]{
		Name: name,
		Apply: func(st *cache.State) bool {
			u, ok := st.Users.Get(id)
			if !ok {
				return false
			}
			previous = u
			st.Users.Update(id, edit(u))
			return true
		},
		Execute: execute,
		Commit: func(st *cache.State, u domain.User) {
			if u.ID.IsZero() {
				return
			}
			st.Users.Update(id, u)
		},
		Rollback: func(st *cache.State) {
			st.Users.Update(id, previous)
		},
	})
}

// ToggleStar flips the starred flag of a notification.
func (s *Session) ToggleStar(ctx context.Context, id int64) *optimistic.Pending {
	var before cache.Membership
	return optimistic.Submit(s.runner, ctx, command[domain.Notification]{
		Name: "toggle star",
		Apply: func(st *cache.State) bool {
			before = st.Notifications.Capture(id)
			_, ok := st.Notifications.ToggleStar(id)
			return ok
		},
		Execute: func(ctx context.Context) (domain.Notification, error) {
			return s.repos.Notifications.ToggleNotificationStar(ctx, id)
		},
		Commit: func(st *cache.State, n domain.Notification) {
			if n.ID == id {
				st.Notifications.Reconcile(n)
			}
		},
		Rollback: func(st *cache.State) {
			st.Notifications.Restore(before)
		},
	})
}

// MarkRead marks a notification as read.
func (s *Session) MarkRead(ctx context.Context, id int64) *optimistic.Pending {
	return s.setRead(ctx, id, true)
}

// MarkUnread marks a notification as unread.
func (s *Session) MarkUnread(ctx context.Context, id int64) *optimistic.Pending {
	return s.setRead(ctx, id, false)
}

func (s *Session) setRead(ctx context.Context, id int64, read bool) *optimistic.Pending {
	name := "mark unread"
	if read {
		name = "mark read"
	}
	at := s.now()
	var previous domain.Notification
	return optimistic.Submit(s.runner, ctx, command[struct{}]{
		Name: name,
		Apply: func(st *cache.State) bool {
			n, ok := st.Notifications.Get(id)
			if !ok || n.IsRead == read {
				return false
			}
			previous = n
			return st.Notifications.UpdateFields(id, func(n *domain.Notification) {
				if read {
					n.MarkRead(at)
				} else {
					n.MarkUnread()
				}
			})
		},
		Execute: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.repos.Notifications.MarkNotificationRead(ctx, id, read)
		},
		Rollback: func(st *cache.State) {
			st.Notifications.UpdateFields(id, func(n *domain.Notification) {
				n.IsRead = previous.IsRead
				n.ReadAt = previous.ReadAt
			})
		},
	})
}

// MoveToTrash moves a notification out of from and into the trash.
func (s *Session) MoveToTrash(ctx context.Context, id int64, from domain.Category) *optimistic.Pending {
	return s.moveNotification(ctx, "move to trash", id,
		func(ix *cache.NotificationIndex) bool { return ix.MoveToTrash(id, from) },
		func(ctx context.Context) error { return s.repos.Notifications.TrashNotification(ctx, id) },
	)
}

// RestoreFromTrash moves a trashed notification back to the inbox.
func (s *Session) RestoreFromTrash(ctx context.Context, id int64) *optimistic.Pending {
	return s.moveNotification(ctx, "restore from trash", id,
		func(ix *cache.NotificationIndex) bool { return ix.RestoreFromTrash(id) },
		func(ctx context.Context) error { return s.repos.Notifications.RestoreNotification(ctx, id) },
	)
}

// PermanentDelete removes a trashed notification for good.
func (s *Session) PermanentDelete(ctx context.Context, id int64) *optimistic.Pending {
	return s.moveNotification(ctx, "permanent delete", id,
		func(ix *cache.NotificationIndex) bool { return ix.RemoveFromCategory(id, domain.CategoryTrash) },
		func(ctx context.Context) error { return s.repos.Notifications.PurgeNotification(ctx, id) },
	)
}

// moveNotification runs a bucket-changing mutation and restores the captured
// membership if the server rejects it.
func (s *Session) moveNotification(
	ctx context.Context,
	name string,
	id int64,
	apply func(*cache.NotificationIndex) bool,
	execute func(context.Context) error,
) *optimistic.Pending {
	var before cache.Membership
	return optimistic.Submit(s.runner, ctx, command[struct{}]{
		Name: name,
		Apply: func(st *cache.State) bool {
			before = st.Notifications.Capture(id)
			return apply(st.Notifications)
		},
		Execute: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, execute(ctx)
		},
		Rollback: func(st *cache.State) {
			st.Notifications.Restore(before)
		},
	})
}

// SendNotification sends a draft. Nothing is shown until the server returns
// the stored notification, which then lands at the top of the sent bucket.
func (s *Session) SendNotification(ctx context.Context, draft domain.Draft) *optimistic.Pending {
	const name = "send notification"
	if err := draft.Validate(); err != nil {
		return optimistic.Resolved(name, err)
	}
	return optimistic.Submit(s.runner, ctx, command[domain.Notification]{
		Name:  name,
		Apply: func(*cache.State) bool { return true },
		Execute: func(ctx context.Context) (domain.Notification, error) {
			return s.repos.Notifications.SendNotification(ctx, draft)
		},
		Commit: func(st *cache.State, n domain.Notification) {
			st.Notifications.AddToSent(n)
		},
	})
}
