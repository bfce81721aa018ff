package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/rosterdesk/internal/colors"
	"github.com/cristianoliveira/rosterdesk/internal/domain"
	"github.com/cristianoliveira/rosterdesk/internal/optimistic"
	"github.com/cristianoliveira/rosterdesk/internal/search"
	"github.com/cristianoliveira/rosterdesk/internal/session"
)

// NewNotificationsCmd creates the notifications command group.
func NewNotificationsCmd(conn connector) *cobra.Command {
	if conn == nil {
		panic("NewNotificationsCmd: connector dependency cannot be nil")
	}
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"n"},
		Short:   "Read and manage notifications",
	}
	cmd.AddCommand(
		newNotificationsListCmd(conn),
		newNotificationsStatsCmd(conn),
		newNotificationActionCmd(conn, "star", "Toggle the star on a notification", (*session.Session).ToggleStar),
		newNotificationActionCmd(conn, "read", "Mark a notification read", (*session.Session).MarkRead),
		newNotificationActionCmd(conn, "unread", "Mark a notification unread", (*session.Session).MarkUnread),
		newNotificationsTrashCmd(conn),
		newNotificationActionCmd(conn, "restore", "Take a notification out of the trash", (*session.Session).RestoreFromTrash),
		newNotificationActionCmd(conn, "purge", "Delete a trashed notification for good", (*session.Session).PermanentDelete),
		newNotificationsSendCmd(conn),
	)
	return cmd
}

func newNotificationsListCmd(conn connector) *cobra.Command {
	var outputFormat string
	var query, mode string
	cmd := &cobra.Command{
		Use:       "list [inbox|starred|sent|trash]",
		Short:     "List one notification category",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"inbox", "starred", "sent", "trash"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := domain.CategoryInbox
			if len(args) == 1 {
				parsed, err := domain.ParseCategory(args[0])
				if err != nil {
					return err
				}
				cat = parsed
			}
			f, err := formatterFor(outputFormat)
			if err != nil {
				return err
			}
			s, err := conn.Connect(cmd.Context())
			if err != nil {
				return err
			}
			items, err := searchNotifications(s, cat, query, mode)
			if err != nil {
				return err
			}
			return f.Notifications(cmd.OutOrStdout(), items)
		},
	}
	addFormatFlag(cmd, &outputFormat)
	cmd.Flags().StringVar(&query, "search", "", "Only show notifications matching this query")
	cmd.Flags().StringVar(&mode, "mode", "substring", "Search mode: substring, regex or token")
	return cmd
}

// searchNotifications returns the bucket filtered by query. Senders can be
// matched by name.
func searchNotifications(s *session.Session, cat domain.Category, query, mode string) ([]domain.Notification, error) {
	provider, err := search.New(mode,
		search.WithFields(search.FieldTitle, search.FieldMessage, search.FieldType, search.FieldSender),
		search.WithSenderNames(search.SenderNamesFrom(s.Users())),
	)
	if err != nil {
		return nil, err
	}
	if rp, ok := provider.(*search.RegexProvider); ok && query != "" {
		if _, err := rp.Compile(query); err != nil {
			return nil, fmt.Errorf("invalid search pattern: %w", err)
		}
	}
	return search.Filter(s.Notifications(cat), query, provider), nil
}

func newNotificationsStatsCmd(conn connector) *cobra.Command {
	var outputFormat string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the per-category counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := formatterFor(outputFormat)
			if err != nil {
				return err
			}
			s, err := conn.Connect(cmd.Context())
			if err != nil {
				return err
			}
			return f.Stats(cmd.OutOrStdout(), s.Stats())
		},
	}
	addFormatFlag(cmd, &outputFormat)
	return cmd
}

func parseNotificationID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidID, raw)
	}
	return id, nil
}

// cachedNotification loads the session and checks id is known. Mutations
// on unknown ids are silent no-ops in the session, so the CLI reports them
// here instead.
func cachedNotification(ctx context.Context, conn connector, raw string) (*session.Session, int64, error) {
	id, err := parseNotificationID(raw)
	if err != nil {
		return nil, 0, err
	}
	s, err := conn.Connect(ctx)
	if err != nil {
		return nil, 0, err
	}
	if _, ok := s.Notification(id); !ok {
		return nil, 0, fmt.Errorf("notification %d: %w", id, domain.ErrNotFound)
	}
	return s, id, nil
}

type notificationAction func(s *session.Session, ctx context.Context, id int64) *optimistic.Pending

func newNotificationActionCmd(conn connector, use, short string, action notificationAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, id, err := cachedNotification(cmd.Context(), conn, args[0])
			if err != nil {
				return err
			}
			applied, err := waitApplied(cmd.Context(), action(s, cmd.Context(), id))
			if err != nil {
				return fmt.Errorf("%s notification %d: %w", use, id, err)
			}
			if !applied {
				colors.Warning(fmt.Sprintf("Notification %d: nothing to do", id))
				return nil
			}
			colors.Success(fmt.Sprintf("Notification %d: %s done", id, use))
			return nil
		},
	}
}

// sourceCategory picks the bucket a notification is trashed from: the
// first of inbox, sent and starred that holds it.
func sourceCategory(s *session.Session, id int64) (domain.Category, bool) {
	for _, cat := range []domain.Category{domain.CategoryInbox, domain.CategorySent, domain.CategoryStarred} {
		if slices.ContainsFunc(s.Notifications(cat), func(n domain.Notification) bool { return n.ID == id }) {
			return cat, true
		}
	}
	return "", false
}

func newNotificationsTrashCmd(conn connector) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "trash <id>",
		Short: "Move a notification to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, id, err := cachedNotification(cmd.Context(), conn, args[0])
			if err != nil {
				return err
			}
			var cat domain.Category
			if from != "" {
				if cat, err = domain.ParseCategory(from); err != nil {
					return err
				}
			} else {
				var ok bool
				if cat, ok = sourceCategory(s, id); !ok {
					return fmt.Errorf("notification %d is already in the trash", id)
				}
			}
			applied, err := waitApplied(cmd.Context(), s.MoveToTrash(cmd.Context(), id, cat))
			if err != nil {
				return fmt.Errorf("trash notification %d: %w", id, err)
			}
			if !applied {
				colors.Warning(fmt.Sprintf("Notification %d is not in %s: nothing to do", id, cat))
				return nil
			}
			colors.Success(fmt.Sprintf("Notification %d moved to trash", id))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Category to trash from (default: where the notification is)")
	return cmd
}

func newNotificationsSendCmd(conn connector) *cobra.Command {
	var draft domain.Draft
	var kind string
	cmd := &cobra.Command{
		Use:   "send --to <user-id> --message <text> [--title <title>]",
		Short: "Send a notification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if kind != "" {
				draft.Type = domain.NotificationType(kind)
			}
			if err := draft.Validate(); err != nil {
				return err
			}
			s, err := conn.Connect(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.SendNotification(cmd.Context(), draft).Wait(cmd.Context()); err != nil {
				return fmt.Errorf("send notification: %w", err)
			}
			colors.Success(fmt.Sprintf("Notification sent to user %d", draft.RecipientID))
			return nil
		},
	}
	cmd.Flags().Int64Var(&draft.RecipientID, "to", 0, "Recipient user id")
	cmd.Flags().StringVar(&draft.Title, "title", "", "Title")
	cmd.Flags().StringVar(&draft.Message, "message", "", "Message body")
	cmd.Flags().StringVar(&kind, "type", "", "Notification type (default general)")
	return cmd
}
