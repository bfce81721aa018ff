package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/rosterdesk/internal/colors"
	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

// timeNow is replaced in tests.
var timeNow = time.Now

// NewSyncCmd creates the sync command.
func NewSyncCmd(conn connector) *cobra.Command {
	if conn == nil {
		panic("NewSyncCmd: connector dependency cannot be nil")
	}

	var outputFormat string
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Load every domain and print a summary",
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
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "users %d  rosters %d  activities %d\n",
				len(s.Users()), len(s.Rosters()), len(s.Activities())); err != nil {
				return err
			}
			if err := f.Stats(out, s.Stats()); err != nil {
				return err
			}
			if err := f.ActivityStats(out, s.ActivityStats()); err != nil {
				return err
			}
			if roster, ok := domain.CurrentRoster(s.Rosters(), timeNow()); ok {
				if _, err := fmt.Fprintf(out, "current roster: %s (%s, %d shifts)\n", roster.Name, roster.Status, roster.ShiftCount); err != nil {
					return err
				}
			}
			colors.Success("Synced")
			return nil
		},
	}
	addFormatFlag(cmd, &outputFormat)
	return cmd
}
