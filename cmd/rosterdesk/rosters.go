package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/rosterdesk/internal/config"
)

// NewRostersCmd creates the rosters command group.
func NewRostersCmd(conn connector) *cobra.Command {
	if conn == nil {
		panic("NewRostersCmd: connector dependency cannot be nil")
	}

	var outputFormat string
	list := &cobra.Command{
		Use:   "list",
		Short: "List roster periods, newest first",
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
			return f.Rosters(cmd.OutOrStdout(), s.Rosters())
		},
	}
	addFormatFlag(list, &outputFormat)

	cmd := &cobra.Command{
		Use:   "rosters",
		Short: "Roster periods",
	}
	cmd.AddCommand(list)
	return cmd
}

// NewActivityCmd creates the activity command.
func NewActivityCmd(conn connector) *cobra.Command {
	if conn == nil {
		panic("NewActivityCmd: connector dependency cannot be nil")
	}

	var outputFormat string
	var limit int
	var stats bool
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := formatterFor(outputFormat)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("limit") {
				config.Set("recent_activity_limit", strconv.Itoa(limit))
			}
			s, err := conn.Connect(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if stats {
				return f.ActivityStats(out, s.ActivityStats())
			}
			logs := s.Activities()
			if limit > 0 && len(logs) > limit {
				logs = logs[:limit]
			}
			return f.Activities(out, logs)
		},
	}
	addFormatFlag(cmd, &outputFormat)
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of entries to show (default recent_activity_limit)")
	cmd.Flags().BoolVar(&stats, "stats", false, "Show activity statistics instead")
	return cmd
}
