package main

import (
	"github.com/spf13/cobra"

	"github.com/cristianoliveira/rosterdesk/internal/colors"
	"github.com/cristianoliveira/rosterdesk/internal/config"
	"github.com/cristianoliveira/rosterdesk/internal/logging"
	"github.com/cristianoliveira/rosterdesk/internal/version"
)

// prepare loads configuration, applies the persistent flags and starts
// logging. Tests replace it.
var prepare = func(cmd *cobra.Command) error {
	config.Load()
	for flag, key := range map[string]string{"backend": "backend", "api-url": "api_url", "db": "db_path"} {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			config.Set(key, f.Value.String())
		}
	}
	colors.SetDebug(config.GetBool("debug", false))
	return logging.InitGlobal()
}

// NewRootCmd builds the command tree around conn.
func NewRootCmd(conn connector) *cobra.Command {
	if conn == nil {
		panic("NewRootCmd: connector dependency cannot be nil")
	}

	root := &cobra.Command{
		Use:   "rosterdesk",
		Short: "Roster administration from the terminal",
		Long: `rosterdesk drives the roster administration cache against a remote API
or a local SQLite database.

Configuration is read from {config_dir}/config.toml, a .env file and
ROSTERDESK_* environment variables. The flags below override them.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return prepare(cmd)
		},
	}
	root.CompletionOptions.HiddenDefaultCmd = true

	pf := root.PersistentFlags()
	pf.String("backend", "", "Backend to use: http or sqlite")
	pf.String("api-url", "", "Base URL of the roster API")
	pf.String("db", "", "Path of the SQLite database")

	root.AddCommand(
		NewServeCmd(sqliteOpener{}),
		NewSeedCmd(sqliteOpener{}),
		NewSyncCmd(conn),
		NewUsersCmd(conn),
		NewNotificationsCmd(conn),
		NewRostersCmd(conn),
		NewActivityCmd(conn),
		NewVersionCmd(),
	)
	return root
}
