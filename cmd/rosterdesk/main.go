package main

import (
	"os"

	"github.com/cristianoliveira/rosterdesk/internal/colors"
	"github.com/cristianoliveira/rosterdesk/internal/logging"
)

func main() {
	conn := newConfigConnector()
	err := NewRootCmd(conn).Execute()
	if closeErr := conn.Close(); closeErr != nil {
		logging.Warn("close backend", "error", closeErr)
	}
	if err != nil {
		colors.Error(err.Error())
		logging.Error("command failed", "error", err)
	}
	_ = logging.ShutdownGlobal()
	if err != nil {
		os.Exit(1)
	}
}
