package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/rosterdesk/internal/format"
	"github.com/cristianoliveira/rosterdesk/internal/optimistic"
)

func addFormatFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "format", string(format.TypeTable), "Output format: table, simple or json")
}

func formatterFor(name string) (format.Formatter, error) {
	t, err := format.ParseType(name)
	if err != nil {
		return nil, err
	}
	return format.New(t), nil
}

// waitApplied waits for p to settle and reports whether it changed
// anything. Mutations whose Apply found nothing to do never reach the
// server and settle without error.
func waitApplied(ctx context.Context, p *optimistic.Pending) (bool, error) {
	if err := p.Wait(ctx); err != nil {
		return false, err
	}
	return !p.Skipped(), nil
}
