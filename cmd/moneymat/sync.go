package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apperrors "github.com/najeeb67/my-money-mat/internal/errors"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one sync pass and replay queued mutations",
		Long: `Push every unsynced budget item to the server, then replay the mutation outbox.

A pass that finds conflicts pushes nothing. Pass --auto-resolve to settle them
by last-write-wins and sync again.`,
		RunE: runSync,
	}
	cmd.Flags().Bool("auto-resolve", false, "resolve conflicts by last-write-wins")
	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	autoResolve, _ := cmd.Flags().GetBool("auto-resolve")

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	if !a.Orchestrator.CheckConnectivity(ctx) {
		return apperrors.ErrOffline
	}

	syncResult, replayResult := a.Orchestrator.SyncAll(ctx)
	if syncResult.Conflicts > 0 && autoResolve {
		syncResult, err = a.Orchestrator.AutoResolveAll(ctx)
		if err != nil {
			return err
		}
	}

	out := map[string]interface{}{"sync": syncResult, "replay": replayResult}
	if syncResult.Conflicts > 0 {
		out["conflicts"] = a.Orchestrator.Conflicts()
	}
	if err := printJSON(cmd.OutOrStdout(), out); err != nil {
		return err
	}
	if syncResult.Err != nil {
		return syncResult.Err
	}
	return nil
}

func replayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay",
		Short: "Replay queued mutations against the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			ctx := cmd.Context()
			if !a.Orchestrator.CheckConnectivity(ctx) {
				return apperrors.ErrOffline
			}

			result := a.Orchestrator.ReplayOutbox(ctx)
			if result.Err != nil {
				return result.Err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connectivity and pending local work",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			a.Orchestrator.CheckConnectivity(cmd.Context())
			return printJSON(cmd.OutOrStdout(), a.Orchestrator.Status())
		},
	}
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
