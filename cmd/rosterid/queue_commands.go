package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rosterid/internal/config"
	"rosterid/internal/identity"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and work the manual review queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueShowCommand(ctx))
	queueCmd.AddCommand(newQueueResolveCommand(ctx))
	queueCmd.AddCommand(newQueueRejectCommand(ctx))
	queueCmd.AddCommand(newQueueDeferCommand(ctx))
	queueCmd.AddCommand(newQueueStatsCommand(ctx))

	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var (
		statusFilter string
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List review queue entries by priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			var statuses []identity.QueueStatus
			if statusFilter != "" {
				status, ok := identity.ParseQueueStatus(statusFilter)
				if !ok {
					return fmt.Errorf("unknown queue status %q", statusFilter)
				}
				statuses = append(statuses, status)
			} else {
				statuses = append(statuses, identity.QueuePending, identity.QueueInProgress, identity.QueueDeferred, identity.QueueError)
			}

			return ctx.withStore(func(cfg *config.Config, store *identity.Store) error {
				entries, err := store.QueueEntries(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, entries)
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					best := ""
					if entry.BestScore != nil {
						best = formatConfidence(*entry.BestScore)
					}
					rows = append(rows, []string{
						entry.Source,
						entry.ExternalID,
						entry.RecordName,
						strconv.Itoa(entry.CandidateCount),
						best,
						string(entry.Status),
						strconv.Itoa(entry.Priority),
					})
				}
				renderRows(cmd,
					[]string{"Source", "External ID", "Name", "Candidates", "Best", "Status", "Priority"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignRight})
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Filter by queue status")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit entries as JSON")
	return cmd
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <source> <external-id>",
		Short: "Show the open entry and its candidates for one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *identity.Store) error {
				entry, err := store.OpenQueueEntry(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if entry == nil {
					cmd.Printf("No open queue entry for (%s, %s)\n", args[0], args[1])
					return nil
				}

				cmd.Printf("%s %s  %q  [%s, priority %d]\n",
					entry.Source, entry.ExternalID, entry.RecordName, entry.Status, entry.Priority)
				candidates, err := entry.Candidates()
				if err != nil {
					return err
				}
				for _, candidate := range candidates {
					cmd.Printf("  %s  %s  score %s\n",
						candidate.PlayerUID, candidate.CanonicalName, formatConfidence(candidate.Score))
				}
				return nil
			})
		},
	}
}

func newQueueResolveCommand(ctx *commandContext) *cobra.Command {
	var resolvedBy string

	cmd := &cobra.Command{
		Use:   "resolve <source> <external-id> <player-uid>",
		Short: "Resolve an open entry to a player",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *identity.Store) error {
				err := store.CloseQueueEntry(cmd.Context(), args[0], args[1], identity.QueueOutcome{
					Status:        identity.QueueResolved,
					ResolutionUID: args[2],
					ResolvedBy:    resolvedBy,
				})
				if err != nil {
					return err
				}
				cmd.Printf("Resolved (%s, %s) to %s\n", args[0], args[1], args[2])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&resolvedBy, "by", "cli", "Reviewer recorded on the resolution")
	return cmd
}

func newQueueRejectCommand(ctx *commandContext) *cobra.Command {
	var resolvedBy string

	cmd := &cobra.Command{
		Use:   "reject <source> <external-id>",
		Short: "Reject an open entry as unmatchable",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *identity.Store) error {
				err := store.CloseQueueEntry(cmd.Context(), args[0], args[1], identity.QueueOutcome{
					Status:     identity.QueueRejected,
					ResolvedBy: resolvedBy,
				})
				if err != nil {
					return err
				}
				cmd.Printf("Rejected (%s, %s)\n", args[0], args[1])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&resolvedBy, "by", "cli", "Reviewer recorded on the rejection")
	return cmd
}

func newQueueDeferCommand(ctx *commandContext) *cobra.Command {
	var resolvedBy string

	cmd := &cobra.Command{
		Use:   "defer <source> <external-id>",
		Short: "Defer an open entry for later review",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *identity.Store) error {
				err := store.CloseQueueEntry(cmd.Context(), args[0], args[1], identity.QueueOutcome{
					Status:     identity.QueueDeferred,
					ResolvedBy: resolvedBy,
				})
				if err != nil {
					return err
				}
				cmd.Printf("Deferred (%s, %s)\n", args[0], args[1])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&resolvedBy, "by", "cli", "Reviewer recorded on the deferral")
	return cmd
}

func newQueueStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show queue entry counts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *identity.Store) error {
				stats, err := store.QueueStats(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, stats)
				}
				for _, status := range []identity.QueueStatus{
					identity.QueuePending,
					identity.QueueInProgress,
					identity.QueueDeferred,
					identity.QueueError,
					identity.QueueRejected,
					identity.QueueResolved,
				} {
					if count, ok := stats[status]; ok {
						cmd.Printf("%-12s %d\n", status, count)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit stats as JSON")
	return cmd
}
