package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"rosterid/internal/config"
	"rosterid/internal/identity"
	"rosterid/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show registry quality metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *identity.Store) error {
				rep, err := report.Build(cmd.Context(), store)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, rep)
				}

				cmd.Printf("Players: %d   Identifiers: %d   Unverified: %d   Open queue: %d\n",
					rep.Players, rep.Identifiers, rep.Unverified(), rep.OpenQueueDepth())

				if len(rep.Methods) > 0 {
					rows := make([][]string, 0, len(rep.Methods))
					for _, row := range rep.Methods {
						rows = append(rows, []string{string(row.Method), strconv.Itoa(row.Count)})
					}
					renderRows(cmd, []string{"Method", "Identifiers"}, rows,
						[]columnAlignment{alignLeft, alignRight})
				}

				if len(rep.Sources) > 0 {
					rows := make([][]string, 0, len(rep.Sources))
					for _, src := range rep.Sources {
						rows = append(rows, []string{
							src.Source,
							strconv.Itoa(src.Identifiers),
							formatConfidence(src.AvgConfidence),
							formatConfidence(src.MinConfidence),
							strconv.Itoa(src.Unverified),
						})
					}
					renderRows(cmd,
						[]string{"Source", "Identifiers", "Avg Conf", "Min Conf", "Unverified"},
						rows,
						[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight})
				}

				for _, entry := range rep.RecentAudit {
					cmd.Println(auditLine(entry))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the report as JSON")
	return cmd
}

// auditLine summarizes one audit entry for the report tail.
func auditLine(entry *identity.AuditEntry) string {
	uid := entry.PlayerUID
	if uid == "" {
		uid = "-"
	}
	return entry.CreatedAt.Format("2006-01-02 15:04:05") + "  " + string(entry.Action) + " " +
		entry.Source + "/" + entry.ExternalID + " -> " + uid
}
