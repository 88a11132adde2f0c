package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rosterid/internal/config"
	"rosterid/internal/identity"
	"rosterid/internal/importer"
	"rosterid/internal/resolve"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var (
		defaultSource string
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "import <batch.jsonl>",
		Short: "Resolve a JSON-lines batch of external player records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *identity.Store) error {
				logger := ctx.newLogger(cfg)
				engine, err := ctx.newEngine(cfg, store, logger)
				if err != nil {
					return err
				}
				imp, err := importer.New(engine, store, cfg, logger)
				if err != nil {
					return err
				}
				if defaultSource != "" {
					imp.SetDefaultSource(defaultSource)
				}

				summary, err := imp.ImportFile(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, summary)
				}
				renderRows(cmd,
					[]string{"Total", "Matched", "Created", "Queued", "Skipped", "Failed"},
					[][]string{{
						strconv.Itoa(summary.Total),
						strconv.Itoa(summary.Matched),
						strconv.Itoa(summary.Created),
						strconv.Itoa(summary.Queued),
						strconv.Itoa(summary.Skipped),
						strconv.Itoa(summary.Failed),
					}},
					[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight})
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&defaultSource, "source", "", "Source tag for records that omit one")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the batch summary as JSON")
	return cmd
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var (
		team       string
		position   string
		dob        string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <source> <external-id> <name>",
		Short: "Resolve a single external record",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *identity.Store) error {
				engine, err := ctx.newEngine(cfg, store, ctx.newLogger(cfg))
				if err != nil {
					return err
				}

				outcome, err := engine.Resolve(cmd.Context(), resolve.Record{
					Source:     args[0],
					ExternalID: args[1],
					Name:       args[2],
					Team:       team,
					Position:   position,
					DOB:        dob,
				})
				if err != nil {
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, outcomeView(outcome))
				}
				switch {
				case outcome.Queued:
					cmd.Println("Queued for manual review")
				case outcome.PlayerUID == "":
					cmd.Println("Skipped: name normalizes to an empty key")
				default:
					verb := "Matched"
					if outcome.Created {
						verb = "Created"
					}
					cmd.Printf("%s %s via %s (confidence %.2f)\n", verb, outcome.PlayerUID, outcome.Method, *outcome.Confidence)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "Team metadata for disambiguation")
	cmd.Flags().StringVar(&position, "position", "", "Position metadata for disambiguation")
	cmd.Flags().StringVar(&dob, "dob", "", "Birth date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the outcome as JSON")
	return cmd
}

func outcomeView(outcome resolve.Outcome) map[string]any {
	view := map[string]any{
		"player_uid": outcome.PlayerUID,
		"method":     string(outcome.Method),
		"queued":     outcome.Queued,
		"created":    outcome.Created,
	}
	if outcome.Confidence != nil {
		view["confidence"] = *outcome.Confidence
	} else {
		view["confidence"] = nil
	}
	return view
}

func formatConfidence(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
