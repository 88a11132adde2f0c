package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rosterid/internal/config"
	"rosterid/internal/display"
	"rosterid/internal/identity"
	"rosterid/internal/namenorm"
)

func newPlayersCommand(ctx *commandContext) *cobra.Command {
	playersCmd := &cobra.Command{
		Use:   "players",
		Short: "Inspect and manage canonical players",
	}

	playersCmd.AddCommand(newPlayersListCommand(ctx))
	playersCmd.AddCommand(newPlayersSearchCommand(ctx))
	playersCmd.AddCommand(newPlayersShowCommand(ctx))
	playersCmd.AddCommand(newPlayersStatusCommand(ctx))
	playersCmd.AddCommand(newPlayersRenameCommand(ctx))

	return playersCmd
}

func newPlayersListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List canonical players",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *identity.Store) error {
				players, err := store.AllPlayers(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, players)
				}

				rows := make([][]string, 0, len(players))
				for _, player := range players {
					rows = append(rows, []string{
						player.UID,
						player.CanonicalName,
						display.PositionOrDash(player.Position),
						display.TeamOrDash(player.CurrentTeam),
						string(player.Status),
					})
				}
				renderRows(cmd,
					[]string{"UID", "Name", "Pos", "Team", "Status"},
					rows, nil)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit players as JSON")
	return cmd
}

func newPlayersSearchCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <name>",
		Short: "Find players whose canonical name or alias matches a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := namenorm.Normalize(args[0])
			if key == "" {
				return fmt.Errorf("name %q normalizes to nothing usable", args[0])
			}
			return ctx.withStore(func(cfg *config.Config, store *identity.Store) error {
				players, err := store.FindCandidatesByNormalizedName(cmd.Context(), key, identity.CandidateFilter{})
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, players)
				}
				if len(players) == 0 {
					cmd.Printf("No players match %q\n", args[0])
					return nil
				}

				rows := make([][]string, 0, len(players))
				for _, player := range players {
					rows = append(rows, []string{
						player.UID,
						player.CanonicalName,
						display.PositionOrDash(player.Position),
						display.TeamOrDash(player.CurrentTeam),
						string(player.Status),
					})
				}
				renderRows(cmd,
					[]string{"UID", "Name", "Pos", "Team", "Status"},
					rows, nil)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit matches as JSON")
	return cmd
}

func newPlayersShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <player-uid>",
		Short: "Show one player with identifiers, aliases, and name history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *identity.Store) error {
				cmdCtx := cmd.Context()
				player, err := store.GetPlayer(cmdCtx, args[0])
				if err != nil {
					return err
				}
				identifiers, err := store.IdentifiersForPlayer(cmdCtx, player.UID)
				if err != nil {
					return err
				}
				aliases, err := store.AliasesForPlayer(cmdCtx, player.UID)
				if err != nil {
					return err
				}
				history, err := store.NameHistoryForPlayer(cmdCtx, player.UID)
				if err != nil {
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, map[string]any{
						"player":       player,
						"identifiers":  identifiers,
						"aliases":      aliases,
						"name_history": history,
					})
				}

				cmd.Printf("%s  (%s)\n", player.CanonicalName, player.UID)
				cmd.Printf("  position: %s  team: %s  status: %s\n",
					display.PositionOrDash(player.Position),
					display.TeamOrDash(player.CurrentTeam),
					player.Status)
				if player.BirthDate != "" {
					cmd.Printf("  born: %s\n", player.BirthDate)
				}

				if len(identifiers) > 0 {
					rows := make([][]string, 0, len(identifiers))
					for _, ident := range identifiers {
						rows = append(rows, []string{
							ident.Source,
							ident.ExternalID,
							formatConfidence(ident.Confidence),
							string(ident.Method),
							yesNo(ident.VerifiedAt != nil),
						})
					}
					renderRows(cmd,
						[]string{"Source", "External ID", "Confidence", "Method", "Verified"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft})
				}

				for _, entry := range aliases {
					cmd.Printf("  alias: %q (%s)\n", entry.Alias, entry.Type)
				}
				for _, span := range history {
					end := span.EndDate
					if end == "" {
						end = "present"
					}
					cmd.Printf("  known as %q from %s to %s\n", span.Name, span.StartDate, end)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the player as JSON")
	return cmd
}

func newPlayersStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <player-uid> <status>",
		Short: "Update a player's roster status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, ok := identity.ParsePlayerStatus(args[1])
			if !ok {
				return fmt.Errorf("unknown status %q", args[1])
			}
			return ctx.withStore(func(cfg *config.Config, store *identity.Store) error {
				if err := store.UpdatePlayerStatus(cmd.Context(), args[0], status); err != nil {
					return err
				}
				cmd.Printf("Player %s is now %s\n", args[0], status)
				return nil
			})
		},
	}
}

func newPlayersRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <player-uid> <new-name>",
		Short: "Change a player's canonical name, keeping the old one as an alias",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *identity.Store) error {
				if err := store.RenamePlayer(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				cmd.Printf("Player %s renamed to %q\n", args[0], args[1])
				return nil
			})
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
