package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rosterid/internal/config"
	"rosterid/internal/identity"
)

func newAliasCommand(ctx *commandContext) *cobra.Command {
	aliasCmd := &cobra.Command{
		Use:   "alias",
		Short: "Manage recorded player aliases",
	}

	aliasCmd.AddCommand(newAliasListCommand(ctx))
	aliasCmd.AddCommand(newAliasAddCommand(ctx))

	return aliasCmd
}

func newAliasListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list <player-uid>",
		Short: "List recorded aliases for a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *identity.Store) error {
				aliases, err := store.AliasesForPlayer(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, aliases)
				}

				rows := make([][]string, 0, len(aliases))
				for _, entry := range aliases {
					source := entry.Source
					if source == "" {
						source = "-"
					}
					rows = append(rows, []string{entry.Alias, entry.AliasNorm, string(entry.Type), source})
				}
				renderRows(cmd, []string{"Alias", "Normalized", "Type", "Source"}, rows, nil)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit aliases as JSON")
	return cmd
}

func newAliasAddCommand(ctx *commandContext) *cobra.Command {
	var (
		aliasType string
		source    string
	)

	cmd := &cobra.Command{
		Use:   "add <player-uid> <alias>",
		Short: "Record an alternate name for a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, ok := identity.ParseAliasType(aliasType)
			if !ok {
				return fmt.Errorf("unknown alias type %q", aliasType)
			}
			return ctx.withStore(func(cfg *config.Config, store *identity.Store) error {
				err := store.AddAlias(cmd.Context(), identity.AddAliasParams{
					PlayerUID: args[0],
					Alias:     args[1],
					Source:    source,
					Type:      parsed,
				})
				if err != nil {
					return err
				}
				cmd.Printf("Recorded alias %q for %s\n", args[1], args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&aliasType, "type", string(identity.AliasNickname), "Alias type")
	cmd.Flags().StringVar(&source, "source", "", "Source the alias was observed in")
	return cmd
}
