package commands

import (
	"fmt"

	"github.com/SscSPs/posting_engine/internal/platform/app"
	"github.com/SscSPs/posting_engine/internal/platform/seed"
	"github.com/spf13/cobra"
)

func newSeedCommand(e *env) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load currencies, the chart of accounts, operation types, users and parties",
		Long: "Seeds reference data from a YAML file, or from the built-in chart when --file is not given.\n" +
			"Seeding is repeatable: existing rows are updated in place.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				f   *seed.File
				err error
			)
			if file != "" {
				f, err = seed.Load(file)
			} else {
				f, err = seed.Default()
			}
			if err != nil {
				return err
			}

			return e.withApp(cmd.Context(), func(a *app.App) error {
				res, err := seed.Apply(cmd.Context(), a.Repos.Registry, f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d currencies, %d accounts, %d operation types, %d users, %d parties\n",
					res.Currencies, res.Accounts, res.OperationTypes, res.Users, res.Parties)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML seed file (defaults to the built-in chart)")
	return cmd
}
