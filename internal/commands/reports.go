package commands

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/SscSPs/posting_engine/internal/dto"
	"github.com/SscSPs/posting_engine/internal/platform/app"
	"github.com/SscSPs/posting_engine/internal/utils"
	"github.com/spf13/cobra"
)

func newBalanceCommand(e *env) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "balance <accountCode>",
		Short: "Show the balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(asOf)
			if err != nil {
				return err
			}
			return e.withApp(cmd.Context(), func(a *app.App) error {
				balance, err := a.Services.Ledger.AccountBalanceByCode(cmd.Context(), args[0], date)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), balance)
			})
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "date (YYYY-MM-DD), defaults to today")
	return cmd
}

func newTrialBalanceCommand(e *env) *cobra.Command {
	var (
		asOf   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Print the trial balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(asOf)
			if err != nil {
				return err
			}
			return e.withApp(cmd.Context(), func(a *app.App) error {
				tb, err := a.Services.Ledger.TrialBalance(cmd.Context(), date)
				if err != nil {
					return err
				}
				resp := dto.ToTrialBalanceResponse(tb)
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), resp)
				}

				list, err := a.Services.Registry.ListCurrencies(cmd.Context())
				if err != nil {
					return err
				}
				currencies := make(map[string]*domain.Currency, len(list))
				for i := range list {
					currencies[list[i].CurrencyCode] = &list[i]
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
				fmt.Fprintln(w, "CODE\tNAME\tCCY\tDEBIT\tCREDIT\tBALANCE\t")
				for _, r := range resp.Rows {
					ccy := currencies[r.CurrencyCode]
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
						r.AccountCode, r.AccountName, r.CurrencyCode,
						utils.FormatWithCurrencyPrecision(r.Debit, ccy),
						utils.FormatWithCurrencyPrecision(r.Credit, ccy),
						utils.FormatWithCurrencyPrecision(r.DisplayBalance, ccy))
				}
				if err := w.Flush(); err != nil {
					return err
				}

				totals := make([]string, 0, len(resp.Totals))
				for c := range resp.Totals {
					totals = append(totals, c)
				}
				sort.Strings(totals)
				for _, c := range totals {
					fmt.Fprintf(cmd.OutOrStdout(), "total %s: %s\n", c, resp.Totals[c].String())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "as of %s, balanced: %t\n", resp.AsOf, resp.Balanced)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "date (YYYY-MM-DD), defaults to today")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
