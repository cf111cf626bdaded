package commands

import (
	"fmt"
	"strconv"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/SscSPs/posting_engine/internal/dto"
	"github.com/SscSPs/posting_engine/internal/platform/app"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newChequeCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cheque",
		Short: "Inspect and settle discounted cheques",
	}
	cmd.AddCommand(newChequeListCommand(e), newChequeTransitionCommand(e))
	return cmd
}

func newChequeListCommand(e *env) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cheques, optionally filtered by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *domain.ChequeStatus
			if status != "" {
				s := domain.ChequeStatus(status)
				if !s.Valid() {
					return fmt.Errorf("unknown cheque status %q", status)
				}
				filter = &s
			}
			return e.withApp(cmd.Context(), func(a *app.App) error {
				cheques, err := a.Services.Cheque.ListCheques(cmd.Context(), filter)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), cheques)
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "pending, accredited, expired, rejected or cancelled")
	return cmd
}

func newChequeTransitionCommand(e *env) *cobra.Command {
	var (
		userID  int64
		date    string
		penalty string
		notes   string
	)

	cmd := &cobra.Command{
		Use:   "transition <chequeID> <status>",
		Short: "Move a pending cheque to accredited, expired, rejected or cancelled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chequeID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid cheque id %q", args[0])
			}
			effective, err := parseDate(date)
			if err != nil {
				return err
			}
			opts := dto.TransitionOptions{UserID: userID, Penalty: decimal.Zero, Notes: notes}
			if penalty != "" {
				opts.Penalty, err = decimal.NewFromString(penalty)
				if err != nil {
					return fmt.Errorf("invalid penalty %q", penalty)
				}
			}

			return e.withApp(cmd.Context(), func(a *app.App) error {
				status := domain.ChequeStatus(args[1])
				operationID, err := a.Services.Cheque.TransitionCheque(cmd.Context(), chequeID, status, effective, opts)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), dto.ChequeTransitionResponse{
					ChequeID:              chequeID,
					Status:                status,
					SettlementOperationID: operationID,
				})
			})
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "id of the user recording the settlement (required)")
	_ = cmd.MarkFlagRequired("user")
	cmd.Flags().StringVar(&date, "date", "", "effective date (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&penalty, "penalty", "", "penalty charged to the client on rejection or expiry")
	cmd.Flags().StringVar(&notes, "notes", "", "notes for the settlement operation")
	return cmd
}
