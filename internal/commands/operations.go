package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/SscSPs/posting_engine/internal/dto"
	"github.com/SscSPs/posting_engine/internal/platform/app"
	"github.com/spf13/cobra"
)

func newPostCommand(e *env) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "post <file|->",
		Short: "Post an operation read as JSON from a file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}
			var req dto.PostOperationRequest
			if err := json.NewDecoder(r).Decode(&req); err != nil {
				return fmt.Errorf("decoding operation: %w", err)
			}
			req.UserID = userID

			return e.withApp(cmd.Context(), func(a *app.App) error {
				posted, err := a.Services.Posting.PostOperation(cmd.Context(), req)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), dto.ToPostedOperationResponse(posted))
			})
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "id of the user recording the operation (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newReverseCommand(e *env) *cobra.Command {
	var (
		userID int64
		date   string
		notes  string
	)

	cmd := &cobra.Command{
		Use:   "reverse <operationID>",
		Short: "Post the reversal of an operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			operationID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid operation id %q", args[0])
			}
			req := dto.ReverseOperationRequest{UserID: userID, Notes: notes}
			if date != "" {
				d, err := parseDate(date)
				if err != nil {
					return err
				}
				req.OperationDate = &d
			}

			return e.withApp(cmd.Context(), func(a *app.App) error {
				posted, err := a.Services.Posting.ReverseOperation(cmd.Context(), operationID, req)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), dto.ToPostedOperationResponse(posted))
			})
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "id of the user recording the reversal (required)")
	_ = cmd.MarkFlagRequired("user")
	cmd.Flags().StringVar(&date, "date", "", "reversal date (YYYY-MM-DD), defaults to the original date")
	cmd.Flags().StringVar(&notes, "notes", "", "notes for the reversing operation")
	return cmd
}
