package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/demobank/internal/adapter/http/dto"
	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/infrastructure/auth"
	"github.com/iho/demobank/internal/infrastructure/logger"
	"github.com/iho/demobank/internal/infrastructure/postgres"
)

func transferCmd(opts *options) *cobra.Command {
	var req dto.CreateTransferRequest
	var amount, idempotencyKey string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move money between two accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Amount = dto.Amount(amount)

			var resp dto.TransferResponse
			err := newAPIClient(opts).do(http.MethodPost, "/api/v1/transfers", req, &resp,
				"Idempotency-Key", idempotencyKey)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Transfer %s completed: %s\n", resp.TransferID, resp.Amount)
			fmt.Fprintf(out, "  %s (%s) new balance %s\n", resp.FromAccount.Name, resp.FromAccount.ID, resp.FromAccount.NewBalance)
			fmt.Fprintf(out, "  %s (%s) new balance %s\n", resp.ToAccount.Name, resp.ToAccount.ID, resp.ToAccount.NewBalance)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.FromAccountID, "from", "", "Source account ID")
	cmd.Flags().StringVar(&req.ToAccountID, "to", "", "Destination account ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to move, e.g. 12.50")
	cmd.Flags().StringVar(&req.Description, "description", "", "Description written on both entries")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func accountsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	var owner string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List an owner's accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var accounts []dto.AccountResponse
			if err := newAPIClient(opts).do(http.MethodGet, "/api/v1/accounts"+ownerQuery(owner), nil, &accounts); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tNUMBER\tTYPE\tSTATUS\tBALANCE")
			for _, a := range accounts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s %s\n", a.ID, truncate(a.Name, 24), a.Number, a.Type, a.Status, a.Balance, a.Currency)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().StringVar(&owner, "owner", "", "Owner ID (defaults to the token's owner)")

	getCmd := &cobra.Command{
		Use:   "get ACCOUNT_ID",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var account dto.AccountResponse
			if err := newAPIClient(opts).do(http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0]), nil, &account); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), account)
		},
	}

	var summaryOwner string
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show balance total and this month's income and expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			var summary dto.SummaryResponse
			if err := newAPIClient(opts).do(http.MethodGet, "/api/v1/accounts/summary"+ownerQuery(summaryOwner), nil, &summary); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total balance: %s\n", summary.TotalBalance)
			fmt.Fprintf(out, "Income:        %s (%s%%)\n", summary.Income.Amount, summary.Income.ChangePercent)
			fmt.Fprintf(out, "Expenses:      %s (%s%%)\n", summary.Expenses.Amount, summary.Expenses.ChangePercent)
			return nil
		},
	}
	summaryCmd.Flags().StringVar(&summaryOwner, "owner", "", "Owner ID (defaults to the token's owner)")

	var status string
	statusCmd := &cobra.Command{
		Use:   "set-status ACCOUNT_ID",
		Short: "Change an account's status (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var account dto.AccountResponse
			err := newAPIClient(opts).do(http.MethodPatch, "/api/v1/accounts/"+url.PathEscape(args[0])+"/status",
				dto.UpdateStatusRequest{Status: status}, &account)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %s is now %s\n", account.ID, account.Status)
			return nil
		},
	}
	statusCmd.Flags().StringVar(&status, "status", "", "Active, Inactive or Frozen")
	_ = statusCmd.MarkFlagRequired("status")

	cmd.AddCommand(listCmd, getCmd, summaryCmd, statusCmd)
	return cmd
}

func transactionsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Ledger entry operations",
	}

	var txType, status, from, to, listOwner, listAccount string
	var page, limit int
	listCmd := &cobra.Command{
		Use:   "list [ACCOUNT_ID]",
		Short: "List entries newest first, for one account or across an owner's accounts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			path := "/api/v1/transactions"
			if len(args) == 1 {
				path = "/api/v1/accounts/" + url.PathEscape(args[0]) + "/transactions"
			} else {
				setIfNotEmpty(q, "owner_id", listOwner)
				setIfNotEmpty(q, "account_id", listAccount)
			}
			setIfNotEmpty(q, "type", txType)
			setIfNotEmpty(q, "status", status)
			setIfNotEmpty(q, "from", from)
			setIfNotEmpty(q, "to", to)
			if page > 0 {
				q.Set("page", strconv.Itoa(page))
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}

			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var result dto.TransactionPageResponse
			if err := newAPIClient(opts).do(http.MethodGet, path, nil, &result); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tTYPE\tAMOUNT\tSTATUS\tDESCRIPTION")
			for _, t := range result.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Timestamp.Format(time.RFC3339), t.Type, t.Amount, t.Status, truncate(t.Description, 32))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d (%d entries)\n", result.Page, result.TotalPages, result.Total)
			return nil
		},
	}
	listCmd.Flags().StringVar(&txType, "type", "", "Filter by type")
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&from, "from", "", "Earliest time (RFC 3339 or YYYY-MM-DD)")
	listCmd.Flags().StringVar(&to, "to", "", "Latest time (RFC 3339 or YYYY-MM-DD)")
	listCmd.Flags().IntVar(&page, "page", 0, "Page number")
	listCmd.Flags().IntVar(&limit, "limit", 0, "Page size")
	listCmd.Flags().StringVar(&listOwner, "owner", "", "Owner ID when no account is given (defaults to the token's owner)")
	listCmd.Flags().StringVar(&listAccount, "account", "", "Narrow an owner-wide listing to one account")

	var newStatus string
	settleCmd := &cobra.Command{
		Use:   "set-status TRANSACTION_ID",
		Short: "Settle a Pending entry (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entry dto.TransactionResponse
			err := newAPIClient(opts).do(http.MethodPost, "/api/v1/transactions/"+url.PathEscape(args[0])+"/status",
				dto.UpdateStatusRequest{Status: newStatus}, &entry)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transaction %s is now %s\n", entry.ID, entry.Status)
			return nil
		},
	}
	settleCmd.Flags().StringVar(&newStatus, "status", "", "Completed, Failed or Cancelled")
	_ = settleCmd.MarkFlagRequired("status")

	cmd.AddCommand(listCmd, settleCmd)
	return cmd
}

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check that every transfer is a mirrored withdrawal and deposit",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ConsistencyResponse
			err := newAPIClient(opts).do(http.MethodGet, "/api/v1/ledger/consistency", nil, &report)

			// An inconsistent ledger is reported with 409 and the report as body.
			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
				err = json.Unmarshal(apiErr.Raw, &report)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.Consistent {
				fmt.Fprintln(out, "Consistency check PASSED")
				return nil
			}
			fmt.Fprintln(out, "Consistency check FAILED")
			for _, id := range report.UnpairedTransfers {
				fmt.Fprintf(out, "  unpaired transfer %s\n", id)
			}
			return fmt.Errorf("%d unpaired transfers", len(report.UnpairedTransfers))
		},
	}

	cmd.AddCommand(consistencyCmd)
	return cmd
}

func migrateCmd() *cobra.Command {
	var databaseURL, migrationsPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", envOr("DATABASE_URL", ""), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "Migrations directory (defaults to the embedded migrations)")

	cliLogger := func(cmd *cobra.Command) zerolog.Logger {
		return logger.New(logger.Config{Level: "info", Format: "console", Service: "demobank-cli", Output: cmd.ErrOrStderr()})
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return errors.New("--database-url or DATABASE_URL is required")
			}
			return postgres.RunMigrations(databaseURL, migrationsPath, cliLogger(cmd))
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return errors.New("--database-url or DATABASE_URL is required")
			}
			return postgres.RunMigrationsDown(databaseURL, migrationsPath, cliLogger(cmd))
		},
	}

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}

func tokenCmd() *cobra.Command {
	var secret, owner, role string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("--secret or JWT_SECRET is required")
			}
			p := &domain.Principal{ID: owner, Role: domain.Role(role)}
			if p.ID == "" || !p.Role.IsValid() {
				return fmt.Errorf("owner is required and role must be %q or %q", domain.RoleCustomer, domain.RoleAdmin)
			}

			token, err := auth.NewJWTManager(secret, ttl).Generate(p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", envOr("JWT_SECRET", ""), "Signing secret")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner ID carried by the token")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleCustomer), "customer or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}

func ownerQuery(owner string) string {
	if owner == "" {
		return ""
	}
	return "?owner_id=" + url.QueryEscape(owner)
}

func setIfNotEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
