package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/glbooks/accounting_backend/internal/core/services"
	"github.com/glbooks/accounting_backend/internal/middleware"
	"github.com/glbooks/accounting_backend/internal/platform/config"
	"github.com/glbooks/accounting_backend/internal/repositories/database/pgsql"
	"github.com/glbooks/accounting_backend/pkg/database"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "glbctl",
		Short:         "Operational jobs for the general ledger backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPromoteOverdueCmd())
	return root
}

func newPromoteOverdueCmd() *cobra.Command {
	var asOfStr string

	cmd := &cobra.Command{
		Use:   "promote-overdue",
		Short: "Transition sent invoices past their due date to overdue",
		Long: `Scans SENT invoices and marks those past their due date as OVERDUE.
Safe to run repeatedly; invoices already overdue, paid or cancelled are never touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf := time.Now().UTC()
			if asOfStr != "" {
				parsed, err := time.Parse("2006-01-02", asOfStr)
				if err != nil {
					return fmt.Errorf("invalid --as-of date %q: %w", asOfStr, err)
				}
				asOf = parsed
			}
			return runPromoteOverdue(cmd.Context(), asOf)
		},
	}
	cmd.Flags().StringVar(&asOfStr, "as-of", "", "treat this date (YYYY-MM-DD) as today instead of the current time")
	return cmd
}

func runPromoteOverdue(ctx context.Context, asOf time.Time) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx = middleware.WithLogger(ctx, logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbPool.Close()

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(*repos, cfg.FiscalYearStartMonth)

	promoted, err := serviceContainer.Invoice.PromoteOverdueInvoices(ctx, asOf, "glbctl")
	if err != nil {
		return fmt.Errorf("failed to promote overdue invoices: %w", err)
	}

	logger.Info("Overdue promotion finished",
		slog.Time("as_of", asOf),
		slog.Int("promoted", promoted),
	)
	return nil
}
