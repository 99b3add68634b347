package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/JoyalGJ/PG-Management/internal/config"
	"github.com/JoyalGJ/PG-Management/internal/database"
	"github.com/JoyalGJ/PG-Management/internal/ledger"
	"github.com/JoyalGJ/PG-Management/internal/model"
	"github.com/JoyalGJ/PG-Management/internal/repository"
	"github.com/JoyalGJ/PG-Management/internal/service"
)

// openDB loads the configuration and connects.
func openDB(ctx context.Context) (*sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return database.Open(ctx, cfg.DBOptions())
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables if they do not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(cmd.Context(), db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d statements\n", len(database.Statements()))
			return nil
		},
	}
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute room occupancy from active tenants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			svc := service.NewRoomService(repository.NewRoomRepo(db), repository.NewTenantRepo(db))
			n, err := svc.Reconcile(cmd.Context())
			if err != nil {
				return fmt.Errorf("reconcile: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rooms updated\n", n)
			return nil
		},
	}
}

type ledgerFlags struct {
	tenant          uint64
	room            string
	month           string
	cutoff          string
	includeInactive bool
	summary         bool
}

// filters turns the flags into ledger filters.
func (lf ledgerFlags) filters() (ledger.Filters, error) {
	f := ledger.Filters{}.WithTenant(lf.tenant).WithRoom(lf.room).WithInactive(lf.includeInactive)
	if lf.month != "" {
		m, err := ledger.ParseMonth(lf.month)
		if err != nil {
			return f, err
		}
		f = f.WithMonth(m)
	}
	if lf.cutoff != "" {
		m, err := ledger.ParseMonth(lf.cutoff)
		if err != nil {
			return f, err
		}
		f = f.WithCutoff(m)
	}
	return f, nil
}

func ledgerCmd() *cobra.Command {
	var lf ledgerFlags
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Print rent due rows or a per month summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := lf.filters()
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			svc := service.NewLedgerService(repository.NewRoomRepo(db), repository.NewTenantRepo(db),
				repository.NewPaymentRepo(db), ledger.NewCalculator(time.Now))
			if lf.summary {
				sums, err := svc.Summary(cmd.Context(), f)
				if err != nil {
					return err
				}
				return writeSummary(cmd.OutOrStdout(), sums)
			}
			rows, err := svc.Ledger(cmd.Context(), f)
			if err != nil {
				return err
			}
			return writeRows(cmd.OutOrStdout(), rows)
		},
	}
	fl := cmd.Flags()
	fl.Uint64Var(&lf.tenant, "tenant", 0, "only this tenant id")
	fl.StringVar(&lf.room, "room", "", "only tenants of this room")
	fl.StringVar(&lf.month, "month", "", "only this month (YYYY-MM)")
	fl.StringVar(&lf.cutoff, "cutoff", "", "last month to bill (YYYY-MM), defaults to the current month")
	fl.BoolVar(&lf.includeInactive, "include-inactive", false, "also bill removed tenants")
	fl.BoolVar(&lf.summary, "summary", false, "print totals per month instead of rows")
	return cmd
}

func writeRows(w io.Writer, rows []model.BillingRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TENANT\tNAME\tROOM\tMONTH\tDUE\tDUE DATE\tSTATUS\tDAYS OVERDUE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\t%d\n",
			r.TenantID, r.TenantName, r.RoomNumber, r.Month, r.DueAmount,
			r.DueDate.Format(time.DateOnly), r.Status, r.DaysOverdue)
	}
	return tw.Flush()
}

func writeSummary(w io.Writer, sums []model.MonthSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MONTH\tPAID\tDUE\tCOLLECTED\tOUTSTANDING")
	for _, s := range sums {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", s.Month, s.PaidCount, s.DueCount, s.Collected, s.Outstanding)
	}
	return tw.Flush()
}
