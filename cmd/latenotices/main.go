package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/patel-atit/latenotices/internal/balance"
	"github.com/patel-atit/latenotices/internal/config"
	"github.com/patel-atit/latenotices/internal/ledger"
	"github.com/patel-atit/latenotices/internal/notice"
	"github.com/patel-atit/latenotices/internal/service"
)

const migrationsPath = "internal/ledger/migrations"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: latenotices <parkcode> | latenotices seed")
		os.Exit(2)
	}

	if args[0] == "seed" {
		if err := seedLedger(ctx, cfg); err != nil {
			log.Fatalf("seed: %v", err)
		}
		fmt.Printf("seeded demo ledger at %s\n", cfg.Ledger.Path)
		return
	}
	parkCode := args[0]

	parks := make(map[string]notice.ParkProfile, len(cfg.Parks))
	for code, p := range cfg.Parks {
		parks[code] = notice.ParkProfile{
			Name:         p.Name,
			Address:      p.Address,
			CityZip:      p.CityZip,
			ManagerPhone: p.ManagerPhone,
			Email:        p.Email,
		}
	}
	registry := notice.NewRegistry(parks)

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		log.Fatalf("mkdir output dir: %v", err)
	}

	var extractor service.Extractor
	switch cfg.Ledger.Source {
	case "csv":
		extractor = ledger.CSVExtractor{Path: cfg.Ledger.Path}
	case "sqlite":
		db, err := ledger.Open(cfg.Ledger.Path)
		if err != nil {
			log.Fatalf("open ledger: %v", err)
		}
		defer db.Close()
		extractor = ledger.SQLiteExtractor{DB: db, Table: cfg.Ledger.Table}
	}

	svc := &service.Notices{
		Extractor: extractor,
		Engine: balance.Engine{
			Penalty1Cents: cfg.Grace.Penalty1Cents,
			Penalty2Cents: cfg.Grace.Penalty2Cents,
		},
		Parks:     registry,
		OutputDir: cfg.Output.Dir,
		GraceDays: cfg.Grace.PeriodDays,
		EmitEmpty: cfg.Output.EmitEmpty,
	}

	res, err := svc.Run(ctx, parkCode)
	if err != nil {
		log.Fatalf("run %s: %v", res.RunID, err)
	}
	printSummary(res)
}

var (
	summaryTitle = lipgloss.NewStyle().Bold(true)
	summaryWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	summaryFaint = lipgloss.NewStyle().Faint(true)
)

func printSummary(res service.RunResult) {
	fmt.Println(summaryTitle.Render(fmt.Sprintf("%s — late notices", res.Park.Name)))
	fmt.Printf("accounts read:   %d\n", res.Accounts)
	fmt.Printf("notices written: %d\n", res.Notices)
	fmt.Printf("total due:       $%.2f\n", float64(res.TotalDueCents)/100)
	if res.Skipped > 0 {
		fmt.Println(summaryWarn.Render(fmt.Sprintf("skipped rows:    %d", res.Skipped)))
		for _, re := range res.RowErrors {
			fmt.Println(summaryWarn.Render("  " + re.Error()))
		}
	} else {
		fmt.Printf("skipped rows:    0\n")
	}
	if res.ArtifactPath != "" {
		fmt.Printf("artifact:        %s\n", res.ArtifactPath)
	} else {
		fmt.Println("artifact:        suppressed (no delinquent accounts)")
	}
	fmt.Println(summaryFaint.Render("run " + res.RunID))
}

func seedLedger(ctx context.Context, cfg config.Config) error {
	if cfg.Ledger.Source != "sqlite" {
		return fmt.Errorf("seed only supports the sqlite source")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Ledger.Path), 0o755); err != nil {
		return err
	}
	if err := ledger.RunMigrations(cfg.Ledger.Path, migrationsPath); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	db, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	rows := []ledger.SeedRow{
		{Lot: 1, BaseRent: "450", SupplementalRent: "25", TaxesInsurance: "25", PreviousBalance: "0", LateFee: "0", Credit: "0", ReceivedBeforeGraceCutoff: "500"},
		{Lot: 2, BaseRent: "450", SupplementalRent: "25", TaxesInsurance: "25", PreviousBalance: "0", LateFee: "0", Credit: "0", ReceivedBeforeGraceCutoff: "0"},
		{Lot: 3, BaseRent: "350", SupplementalRent: "25", TaxesInsurance: "25", PreviousBalance: "100", LateFee: "50", Credit: "-25", ReceivedBeforeGraceCutoff: "200"},
		{Lot: 4, BaseRent: "500", SupplementalRent: "0", TaxesInsurance: "30", PreviousBalance: "-40", LateFee: "0", Credit: "", ReceivedBeforeGraceCutoff: "530"},
	}
	return ledger.Seed(ctx, db, cfg.Ledger.Table, rows)
}
