package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rumor-ml/commons.systems/smsledger/internal/bank"
	"github.com/rumor-ml/commons.systems/smsledger/internal/classify"
	"github.com/rumor-ml/commons.systems/smsledger/internal/domain"
	"github.com/rumor-ml/commons.systems/smsledger/internal/export"
	"github.com/rumor-ml/commons.systems/smsledger/internal/ifsc"
	"github.com/rumor-ml/commons.systems/smsledger/internal/ingest"
	"github.com/rumor-ml/commons.systems/smsledger/internal/logger"
	"github.com/rumor-ml/commons.systems/smsledger/internal/rules"
	"github.com/rumor-ml/commons.systems/smsledger/internal/source"
	"github.com/rumor-ml/commons.systems/smsledger/internal/store"
	"github.com/rumor-ml/commons.systems/smsledger/internal/ui"
	"github.com/rumor-ml/commons.systems/smsledger/internal/validate"
)

const (
	version = "0.1.0"
)

var (
	// Global flags
	versionFlag = flag.Bool("version", false, "Show version")

	// Core CLI flags
	inputFile = flag.String("input", "", "Message backup file, XML or JSON (required unless -ifsc)")
	dbFile    = flag.String("db", "smsledger.db", "SQLite database file")
	dryRun    = flag.Bool("dry-run", false, "Classify messages without writing to the database")
	verbose   = flag.Bool("verbose", false, "Show detailed sync logs")

	// Sync tuning
	maxMessages = flag.Int("max", 500, "Maximum messages to read per sync")
	rulesFile   = flag.String("rules", "", "Category rules YAML file (default: embedded rules)")

	// Output flags
	exportFile = flag.String("export", "", "Write transaction export JSON to this file after sync")

	// One-shot lookups
	ifscCode = flag.String("ifsc", "", "Look up a bank branch by IFSC code and exit")
)

func main() {
	// Custom usage message
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `smsledger - Turn bank SMS backups into a transaction ledger

Usage:
  smsledger [flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprint(os.Stderr, `
Examples:
  # Sync a backup into the default database
  smsledger -input sms-backup.xml

  # Sync with custom rules and export the ledger
  smsledger -input sms-backup.xml -rules rules.yaml -export ledger.json

  # Preview what would be ingested
  smsledger -input sms-backup.xml -dry-run -verbose

  # Look up a bank branch
  smsledger -ifsc HDFC0000001

`)
	}

	flag.Parse()

	// Handle version flag
	if *versionFlag {
		fmt.Printf("smsledger version %s\n", version)
		os.Exit(0)
	}

	logger.Init(*verbose)

	if *ifscCode != "" {
		if err := runIFSCLookup(*ifscCode); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Validate required flags
	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: -input flag is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runIFSCLookup(code string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	branch, err := ifsc.NewClient().Lookup(ctx, code)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", branch.IFSC)
	fmt.Printf("  Bank:   %s\n", branch.Bank)
	fmt.Printf("  Branch: %s\n", branch.Branch)
	fmt.Printf("  City:   %s, %s\n", branch.City, branch.State)
	return nil
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !*verbose {
		ui.Header("Syncing Bank Messages")
	}

	src := source.NewFileSource(*inputFile)

	// Dry run mode: classify the backup, report counts, write nothing.
	if *dryRun {
		return runDry(ctx, src)
	}

	// Step 1: open the database and seed category rules.
	if !*verbose {
		ui.Step(1, 4, "Opening database")
	} else {
		fmt.Fprintf(os.Stderr, "Opening database: %s\n", *dbFile)
	}

	seed, err := loadSeedRules()
	if err != nil {
		return err
	}

	db, err := store.Open(*dbFile)
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", *dbFile, err)
	}
	defer db.Close()

	if err := db.Init(seed); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Step 2: run the sync.
	if !*verbose {
		ui.Step(2, 4, "Ingesting messages")
	}

	coordinator := ingest.New(src, db, logger.Default(), *maxMessages)
	result, err := coordinator.RunSync(ctx)
	if err != nil {
		if errors.Is(err, source.ErrPermissionDenied) {
			return fmt.Errorf("cannot read %s: permission denied", *inputFile)
		}
		// Records inserted before the failure stay; rerunning skips them.
		if result.Inserted > 0 {
			fmt.Fprintf(os.Stderr, "Sync failed after inserting %d transactions; rerun to continue\n", result.Inserted)
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Sync complete:\n")
		fmt.Fprintf(os.Stderr, "  Inserted:      %d\n", result.Inserted)
		fmt.Fprintf(os.Stderr, "  Duplicates:    %d\n", result.DuplicatesSkipped)
		fmt.Fprintf(os.Stderr, "  Excluded:      %d\n", result.ExcludedSkipped)
		fmt.Fprintf(os.Stderr, "  Not relevant:  %d\n", result.NotTransactions)
	} else {
		ui.SyncSummary(result.Inserted, result.DuplicatesSkipped, result.ExcludedSkipped, result.NotTransactions)
	}

	// Step 3: resolve bank identities for the senders we stored.
	if !*verbose {
		ui.Step(3, 4, "Resolving bank accounts")
	}
	if err := updateBankAccounts(db); err != nil {
		return fmt.Errorf("failed to update bank accounts: %w", err)
	}

	// Step 4: validate the ledger and optionally export it.
	if !*verbose {
		ui.Step(4, 4, "Validating ledger")
	}
	if err := validateLedger(db); err != nil {
		return err
	}

	if *exportFile != "" {
		if err := writeExport(db, *exportFile); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		if !*verbose {
			ui.Success(fmt.Sprintf("Export written to %s", *exportFile))
		} else {
			fmt.Fprintf(os.Stderr, "Export written to %s\n", *exportFile)
		}
	}

	return nil
}

// runDry classifies the backup without touching the database.
func runDry(ctx context.Context, src *source.FileSource) error {
	messages, err := src.FetchInbox(ctx, *maxMessages)
	if err != nil {
		if errors.Is(err, source.ErrPermissionDenied) {
			return fmt.Errorf("cannot read %s: permission denied", *inputFile)
		}
		return fmt.Errorf("failed to read %s: %w", *inputFile, err)
	}

	transactional := 0
	for _, msg := range messages {
		if classify.IsTransactionMessage(msg.SenderAddress, msg.Body) {
			transactional++
			if *verbose {
				fmt.Fprintf(os.Stderr, "  + %s: %.60s\n", msg.SenderAddress, msg.Body)
			}
		}
	}
	fmt.Printf("Dry run complete. %d of %d messages look like transactions.\n", transactional, len(messages))
	return nil
}

func loadSeedRules() ([]rules.SeedRule, error) {
	if *rulesFile != "" {
		seed, err := rules.LoadSeedFromFile(*rulesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules file: %w", err)
		}
		if *verbose {
			fmt.Fprintf(os.Stderr, "Loaded %d custom rules from %s\n", len(seed), *rulesFile)
		}
		return seed, nil
	}
	seed, err := rules.LoadSeed()
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded rules: %w", err)
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d embedded rules\n", len(seed))
	}
	return seed, nil
}

// updateBankAccounts upserts one bank account per resolvable sender among
// the stored transactions. Unresolvable senders are left alone; the user
// can map them later.
func updateBankAccounts(db *store.Store) error {
	resolver, err := bank.NewResolver()
	if err != nil {
		return err
	}

	records, err := db.ListTransactions()
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	resolved := 0
	for _, rec := range records {
		identity, ok := resolver.Resolve(rec.SenderAddress)
		if !ok || seen[identity.Code] {
			continue
		}
		seen[identity.Code] = true

		acc, err := domain.NewBankAccount(identity.Name, identity.Code, bank.ColorForCode(identity.Code))
		if err != nil {
			return err
		}
		acc.AccountSuffix = rec.AccountSuffix
		if _, err := db.UpsertBankAccount(acc); err != nil {
			return err
		}
		resolved++
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Resolved %d bank accounts\n", resolved)
	}
	return nil
}

func validateLedger(db *store.Store) error {
	records, err := db.ListTransactions()
	if err != nil {
		return err
	}
	activeRules, err := db.ListActiveCategoryRules()
	if err != nil {
		return err
	}
	accounts, err := db.ListBankAccounts()
	if err != nil {
		return err
	}

	result := validate.ValidateLedger(records, activeRules, accounts)
	if result.HasErrors() {
		if *verbose {
			fmt.Fprintf(os.Stderr, "Validation failed with %d errors:\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Fprintf(os.Stderr, "  - %s %s [%s]: %s\n", e.Entity, e.ID, e.Field, e.Message)
			}
		} else {
			ui.Error(fmt.Sprintf("Validation failed with %d errors", len(result.Errors)))
			for i, e := range result.Errors {
				if i >= 5 {
					ui.Error(fmt.Sprintf("... and %d more errors", len(result.Errors)-5))
					break
				}
				ui.Error(fmt.Sprintf("%s %s [%s]: %s", e.Entity, e.ID, e.Field, e.Message))
			}
		}
		return fmt.Errorf("validation failed with %d errors", len(result.Errors))
	}

	if len(result.Warnings) > 0 {
		if *verbose {
			fmt.Fprintf(os.Stderr, "Validation warnings (%d):\n", len(result.Warnings))
			for _, w := range result.Warnings {
				fmt.Fprintf(os.Stderr, "  - %s %s [%s]: %s\n", w.Entity, w.ID, w.Field, w.Message)
			}
		} else {
			ui.Warning(fmt.Sprintf("Validation produced %d warnings", len(result.Warnings)))
		}
	} else if !*verbose {
		ui.Success("Validation passed")
	}
	return nil
}

func writeExport(db *store.Store, path string) error {
	doc, err := export.Build(db, time.Now())
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := export.Write(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
