// Command bucketeer works a single file-backed budget from the
// terminal: inspect the summary and buckets, and move state in and out
// as CSV. The data directory comes from DATA_DIR.
package main

import (
	"fmt"
	"os"

	"bucketeer/internal/budget"
	"bucketeer/internal/config"
	"bucketeer/internal/logger"
	"bucketeer/internal/money"
	"bucketeer/internal/store"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("bucketeer error: %v", err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: bucketeer <summary|buckets|export|import FILE>")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileStore, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open data dir: %w", err)
	}
	engine, err := budget.NewEngine(fileStore)
	if err != nil {
		return fmt.Errorf("failed to load budget: %w", err)
	}

	switch command := os.Args[1]; command {
	case "summary":
		printSummary(engine.Summary())

	case "buckets":
		printBuckets(engine.Buckets(), budget.SpendByBucket(engine.Expenses()))

	case "export":
		fmt.Print(engine.ExportCSV())

	case "import":
		if len(os.Args) < 3 {
			return fmt.Errorf("usage: bucketeer import FILE")
		}
		data, err := os.ReadFile(os.Args[2])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", os.Args[2], err)
		}
		if err := engine.ImportCSV(string(data)); err != nil {
			return err
		}
		if err := engine.Flush(); err != nil {
			return fmt.Errorf("failed to save imported budget: %w", err)
		}
		logger.Get().Infof("Imported %s", os.Args[2])

	default:
		return fmt.Errorf("unknown command: %s (use summary, buckets, export, or import)", command)
	}

	return nil
}

func printSummary(s budget.Summary) {
	fmt.Printf("Income      %12s\n", s.Income)
	fmt.Printf("Allocated   %12s\n", s.Allocated)
	fmt.Printf("Remaining   %12s\n", s.Remaining)
	fmt.Printf("Spent       %12s\n", s.TotalSpent)
	fmt.Printf("Available   %12s\n", s.Available)
	if s.OverAllocated() {
		fmt.Println("Warning: allocated more than income covers")
	}
}

func printBuckets(buckets []budget.BucketView, spend map[string]money.Cents) {
	for _, b := range buckets {
		name := b.Name
		if b.Archived {
			name += " (archived)"
		}
		fmt.Printf("%-14s %-30s %12s  spent %s\n", b.CategoryTitle, name, b.Amount, spend[b.ID])
	}
}
