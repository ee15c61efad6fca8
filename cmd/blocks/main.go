// Command blocks regenerates the schedule catalog. Every existing block and
// reservation is replaced by the fixed daily layout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"gymbooking/config"
	"gymbooking/internal/adapters/events"
	"gymbooking/internal/domain"
	"gymbooking/internal/repository/postgres"
	"gymbooking/internal/services"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Print the generated blocks without writing them")
	capacity := flag.Int("capacity", 0, "Seats per block (defaults to BLOCK_CAPACITY)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := config.NewLogger(cfg.Environment)

	rule := services.DefaultRule(cfg.BlockCapacity)
	if *capacity > 0 {
		rule.Capacity = *capacity
	}

	if err := run(cfg, logger, rule, *dryRun, os.Stdout); err != nil {
		logger.Error("blocks command failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, rule services.BlockRule, dryRun bool, out io.Writer) error {
	if dryRun {
		blocks, err := services.GenerateBlocks(rule)
		if err != nil {
			return fmt.Errorf("generate blocks: %w", err)
		}
		printBlocks(out, blocks)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := postgres.RunMigrations(ctx, db, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	catalog := services.NewCatalogService(postgres.NewTimeBlockRepository(db), events.Noop{}, rule, domain.SystemClock{}, logger, cfg.Timeout)
	blocks, err := catalog.Regenerate(ctx)
	if err != nil {
		return fmt.Errorf("regenerate blocks: %w", err)
	}
	printBlocks(out, blocks)
	logger.Info("schedule regenerated", "blocks", len(blocks))
	return nil
}

func printBlocks(w io.Writer, blocks []*domain.TimeBlock) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTART\tEND\tCAPACITY")
	for _, b := range blocks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", b.Name, b.StartTime, b.EndTime, b.Capacity)
	}
	_ = tw.Flush()
}
