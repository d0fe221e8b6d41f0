// storyfetcher prints the current top stories as a JSON array of trimmed
// records. The number of stories comes from a one-line count file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrej220/hamprobe/internal/lg"
	"github.com/andrej220/hamprobe/internal/stories"
	"github.com/andrej220/hamprobe/pkg/persistence"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func run(ctx context.Context, args []string) error {
	cfg, err := NewStoryFetcherConfig(args)
	if err != nil {
		return err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger := lg.New(cfg.Log).With(lg.String("run", uuid.NewString()))
	defer logger.Sync()
	ctx = lg.Attach(ctx, logger)

	records, err := stories.Run(ctx, cfg.Fetcher)
	if err != nil {
		logger.Error("fetch failed", lg.Err(err))
		return err
	}
	if err := persistence.WriteJSON(records, cfg.OutFile); err != nil {
		logger.Error("write failed", lg.Err(err))
		return err
	}
	logger.Info("fetch finished", lg.Int("stories", len(records)))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "storyfetcher:", err)
		os.Exit(1)
	}
}
