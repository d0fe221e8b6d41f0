// metriccollector prints a simulated CPU reading for every server listed in
// the input file as a JSON array.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/andrej220/hamprobe/internal/collector"
	"github.com/andrej220/hamprobe/internal/lg"
	"github.com/andrej220/hamprobe/pkg/persistence"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func run(ctx context.Context, args []string) error {
	cfg, err := NewMetricCollectorConfig(args)
	if err != nil {
		return err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger := lg.New(cfg.Log).With(lg.String("run", uuid.NewString()))
	defer logger.Sync()
	ctx = lg.Attach(ctx, logger)

	metrics, err := collector.Run(ctx, cfg.Collector)
	if err != nil {
		logger.Error("collection failed", lg.Err(err))
		return err
	}
	if err := persistence.WriteJSON(metrics, cfg.OutFile); err != nil {
		logger.Error("write failed", lg.Err(err))
		return err
	}
	logger.Info("collection finished", lg.Int("servers", len(metrics)))
	return nil
}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "metriccollector:", err)
		os.Exit(1)
	}
}
