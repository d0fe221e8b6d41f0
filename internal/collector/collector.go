// Package collector gathers one synthetic CPU reading per server listed in
// a plain-text inventory file.
package collector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/andrej220/hamprobe/internal/lg"
	pc "github.com/andrej220/hamprobe/internal/processor"
	"github.com/andrej220/hamprobe/pkg/executor"
	dm "github.com/andrej220/hamprobe/pkg/shared-models"
)

const DefaultServersFile = "servers.txt"

var ErrInputNotFound = errors.New("server list not found")

// Options configures a collector run.
type Options struct {
	ServersFile string `validate:"required"`
	Precision   int    `validate:"gte=0,lte=6"`
	Seed        uint64
}

// ReadServers returns the addresses listed in path in file order. Blank
// lines and lines starting with '#' are skipped.
func ReadServers(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return pc.NewProcessorChain().Process(lines,
		pc.ProcessorTypeTrim, pc.ProcessorTypeSkipBlank, pc.ProcessorTypeSkipComment)
}

// Collect probes each server in order and returns one metric per server.
// An empty list yields an empty, non-nil slice.
func Collect(ctx context.Context, servers []string, exec executor.Executor) ([]dm.ServerMetric, error) {
	logger := lg.FromContext(ctx)
	metrics := make([]dm.ServerMetric, 0, len(servers))
	for _, server := range servers {
		cpu, err := exec.Probe(ctx, server)
		if err != nil {
			return nil, fmt.Errorf("probe %s: %w", server, err)
		}
		logger.Debug("collected", lg.String("server", server), lg.Float64("cpu", cpu))
		metrics = append(metrics, dm.ServerMetric{Server: server, CPU: cpu})
	}
	return metrics, nil
}

// Run reads the server list and collects a simulated reading per entry.
func Run(ctx context.Context, opts Options) ([]dm.ServerMetric, error) {
	servers, err := ReadServers(opts.ServersFile)
	if err != nil {
		return nil, err
	}
	lg.FromContext(ctx).Info("server list loaded",
		lg.String("file", opts.ServersFile), lg.Int("servers", len(servers)))

	exec := executor.NewSimulatedExecutor(executor.RandomSampler(opts.Seed), opts.Precision)
	return Collect(ctx, servers, exec)
}
