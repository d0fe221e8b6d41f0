package main

import (
	"flag"

	"github.com/andrej220/hamprobe/internal/collector"
	"github.com/andrej220/hamprobe/internal/lg"
	"github.com/andrej220/hamprobe/pkg/executor"
)

const SERVICENAME = "metriccollector"

type MetricCollectorConfig struct {
	Collector collector.Options
	OutFile   string
	Log       *lg.Config
}

func NewMetricCollectorConfig(args []string) (*MetricCollectorConfig, error) {
	cfg := &MetricCollectorConfig{}
	fs := flag.NewFlagSet(SERVICENAME, flag.ContinueOnError)
	fs.StringVar(&cfg.Collector.ServersFile, "servers", collector.DefaultServersFile, "file with one server address per line")
	fs.IntVar(&cfg.Collector.Precision, "precision", executor.DefaultPrecision, "decimal places of the cpu reading")
	fs.Uint64Var(&cfg.Collector.Seed, "seed", 0, "random seed, 0 picks a random one")
	fs.StringVar(&cfg.OutFile, "out", "-", "output file, - for stdout")
	cfg.Log = lg.BindFlags(fs, SERVICENAME)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}
