package main

import (
	"flag"

	"github.com/andrej220/hamprobe/internal/lg"
	"github.com/andrej220/hamprobe/internal/stories"
	"github.com/andrej220/hamprobe/pkg/executor"
)

const SERVICENAME = "storyfetcher"

type StoryFetcherConfig struct {
	Fetcher stories.Options
	OutFile string
	Log     *lg.Config
}

func NewStoryFetcherConfig(args []string) (*StoryFetcherConfig, error) {
	cfg := &StoryFetcherConfig{}
	fs := flag.NewFlagSet(SERVICENAME, flag.ContinueOnError)
	fs.StringVar(&cfg.Fetcher.ConfigFile, "config", stories.DefaultConfigFile, "file holding the number of stories to fetch")
	fs.StringVar(&cfg.Fetcher.BaseURL, "base-url", stories.DefaultBaseURL, "API root serving topstories.json and item/{id}.json")
	fs.DurationVar(&cfg.Fetcher.Timeout, "timeout", executor.DefaultTimeout, "per-request timeout")
	fs.IntVar(&cfg.Fetcher.Workers, "workers", stories.DefaultWorkers, "concurrent item fetches")
	fs.Uint64Var(&cfg.Fetcher.Retries, "retries", executor.DefaultRetries, "retries per request on transient errors")
	fs.StringVar(&cfg.OutFile, "out", "-", "output file, - for stdout")
	cfg.Log = lg.BindFlags(fs, SERVICENAME)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}
