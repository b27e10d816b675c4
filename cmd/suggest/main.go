package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/okian/fplhelper/internal/suggestcli"
	"github.com/okian/fplhelper/pkg/logger"
)

// Default configuration constants.
const (
	defaultBaseURL = "http://localhost:9080"
	defaultTimeout = 30 * time.Second
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("suggest", pflag.ContinueOnError)
	cfg := &suggestcli.Config{}
	var verbose bool

	fs.StringVar(&cfg.BaseURL, "url", defaultBaseURL, "Base URL of the service")
	fs.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	fs.StringVarP(&cfg.Format, "format", "f", suggestcli.FormatTable, "Output format: table, csv or json")
	fs.IntVarP(&cfg.EntryID, "entry", "e", 0, "Public FPL entry id to load the squad from")
	fs.IntVar(&cfg.Gameweek, "gw", 0, "Gameweek for --entry (default current)")
	fs.StringVar(&cfg.SquadFile, "squad-file", "", "JSON file with squad ids, player records or a full request")
	fs.IntSliceVarP(&cfg.SquadIDs, "squad", "s", nil, "Comma-separated catalog ids of the squad")
	fs.IntVarP(&cfg.TopN, "top", "n", 0, "Number of suggestions (default server setting)")
	fs.Float64Var(&cfg.MaxSquadValue, "max-squad-value", 0, "Budget cap in millions")
	fs.IntVar(&cfg.MaxPerTeam, "max-per-team", 0, "Players allowed from one club")
	fs.BoolVar(&cfg.Unconstrained, "unconstrained", false, "Skip budget and club checks")
	fs.BoolVar(&cfg.ShowExcluded, "show-excluded", false, "Print how many candidates each limit removed")
	fs.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	fs.Usage = func() { suggestcli.ShowHelp(os.Stderr, fs.FlagUsages()) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	} else {
		_ = logger.SetLevelString("warn")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := suggestcli.Run(ctx, cfg, os.Stdout); err != nil {
		os.Stderr.WriteString("suggest: " + err.Error() + "\n")
		if errors.Is(err, suggestcli.ErrInvalidConfig) {
			return 2
		}
		return 1
	}
	return 0
}
