// Package main provides the difftap CLI: replay a captured trace log into
// the logging demux and print the materialized attribute streams.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rayokota/declarative-dataflow/pkg/dataflow"
)

// Version information set during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("difftap %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		return
	}

	cfg := LoadConfig()
	if err := run(context.Background(), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "difftap: %v\n", err)
		os.Exit(1)
	}
}

// run opens the configured capture source, replays it through the demux,
// and prints every materialized tuple grouped by attribute.
func run(ctx context.Context, cfg Config) error {
	source, cleanup, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	logging := dataflow.Logging{Attributes: cfg.Attributes}
	streams, tap, err := logging.Source(source)
	if err != nil {
		return err
	}

	if err := tap.Run(ctx); err != nil {
		return err
	}

	for _, as := range streams {
		tuples := as.Channel.DrainTuples()
		fmt.Printf("%s (%s): %d tuples\n", as.Aid, as.Config.Semantics, len(tuples))
		for _, t := range tuples {
			fmt.Printf("  ((Eid(%d), %d), %s, %+d)\n", t.Data.Entity, t.Data.Value, t.Time, t.Diff)
		}
		_ = as.Channel.Close()
	}

	return nil
}
