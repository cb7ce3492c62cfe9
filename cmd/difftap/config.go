package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	capfile "github.com/rayokota/declarative-dataflow/internal/adapters/capture/file"
	capsqlite "github.com/rayokota/declarative-dataflow/internal/adapters/capture/sqlite"
	"github.com/rayokota/declarative-dataflow/internal/core/replay"
	"github.com/rayokota/declarative-dataflow/pkg/dataflow"
	"github.com/rayokota/declarative-dataflow/pkg/serialization"
)

// Config holds the CLI configuration, loaded from the environment.
type Config struct {
	// CaptureFile is a framed capture stream on disk.
	CaptureFile string
	// CaptureDB is a SQLite capture store; requires CaptureRunID.
	CaptureDB    string
	CaptureRunID string
	// Attributes to materialize; defaults to the size attribute.
	Attributes []dataflow.Aid
}

// LoadConfig reads configuration from .env (if present) and the process
// environment.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		CaptureFile:  os.Getenv("DIFFTAP_CAPTURE_FILE"),
		CaptureDB:    os.Getenv("DIFFTAP_CAPTURE_DB"),
		CaptureRunID: os.Getenv("DIFFTAP_RUN_ID"),
	}

	if raw := os.Getenv("DIFFTAP_ATTRIBUTES"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				cfg.Attributes = append(cfg.Attributes, dataflow.Aid(part))
			}
		}
	}
	if len(cfg.Attributes) == 0 {
		cfg.Attributes = []dataflow.Aid{dataflow.SizeAttribute}
	}

	return cfg
}

// openSource resolves the configured capture transport into a batch source.
func openSource(ctx context.Context, cfg Config) (replay.BatchSource, func(), error) {
	serializer := serialization.DefaultSerializer()

	switch {
	case cfg.CaptureFile != "":
		f, err := os.Open(cfg.CaptureFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open capture file: %w", err)
		}
		reader, err := capfile.NewReader(f, serializer)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		return reader, func() { f.Close() }, nil

	case cfg.CaptureDB != "":
		if cfg.CaptureRunID == "" {
			return nil, nil, fmt.Errorf("DIFFTAP_RUN_ID is required with DIFFTAP_CAPTURE_DB")
		}
		db, err := sql.Open("sqlite", cfg.CaptureDB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open capture database: %w", err)
		}
		store := capsqlite.NewStore(db, serializer)
		source, err := store.Source(ctx, cfg.CaptureRunID)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return source, func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("set DIFFTAP_CAPTURE_FILE or DIFFTAP_CAPTURE_DB")
	}
}
