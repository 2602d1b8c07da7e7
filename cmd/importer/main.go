package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/yhs/inventory/internal/bulk"
	"github.com/yhs/inventory/internal/config"
	"github.com/yhs/inventory/internal/exchange"
	"github.com/yhs/inventory/internal/logging"
	"github.com/yhs/inventory/internal/sequence"
	"github.com/yhs/inventory/internal/store/postgres"
)

func main() {
	kind := flag.String("kind", "", "import kind: part, product, product-part, client, client-product-price, delivery, delivery-item")
	file := flag.String("file", "", "path to the CSV file")
	flag.Parse()

	if *kind == "" || *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	proc, err := processorFor(*kind)
	if err != nil {
		slog.Error("unknown import kind", "kind", *kind)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Import.Timeout)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}

	if info, err := os.Stat(*file); err != nil {
		slog.Error("failed to stat input file", "file", *file, "error", err)
		os.Exit(1)
	} else if info.Size() > cfg.Import.MaxFileSize {
		slog.Error("input file too large", "file", *file, "size", info.Size(), "limit", cfg.Import.MaxFileSize)
		os.Exit(1)
	}

	batchID := strings.ToLower(uuid.NewString()[:8])
	src := bulk.CSVSource{Path: *file, Columns: proc.RequiredColumns()}
	orch := bulk.NewOrchestrator(postgres.New(pool), logging.WithBatch(batchID))

	result, err := orch.Run(ctx, proc, src)
	if err != nil {
		slog.Error("batch failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("total: %d, succeeded: %d, failed: %d\n",
		result.TotalCount, result.SuccessCount, result.FailureCount)
	for _, f := range result.Failures {
		fmt.Printf("  row %d %v: %s\n", f.RowNumber, f.Keys, f.Message)
	}
	if result.FailureCount > 0 {
		os.Exit(1)
	}
}

// processorFor maps an import kind to its row processor.
func processorFor(kind string) (bulk.RowProcessor, error) {
	switch kind {
	case "part":
		return bulk.PartProcessor{}, nil
	case "product":
		return bulk.ProductProcessor{}, nil
	case "product-part":
		return bulk.MappingProcessor{}, nil
	case "client":
		return bulk.ClientProcessor{}, nil
	case "client-product-price":
		return bulk.PriceProcessor{}, nil
	case "delivery":
		return bulk.DeliveryProcessor{
			Numbers: sequence.NewGenerator(),
			Rates:   exchange.Fallback{},
		}, nil
	case "delivery-item":
		return bulk.DeliveryItemProcessor{}, nil
	}
	return nil, fmt.Errorf("unknown kind: %s", kind)
}
