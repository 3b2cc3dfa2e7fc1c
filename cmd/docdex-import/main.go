// Command docdex-import bulk-loads documents from a CSV file through the
// same dual-write path the API uses, so every imported row lands in both
// the record store and the search index.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/config"
	logpkg "github.com/kailas-cloud/docdex/internal/logger"
	"github.com/kailas-cloud/docdex/internal/metrics"
	"github.com/kailas-cloud/docdex/internal/repository/elastic"
	"github.com/kailas-cloud/docdex/internal/repository/postgres"
	documentuc "github.com/kailas-cloud/docdex/internal/usecase/document"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "posts.csv", "path to the CSV file to import")
	flag.Parse()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	store := postgres.New(pool, time.Duration(cfg.Database.QueryTimeoutSec)*time.Second)
	index, err := elastic.New(elastic.Config{
		Addresses:      cfg.Search.Addresses,
		Index:          cfg.Search.Index,
		RequestTimeout: time.Duration(cfg.Search.RequestTimeoutSec) * time.Second,
		Logger:         logger,
	})
	if err != nil {
		logger.Fatal("Failed to create index client", zap.Error(err))
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeoutSec)*time.Second); err != nil {
		logger.Fatal("Record store not ready", zap.Error(err))
	}
	if err := index.WaitForReady(ctx, time.Duration(cfg.Search.ReadinessTimeoutSec)*time.Second); err != nil {
		logger.Fatal("Search index not ready", zap.Error(err))
	}

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to ensure documents schema", zap.Error(err))
	}
	if err := index.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure search index", zap.Error(err))
	}

	metrics.RegisterSyncMetrics()

	docSvc := documentuc.New(store, index, logger)

	imported, failed, err := importCSV(ctx, docSvc, filePath)
	if err != nil {
		logger.Fatal("Import failed", zap.String("file", filePath), zap.Error(err))
	}

	logger.Info("Import finished",
		zap.String("file", filePath),
		zap.Int("imported", imported),
		zap.Int("failed", failed),
	)
}

// importCSV streams rows from a header-first CSV file into the document
// service. The "text" column is required; rows without it are counted as
// failures rather than aborting the run. Imported rows carry no rubrics.
func importCSV(ctx context.Context, svc *documentuc.Service, path string) (imported, failed int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read csv header: %w", err)
	}

	textCol := -1
	for i, name := range header {
		if name == "text" {
			textCol = i
			break
		}
	}
	if textCol == -1 {
		return 0, 0, fmt.Errorf("csv has no text column, header: %v", header)
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			failed++
			continue
		}
		if textCol >= len(row) {
			failed++
			continue
		}

		if _, err := svc.Create(ctx, []string{}, row[textCol]); err != nil {
			failed++
			continue
		}
		imported++
	}
	return imported, failed, nil
}
