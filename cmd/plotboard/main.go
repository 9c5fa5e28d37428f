// Command plotboard serves one report-authoring session over HTTP: it
// ingests a dataset from the configured source, infers the relationship
// model, and exposes the report, editor, and model APIs.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/plotboard/plotboard/internal/config"
	"github.com/plotboard/plotboard/internal/database"
	"github.com/plotboard/plotboard/internal/database/mysql"
	"github.com/plotboard/plotboard/internal/database/postgres"
	"github.com/plotboard/plotboard/internal/dataset"
	"github.com/plotboard/plotboard/internal/errs"
	"github.com/plotboard/plotboard/internal/filestore/minio"
	"github.com/plotboard/plotboard/internal/logger"
	"github.com/plotboard/plotboard/internal/persist"
	"github.com/plotboard/plotboard/internal/server"
	"github.com/plotboard/plotboard/internal/session"
)

func main() {
	configPath := flag.String("config", "plotboard.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New(nil).Fatalf("load config: %v", err)
	}

	log := logger.New(&logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger.SetGlobal(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatalf("plotboard: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	name, data, schema, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()
	log.With().Str("dataset", name).Int("rows", len(data)).Logger().Info("dataset ingested")

	docs, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}

	sess := session.New(name, data, schema, docs, log)
	defer sess.Close()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(sess, log).Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()
	log.Infof("listening on %s", cfg.Server.Addr)

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// openSource ingests the configured dataset and returns its name, rows,
// declared schema, and a release func for any underlying connection.
func openSource(ctx context.Context, cfg *config.Config) (string, dataset.Dataset, dataset.Schema, func(), error) {
	src := cfg.Source
	switch src.Kind {
	case config.SourceCSV:
		raw, err := os.ReadFile(src.CSVPath)
		if err != nil {
			return "", nil, nil, nil, errs.Wrap(errs.ErrKindNotFound, "read csv file", err)
		}
		data, schema, err := dataset.FromCSV(raw)
		if err != nil {
			return "", nil, nil, nil, err
		}
		name := src.Name
		if name == "" {
			base := filepath.Base(src.CSVPath)
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		return name, data, schema, func() {}, nil

	case config.SourcePostgres, config.SourceMySQL:
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return "", nil, nil, nil, err
		}
		data, schema, err := database.LoadDataset(ctx, db, src.Table, src.RowLimit)
		if err != nil {
			db.Close()
			return "", nil, nil, nil, err
		}
		name := src.Name
		if name == "" {
			name = src.Table
		}
		return name, data, schema, func() { db.Close() }, nil

	default:
		return "", nil, nil, nil, errs.Newf(errs.ErrKindInvalidInput, "unknown source kind %q", src.Kind)
	}
}

func openDatabase(ctx context.Context, cfg *config.Config) (database.DB, error) {
	switch cfg.Source.Kind {
	case config.SourcePostgres:
		return postgres.New(ctx, cfg.Source.Database)
	default:
		return mysql.New(ctx, cfg.Source.Database)
	}
}

// openStorage builds the document store for saved reports and captures.
func openStorage(ctx context.Context, cfg *config.Config) (persist.DocumentStore, error) {
	switch cfg.Storage.Kind {
	case config.StorageMinIO:
		store, err := minio.New(ctx, cfg.Storage.Object)
		if err != nil {
			return nil, err
		}
		return persist.NewObjectStore(ctx, store, cfg.Storage.Object.Bucket)
	default:
		return persist.NewLocalDir(cfg.Storage.LocalDir)
	}
}
