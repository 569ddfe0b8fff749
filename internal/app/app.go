package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/hrimport/candidate_importer/internal/config"
	v1 "github.com/hrimport/candidate_importer/internal/controller/http/v1"
	"github.com/hrimport/candidate_importer/internal/importer"
	"github.com/hrimport/candidate_importer/internal/infrastructure/report_generator"
	"github.com/hrimport/candidate_importer/internal/repository/postgresql"
	"github.com/hrimport/candidate_importer/internal/storage"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	log *slog.Logger
	cfg *config.Config
}

func New(log *slog.Logger, cfg *config.Config) *App {
	return &App{
		log: log,
		cfg: cfg,
	}
}

func (a *App) Run(ctx context.Context) error {
	a.log.InfoContext(ctx, "starting app",
		slog.String("uploads_dir", a.cfg.App.UploadsDirectory),
		slog.String("artifacts_dir", a.cfg.App.ArtifactsDirectory),
		slog.Int64("max_upload_bytes", a.cfg.App.MaxUploadBytes),
	)

	a.log.InfoContext(ctx, "establishing postgresql connection",
		slog.String("postgresql_host", a.cfg.PostgreSQL.Host),
		slog.String("postgresql_port", a.cfg.PostgreSQL.Port),
		slog.String("postgresql_dbname", a.cfg.PostgreSQL.DBName),
	)

	pool, err := postgresql.NewConnection(ctx, a.log, a.cfg.PostgreSQL)
	if err != nil {
		return fmt.Errorf("failed to create db connection: %w", err)
	}
	defer pool.Close()

	candidatesRepository := postgresql.NewCandidatesRepository(pool)
	uploadsRepository := postgresql.NewUploadsRepository(pool)
	tasksRepository := postgresql.NewTasksRepository(pool)
	rowErrorsRepository := postgresql.NewRowErrorsRepository(pool)
	txManager := postgresql.NewTxManager(pool)

	// Tasks left running by a previous process are unrecoverable, mark
	// them failed before accepting new work.
	if err := tasksRepository.ResetRunningTasks(ctx); err != nil {
		return fmt.Errorf("failed to reset running tasks: %w", err)
	}

	store, err := storage.NewFileSystem(a.cfg.App.UploadsDirectory, a.cfg.App.ArtifactsDirectory)
	if err != nil {
		return fmt.Errorf("failed to create file storage: %w", err)
	}

	tracker := importer.NewProgressTracker(tasksRepository)
	ingestor := importer.NewFileIngestor(a.log, a.cfg.App.MaxUploadBytes, store, uploadsRepository)
	sniffer := importer.NewSchemaSniffer(a.log, store, uploadsRepository)
	orchestrator := importer.NewImportOrchestrator(
		a.log,
		store,
		uploadsRepository,
		candidatesRepository,
		tasksRepository,
		rowErrorsRepository,
		txManager,
		tracker,
		report_generator.New(),
	)
	errorLog := importer.NewErrorLogBuilder(a.log, tracker, rowErrorsRepository, store)

	importsHandler := v1.NewImportsHandler(
		ingestor,
		sniffer,
		orchestrator,
		tracker,
		errorLog,
		store,
		rowErrorsRepository,
		a.cfg.App.MaxUploadBytes,
		importer.SummaryArtifactName,
	)
	candidatesHandler := v1.NewCandidatesHandler(candidatesRepository)

	server := v1.NewServer(a.cfg.HTTP, importsHandler, candidatesHandler)

	erg, ctx := errgroup.WithContext(ctx)

	erg.Go(func() error {
		a.log.InfoContext(ctx, "starting http server",
			slog.String("addr", net.JoinHostPort(a.cfg.HTTP.Host, a.cfg.HTTP.Port)),
		)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}

		return nil
	})

	erg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	a.log.InfoContext(ctx, "all components started")

	if err := erg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		a.log.ErrorContext(ctx, "app stopped with error", slog.String("err", err.Error()))

		return err
	}

	// In-flight imports run detached from the request context, let them
	// reach a terminal state before exiting.
	a.log.InfoContext(ctx, "waiting for in-flight imports")
	orchestrator.Wait()

	a.log.InfoContext(ctx, "app stopped gracefully")

	return nil
}
