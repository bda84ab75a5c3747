// Package server wires the application together: logging, database,
// migrations, collaborators, and the HTTP API, with graceful shutdown
// on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/carelight/claimsbridge/internal/audit"
	"github.com/carelight/claimsbridge/internal/config"
	"github.com/carelight/claimsbridge/internal/intake"
	"github.com/carelight/claimsbridge/internal/logging"
	"github.com/carelight/claimsbridge/internal/server/migrations"
	"github.com/carelight/claimsbridge/internal/server/rest"
	"github.com/carelight/claimsbridge/internal/transfer"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	router *gin.Engine
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := runMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	sink := audit.NewPostgresSink(db)
	intakes := intake.NewClient(cfg.IntakeAPIURL, cfg.IntakeAPIKey)

	sftpCfg := transfer.Config{
		Host:     cfg.SFTPHost,
		Port:     cfg.SFTPPort,
		Username: cfg.SFTPUsername,
		Password: cfg.SFTPPassword,
	}
	dial := func(c transfer.Config) (transfer.Session, error) {
		return transfer.Dial(c)
	}

	h := rest.NewHandler(logger, intakes, sink, dial, sftpCfg, cfg.AuditStrict)

	return &App{config: cfg, logger: logger, db: db, router: rest.NewRouter(h)}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{Addr: app.config.HTTPAddr, Handler: app.router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "starting API server", "addr", app.config.HTTPAddr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
