package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/vesselscope/internal/client"
	"github.com/rpggio/vesselscope/internal/config"
	"github.com/rpggio/vesselscope/internal/dataset"
	"github.com/rpggio/vesselscope/internal/domain/entity"
	"github.com/rpggio/vesselscope/internal/domain/requestlog"
	"github.com/rpggio/vesselscope/internal/domain/snapshot"
	"github.com/rpggio/vesselscope/internal/mcp"
	"github.com/rpggio/vesselscope/internal/sqlite"
	"github.com/rpggio/vesselscope/internal/store"
	"github.com/rpggio/vesselscope/internal/transport"
)

var version = "dev"

func main() {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if logPath := os.Getenv(config.EnvPrefix + "LOG_PATH"); logPath != "" {
		fileWriter, file, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := newLogger(logWriter, cfg.Log)

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	requestSvc := requestlog.NewService(sqlite.NewRequestLogRepository(db), logger)
	snapshotSvc := snapshot.NewService(sqlite.NewSnapshotRepository(db), cfg.DB.KeepSnapshots, logger)

	interval, err := entity.ParseDateInterval(cfg.Filter.StartDate, cfg.Filter.EndDate)
	if err != nil {
		logger.Error("invalid filter dates", "error", err)
		os.Exit(1)
	}

	serviceClient := client.New(client.Config{
		BaseURL:   cfg.Service.BaseURL,
		Timeout:   cfg.Service.Timeout,
		RateLimit: cfg.Service.RateLimit,
		RateBurst: cfg.Service.RateBurst,
		UserAgent: "vesselscope/" + version,
		Logger:    logger,
	})
	st := store.New(serviceClient, store.Options{
		Logger:        logger,
		Recorder:      requestSvc,
		Snapshots:     snapshotSvc,
		DateInterval:  interval,
		FocusVesselID: cfg.Filter.FocusVesselID,
	})
	examples := dataset.New(serviceClient, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	warmStart(ctx, logger, st, snapshotSvc)
	if err := st.Initialize(ctx); err != nil {
		// The API stays up so a dashboard can retry with /api/reload.
		logger.Error("initial load failed", "error", err)
	}
	if err := examples.Load(ctx); err != nil {
		logger.Warn("example dataset unavailable", "error", err)
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Store:    st,
			Requests: requestSvc,
		},
		Version: version,
		Logger:  logger,
	})

	// Branch based on transport mode
	if cfg.Transport.Mode == "stdio" {
		runStdioMode(ctx, logger, mcpServer)
		return
	}

	router := transport.NewServer(transport.Config{
		Store:    st,
		Dataset:  examples,
		Requests: requestSvc,
		Logger:   logger,
		APIKey:   cfg.Server.APIKey,
	})
	runHTTPMode(ctx, logger, router, mcpServer, cfg.Server)
}

// warmStart restores the latest snapshot so readers see data before the
// first load completes.
func warmStart(ctx context.Context, logger *slog.Logger, st *store.Store, snapshots *snapshot.Service) {
	snap, err := snapshots.Latest(ctx)
	if errors.Is(err, snapshot.ErrSnapshotNotFound) {
		return
	}
	if err != nil {
		logger.Warn("failed to read snapshot", "error", err)
		return
	}
	st.Restore(*snap)
	logger.Info("restored snapshot", "id", snap.ID, "saved_at", snap.SavedAt)
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, router *chi.Mux, mcpServer *sdkmcp.Server, cfg config.ServerConfig) {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)
	mcpRoutes := router.With(transport.AuthMiddleware(cfg.APIKey))
	mcpRoutes.Handle("/mcp", mcpHandler)
	mcpRoutes.Handle("/mcp/*", mcpHandler)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: file}
	if err := writer.truncateIfNeeded(); err != nil {
		return nil, nil, err
	}
	return writer, file, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogSizeBytes {
		return nil
	}
	if size <= keepLogSizeBytes {
		return nil
	}

	buf := make([]byte, keepLogSizeBytes)
	if _, err := w.file.Seek(size-keepLogSizeBytes, io.SeekStart); err != nil {
		return err
	}
	n, err := w.file.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}
