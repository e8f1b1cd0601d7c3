package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/config"
	"github.com/mmynk/receiptsplit/internal/ledger"
	"github.com/mmynk/receiptsplit/internal/middleware"
	"github.com/mmynk/receiptsplit/internal/service"
	"github.com/mmynk/receiptsplit/internal/storage"
	"github.com/mmynk/receiptsplit/internal/storage/memory"
	"github.com/mmynk/receiptsplit/internal/storage/sqlite"
	"github.com/mmynk/receiptsplit/pkg/api"
	"github.com/mmynk/receiptsplit/pkg/logging"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg := config.Load()
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped gracefully")
}

func newStore(backend string) (storage.Store, error) {
	switch backend {
	case "sqlite":
		return sqlite.New()
	default:
		return memory.New(), nil
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStore(cfg.StoreBackend)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "backend", cfg.StoreBackend)

	l, err := ledger.New(ctx, store, ledger.WithTaxRates(calculator.TaxRates{
		TPS: cfg.TPSRate,
		TVQ: cfg.TVQRate,
	}))
	if err != nil {
		return err
	}

	interceptors := []connect.Interceptor{middleware.LoggingInterceptor()}

	mux := http.NewServeMux()
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		interceptors = append(interceptors, middleware.NewMetrics(reg).Interceptor())
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	path, handler := api.NewLedgerServiceHandler(
		service.NewLedgerService(l),
		connect.WithInterceptors(interceptors...),
	)
	mux.Handle(path, handler)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(middleware.CORS(mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting", "address", srv.Addr, "metrics", cfg.MetricsEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down", "timeout", cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
