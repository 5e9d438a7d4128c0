package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/lib/pq"

	"github.com/ritamendes/fornaria-backend/internal/config"
	"github.com/ritamendes/fornaria-backend/internal/modules/auth"
	"github.com/ritamendes/fornaria-backend/internal/modules/catalog"
	"github.com/ritamendes/fornaria-backend/internal/modules/customer"
	"github.com/ritamendes/fornaria-backend/internal/modules/order"
	"github.com/ritamendes/fornaria-backend/internal/modules/payment"
	"github.com/ritamendes/fornaria-backend/internal/modules/user"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalw("database open error", "error", err.Error())
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		sugar.Fatalw("database ping error", "error", err.Error())
	}
	sugar.Info("connected to database")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)

	authService := auth.NewService(userRepo, cfg.JWTSecret)
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Catalog & Customers ─────────────────────────────────
	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo)

	customerRepo := customer.NewPostgresRepository(db)
	customerService := customer.NewService(customerRepo)

	// ── Orders & Payments ───────────────────────────────────
	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, catalogService, customerService)

	paymentRepo := payment.NewPostgresRepository(db)
	paymentService := payment.NewService(paymentRepo)

	// Everything except login runs behind the caller-identity middleware.
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.JWTSecret))
		user.NewHandler(userService).RegisterRoutes(r)
		catalog.NewHandler(catalogService).RegisterRoutes(r)
		customer.NewHandler(customerService).RegisterRoutes(r)
		order.NewHandler(orderService).RegisterRoutes(r)
		payment.NewHandler(paymentService).RegisterRoutes(r)
	})

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting fornaria API server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
