package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/georgemunganga/danasys-storefront/internal/modules/access"
	"github.com/georgemunganga/danasys-storefront/internal/modules/auth"
	"github.com/georgemunganga/danasys-storefront/internal/modules/business"
	"github.com/georgemunganga/danasys-storefront/internal/modules/cart"
	"github.com/georgemunganga/danasys-storefront/internal/modules/catalog"
	"github.com/georgemunganga/danasys-storefront/internal/modules/mode"
	"github.com/georgemunganga/danasys-storefront/internal/modules/order"
	"github.com/georgemunganga/danasys-storefront/internal/modules/user"
	"github.com/georgemunganga/danasys-storefront/internal/modules/wallet"
	"github.com/georgemunganga/danasys-storefront/internal/platform/config"
	"github.com/georgemunganga/danasys-storefront/internal/platform/logging"
	"github.com/georgemunganga/danasys-storefront/internal/platform/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger)
	},
}

func newGateway(c config.WalletGateway) (wallet.Gateway, wallet.Provider, error) {
	provider := wallet.Provider(c.Provider)
	switch provider {
	case wallet.ProviderSandbox:
		// With sandbox off, collections wait for a verify call like a live provider.
		return wallet.NewSandboxGateway(!c.Sandbox), provider, nil
	default:
		return nil, "", fmt.Errorf("wallet gateway %q is not available", c.Provider)
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	// ── Storage ─────────────────────────────────────────────
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	logger.Info("connected to database")

	localDB, modeStorage, err := mode.OpenSQLite(ctx, cfg.LocalStorePath)
	if err != nil {
		return err
	}
	defer localDB.Close()

	policy, err := access.LoadPolicy(cfg.AccessPolicyFile)
	if err != nil {
		return err
	}
	gateway, provider, err := newGateway(cfg.Wallet)
	if err != nil {
		return err
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(logging.AccessLog(logger))

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo, logger)
	authService := auth.NewService(userRepo, cfg.JWTSecret, logger)
	router.Use(auth.Middleware(authService))
	user.NewHandler(userService).RegisterRoutes(router)
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Wallet & business access ────────────────────────────
	walletService := wallet.NewService(wallet.NewPostgresRepository(db), gateway, provider, logger)
	wallet.NewHandler(walletService, logger).RegisterRoutes(router)

	accessService := access.NewService(policy, access.NewPostgresRepository(db), walletService, userService, logger)
	access.NewHandler(accessService, logger).RegisterRoutes(router)

	businessService := business.NewService(business.NewPostgresRepository(db), logger)
	business.NewHandler(businessService, logger).RegisterRoutes(router)

	// ── Storefront ──────────────────────────────────────────
	catalogService := catalog.NewService(catalog.NewPostgresRepository(db), businessService, logger)
	catalog.NewHandler(catalogService, logger).RegisterRoutes(router)

	limits := session.Limits{MaxSessions: cfg.Sessions.Max, IdleTimeout: cfg.Sessions.IdleTimeout}
	carts := cart.NewBoundedRegistry(limits)
	cart.NewHandler(carts, catalogService, logger).RegisterRoutes(router)

	modes := mode.NewBoundedRegistry(modeStorage, limits, logger)
	mode.NewHandler(modes, accessService, logger).RegisterRoutes(router)

	orderService := order.NewService(order.NewPostgresRepository(db), walletService, businessService, logger)
	order.NewHandler(orderService, carts, logger).RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("danasys API listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		carts.Janitor(gctx, cfg.Sessions.SweepEvery)
		return nil
	})
	g.Go(func() error {
		modes.Janitor(gctx, cfg.Sessions.SweepEvery)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
