package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/internal/catalogsync"
	"storefront/internal/commerce"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/logging"
	"storefront/internal/migrate"
	categoryrepo "storefront/internal/repository/category"
	productrepo "storefront/internal/repository/product"
	"storefront/internal/repository/session"
	cartsvc "storefront/internal/service/cart"
	categorysvc "storefront/internal/service/category"
	customersvc "storefront/internal/service/customer"
	productsvc "storefront/internal/service/product"
	"storefront/internal/telemetry"
)

// sessionIdle is how long an engine stays in memory without requests.
const sessionIdle = 30 * time.Minute

func main() {
	cfg, err := config.Load(os.Getenv("STOREFRONT_CONFIG"))
	if err != nil {
		panic(err)
	}
	logger, err := logging.New(cfg.LogLevel, "storefront")
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("storefront stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTLPEndpoint, "storefront")
	if err != nil {
		return err
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(tctx); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	dbpool, err := db.Connect(ctx, cfg.DBConnString, db.Options{MaxConns: cfg.DBMaxConns, Logger: logger})
	if err != nil {
		return err
	}
	defer dbpool.Close()

	if os.Getenv("MIGRATE_ON_START") == "true" {
		if err := migrate.Apply(ctx, dbpool); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	client := commerce.New(commerce.Options{
		APIURL:       cfg.CommerceAPIURL,
		AuthURL:      cfg.CommerceAuthURL,
		ProjectKey:   cfg.CommerceProjectKey,
		ClientID:     cfg.CommerceClientID,
		ClientSecret: cfg.CommerceClientSecret,
		Scopes:       cfg.CommerceScopes,
		Timeout:      cfg.GatewayTimeout,
		Logger:       logger,
	})

	bindings := session.NewMemory(cfg.SessionTTL)
	if cfg.RedisURL != "" {
		rdb, err := session.Dial(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		bindings = session.NewRedis(rdb, cfg.SessionTTL)
		logger.Info("session bindings stored in redis")
	}

	sessions := cartsvc.NewSessions(client, bindings, cartsvc.SessionsOptions{
		Currency:        cfg.DefaultCurrency,
		MutationTimeout: cfg.MutationTimeout,
		Logger:          logger.Named("cart"),
	})

	productRepo := productrepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool, logger)
	categoryService := categorysvc.New(categoryRepo)
	productService := productsvc.New(productRepo, categoryService)
	customerService := customersvc.New(client, logger.Named("customer"))

	srv := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Sessions:    sessions,
		Products:    productService,
		Categories:  categoryService,
		Customers:   customerService,
		DB:          dbpool,
		Upstream:    client,
		CORSOrigins: cfg.CORSOrigins,
		SessionTTL:  cfg.SessionTTL,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	if cfg.CatalogSyncInterval > 0 {
		syncer := catalogsync.New(client, productRepo, categoryRepo, logger.Named("catalogsync"))
		g.Go(func() error {
			return syncer.Loop(gctx, cfg.CatalogSyncInterval)
		})
	}
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := sessions.Sweep(sessionIdle); n > 0 {
					logger.Debug("idle sessions released", zap.Int("count", n))
				}
			}
		}
	})

	err = g.Wait()
	if err == nil {
		logger.Info("server stopped")
	}
	return err
}
