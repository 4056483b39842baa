package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"storefront/internal/catalogsync"
	"storefront/internal/commerce"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/importer"
	"storefront/internal/logging"
	categoryrepo "storefront/internal/repository/category"
	productrepo "storefront/internal/repository/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Import a product CSV export instead of syncing from the platform")
	flag.Parse()

	cfg, err := config.Load(os.Getenv("STOREFRONT_CONFIG"))
	if err != nil {
		panic(err)
	}
	logger, err := logging.New(cfg.LogLevel, "catalogsync")
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, db.Options{MaxConns: cfg.DBMaxConns, Logger: logger})
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	products := productrepo.NewPostgres(pool, logger)

	if filePath != "" {
		f, err := os.Open(filePath)
		if err != nil {
			logger.Fatal("open file", zap.Error(err))
		}
		defer f.Close()

		start := time.Now()
		count, err := importer.NewCSVImporter(f, products).Run(ctx)
		if err != nil {
			logger.Fatal("import failed", zap.Error(err))
		}
		logger.Info("csv imported", zap.Int("products", count), zap.Duration("took", time.Since(start).Truncate(time.Millisecond)))
		return
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
	syncer := catalogsync.New(client, products, categoryrepo.NewPostgres(pool, logger), logger)
	if _, err := syncer.Run(ctx); err != nil {
		logger.Fatal("catalog sync failed", zap.Error(err))
	}
}
