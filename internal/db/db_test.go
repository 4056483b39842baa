package db

import (
	"context"
	"os"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConnectRejectsBadDSN(t *testing.T) {
	if _, err := Connect(context.Background(), "postgres://bad host:port/db", Options{}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestConnectAppliesPoolSize(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	core, logs := observer.New(zap.InfoLevel)
	pool, err := Connect(context.Background(), dsn, Options{MaxConns: 3, Logger: zap.New(core)})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if got := pool.Config().MaxConns; got != 3 {
		t.Fatalf("expected max conns 3, got %d", got)
	}
	if logs.FilterMessage("db connected").Len() != 1 {
		t.Fatalf("connect not logged")
	}
}
