package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/wonny/graham/pkg/config"
)

func testConfig(url string) *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{
			URL:             url,
			MaxConns:        4,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
	}
}

func TestNew(t *testing.T) {
	// Skip if DATABASE_URL is not set
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := New(ctx, testConfig(url))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		t.Errorf("Failed to ping database: %v", err)
	}

	status, err := db.HealthCheck(ctx)
	if err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}

	if !status.Healthy {
		t.Error("Expected database to be healthy")
	}

	if status.Stats.MaxConns != 4 {
		t.Errorf("Expected MaxConns to be 4, got %d", status.Stats.MaxConns)
	}
}

func TestNewWithEmptyURL(t *testing.T) {
	_, err := New(context.Background(), testConfig(""))
	if err == nil {
		t.Error("Expected error with empty database URL, got nil")
	}
}

func TestNewWithInvalidURL(t *testing.T) {
	_, err := New(context.Background(), testConfig("invalid://url"))
	if err == nil {
		t.Error("Expected error with invalid database URL, got nil")
	}
}

func TestClose(t *testing.T) {
	// Close on a zero DB should not panic
	db := &DB{}
	db.Close()
}
