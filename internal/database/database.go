package database

import (
	"context"
	"fmt"
	"time"

	"learnos/internal/config"

	_ "github.com/godror/godror" // registers "godror"
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // registers "oracle"
)

// DriverName maps a configured store driver to its database/sql driver name.
func DriverName(store string) (string, error) {
	switch store {
	case config.StoreOracle:
		return "oracle", nil
	case config.StoreGodror:
		return "godror", nil
	}
	return "", fmt.Errorf("store driver %q is not a SQL driver", store)
}

// NewSQLXOracleDB opens and pings an Oracle connection pool.
func NewSQLXOracleDB(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Oracle database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Oracle database: %w", err)
	}
	return db, nil
}
