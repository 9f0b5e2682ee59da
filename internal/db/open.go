package db

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"northwind-orders/internal/config"
)

// OpenGorm connects the ORM realization. The handle is created once at
// process start and passed down explicitly; operations scope their own
// work on it.
func OpenGorm(cfg config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if cfg.Verbose {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}
	switch cfg.Driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
	case "postgres":
		dsn := WithSearchPath(NormalizeDSN(cfg.DSN), cfg.Schema)
		return gorm.Open(postgres.Open(dsn), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// OpenSQL connects the parameterized-query realization through
// database/sql: pgx stdlib for postgres, mattn sqlite3 for sqlite.
func OpenSQL(cfg config.Config) (*sql.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return sql.Open("sqlite3", cfg.DSN)
	case "postgres":
		return sql.Open("pgx", WithSearchPath(NormalizeDSN(cfg.DSN), cfg.Schema))
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}
