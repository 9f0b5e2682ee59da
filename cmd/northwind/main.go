package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"northwind-orders/internal/cli"
	"northwind-orders/internal/config"
	"northwind-orders/internal/db"
	"northwind-orders/internal/i18n"
	"northwind-orders/internal/services"
	"northwind-orders/internal/store/gormstore"
	"northwind-orders/internal/store/sqlstore"
)

var langFlag = flag.String("lang", "", "Message language (pt|en), overrides APP_LANG")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	if *langFlag != "" {
		cfg.Lang = *langFlag
	}
	lang := i18n.DetectLanguage(cfg.Lang)

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Both realizations get their own handle, created once here and torn
	// down at exit; no package-level database state anywhere.
	sqlDB, err := db.OpenSQL(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open database/sql handle")
	}
	defer sqlDB.Close()

	gormDB, err := db.OpenGorm(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open gorm handle")
	}
	if conn, err := gormDB.DB(); err == nil {
		defer conn.Close()
	}

	sqlStore := sqlstore.New(sqlDB, sqlStoreConfig(cfg))
	driverSvc := services.NewOrderService(sqlStore, log.With().Str("mode", "driver").Logger())
	ormSvc := services.NewOrderService(gormstore.New(gormDB), log.With().Str("mode", "orm").Logger())

	menu := cli.New(os.Stdin, os.Stdout, lang, driverSvc, ormSvc, sqlStore)
	menu.Run(context.Background())
}

func sqlStoreConfig(cfg config.Config) sqlstore.Config {
	storeCfg := sqlstore.Config{}
	if cfg.Schema != "" {
		storeCfg.TablePrefix = cfg.Schema + "."
	}
	if cfg.Driver == "postgres" {
		storeCfg.Bind = sqlstore.BindDollar
	}
	return storeCfg
}
