// Command soknad applies the søknad store migrations.
package main

import (
	"context"
	"embed"
	"os"

	"github.com/ghuser/hmjoarksink/pkg/config"
	"github.com/ghuser/hmjoarksink/pkg/logger"
	"github.com/ghuser/hmjoarksink/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg)
	if err := migrator.Run(context.Background(), cfg.DatabaseURL, MigrationsFS, log); err != nil {
		log.Error("søknad store migration failed", "error", err)
		os.Exit(1)
	}
}
