// cmd/habitctl/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/Annany2002/habitgrid-backend/config"
	"github.com/Annany2002/habitgrid-backend/internal/cli"
	"github.com/Annany2002/habitgrid-backend/internal/core"
	"github.com/Annany2002/habitgrid-backend/internal/storage"
)

var CLI struct {
	Migrate cli.MigrateCmd `cmd:"" help:"Create missing tables and indexes."`
	Sync    cli.SyncCmd    `cmd:"" help:"Reconcile a user's habit availability."`
	Summary cli.SummaryCmd `cmd:"" help:"Print a user's completion summary."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("habitctl"),
		kong.Description("Maintenance commands for the HabitGrid backend"),
		kong.UsageOnError(),
	)

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	db, err := storage.Connect(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	err = kctx.Run(&cli.Context{
		Ctx:   context.Background(),
		DB:    db,
		Clock: core.SystemClock{},
		Out:   os.Stdout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		db.Close()
		os.Exit(1)
	}
}
