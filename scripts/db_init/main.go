package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lukeacko/worklog/internal/config"
	"github.com/lukeacko/worklog/internal/db"
	"github.com/lukeacko/worklog/internal/repository/sqlite"
	"github.com/lukeacko/worklog/internal/worklog"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.Store.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.EnsureSchema(ctx, database); err != nil {
		fmt.Fprintf(os.Stderr, "Schema error: %v\n", err)
		os.Exit(1)
	}

	repo := sqlite.New(database, nil)
	svc := worklog.NewService(repo, repo, nil)
	if err := svc.SeedDefaults(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Seed error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database initialized successfully.")
}
