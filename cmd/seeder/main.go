package main

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"sync/atomic"

	"github.com/alecthomas/kong"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"campfind/internal/adapters/observability"
	"campfind/internal/domain"
	"campfind/internal/storage/memory"
	mysqlrepo "campfind/internal/storage/mysql"
)

var CLI struct {
	DSN     string `help:"MySQL DSN" env:"MYSQL_DSN"`
	File    string `short:"f" help:"Catalog YAML file; the embedded demo catalog when empty" type:"existingfile"`
	Workers int    `short:"w" help:"Concurrent upserts" default:"8"`
	Env     string `help:"Log format environment" env:"APP_ENV" default:"prod"`
	DryRun  bool   `help:"Parse and validate the catalog without writing"`
}

func main() {
	kong.Parse(&CLI, kong.Description("Load a camp catalog into MySQL."))
	ctx := context.Background()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(CLI.Env)

	catalog, err := loadCatalog(CLI.File)
	if err != nil {
		log.Fatal().Err(err).Msg("catalog load failed")
	}
	log.Info().
		Int("camps", len(catalog.Camps)).
		Int("rooms", len(catalog.Rooms)).
		Int("workers", CLI.Workers).
		Msg("seeder starting")
	if CLI.DryRun {
		log.Info().Msg("dry run, nothing written")
		return
	}
	if CLI.DSN == "" {
		log.Fatal().Msg("--dsn or MYSQL_DSN is required")
	}

	db, err := sql.Open("mysql", CLI.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	repo := mysqlrepo.New(db)
	if err := repo.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	// camps first: rooms reference them
	failed := seed(ctx, catalog.Camps, CLI.Workers, func(c domain.Camp) (string, error) {
		return c.ID, repo.UpsertCamp(ctx, c)
	})
	failed += seed(ctx, catalog.Rooms, CLI.Workers, func(r domain.Room) (string, error) {
		return r.ID, repo.UpsertRoom(ctx, r)
	})

	if failed > 0 {
		log.Error().Int64("failed", failed).Msg("seeding finished with errors")
		os.Exit(1)
	}
	log.Info().Msg("seeding completed")
}

func loadCatalog(path string) (domain.Catalog, error) {
	if path == "" {
		return memory.DefaultCatalog()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, err
	}
	return memory.ParseCatalog(b)
}

// seed runs upsert over items with at most workers in flight and returns the failure count.
func seed[T any](ctx context.Context, items []T, workers int, upsert func(T) (string, error)) int64 {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)
	for _, it := range items {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func(it T) {
			defer wg.Done()
			defer sem.Release(1)
			id, err := upsert(it)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("id", id).Err(err).Msg("upsert failed")
				return
			}
			log.Debug().Str("id", id).Msg("upsert ok")
		}(it)
	}
	wg.Wait()
	return failed.Load()
}
