package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"pokemon_review/internal/adapters/observability"
	"pokemon_review/internal/adapters/pokeapi"
	redisad "pokemon_review/internal/adapters/redis"
	"pokemon_review/internal/app"
	"pokemon_review/internal/domain"
	"pokemon_review/internal/shared"
	mysqlrepo "pokemon_review/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	for _, w := range cfg.Warnings {
		log.Warn().Msg(w)
	}

	log.Info().
		Str("base", cfg.PokeAPIBase).
		Int("workers", cfg.SeedWorkers).
		Int("count", cfg.SeedCount).
		Msg("seeder starting")

	db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("mysql connect failed")
	}
	defer db.Close()
	log.Info().Msg("db ping ok")

	var locker domain.NameLocker
	if cfg.RedisAddr != "" {
		l := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer l.Close()
		locker = l
	}

	pokemon := app.NewPokemonService(mysqlrepo.New(db), locker, cfg.NameLockTTL)
	seeder := app.NewSeedService(pokeapi.New(cfg.PokeAPIBase, cfg.PokeAPIRPS), pokemon)

	workers := cfg.SeedWorkers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg      sync.WaitGroup
		created atomic.Int64
		failed  atomic.Int64
	)

	for id := 1; id <= cfg.SeedCount; id++ {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("seeding interrupted")
			break
		}

		wg.Add(1)
		go func(upstreamID int) {
			defer wg.Done()
			defer sem.Release(1)

			ok, err := seeder.SeedPokemon(ctx, upstreamID)
			if err != nil {
				failed.Add(1)
				log.Warn().Int("upstream_id", upstreamID).Err(err).Msg("seed failed")
				return
			}
			if ok {
				created.Add(1)
				log.Debug().Int("upstream_id", upstreamID).Msg("seed ok")
			}
		}(id)
	}

	wg.Wait()
	log.Info().
		Int64("created", created.Load()).
		Int64("failed", failed.Load()).
		Msg("seeding completed")
}
