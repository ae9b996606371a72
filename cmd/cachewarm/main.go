package main

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"makazi/internal/adapters/marketapi"
	"makazi/internal/adapters/observability"
	"makazi/internal/adapters/redisstore"
	"makazi/internal/app"
	"makazi/internal/domain"
	"makazi/internal/shared"
)

// cachewarm primes the Redis cache with the anonymous read set (categories
// plus the first search pages) so a cold gateway start does not stampede the
// upstream API. Run it from cron or at deploy time.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.APIBase).
		Int("workers", cfg.WarmWorkers).
		Int("pages", cfg.WarmPages).
		Msg("cache warmer starting")

	store := redisstore.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.SessionTTL)
	if err := store.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}

	api := marketapi.New(cfg.APIBase, cfg.APITimeout, cfg.APIRateRPS)
	catalog := app.NewCatalogService(api, store, cfg.CacheTTL, log.Logger)

	cats, err := catalog.Categories(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("warming categories failed")
	}
	log.Info().Int("categories", len(cats)).Msg("categories warmed")

	sem := semaphore.NewWeighted(int64(cfg.WarmWorkers))
	var wg sync.WaitGroup

	for page := 1; page <= cfg.WarmPages; page++ {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := catalog.SearchProperties(ctx, "", domain.PropertyQuery{Page: page})
			if err != nil {
				log.Warn().Int("page", page).Err(err).Msg("warm failed")
				return
			}
			log.Info().Int("page", page).Int("items", len(res.Items)).Msg("warm ok")
		}(page)
	}

	wg.Wait()
	log.Info().Msg("cache warm completed")
}
