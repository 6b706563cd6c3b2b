package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_admin/internal/adapters/observability"
	redisad "hotel_admin/internal/adapters/redis"
	"hotel_admin/internal/app"
	"hotel_admin/internal/domain"
	"hotel_admin/internal/shared"
	mysqlrepo "hotel_admin/internal/storage/mysql"
)

// seedRecord is one hotel in the seed file: the scalar fields plus the
// related collections the create workflow fans out over.
type seedRecord struct {
	domain.Hotel
	Amenities        []int64                  `json:"amenities"`
	Rooms            []domain.Room            `json:"rooms"`
	ImageURLs        []string                 `json:"image_urls"`
	ReviewAggregates []domain.ReviewAggregate `json:"review_aggregates"`
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	raw, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		log.Fatal().Str("file", cfg.SeedFile).Err(err).Msg("read seed file failed")
	}
	var records []seedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Fatal().Str("file", cfg.SeedFile).Err(err).Msg("parse seed file failed")
	}

	log.Info().
		Str("file", cfg.SeedFile).
		Int("hotels", len(records)).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	svc := app.NewHotelService(repo, cache)

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, rec := range records {
		rec := rec

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			related := domain.RelatedData{
				AmenityIDs:       &rec.Amenities,
				Rooms:            &rec.Rooms,
				ImageURLs:        &rec.ImageURLs,
				ReviewAggregates: &rec.ReviewAggregates,
			}
			res, err := svc.CreateComplete(ctx, rec.Hotel, related)
			if err != nil {
				log.Warn().Str("name", rec.NameEN).Err(err).Msg("seed hotel failed")
				return
			}
			if res.PartialFailure() {
				log.Warn().Int64("id", res.Hotel.ID).Strs("warnings", res.Warnings).Msg("seeded with warnings")
				return
			}
			log.Info().Int64("id", res.Hotel.ID).Str("name", res.Hotel.NameEN).Msg("seeded")
		}()
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}
