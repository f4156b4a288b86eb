// The regenerator sweeps every price list of the configured properties and
// regenerates each room type's pricing rules from the current room
// descriptors. Carry-forward keeps operator-entered prices for variants that
// still exist, so the sweep is safe to run after any room reconfiguration.
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

	"github.com/Nenad034/OlympicHub-sub000/internal/adapters/observability"
	redisad "github.com/Nenad034/OlympicHub-sub000/internal/adapters/redis"
	"github.com/Nenad034/OlympicHub-sub000/internal/app"
	"github.com/Nenad034/OlympicHub-sub000/internal/domain"
	"github.com/Nenad034/OlympicHub-sub000/internal/shared"
	mysqlrepo "github.com/Nenad034/OlympicHub-sub000/internal/storage/mysql"
)

// roomsFile maps propertyId -> current room type descriptors, exported by
// room management.
type roomsFile map[string][]domain.RoomType

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Strs("properties", cfg.PropertyIDs).
		Str("rooms_file", cfg.RoomsFile).
		Int("workers", cfg.Workers).
		Msg("regenerator starting")

	raw, err := os.ReadFile(cfg.RoomsFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.RoomsFile).Msg("read rooms file failed")
	}
	var rooms roomsFile
	if err := json.Unmarshal(raw, &rooms); err != nil {
		log.Fatal().Err(err).Msg("decode rooms file failed")
	}

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
	svc := app.NewPriceListService(repo, cache)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, propertyID := range cfg.PropertyIDs {
		descriptors, ok := rooms[propertyID]
		if !ok {
			log.Warn().Str("property", propertyID).Msg("no room descriptors; skipping")
			continue
		}

		lists, err := repo.ListPriceLists(ctx, propertyID)
		if err != nil {
			log.Fatal().Err(err).Str("property", propertyID).Msg("list price lists failed")
		}

		// One worker per price list; room types within a list run
		// sequentially so the document's read-modify-write cycles never
		// race each other.
		for _, pl := range lists {
			listID := pl.ID

			// acquire before launching the goroutine; release inside it
			if err := sem.Acquire(ctx, 1); err != nil {
				log.Fatal().Err(err).Msg("semaphore acquire failed")
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer sem.Release(1)

				for _, rt := range descriptors {
					block, err := svc.RegenerateRules(ctx, listID, rt, false)
					if err != nil {
						log.Warn().
							Str("price_list", listID).
							Str("room_type", rt.RoomTypeID).
							Err(err).
							Msg("regenerate failed")
						continue
					}
					log.Info().
						Str("price_list", listID).
						Str("room_type", rt.RoomTypeID).
						Int("rules", len(block.PricingRules)).
						Msg("regenerate ok")
				}
			}()
		}
	}

	wg.Wait()
	log.Info().Msg("regeneration sweep completed")
}
