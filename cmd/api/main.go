package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "github.com/Nenad034/OlympicHub-sub000/internal/adapters/http_server"
	"github.com/Nenad034/OlympicHub-sub000/internal/adapters/observability"
	"github.com/Nenad034/OlympicHub-sub000/internal/adapters/parser"
	redisad "github.com/Nenad034/OlympicHub-sub000/internal/adapters/redis"
	"github.com/Nenad034/OlympicHub-sub000/internal/app"
	"github.com/Nenad034/OlympicHub-sub000/internal/shared"
	mysqlrepo "github.com/Nenad034/OlympicHub-sub000/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	extractor, err := parser.New(cfg.ExtractorBase, cfg.ExtractorKey, cfg.ExtractorRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize extractor client")
	}

	q := app.NewQueryService(repo, cache, cfg.CacheTTL)
	pls := app.NewPriceListService(repo, cache)
	imp := app.NewImportService(extractor, repo, cache)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, PL: pls, Imp: imp})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("pricing API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
