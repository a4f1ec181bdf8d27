package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"city_weather/internal/adapters/csvfile"
	"city_weather/internal/adapters/geoapify"
	"city_weather/internal/adapters/httpjson"
	"city_weather/internal/adapters/mapfeed"
	"city_weather/internal/adapters/observability"
	redisad "city_weather/internal/adapters/redis"
	"city_weather/internal/app"
	"city_weather/internal/domain"
	"city_weather/internal/shared"
	mysqlrepo "city_weather/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, "vacation")
	observability.Serve(cfg.MetricsAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	citiesPath := filepath.Join(cfg.OutputDir, "cities.csv")
	rows, err := csvfile.LoadDataset(citiesPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", citiesPath).Msg("read dataset failed")
	}
	incomplete := 0
	for _, r := range rows {
		if !r.Complete() {
			incomplete++
		}
	}
	log.Info().Int("rows", len(rows)).Int("incomplete", incomplete).Msg("dataset loaded")

	prefs := cfg.Preferences
	ideal := app.FilterPreferred(rows, prefs)
	log.Info().Interface("preferences", prefs).Int("matched", len(ideal)).Msg("cities filtered")

	places, err := geoapify.New(cfg.PlacesBase, cfg.PlacesKey, httpjson.Options{
		Timeout:    cfg.HTTPTimeout,
		RPS:        cfg.PlacesRPS,
		MaxRetries: cfg.PlacesMaxRetries,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("places client init failed")
	}

	runs, closeRuns := openRuns(cfg)
	defer closeRuns()
	var run domain.Run
	if runs != nil {
		if run, err = runs.Start(ctx, domain.RunVacation, citiesPath); err != nil {
			log.Fatal().Err(err).Msg("run start failed")
		}
	}

	enricher := app.NewEnricher(places).WithObserver(func(a app.HotelAttempt) {
		observability.ObservePipeline("enrich", a.Found())
		app.LogHotel(a)
	})
	res, err := enricher.Enrich(ctx, ideal)
	if err != nil {
		log.Fatal().Err(err).Int("searched", len(res.Attempts)).Msg("hotel search interrupted")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("output dir")
	}
	hotelsPath := filepath.Join(cfg.OutputDir, "hotels.csv")
	if err := csvfile.SaveHotels(hotelsPath, res.Hotels); err != nil {
		log.Fatal().Err(err).Str("path", hotelsPath).Msg("write hotels failed")
	}
	layerPath := filepath.Join(cfg.OutputDir, "hotels.geojson")
	if err := mapfeed.Save(layerPath, mapfeed.HotelLayer(res.Hotels)); err != nil {
		log.Error().Err(err).Str("path", layerPath).Msg("write hotel layer failed")
	}

	if runs != nil {
		if err := runs.RecordHotels(ctx, run, res); err != nil {
			log.Fatal().Err(err).Msg("record run failed")
		}
		log.Info().Str("run", run.ID).Msg("run recorded")
	}
	log.Info().Str("path", hotelsPath).Int("rows", len(res.Hotels)).Msg("vacation completed")
}

func openRuns(cfg shared.Config) (*app.RunService, func()) {
	if cfg.MySQLDSN == "" {
		return nil, func() {}
	}
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	var cache domain.Cache
	closers := []func() error{db.Close}
	if cfg.RedisAddr != "" {
		c := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		cache = c
		closers = append(closers, c.Close)
	}
	return app.NewRunService(mysqlrepo.New(db), cache), func() {
		for _, c := range closers {
			_ = c()
		}
	}
}
