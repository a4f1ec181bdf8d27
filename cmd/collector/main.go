package main

import (
	"context"
	"database/sql"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"city_weather/internal/adapters/csvfile"
	"city_weather/internal/adapters/gazetteer"
	"city_weather/internal/adapters/httpjson"
	"city_weather/internal/adapters/mapfeed"
	"city_weather/internal/adapters/nominatim"
	"city_weather/internal/adapters/observability"
	"city_weather/internal/adapters/openweather"
	redisad "city_weather/internal/adapters/redis"
	"city_weather/internal/app"
	"city_weather/internal/domain"
	"city_weather/internal/shared"
	mysqlrepo "city_weather/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, "collector")
	observability.Serve(cfg.MetricsAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver, err := newResolver(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("resolver", cfg.Resolver).Msg("resolver init failed")
	}
	weather, err := openweather.New(cfg.WeatherBase, cfg.WeatherKey, cfg.WeatherUnits, httpjson.Options{
		Timeout:    cfg.HTTPTimeout,
		RPS:        cfg.WeatherRPS,
		MaxRetries: cfg.WeatherMaxRetries,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("weather client init failed")
	}

	seed := cfg.SampleSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	log.Info().
		Str("resolver", cfg.Resolver).
		Int("sample_size", cfg.SampleSize).
		Uint64("seed", seed).
		Str("output", cfg.OutputDir).
		Msg("collector starting")

	citiesPath := filepath.Join(cfg.OutputDir, "cities.csv")
	runs, closeRuns := openRuns(cfg)
	defer closeRuns()

	var run domain.Run
	if runs != nil {
		if run, err = runs.Start(ctx, domain.RunCollect, citiesPath); err != nil {
			log.Fatal().Err(err).Msg("run start failed")
		}
	}

	sampler := app.NewSampler(resolver, app.UniformCoordinates(rand.New(rand.NewPCG(seed, seed>>1)))).
		WithObserver(func(d app.Draw) {
			observability.ObservePipeline("sample", d.Kept)
			app.LogDraw(d)
		})
	cities, draws, err := sampler.Sample(ctx, cfg.SampleSize)
	if err != nil {
		log.Fatal().Err(err).Int("draws", len(draws)).Msg("sampling interrupted")
	}
	log.Info().Int("draws", len(draws)).Int("cities", len(cities)).Msg("sampling complete")

	collector := app.NewCollector(weather).WithObserver(func(a app.Attempt) {
		observability.ObservePipeline("collect", a.OK())
		app.LogAttempt(a)
	})
	res, err := collector.Collect(ctx, app.CityNames(cities))
	if err != nil {
		log.Fatal().Err(err).Int("attempted", len(res.Attempts)).Msg("collection interrupted")
	}
	log.Info().Int("collected", len(res.Records)).Int("skipped", res.Failed()).Msg("data retrieval complete")

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("output dir")
	}
	if err := csvfile.SaveDataset(citiesPath, res.Records); err != nil {
		log.Fatal().Err(err).Str("path", citiesPath).Msg("write dataset failed")
	}
	rows := domain.RowsFromRecords(res.Records)
	layerPath := filepath.Join(cfg.OutputDir, "cities.geojson")
	if err := mapfeed.Save(layerPath, mapfeed.CityLayer(rows)); err != nil {
		log.Error().Err(err).Str("path", layerPath).Msg("write city layer failed")
	}

	for _, f := range app.LatitudeFits(res.Records) {
		log.Info().
			Str("variable", f.Variable).
			Str("hemisphere", string(f.Hemisphere)).
			Float64("slope", f.Slope).
			Float64("intercept", f.Intercept).
			Float64("r", f.R).
			Int("n", f.N).
			Msg("latitude regression")
	}

	if runs != nil {
		if err := runs.RecordCollection(ctx, run, res); err != nil {
			log.Fatal().Err(err).Msg("record run failed")
		}
		log.Info().Str("run", run.ID).Msg("run recorded")
	}
	log.Info().Str("path", citiesPath).Int("rows", len(res.Records)).Msg("collector completed")
}

func newResolver(cfg shared.Config) (domain.CityResolver, error) {
	if cfg.Resolver == "nominatim" {
		return nominatim.New(cfg.NominatimBase, httpjson.Options{Timeout: cfg.HTTPTimeout}), nil
	}
	g, err := gazetteer.Open(cfg.GazetteerPath)
	if err != nil {
		return nil, err
	}
	log.Info().Int("places", g.Len()).Str("path", cfg.GazetteerPath).Msg("gazetteer loaded")
	return g, nil
}

// openRuns wires run history when MYSQL_DSN is set; redis is optional on
// top of it and only used for invalidation.
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
