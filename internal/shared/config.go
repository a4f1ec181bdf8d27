package shared

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"city_weather/internal/app"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	HTTPTimeout time.Duration

	WeatherBase       string
	WeatherKey        string
	WeatherUnits      string
	WeatherRPS        float64
	WeatherMaxRetries int

	PlacesBase       string
	PlacesKey        string
	PlacesRPS        float64
	PlacesMaxRetries int

	Resolver      string // gazetteer | nominatim
	GazetteerPath string
	NominatimBase string
	SampleSize    int
	SampleSeed    uint64 // 0 picks a random seed

	OutputDir string

	Preferences app.Preferences
}

// Load reads the environment, optionally layered over the YAML file named
// by CONFIG_FILE. Environment variables always win.
func Load() Config {
	v := viper.New()
	defaults := map[string]any{
		"APP_ENV":              "prod",
		"HTTP_ADDR":            ":8080",
		"METRICS_ADDR":         "",
		"MYSQL_DSN":            "",
		"REDIS_ADDR":           "",
		"REDIS_PASSWORD":       "",
		"REDIS_DB":             0,
		"CACHE_TTL_SECONDS":    900,
		"HTTP_TIMEOUT_SECONDS": 10,
		"WEATHER_BASE_URL":     "https://api.openweathermap.org/data/2.5",
		"WEATHER_API_KEY":      "",
		"WEATHER_UNITS":        "metric",
		"WEATHER_RPS":          1.0,
		"WEATHER_MAX_RETRIES":  0,
		"PLACES_BASE_URL":      "https://api.geoapify.com/v2",
		"GEOAPIFY_API_KEY":     "",
		"PLACES_RPS":           5.0,
		"PLACES_MAX_RETRIES":   0,
		"RESOLVER":             "gazetteer",
		"CITIES_CSV":           "data/worldcities.csv",
		"NOMINATIM_BASE_URL":   "https://nominatim.openstreetmap.org",
		"SAMPLE_SIZE":          1500,
		"SAMPLE_SEED":          0,
		"OUTPUT_DIR":           "output_data",
		"MAX_TEMP_LOW":         21.0,
		"MAX_TEMP_HIGH":        27.0,
		"WIND_SPEED_MAX":       4.5,
		"CLOUDINESS_EXACT":     0,
	}
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				log.Warn().Err(err).Str("file", file).Msg("config file ignored")
			}
		}
	}

	c := Config{
		AppEnv:      v.GetString("APP_ENV"),
		HTTPAddr:    v.GetString("HTTP_ADDR"),
		MetricsAddr: v.GetString("METRICS_ADDR"),
		MySQLDSN:    v.GetString("MYSQL_DSN"),
		RedisAddr:   v.GetString("REDIS_ADDR"),
		RedisPass:   v.GetString("REDIS_PASSWORD"),
		RedisDB:     v.GetInt("REDIS_DB"),
		CacheTTL:    time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		HTTPTimeout: time.Duration(v.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,

		WeatherBase:       v.GetString("WEATHER_BASE_URL"),
		WeatherKey:        v.GetString("WEATHER_API_KEY"),
		WeatherUnits:      v.GetString("WEATHER_UNITS"),
		WeatherRPS:        v.GetFloat64("WEATHER_RPS"),
		WeatherMaxRetries: v.GetInt("WEATHER_MAX_RETRIES"),

		PlacesBase:       v.GetString("PLACES_BASE_URL"),
		PlacesKey:        v.GetString("GEOAPIFY_API_KEY"),
		PlacesRPS:        v.GetFloat64("PLACES_RPS"),
		PlacesMaxRetries: v.GetInt("PLACES_MAX_RETRIES"),

		Resolver:      v.GetString("RESOLVER"),
		GazetteerPath: v.GetString("CITIES_CSV"),
		NominatimBase: v.GetString("NOMINATIM_BASE_URL"),
		SampleSize:    v.GetInt("SAMPLE_SIZE"),
		SampleSeed:    v.GetUint64("SAMPLE_SEED"),

		OutputDir: v.GetString("OUTPUT_DIR"),

		Preferences: app.DefaultPreferences(),
	}
	// keys are matched through the mapstructure tags on app.Preferences
	if err := v.Unmarshal(&c.Preferences); err != nil {
		log.Warn().Err(err).Msg("weather preferences invalid; using defaults")
		c.Preferences = app.DefaultPreferences()
	}
	if p := c.Preferences; p.MaxTempLow > p.MaxTempHigh {
		log.Warn().Float64("low", p.MaxTempLow).Float64("high", p.MaxTempHigh).Msg("MAX_TEMP_LOW above MAX_TEMP_HIGH; no city will match")
	}
	return c
}
