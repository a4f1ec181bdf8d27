//go:build integration

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "city_weather/internal/adapters/http_server"
	redisad "city_weather/internal/adapters/redis"
	"city_weather/internal/app"
	"city_weather/internal/domain"
	mysqlrepo "city_weather/internal/storage/mysql"
)

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(migrationsDir(), "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files, "no .sql files in %s", migrationsDir())
	sort.Strings(files)
	for _, f := range files {
		b, err := os.ReadFile(f)
		require.NoError(t, err)
		_, err = db.Exec(string(b))
		require.NoError(t, err, "exec %s", f)
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=city_weather"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/city_weather?parseTime=true&multiStatements=true&charset=utf8mb4&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	require.NoError(t, pool.Retry(func() error {
		var e error
		if db, e = sql.Open("mysql", dsn); e != nil {
			return e
		}
		return db.Ping()
	}))
	t.Cleanup(func() { _ = db.Close() })
	applyMigrations(t, db)
	return db
}

func TestHTTP_EndToEnd_CollectRun(t *testing.T) {
	db := startMySQL(t)
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// record a collect run the way cmd/collector does
	runs := app.NewRunService(repo, cache)
	run, err := runs.Start(ctx, domain.RunCollect, "output_data/cities.csv")
	require.NoError(t, err)
	res := app.CollectResult{
		Records: []domain.CityRecord{
			{City: "ushuaia", Lat: -54.8, Lng: -68.3, MaxTemp: 6.5, Humidity: 81, Cloudiness: 75, WindSpeed: 9.3, Country: "AR", Date: 1700000000},
			{City: "cuiaba", Lat: -15.6, Lng: -56.1, MaxTemp: 33.1, Humidity: 45, Cloudiness: 20, WindSpeed: 2.1, Country: "BR", Date: 1700000000},
			{City: "lagos", Lat: 6.5, Lng: 3.4, MaxTemp: 30.2, Humidity: 78, Cloudiness: 40, WindSpeed: 3.6, Country: "NG", Date: 1700000000},
			{City: "ankara", Lat: 39.9, Lng: 32.9, MaxTemp: 14.0, Humidity: 55, Cloudiness: 0, WindSpeed: 4.1, Country: "TR", Date: 1700000000},
			{City: "tromso", Lat: 69.6, Lng: 18.9, MaxTemp: -1.5, Humidity: 90, Cloudiness: 100, WindSpeed: 7.7, Country: "NO", Date: 1700000000},
		},
		Attempts: make([]app.Attempt, 6),
	}
	require.NoError(t, runs.RecordCollection(ctx, run, res))

	srv := server.New()
	srv.MountHandlers(&server.Handlers{Q: app.NewQueryService(repo, cache, time.Minute)})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	getJSON := func(path string, out any) {
		t.Helper()
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	var latest struct {
		ID        string `json:"id"`
		Kind      string `json:"kind"`
		Attempted int    `json:"attempted"`
		Succeeded int    `json:"succeeded"`
	}
	getJSON("/v1/runs/latest", &latest)
	assert.Equal(t, run.ID, latest.ID)
	assert.Equal(t, "collect", latest.Kind)
	assert.Equal(t, 6, latest.Attempted)
	assert.Equal(t, 5, latest.Succeeded)

	var cities []struct {
		ID   int    `json:"city_id"`
		City string `json:"city"`
	}
	getJSON("/v1/runs/"+run.ID+"/cities", &cities)
	require.Len(t, cities, 5)
	for i, c := range cities {
		assert.Equal(t, i, c.ID)
	}
	assert.Equal(t, "ushuaia", cities[0].City)
	assert.True(t, mr.Exists("cw:cities:"+run.ID), "cities should be cached after first read")

	var fits []app.LatitudeFit
	getJSON("/v1/runs/"+run.ID+"/regressions", &fits)
	assert.NotEmpty(t, fits)

	var fc struct {
		Features []json.RawMessage `json:"features"`
	}
	getJSON("/v1/runs/"+run.ID+"/map.geojson", &fc)
	assert.Len(t, fc.Features, 5)

	resp, err := http.Get(ts.URL + "/v1/runs/does-not-exist")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
