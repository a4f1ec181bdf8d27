package mysql

const insertRunSQL = `
INSERT INTO runs (id, kind, source, created_at)
VALUES (?, ?, ?, ?)
`

const finishRunSQL = `
UPDATE runs
SET attempted = ?, succeeded = ?, finished_at = CURRENT_TIMESTAMP
WHERE id = ?
`

const insertCitiesPrefix = "INSERT INTO cities\n  (run_id, city_id, city, lat, lng, max_temp, humidity, cloudiness, wind_speed, country, observed_at)\nVALUES "

// re-saving a run overwrites its rows
const insertCitiesOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  city        = VALUES(city),\n" +
	"  lat         = VALUES(lat),\n" +
	"  lng         = VALUES(lng),\n" +
	"  max_temp    = VALUES(max_temp),\n" +
	"  humidity    = VALUES(humidity),\n" +
	"  cloudiness  = VALUES(cloudiness),\n" +
	"  wind_speed  = VALUES(wind_speed),\n" +
	"  country     = VALUES(country),\n" +
	"  observed_at = VALUES(observed_at)\n"

const insertHotelsPrefix = "INSERT INTO hotels\n  (run_id, seq, city_id, city, country, lat, lng, humidity, hotel_name)\nVALUES "

const insertHotelsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  city_id    = VALUES(city_id),\n" +
	"  city       = VALUES(city),\n" +
	"  country    = VALUES(country),\n" +
	"  lat        = VALUES(lat),\n" +
	"  lng        = VALUES(lng),\n" +
	"  humidity   = VALUES(humidity),\n" +
	"  hotel_name = VALUES(hotel_name)\n"

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const runColumns = `id, kind, source, attempted, succeeded, created_at`

const getRunSQL = `SELECT ` + runColumns + ` FROM runs WHERE id = ?`

// unfinished runs are still writing rows
const latestRunSQL = `
SELECT ` + runColumns + `
FROM runs
WHERE kind = ? AND finished_at IS NOT NULL
ORDER BY created_at DESC, id DESC
LIMIT 1
`

const listCitiesSQL = `
SELECT city_id, city, lat, lng, max_temp, humidity, cloudiness, wind_speed, country, observed_at
FROM cities
WHERE run_id = ?
ORDER BY city_id
`

const listHotelsSQL = `
SELECT city_id, city, country, lat, lng, humidity, hotel_name
FROM hotels
WHERE run_id = ?
ORDER BY seq
`
