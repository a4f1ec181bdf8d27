package domain

// CityCoordinate is one random draw fed to the nearest-city resolver.
type CityCoordinate struct {
	Lat, Lng float64
}

// City is a resolved sample: a distinct name plus the first coordinate that
// resolved to it.
type City struct {
	Name    string
	Country string // optional, resolvers that know it fill it in
	Coord   CityCoordinate
}

// CityRecord is one successful weather observation.
type CityRecord struct {
	City       string
	Lat        float64
	Lng        float64
	MaxTemp    float64
	Humidity   int
	Cloudiness int
	WindSpeed  float64
	Country    string // ISO 3166 alpha-2
	Date       int64  // unix seconds
}

// DatasetRow is a CityRecord as reloaded from the persisted dataset.
// ID is the City_ID column written at persist time, never recomputed.
type DatasetRow struct {
	ID int
	CityRecord
	// Missing lists the columns that were blank in the file.
	Missing []string
}

func (r DatasetRow) Complete() bool { return len(r.Missing) == 0 }

// RowsFromRecords assigns zero-based identifiers in sequence order.
func RowsFromRecords(recs []CityRecord) []DatasetRow {
	out := make([]DatasetRow, len(recs))
	for i, rec := range recs {
		out[i] = DatasetRow{ID: i, CityRecord: rec}
	}
	return out
}
