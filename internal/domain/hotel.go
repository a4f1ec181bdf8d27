package domain

// NoHotelFound replaces HotelName when the search yields nothing usable.
const NoHotelFound = "No hotel found"

type HotelRecord struct {
	CityID    int
	City      string
	Country   string
	Lat, Lng  float64
	Humidity  int
	HotelName string
}

// Place is one ranked result of a geo-radius search.
type Place struct {
	Name    string
	Address string
	Lat     float64
	Lng     float64
}

type PlaceQuery struct {
	Center       CityCoordinate
	RadiusMeters int
	Category     string
	Limit        int
	// Bias ranks results by proximity to Center when true.
	Bias bool
}
