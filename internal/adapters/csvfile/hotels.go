package csvfile

import (
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"city_weather/internal/domain"
)

type hotelRow struct {
	CityID    int     `csv:"City_ID"`
	City      string  `csv:"City"`
	Country   string  `csv:"Country"`
	Lat       float64 `csv:"Lat"`
	Lng       float64 `csv:"Lng"`
	Humidity  int     `csv:"Humidity"`
	HotelName string  `csv:"Hotel Name"`
}

func WriteHotels(w io.Writer, hs []domain.HotelRecord) error {
	rows := make([]*hotelRow, 0, len(hs))
	for _, h := range hs {
		rows = append(rows, &hotelRow{
			CityID:    h.CityID,
			City:      h.City,
			Country:   h.Country,
			Lat:       h.Lat,
			Lng:       h.Lng,
			Humidity:  h.Humidity,
			HotelName: h.HotelName,
		})
	}
	return gocsv.Marshal(&rows, w)
}

func ReadHotels(r io.Reader) ([]domain.HotelRecord, error) {
	var rows []*hotelRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.HotelRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.HotelRecord{
			CityID:    r.CityID,
			City:      r.City,
			Country:   r.Country,
			Lat:       r.Lat,
			Lng:       r.Lng,
			Humidity:  r.Humidity,
			HotelName: r.HotelName,
		})
	}
	return out, nil
}

func SaveHotels(path string, hs []domain.HotelRecord) error {
	return writeFile(path, func(w io.Writer) error { return WriteHotels(w, hs) })
}

func LoadHotels(path string) ([]domain.HotelRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadHotels(f)
}
