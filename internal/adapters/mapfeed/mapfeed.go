// Package mapfeed turns datasets into GeoJSON point layers for a map
// renderer. Marker size comes from "Humidity" and marker color from "City";
// the hotel layer also carries "Hotel Name" and "Country" for hover labels.
package mapfeed

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"city_weather/internal/domain"
)

func CityLayer(rows []domain.DatasetRow) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range rows {
		f := geojson.NewFeature(orb.Point{r.Lng, r.Lat})
		f.ID = r.ID
		f.Properties["City"] = r.City
		f.Properties["Country"] = r.Country
		f.Properties["Humidity"] = r.Humidity
		f.Properties["Max Temp"] = r.MaxTemp
		f.Properties["Cloudiness"] = r.Cloudiness
		f.Properties["Wind Speed"] = r.WindSpeed
		fc.Append(f)
	}
	return fc
}

func HotelLayer(hs []domain.HotelRecord) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, h := range hs {
		f := geojson.NewFeature(orb.Point{h.Lng, h.Lat})
		f.ID = h.CityID
		f.Properties["City"] = h.City
		f.Properties["Country"] = h.Country
		f.Properties["Humidity"] = h.Humidity
		f.Properties["Hotel Name"] = h.HotelName
		fc.Append(f)
	}
	return fc
}
