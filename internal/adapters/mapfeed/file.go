package mapfeed

import (
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"
)

// Save writes fc to path as GeoJSON.
func Save(path string, fc *geojson.FeatureCollection) error {
	b, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
