// Package csvfile persists the city dataset and the hotel list as CSV.
package csvfile

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"city_weather/internal/domain"
)

// IDColumn holds the zero-based row position assigned at write time.
const IDColumn = "City_ID"

// cityRow keeps every cell as text so blank cells survive the reload and
// can be told apart from zero.
type cityRow struct {
	ID         string `csv:"City_ID"`
	City       string `csv:"City"`
	Lat        string `csv:"Lat"`
	Lng        string `csv:"Lng"`
	MaxTemp    string `csv:"Max Temp"`
	Humidity   string `csv:"Humidity"`
	Cloudiness string `csv:"Cloudiness"`
	WindSpeed  string `csv:"Wind Speed"`
	Country    string `csv:"Country"`
	Date       string `csv:"Date"`
}

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// WriteDataset writes recs with City_ID equal to each record's position.
func WriteDataset(w io.Writer, recs []domain.CityRecord) error {
	rows := make([]*cityRow, 0, len(recs))
	for i, r := range recs {
		rows = append(rows, &cityRow{
			ID:         strconv.Itoa(i),
			City:       r.City,
			Lat:        fmtFloat(r.Lat),
			Lng:        fmtFloat(r.Lng),
			MaxTemp:    fmtFloat(r.MaxTemp),
			Humidity:   strconv.Itoa(r.Humidity),
			Cloudiness: strconv.Itoa(r.Cloudiness),
			WindSpeed:  fmtFloat(r.WindSpeed),
			Country:    r.Country,
			Date:       strconv.FormatInt(r.Date, 10),
		})
	}
	return gocsv.Marshal(&rows, w)
}

// ReadDataset parses a dataset written by WriteDataset (or by hand). Rows
// keep file order and their persisted City_ID. Blank cells, null tokens in
// numeric columns and non-finite numbers are reported in DatasetRow.Missing;
// any other unparseable cell is an error.
func ReadDataset(r io.Reader) ([]domain.DatasetRow, error) {
	var rows []*cityRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	out := make([]domain.DatasetRow, 0, len(rows))
	for i, row := range rows {
		dr, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("read dataset: row %d: %w", i+1, err)
		}
		out = append(out, dr)
	}
	return out, nil
}

// nullTokens mark an absent numeric cell, as spreadsheet and dataframe
// exports write them. Text columns only treat the empty cell as absent;
// "NA" is a valid country code there.
var nullTokens = map[string]struct{}{
	"": {}, "nan": {}, "na": {}, "n/a": {}, "null": {}, "none": {}, "<na>": {},
}

func isNullToken(v string) bool {
	_, ok := nullTokens[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

type cellParser struct {
	missing []string
	err     error
}

func (p *cellParser) blank(col, v string) bool {
	if strings.TrimSpace(v) == "" {
		p.missing = append(p.missing, col)
		return true
	}
	return false
}

// null reports a numeric cell holding no value and records it as missing.
func (p *cellParser) null(col, v string) bool {
	if isNullToken(v) {
		p.missing = append(p.missing, col)
		return true
	}
	return false
}

// float never returns NaN or Inf; those count as missing.
func (p *cellParser) float(col, v string) float64 {
	if p.err != nil || p.null(col, v) {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		p.err = fmt.Errorf("column %q: %w", col, err)
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		p.missing = append(p.missing, col)
		return 0
	}
	return f
}

// int64 accepts "71" and "71.0"; spreadsheet exports often float-format
// integer columns.
func (p *cellParser) int64(col, v string) int64 {
	if p.err != nil || p.null(col, v) {
		return 0
	}
	s := strings.TrimSpace(v)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.err = fmt.Errorf("column %q: %w", col, err)
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		p.missing = append(p.missing, col)
		return 0
	}
	return int64(f)
}

func (p *cellParser) int(col, v string) int { return int(p.int64(col, v)) }

func (p *cellParser) str(col, v string) string {
	if p.blank(col, v) {
		return ""
	}
	return v
}

func (row *cityRow) toDomain() (domain.DatasetRow, error) {
	id, err := strconv.Atoi(strings.TrimSpace(row.ID))
	if err != nil {
		return domain.DatasetRow{}, fmt.Errorf("column %q: %w", IDColumn, err)
	}
	var p cellParser
	rec := domain.CityRecord{
		City:       p.str("City", row.City),
		Lat:        p.float("Lat", row.Lat),
		Lng:        p.float("Lng", row.Lng),
		MaxTemp:    p.float("Max Temp", row.MaxTemp),
		Humidity:   p.int("Humidity", row.Humidity),
		Cloudiness: p.int("Cloudiness", row.Cloudiness),
		WindSpeed:  p.float("Wind Speed", row.WindSpeed),
		Country:    p.str("Country", row.Country),
		Date:       p.int64("Date", row.Date),
	}
	if p.err != nil {
		return domain.DatasetRow{}, p.err
	}
	return domain.DatasetRow{ID: id, CityRecord: rec, Missing: p.missing}, nil
}

// SaveDataset writes recs to path, creating parent directories.
func SaveDataset(path string, recs []domain.CityRecord) error {
	return writeFile(path, func(w io.Writer) error { return WriteDataset(w, recs) })
}

func LoadDataset(path string) ([]domain.DatasetRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDataset(bufio.NewReader(f))
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
