package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"city_weather/internal/adapters/mapfeed"
	"city_weather/internal/app"
	"city_weather/internal/domain"
)

// Queries is the read side the handlers need; *app.QueryService satisfies it.
type Queries interface {
	Run(ctx context.Context, id string, kind domain.RunKind) (domain.Run, error)
	Cities(ctx context.Context, runID string) ([]domain.DatasetRow, error)
	Hotels(ctx context.Context, runID string) ([]domain.HotelRecord, error)
	LatitudeFits(ctx context.Context, runID string) ([]app.LatitudeFit, error)
}

type Handlers struct{ Q Queries }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type runDTO struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Source    string    `json:"source"`
	Attempted int       `json:"attempted"`
	Succeeded int       `json:"succeeded"`
	CreatedAt time.Time `json:"created_at"`
}

type cityDTO struct {
	ID         int      `json:"city_id"`
	City       string   `json:"city"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	MaxTemp    float64  `json:"max_temp"`
	Humidity   int      `json:"humidity"`
	Cloudiness int      `json:"cloudiness"`
	WindSpeed  float64  `json:"wind_speed"`
	Country    string   `json:"country"`
	Date       int64    `json:"date"`
	Missing    []string `json:"missing,omitempty"`
}

type hotelDTO struct {
	CityID    int     `json:"city_id"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Humidity  int     `json:"humidity"`
	HotelName string  `json:"hotel_name"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1/runs/{id}", func(r chi.Router) {
		r.Get("/", h.getRun)
		r.Get("/cities", h.listCities)
		r.Get("/hotels", h.listHotels)
		r.Get("/map.geojson", h.mapLayer)
		r.Get("/regressions", h.regressions)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeQueryError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", what+" not found")
		return
	}
	log.Error().Err(err).Str("resource", what).Msg("query failed")
	writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeTagged(w http.ResponseWriter, r *http.Request, contentType string, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "encode failed")
		return
	}
	w.Header().Set("ETag", etag)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// resolveRun accepts a run ID or "latest"; ?kind= picks the pipeline for
// latest and defaults to collect.
func (h *Handlers) resolveRun(w http.ResponseWriter, r *http.Request) (domain.Run, bool) {
	kind := domain.RunKind(r.URL.Query().Get("kind"))
	switch kind {
	case "":
		kind = domain.RunCollect
	case domain.RunCollect, domain.RunVacation:
	default:
		writeProblem(w, http.StatusBadRequest, "Invalid kind", "kind must be collect or vacation")
		return domain.Run{}, false
	}
	run, err := h.Q.Run(r.Context(), chi.URLParam(r, "id"), kind)
	if err != nil {
		writeQueryError(w, err, "run")
		return domain.Run{}, false
	}
	return run, true
}

func (h *Handlers) getRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.resolveRun(w, r)
	if !ok {
		return
	}
	writeTagged(w, r, "application/json", runDTO{
		ID:        run.ID,
		Kind:      string(run.Kind),
		Source:    run.Source,
		Attempted: run.Attempted,
		Succeeded: run.Succeeded,
		CreatedAt: run.CreatedAt,
	})
}

func (h *Handlers) listCities(w http.ResponseWriter, r *http.Request) {
	run, ok := h.resolveRun(w, r)
	if !ok {
		return
	}
	rows, err := h.Q.Cities(r.Context(), run.ID)
	if err != nil {
		writeQueryError(w, err, "cities")
		return
	}
	out := make([]cityDTO, 0, len(rows))
	for _, c := range rows {
		out = append(out, cityDTO{
			ID: c.ID, City: c.City, Lat: c.Lat, Lng: c.Lng,
			MaxTemp: c.MaxTemp, Humidity: c.Humidity, Cloudiness: c.Cloudiness,
			WindSpeed: c.WindSpeed, Country: c.Country, Date: c.Date, Missing: c.Missing,
		})
	}
	writeTagged(w, r, "application/json", out)
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	run, ok := h.resolveRun(w, r)
	if !ok {
		return
	}
	hs, err := h.Q.Hotels(r.Context(), run.ID)
	if err != nil {
		writeQueryError(w, err, "hotels")
		return
	}
	out := make([]hotelDTO, 0, len(hs))
	for _, x := range hs {
		out = append(out, hotelDTO{
			CityID: x.CityID, City: x.City, Country: x.Country,
			Lat: x.Lat, Lng: x.Lng, Humidity: x.Humidity, HotelName: x.HotelName,
		})
	}
	writeTagged(w, r, "application/json", out)
}

// mapLayer serves the city layer for collect runs and the hotel layer for
// vacation runs.
func (h *Handlers) mapLayer(w http.ResponseWriter, r *http.Request) {
	run, ok := h.resolveRun(w, r)
	if !ok {
		return
	}
	if run.Kind == domain.RunVacation {
		hs, err := h.Q.Hotels(r.Context(), run.ID)
		if err != nil {
			writeQueryError(w, err, "hotels")
			return
		}
		writeTagged(w, r, "application/geo+json", mapfeed.HotelLayer(hs))
		return
	}
	rows, err := h.Q.Cities(r.Context(), run.ID)
	if err != nil {
		writeQueryError(w, err, "cities")
		return
	}
	writeTagged(w, r, "application/geo+json", mapfeed.CityLayer(rows))
}

func (h *Handlers) regressions(w http.ResponseWriter, r *http.Request) {
	run, ok := h.resolveRun(w, r)
	if !ok {
		return
	}
	if run.Kind != domain.RunCollect {
		writeProblem(w, http.StatusBadRequest, "Wrong run kind", "regressions exist only for collect runs")
		return
	}
	fits, err := h.Q.LatitudeFits(r.Context(), run.ID)
	if err != nil {
		writeQueryError(w, err, "regressions")
		return
	}
	writeTagged(w, r, "application/json", fits)
}
