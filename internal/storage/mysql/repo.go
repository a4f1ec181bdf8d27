package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"city_weather/internal/domain"
)

// rows per multi-row INSERT; keeps statements well under max_allowed_packet
const batchSize = 500

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) CreateRun(ctx context.Context, run domain.Run) error {
	_, err := r.db.ExecContext(ctx, insertRunSQL, run.ID, string(run.Kind), run.Source, run.CreatedAt)
	return err
}

func (r *Repo) FinishRun(ctx context.Context, id string, attempted, succeeded int) error {
	res, err := r.db.ExecContext(ctx, finishRunSQL, attempted, succeeded, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) SaveCities(ctx context.Context, runID string, rows []domain.DatasetRow) error {
	if len(rows) == 0 {
		return nil
	}
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for start := 0; start < len(rows); start += batchSize {
			chunk := rows[start:min(start+batchSize, len(rows))]
			values := make([]string, 0, len(chunk))
			args := make([]any, 0, len(chunk)*11) // 11 params per row
			for _, c := range chunk {
				values = append(values, "(?,?,?,?,?,?,?,?,?,?,?)")
				args = append(args,
					runID,
					c.ID,
					c.City,
					c.Lat,
					c.Lng,
					c.MaxTemp,
					c.Humidity,
					c.Cloudiness,
					c.WindSpeed,
					c.Country,
					c.Date,
				)
			}
			q := insertCitiesPrefix + strings.Join(values, ",") + insertCitiesOnDup
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repo) SaveHotels(ctx context.Context, runID string, hs []domain.HotelRecord) error {
	if len(hs) == 0 {
		return nil
	}
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for start := 0; start < len(hs); start += batchSize {
			chunk := hs[start:min(start+batchSize, len(hs))]
			values := make([]string, 0, len(chunk))
			args := make([]any, 0, len(chunk)*9)
			for i, h := range chunk {
				values = append(values, "(?,?,?,?,?,?,?,?,?)")
				args = append(args,
					runID,
					start+i, // seq keeps enrichment order
					h.CityID,
					h.City,
					h.Country,
					h.Lat,
					h.Lng,
					h.Humidity,
					h.HotelName,
				)
			}
			q := insertHotelsPrefix + strings.Join(values, ",") + insertHotelsOnDup
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func scanRun(row interface{ Scan(...any) error }) (domain.Run, error) {
	var run domain.Run
	var kind string
	if err := row.Scan(&run.ID, &kind, &run.Source, &run.Attempted, &run.Succeeded, &run.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Run{}, domain.ErrNotFound
		}
		return domain.Run{}, err
	}
	run.Kind = domain.RunKind(kind)
	return run, nil
}

func (r *Repo) GetRun(ctx context.Context, id string) (domain.Run, error) {
	return scanRun(r.db.QueryRowContext(ctx, getRunSQL, id))
}

func (r *Repo) LatestRun(ctx context.Context, kind domain.RunKind) (domain.Run, error) {
	return scanRun(r.db.QueryRowContext(ctx, latestRunSQL, string(kind)))
}

func (r *Repo) ListCities(ctx context.Context, runID string) ([]domain.DatasetRow, error) {
	rows, err := r.db.QueryContext(ctx, listCitiesSQL, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.DatasetRow{}
	for rows.Next() {
		var c domain.DatasetRow
		if err := rows.Scan(
			&c.ID,
			&c.City,
			&c.Lat, &c.Lng,
			&c.MaxTemp,
			&c.Humidity,
			&c.Cloudiness,
			&c.WindSpeed,
			&c.Country,
			&c.Date,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListHotels(ctx context.Context, runID string) ([]domain.HotelRecord, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsSQL, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.HotelRecord{}
	for rows.Next() {
		var h domain.HotelRecord
		if err := rows.Scan(&h.CityID, &h.City, &h.Country, &h.Lat, &h.Lng, &h.Humidity, &h.HotelName); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
