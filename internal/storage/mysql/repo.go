package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel_curator/internal/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func valJSON(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

// UpsertHotel writes hotel metadata. Curation columns and photos are left
// untouched.
func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	amen, err := valJSON(nonNil(h.Amenities))
	if err != nil {
		return err
	}
	tags, err := valJSON(nonNil(h.Tags))
	if err != nil {
		return err
	}
	var amount, currency any
	if h.Price != nil {
		amount, currency = h.Price.Amount, valStr(strings.ToUpper(h.Price.Currency))
	}
	_, err = r.db.ExecContext(ctx, upsertHotelSQL,
		h.ID,
		h.Name,
		valStr(h.City),
		valStr(h.Country),
		valF64(h.Lat),
		valF64(h.Lon),
		valStr(h.Description),
		amen,
		valStr(h.Brand),
		valF64(h.Rating),
		amount,
		currency,
		tags,
	)
	return err
}

// SaveCuration replaces a hotel's photos and curation columns in one
// transaction. Readers never see a partial update.
func (r *Repo) SaveCuration(ctx context.Context, c domain.HotelCuration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	var id string
	if err := tx.QueryRowContext(ctx, lockHotelSQL, c.HotelID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	tags, err := valJSON(nonNil(c.Tags))
	if err != nil {
		return err
	}
	var category any
	if c.Category != nil {
		category = string(*c.Category)
	}
	updated := c.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	if _, err := tx.ExecContext(ctx, updateCurationSQL,
		valStr(c.HeroPhoto), tags, category, c.Score, updated.UTC(), c.HotelID,
	); err != nil {
		return fmt.Errorf("update curation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, deletePhotosSQL, c.HotelID); err != nil {
		return fmt.Errorf("delete photos: %w", err)
	}
	if len(c.Photos) > 0 {
		values := make([]string, 0, len(c.Photos))
		args := make([]any, 0, len(c.Photos)*8)
		for i, p := range c.Photos {
			values = append(values, "(?,?,?,?,?,?,?,?)")
			args = append(args, c.HotelID, i, p.Ref, p.URL, p.Width, p.Height, p.Source, valStr(p.Description))
		}
		if _, err := tx.ExecContext(ctx, insertPhotosPrefix+strings.Join(values, ","), args...); err != nil {
			return fmt.Errorf("insert photos: %w", err)
		}
	}
	return tx.Commit()
}

func (r *Repo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, err
	}
	hs := []domain.Hotel{h}
	if err := r.attachPhotos(ctx, hs); err != nil {
		return domain.Hotel{}, err
	}
	return hs[0], nil
}

// ListHotels returns hotels ordered by id, keyset-paginated by AfterID.
func (r *Repo) ListHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	var (
		where []string
		args  []any
	)
	if f.City != "" {
		where = append(where, "h.city = ?")
		args = append(args, f.City)
	}
	if f.Country != "" {
		where = append(where, "h.country = ?")
		args = append(args, f.Country)
	}
	if f.Category != "" {
		where = append(where, "h.category = ?")
		args = append(args, string(f.Category))
	}
	if f.Tag != "" {
		where = append(where, "JSON_CONTAINS(h.tags, JSON_QUOTE(?))")
		args = append(args, f.Tag)
	}
	if f.AfterID != "" {
		where = append(where, "h.id > ?")
		args = append(args, f.AfterID)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	q := selectHotelCols
	if len(where) > 0 {
		q += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	q += "ORDER BY h.id\nLIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachPhotos(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) attachPhotos(ctx context.Context, hs []domain.Hotel) error {
	if len(hs) == 0 {
		return nil
	}
	idx := make(map[string]int, len(hs))
	marks := make([]string, len(hs))
	args := make([]any, len(hs))
	for i, h := range hs {
		idx[h.ID] = i
		marks[i] = "?"
		args[i] = h.ID
	}
	rows, err := r.db.QueryContext(ctx, selectPhotosPrefix+strings.Join(marks, ",")+selectPhotosSuffix, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			hotelID string
			p       domain.Photo
			desc    sql.NullString
		)
		if err := rows.Scan(&hotelID, &p.Ref, &p.URL, &p.Width, &p.Height, &p.Source, &desc); err != nil {
			return err
		}
		p.Description = desc.String
		if i, ok := idx[hotelID]; ok {
			hs[i].Photos = append(hs[i].Photos, p)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHotel(row rowScanner) (domain.Hotel, error) {
	var (
		h                          domain.Hotel
		city, country, desc, brand sql.NullString
		currency, hero, category   sql.NullString
		lat, lon, rating, amount   sql.NullFloat64
		amenitiesJSON, tagsJSON    []byte
		curatedAt                  sql.NullTime
	)
	if err := row.Scan(
		&h.ID, &h.Name, &city, &country, &lat, &lon, &desc, &amenitiesJSON,
		&brand, &rating, &amount, &currency,
		&hero, &tagsJSON, &category, &h.Score, &curatedAt,
	); err != nil {
		return domain.Hotel{}, err
	}
	h.City, h.Country, h.Description, h.Brand = city.String, country.String, desc.String, brand.String
	h.HeroPhoto = hero.String
	if lat.Valid && lon.Valid {
		la, lo := lat.Float64, lon.Float64
		h.Lat, h.Lon = &la, &lo
	}
	if rating.Valid {
		rt := rating.Float64
		h.Rating = &rt
	}
	if amount.Valid {
		h.Price = &domain.Price{Amount: amount.Float64, Currency: currency.String}
	}
	if category.Valid && category.String != "" {
		c := domain.Category(category.String)
		h.Category = &c
	}
	if curatedAt.Valid {
		h.UpdatedAt = curatedAt.Time
	}
	if len(amenitiesJSON) > 0 {
		if err := json.Unmarshal(amenitiesJSON, &h.Amenities); err != nil {
			return domain.Hotel{}, fmt.Errorf("hotel %s amenities: %w", h.ID, err)
		}
	}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &h.Tags); err != nil {
			return domain.Hotel{}, fmt.Errorf("hotel %s tags: %w", h.ID, err)
		}
	}
	return h, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
