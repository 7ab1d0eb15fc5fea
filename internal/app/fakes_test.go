package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"hotel_curator/internal/curation"
	"hotel_curator/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu       sync.Mutex
	hotels   map[string]domain.Hotel
	saved    []domain.HotelCuration
	saveErr  map[string]error // per hotel id
	pingErr  error
	getCalls int
}

func newFakeRepo(hs ...domain.Hotel) *fakeRepo {
	r := &fakeRepo{hotels: map[string]domain.Hotel{}, saveErr: map[string]error{}}
	for _, h := range hs {
		r.hotels[h.ID] = h
	}
	return r
}

func (f *fakeRepo) UpsertHotel(_ context.Context, h domain.Hotel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hotels[h.ID] = h
	return nil
}

func (f *fakeRepo) SaveCuration(_ context.Context, c domain.HotelCuration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.saveErr[c.HotelID]; err != nil {
		return err
	}
	h, ok := f.hotels[c.HotelID]
	if !ok {
		return domain.ErrNotFound
	}
	h.Photos, h.HeroPhoto, h.Tags, h.Score, h.Category, h.UpdatedAt = c.Photos, c.HeroPhoto, c.Tags, c.Score, c.Category, c.UpdatedAt
	f.hotels[c.HotelID] = h
	f.saved = append(f.saved, c)
	return nil
}

func (f *fakeRepo) GetHotel(_ context.Context, id string) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	h, ok := f.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (f *fakeRepo) ListHotels(_ context.Context, q domain.HotelFilter) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.hotels))
	for id := range f.hotels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []domain.Hotel
	for _, id := range ids {
		h := f.hotels[id]
		if id <= q.AfterID || (q.City != "" && h.City != q.City) {
			continue
		}
		out = append(out, h)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRepo) Ping(context.Context) error { return f.pingErr }

func (f *fakeRepo) savedFor(id string) []domain.HotelCuration {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.HotelCuration
	for _, c := range f.saved {
		if c.HotelID == id {
			out = append(out, c)
		}
	}
	return out
}

// fakeCache stores JSON like the Redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

type fakeSupplier struct {
	name    string
	records func(q curation.Query) []any
	err     error
	calls   int32
}

func (f *fakeSupplier) Name() string { return f.name }

func (f *fakeSupplier) Search(_ context.Context, q curation.Query) ([]any, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.records(q), nil
}

// hiRes returns n unique 1920x1080 photos per hotel.
func hiRes(host string, n int) func(curation.Query) []any {
	return func(q curation.Query) []any {
		out := make([]any, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, map[string]any{
				"url":    fmt.Sprintf("https://%s/%s/%d.jpg", host, q.HotelID, i),
				"width":  1920.0,
				"height": 1080.0,
			})
		}
		return out
	}
}

var errDown = errors.New("connection refused")

// ---- helpers ----

func ptr[T any](v T) *T { return &v }

func seasideVilla(id string) domain.Hotel {
	return domain.Hotel{
		ID:        id,
		Name:      "Seaside Villa",
		City:      "Mykonos",
		Country:   "GR",
		Amenities: []string{"beach", "infinity_pool", "spa"},
		Rating:    ptr(4.6),
		Tags:      []string{"family"},
	}
}
