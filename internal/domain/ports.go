package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("hotel: not found")

type HotelRepository interface {
	// Write paths
	UpsertHotel(ctx context.Context, h Hotel) error
	SaveCuration(ctx context.Context, c HotelCuration) error

	// Read paths
	GetHotel(ctx context.Context, id string) (Hotel, error)
	ListHotels(ctx context.Context, f HotelFilter) ([]Hotel, error)

	Ping(ctx context.Context) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// HotelFilter selects hotels; empty fields do not constrain.
type HotelFilter struct {
	City     string
	Country  string
	Tag      string
	Category Category
	AfterID  string
	Limit    int
}
