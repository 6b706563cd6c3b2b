package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

type HotelRepository interface {
	// Scalar row CRUD
	Create(ctx context.Context, h Hotel) (Hotel, error)
	Update(ctx context.Context, id int64, h Hotel) (Hotel, error)
	Delete(ctx context.Context, id int64) error

	// Reads
	GetByID(ctx context.Context, id int64) (HotelSummary, error)
	GetComplete(ctx context.Context, id int64) (HotelDetail, error)
	List(ctx context.Context, f HotelFilter) ([]HotelSummary, error)
	ListComplete(ctx context.Context, f HotelFilter) ([]HotelDetail, error)
	ListFAQs(ctx context.Context, hotelID int64) ([]FAQ, error)

	// Related-entity synchronizers
	SaveRooms(ctx context.Context, hotelID int64, rooms []Room) ([]Room, error)
	UpdateRooms(ctx context.Context, hotelID int64, rooms []Room) ([]Room, error)
	SaveAmenities(ctx context.Context, hotelID int64, amenityIDs []int64) error
	UpdateAmenities(ctx context.Context, hotelID int64, amenityIDs []int64) error
	SaveReviewAggregates(ctx context.Context, hotelID int64, aggs []ReviewAggregate) ([]ReviewAggregate, error)
	UpdateReviewAggregates(ctx context.Context, hotelID int64, aggs []ReviewAggregate) ([]ReviewAggregate, error)
	SaveImageURLs(ctx context.Context, hotelID int64, urls []string) (Hotel, error)
}

type MasterDataRepository interface {
	List(ctx context.Context, table MasterTable, activeOnly bool) ([]MasterEntity, error)
	Create(ctx context.Context, table MasterTable, e MasterEntity) (MasterEntity, error)
	Update(ctx context.Context, table MasterTable, id int64, e MasterEntity) (MasterEntity, error)
	Delete(ctx context.Context, table MasterTable, id int64) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, keys ...string) error
}
