package mysql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_admin/internal/domain"
)

// Related-entity synchronizers. Save* is the create-time blind insert,
// Update* the edit-time reconciliation. Failure semantics are the caller's
// problem: errors are logged here and returned as-is.

// SaveRooms inserts rooms one at a time (the surrogate id of each room is
// needed before its packages can be written), then batch-inserts the
// packages of each room. Package rows are normalized through
// domain.NormalizePackage regardless of client-sent values.
func (r *Repo) SaveRooms(ctx context.Context, hotelID int64, rooms []domain.Room) ([]domain.Room, error) {
	if len(rooms) == 0 {
		return []domain.Room{}, nil
	}
	inserted := make([]domain.Room, 0, len(rooms))
	for _, rm := range rooms {
		if rm.Images == nil {
			rm.Images = []string{}
		}
		imgs, _ := json.Marshal(rm.Images)
		res, err := r.db.ExecContext(ctx, insertRoomSQL, hotelID, rm.RoomType, rm.Bedding, rm.View, string(imgs))
		if err != nil {
			log.Error().Int64("hotel_id", hotelID).Err(err).Msg("insert room failed")
			return nil, fmt.Errorf("insert room: %w", err)
		}
		roomID, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		rm.ID = roomID
		rm.HotelID = hotelID

		pkgs, err := r.insertPackages(ctx, roomID, rm.Packages)
		if err != nil {
			log.Error().Int64("room_id", roomID).Err(err).Msg("insert room packages failed")
			return nil, fmt.Errorf("insert room packages: %w", err)
		}
		rm.Packages = pkgs
		inserted = append(inserted, rm)
	}
	return inserted, nil
}

func (r *Repo) insertPackages(ctx context.Context, roomID int64, pkgs []domain.RoomPackage) ([]domain.RoomPackage, error) {
	if len(pkgs) == 0 {
		return []domain.RoomPackage{}, nil
	}
	values := make([]string, 0, len(pkgs))
	args := make([]any, 0, len(pkgs)*7)
	rows := make([]domain.RoomPackage, 0, len(pkgs))
	for _, p := range pkgs {
		p = domain.NormalizePackage(p)
		p.RoomID = roomID
		values = append(values, "(?,?,?,?,?,?,?)")
		args = append(args,
			roomID, p.MealBoard, p.CancellationPolicy,
			p.FirstPrice, p.BasePrice, p.AlmosaferPoints, p.ShukranPoints,
		)
		rows = append(rows, p)
	}
	if _, err := r.db.ExecContext(ctx, insertPackagesPrefix+strings.Join(values, ","), args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateRooms is a destructive replace-all: every room row for the hotel is
// deleted (packages cascade), then the submitted set is reinserted. Row
// identity is not preserved across an edit.
func (r *Repo) UpdateRooms(ctx context.Context, hotelID int64, rooms []domain.Room) ([]domain.Room, error) {
	if _, err := r.db.ExecContext(ctx, deleteRoomsSQL, hotelID); err != nil {
		log.Error().Int64("hotel_id", hotelID).Err(err).Msg("delete old rooms failed")
		return nil, fmt.Errorf("delete rooms: %w", err)
	}
	return r.SaveRooms(ctx, hotelID, rooms)
}

func (r *Repo) SaveAmenities(ctx context.Context, hotelID int64, amenityIDs []int64) error {
	if len(amenityIDs) == 0 {
		return nil
	}
	values := make([]string, 0, len(amenityIDs))
	args := make([]any, 0, len(amenityIDs)*2)
	for _, aid := range amenityIDs {
		values = append(values, "(?,?)")
		args = append(args, hotelID, aid)
	}
	if _, err := r.db.ExecContext(ctx, insertAmenitiesPrefix+strings.Join(values, ","), args...); err != nil {
		log.Error().Int64("hotel_id", hotelID).Err(err).Msg("insert hotel amenities failed")
		return fmt.Errorf("insert hotel amenities: %w", err)
	}
	return nil
}

// UpdateAmenities deletes all join rows for the hotel then reinserts.
// An empty incoming list therefore means "remove everything".
func (r *Repo) UpdateAmenities(ctx context.Context, hotelID int64, amenityIDs []int64) error {
	if _, err := r.db.ExecContext(ctx, deleteAmenitiesSQL, hotelID); err != nil {
		log.Error().Int64("hotel_id", hotelID).Err(err).Msg("delete old hotel amenities failed")
		return fmt.Errorf("delete hotel amenities: %w", err)
	}
	return r.SaveAmenities(ctx, hotelID, amenityIDs)
}

// cleanAggregates drops entries with a blank source (source is the
// reconciliation key) and stamps last_updated.
func cleanAggregates(hotelID int64, aggs []domain.ReviewAggregate, now time.Time) []domain.ReviewAggregate {
	out := make([]domain.ReviewAggregate, 0, len(aggs))
	for _, a := range aggs {
		src := strings.TrimSpace(a.Source)
		if src == "" {
			continue
		}
		a.Source = src
		a.HotelID = hotelID
		if a.AverageRating < 0 {
			a.AverageRating = 0
		}
		if a.TotalReviews < 0 {
			a.TotalReviews = 0
		}
		a.LastUpdated = now
		out = append(out, a)
	}
	return out
}

func (r *Repo) SaveReviewAggregates(ctx context.Context, hotelID int64, aggs []domain.ReviewAggregate) ([]domain.ReviewAggregate, error) {
	rows := cleanAggregates(hotelID, aggs, time.Now().UTC())
	if len(rows) == 0 {
		return []domain.ReviewAggregate{}, nil
	}
	if err := r.execAggregates(ctx, rows, false); err != nil {
		log.Error().Int64("hotel_id", hotelID).Err(err).Msg("insert review aggregates failed")
		return nil, fmt.Errorf("insert review aggregates: %w", err)
	}
	return r.listAggregates(ctx, hotelID)
}

// UpdateReviewAggregates is the one true reconciliation: sources no longer
// present in the submitted set are deleted, the rest are upserted on the
// UNIQUE (hotel_id, source) key with a refreshed last_updated, and the full
// current set is re-read and returned.
func (r *Repo) UpdateReviewAggregates(ctx context.Context, hotelID int64, aggs []domain.ReviewAggregate) ([]domain.ReviewAggregate, error) {
	rows := cleanAggregates(hotelID, aggs, time.Now().UTC())

	keep := make(map[string]struct{}, len(rows))
	for _, a := range rows {
		keep[a.Source] = struct{}{}
	}

	existing, err := r.listAggregates(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("read existing review aggregates: %w", err)
	}
	var toDelete []int64
	for _, e := range existing {
		if _, ok := keep[e.Source]; !ok {
			toDelete = append(toDelete, e.ID)
		}
	}
	if len(toDelete) > 0 {
		if _, err := r.db.ExecContext(ctx,
			`DELETE FROM review_aggregates WHERE id IN (`+placeholders(len(toDelete))+`)`,
			int64Args(toDelete)...); err != nil {
			log.Error().Int64("hotel_id", hotelID).Err(err).Msg("delete removed review aggregates failed")
			return nil, fmt.Errorf("delete review aggregates: %w", err)
		}
	}

	if len(rows) > 0 {
		if err := r.execAggregates(ctx, rows, true); err != nil {
			log.Error().Int64("hotel_id", hotelID).Err(err).Msg("upsert review aggregates failed")
			return nil, fmt.Errorf("upsert review aggregates: %w", err)
		}
	}
	return r.listAggregates(ctx, hotelID)
}

func (r *Repo) execAggregates(ctx context.Context, rows []domain.ReviewAggregate, upsert bool) error {
	values := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*5)
	for _, a := range rows {
		values = append(values, "(?,?,?,?,?)")
		args = append(args, a.HotelID, a.Source, a.AverageRating, a.TotalReviews, a.LastUpdated)
	}
	sqlStr := insertAggregatesPrefix + strings.Join(values, ",")
	if upsert {
		sqlStr += upsertAggregatesOnDup
	}
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// SaveImageURLs stores the ordered list as a JSON column on the hotels row,
// tagging index 0 as primary and mirroring it into the legacy image_url
// column. Callers only invoke this for non-empty lists: an empty list during
// edit leaves the stored images untouched.
func (r *Repo) SaveImageURLs(ctx context.Context, hotelID int64, urls []string) (domain.Hotel, error) {
	images := make([]domain.HotelImage, 0, len(urls))
	for i, u := range urls {
		images = append(images, domain.HotelImage{URL: u, IsPrimary: i == 0, SortOrder: i})
	}
	imgs, _ := json.Marshal(images)
	var first any
	if len(urls) > 0 {
		first = urls[0]
	}
	if _, err := r.db.ExecContext(ctx, saveImagesSQL, string(imgs), first, hotelID); err != nil {
		log.Error().Int64("hotel_id", hotelID).Err(err).Msg("save image urls failed")
		return domain.Hotel{}, fmt.Errorf("save image urls: %w", err)
	}
	return r.getHotelRow(ctx, hotelID)
}
