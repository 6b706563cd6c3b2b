package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"hotel_admin/internal/adapters/observability"
	"hotel_admin/internal/domain"
)

// HotelService owns the write workflow: the scalar hotels row first, then a
// best-effort fan-out over the related-entity synchronizers. There is no
// transaction across the tables; a synchronizer failure leaves the scalar
// write in place and is reported as a warning, never rolled back.
type HotelService struct {
	repo  domain.HotelRepository
	cache domain.Cache
}

func NewHotelService(r domain.HotelRepository, c domain.Cache) *HotelService {
	return &HotelService{repo: r, cache: c}
}

// MutationResult carries the persisted hotel plus any non-fatal synchronizer
// failures. Warnings non-empty means "succeeded with warnings": the scalar
// row is saved but one or more related collections may be stale.
type MutationResult struct {
	Hotel    domain.Hotel
	Warnings []string
}

func (m MutationResult) PartialFailure() bool { return len(m.Warnings) > 0 }

type syncJob struct {
	entity string
	run    func(ctx context.Context) error
}

// runSyncs executes the applicable synchronizers concurrently and
// independently, collecting failures instead of cancelling siblings.
func runSyncs(ctx context.Context, jobs []syncJob) []string {
	var (
		mu       sync.Mutex
		warnings []string
		wg       sync.WaitGroup
	)
	for _, j := range jobs {
		j := j
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := j.run(ctx); err != nil {
				observability.ObserveSync(j.entity, "error")
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("%s: %v", j.entity, err))
				mu.Unlock()
				return
			}
			observability.ObserveSync(j.entity, "ok")
		}()
	}
	wg.Wait()
	return warnings
}

// CreateComplete inserts the hotel row, then blind-inserts every submitted
// related collection. The hotel persists even when a child save fails; such
// failures come back as "created but X failed" warnings.
func (s *HotelService) CreateComplete(ctx context.Context, h domain.Hotel, related domain.RelatedData) (MutationResult, error) {
	created, err := s.repo.Create(ctx, h)
	if err != nil {
		return MutationResult{}, err
	}

	var jobs []syncJob
	if related.Rooms != nil {
		rooms := *related.Rooms
		jobs = append(jobs, syncJob{"rooms", func(ctx context.Context) error {
			_, err := s.repo.SaveRooms(ctx, created.ID, rooms)
			return err
		}})
	}
	if related.AmenityIDs != nil {
		ids := *related.AmenityIDs
		jobs = append(jobs, syncJob{"amenities", func(ctx context.Context) error {
			return s.repo.SaveAmenities(ctx, created.ID, ids)
		}})
	}
	if related.ReviewAggregates != nil {
		aggs := *related.ReviewAggregates
		jobs = append(jobs, syncJob{"review_aggregates", func(ctx context.Context) error {
			_, err := s.repo.SaveReviewAggregates(ctx, created.ID, aggs)
			return err
		}})
	}
	if related.ImageURLs != nil && len(*related.ImageURLs) > 0 {
		urls := *related.ImageURLs
		jobs = append(jobs, syncJob{"images", func(ctx context.Context) error {
			_, err := s.repo.SaveImageURLs(ctx, created.ID, urls)
			return err
		}})
	}

	warnings := runSyncs(ctx, jobs)
	if len(warnings) > 0 {
		log.Error().Int64("hotel_id", created.ID).Strs("warnings", warnings).
			Msg("hotel created but some related data failed to save")
	}
	s.invalidate(ctx, created.ID)
	return MutationResult{Hotel: created, Warnings: warnings}, nil
}

// UpdateComplete replaces the scalar hotel fields (hard failure for the
// whole call), then reconciles each submitted related collection
// concurrently. Partial failures are advisory: the updated hotel is still
// returned alongside the warnings.
func (s *HotelService) UpdateComplete(ctx context.Context, id int64, h domain.Hotel, related domain.RelatedData) (MutationResult, error) {
	updated, err := s.repo.Update(ctx, id, h)
	if err != nil {
		return MutationResult{}, err
	}

	var jobs []syncJob
	if related.AmenityIDs != nil {
		ids := *related.AmenityIDs
		jobs = append(jobs, syncJob{"amenities", func(ctx context.Context) error {
			return s.repo.UpdateAmenities(ctx, id, ids)
		}})
	}
	if related.Rooms != nil {
		rooms := *related.Rooms
		jobs = append(jobs, syncJob{"rooms", func(ctx context.Context) error {
			_, err := s.repo.UpdateRooms(ctx, id, rooms)
			return err
		}})
	}
	// Empty image list means "don't clobber what's stored", unlike the other
	// collections where empty means delete-everything.
	if related.ImageURLs != nil && len(*related.ImageURLs) > 0 {
		urls := *related.ImageURLs
		jobs = append(jobs, syncJob{"images", func(ctx context.Context) error {
			_, err := s.repo.SaveImageURLs(ctx, id, urls)
			return err
		}})
	}
	if related.ReviewAggregates != nil {
		aggs := *related.ReviewAggregates
		jobs = append(jobs, syncJob{"review_aggregates", func(ctx context.Context) error {
			_, err := s.repo.UpdateReviewAggregates(ctx, id, aggs)
			return err
		}})
	}

	warnings := runSyncs(ctx, jobs)
	if len(warnings) > 0 {
		log.Error().Int64("hotel_id", id).Strs("warnings", warnings).
			Msg("hotel updated but some related data failed to update")
	}
	s.invalidate(ctx, id)
	return MutationResult{Hotel: updated, Warnings: warnings}, nil
}

// Delete removes the hotel row; dependent rows cascade at the schema level.
func (s *HotelService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *HotelService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, hotelKey(id), listKey)
}
