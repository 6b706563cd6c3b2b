package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_admin/internal/domain"
)

func hotelKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

const listKey = "hotels:list"

type QueryService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// GetHotel serves the read API's detail shape: the complete aggregate plus
// FAQs, cache-aside.
func (s *QueryService) GetHotel(ctx context.Context, id int64) (domain.HotelDetail, error) {
	key := hotelKey(id)
	var cached domain.HotelDetail
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	detail, err := s.repo.GetComplete(ctx, id)
	if err != nil {
		return domain.HotelDetail{}, err
	}
	faqs, err := s.repo.ListFAQs(ctx, id)
	if err != nil {
		// FAQs are decoration on the detail payload, not worth failing it.
		log.Warn().Int64("hotel_id", id).Err(err).Msg("faqs query failed, returning empty list")
		faqs = nil
	}
	if faqs == nil {
		faqs = []domain.FAQ{}
	}
	detail.FAQs = faqs

	_ = s.cache.Set(ctx, key, detail, int(s.cacheTTL.Seconds()))
	return detail, nil
}

// ListHotels serves the read API's list shape: every hotel joined one level.
// Only the unfiltered list is cached.
func (s *QueryService) ListHotels(ctx context.Context) ([]domain.HotelDetail, error) {
	var cached []domain.HotelDetail
	if ok, _ := s.cache.Get(ctx, listKey, &cached); ok {
		return cached, nil
	}
	out, err := s.repo.ListComplete(ctx, domain.HotelFilter{})
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, listKey, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

// SearchHotels backs the admin list page; filters vary per keystroke so the
// result is never cached.
func (s *QueryService) SearchHotels(ctx context.Context, f domain.HotelFilter) ([]domain.HotelSummary, error) {
	return s.repo.List(ctx, f)
}

// GetForEdit loads the aggregate uncached so the edit form always sees the
// current rows.
func (s *QueryService) GetForEdit(ctx context.Context, id int64) (domain.HotelDetail, error) {
	return s.repo.GetComplete(ctx, id)
}

// GetByID is the scalar row plus resolved references, for the view page.
func (s *QueryService) GetByID(ctx context.Context, id int64) (domain.HotelSummary, error) {
	return s.repo.GetByID(ctx, id)
}
