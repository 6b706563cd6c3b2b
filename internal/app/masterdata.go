package app

import (
	"context"
	"fmt"
	"time"

	"hotel_admin/internal/domain"
)

func masterKey(table domain.MasterTable, activeOnly bool) string {
	scope := "all"
	if activeOnly {
		scope = "active"
	}
	return fmt.Sprintf("md:%s:%s", table, scope)
}

// MasterDataService fronts the four reference tables. Dropdown lists are
// cached; every mutation drops both scopes for the table plus the hotel
// list, whose rows embed master-data display names.
type MasterDataService struct {
	repo     domain.MasterDataRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewMasterDataService(r domain.MasterDataRepository, c domain.Cache, ttl time.Duration) *MasterDataService {
	return &MasterDataService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *MasterDataService) List(ctx context.Context, table domain.MasterTable, activeOnly bool) ([]domain.MasterEntity, error) {
	key := masterKey(table, activeOnly)
	var cached []domain.MasterEntity
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}
	out, err := s.repo.List(ctx, table, activeOnly)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *MasterDataService) Create(ctx context.Context, table domain.MasterTable, e domain.MasterEntity) (domain.MasterEntity, error) {
	created, err := s.repo.Create(ctx, table, e)
	if err != nil {
		return domain.MasterEntity{}, err
	}
	s.invalidate(ctx, table)
	return created, nil
}

func (s *MasterDataService) Update(ctx context.Context, table domain.MasterTable, id int64, e domain.MasterEntity) (domain.MasterEntity, error) {
	updated, err := s.repo.Update(ctx, table, id, e)
	if err != nil {
		return domain.MasterEntity{}, err
	}
	s.invalidate(ctx, table)
	return updated, nil
}

// Delete does not guard against hotels still referencing the row; the
// storage engine's constraint behavior decides, and any violation surfaces
// as a generic error.
func (s *MasterDataService) Delete(ctx context.Context, table domain.MasterTable, id int64) error {
	if err := s.repo.Delete(ctx, table, id); err != nil {
		return err
	}
	s.invalidate(ctx, table)
	return nil
}

func (s *MasterDataService) invalidate(ctx context.Context, table domain.MasterTable) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, masterKey(table, false), masterKey(table, true), listKey)
}
