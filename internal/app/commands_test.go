package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"hotel_admin/internal/app"
	"hotel_admin/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu sync.Mutex

	hotels map[int64]domain.Hotel
	nextID int64

	amenities  map[int64][]int64
	rooms      map[int64][]domain.Room
	aggregates map[int64][]domain.ReviewAggregate

	failAmenities bool
	failRooms     bool

	completeCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		hotels:     map[int64]domain.Hotel{},
		nextID:     1,
		amenities:  map[int64][]int64{},
		rooms:      map[int64][]domain.Room{},
		aggregates: map[int64][]domain.ReviewAggregate{},
	}
}

func (f *fakeRepo) Create(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h.ID = f.nextID
	f.nextID++
	f.hotels[h.ID] = h
	return h, nil
}

func (f *fakeRepo) Update(ctx context.Context, id int64, h domain.Hotel) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.hotels[id]; !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	h.ID = id
	f.hotels[id] = h
	return h, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.hotels[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.hotels, id)
	delete(f.amenities, id)
	delete(f.rooms, id)
	delete(f.aggregates, id)
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (domain.HotelSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hotels[id]
	if !ok {
		return domain.HotelSummary{}, domain.ErrNotFound
	}
	return domain.HotelSummary{Hotel: h}, nil
}

func (f *fakeRepo) GetComplete(ctx context.Context, id int64) (domain.HotelDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completeCalls++
	h, ok := f.hotels[id]
	if !ok {
		return domain.HotelDetail{}, domain.ErrNotFound
	}
	return domain.HotelDetail{
		Hotel:            h,
		AmenityIDs:       append([]int64{}, f.amenities[id]...),
		Rooms:            append([]domain.Room{}, f.rooms[id]...),
		ReviewAggregates: append([]domain.ReviewAggregate{}, f.aggregates[id]...),
	}, nil
}

func (f *fakeRepo) List(ctx context.Context, _ domain.HotelFilter) ([]domain.HotelSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.HotelSummary
	for _, h := range f.hotels {
		out = append(out, domain.HotelSummary{Hotel: h})
	}
	return out, nil
}

func (f *fakeRepo) ListComplete(ctx context.Context, _ domain.HotelFilter) ([]domain.HotelDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completeCalls++
	var out []domain.HotelDetail
	for _, h := range f.hotels {
		out = append(out, domain.HotelDetail{Hotel: h})
	}
	return out, nil
}

func (f *fakeRepo) ListFAQs(ctx context.Context, hotelID int64) ([]domain.FAQ, error) {
	return nil, nil
}

func (f *fakeRepo) SaveRooms(ctx context.Context, hotelID int64, rooms []domain.Room) ([]domain.Room, error) {
	if f.failRooms {
		return nil, errors.New("insert room: boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[hotelID] = append(f.rooms[hotelID], rooms...)
	return rooms, nil
}

func (f *fakeRepo) UpdateRooms(ctx context.Context, hotelID int64, rooms []domain.Room) ([]domain.Room, error) {
	if f.failRooms {
		return nil, errors.New("delete rooms: boom")
	}
	f.mu.Lock()
	f.rooms[hotelID] = nil
	f.mu.Unlock()
	return f.SaveRooms(ctx, hotelID, rooms)
}

func (f *fakeRepo) SaveAmenities(ctx context.Context, hotelID int64, ids []int64) error {
	if f.failAmenities {
		return errors.New("insert hotel amenities: unknown amenity id")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.amenities[hotelID] = append([]int64{}, ids...)
	return nil
}

func (f *fakeRepo) UpdateAmenities(ctx context.Context, hotelID int64, ids []int64) error {
	if f.failAmenities {
		return errors.New("delete hotel amenities: unknown amenity id")
	}
	f.mu.Lock()
	f.amenities[hotelID] = nil
	f.mu.Unlock()
	return f.SaveAmenities(ctx, hotelID, ids)
}

func (f *fakeRepo) SaveReviewAggregates(ctx context.Context, hotelID int64, aggs []domain.ReviewAggregate) ([]domain.ReviewAggregate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.aggregates[hotelID] = append([]domain.ReviewAggregate{}, aggs...)
	return aggs, nil
}

func (f *fakeRepo) UpdateReviewAggregates(ctx context.Context, hotelID int64, aggs []domain.ReviewAggregate) ([]domain.ReviewAggregate, error) {
	return f.SaveReviewAggregates(ctx, hotelID, aggs)
}

func (f *fakeRepo) SaveImageURLs(ctx context.Context, hotelID int64, urls []string) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := f.hotels[hotelID]
	images := make([]domain.HotelImage, 0, len(urls))
	for i, u := range urls {
		images = append(images, domain.HotelImage{URL: u, IsPrimary: i == 0, SortOrder: i})
	}
	h.Images = images
	f.hotels[hotelID] = h
	return h, nil
}

// fakeCache round-trips values through JSON like the redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, _ := json.Marshal(v)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.store, k)
		c.dels = append(c.dels, k)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

// ---- tests ----

func TestCreateComplete_SavesAllCollections(t *testing.T) {
	repo := newFakeRepo()
	svc := app.NewHotelService(repo, newFakeCache())

	rooms := []domain.Room{{RoomType: "Deluxe", Bedding: "King", View: "Sea"}}
	amenities := []int64{1, 2}
	aggs := []domain.ReviewAggregate{{Source: "Google", AverageRating: 8.6, TotalReviews: 120}}
	urls := []string{"https://img.example/a.jpg", "https://img.example/b.jpg"}

	res, err := svc.CreateComplete(context.Background(), domain.Hotel{
		NameEN: "Palm Gate", NameAR: "بوابة النخيل", TypeID: 1, AreaID: 2, Status: domain.StatusActive,
	}, domain.RelatedData{
		Rooms:            &rooms,
		AmenityIDs:       &amenities,
		ReviewAggregates: &aggs,
		ImageURLs:        &urls,
	})
	if err != nil {
		t.Fatalf("CreateComplete: %v", err)
	}
	if res.PartialFailure() {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	if res.Hotel.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if got := repo.amenities[res.Hotel.ID]; len(got) != 2 {
		t.Fatalf("amenities = %v", got)
	}
	if got := repo.rooms[res.Hotel.ID]; len(got) != 1 {
		t.Fatalf("rooms = %v", got)
	}
	if got := repo.aggregates[res.Hotel.ID]; len(got) != 1 {
		t.Fatalf("aggregates = %v", got)
	}
	if got := repo.hotels[res.Hotel.ID].Images; len(got) != 2 || !got[0].IsPrimary {
		t.Fatalf("images = %v", got)
	}
}

func TestCreateComplete_ChildFailureKeepsHotel(t *testing.T) {
	repo := newFakeRepo()
	repo.failRooms = true
	svc := app.NewHotelService(repo, newFakeCache())

	rooms := []domain.Room{{RoomType: "Standard"}}
	res, err := svc.CreateComplete(context.Background(), domain.Hotel{
		NameEN: "X", NameAR: "ص", TypeID: 1, AreaID: 2, Status: domain.StatusActive,
	}, domain.RelatedData{Rooms: &rooms})
	if err != nil {
		t.Fatalf("CreateComplete: %v", err)
	}
	if !res.PartialFailure() {
		t.Fatalf("expected warnings")
	}
	if _, ok := repo.hotels[res.Hotel.ID]; !ok {
		t.Fatalf("hotel row must persist despite room failure")
	}
}

func TestUpdateComplete_PartialFailure(t *testing.T) {
	repo := newFakeRepo()
	created, _ := repo.Create(context.Background(), domain.Hotel{
		NameEN: "Old Name", NameAR: "قديم", TypeID: 1, AreaID: 2, Status: domain.StatusActive,
	})
	repo.amenities[created.ID] = []int64{5, 6}

	repo.failAmenities = true
	svc := app.NewHotelService(repo, newFakeCache())

	newAmenities := []int64{7}
	res, err := svc.UpdateComplete(context.Background(), created.ID, domain.Hotel{
		NameEN: "New Name", NameAR: "جديد", TypeID: 1, AreaID: 2, Status: domain.StatusActive,
	}, domain.RelatedData{AmenityIDs: &newAmenities})
	if err != nil {
		t.Fatalf("scalar update must not fail: %v", err)
	}
	if !res.PartialFailure() {
		t.Fatalf("expected partial-failure warnings")
	}
	if !strings.Contains(strings.Join(res.Warnings, ";"), "amenities") {
		t.Fatalf("warnings should name the failed synchronizer: %v", res.Warnings)
	}
	// Scalar fields changed, amenity list unchanged from before the failed sync.
	if repo.hotels[created.ID].NameEN != "New Name" {
		t.Fatalf("scalar update lost: %+v", repo.hotels[created.ID])
	}
	if got := repo.amenities[created.ID]; len(got) != 2 || got[0] != 5 {
		t.Fatalf("amenities should be untouched, got %v", got)
	}
}

func TestUpdateComplete_NotFound(t *testing.T) {
	svc := app.NewHotelService(newFakeRepo(), newFakeCache())
	_, err := svc.UpdateComplete(context.Background(), 999, domain.Hotel{NameEN: "X"}, domain.RelatedData{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateComplete_EmptyImagesDontClobber(t *testing.T) {
	repo := newFakeRepo()
	created, _ := repo.Create(context.Background(), domain.Hotel{
		NameEN: "H", NameAR: "ف", TypeID: 1, AreaID: 2, Status: domain.StatusActive,
		Images: []domain.HotelImage{{URL: "keep.jpg", IsPrimary: true}},
	})
	svc := app.NewHotelService(repo, newFakeCache())

	empty := []string{}
	res, err := svc.UpdateComplete(context.Background(), created.ID, created, domain.RelatedData{ImageURLs: &empty})
	if err != nil || res.PartialFailure() {
		t.Fatalf("update: %v %v", err, res.Warnings)
	}
	if got := repo.hotels[created.ID].Images; len(got) != 1 || got[0].URL != "keep.jpg" {
		t.Fatalf("empty image list must leave stored images untouched, got %v", got)
	}
}

func TestDelete_InvalidatesCache(t *testing.T) {
	repo := newFakeRepo()
	created, _ := repo.Create(context.Background(), domain.Hotel{NameEN: "H", NameAR: "ف", TypeID: 1, AreaID: 2})
	cache := newFakeCache()
	_ = cache.Set(context.Background(), "hotel:1", domain.HotelDetail{Hotel: created}, 60)

	svc := app.NewHotelService(repo, cache)
	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := cache.store["hotel:1"]; ok {
		t.Fatalf("hotel key should be invalidated")
	}
	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete = %v, want ErrNotFound", err)
	}
}
