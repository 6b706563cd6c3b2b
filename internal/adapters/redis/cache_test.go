package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "hotel_admin/internal/adapters/redis"
	"hotel_admin/internal/domain"
)

func newTestCache(t *testing.T) *redisad.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0)
}

func TestCache_SetGetDel(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	in := domain.HotelDetail{
		Hotel:      domain.Hotel{ID: 7, NameEN: "Dune Palace", NameAR: "قصر الكثبان", Status: domain.StatusActive},
		AmenityIDs: []int64{1, 3},
	}
	if err := c.Set(ctx, "hotel:7", in, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out domain.HotelDetail
	ok, err := c.Get(ctx, "hotel:7", &out)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if out.ID != 7 || out.NameEN != "Dune Palace" || len(out.AmenityIDs) != 2 {
		t.Fatalf("unexpected cached value: %+v", out)
	}

	if err := c.Del(ctx, "hotel:7", "hotels:list"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	ok, err = c.Get(ctx, "hotel:7", &out)
	if err != nil {
		t.Fatalf("Get after Del: %v", err)
	}
	if ok {
		t.Fatalf("expected miss after Del")
	}
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c := newTestCache(t)
	var out domain.HotelDetail
	ok, err := c.Get(context.Background(), "hotel:404", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("expected miss")
	}
}
