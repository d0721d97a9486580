package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/theirongolddev/wishjar/internal/model"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestFetchMissing(t *testing.T) {
	s, _ := newTestStore(t)
	rec, err := s.Fetch(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if rec != nil {
		t.Fatalf("Fetch = %+v, want nil", rec)
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)

	rec := model.SavingsRecord{
		UserKey:        "k1",
		Wishes:         []model.Wish{{ID: "x", Name: "Camera", Target: 640.5}},
		CurrentBalance: 12,
		DailySaving:    8.5,
	}
	if err := s.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !mr.Exists(keyPrefix + "k1") {
		t.Fatalf("key %q not written", keyPrefix+"k1")
	}

	got, err := s.Fetch(ctx, "k1")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.UserKey != "k1" || len(got.Wishes) != 1 || got.Wishes[0].Target != 640.5 {
		t.Fatalf("got %+v", got)
	}
	if got.CurrentBalance != 12 || got.DailySaving != 8.5 {
		t.Fatalf("config = %+v", got.Config())
	}
	if got.UpdatedAt.IsZero() {
		t.Fatal("UpdatedAt not stamped")
	}
}

func TestTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)
	s.WithTTL(time.Hour)

	if err := s.Upsert(ctx, model.SavingsRecord{UserKey: "ttl"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if ttl := mr.TTL(keyPrefix + "ttl"); ttl != time.Hour {
		t.Fatalf("TTL = %v, want 1h", ttl)
	}

	mr.FastForward(2 * time.Hour)
	rec, err := s.Fetch(ctx, "ttl")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if rec != nil {
		t.Fatal("record survived its TTL")
	}
}

func TestFetchUnavailable(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Close()
	if _, err := s.Fetch(context.Background(), "k"); err == nil {
		t.Fatal("Fetch against a closed server succeeded")
	}
}
