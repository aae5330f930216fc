package revocation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type memoryBitStore struct {
	bits map[string]map[uint64]bool
	err  error
}

func newMemoryBitStore() *memoryBitStore {
	return &memoryBitStore{bits: map[string]map[uint64]bool{}}
}

func (s *memoryBitStore) SetBits(_ context.Context, key string, offsets []uint64, _ time.Duration) error {
	if s.err != nil {
		return s.err
	}
	m := s.bits[key]
	if m == nil {
		m = map[uint64]bool{}
		s.bits[key] = m
	}
	for _, off := range offsets {
		m[off] = true
	}
	return nil
}

func (s *memoryBitStore) GetBits(_ context.Context, key string, offsets []uint64) ([]bool, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]bool, len(offsets))
	for i, off := range offsets {
		out[i] = s.bits[key][off]
	}
	return out, nil
}

func TestAddThenHas(t *testing.T) {
	store := newMemoryBitStore()
	f := New(store, Options{})
	ctx := context.Background()

	token := "header.payload.signature"
	if ok, err := f.Has(ctx, token); err != nil || ok {
		t.Fatalf("Has before Add = (%v, %v), want (false, nil)", ok, err)
	}
	if err := f.Add(ctx, token); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if ok, err := f.Has(ctx, token); err != nil || !ok {
		t.Fatalf("Has after Add = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestHasSeesYesterdaysPartition(t *testing.T) {
	store := newMemoryBitStore()
	f := New(store, Options{})
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	f.now = func() time.Time { return base }
	if err := f.Add(ctx, "late-night-token"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Two minutes later it is the next day; the token must still be blocked.
	f.now = func() time.Time { return base.Add(2 * time.Minute) }
	if ok, err := f.Has(ctx, "late-night-token"); err != nil || !ok {
		t.Fatalf("Has across day boundary = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestNoFalseNegatives(t *testing.T) {
	store := newMemoryBitStore()
	f := New(store, Options{DaySize: 1000, ErrorRate: 0.001})
	ctx := context.Background()

	for i := 0; i < 500; i++ {
		if err := f.Add(ctx, fmt.Sprintf("revoked-token-%d", i)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	for i := 0; i < 500; i++ {
		ok, err := f.Has(ctx, fmt.Sprintf("revoked-token-%d", i))
		if err != nil || !ok {
			t.Fatalf("revoked token %d not found: (%v, %v)", i, ok, err)
		}
	}
}

func TestSizingDefaults(t *testing.T) {
	f := New(newMemoryBitStore(), Options{})
	if f.bits == 0 || f.hashes < 1 {
		t.Fatalf("bad sizing: bits=%d hashes=%d", f.bits, f.hashes)
	}
	// 10k entries at 0.1% needs roughly 144k bits and 10 hashes.
	if f.bits < 100000 || f.bits > 200000 {
		t.Fatalf("unexpected bit count %d", f.bits)
	}
	if f.hashes < 5 || f.hashes > 15 {
		t.Fatalf("unexpected hash count %d", f.hashes)
	}
}

func TestStoreErrorsSurface(t *testing.T) {
	store := newMemoryBitStore()
	store.err = errors.New("connection refused")
	f := New(store, Options{})
	ctx := context.Background()

	if err := f.Add(ctx, "tok"); err == nil {
		t.Fatal("Add should surface store error")
	}
	if _, err := f.Has(ctx, "tok"); err == nil {
		t.Fatal("Has should surface store error")
	}
}
