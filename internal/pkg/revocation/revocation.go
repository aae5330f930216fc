// Package revocation implements a probabilistic membership set of revoked
// token strings. Bits live in an external store under day-partitioned keys
// that age out on their own, so entries never need explicit removal. False
// positives reject a still-valid token early; false negatives cannot occur.
package revocation

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"time"
)

// BitStore is the backing bitmap, keyed by filter partition.
type BitStore interface {
	SetBits(ctx context.Context, key string, offsets []uint64, expiry time.Duration) error
	GetBits(ctx context.Context, key string, offsets []uint64) ([]bool, error)
}

// Options size the bloom filter.
type Options struct {
	DaySize   int     // expected revocations per day
	ErrorRate float64 // acceptable false-positive rate
	KeyName   string  // store key prefix
}

const (
	DefaultDaySize   = 10000
	DefaultErrorRate = 0.001
	DefaultKeyName   = "jwt-blacklist"

	dayFormat = "2006-01-02"
	// Partitions expire after two days: a token revoked just before midnight
	// must stay blocked for its remaining natural lifetime, which is far
	// shorter than a day.
	partitionExpiry = 48 * time.Hour
)

// Filter is a bloom filter over a BitStore.
type Filter struct {
	store   BitStore
	bits    uint64
	hashes  int
	keyName string
	now     func() time.Time
}

// New derives the bit-array size and hash count from the expected daily
// volume and target error rate.
func New(store BitStore, opts Options) *Filter {
	n := opts.DaySize
	if n <= 0 {
		n = DefaultDaySize
	}
	p := opts.ErrorRate
	if p <= 0 || p >= 1 {
		p = DefaultErrorRate
	}
	keyName := opts.KeyName
	if keyName == "" {
		keyName = DefaultKeyName
	}

	m := uint64(math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2)))
	k := int(math.Round(float64(m) / float64(n) * math.Ln2))
	if k < 1 {
		k = 1
	}

	return &Filter{
		store:   store,
		bits:    m,
		hashes:  k,
		keyName: keyName,
		now:     time.Now,
	}
}

// Add marks a token as revoked in today's partition.
func (f *Filter) Add(ctx context.Context, token string) error {
	key := f.partitionKey(f.now())
	if err := f.store.SetBits(ctx, key, f.offsets(token), partitionExpiry); err != nil {
		return fmt.Errorf("revocation add: %w", err)
	}
	return nil
}

// Has reports whether a token was revoked today or yesterday. Older
// partitions are irrelevant: any access token revoked before that has long
// passed its natural expiry.
func (f *Filter) Has(ctx context.Context, token string) (bool, error) {
	offsets := f.offsets(token)
	now := f.now()
	for _, day := range []time.Time{now, now.Add(-24 * time.Hour)} {
		set, err := f.store.GetBits(ctx, f.partitionKey(day), offsets)
		if err != nil {
			return false, fmt.Errorf("revocation lookup: %w", err)
		}
		if allSet(set) {
			return true, nil
		}
	}
	return false, nil
}

func (f *Filter) partitionKey(day time.Time) string {
	return f.keyName + ":" + day.UTC().Format(dayFormat)
}

// offsets derives the k bit positions for a token via double hashing.
func (f *Filter) offsets(token string) []uint64 {
	h1 := fnvSum(token, 0x00)
	h2 := fnvSum(token, 0xff)
	out := make([]uint64, f.hashes)
	for i := range out {
		out[i] = (h1 + uint64(i)*h2) % f.bits
	}
	return out
}

func fnvSum(s string, seed byte) uint64 {
	h := fnv.New64a()
	h.Write([]byte{seed})
	h.Write([]byte(s))
	return h.Sum64()
}

func allSet(bits []bool) bool {
	if len(bits) == 0 {
		return false
	}
	for _, b := range bits {
		if !b {
			return false
		}
	}
	return true
}
