// Package index is the in-memory nearest-neighbour index over enrolled feature
// vectors. It is an exact brute-force scan: O(N·D) per query.
//
// The index is a projection of the ledger. The ledger decides whether an
// identity exists; the index only answers "which stored vector is closest".
package index

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Dimensions is the fixed length of every feature vector.
const Dimensions = 128

// ErrDimensionMismatch is returned when a vector is not Dimensions long.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// ErrStale is returned by Persist while the in-memory collection is not a
// faithful copy of the ledger: the last Load failed and no Replace has run.
var ErrStale = errors.New("embedding index is stale")

// Entry pairs an identity key with its feature vector.
type Entry struct {
	IdentityKey string
	Vector      []float64
}

// Match is the closest stored entry for a query.
type Match struct {
	IdentityKey string
	Distance    float64
}

// Index owns the vector collection. Writers (Insert, Replace) take the write
// lock; Query and Persist snapshot under the read lock, so no reader ever sees
// a partially appended row.
type Index struct {
	mu      sync.RWMutex
	keys    []string
	vectors []float64 // row-major, len(keys)*Dimensions

	persistMu sync.Mutex
	stale     bool // guarded by mu
	files     fileSet
	logger    *slog.Logger
}

// New returns an empty index persisted under dir.
func New(dir string, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{files: newFileSet(dir), logger: logger}
}

// CheckDimensions validates vector length and rejects non-finite components.
func CheckDimensions(vector []float64) error {
	if len(vector) != Dimensions {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, Dimensions, len(vector))
	}
	for _, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite component", ErrDimensionMismatch)
		}
	}
	return nil
}

// Insert appends one entry. Duplicate keys are appended, not replaced; the
// ledger rejects duplicate identities before an insert is attempted.
func (ix *Index) Insert(identityKey string, vector []float64) error {
	if err := CheckDimensions(vector); err != nil {
		return err
	}
	if identityKey == "" {
		return errors.New("identity key is required")
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.keys = append(ix.keys, identityKey)
	ix.vectors = append(ix.vectors, vector...)
	return nil
}

// Query returns the entry closest to vector by Euclidean distance when that
// distance is <= threshold. Ties resolve to the earliest stored entry.
func (ix *Index) Query(vector []float64, threshold float64) (Match, bool, error) {
	if err := CheckDimensions(vector); err != nil {
		return Match{}, false, err
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	best := -1
	bestDist := math.Inf(1)
	for i := range ix.keys {
		d := floats.Distance(ix.row(i), vector, 2)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || bestDist > threshold {
		return Match{}, false, nil
	}
	return Match{IdentityKey: ix.keys[best], Distance: bestDist}, true, nil
}

// Len reports the number of stored entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.keys)
}

// Contains reports whether any entry carries identityKey.
func (ix *Index) Contains(identityKey string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	for _, k := range ix.keys {
		if k == identityKey {
			return true
		}
	}
	return false
}

// Keys returns a copy of the stored identity keys in storage order.
func (ix *Index) Keys() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return append([]string(nil), ix.keys...)
}

// Replace swaps the whole collection atomically. Used by reconciliation.
func (ix *Index) Replace(entries []Entry) error {
	keys := make([]string, 0, len(entries))
	vectors := make([]float64, 0, len(entries)*Dimensions)
	for _, e := range entries {
		if err := CheckDimensions(e.Vector); err != nil {
			return fmt.Errorf("entry %q: %w", e.IdentityKey, err)
		}
		keys = append(keys, e.IdentityKey)
		vectors = append(vectors, e.Vector...)
	}
	ix.mu.Lock()
	ix.keys, ix.vectors = keys, vectors
	ix.stale = false
	ix.mu.Unlock()
	return nil
}

// Stale reports whether the index must be rebuilt with Replace before it may
// be persisted again.
func (ix *Index) Stale() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.stale
}

func (ix *Index) row(i int) []float64 {
	return ix.vectors[i*Dimensions : (i+1)*Dimensions]
}

func (ix *Index) snapshot() ([]string, []float64, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return append([]string(nil), ix.keys...), append([]float64(nil), ix.vectors...), ix.stale
}
