package resolver

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/identity/index"
	"rollcall/internal/identity/metrics"
	dErrors "rollcall/pkg/domain-errors"
)

func vec(v float64) []float64 {
	out := make([]float64, index.Dimensions)
	for i := range out {
		out[i] = v
	}
	return out
}

func seeded(t *testing.T) *index.Index {
	t.Helper()
	ix := index.New(t.TempDir(), nil)
	require.NoError(t, ix.Insert("A", vec(0)))
	require.NoError(t, ix.Insert("B", vec(1)))
	return ix
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("matches within default threshold", func(t *testing.T) {
		r := New(seeded(t))
		assert.Equal(t, DefaultThreshold, r.Threshold())

		res, err := r.Resolve(ctx, vec(0))
		require.NoError(t, err)
		assert.Equal(t, Resolution{Matched: true, IdentityKey: "A", Distance: 0}, res)
	})

	t.Run("idempotent against unchanged index", func(t *testing.T) {
		r := New(seeded(t))
		q := vec(1)
		q[3] = 1.2
		first, err := r.Resolve(ctx, q)
		require.NoError(t, err)
		second, err := r.Resolve(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, "B", first.IdentityKey)
	})

	t.Run("unmatched beyond threshold", func(t *testing.T) {
		r := New(seeded(t), WithThreshold(0.1))
		q := vec(0)
		q[0] = 0.5
		res, err := r.Resolve(ctx, q)
		require.NoError(t, err)
		assert.False(t, res.Matched)
	})

	t.Run("zero threshold accepts exact matches only", func(t *testing.T) {
		r := New(seeded(t), WithThreshold(0))
		assert.Zero(t, r.Threshold())

		exact, err := r.Resolve(ctx, vec(0))
		require.NoError(t, err)
		assert.True(t, exact.Matched)
		assert.Equal(t, "A", exact.IdentityKey)

		near := vec(0)
		near[0] = 0.01
		res, err := r.Resolve(ctx, near)
		require.NoError(t, err)
		assert.False(t, res.Matched)
	})

	t.Run("negative and NaN thresholds ignored", func(t *testing.T) {
		assert.Equal(t, DefaultThreshold, New(seeded(t), WithThreshold(-0.1)).Threshold())
		assert.Equal(t, DefaultThreshold, New(seeded(t), WithThreshold(math.NaN())).Threshold())
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := New(seeded(t)).Resolve(ctx, []float64{1, 2})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeDimensionMismatch))
	})

	t.Run("searcher failure is internal", func(t *testing.T) {
		_, err := New(failingSearcher{}).Resolve(ctx, vec(0))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func TestResolveRecordsMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	r := New(seeded(t), WithMetrics(m))

	_, err := r.Resolve(context.Background(), vec(0))
	require.NoError(t, err)
	_, err = r.Resolve(context.Background(), vec(0.5))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResolveOutcome.WithLabelValues("matched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResolveOutcome.WithLabelValues("unmatched")))
}

type failingSearcher struct{}

func (failingSearcher) Query([]float64, float64) (index.Match, bool, error) {
	return index.Match{}, false, errors.New("boom")
}
