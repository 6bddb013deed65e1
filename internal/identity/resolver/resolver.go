// Package resolver turns a raw nearest-neighbour result into an identity decision.
package resolver

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"rollcall/internal/identity/index"
	"rollcall/internal/identity/metrics"
	dErrors "rollcall/pkg/domain-errors"
)

// DefaultThreshold is the maximum accepted Euclidean distance.
const DefaultThreshold = 0.6

var tracer = otel.Tracer("rollcall/identity/resolver")

// Searcher is the read side of the embedding index.
type Searcher interface {
	Query(vector []float64, threshold float64) (index.Match, bool, error)
}

// Resolution is either Matched (with key and distance) or unmatched.
type Resolution struct {
	Matched     bool
	IdentityKey string
	Distance    float64
}

// Resolver applies the threshold policy. It never mutates state.
type Resolver struct {
	searcher  Searcher
	threshold float64
	metrics   *metrics.Metrics
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithThreshold overrides DefaultThreshold. Zero accepts exact matches only;
// negative and NaN values are ignored.
func WithThreshold(t float64) Option {
	return func(r *Resolver) {
		if t >= 0 {
			r.threshold = t
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

func New(searcher Searcher, opts ...Option) *Resolver {
	r := &Resolver{searcher: searcher, threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Threshold reports the active distance threshold.
func (r *Resolver) Threshold() float64 {
	return r.threshold
}

// Resolve maps vector to the closest enrolled identity within the threshold.
func (r *Resolver) Resolve(ctx context.Context, vector []float64) (Resolution, error) {
	_, span := tracer.Start(ctx, "identity.resolve")
	defer span.End()

	m, ok, err := r.searcher.Query(vector, r.threshold)
	if err != nil {
		if errors.Is(err, index.ErrDimensionMismatch) {
			return Resolution{}, dErrors.Wrap(err, dErrors.CodeDimensionMismatch, "invalid embedding: "+err.Error())
		}
		return Resolution{}, dErrors.Wrap(err, dErrors.CodeInternal, "embedding index query failed")
	}
	r.metrics.IncrementResolve(ok)
	span.SetAttributes(attribute.Bool("identity.matched", ok))
	if !ok {
		return Resolution{}, nil
	}
	r.metrics.ObserveMatchDistance(m.Distance)
	span.SetAttributes(attribute.Float64("identity.distance", m.Distance))
	return Resolution{Matched: true, IdentityKey: m.IdentityKey, Distance: m.Distance}, nil
}
