// Package service registers identities across the two persistence mediums
// and repairs the embedding index from the ledger.
//
// Registration is a two-phase write with no shared transaction: the ledger
// commits first, then the vector is appended to the index and the index is
// persisted. If the second phase fails the person exists but can never be
// matched; that state is logged, counted, reported to the caller, and
// repaired by Reconcile, which rebuilds the index from ledger-stored vectors.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"rollcall/internal/identity/index"
	"rollcall/internal/identity/metrics"
	"rollcall/internal/ledger/models"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"
)

var tracer = otel.Tracer("rollcall/registration")

// Ledger is the slice of the attendance ledger registration needs.
type Ledger interface {
	RegisterPerson(ctx context.Context, in models.NewPerson, at time.Time) (int64, error)
	ListIdentityVectors(ctx context.Context) ([]models.IdentityVector, error)
}

// EmbeddingIndex is the write side of the embedding index.
type EmbeddingIndex interface {
	Insert(identityKey string, vector []float64) error
	Contains(identityKey string) bool
	Replace(entries []index.Entry) error
	Keys() []string
	Len() int
	Persist() error
}

// Registration is the outcome of a successful ledger write. Indexed is false
// when the person was stored but the index insert failed.
type Registration struct {
	PersonID    int64
	IdentityKey string
	Name        string
	Indexed     bool
}

// ReconcileReport summarizes one repair pass.
type ReconcileReport struct {
	LedgerIdentities int `json:"ledger_identities"`
	IndexBefore      int `json:"index_before"`
	IndexAfter       int `json:"index_after"`
	MissingAdded     int `json:"missing_added"`
	OrphansRemoved   int `json:"orphans_removed"`
	Skipped          int `json:"skipped"`
}

// Service coordinates the ledger and the embedding index.
type Service struct {
	ledger  Ledger
	index   EmbeddingIndex
	metrics *metrics.Metrics
	logger  *slog.Logger

	// indexMu orders index writes from Register against Reconcile so a
	// rebuild never drops or duplicates a concurrent registration.
	indexMu sync.Mutex
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(ledger Ledger, ix EmbeddingIndex, opts ...Option) *Service {
	s := &Service{ledger: ledger, index: ix, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register stores the person and their enrollments, then indexes the vector.
// A duplicate identity key fails with CodeDuplicateIdentity and touches
// neither store.
func (s *Service) Register(ctx context.Context, in models.NewPerson) (*Registration, error) {
	ctx, span := tracer.Start(ctx, "registration.register")
	defer span.End()

	if in.FirstName == "" || in.LastName == "" || in.IdentityKey == "" || in.Level == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "first_name, last_name, matric_number and level are required")
	}
	if err := index.CheckDimensions(in.Embedding); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDimensionMismatch, "invalid embedding: "+err.Error())
	}

	personID, err := s.ledger.RegisterPerson(ctx, in, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeDuplicateIdentity, "matric number already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register person")
	}

	reg := &Registration{
		PersonID:    personID,
		IdentityKey: in.IdentityKey,
		Name:        in.FirstName + " " + in.LastName,
	}
	reg.Indexed = s.indexIdentity(ctx, in.IdentityKey, in.Embedding)
	span.SetAttributes(attribute.Bool("registration.indexed", reg.Indexed))
	return reg, nil
}

func (s *Service) indexIdentity(ctx context.Context, key string, vector []float64) bool {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	// A reconcile that ran after the ledger commit has already indexed key.
	if !s.index.Contains(key) {
		if err := s.index.Insert(key, vector); err != nil {
			s.metrics.IncrementIndexInsertFailures()
			s.logger.ErrorContext(ctx, "identity registered but not indexed; run reconcile",
				"identity_key", key,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			return false
		}
	}
	s.metrics.SetIndexEntries(s.index.Len())

	if err := s.index.Persist(); err != nil {
		s.logger.ErrorContext(ctx, "embedding index not persisted; it will be rebuilt from the ledger on next reconcile",
			"identity_key", key,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return true
}

// Reconcile rebuilds the embedding index from the ledger's stored vectors in
// registration order and persists it. Ledger rows whose stored vector is
// unusable are skipped and logged.
func (s *Service) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	ctx, span := tracer.Start(ctx, "registration.reconcile")
	defer span.End()

	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	vectors, err := s.ledger.ListIdentityVectors(ctx)
	if err != nil {
		s.metrics.IncrementReconcile("error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read ledger identities")
	}

	before := s.index.Keys()
	remaining := make(map[string]int, len(before))
	for _, k := range before {
		remaining[k]++
	}

	report := &ReconcileReport{LedgerIdentities: len(vectors), IndexBefore: len(before)}
	entries := make([]index.Entry, 0, len(vectors))
	for _, v := range vectors {
		if err := index.CheckDimensions(v.Vector); err != nil {
			report.Skipped++
			s.logger.ErrorContext(ctx, "ledger identity has an unusable vector",
				"identity_key", v.IdentityKey,
				"error", err,
			)
			continue
		}
		if remaining[v.IdentityKey] > 0 {
			remaining[v.IdentityKey]--
		} else {
			report.MissingAdded++
		}
		entries = append(entries, index.Entry{IdentityKey: v.IdentityKey, Vector: v.Vector})
	}
	for _, n := range remaining {
		report.OrphansRemoved += n
	}

	if err := s.index.Replace(entries); err != nil {
		s.metrics.IncrementReconcile("error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to rebuild embedding index")
	}
	if err := s.index.Persist(); err != nil {
		s.metrics.IncrementReconcile("error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist embedding index")
	}
	report.IndexAfter = s.index.Len()
	s.metrics.SetIndexEntries(report.IndexAfter)
	s.metrics.IncrementReconcile("ok")

	level := slog.LevelInfo
	if report.MissingAdded > 0 || report.OrphansRemoved > 0 || report.Skipped > 0 {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "embedding index reconciled",
		"ledger_identities", report.LedgerIdentities,
		"index_before", report.IndexBefore,
		"index_after", report.IndexAfter,
		"missing_added", report.MissingAdded,
		"orphans_removed", report.OrphansRemoved,
		"skipped", report.Skipped,
	)
	return report, nil
}
