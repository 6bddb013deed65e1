// Package service is the attendance recorder: it composes the identity
// resolver and the ledger into one "mark attendance" operation.
//
// A mark moves Received -> Matched|Rejected -> EnrollmentChecked ->
// DuplicateChecked -> Recorded|Blocked. Identification and recording are
// reported separately so a caller always learns who matched, even when
// nothing was recorded.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"rollcall/internal/attendance/metrics"
	"rollcall/internal/identity/index"
	"rollcall/internal/identity/resolver"
	"rollcall/internal/ledger/models"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"
)

var tracer = otel.Tracer("rollcall/attendance")

// Blocked reasons surfaced to callers.
const (
	ReasonNotEnrolled   = "not enrolled"
	ReasonAlreadyMarked = "already marked today"
)

// Outcome is the terminal state of one mark.
type Outcome string

const (
	OutcomeRecorded      Outcome = "recorded"
	OutcomeNotEnrolled   Outcome = "not_enrolled"
	OutcomeAlreadyMarked Outcome = "already_marked"
	OutcomeNoMatch       Outcome = "no_match"
	OutcomeInconsistent  Outcome = "consistency_violation"
	OutcomeInvalid       Outcome = "invalid"
	OutcomeFailed        Outcome = "failed"
)

// Ledger is the slice of the attendance ledger the recorder needs.
type Ledger interface {
	FindPerson(ctx context.Context, identityKey string) (*models.Person, error)
	IsEnrolled(ctx context.Context, personID, courseID int64) (bool, error)
	HasRecordedToday(ctx context.Context, personID, courseID int64, now time.Time) (bool, error)
	RecordEvent(ctx context.Context, personID, courseID int64, at time.Time) (*models.AttendanceEvent, error)
}

// IdentityResolver decides which enrolled identity a vector belongs to.
type IdentityResolver interface {
	Resolve(ctx context.Context, vector []float64) (resolver.Resolution, error)
}

// MarkRequest is one attendance attempt.
type MarkRequest struct {
	CourseID  int64
	Embedding []float64
}

// Result describes a mark that reached a terminal state other than a hard
// failure. Matched is false only for OutcomeNoMatch.
type Result struct {
	Outcome     Outcome
	Matched     bool
	IdentityKey string
	Name        string
	Marked      bool
	Reason      string
	CourseID    int64
	Distance    float64
	Event       *models.AttendanceEvent
}

// Service records attendance.
type Service struct {
	resolver IdentityResolver
	ledger   Ledger
	metrics  *metrics.Metrics
	logger   *slog.Logger
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

func New(identities IdentityResolver, ledger Ledger, opts ...Option) *Service {
	s := &Service{resolver: identities, ledger: ledger, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mark identifies the person behind req.Embedding and records one attendance
// event for req.CourseID if they are enrolled and not yet marked today.
//
// Errors are reserved for invalid input, consistency violations and storage
// failures; business-rule rejections come back as a Result with Marked false.
func (s *Service) Mark(ctx context.Context, req MarkRequest) (*Result, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "attendance.mark")
	defer span.End()
	span.SetAttributes(attribute.Int64("attendance.course_id", req.CourseID))

	res, err := s.mark(ctx, req)
	outcome := OutcomeFailed
	switch {
	case err == nil:
		outcome = res.Outcome
	case dErrors.HasCode(err, dErrors.CodeConsistencyViolation):
		outcome = OutcomeInconsistent
	case dErrors.HasCode(err, dErrors.CodeValidation), dErrors.HasCode(err, dErrors.CodeDimensionMismatch):
		outcome = OutcomeInvalid
	}
	s.metrics.IncrementOutcome(string(outcome))
	s.metrics.ObserveMarkDuration(start)
	span.SetAttributes(attribute.String("attendance.outcome", string(outcome)))
	if err != nil && outcome == OutcomeFailed {
		span.SetStatus(codes.Error, err.Error())
	}
	return res, err
}

func (s *Service) mark(ctx context.Context, req MarkRequest) (*Result, error) {
	if req.CourseID <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "course_id is required")
	}
	if len(req.Embedding) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "embedding is required")
	}
	if err := index.CheckDimensions(req.Embedding); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDimensionMismatch, "invalid embedding: "+err.Error())
	}

	resolution, err := s.resolver.Resolve(ctx, req.Embedding)
	if err != nil {
		return nil, err
	}
	if !resolution.Matched {
		return &Result{Outcome: OutcomeNoMatch}, nil
	}

	person, err := s.ledger.FindPerson(ctx, resolution.IdentityKey)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.ErrorContext(ctx, "matched vector has no backing identity record",
				"identity_key", resolution.IdentityKey,
				"distance", resolution.Distance,
				"request_id", requestcontext.RequestID(ctx),
			)
			return nil, dErrors.New(dErrors.CodeConsistencyViolation, "matched vector has no backing identity record")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load matched identity")
	}

	res := &Result{
		Matched:     true,
		IdentityKey: person.IdentityKey,
		Name:        person.DisplayName(),
		CourseID:    req.CourseID,
		Distance:    resolution.Distance,
	}

	enrolled, err := s.ledger.IsEnrolled(ctx, person.ID, req.CourseID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check enrollment")
	}
	if !enrolled {
		return res.blocked(OutcomeNotEnrolled, ReasonNotEnrolled), nil
	}

	now := requestcontext.Now(ctx)
	already, err := s.ledger.HasRecordedToday(ctx, person.ID, req.CourseID, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check today's attendance")
	}
	if already {
		return res.blocked(OutcomeAlreadyMarked, ReasonAlreadyMarked), nil
	}

	event, err := s.ledger.RecordEvent(ctx, person.ID, req.CourseID, now)
	if err != nil {
		// A concurrent mark for the same person, course and day won the race.
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return res.blocked(OutcomeAlreadyMarked, ReasonAlreadyMarked), nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record attendance")
	}

	s.logger.InfoContext(ctx, "attendance recorded",
		"identity_key", person.IdentityKey,
		"course_id", req.CourseID,
		"distance", resolution.Distance,
		"request_id", requestcontext.RequestID(ctx),
	)
	res.Outcome = OutcomeRecorded
	res.Marked = true
	res.Event = event
	return res, nil
}

func (r *Result) blocked(outcome Outcome, reason string) *Result {
	r.Outcome = outcome
	r.Reason = reason
	return r
}
