package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"rollcall/internal/attendance/metrics"
	"rollcall/internal/attendance/mocks"
	"rollcall/internal/attendance/service"
	"rollcall/internal/identity/resolver"
	"rollcall/internal/ledger/models"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=../mocks/service_mocks.go -package=mocks Ledger,IdentityResolver
type MarkSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	ledger   *mocks.MockLedger
	resolver *mocks.MockIdentityResolver
	metrics  *metrics.Metrics
	service  *service.Service
}

func TestMarkSuite(t *testing.T) {
	suite.Run(t, new(MarkSuite))
}

func (s *MarkSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.ledger = mocks.NewMockLedger(ctrl)
	s.resolver = mocks.NewMockIdentityResolver(ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.service = service.New(s.resolver, s.ledger,
		service.WithMetrics(s.metrics),
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func vec(fill float64) []float64 {
	v := make([]float64, 128)
	for i := range v {
		v[i] = fill
	}
	return v
}

var ada = &models.Person{ID: 7, FirstName: "Ada", LastName: "Lovelace", IdentityKey: "M101"}

func (s *MarkSuite) expectMatch() {
	s.resolver.EXPECT().Resolve(gomock.Any(), vec(0)).
		Return(resolver.Resolution{Matched: true, IdentityKey: "M101", Distance: 0.25}, nil)
	s.ledger.EXPECT().FindPerson(gomock.Any(), "M101").Return(ada, nil)
}

func (s *MarkSuite) outcomes(outcome service.Outcome) float64 {
	return testutil.ToFloat64(s.metrics.MarkOutcomes.WithLabelValues(string(outcome)))
}

func (s *MarkSuite) TestRecorded() {
	s.expectMatch()
	s.ledger.EXPECT().IsEnrolled(gomock.Any(), int64(7), int64(3)).Return(true, nil)
	s.ledger.EXPECT().HasRecordedToday(gomock.Any(), int64(7), int64(3), s.now).Return(false, nil)
	s.ledger.EXPECT().RecordEvent(gomock.Any(), int64(7), int64(3), s.now).
		Return(&models.AttendanceEvent{ID: 1, PersonID: 7, CourseID: 3, RecordedAt: s.now, Day: "2025-03-10"}, nil)

	res, err := s.service.Mark(s.ctx, service.MarkRequest{CourseID: 3, Embedding: vec(0)})
	s.Require().NoError(err)

	s.Equal(service.OutcomeRecorded, res.Outcome)
	s.True(res.Matched)
	s.True(res.Marked)
	s.Equal("M101", res.IdentityKey)
	s.Equal("Ada Lovelace", res.Name)
	s.Equal(int64(3), res.CourseID)
	s.Equal(0.25, res.Distance)
	s.Equal(int64(1), res.Event.ID)
	s.Equal(1.0, s.outcomes(service.OutcomeRecorded))
}

func (s *MarkSuite) TestNoMatch() {
	s.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(resolver.Resolution{}, nil)

	res, err := s.service.Mark(s.ctx, service.MarkRequest{CourseID: 3, Embedding: vec(9)})
	s.Require().NoError(err)
	s.Equal(service.OutcomeNoMatch, res.Outcome)
	s.False(res.Matched)
	s.Equal(1.0, s.outcomes(service.OutcomeNoMatch))
}

func (s *MarkSuite) TestConsistencyViolation() {
	s.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).
		Return(resolver.Resolution{Matched: true, IdentityKey: "ghost", Distance: 0.1}, nil)
	s.ledger.EXPECT().FindPerson(gomock.Any(), "ghost").Return(nil, sentinel.ErrNotFound)

	res, err := s.service.Mark(s.ctx, service.MarkRequest{CourseID: 3, Embedding: vec(0)})
	s.Nil(res)
	s.True(dErrors.HasCode(err, dErrors.CodeConsistencyViolation))
	s.Equal(1.0, s.outcomes(service.OutcomeInconsistent))
}

func (s *MarkSuite) TestNotEnrolledNeverRecords() {
	s.expectMatch()
	s.ledger.EXPECT().IsEnrolled(gomock.Any(), int64(7), int64(3)).Return(false, nil)
	s.ledger.EXPECT().RecordEvent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	res, err := s.service.Mark(s.ctx, service.MarkRequest{CourseID: 3, Embedding: vec(0)})
	s.Require().NoError(err)
	s.True(res.Matched)
	s.False(res.Marked)
	s.Equal(service.ReasonNotEnrolled, res.Reason)
	s.Equal("M101", res.IdentityKey)
}

func (s *MarkSuite) TestAlreadyMarkedToday() {
	s.expectMatch()
	s.ledger.EXPECT().IsEnrolled(gomock.Any(), int64(7), int64(3)).Return(true, nil)
	s.ledger.EXPECT().HasRecordedToday(gomock.Any(), int64(7), int64(3), s.now).Return(true, nil)

	res, err := s.service.Mark(s.ctx, service.MarkRequest{CourseID: 3, Embedding: vec(0)})
	s.Require().NoError(err)
	s.False(res.Marked)
	s.Equal(service.ReasonAlreadyMarked, res.Reason)
	s.Equal(service.OutcomeAlreadyMarked, res.Outcome)
}

func (s *MarkSuite) TestLostRaceIsAlreadyMarked() {
	s.expectMatch()
	s.ledger.EXPECT().IsEnrolled(gomock.Any(), int64(7), int64(3)).Return(true, nil)
	s.ledger.EXPECT().HasRecordedToday(gomock.Any(), int64(7), int64(3), s.now).Return(false, nil)
	s.ledger.EXPECT().RecordEvent(gomock.Any(), int64(7), int64(3), s.now).
		Return(nil, errors.Join(errors.New("record attendance"), sentinel.ErrAlreadyUsed))

	res, err := s.service.Mark(s.ctx, service.MarkRequest{CourseID: 3, Embedding: vec(0)})
	s.Require().NoError(err)
	s.False(res.Marked)
	s.Equal(service.ReasonAlreadyMarked, res.Reason)
}

func (s *MarkSuite) TestInvalidInputTouchesNoStore() {
	cases := []struct {
		name string
		req  service.MarkRequest
		code dErrors.Code
	}{
		{"missing course", service.MarkRequest{Embedding: vec(0)}, dErrors.CodeValidation},
		{"missing embedding", service.MarkRequest{CourseID: 1}, dErrors.CodeValidation},
		{"wrong length", service.MarkRequest{CourseID: 1, Embedding: []float64{1}}, dErrors.CodeDimensionMismatch},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.service.Mark(s.ctx, tc.req)
			s.True(dErrors.HasCode(err, tc.code), "got %v", err)
		})
	}
	s.Equal(3.0, s.outcomes(service.OutcomeInvalid))
}

func (s *MarkSuite) TestStorageFailuresSurface() {
	s.expectMatch()
	s.ledger.EXPECT().IsEnrolled(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errors.New("disk I/O error"))

	_, err := s.service.Mark(s.ctx, service.MarkRequest{CourseID: 3, Embedding: vec(0)})
	s.Equal(dErrors.CodeInternal, dErrors.CodeOf(err))
	s.Equal(1.0, s.outcomes(service.OutcomeFailed))
}

func (s *MarkSuite) TestResolverErrorPropagates() {
	s.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).
		Return(resolver.Resolution{}, dErrors.New(dErrors.CodeInternal, "embedding index query failed"))

	_, err := s.service.Mark(s.ctx, service.MarkRequest{CourseID: 3, Embedding: vec(0)})
	s.Equal(dErrors.CodeInternal, dErrors.CodeOf(err))
}
