package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"rollcall/internal/attendance/mocks"
	"rollcall/internal/attendance/service"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=../mocks/handler_mocks.go -package=mocks Service
type MarkHandlerSuite struct {
	suite.Suite
	service    *mocks.MockService
	router     chi.Router
	lastStatus int
}

func TestMarkHandlerSuite(t *testing.T) {
	suite.Run(t, new(MarkHandlerSuite))
}

func (s *MarkHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.service, logger).Register(s.router)
}

func embedding(fill float64) []float64 {
	v := make([]float64, 128)
	for i := range v {
		v[i] = fill
	}
	return v
}

func (s *MarkHandlerSuite) mark(body any) map[string]any {
	s.T().Helper()
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/attendance/mark", body))
	s.lastStatus = rr.Code
	return *testutil.UnmarshalResponse[map[string]any](s.T(), rr)
}

func (s *MarkHandlerSuite) TestRecorded() {
	s.service.EXPECT().Mark(gomock.Any(), service.MarkRequest{CourseID: 3, Embedding: embedding(0)}).
		Return(&service.Result{
			Outcome: service.OutcomeRecorded, Matched: true, Marked: true,
			IdentityKey: "M101", Name: "Ada Lovelace", CourseID: 3, Distance: 0,
		}, nil)

	resp := s.mark(map[string]any{"course_id": 3, "embedding": embedding(0)})

	s.Equal(http.StatusOK, s.lastStatus)
	s.Equal(true, resp["match"])
	s.Equal("M101", resp["matric_number"])
	s.Equal("Ada Lovelace", resp["name"])
	s.Equal(true, resp["attendance_marked"])
	s.Equal(float64(3), resp["course_id"])
	s.Contains(resp, "distance", "a zero distance is still reported")
	s.NotContains(resp, "reason")
}

func (s *MarkHandlerSuite) TestBlocked() {
	for _, reason := range []string{service.ReasonNotEnrolled, service.ReasonAlreadyMarked} {
		s.Run(reason, func() {
			s.service.EXPECT().Mark(gomock.Any(), gomock.Any()).Return(&service.Result{
				Matched: true, IdentityKey: "M102", Name: "Grace Hopper", Reason: reason,
			}, nil)

			resp := s.mark(map[string]any{"course_id": 1, "embedding": embedding(0)})

			s.Equal(http.StatusOK, s.lastStatus)
			s.Equal(true, resp["match"])
			s.Equal(false, resp["attendance_marked"])
			s.Equal(reason, resp["reason"])
			s.NotContains(resp, "distance")
		})
	}
}

func (s *MarkHandlerSuite) TestNoMatch() {
	s.service.EXPECT().Mark(gomock.Any(), gomock.Any()).Return(&service.Result{Outcome: service.OutcomeNoMatch}, nil)

	resp := s.mark(map[string]any{"course_id": 1, "embedding": embedding(5)})

	s.Equal(http.StatusNotFound, s.lastStatus)
	s.Equal(map[string]any{"match": false}, resp)
}

func (s *MarkHandlerSuite) TestValidationRejectedBeforeService() {
	cases := []struct {
		name string
		body any
		code string
	}{
		{"missing course", map[string]any{"embedding": embedding(0)}, "validation_error"},
		{"missing embedding", map[string]any{"course_id": 1}, "validation_error"},
		{"short embedding", map[string]any{"course_id": 1, "embedding": []float64{1, 2, 3}}, "dimension_mismatch"},
		{"not json", "{", "bad_request"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			rr := testutil.DoRequest(s.router, s.request(tc.body))
			testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, tc.code)
		})
	}
}

func (s *MarkHandlerSuite) TestServiceErrors() {
	s.Run("consistency violation", func() {
		s.service.EXPECT().Mark(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConsistencyViolation, "matched vector has no backing identity record"))
		rr := testutil.DoRequest(s.router, s.request(map[string]any{"course_id": 1, "embedding": embedding(0)}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "consistency_violation")
	})

	s.Run("storage failure hides detail", func() {
		s.service.EXPECT().Mark(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(context.DeadlineExceeded, dErrors.CodeInternal, "failed to record attendance"))
		rr := testutil.DoRequest(s.router, s.request(map[string]any{"course_id": 1, "embedding": embedding(0)}))
		s.Equal(http.StatusInternalServerError, rr.Code)
		s.Equal(map[string]string{"error": "internal_error"}, testutil.UnmarshalErrorResponse(s.T(), rr))
	})
}

func (s *MarkHandlerSuite) request(body any) *http.Request {
	if raw, ok := body.(string); ok {
		return testutil.NewRequestWithBody(s.T(), http.MethodPost, "/attendance/mark", raw)
	}
	return testutil.NewJSONRequest(s.T(), http.MethodPost, "/attendance/mark", body)
}
