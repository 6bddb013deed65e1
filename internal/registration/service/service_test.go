package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"rollcall/internal/identity/index"
	"rollcall/internal/identity/metrics"
	"rollcall/internal/ledger/models"
	"rollcall/internal/registration/mocks"
	"rollcall/internal/registration/service"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/sentinel"
)

//go:generate mockgen -source=service.go -destination=../mocks/service_mocks.go -package=mocks Ledger,EmbeddingIndex
type RegisterSuite struct {
	suite.Suite
	ctx     context.Context
	ledger  *mocks.MockLedger
	index   *mocks.MockEmbeddingIndex
	metrics *metrics.Metrics
	service *service.Service
}

func TestRegisterSuite(t *testing.T) {
	suite.Run(t, new(RegisterSuite))
}

func (s *RegisterSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.ctx = context.Background()
	s.ledger = mocks.NewMockLedger(ctrl)
	s.index = mocks.NewMockEmbeddingIndex(ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = service.New(s.ledger, s.index,
		service.WithMetrics(s.metrics),
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func vec(fill float64) []float64 {
	v := make([]float64, index.Dimensions)
	for i := range v {
		v[i] = fill
	}
	return v
}

func person(key string) models.NewPerson {
	return models.NewPerson{
		FirstName: "Ada", LastName: "Lovelace", IdentityKey: key, Level: "100",
		CourseNames: []string{"CS101"}, Embedding: vec(0),
	}
}

func (s *RegisterSuite) TestLedgerFirstThenIndex() {
	gomock.InOrder(
		s.ledger.EXPECT().RegisterPerson(gomock.Any(), person("M101"), gomock.Any()).Return(int64(4), nil),
		s.index.EXPECT().Contains("M101").Return(false),
		s.index.EXPECT().Insert("M101", vec(0)).Return(nil),
		s.index.EXPECT().Len().Return(1),
		s.index.EXPECT().Persist().Return(nil),
	)

	reg, err := s.service.Register(s.ctx, person("M101"))
	s.Require().NoError(err)
	s.Equal(&service.Registration{PersonID: 4, IdentityKey: "M101", Name: "Ada Lovelace", Indexed: true}, reg)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.IndexEntries))
}

func (s *RegisterSuite) TestDuplicateIdentityTouchesNoIndex() {
	s.ledger.EXPECT().RegisterPerson(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(0), fmt.Errorf("register person M101: %w", sentinel.ErrAlreadyUsed))

	_, err := s.service.Register(s.ctx, person("M101"))
	s.True(dErrors.HasCode(err, dErrors.CodeDuplicateIdentity))
}

func (s *RegisterSuite) TestValidationBeforeAnyStore() {
	missing := person("M101")
	missing.Level = ""
	_, err := s.service.Register(s.ctx, missing)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	short := person("M101")
	short.Embedding = vec(0)[:127]
	_, err = s.service.Register(s.ctx, short)
	s.True(dErrors.HasCode(err, dErrors.CodeDimensionMismatch))
}

func (s *RegisterSuite) TestLedgerFailure() {
	s.ledger.EXPECT().RegisterPerson(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("database is locked"))

	_, err := s.service.Register(s.ctx, person("M101"))
	s.Equal(dErrors.CodeInternal, dErrors.CodeOf(err))
}

func (s *RegisterSuite) TestIndexInsertFailureReportsUnindexed() {
	s.ledger.EXPECT().RegisterPerson(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(4), nil)
	s.index.EXPECT().Contains("M101").Return(false)
	s.index.EXPECT().Insert("M101", gomock.Any()).Return(errors.New("boom"))

	reg, err := s.service.Register(s.ctx, person("M101"))
	s.Require().NoError(err, "the ledger write committed; the person exists")
	s.False(reg.Indexed)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.IndexInsertFails))
}

func (s *RegisterSuite) TestPersistFailureKeepsInMemoryEntry() {
	s.ledger.EXPECT().RegisterPerson(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(4), nil)
	s.index.EXPECT().Contains("M101").Return(false)
	s.index.EXPECT().Insert("M101", gomock.Any()).Return(nil)
	s.index.EXPECT().Len().Return(1)
	s.index.EXPECT().Persist().Return(errors.New("read-only file system"))

	reg, err := s.service.Register(s.ctx, person("M101"))
	s.Require().NoError(err)
	s.True(reg.Indexed)
}

func (s *RegisterSuite) TestAlreadyIndexedByReconcileSkipsInsert() {
	s.ledger.EXPECT().RegisterPerson(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(4), nil)
	s.index.EXPECT().Contains("M101").Return(true)
	s.index.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)
	s.index.EXPECT().Len().Return(1)
	s.index.EXPECT().Persist().Return(nil)

	reg, err := s.service.Register(s.ctx, person("M101"))
	s.Require().NoError(err)
	s.True(reg.Indexed)
}

func (s *RegisterSuite) TestReconcileLedgerReadFailure() {
	s.ledger.EXPECT().ListIdentityVectors(gomock.Any()).Return(nil, errors.New("no such table: persons"))

	_, err := s.service.Reconcile(s.ctx)
	s.Equal(dErrors.CodeInternal, dErrors.CodeOf(err))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.ReconcileRuns.WithLabelValues("error")))
}
