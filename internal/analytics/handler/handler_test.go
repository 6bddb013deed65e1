package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"rollcall/internal/analytics/mocks"
	"rollcall/internal/analytics/service"
	"rollcall/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=../mocks/handler_mocks.go -package=mocks Service
type AnalyticsHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestAnalyticsHandlerSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsHandlerSuite))
}

func (s *AnalyticsHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.Register(s.router)
	h.RegisterHOD(s.router)
}

func (s *AnalyticsHandlerSuite) get(path string) *http.Request {
	return testutil.NewRequest(s.T(), http.MethodGet, path)
}

func (s *AnalyticsHandlerSuite) TestCourseTiers() {
	s.service.EXPECT().CourseTiers(gomock.Any(), int64(7)).Return(&service.CourseTiers{
		CourseID:      7,
		TotalSessions: 2,
		AttendanceTiers: map[string][]service.StudentAttendance{
			service.Tier25: {}, service.Tier50: {}, service.Tier75: {},
			service.Tier100: {{StudentID: 1, Name: "Ada Lovelace", MatricNumber: "M101", AttendedSessions: 2, Percentage: 100}},
		},
	}, nil)

	rr := testutil.DoRequest(s.router, s.get("/attendance/course_attendance_tiers/7"))

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[service.CourseTiers](s.T(), rr)
	s.Equal(2, resp.TotalSessions)
	s.Len(resp.AttendanceTiers[service.Tier100], 1)
	s.Contains(resp.AttendanceTiers, service.Tier25)
}

func (s *AnalyticsHandlerSuite) TestCourseTiersWithoutSessions() {
	s.service.EXPECT().CourseTiers(gomock.Any(), int64(7)).Return(&service.CourseTiers{CourseID: 7}, nil)

	rr := testutil.DoRequest(s.router, s.get("/attendance/course_attendance_tiers/7"))

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "message", "No attendance records yet")
}

func (s *AnalyticsHandlerSuite) TestCourseTiersBadID() {
	for _, id := range []string{"abc", "0", "-2"} {
		rr := testutil.DoRequest(s.router, s.get("/attendance/course_attendance_tiers/"+id))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	}
}

func (s *AnalyticsHandlerSuite) TestDepartmentSummary() {
	s.service.EXPECT().DepartmentSummary(gomock.Any()).Return(&service.DepartmentSummary{
		Summary:      service.SummaryTotals{TotalCourses: 1, TotalStudents: 2, TotalAttendanceRecords: 3},
		CourseStats:  []service.CourseStat{},
		StudentStats: []service.StudentTotal{},
	}, nil)

	rr := testutil.DoRequest(s.router, s.get("/attendance/department_summary"))

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[service.DepartmentSummary](s.T(), rr)
	s.Equal(3, resp.Summary.TotalAttendanceRecords)
}

func (s *AnalyticsHandlerSuite) TestHODViews() {
	s.service.EXPECT().Overview(gomock.Any()).Return(&service.Overview{TotalStudents: 3, AverageAttendance: 83.33}, nil)
	s.service.EXPECT().Courses(gomock.Any()).Return([]service.CourseSummary{{CourseID: 1, Name: "CS101"}}, nil)
	s.service.EXPECT().Lecturers(gomock.Any()).Return([]service.LecturerSummary{{LecturerID: 3, Courses: []string{"CS101"}}}, nil)
	s.service.EXPECT().LowAttendance(gomock.Any()).Return([]service.LowAttendance{}, nil)

	rr := testutil.DoRequest(s.router, s.get("/hod/overview"))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "average_attendance", 83.33)

	rr = testutil.DoRequest(s.router, s.get("/hod/courses"))
	testutil.AssertStatusOK(s.T(), rr)
	s.Len(testutil.UnmarshalResponse[CoursesResponse](s.T(), rr).Courses, 1)

	rr = testutil.DoRequest(s.router, s.get("/hod/lecturers"))
	testutil.AssertStatusOK(s.T(), rr)
	s.Equal([]string{"CS101"}, testutil.UnmarshalResponse[LecturersResponse](s.T(), rr).Lecturers[0].Courses)

	rr = testutil.DoRequest(s.router, s.get("/hod/low_attendance"))
	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[LowAttendanceResponse](s.T(), rr)
	s.Equal(25.0, resp.Threshold)
	s.Empty(resp.Students)
}

func (s *AnalyticsHandlerSuite) TestServiceErrorIsInternal() {
	s.service.EXPECT().Overview(gomock.Any()).Return(nil, errors.New("boom"))

	rr := testutil.DoRequest(s.router, s.get("/hod/overview"))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
}
