package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/analytics/service"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/platform/middleware/request"
)

// Service defines the read-only analytics operations.
type Service interface {
	CourseTiers(ctx context.Context, courseID int64) (*service.CourseTiers, error)
	DepartmentSummary(ctx context.Context) (*service.DepartmentSummary, error)
	Overview(ctx context.Context) (*service.Overview, error)
	Courses(ctx context.Context) ([]service.CourseSummary, error)
	Lecturers(ctx context.Context) ([]service.LecturerSummary, error)
	LowAttendance(ctx context.Context) ([]service.LowAttendance, error)
}

// Handler serves attendance reports and the HOD dashboard.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a new analytics Handler.
func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: svc}
}

// Register mounts the per-course and department reports.
func (h *Handler) Register(r chi.Router) {
	r.Get("/attendance/course_attendance_tiers/{course_id}", h.HandleCourseTiers)
	r.Get("/attendance/department_summary", h.HandleDepartmentSummary)
}

// RegisterHOD mounts the dashboard views. Callers restrict them to hod and
// admin principals.
func (h *Handler) RegisterHOD(r chi.Router) {
	r.Get("/hod/overview", h.HandleOverview)
	r.Get("/hod/courses", h.HandleCourses)
	r.Get("/hod/lecturers", h.HandleLecturers)
	r.Get("/hod/low_attendance", h.HandleLowAttendance)
}

// MessageResponse carries an informational message.
type MessageResponse struct {
	Message string `json:"message"`
}

// CoursesResponse wraps the HOD course view.
type CoursesResponse struct {
	Courses []service.CourseSummary `json:"courses"`
}

// LecturersResponse wraps the HOD lecturer view.
type LecturersResponse struct {
	Lecturers []service.LecturerSummary `json:"lecturers"`
}

// LowAttendanceResponse wraps the flagged persons.
type LowAttendanceResponse struct {
	Threshold float64                 `json:"threshold"`
	Students  []service.LowAttendance `json:"students"`
}

// HandleCourseTiers buckets one course's roster by attendance percentage.
func (h *Handler) HandleCourseTiers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	courseID, err := strconv.ParseInt(chi.URLParam(r, "course_id"), 10, 64)
	if err != nil || courseID <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "course_id must be a positive integer"))
		return
	}

	tiers, err := h.service.CourseTiers(ctx, courseID)
	if err != nil {
		h.fail(ctx, w, "course tiers", err)
		return
	}
	if tiers.TotalSessions == 0 {
		httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: "No attendance records yet"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tiers)
}

// HandleDepartmentSummary reports department totals with per-course and
// per-student breakdowns.
func (h *Handler) HandleDepartmentSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summary, err := h.service.DepartmentSummary(ctx)
	if err != nil {
		h.fail(ctx, w, "department summary", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	overview, err := h.service.Overview(ctx)
	if err != nil {
		h.fail(ctx, w, "hod overview", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, overview)
}

func (h *Handler) HandleCourses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	courses, err := h.service.Courses(ctx)
	if err != nil {
		h.fail(ctx, w, "hod courses", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CoursesResponse{Courses: courses})
}

func (h *Handler) HandleLecturers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lecturers, err := h.service.Lecturers(ctx)
	if err != nil {
		h.fail(ctx, w, "hod lecturers", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, LecturersResponse{Lecturers: lecturers})
}

func (h *Handler) HandleLowAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	students, err := h.service.LowAttendance(ctx)
	if err != nil {
		h.fail(ctx, w, "hod low attendance", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, LowAttendanceResponse{
		Threshold: service.LowAttendanceThreshold,
		Students:  students,
	})
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, report string, err error) {
	h.logger.ErrorContext(ctx, "failed to compute report",
		"request_id", request.GetRequestID(ctx),
		"report", report,
		"error", err,
	)
	httputil.WriteError(w, err)
}
