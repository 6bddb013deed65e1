package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/courses/service"
	"rollcall/internal/ledger/models"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/platform/middleware/request"
	"rollcall/pkg/requestcontext"
)

// Service defines the course ownership operations.
type Service interface {
	CreateOrClaim(ctx context.Context, principal requestcontext.AuthPrincipal, name string) (*service.Ownership, error)
	MyCourses(ctx context.Context, principal requestcontext.AuthPrincipal) ([]models.Course, error)
}

// Handler serves the lecturer course endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a new courses Handler.
func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: svc}
}

// Register mounts the course routes. Callers wrap them in RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/courses/create", h.HandleCreate)
	r.Get("/courses/my", h.HandleMyCourses)
}

// CreateRequest names the course to create or claim. The name is checked by
// the service so that role failures win over missing names.
type CreateRequest struct {
	Name string `json:"name"`
}

func (r *CreateRequest) Validate() error { return nil }

// CourseResponse is a single course.
type CourseResponse struct {
	CourseID int64  `json:"course_id"`
	Name     string `json:"name"`
}

// CreateResponse reports the owned course.
type CreateResponse struct {
	Message  string `json:"message"`
	CourseID int64  `json:"course_id"`
	Name     string `json:"name"`
}

// MyCoursesResponse lists the caller's courses.
type MyCoursesResponse struct {
	Courses []CourseResponse `json:"courses"`
}

// HandleCreate creates a course or claims an unowned one for the caller.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	principal, ok := requestcontext.Principal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	owned, err := h.service.CreateOrClaim(ctx, principal, req.Name)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to create course",
				"request_id", requestID,
				"lecturer_id", principal.ID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	status := http.StatusCreated
	message := fmt.Sprintf("Course '%s' created successfully", owned.Course.Name)
	if owned.Action == service.ActionAssigned {
		status = http.StatusOK
		message = fmt.Sprintf("Course '%s' assigned to you", owned.Course.Name)
	}
	httputil.WriteJSON(w, status, CreateResponse{
		Message:  message,
		CourseID: owned.Course.ID,
		Name:     owned.Course.Name,
	})
}

// HandleMyCourses lists the courses the caller owns.
func (h *Handler) HandleMyCourses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := requestcontext.Principal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	courses, err := h.service.MyCourses(ctx, principal)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list courses",
			"request_id", request.GetRequestID(ctx),
			"lecturer_id", principal.ID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := MyCoursesResponse{Courses: make([]CourseResponse, 0, len(courses))}
	for _, c := range courses {
		resp.Courses = append(resp.Courses, CourseResponse{CourseID: c.ID, Name: c.Name})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
