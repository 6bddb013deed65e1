package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/identity/index"
	"rollcall/internal/ledger/models"
	"rollcall/internal/registration/service"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/platform/middleware/request"
	strutil "rollcall/pkg/platform/strings"
)

// Service defines the interface for registration operations.
type Service interface {
	Register(ctx context.Context, in models.NewPerson) (*service.Registration, error)
	Reconcile(ctx context.Context) (*service.ReconcileReport, error)
}

// Handler serves student registration and the index repair endpoint.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a new registration Handler.
func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: svc}
}

// Register mounts POST /students/register. Callers wrap it in RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/students/register", h.HandleRegister)
}

// RegisterAdmin mounts POST /admin/reconcile. Callers wrap it in the admin
// token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/reconcile", h.HandleReconcile)
}

// RegisterRequest is the wire shape of a student registration.
type RegisterRequest struct {
	FirstName      string    `json:"first_name" validate:"required"`
	LastName       string    `json:"last_name" validate:"required"`
	MatricNumber   string    `json:"matric_number" validate:"required"`
	Level          string    `json:"level" validate:"required"`
	CoursesOffered []string  `json:"courses_offered"`
	Embedding      []float64 `json:"embedding" validate:"required"`
}

// Validate trims the text fields before checking them.
func (r *RegisterRequest) Validate() error {
	r.FirstName = strutil.CollapseSpace(r.FirstName)
	r.LastName = strutil.CollapseSpace(r.LastName)
	r.MatricNumber = strutil.CollapseSpace(r.MatricNumber)
	r.Level = strutil.CollapseSpace(r.Level)
	r.CoursesOffered = strutil.DedupeAndTrim(r.CoursesOffered)
	if err := httputil.ValidateStruct(r); err != nil {
		return err
	}
	if err := index.CheckDimensions(r.Embedding); err != nil {
		return dErrors.Wrap(err, dErrors.CodeDimensionMismatch, "invalid embedding: "+err.Error())
	}
	return nil
}

// RegisterResponse reports the stored person. Indexed is false when the
// person cannot be matched until the next reconcile.
type RegisterResponse struct {
	Message      string `json:"message"`
	StudentID    int64  `json:"student_id"`
	MatricNumber string `json:"matric_number"`
	Indexed      bool   `json:"indexed"`
}

// HandleRegister registers a student and their course enrollments.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	reg, err := h.service.Register(ctx, models.NewPerson{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		IdentityKey: req.MatricNumber,
		Level:       req.Level,
		CourseNames: req.CoursesOffered,
		Embedding:   req.Embedding,
	})
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to register student",
				"request_id", requestID,
				"matric_number", req.MatricNumber,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "student registered",
		"request_id", requestID,
		"student_id", reg.PersonID,
		"matric_number", reg.IdentityKey,
		"indexed", reg.Indexed,
	)
	httputil.WriteJSON(w, http.StatusCreated, RegisterResponse{
		Message:      fmt.Sprintf("Student %s registered successfully", reg.Name),
		StudentID:    reg.PersonID,
		MatricNumber: reg.IdentityKey,
		Indexed:      reg.Indexed,
	})
}

// HandleReconcile rebuilds the embedding index from the ledger.
func (h *Handler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report, err := h.service.Reconcile(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "reconcile failed",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}
