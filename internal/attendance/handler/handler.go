package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/attendance/service"
	"rollcall/internal/identity/index"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/platform/middleware/request"
)

// Service defines the interface for attendance operations.
type Service interface {
	Mark(ctx context.Context, req service.MarkRequest) (*service.Result, error)
}

// Handler serves POST /attendance/mark.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a new attendance Handler.
func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: svc}
}

// Register registers the attendance routes. Callers mount it behind RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/attendance/mark", h.HandleMark)
}

// MarkRequest is the wire shape of an attendance attempt.
type MarkRequest struct {
	CourseID  int64     `json:"course_id" validate:"required,gt=0"`
	Embedding []float64 `json:"embedding" validate:"required"`
}

func (r *MarkRequest) Validate() error {
	if err := httputil.ValidateStruct(r); err != nil {
		return err
	}
	if err := index.CheckDimensions(r.Embedding); err != nil {
		return dErrors.Wrap(err, dErrors.CodeDimensionMismatch, "invalid embedding: "+err.Error())
	}
	return nil
}

// MarkResponse covers all three response shapes: no match, matched but
// blocked, and recorded.
type MarkResponse struct {
	Match            bool     `json:"match"`
	MatricNumber     string   `json:"matric_number,omitempty"`
	Name             string   `json:"name,omitempty"`
	AttendanceMarked *bool    `json:"attendance_marked,omitempty"`
	Reason           string   `json:"reason,omitempty"`
	CourseID         int64    `json:"course_id,omitempty"`
	Distance         *float64 `json:"distance,omitempty"`
}

func toMarkResponse(res *service.Result) MarkResponse {
	if !res.Matched {
		return MarkResponse{Match: false}
	}
	marked := res.Marked
	resp := MarkResponse{
		Match:            true,
		MatricNumber:     res.IdentityKey,
		Name:             res.Name,
		AttendanceMarked: &marked,
	}
	if !res.Marked {
		resp.Reason = res.Reason
		return resp
	}
	distance := res.Distance
	resp.CourseID = res.CourseID
	resp.Distance = &distance
	return resp
}

// HandleMark identifies the caller-supplied embedding and records attendance.
func (h *Handler) HandleMark(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[MarkRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Mark(ctx, service.MarkRequest{CourseID: req.CourseID, Embedding: req.Embedding})
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to mark attendance",
				"request_id", requestID,
				"course_id", req.CourseID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	if !res.Matched {
		httputil.WriteJSON(w, http.StatusNotFound, toMarkResponse(res))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toMarkResponse(res))
}
