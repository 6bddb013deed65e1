// Package httputil holds the JSON plumbing shared by every handler.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	dErrors "rollcall/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies; a 128-float embedding plus metadata is
// a few kilobytes.
const maxBodyBytes = 1 << 20

// Validatable is implemented by request bodies that validate and normalize
// themselves after decoding.
type Validatable interface {
	Validate() error
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into the JSON error envelope. Internal errors never
// leak their description.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	desc := ""
	var de *dErrors.Error
	if errors.As(err, &de) {
		code = de.Code
		desc = de.Message
	}
	if code == dErrors.CodeInternal {
		desc = ""
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), errorResponse{Error: string(code), ErrorDescription: desc})
}

// DecodeAndPrepare decodes the JSON body into T and runs its Validate method.
// On failure it writes the error response and returns false.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestID,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return nil, false
	}
	if err := PT(&req).Validate(); err != nil {
		logger.WarnContext(ctx, "request validation failed",
			"error", err,
			"request_id", requestID,
		)
		WriteError(w, err)
		return nil, false
	}
	return &req, true
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct runs `validate` struct tags and reports the first failure as
// a validation error named after the JSON field.
func ValidateStruct(v any) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request")
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return dErrors.New(dErrors.CodeValidation, fe.Field()+" is required")
	case "gt", "gte", "min":
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
	case "max", "lte":
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
	default:
		return dErrors.New(dErrors.CodeValidation, fe.Field()+" is invalid")
	}
}
