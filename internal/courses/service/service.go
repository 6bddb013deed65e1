// Package service lets lecturers create or claim courses and list the courses
// they own.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"rollcall/internal/ledger/models"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/sentinel"
	strutil "rollcall/pkg/platform/strings"
	"rollcall/pkg/requestcontext"
)

// Store is the course slice of the ledger.
type Store interface {
	FindCourseByName(ctx context.Context, name string) (*models.Course, error)
	CreateCourse(ctx context.Context, name string, lecturerID int64) (*models.Course, error)
	ClaimCourse(ctx context.Context, courseID, lecturerID int64) error
	ListCoursesByLecturer(ctx context.Context, lecturerID int64) ([]models.Course, error)
}

// Service owns course ownership rules.
type Service struct {
	store  Store
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Action says whether CreateOrClaim made a new course or took over an
// unowned one.
type Action string

const (
	ActionCreated  Action = "created"
	ActionAssigned Action = "assigned"
)

// Ownership is the result of CreateOrClaim.
type Ownership struct {
	Course models.Course
	Action Action
}

var errAlreadyAssigned = dErrors.New(dErrors.CodeForbidden, "Course already assigned")

// CreateOrClaim gives the calling lecturer ownership of the named course.
// An unowned course is assigned to them; a course with any owner, the caller
// included, is refused; an unknown name is created.
func (s *Service) CreateOrClaim(ctx context.Context, principal requestcontext.AuthPrincipal, name string) (*Ownership, error) {
	if !principal.HasRole(requestcontext.RoleLecturer) {
		return nil, dErrors.New(dErrors.CodeForbidden, "Only lecturers can create courses")
	}
	name = strutil.CollapseSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "Course name is required")
	}

	existing, err := s.store.FindCourseByName(ctx, name)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		created, err := s.store.CreateCourse(ctx, name, principal.ID)
		if err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				// Lost a race with another creator.
				return nil, errAlreadyAssigned
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create course")
		}
		s.logger.InfoContext(ctx, "course created",
			"course_id", created.ID,
			"name", created.Name,
			"lecturer_id", principal.ID,
		)
		return &Ownership{Course: *created, Action: ActionCreated}, nil
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up course")
	}

	if existing.LecturerID != nil {
		return nil, errAlreadyAssigned
	}
	if err := s.store.ClaimCourse(ctx, existing.ID, principal.ID); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, errAlreadyAssigned
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("failed to assign course %d", existing.ID))
	}
	owner := principal.ID
	existing.LecturerID = &owner
	s.logger.InfoContext(ctx, "course assigned",
		"course_id", existing.ID,
		"name", existing.Name,
		"lecturer_id", principal.ID,
	)
	return &Ownership{Course: *existing, Action: ActionAssigned}, nil
}

// MyCourses lists the courses owned by the caller.
func (s *Service) MyCourses(ctx context.Context, principal requestcontext.AuthPrincipal) ([]models.Course, error) {
	courses, err := s.store.ListCoursesByLecturer(ctx, principal.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list courses")
	}
	return courses, nil
}
