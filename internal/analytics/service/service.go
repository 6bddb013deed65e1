// Package service computes read-only attendance rollups over the ledger:
// per-course tiers, the department summary and the HOD dashboard views.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"rollcall/internal/ledger/models"
	dErrors "rollcall/pkg/domain-errors"
)

// LowAttendanceThreshold is the percentage at or below which a person is
// flagged.
const LowAttendanceThreshold = 25.0

// Tier keys, lowest first.
const (
	Tier25  = "25%_or_below"
	Tier50  = "50%_or_below"
	Tier75  = "75%_or_below"
	Tier100 = "100%"
)

// Ledger is the read side of the attendance ledger.
type Ledger interface {
	CourseSessionCount(ctx context.Context, courseID int64) (int, error)
	CourseRosterAttendance(ctx context.Context, courseID int64) ([]models.PersonAttendance, error)
	Totals(ctx context.Context) (models.Totals, error)
	CourseStats(ctx context.Context) ([]models.CourseStats, error)
	PersonStats(ctx context.Context) ([]models.PersonStats, error)
	LecturerCourses(ctx context.Context) ([]models.LecturerCourses, error)
}

// Cache holds rendered rollups. Implementations must treat a miss as
// (false, nil).
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// Service computes rollups, optionally through a cache. Concurrent misses
// for the same key share one computation.
type Service struct {
	ledger Ledger
	cache  Cache
	group  singleflight.Group
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithCache enables result caching.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(ledger Ledger, opts ...Option) *Service {
	s := &Service{ledger: ledger, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StudentAttendance is one person's attendance within a course.
type StudentAttendance struct {
	StudentID        int64   `json:"student_id"`
	Name             string  `json:"name"`
	MatricNumber     string  `json:"matric_number"`
	AttendedSessions int     `json:"attended_sessions"`
	Percentage       float64 `json:"percentage"`
}

// CourseTiers buckets a course's roster by attendance percentage. A course
// with no sessions has TotalSessions zero and empty tiers.
type CourseTiers struct {
	CourseID        int64                          `json:"course_id"`
	TotalSessions   int                            `json:"total_sessions"`
	AttendanceTiers map[string][]StudentAttendance `json:"attendance_tiers"`
}

// CourseTiers computes the tier buckets for one course.
func (s *Service) CourseTiers(ctx context.Context, courseID int64) (*CourseTiers, error) {
	if courseID <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "course_id must be positive")
	}
	var out CourseTiers
	err := s.cached(ctx, fmt.Sprintf("tiers:%d", courseID), &out, func(ctx context.Context) (any, error) {
		return s.computeCourseTiers(ctx, courseID)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) computeCourseTiers(ctx context.Context, courseID int64) (*CourseTiers, error) {
	sessions, err := s.ledger.CourseSessionCount(ctx, courseID)
	if err != nil {
		return nil, err
	}
	tiers := &CourseTiers{
		CourseID:      courseID,
		TotalSessions: sessions,
		AttendanceTiers: map[string][]StudentAttendance{
			Tier25: {}, Tier50: {}, Tier75: {}, Tier100: {},
		},
	}
	if sessions == 0 {
		return tiers, nil
	}

	roster, err := s.ledger.CourseRosterAttendance(ctx, courseID)
	if err != nil {
		return nil, err
	}
	for _, p := range roster {
		pct := percentage(p.Attended, sessions)
		key := TierFor(pct)
		tiers.AttendanceTiers[key] = append(tiers.AttendanceTiers[key], StudentAttendance{
			StudentID:        p.PersonID,
			Name:             p.FirstName + " " + p.LastName,
			MatricNumber:     p.IdentityKey,
			AttendedSessions: p.Attended,
			Percentage:       pct,
		})
	}
	return tiers, nil
}

// TierFor maps a percentage onto its tier key.
func TierFor(pct float64) string {
	switch {
	case pct <= 25:
		return Tier25
	case pct <= 50:
		return Tier50
	case pct <= 75:
		return Tier75
	default:
		return Tier100
	}
}

// DepartmentSummary is the department-wide rollup.
type DepartmentSummary struct {
	Summary      SummaryTotals  `json:"summary"`
	CourseStats  []CourseStat   `json:"course_stats"`
	StudentStats []StudentTotal `json:"student_stats"`
}

// SummaryTotals are department-wide counts.
type SummaryTotals struct {
	TotalCourses           int `json:"total_courses"`
	TotalStudents          int `json:"total_students"`
	TotalAttendanceRecords int `json:"total_attendance_records"`
}

// CourseStat is one course's session and event counts.
type CourseStat struct {
	CourseID          int64  `json:"course_id"`
	CourseName        string `json:"course_name"`
	Sessions          int    `json:"sessions"`
	AttendanceRecords int    `json:"attendance_records"`
}

// StudentTotal is one person's total attended events.
type StudentTotal struct {
	StudentID     int64  `json:"student_id"`
	Name          string `json:"name"`
	MatricNumber  string `json:"matric_number"`
	TotalAttended int    `json:"total_attended"`
}

// DepartmentSummary runs the three rollup queries concurrently.
func (s *Service) DepartmentSummary(ctx context.Context) (*DepartmentSummary, error) {
	var out DepartmentSummary
	err := s.cached(ctx, "department_summary", &out, func(ctx context.Context) (any, error) {
		var (
			totals  models.Totals
			courses []models.CourseStats
			persons []models.PersonStats
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			totals, err = s.ledger.Totals(gctx)
			return err
		})
		g.Go(func() (err error) {
			courses, err = s.ledger.CourseStats(gctx)
			return err
		})
		g.Go(func() (err error) {
			persons, err = s.ledger.PersonStats(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		summary := &DepartmentSummary{
			Summary: SummaryTotals{
				TotalCourses:           totals.Courses,
				TotalStudents:          totals.Persons,
				TotalAttendanceRecords: totals.Events,
			},
			CourseStats:  make([]CourseStat, 0, len(courses)),
			StudentStats: make([]StudentTotal, 0, len(persons)),
		}
		for _, c := range courses {
			summary.CourseStats = append(summary.CourseStats, CourseStat{
				CourseID: c.CourseID, CourseName: c.Name, Sessions: c.Sessions, AttendanceRecords: c.Events,
			})
		}
		for _, p := range persons {
			summary.StudentStats = append(summary.StudentStats, StudentTotal{
				StudentID: p.PersonID, Name: p.FirstName + " " + p.LastName,
				MatricNumber: p.IdentityKey, TotalAttended: p.Attended,
			})
		}
		return summary, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Overview is the HOD dashboard headline.
type Overview struct {
	TotalStudents     int     `json:"total_students"`
	TotalLecturers    int     `json:"total_lecturers"`
	TotalCourses      int     `json:"total_courses"`
	TotalAttendance   int     `json:"total_attendance"`
	AverageAttendance float64 `json:"average_attendance"`
}

// Overview reports department totals. Average attendance is events over
// persons times courses, as a percentage rounded to two places.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var out Overview
	err := s.cached(ctx, "hod:overview", &out, func(ctx context.Context) (any, error) {
		t, err := s.ledger.Totals(ctx)
		if err != nil {
			return nil, err
		}
		return &Overview{
			TotalStudents:     t.Persons,
			TotalLecturers:    t.Lecturers,
			TotalCourses:      t.Courses,
			TotalAttendance:   t.Events,
			AverageAttendance: round2(percentage(t.Events, t.Persons*t.Courses)),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CourseSummary is one row of the HOD course view.
type CourseSummary struct {
	CourseID          int64   `json:"course_id"`
	Name              string  `json:"name"`
	LecturerID        *int64  `json:"lecturer_id"`
	StudentCount      int     `json:"student_count"`
	Sessions          int     `json:"sessions"`
	AverageAttendance float64 `json:"average_attendance"`
}

// Courses lists every course with enrollment and average attendance, the
// latter being events over enrolled persons as a percentage.
func (s *Service) Courses(ctx context.Context) ([]CourseSummary, error) {
	var out []CourseSummary
	err := s.cached(ctx, "hod:courses", &out, func(ctx context.Context) (any, error) {
		stats, err := s.ledger.CourseStats(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]CourseSummary, 0, len(stats))
		for _, c := range stats {
			rows = append(rows, CourseSummary{
				CourseID:          c.CourseID,
				Name:              c.Name,
				LecturerID:        c.LecturerID,
				StudentCount:      c.Enrolled,
				Sessions:          c.Sessions,
				AverageAttendance: round2(percentage(c.Events, c.Enrolled)),
			})
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LecturerSummary lists the courses one lecturer owns.
type LecturerSummary struct {
	LecturerID int64    `json:"lecturer_id"`
	Courses    []string `json:"courses"`
}

// Lecturers groups owned courses by lecturer.
func (s *Service) Lecturers(ctx context.Context) ([]LecturerSummary, error) {
	var out []LecturerSummary
	err := s.cached(ctx, "hod:lecturers", &out, func(ctx context.Context) (any, error) {
		owned, err := s.ledger.LecturerCourses(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]LecturerSummary, 0, len(owned))
		for _, l := range owned {
			rows = append(rows, LecturerSummary{LecturerID: l.LecturerID, Courses: l.CourseNames})
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LowAttendance is a flagged person.
type LowAttendance struct {
	StudentID        int64   `json:"student_id"`
	Name             string  `json:"name"`
	MatricNumber     string  `json:"matric_number"`
	AttendedSessions int     `json:"attended_sessions"`
	PossibleSessions int     `json:"possible_sessions"`
	Percentage       float64 `json:"percentage"`
}

// LowAttendance lists persons at or below LowAttendanceThreshold, measured
// against the sessions held across their enrolled courses. Persons whose
// courses have held no sessions are not flagged.
func (s *Service) LowAttendance(ctx context.Context) ([]LowAttendance, error) {
	var out []LowAttendance
	err := s.cached(ctx, "hod:low_attendance", &out, func(ctx context.Context) (any, error) {
		persons, err := s.ledger.PersonStats(ctx)
		if err != nil {
			return nil, err
		}
		rows := []LowAttendance{}
		for _, p := range persons {
			if p.PossibleSessions == 0 {
				continue
			}
			pct := percentage(p.Attended, p.PossibleSessions)
			if pct > LowAttendanceThreshold {
				continue
			}
			rows = append(rows, LowAttendance{
				StudentID:        p.PersonID,
				Name:             p.FirstName + " " + p.LastName,
				MatricNumber:     p.IdentityKey,
				AttendedSessions: p.Attended,
				PossibleSessions: p.PossibleSessions,
				Percentage:       round2(pct),
			})
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// cached serves key from the cache, or computes it once across concurrent
// callers and stores the result. Cache failures degrade to computing.
func (s *Service) cached(ctx context.Context, key string, dest any, compute func(ctx context.Context) (any, error)) error {
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, key, dest)
		if err != nil {
			s.logger.WarnContext(ctx, "analytics cache read failed", "key", key, "error", err)
		}
		if hit {
			return nil
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, v); err != nil {
				s.logger.WarnContext(ctx, "analytics cache write failed", "key", key, "error", err)
			}
		}
		return v, nil
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute attendance analytics")
	}
	return assign(dest, v)
}

func assign(dest, v any) error {
	switch d := dest.(type) {
	case *CourseTiers:
		*d = *v.(*CourseTiers)
	case *DepartmentSummary:
		*d = *v.(*DepartmentSummary)
	case *Overview:
		*d = *v.(*Overview)
	case *[]CourseSummary:
		*d = v.([]CourseSummary)
	case *[]LecturerSummary:
		*d = v.([]LecturerSummary)
	case *[]LowAttendance:
		*d = v.([]LowAttendance)
	default:
		return fmt.Errorf("unsupported analytics result %T", dest)
	}
	return nil
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
