package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rollcall/internal/ledger/models"
	"rollcall/pkg/platform/sentinel"
)

func scanCourse(row interface{ Scan(...any) error }) (*models.Course, error) {
	var (
		c        models.Course
		lecturer sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.Name, &lecturer); err != nil {
		return nil, err
	}
	if lecturer.Valid {
		id := lecturer.Int64
		c.LecturerID = &id
	}
	return &c, nil
}

// FindCourse looks a course up by id.
func (s *Store) FindCourse(ctx context.Context, courseID int64) (*models.Course, error) {
	c, err := scanCourse(s.conn(ctx).QueryRowContext(ctx, s.q(`
		SELECT id, name, lecturer_id FROM courses WHERE id = ?`), courseID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return c, nil
}

// FindCourseByName looks a course up by its unique name.
func (s *Store) FindCourseByName(ctx context.Context, name string) (*models.Course, error) {
	c, err := scanCourse(s.conn(ctx).QueryRowContext(ctx, s.q(`
		SELECT id, name, lecturer_id FROM courses WHERE name = ?`), name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find course by name: %w", err)
	}
	return c, nil
}

// CreateCourse inserts a course owned by lecturerID.
func (s *Store) CreateCourse(ctx context.Context, name string, lecturerID int64) (*models.Course, error) {
	c := &models.Course{Name: name, LecturerID: &lecturerID}
	err := s.conn(ctx).QueryRowContext(ctx, s.q(`
		INSERT INTO courses (name, lecturer_id) VALUES (?, ?)
		RETURNING id`), name, lecturerID).Scan(&c.ID)
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return nil, fmt.Errorf("create course %s: %w", name, sentinel.ErrAlreadyUsed)
		}
		return nil, fmt.Errorf("create course: %w", err)
	}
	return c, nil
}

// ClaimCourse assigns an unowned course to lecturerID. A course that already
// has an owner fails with sentinel.ErrAlreadyUsed.
func (s *Store) ClaimCourse(ctx context.Context, courseID, lecturerID int64) error {
	res, err := s.conn(ctx).ExecContext(ctx, s.q(`
		UPDATE courses SET lecturer_id = ?
		WHERE id = ? AND lecturer_id IS NULL`), lecturerID, courseID)
	if err != nil {
		return fmt.Errorf("claim course: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim course: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("claim course %d: %w", courseID, sentinel.ErrAlreadyUsed)
	}
	return nil
}

// ListCoursesByLecturer returns the courses owned by lecturerID ordered by id.
func (s *Store) ListCoursesByLecturer(ctx context.Context, lecturerID int64) ([]models.Course, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, s.q(`
		SELECT id, name, lecturer_id FROM courses
		WHERE lecturer_id = ?
		ORDER BY id`), lecturerID)
	if err != nil {
		return nil, fmt.Errorf("list lecturer courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lecturer courses: %w", err)
	}
	return courses, nil
}
