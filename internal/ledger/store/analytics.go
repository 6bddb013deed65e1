package store

import (
	"context"
	"database/sql"
	"fmt"

	"rollcall/internal/ledger/models"
)

// Read-only rollups. A session is a distinct day on which a course recorded at
// least one attendance event.

// CourseSessionCount returns the number of sessions held for the course.
func (s *Store) CourseSessionCount(ctx context.Context, courseID int64) (int, error) {
	var n int
	err := s.conn(ctx).QueryRowContext(ctx, s.q(`
		SELECT COUNT(DISTINCT attended_on) FROM attendance_events WHERE course_id = ?`),
		courseID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count course sessions: %w", err)
	}
	return n, nil
}

// CourseRosterAttendance returns every enrolled person with their attended
// event count in the course, ordered by person id.
func (s *Store) CourseRosterAttendance(ctx context.Context, courseID int64) ([]models.PersonAttendance, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, s.q(`
		SELECT p.id, p.first_name, p.last_name, p.identity_key, COUNT(a.id)
		FROM persons p
		JOIN enrollments e ON e.person_id = p.id
		LEFT JOIN attendance_events a ON a.person_id = p.id AND a.course_id = e.course_id
		WHERE e.course_id = ?
		GROUP BY p.id, p.first_name, p.last_name, p.identity_key
		ORDER BY p.id`), courseID)
	if err != nil {
		return nil, fmt.Errorf("course roster attendance: %w", err)
	}
	defer rows.Close()

	out := []models.PersonAttendance{}
	for rows.Next() {
		var pa models.PersonAttendance
		if err := rows.Scan(&pa.PersonID, &pa.FirstName, &pa.LastName, &pa.IdentityKey, &pa.Attended); err != nil {
			return nil, fmt.Errorf("scan roster row: %w", err)
		}
		out = append(out, pa)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("course roster attendance: %w", err)
	}
	return out, nil
}

// Totals returns department-wide counts. Lecturers are distinct course owners.
func (s *Store) Totals(ctx context.Context) (models.Totals, error) {
	var t models.Totals
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM courses),
			(SELECT COUNT(*) FROM persons),
			(SELECT COUNT(*) FROM attendance_events),
			(SELECT COUNT(DISTINCT lecturer_id) FROM courses WHERE lecturer_id IS NOT NULL)`).
		Scan(&t.Courses, &t.Persons, &t.Events, &t.Lecturers)
	if err != nil {
		return models.Totals{}, fmt.Errorf("department totals: %w", err)
	}
	return t, nil
}

// CourseStats returns per-course session, event and enrollment counts.
func (s *Store) CourseStats(ctx context.Context) ([]models.CourseStats, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT c.id, c.name, c.lecturer_id,
			(SELECT COUNT(DISTINCT a.attended_on) FROM attendance_events a WHERE a.course_id = c.id),
			(SELECT COUNT(*) FROM attendance_events a WHERE a.course_id = c.id),
			(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id)
		FROM courses c
		ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("course stats: %w", err)
	}
	defer rows.Close()

	out := []models.CourseStats{}
	for rows.Next() {
		var (
			cs       models.CourseStats
			lecturer sql.NullInt64
		)
		if err := rows.Scan(&cs.CourseID, &cs.Name, &lecturer, &cs.Sessions, &cs.Events, &cs.Enrolled); err != nil {
			return nil, fmt.Errorf("scan course stats: %w", err)
		}
		if lecturer.Valid {
			id := lecturer.Int64
			cs.LecturerID = &id
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("course stats: %w", err)
	}
	return out, nil
}

// PersonStats returns per-person attendance across all enrolled courses.
func (s *Store) PersonStats(ctx context.Context) ([]models.PersonStats, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT p.id, p.first_name, p.last_name, p.identity_key,
			(SELECT COUNT(*) FROM attendance_events a WHERE a.person_id = p.id),
			(SELECT COUNT(*) FROM enrollments e WHERE e.person_id = p.id),
			(SELECT COUNT(DISTINCT a.course_id || ':' || a.attended_on)
				FROM attendance_events a
				JOIN enrollments e ON e.course_id = a.course_id
				WHERE e.person_id = p.id)
		FROM persons p
		ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("person stats: %w", err)
	}
	defer rows.Close()

	out := []models.PersonStats{}
	for rows.Next() {
		var ps models.PersonStats
		if err := rows.Scan(&ps.PersonID, &ps.FirstName, &ps.LastName, &ps.IdentityKey,
			&ps.Attended, &ps.EnrolledCourses, &ps.PossibleSessions); err != nil {
			return nil, fmt.Errorf("scan person stats: %w", err)
		}
		out = append(out, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("person stats: %w", err)
	}
	return out, nil
}

// LecturerCourses groups owned course names by lecturer id.
func (s *Store) LecturerCourses(ctx context.Context) ([]models.LecturerCourses, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT lecturer_id, name FROM courses
		WHERE lecturer_id IS NOT NULL
		ORDER BY lecturer_id, id`)
	if err != nil {
		return nil, fmt.Errorf("lecturer courses: %w", err)
	}
	defer rows.Close()

	out := []models.LecturerCourses{}
	for rows.Next() {
		var (
			lecturerID int64
			name       string
		)
		if err := rows.Scan(&lecturerID, &name); err != nil {
			return nil, fmt.Errorf("scan lecturer course: %w", err)
		}
		if n := len(out); n > 0 && out[n-1].LecturerID == lecturerID {
			out[n-1].CourseNames = append(out[n-1].CourseNames, name)
			continue
		}
		out = append(out, models.LecturerCourses{LecturerID: lecturerID, CourseNames: []string{name}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lecturer courses: %w", err)
	}
	return out, nil
}
