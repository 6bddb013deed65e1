// Package store is the SQL-backed attendance ledger. It owns persons, courses,
// enrollments and attendance events; one code path serves both SQLite and
// PostgreSQL through a Dialect.
//
// The store is pure I/O. It enforces the storage-level invariants (unique
// identity key, unique enrollment pair, one event per person/course/day) and
// reports violations as sentinel errors; callers decide what they mean.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rollcall/internal/ledger/models"
	"rollcall/pkg/platform/sentinel"
	strutil "rollcall/pkg/platform/strings"
	"rollcall/pkg/platform/tx"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the ledger over a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
	loc     *time.Location
}

// Option configures a Store.
type Option func(*Store)

// WithLocation sets the location whose calendar day bounds "today".
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// New constructs a ledger store.
func New(db *sql.DB, dialect Dialect, opts ...Option) *Store {
	s := &Store{db: db, dialect: dialect, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the day-boundary location.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Migrate creates the ledger schema if it does not already exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.Schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s ledger: %w", s.dialect.Name(), err)
		}
	}
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) conn(ctx context.Context) querier {
	if sqlTx, ok := tx.From(ctx); ok {
		return sqlTx
	}
	return s.db
}

func (s *Store) q(query string) string {
	return s.dialect.Rebind(query)
}

// FindPerson looks a person up by identity key.
func (s *Store) FindPerson(ctx context.Context, identityKey string) (*models.Person, error) {
	row := s.conn(ctx).QueryRowContext(ctx, s.q(`
		SELECT id, first_name, last_name, identity_key, level, embedding
		FROM persons
		WHERE identity_key = ?`), identityKey)

	var (
		p         models.Person
		embedding string
	)
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.IdentityKey, &p.Level, &embedding); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find person: %w", err)
	}
	vec, err := decodeVector(embedding)
	if err != nil {
		return nil, fmt.Errorf("find person %s: %w", identityKey, err)
	}
	p.Embedding = vec
	return &p, nil
}

// IsEnrolled reports whether the person is enrolled in the course.
func (s *Store) IsEnrolled(ctx context.Context, personID, courseID int64) (bool, error) {
	var n int
	err := s.conn(ctx).QueryRowContext(ctx, s.q(`
		SELECT COUNT(1) FROM enrollments WHERE person_id = ? AND course_id = ?`),
		personID, courseID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return n > 0, nil
}

// HasRecordedToday reports whether an event exists for the pair on the
// calendar day of now in the store's location.
func (s *Store) HasRecordedToday(ctx context.Context, personID, courseID int64, now time.Time) (bool, error) {
	var n int
	err := s.conn(ctx).QueryRowContext(ctx, s.q(`
		SELECT COUNT(1) FROM attendance_events
		WHERE person_id = ? AND course_id = ? AND attended_on = ?`),
		personID, courseID, models.DayOf(now, s.loc)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check attendance today: %w", err)
	}
	return n > 0, nil
}

// RecordEvent inserts one attendance event. A second event for the same
// person, course and day fails with sentinel.ErrAlreadyUsed.
func (s *Store) RecordEvent(ctx context.Context, personID, courseID int64, at time.Time) (*models.AttendanceEvent, error) {
	event := &models.AttendanceEvent{
		PersonID:   personID,
		CourseID:   courseID,
		RecordedAt: at.UTC(),
		Day:        models.DayOf(at, s.loc),
	}
	err := s.conn(ctx).QueryRowContext(ctx, s.q(`
		INSERT INTO attendance_events (person_id, course_id, recorded_at, attended_on)
		VALUES (?, ?, ?, ?)
		RETURNING id`),
		event.PersonID, event.CourseID, event.RecordedAt, event.Day).Scan(&event.ID)
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return nil, fmt.Errorf("record attendance: %w", sentinel.ErrAlreadyUsed)
		}
		return nil, fmt.Errorf("record attendance: %w", err)
	}
	return event, nil
}

// RegisterPerson creates the person, any missing courses, and the enrollments
// in one transaction. An existing identity key fails with
// sentinel.ErrAlreadyUsed and leaves the ledger unchanged.
func (s *Store) RegisterPerson(ctx context.Context, in models.NewPerson, at time.Time) (int64, error) {
	embedding, err := json.Marshal(in.Embedding)
	if err != nil {
		return 0, fmt.Errorf("encode embedding: %w", err)
	}

	var personID int64
	err = tx.Run(ctx, s.db, func(ctx context.Context) error {
		c := s.conn(ctx)
		err := c.QueryRowContext(ctx, s.q(`
			INSERT INTO persons (first_name, last_name, identity_key, level, embedding, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id`),
			in.FirstName, in.LastName, in.IdentityKey, in.Level, string(embedding), at.UTC()).Scan(&personID)
		if err != nil {
			if s.dialect.IsUniqueViolation(err) {
				return fmt.Errorf("register person %s: %w", in.IdentityKey, sentinel.ErrAlreadyUsed)
			}
			return fmt.Errorf("insert person: %w", err)
		}

		for _, name := range strutil.DedupeAndTrim(in.CourseNames) {
			courseID, err := s.ensureCourse(ctx, c, name)
			if err != nil {
				return err
			}
			if _, err := c.ExecContext(ctx, s.q(`
				INSERT INTO enrollments (person_id, course_id) VALUES (?, ?)
				ON CONFLICT (person_id, course_id) DO NOTHING`), personID, courseID); err != nil {
				return fmt.Errorf("enroll person in %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return personID, nil
}

func (s *Store) ensureCourse(ctx context.Context, c querier, name string) (int64, error) {
	if _, err := c.ExecContext(ctx, s.q(`
		INSERT INTO courses (name) VALUES (?)
		ON CONFLICT (name) DO NOTHING`), name); err != nil {
		return 0, fmt.Errorf("ensure course %s: %w", name, err)
	}
	var id int64
	if err := c.QueryRowContext(ctx, s.q(`SELECT id FROM courses WHERE name = ?`), name).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup course %s: %w", name, err)
	}
	return id, nil
}

// ListIdentityVectors returns every stored vector in registration order.
func (s *Store) ListIdentityVectors(ctx context.Context) ([]models.IdentityVector, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `SELECT identity_key, embedding FROM persons ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list identity vectors: %w", err)
	}
	defer rows.Close()

	var out []models.IdentityVector
	for rows.Next() {
		var key, embedding string
		if err := rows.Scan(&key, &embedding); err != nil {
			return nil, fmt.Errorf("scan identity vector: %w", err)
		}
		vec, err := decodeVector(embedding)
		if err != nil {
			return nil, fmt.Errorf("identity %s: %w", key, err)
		}
		out = append(out, models.IdentityVector{IdentityKey: key, Vector: vec})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list identity vectors: %w", err)
	}
	return out, nil
}

func decodeVector(raw string) ([]float64, error) {
	var vec []float64
	if err := json.Unmarshal([]byte(raw), &vec); err != nil {
		return nil, fmt.Errorf("%w: embedding: %v", sentinel.ErrCorrupt, err)
	}
	return vec, nil
}
