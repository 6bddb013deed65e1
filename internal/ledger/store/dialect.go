package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Dialect isolates the SQL differences between the supported ledger backends.
type Dialect interface {
	Name() string
	// Rebind rewrites '?' placeholders into the backend's bind syntax.
	Rebind(query string) string
	IsUniqueViolation(err error) bool
	Schema() []string
}

// DialectFor returns the dialect registered for a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite3", "sqlite", "":
		return SQLite{}, nil
	case "postgres", "postgresql":
		return Postgres{}, nil
	default:
		return nil, fmt.Errorf("unsupported ledger driver %q", driver)
	}
}

// SQLite is the default on-disk ledger.
type SQLite struct{}

func (SQLite) Name() string { return "sqlite3" }

func (SQLite) Rebind(query string) string { return query }

func (SQLite) IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func (SQLite) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS persons (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			identity_key TEXT NOT NULL UNIQUE,
			level TEXT NOT NULL,
			embedding TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS courses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			lecturer_id INTEGER NULL
		)`,
		`CREATE TABLE IF NOT EXISTS enrollments (
			person_id INTEGER NOT NULL REFERENCES persons(id),
			course_id INTEGER NOT NULL REFERENCES courses(id),
			PRIMARY KEY (person_id, course_id)
		)`,
		`CREATE TABLE IF NOT EXISTS attendance_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			person_id INTEGER NOT NULL REFERENCES persons(id),
			course_id INTEGER NOT NULL REFERENCES courses(id),
			recorded_at TIMESTAMP NOT NULL,
			attended_on TEXT NOT NULL,
			UNIQUE (person_id, course_id, attended_on)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attendance_course_day ON attendance_events (course_id, attended_on)`,
	}
}

// Postgres is the networked ledger backend.
type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) Rebind(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (Postgres) IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (Postgres) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS persons (
			id BIGSERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			identity_key TEXT NOT NULL UNIQUE,
			level TEXT NOT NULL,
			embedding TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS courses (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			lecturer_id BIGINT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS enrollments (
			person_id BIGINT NOT NULL REFERENCES persons(id),
			course_id BIGINT NOT NULL REFERENCES courses(id),
			PRIMARY KEY (person_id, course_id)
		)`,
		`CREATE TABLE IF NOT EXISTS attendance_events (
			id BIGSERIAL PRIMARY KEY,
			person_id BIGINT NOT NULL REFERENCES persons(id),
			course_id BIGINT NOT NULL REFERENCES courses(id),
			recorded_at TIMESTAMPTZ NOT NULL,
			attended_on TEXT NOT NULL,
			UNIQUE (person_id, course_id, attended_on)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attendance_course_day ON attendance_events (course_id, attended_on)`,
	}
}
