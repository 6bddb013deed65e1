package models

import "time"

// DayLayout is the calendar-day key stored alongside every attendance event.
const DayLayout = "2006-01-02"

// Person is an enrolled identity. The embedding kept here is the source the
// embedding index is rebuilt from.
type Person struct {
	ID          int64
	FirstName   string
	LastName    string
	IdentityKey string
	Level       string
	Embedding   []float64
}

// DisplayName joins first and last name.
func (p Person) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

// NewPerson is the input to RegisterPerson.
type NewPerson struct {
	FirstName   string
	LastName    string
	IdentityKey string
	Level       string
	CourseNames []string
	Embedding   []float64
}

// Course is a unit that persons enroll in. LecturerID is nil until claimed.
type Course struct {
	ID         int64
	Name       string
	LecturerID *int64
}

// AttendanceEvent is one recorded attendance. Day is the server-local calendar
// day of RecordedAt and is unique per (PersonID, CourseID).
type AttendanceEvent struct {
	ID         int64
	PersonID   int64
	CourseID   int64
	RecordedAt time.Time
	Day        string
}

// IdentityVector is a ledger-side projection used to rebuild the index.
type IdentityVector struct {
	IdentityKey string
	Vector      []float64
}

// DayOf returns the calendar-day key for t in loc.
func DayOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayLayout)
}
