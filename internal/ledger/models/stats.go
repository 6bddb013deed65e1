package models

// Read models consumed by the analytics aggregator.

// PersonAttendance is a person's attended-event count within one course.
type PersonAttendance struct {
	PersonID    int64
	FirstName   string
	LastName    string
	IdentityKey string
	Attended    int
}

// Totals are department-wide counts.
type Totals struct {
	Courses   int
	Persons   int
	Events    int
	Lecturers int
}

// CourseStats summarizes one course.
type CourseStats struct {
	CourseID   int64
	Name       string
	LecturerID *int64
	Sessions   int
	Events     int
	Enrolled   int
}

// PersonStats summarizes one person across all enrolled courses.
// PossibleSessions is the sum of sessions held by each enrolled course.
type PersonStats struct {
	PersonID         int64
	FirstName        string
	LastName         string
	IdentityKey      string
	Attended         int
	EnrolledCourses  int
	PossibleSessions int
}

// LecturerCourses lists the courses owned by one lecturer.
type LecturerCourses struct {
	LecturerID  int64
	CourseNames []string
}
