package attendance

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	AdminPOST(path string) error
	StatusCode() int
	GetResponseField(field string) (any, error)
	Scoped(name string) string
	Embedding(student string, shift float64) []float64
	RememberCourse(name string, id float64)
	CourseID(name string) (float64, error)
}

// RegisterSteps registers course, registration and marking steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &attendanceSteps{tc: tc}

	ctx.Step(`^I create the course "([^"]*)"$`, steps.createCourse)
	ctx.Step(`^the course "([^"]*)" exists$`, steps.courseExists)
	ctx.Step(`^I register student "([^"]*)" for courses "([^"]*)"$`, steps.registerStudent)
	ctx.Step(`^I register student "([^"]*)" again$`, steps.registerAgain)
	ctx.Step(`^student "([^"]*)" is registered for "([^"]*)"$`, steps.studentIsRegistered)
	ctx.Step(`^I mark attendance for "([^"]*)" in "([^"]*)"$`, steps.markAttendance)
	ctx.Step(`^I mark attendance for "([^"]*)" in "([^"]*)" with a slightly different capture$`, steps.markAttendanceShifted)
	ctx.Step(`^I mark attendance for an unknown face in "([^"]*)"$`, steps.markUnknown)
	ctx.Step(`^I request attendance tiers for "([^"]*)"$`, steps.requestTiers)
	ctx.Step(`^I trigger a reconcile$`, steps.reconcile)
	ctx.Step(`^the response field "([^"]*)" should be student "([^"]*)"$`, steps.fieldIsStudent)
}

type attendanceSteps struct {
	tc TestContext
}

func (s *attendanceSteps) createCourse(ctx context.Context, name string) error {
	if err := s.tc.POST("/courses/create", map[string]any{"name": s.tc.Scoped(name)}); err != nil {
		return err
	}
	if s.tc.StatusCode() >= 300 {
		return nil
	}
	id, err := s.tc.GetResponseField("course_id")
	if err != nil {
		return err
	}
	s.tc.RememberCourse(name, id.(float64))
	return nil
}

func (s *attendanceSteps) courseExists(ctx context.Context, name string) error {
	if err := s.createCourse(ctx, name); err != nil {
		return err
	}
	if s.tc.StatusCode() != 201 {
		return fmt.Errorf("create course %s: status %d", name, s.tc.StatusCode())
	}
	return nil
}

func (s *attendanceSteps) registerBody(student, courses string) map[string]any {
	names := []string{}
	for _, c := range strings.Split(courses, ",") {
		if c = strings.TrimSpace(c); c != "" {
			names = append(names, s.tc.Scoped(c))
		}
	}
	return map[string]any{
		"first_name":      "Student",
		"last_name":       student,
		"matric_number":   s.tc.Scoped(student),
		"level":           "100",
		"courses_offered": names,
		"embedding":       s.tc.Embedding(student, 0),
	}
}

func (s *attendanceSteps) registerStudent(ctx context.Context, student, courses string) error {
	return s.tc.POST("/students/register", s.registerBody(student, courses))
}

func (s *attendanceSteps) registerAgain(ctx context.Context, student string) error {
	return s.tc.POST("/students/register", s.registerBody(student, ""))
}

func (s *attendanceSteps) studentIsRegistered(ctx context.Context, student, courses string) error {
	if err := s.registerStudent(ctx, student, courses); err != nil {
		return err
	}
	if s.tc.StatusCode() != 201 {
		return fmt.Errorf("register %s: status %d", student, s.tc.StatusCode())
	}
	return nil
}

func (s *attendanceSteps) mark(course string, embedding []float64) error {
	id, err := s.tc.CourseID(course)
	if err != nil {
		return err
	}
	return s.tc.POST("/attendance/mark", map[string]any{"course_id": id, "embedding": embedding})
}

func (s *attendanceSteps) markAttendance(ctx context.Context, student, course string) error {
	return s.mark(course, s.tc.Embedding(student, 0))
}

func (s *attendanceSteps) markAttendanceShifted(ctx context.Context, student, course string) error {
	return s.mark(course, s.tc.Embedding(student, 0.01))
}

func (s *attendanceSteps) markUnknown(ctx context.Context, course string) error {
	return s.mark(course, s.tc.Embedding("nobody-registered-this-face", 0))
}

func (s *attendanceSteps) requestTiers(ctx context.Context, course string) error {
	id, err := s.tc.CourseID(course)
	if err != nil {
		return err
	}
	return s.tc.GET(fmt.Sprintf("/attendance/course_attendance_tiers/%d", int64(id)))
}

func (s *attendanceSteps) reconcile(ctx context.Context) error {
	return s.tc.AdminPOST("/admin/reconcile")
}

func (s *attendanceSteps) fieldIsStudent(ctx context.Context, field, student string) error {
	got, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if got != s.tc.Scoped(student) {
		return fmt.Errorf("expected %s to be %s, got %v", field, s.tc.Scoped(student), got)
	}
	return nil
}
