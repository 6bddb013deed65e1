package common

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string) error
	SetRole(role string) error
	StatusCode() int
	GetResponseField(field string) (any, error)
	Body() string
}

// RegisterSteps registers background, request and assertion steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the rollcall service is running$`, steps.serviceIsRunning)
	ctx.Step(`^I am authenticated as a "([^"]*)"$`, steps.authenticatedAs)
	ctx.Step(`^I GET "([^"]*)"$`, steps.get)
	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be (true|false)$`, steps.fieldShouldBeBool)
	ctx.Step(`^the response field "([^"]*)" should equal (-?\d+(?:\.\d+)?)$`, steps.fieldShouldEqual)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) serviceIsRunning(ctx context.Context) error {
	if err := s.tc.GET("/healthz"); err != nil {
		return err
	}
	if s.tc.StatusCode() != 200 {
		return fmt.Errorf("service unhealthy: %d %s", s.tc.StatusCode(), s.tc.Body())
	}
	return nil
}

func (s *commonSteps) authenticatedAs(ctx context.Context, role string) error {
	return s.tc.SetRole(role)
}

func (s *commonSteps) get(ctx context.Context, path string) error {
	return s.tc.GET(path)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, expected int) error {
	if got := s.tc.StatusCode(); got != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, got, s.tc.Body())
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(ctx context.Context, field, expected string) error {
	got, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if fmt.Sprint(got) != expected {
		return fmt.Errorf("expected %s to be %q, got %v", field, expected, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeBool(ctx context.Context, field, expected string) error {
	got, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	want := expected == "true"
	if b, ok := got.(bool); !ok || b != want {
		return fmt.Errorf("expected %s to be %s, got %v", field, expected, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldEqual(ctx context.Context, field, expected string) error {
	got, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	want, err := strconv.ParseFloat(expected, 64)
	if err != nil {
		return err
	}
	if n, ok := got.(float64); !ok || n != want {
		return fmt.Errorf("expected %s to equal %s, got %v", field, expected, got)
	}
	return nil
}
