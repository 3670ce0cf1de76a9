package common

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext is the part of the scenario context these steps need.
type TestContext interface {
	GET(path string) error
	LastStatus() int
	LastBody() []byte
	ResponseField(field string) (any, error)
	Name(id string) string
}

// RegisterSteps registers generic request and assertion steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the server is healthy$`, steps.serverIsHealthy)
	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be the name "([^"]*)"$`, steps.fieldShouldBeName)
	ctx.Step(`^the error should be "([^"]*)"$`, steps.errorShouldBe)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) serverIsHealthy(ctx context.Context) error {
	if err := s.tc.GET("/health"); err != nil {
		return err
	}
	return s.statusShouldBe(ctx, 200)
}

func (s *commonSteps) statusShouldBe(_ context.Context, expected int) error {
	if got := s.tc.LastStatus(); got != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, got, s.tc.LastBody())
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(_ context.Context, field, expected string) error {
	v, err := s.tc.ResponseField(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); got != expected {
		return fmt.Errorf("expected %s=%q, got %q", field, expected, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeName(ctx context.Context, field, name string) error {
	return s.fieldShouldBe(ctx, field, s.tc.Name(name))
}

func (s *commonSteps) errorShouldBe(ctx context.Context, code string) error {
	return s.fieldShouldBe(ctx, "error", code)
}
