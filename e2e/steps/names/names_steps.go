package names

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"github.com/cucumber/godog"
)

// TestContext is the part of the scenario context these steps need.
type TestContext interface {
	POST(path string, body any) error
	PUT(path string, body any) error
	DELETE(path string) error
	GET(path string) error
	LastStatus() int
	LastBody() []byte
	ResponseField(field string) (any, error)
	SetCaller(name, address string)
	Address(name string) string
	Name(id string) string
}

// RegisterSteps registers registry lifecycle steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &nameSteps{tc: tc}

	ctx.Step(`^I am "([^"]*)" with address "([^"]*)"$`, steps.iAm)
	ctx.Step(`^the registry charges no mint fee$`, steps.registryIsFree)

	ctx.Step(`^I mint "([^"]*)"$`, steps.mint)
	ctx.Step(`^I mint "([^"]*)" under "([^"]*)"$`, steps.mintSubdomain)
	ctx.Step(`^I mint the path "([^"]*)" under "([^"]*)"$`, steps.mintPath)
	ctx.Step(`^I transfer "([^"]*)" to "([^"]*)"$`, steps.transfer)
	ctx.Step(`^I burn "([^"]*)"$`, steps.burn)
	ctx.Step(`^I set "([^"]*)" as my primary alias$`, steps.setPrimaryAlias)

	ctx.Step(`^I request the full path of "([^"]*)"$`, steps.requestFullPath)
	ctx.Step(`^the full path should be "([^"]*)"$`, steps.fullPathShouldBe)
	ctx.Step(`^"([^"]*)" should be owned by "([^"]*)"$`, steps.shouldBeOwnedBy)
	ctx.Step(`^"([^"]*)" should not exist$`, steps.shouldNotExist)
	ctx.Step(`^the primary alias of "([^"]*)" should be "([^"]*)"$`, steps.primaryAliasShouldBe)
	ctx.Step(`^the primary alias of "([^"]*)" should not be "([^"]*)"$`, steps.primaryAliasShouldNotBe)
	ctx.Step(`^the paths of "([^"]*)" should include "([^"]*)"$`, steps.pathsShouldInclude)
}

type nameSteps struct {
	tc TestContext
}

func (s *nameSteps) iAm(_ context.Context, name, address string) error {
	s.tc.SetCaller(name, address)
	return nil
}

func (s *nameSteps) registryIsFree(_ context.Context) error {
	if err := s.tc.PUT("/admin/minting-fees", map[string]any{}); err != nil {
		return err
	}
	return s.expect(200)
}

func (s *nameSteps) mint(_ context.Context, id string) error {
	return s.tc.POST("/names", map[string]any{"token_id": s.tc.Name(id)})
}

func (s *nameSteps) mintSubdomain(_ context.Context, id, parent string) error {
	return s.tc.POST("/names", map[string]any{
		"token_id":  s.tc.Name(id),
		"parent_id": s.tc.Name(parent),
	})
}

func (s *nameSteps) mintPath(_ context.Context, segment, parent string) error {
	return s.tc.POST("/names/paths", map[string]any{
		"parent_token_id": s.tc.Name(parent),
		"token_id":        segment,
	})
}

func (s *nameSteps) transfer(_ context.Context, id, recipient string) error {
	return s.tc.POST("/names/"+s.escaped(id)+"/transfer", map[string]any{"recipient": s.tc.Address(recipient)})
}

func (s *nameSteps) burn(_ context.Context, id string) error {
	return s.tc.DELETE("/names/" + s.escaped(id))
}

func (s *nameSteps) setPrimaryAlias(_ context.Context, id string) error {
	return s.tc.PUT("/primary-alias", map[string]any{"token_id": s.tc.Name(id)})
}

func (s *nameSteps) requestFullPath(_ context.Context, id string) error {
	return s.tc.GET("/names/" + s.escaped(id) + "/full-path")
}

func (s *nameSteps) fullPathShouldBe(_ context.Context, expected string) error {
	return s.field("full_path", s.tc.Name(expected))
}

func (s *nameSteps) shouldBeOwnedBy(_ context.Context, id, owner string) error {
	if err := s.tc.GET("/names/" + s.escaped(id) + "/owner"); err != nil {
		return err
	}
	if err := s.expect(200); err != nil {
		return err
	}
	return s.field("owner", s.tc.Address(owner))
}

func (s *nameSteps) shouldNotExist(_ context.Context, id string) error {
	if err := s.tc.GET("/names/" + s.escaped(id)); err != nil {
		return err
	}
	return s.expect(404)
}

func (s *nameSteps) primaryAliasShouldBe(_ context.Context, owner, id string) error {
	if err := s.tc.GET("/owners/" + s.tc.Address(owner) + "/primary-alias"); err != nil {
		return err
	}
	if err := s.expect(200); err != nil {
		return err
	}
	return s.field("username", s.tc.Name(id))
}

// primaryAliasShouldNotBe accepts a 404 or any other alias. Without an explicit
// alias the registry falls back to the owner's first base name.
func (s *nameSteps) primaryAliasShouldNotBe(_ context.Context, owner, id string) error {
	if err := s.tc.GET("/owners/" + s.tc.Address(owner) + "/primary-alias"); err != nil {
		return err
	}
	if s.tc.LastStatus() == 404 {
		return nil
	}
	if err := s.expect(200); err != nil {
		return err
	}
	v, err := s.tc.ResponseField("username")
	if err != nil {
		return err
	}
	if fmt.Sprint(v) == s.tc.Name(id) {
		return fmt.Errorf("primary alias is still %q", v)
	}
	return nil
}

func (s *nameSteps) pathsShouldInclude(_ context.Context, id, path string) error {
	owner, err := s.ownerOf(id)
	if err != nil {
		return err
	}
	q := url.Values{"owner": {owner}}
	if err := s.tc.GET("/names/" + s.escaped(id) + "/paths?" + q.Encode()); err != nil {
		return err
	}
	if err := s.expect(200); err != nil {
		return err
	}
	raw, err := s.tc.ResponseField("tokens")
	if err != nil {
		return err
	}
	list, _ := raw.([]any)
	want := s.tc.Name(path)
	if !slices.ContainsFunc(list, func(v any) bool { return fmt.Sprint(v) == want }) {
		return fmt.Errorf("expected %q among paths %v", want, list)
	}
	return nil
}

func (s *nameSteps) ownerOf(id string) (string, error) {
	if err := s.tc.GET("/names/" + s.escaped(id) + "/owner"); err != nil {
		return "", err
	}
	if err := s.expect(200); err != nil {
		return "", err
	}
	v, err := s.tc.ResponseField("owner")
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

func (s *nameSteps) escaped(id string) string {
	return url.PathEscape(s.tc.Name(id))
}

func (s *nameSteps) expect(status int) error {
	if got := s.tc.LastStatus(); got != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, got, s.tc.LastBody())
	}
	return nil
}

func (s *nameSteps) field(name, expected string) error {
	v, err := s.tc.ResponseField(name)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); got != expected {
		return fmt.Errorf("expected %s=%q, got %q", name, expected, got)
	}
	return nil
}
