package validate

import (
	"errors"
	"testing"
)

func TestCheck_AccumulatesViolations(t *testing.T) {
	c := New()
	c.Required("firstName", "")
	c.Required("lastName", "   ")
	c.Required("username", "anag")
	c.NonNegative("age", -1)

	v := c.Result()
	if len(v) != 3 {
		t.Fatalf("expected 3 violations, got %+v", v)
	}
	if v[0].Field != "firstName" || v[1].Field != "lastName" || v[2].Field != "age" {
		t.Fatalf("violations out of order: %+v", v)
	}
}

func TestCheck_CleanResultIsNil(t *testing.T) {
	c := New()
	c.Required("name", "Milo")
	c.Min("name", "Milo", 1)
	c.NonNegative("weight", 0)

	if v := c.Result(); v != nil {
		t.Fatalf("expected nil result, got %+v", v)
	}
}

func TestViolations_AsError(t *testing.T) {
	c := New()
	c.Fail("name", "is required and may not be empty")

	var err error = c.Result()

	var viols Violations
	if !errors.As(err, &viols) {
		t.Fatalf("expected errors.As to recover Violations from %v", err)
	}
	if err.Error() != "name: is required and may not be empty" {
		t.Fatalf("unexpected error string: %q", err.Error())
	}
}

func TestMin_TrimsBeforeMeasuring(t *testing.T) {
	c := New()
	c.Min("name", "   ", 1)
	if v := c.Result(); len(v) != 1 {
		t.Fatalf("expected violation for whitespace-only value, got %+v", v)
	}
}
