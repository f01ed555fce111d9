package vgerr

import (
	"errors"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	e := New(NotFound, "symbol missing")
	want := "NOT_FOUND: symbol missing"
	if got := e.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestWrapMessageAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	e := Wrap(IOError, "write batch", cause)

	want := "IO_ERROR: write batch: disk full"
	if got := e.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(e, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestErrorsAsRecoversCode(t *testing.T) {
	var err error = NotFoundf("no node named %q", "foo")

	var ve *Error
	if !errors.As(err, &ve) {
		t.Fatal("expected errors.As to match *Error")
	}
	if ve.Code != NotFound {
		t.Errorf("Code = %q, want %q", ve.Code, NotFound)
	}
}

func TestInvalidInputf(t *testing.T) {
	err := InvalidInputf("depth must be in [1,10], got %d", 99)
	if err.Code != InvalidInput {
		t.Errorf("Code = %q, want %q", err.Code, InvalidInput)
	}
}
