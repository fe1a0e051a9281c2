package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeOf(t *testing.T) {
	err := New(CodeEmailInUse, "Email already in use")
	if CodeOf(err) != CodeEmailInUse {
		t.Errorf("expected EMAIL_IN_USE, got %s", CodeOf(err))
	}

	// Codes survive wrapping.
	wrapped := fmt.Errorf("register: %w", err)
	if CodeOf(wrapped) != CodeEmailInUse {
		t.Errorf("expected EMAIL_IN_USE through wrap, got %s", CodeOf(wrapped))
	}

	// Uncoded errors pass through as generic query errors.
	if CodeOf(errors.New("boom")) != CodeQueryError {
		t.Errorf("expected QUERY_ERROR for uncoded error, got %s", CodeOf(errors.New("boom")))
	}
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(CodeRegistration, "Failed to register user", cause)

	if err.Error() != "Failed to register user: disk full" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
}
