package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", NewValidation("channel", "unknown channel"), http.StatusBadRequest},
		{"not found", NewNotFound("conversation", "c-1"), http.StatusNotFound},
		{"transition", NewInvalidTransition("outreach item", "q-1", "approved", "cancelled", ""), http.StatusConflict},
		{"wrapped transition", fmt.Errorf("cancel: %w", NewInvalidTransition("outreach item", "q-1", "sent", "approved", "")), http.StatusConflict},
		{"persistence", NewPersistence("insert", errors.New("connection refused")), http.StatusInternalServerError},
		{"partial audit", &PartialAuditFailure{Action: "excluded", Err: errors.New("timeout")}, http.StatusOK},
		{"opaque", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusCode(tc.err); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestNewPersistenceKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := NewPersistence("insert outreach item", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable")
	}
	if NewPersistence("noop", nil) != nil {
		t.Fatalf("expected nil for nil cause")
	}
	if again := NewPersistence("outer", err); again != err {
		t.Fatalf("expected an existing PersistenceError to pass through unchanged")
	}
}

func TestIsPartialAudit(t *testing.T) {
	err := fmt.Errorf("toggle: %w", &PartialAuditFailure{Action: "included", EntryID: "a-1", Err: errors.New("down")})
	if !IsPartialAudit(err) {
		t.Fatalf("expected wrapped PartialAuditFailure to be detected")
	}
	if IsPartialAudit(NewNotFound("rule", "r-1")) {
		t.Fatalf("NotFoundError is not a partial audit failure")
	}
}
