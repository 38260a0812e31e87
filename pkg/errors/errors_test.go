package errors

import (
	"errors"
	"io"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := NewError(ErrorTypeBadRequest, "invalid input")
	if err.Error() != "bad_request: invalid input" {
		t.Errorf("Unexpected error string: %s", err.Error())
	}

	wrapped := NewError(ErrorTypeUpstream, "bad upstream payload").WithCause(io.EOF)
	if wrapped.Error() != "upstream_protocol: bad upstream payload: EOF" {
		t.Errorf("Unexpected error string: %s", wrapped.Error())
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewError(ErrorTypeInternal, "forward failed").WithCause(cause)

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}
}

func TestErrorIs(t *testing.T) {
	err := NewError(ErrorTypeRateLimit, "too many requests")

	if !errors.Is(err, &Error{Type: ErrorTypeRateLimit}) {
		t.Error("Expected match on error type")
	}
	if errors.Is(err, &Error{Type: ErrorTypeTimeout}) {
		t.Error("Did not expect match on different type")
	}
}

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		errType ErrorType
		status  int
	}{
		{ErrorTypeBadRequest, 400},
		{ErrorTypeOriginDenied, 403},
		{ErrorTypeNotFound, 404},
		{ErrorTypeRateLimit, 429},
		{ErrorTypeInternal, 500},
		{ErrorTypeUpstream, 502},
		{ErrorTypeTimeout, 504},
	}

	for _, tt := range tests {
		err := NewError(tt.errType, "test")
		if got := err.HTTPStatusCode(); got != tt.status {
			t.Errorf("%s: expected status %d, got %d", tt.errType, tt.status, got)
		}
	}
}

func TestWithDetail(t *testing.T) {
	err := NewError(ErrorTypeUpstream, "non-JSON response").WithDetail("body", "<html>")
	if err.Details["body"] != "<html>" {
		t.Errorf("Expected detail to be stored, got %v", err.Details["body"])
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrapping nil should return nil")
	}

	base := errors.New("base")
	wrapped := Wrap(base, "context")
	if !errors.Is(wrapped, base) {
		t.Error("Expected wrapped error to unwrap to base")
	}
}
