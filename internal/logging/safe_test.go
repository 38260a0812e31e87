package logging

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, msgGeneric},
		{"connection refused", errors.New("dial tcp 10.0.0.5:9000: connection refused"), msgUnavailable},
		{"timeout", errors.New("request timeout after 30s"), msgUnavailable},
		{"deadline", errors.New("context deadline exceeded"), msgUnavailable},
		{"network down", errors.New("network is unreachable"), msgUnavailable},
		{"unauthorized", errors.New("unauthorized: bad key"), msgDenied},
		{"forbidden", errors.New("forbidden by policy"), msgDenied},
		{"short benign", errors.New("invalid audio encoding"), "invalid audio encoding"},
		{"contains secret", errors.New("bad password for account"), msgGeneric},
		{"contains token", errors.New("token abc123 rejected"), msgGeneric},
		{"too long", fmt.Errorf("failed: %s", strings.Repeat("x", 300)), msgGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeErrorMessage(tt.err); got != tt.want {
				t.Errorf("SafeErrorMessage(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestSafeErrorMessageNeverLeaksInternals(t *testing.T) {
	err := errors.New("connect to 192.168.1.5:6379 with password=hunter2: connection refused")
	msg := SafeErrorMessage(err)
	if strings.Contains(msg, "192.168") || strings.Contains(msg, "hunter2") {
		t.Errorf("Leaked internals: %q", msg)
	}
}

func TestForRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ForRequest(logger, "req_test_1").Info("hello")
	if !strings.Contains(buf.String(), "req_test_1") {
		t.Error("Expected request_id in log output")
	}

	// Missing id gets generated
	buf.Reset()
	ForRequest(logger, "").Info("hello")
	if !strings.Contains(buf.String(), "request_id") {
		t.Error("Expected generated request_id in log output")
	}
}
