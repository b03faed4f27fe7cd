package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrWriterClosed", ErrWriterClosed},
		{"ErrEmptyBatch", ErrEmptyBatch},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrUnsupportedBackend", ErrUnsupportedBackend},
		{"ErrSourceClosed", ErrSourceClosed},
		{"ErrConnectionLost", ErrConnectionLost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatalf("%s should not be nil", tt.name)
			}
			if tt.err.Error() == "" {
				t.Errorf("%s should have an error message", tt.name)
			}
		})
	}
}

func TestSinkError(t *testing.T) {
	baseErr := errors.New("access denied")
	err := &SinkError{Backend: "s3", Operation: "upload", Path: "dt=2025-12-21/x.avro", Err: baseErr}

	want := "sink error: backend=s3 operation=upload path=dt=2025-12-21/x.avro: access denied"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, baseErr) {
		t.Error("SinkError should wrap base error")
	}
}

func TestEncodeError(t *testing.T) {
	baseErr := errors.New("bad schema")
	err := &EncodeError{Format: "avro", BatchID: "b-1", Err: baseErr}

	if !errors.Is(err, baseErr) {
		t.Error("EncodeError should wrap base error")
	}

	var target *EncodeError
	if !errors.As(fmt.Errorf("wrapped: %w", err), &target) || target.Format != "avro" {
		t.Error("EncodeError should be reachable through errors.As")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "connection lost", err: ErrConnectionLost, want: true},
		{name: "wrapped connection lost", err: fmt.Errorf("dial: %w", ErrConnectionLost), want: true},
		{name: "sink write", err: &SinkError{Operation: "write"}, want: true},
		{name: "sink upload", err: &SinkError{Operation: "upload"}, want: true},
		{name: "sink publish", err: &SinkError{Operation: "publish"}, want: true},
		{name: "sink insert", err: &SinkError{Operation: "insert"}, want: true},
		{name: "sink close", err: &SinkError{Operation: "close"}, want: false},
		{name: "wrapped sink write", err: fmt.Errorf("flush: %w", &SinkError{Operation: "write"}), want: true},
		{name: "encode error", err: &EncodeError{Err: errors.New("x")}, want: false},
		{name: "writer closed", err: ErrWriterClosed, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
