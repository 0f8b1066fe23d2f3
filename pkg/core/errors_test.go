package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{
		Type:    ErrInvalidRequest,
		Message: "invalid voice",
	}

	expected := "invalid_request_error: invalid voice"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestError_WithCode(t *testing.T) {
	err := &Error{
		Type:    ErrRateLimit,
		Message: "too many requests",
		Code:    "rate_limit_exceeded",
	}

	expected := "rate_limit_error: too many requests (code: rate_limit_exceeded)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want ErrorType
	}{
		{"invalid request", NewInvalidRequestError("bad"), ErrInvalidRequest},
		{"authentication", NewAuthenticationError("key rejected"), ErrAuthentication},
		{"permission", NewPermissionError("microphone refused"), ErrPermission},
		{"api", NewAPIError("upstream"), ErrAPI},
		{"decode", NewDecodeError("bad base64"), ErrDecode},
		{"malformed audio", NewMalformedAudioError("odd byte count"), ErrMalformedAudio},
		{"synthesis", NewSynthesisError("no audio part"), ErrSynthesis},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.want {
				t.Errorf("Type = %v, want %v", tt.err.Type, tt.want)
			}
			if tt.err.Message == "" {
				t.Error("Message should not be empty")
			}
		})
	}
}

func TestNewProviderError(t *testing.T) {
	underlying := NewAPIError("upstream error")
	err := NewProviderError("gemini", underlying)

	if err.Type != ErrProvider {
		t.Errorf("Type = %v, want %v", err.Type, ErrProvider)
	}
	if err.ProviderError == nil {
		t.Error("ProviderError should not be nil")
	}
}

func TestError_IsRetryable(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    bool
	}{
		{ErrRateLimit, true},
		{ErrOverloaded, true},
		{ErrAPI, true},
		{ErrInvalidRequest, false},
		{ErrAuthentication, false},
		{ErrPermission, false},
		{ErrNotFound, false},
		{ErrProvider, false},
		{ErrDecode, false},
		{ErrMalformedAudio, false},
		{ErrSynthesis, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.errType), func(t *testing.T) {
			err := &Error{Type: tt.errType, Message: "test"}
			if got := err.IsRetryable(); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransportError_MessageAndUnwrap(t *testing.T) {
	underlying := fmt.Errorf("connection refused")
	err := &TransportError{Op: "POST", URL: "https://api.example.org/v1", Err: underlying}

	if !strings.Contains(err.Error(), "POST") || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %q, want op and cause included", err.Error())
	}
	if !errors.Is(err, underlying) {
		t.Error("TransportError should unwrap to the underlying error")
	}
}

func TestTransportError_RedactsCredential(t *testing.T) {
	err := &TransportError{
		Op:  "GET",
		URL: "wss://host.example/ws?key=secret-credential",
		Err: fmt.Errorf("dial failed"),
	}

	msg := err.Error()
	if strings.Contains(msg, "secret-credential") {
		t.Fatalf("error message leaks the credential: %q", msg)
	}
	if !strings.Contains(msg, "key=REDACTED") {
		t.Fatalf("error message should carry the redacted marker: %q", msg)
	}
}
