package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewAndWrap(t *testing.T) {
	err := New(ErrCodeMissingField, "image %q: width is required", "logo")
	if got, want := err.Error(), `MISSING_FIELD: image "logo": width is required`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("connection reset")
	wrapped := Wrap(ErrCodeNetwork, cause, "fetch %s", "https://example.com/a.png")
	if got, want := wrapped.Error(), "NETWORK_ERROR: fetch https://example.com/a.png: connection reset"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is(wrapped, cause) = false, want true")
	}
}

func TestCodeLookup(t *testing.T) {
	layout := fmt.Errorf("container %q: %w", "row", New(ErrCodeLayoutPending, "bounds queried before layout"))

	tests := []struct {
		name string
		err  error
		code Code
		msg  string
	}{
		{"direct", New(ErrCodeUnknownNode, "unknown node kind %q", "video"), ErrCodeUnknownNode, `unknown node kind "video"`},
		{"through fmt wrap", layout, ErrCodeLayoutPending, "bounds queried before layout"},
		{"outermost code wins", Wrap(ErrCodeImageLoad, New(ErrCodeNotFound, "inner"), "logo.png"), ErrCodeImageLoad, "logo.png"},
		{"plain", errors.New("plain"), "", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(err, %q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeInternal) {
				t.Error("Is(err, INTERNAL_ERROR) = true")
			}
			if got := UserMessage(tt.err); got != tt.msg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.msg)
			}
		})
	}

	if Is(nil, ErrCodeInvalidInput) || GetCode(nil) != "" {
		t.Error("nil error must carry no code")
	}
}

func TestIsConfiguration(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"missing field", New(ErrCodeMissingField, "x"), true},
		{"unknown command", New(ErrCodeUnknownCommand, "x"), true},
		{"wrapped highlight", Wrap(ErrCodeInvalidHighlight, errors.New("inner"), "x"), true},
		{"image load", New(ErrCodeImageLoad, "x"), false},
		{"layout pending", New(ErrCodeLayoutPending, "x"), false},
		{"plain", errors.New("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConfiguration(tt.err); got != tt.want {
				t.Errorf("IsConfiguration() = %v, want %v", got, tt.want)
			}
		})
	}
}
