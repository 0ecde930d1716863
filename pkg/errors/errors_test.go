package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

var errNoPosition = errors.New("station has no projected position")

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			"new",
			New(ErrCodeInvalidInput, "day %d out of range", 9),
			"INVALID_INPUT: day 9 out of range",
		},
		{
			"wrap",
			Wrap(ErrCodeInvalidNetwork, errNoPosition, "join %s", "spider.json"),
			"INVALID_NETWORK: join spider.json: station has no projected position",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeInvalidNetwork, errNoPosition, "join spider layout")
	if !errors.Is(err, errNoPosition) {
		t.Error("errors.Is lost the cause")
	}
	if errors.Unwrap(err) != errNoPosition {
		t.Error("Unwrap did not return the cause")
	}
}

func TestCodeLookup(t *testing.T) {
	noData := New(ErrCodeNoData, "no samples for day 3")
	tests := []struct {
		name  string
		err   error
		code  Code
		msg   string
		match Code
	}{
		{"coded", noData, ErrCodeNoData, "no samples for day 3", ErrCodeNoData},
		{"wrapped by fmt", fmt.Errorf("frame: %w", noData), ErrCodeNoData, "no samples for day 3", ErrCodeNoData},
		{
			"outermost code wins",
			Wrap(ErrCodeInternal, noData, "render"),
			ErrCodeInternal, "render", ErrCodeInternal,
		},
		{"uncoded", errNoPosition, "", errNoPosition.Error(), ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode = %q, want %q", got, tt.code)
			}
			if got := UserMessage(tt.err); got != tt.msg {
				t.Errorf("UserMessage = %q, want %q", got, tt.msg)
			}
			if got, want := Is(tt.err, tt.match), tt.code == tt.match; got != want {
				t.Errorf("Is(%q) = %v, want %v", tt.match, got, want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidInput, "bad time"), http.StatusBadRequest},
		{New(ErrCodeInvalidFormat, "bmp"), http.StatusBadRequest},
		{New(ErrCodeInvalidPath, "../x"), http.StatusBadRequest},
		{New(ErrCodeSessionNotFound, "abc"), http.StatusNotFound},
		{New(ErrCodeNoData, "day 3"), http.StatusNotFound},
		{New(ErrCodeNotFound, "no segment"), http.StatusNotFound},
		{New(ErrCodeStaleProjection, "gen 1"), http.StatusConflict},
		{New(ErrCodeInvalidNetwork, "index 9"), http.StatusUnprocessableEntity},
		{New(ErrCodeUnsupported, "pdf"), http.StatusNotImplemented},
		{New(ErrCodeInvalidConfig, "scale"), http.StatusInternalServerError},
		{errNoPosition, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
