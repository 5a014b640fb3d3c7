package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidation("bad manifest", nil), http.StatusBadRequest},
		{"plugin validation", NewPluginValidation("bad manifest", nil), http.StatusBadRequest},
		{"security", NewSecurity("unsafe content", nil), http.StatusForbidden},
		{"permission denied", NewPermissionDenied(""), http.StatusForbidden},
		{"not found", NewNotFound(""), http.StatusNotFound},
		{"conflict", NewConflict("version exists"), http.StatusConflict},
		{"unavailable", NewUnavailable("database not configured"), http.StatusServiceUnavailable},
		{"internal", NewInternal("", nil), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("context: %w", NewNotFound("")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewPluginValidation("manifest rejected", cause)

	assert.Equal(t, "manifest rejected: root cause", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestToBody(t *testing.T) {
	body := ToBody(NewConflict("version exists"))
	assert.Equal(t, Body{Error: "version exists", Code: CodeConflict}, body)

	body = ToBody(errors.New("database exploded"))
	assert.Equal(t, Body{Error: "Unexpected error", Code: "app.unexpected"}, body)
}

func TestDefaultMessages(t *testing.T) {
	assert.Equal(t, "Permission denied", NewPermissionDenied("").Error())
	assert.Equal(t, "Resource not found", NewNotFound("").Error())
	assert.Equal(t, "Internal server error", NewInternal("", nil).Error())
	assert.Equal(t, "Service unavailable", NewUnavailable("").Error())
}
