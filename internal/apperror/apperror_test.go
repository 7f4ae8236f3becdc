package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", NewValidation("bad %s", "email"), http.StatusBadRequest},
		{"unauthorized", &UnauthorizedError{}, http.StatusUnauthorized},
		{"not found", &NotFoundError{Resource: "lead", ID: "1"}, http.StatusNotFound},
		{"conflict", &ConflictError{Message: "dup"}, http.StatusConflict},
		{"unavailable", &UnavailableError{Message: "off"}, http.StatusServiceUnavailable},
		{"persistence", Persistence("insert lead", errors.New("boom")), http.StatusInternalServerError},
		{"wrapped conflict", fmt.Errorf("create: %w", &ConflictError{Message: "dup"}), http.StatusConflict},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestPersistence_KeepsTypedErrors(t *testing.T) {
	nf := &NotFoundError{Resource: "lead", ID: "x"}
	assert.Same(t, nf, Persistence("update lead", nf))
	assert.Nil(t, Persistence("noop", nil))

	cause := errors.New("socket closed")
	err := Persistence("find leads", cause)
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "find leads: socket closed")
}

type signup struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

func TestFromValidator(t *testing.T) {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.Split(f.Tag.Get("json"), ",")[0]
	})

	err := FromValidator(v.Struct(signup{Email: "nope"}))

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "must be a valid email address", ve.Fields["email"])
	assert.Equal(t, "is required", ve.Fields["name"])
	assert.Equal(t, "invalid fields: email, name", ve.Message)
}

func TestFromValidator_NonValidatorError(t *testing.T) {
	err := FromValidator(errors.New("decode failed"))
	assert.EqualError(t, err, "decode failed")
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}
