package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Username string `validate:"required,max=64"`
	Email    string `validate:"required,email"`
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name string
		form signupForm
		want string
	}{
		{
			name: "missing field",
			form: signupForm{Username: "ana"},
			want: MsgFieldsRequired,
		},
		{
			name: "invalid email",
			form: signupForm{Username: "ana", Email: "not-an-email"},
			want: "field Email must be a valid email",
		},
	}

	v := validator.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.form)
			require.Error(t, err)
			got := ValidationError(err.(validator.ValidationErrors))
			assert.Equal(t, tt.want, got.Message)
		})
	}
}

func TestJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	JSONError(rec, req, http.StatusBadGateway, MsgUpstreamError)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"message":"TMDB API Error"}`, rec.Body.String())
}
