package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"omitempty,email"`
	Rating int    `json:"rating" validate:"min=1,max=5"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(sample{Name: "Asha", Rating: 4}))

	err := Struct(sample{Email: "nope", Rating: 9})
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"name":   "required",
		"email":  "email",
		"rating": "max",
	}, verr.Fields)
	assert.Equal(t, "invalid request: email: email, name: required, rating: max", err.Error())
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"9876543210":      "+919876543210",
		"+91 98765 43210": "+919876543210",
		"09876543210":     "+919876543210",
	}
	for in, want := range cases {
		got, err := NormalizePhone(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, bad := range []string{"", "12345", "98765"} {
		_, err := NormalizePhone(bad)
		assert.ErrorIs(t, err, ErrInvalidPhone, bad)
	}
}
