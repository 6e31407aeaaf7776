package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tours-api/internal/application/dto"
	"github.com/jhoicas/tours-api/internal/domain"
)

func TestValidator_UsaNombresJSON(t *testing.T) {
	v := dto.NewValidator()
	err := v.Validate(dto.SignupRequest{Email: "no-es-email", Password: "x", PasswordConfirm: "y"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	msg := err.Error()
	assert.Contains(t, msg, "name es requerido")
	assert.Contains(t, msg, "email debe ser un email válido")
	assert.Contains(t, msg, "passwordConfirm no coincide con password")
}

func TestValidator_ConfirmacionOpcional(t *testing.T) {
	v := dto.NewValidator()
	assert.NoError(t, v.Validate(dto.ResetPasswordRequest{Password: "pass1234"}))
	assert.NoError(t, v.Validate(dto.ResetPasswordRequest{Password: "pass1234", PasswordConfirm: "pass1234"}))
	err := v.Validate(dto.ResetPasswordRequest{Password: "pass1234", PasswordConfirm: "otra"})
	assert.ErrorIs(t, err, domain.ErrPasswordMismatch)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestPageRequest_DefaultPage(t *testing.T) {
	p := dto.PageRequest{Limit: 0, Offset: -5}
	p.DefaultPage()
	assert.Equal(t, dto.PageRequest{Limit: 20, Offset: 0}, p)

	p = dto.PageRequest{Limit: 500, Offset: 10}
	p.DefaultPage()
	assert.Equal(t, dto.PageRequest{Limit: 100, Offset: 10}, p)
}
