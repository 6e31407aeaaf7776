package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tours-api/internal/domain/entity"
)

func TestUser_ChangedPasswordAfter(t *testing.T) {
	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	u := &entity.User{}
	assert.False(t, u.ChangedPasswordAfter(issued), "sin cambio de contraseña")

	u.ChangePassword("h", issued.Add(900*time.Millisecond))
	assert.False(t, u.ChangedPasswordAfter(issued), "mismo segundo: el token sigue valiendo")

	u.ChangePassword("h", issued.Add(time.Second))
	assert.True(t, u.ChangedPasswordAfter(issued))

	assert.False(t, u.ChangedPasswordAfter(issued.Add(time.Second)))
}

func TestUser_ResetSeFijaYLimpiaJunto(t *testing.T) {
	u := &entity.User{}
	assert.False(t, u.HasPasswordReset())

	exp := time.Now().Add(10 * time.Minute)
	u.SetPasswordReset("hash", exp)
	assert.True(t, u.HasPasswordReset())
	assert.Equal(t, "hash", *u.PasswordResetTokenHash)

	now := time.Now()
	u.ChangePassword("nuevo", now)
	assert.False(t, u.HasPasswordReset(), "cambiar la contraseña consume el reset")
	assert.Nil(t, u.PasswordResetTokenHash)
	assert.Nil(t, u.PasswordResetExpiresAt)
	assert.Equal(t, "nuevo", u.PasswordHash)
	assert.Equal(t, now, u.UpdatedAt)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", entity.NormalizeEmail("  Ana@EXAMPLE.com "))
	assert.Equal(t, "strasse@example.com", entity.NormalizeEmail("STRASSE@example.com"))
}
