package entity

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// DefaultPhoto foto asignada a usuarios nuevos.
const DefaultPhoto = "default.jpg"

// User representa una identidad del sistema.
type User struct {
	ID           string
	Email        string // normalizado (case-folded), único
	Name         string
	Photo        string
	PasswordHash string // bcrypt hash, nunca sale del dominio
	Role         Role
	Active       bool // false = baja lógica

	PasswordChangedAt      *time.Time
	PasswordResetTokenHash *string // SHA-256 hex del secreto de reset
	PasswordResetExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChangedPasswordAfter indica si la contraseña cambió después de issuedAt.
// El iat de un JWT tiene precisión de segundos, así que se compara a esa precisión:
// un token emitido en el mismo segundo del cambio sigue siendo válido.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Before(u.PasswordChangedAt.Truncate(time.Second))
}

// SetPasswordReset guarda hash y expiración juntos.
func (u *User) SetPasswordReset(hash string, expiresAt time.Time) {
	u.PasswordResetTokenHash = &hash
	u.PasswordResetExpiresAt = &expiresAt
}

// ClearPasswordReset elimina hash y expiración juntos.
func (u *User) ClearPasswordReset() {
	u.PasswordResetTokenHash = nil
	u.PasswordResetExpiresAt = nil
}

// HasPasswordReset indica si hay un restablecimiento en curso (expirado o no).
func (u *User) HasPasswordReset() bool {
	return u.PasswordResetTokenHash != nil && u.PasswordResetExpiresAt != nil
}

// ChangePassword reemplaza el hash, limpia cualquier reset pendiente y marca PasswordChangedAt,
// lo que invalida todos los tokens emitidos antes de now.
func (u *User) ChangePassword(hash string, now time.Time) {
	u.PasswordHash = hash
	u.PasswordChangedAt = &now
	u.ClearPasswordReset()
	u.UpdatedAt = now
}

// NormalizeEmail recorta espacios y aplica case folding Unicode al email.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}
