package domain

import "errors"

// Kind clasifica un error de dominio; la capa HTTP lo traduce a un status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindRateLimited
	KindDependency
)

// Error es un error de dominio con código estable y mensaje seguro para el cliente.
// Err guarda la causa interna; nunca se expone en producción.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is compara por código, así un error envuelto con Wrap sigue siendo el mismo sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Kind == t.Kind
}

// Wrap devuelve una copia del sentinel con la causa adjunta.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: cause}
}

// WithMessage devuelve una copia del sentinel con otro mensaje (mismo código).
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: msg, Err: e.Err}
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// KindOf devuelve el Kind de err, o KindInternal si no es un *Error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = newError(KindNotFound, "NOT_FOUND", "recurso no encontrado")
	ErrInvalidInput       = newError(KindValidation, "VALIDATION", "entrada inválida")
	ErrDuplicate          = newError(KindConflict, "DUPLICATE", "recurso duplicado")
	ErrEmailAlreadyExists = newError(KindConflict, "EMAIL_EXISTS", "el email ya está registrado")
	ErrUnauthorized       = newError(KindAuthentication, "UNAUTHORIZED", "no autorizado")
	ErrForbidden          = newError(KindAuthorization, "FORBIDDEN", "no tiene permiso para realizar esta acción")
	ErrRateLimited        = newError(KindRateLimited, "RATE_LIMITED", "demasiadas peticiones desde esta IP, intente más tarde")
)

// Errores de autenticación.
var (
	ErrMissingToken       = newError(KindAuthentication, "MISSING_TOKEN", "no ha iniciado sesión, inicie sesión para continuar")
	ErrInvalidToken       = newError(KindAuthentication, "INVALID_TOKEN", "token inválido")
	ErrTokenExpired       = newError(KindAuthentication, "TOKEN_EXPIRED", "token expirado, inicie sesión nuevamente")
	ErrUserNotFound       = newError(KindAuthentication, "USER_NOT_FOUND", "el usuario del token ya no existe")
	ErrPasswordChanged    = newError(KindAuthentication, "PASSWORD_CHANGED", "la contraseña cambió recientemente, inicie sesión nuevamente")
	ErrInvalidCredentials = newError(KindAuthentication, "INVALID_CREDENTIALS", "email o contraseña incorrectos")
	ErrWrongPassword      = newError(KindAuthentication, "WRONG_PASSWORD", "la contraseña actual es incorrecta")
	ErrUserInactive       = newError(KindAuthorization, "USER_INACTIVE", "la cuenta está inactiva")
	ErrTooManyAttempts    = newError(KindRateLimited, "TOO_MANY_ATTEMPTS", "demasiados intentos fallidos, intente más tarde")
)

// Errores del flujo de restablecimiento de contraseña.
var (
	ErrEmailNotRegistered = newError(KindNotFound, "USER_NOT_FOUND", "no existe un usuario con ese email")
	ErrInvalidResetToken  = newError(KindValidation, "INVALID_RESET_TOKEN", "el token es inválido o ha expirado")
	ErrEmailDelivery      = newError(KindDependency, "EMAIL_FAILED", "no se pudo enviar el email, intente más tarde")
	ErrWeakPassword       = newError(KindValidation, "WEAK_PASSWORD", "la contraseña debe tener entre 8 y 72 caracteres e incluir letras y números")
	ErrPasswordMismatch   = newError(KindValidation, "PASSWORD_MISMATCH", "las contraseñas no coinciden")
	ErrInvalidRole        = newError(KindValidation, "INVALID_ROLE", "rol inválido: user, guide, lead-guide o admin")
)
