package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tours-api/internal/application/dto"
	"github.com/jhoicas/tours-api/internal/domain"
	"github.com/jhoicas/tours-api/internal/domain/entity"
	"github.com/jhoicas/tours-api/internal/domain/repository"
	"github.com/jhoicas/tours-api/pkg/jwt"
	"github.com/jhoicas/tours-api/pkg/logger"
)

// DefaultEmailTimeout tiempo máximo para entregar el email de restablecimiento.
const DefaultEmailTimeout = 10 * time.Second

// Config parámetros del flujo de autenticación.
type Config struct {
	TokenTTL     time.Duration
	EmailTimeout time.Duration
	Now          func() time.Time // nil = time.Now
}

// Deps colaboradores del caso de uso.
type Deps struct {
	Users     repository.UserRepository
	Hasher    PasswordHasher
	Codec     *jwt.Codec
	Resets    *ResetTokenGenerator
	Mailer    EmailSender
	Limiter   LoginLimiter // nil = sin límite
	Validator *dto.Validator
	Log       *logger.Logger
}

// AuthUseCase casos de uso de autenticación: registro, login y gestión de contraseña.
type AuthUseCase struct {
	users    repository.UserRepository
	hasher   PasswordHasher
	codec    *jwt.Codec
	resets   *ResetTokenGenerator
	mailer   EmailSender
	limiter  LoginLimiter
	validate *dto.Validator
	log      *logger.Logger
	cfg      Config
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(d Deps, cfg Config) *AuthUseCase {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.EmailTimeout <= 0 {
		cfg.EmailTimeout = DefaultEmailTimeout
	}
	if d.Limiter == nil {
		d.Limiter = NoopLimiter{}
	}
	if d.Validator == nil {
		d.Validator = dto.NewValidator()
	}
	return &AuthUseCase{
		users:    d.Users,
		hasher:   d.Hasher,
		codec:    d.Codec,
		resets:   d.Resets,
		mailer:   d.Mailer,
		limiter:  d.Limiter,
		validate: d.Validator,
		log:      d.Log,
		cfg:      cfg,
	}
}

// Signup crea el usuario con el rol por defecto, activo, y devuelve token + usuario.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.AuthResponse, error) {
	in.Email = entity.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := uc.validate.Validate(in); err != nil {
		return nil, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	existing, err := uc.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.cfg.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		Name:         in.Name,
		Photo:        entity.DefaultPhoto,
		PasswordHash: hash,
		Role:         entity.DefaultRole,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.sendWelcome(ctx, user)
	return uc.issue(user)
}

// Signin verifica email/password. No distingue entre email inexistente y contraseña errónea.
func (uc *AuthUseCase) Signin(ctx context.Context, in dto.SigninRequest) (*dto.AuthResponse, error) {
	in.Email = entity.NormalizeEmail(in.Email)
	if err := uc.validate.Validate(in); err != nil {
		return nil, err
	}
	if err := uc.limiter.Check(ctx, in.Email); err != nil {
		return nil, err
	}
	user, err := uc.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !uc.hasher.Verify(in.Password, user.PasswordHash) {
		if err := uc.limiter.RegisterFailure(ctx, in.Email); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, domain.ErrUserInactive
	}
	if err := uc.limiter.Reset(ctx, in.Email); err != nil {
		uc.warn(err, "reset del limitador de login")
	}
	return uc.issue(user)
}

// ForgotPassword genera un secreto de restablecimiento y lo envía por email como enlace
// resetURLBase+secreto. Revela si el email existe (404) por decisión de producto.
// Si el envío falla se revierte el estado de reset.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest, resetURLBase string) error {
	in.Email = entity.NormalizeEmail(in.Email)
	if err := uc.validate.Validate(in); err != nil {
		return err
	}
	user, err := uc.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if user == nil || !user.Active {
		return domain.ErrEmailNotRegistered
	}
	secret, hash, expiresAt, err := uc.resets.Generate()
	if err != nil {
		return err
	}
	if err := uc.users.SetPasswordReset(ctx, user.ID, hash, expiresAt, uc.cfg.Now()); err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, uc.cfg.EmailTimeout)
	defer cancel()
	sendErr := uc.mailer.Send(sendCtx, resetEmail(user, resetURLBase+secret, uc.resets.window))
	if sendErr == nil {
		return nil
	}

	// Rollback: no dejar un reset pendiente que el usuario nunca recibió. Solo borra este reset;
	// lo que haya cambiado mientras tanto (otro reset, un cambio de contraseña) se conserva.
	if err := uc.users.ClearPasswordReset(context.WithoutCancel(ctx), user.ID, hash, uc.cfg.Now()); err != nil {
		uc.warn(err, "rollback del reset de contraseña")
		return domain.ErrEmailDelivery.Wrap(errors.Join(sendErr, err))
	}
	return domain.ErrEmailDelivery.Wrap(sendErr)
}

// ResetPassword consume el secreto, fija la nueva contraseña e invalida los tokens anteriores.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, secret string, in dto.ResetPasswordRequest) (*dto.AuthResponse, error) {
	if err := uc.validate.Validate(in); err != nil {
		return nil, err
	}
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, domain.ErrInvalidResetToken
	}
	user, err := uc.users.FindByResetTokenHash(ctx, HashResetSecret(secret))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active || !user.HasPasswordReset() {
		return nil, domain.ErrInvalidResetToken
	}
	if err := uc.resets.Verify(secret, *user.PasswordResetTokenHash, *user.PasswordResetExpiresAt); err != nil {
		return nil, domain.ErrInvalidResetToken.Wrap(err)
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	return uc.changePassword(ctx, user, in.Password)
}

// UpdatePassword cambia la contraseña de un usuario ya autenticado tras verificar la actual.
func (uc *AuthUseCase) UpdatePassword(ctx context.Context, user *entity.User, in dto.UpdatePasswordRequest) (*dto.AuthResponse, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := uc.validate.Validate(in); err != nil {
		return nil, err
	}
	if !uc.hasher.Verify(in.CurrentPassword, user.PasswordHash) {
		return nil, domain.ErrWrongPassword
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	return uc.changePassword(ctx, user, in.Password)
}

func (uc *AuthUseCase) changePassword(ctx context.Context, user *entity.User, password string) (*dto.AuthResponse, error) {
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	now := uc.cfg.Now()
	if err := uc.users.UpdatePassword(ctx, user.ID, hash, now); err != nil {
		return nil, err
	}
	user.ChangePassword(hash, now)
	return uc.issue(user)
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.AuthResponse, error) {
	token, err := uc.codec.Issue(user.ID, uc.cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("emitir token: %w", err)
	}
	return &dto.AuthResponse{Token: token, User: *ToUserResponse(user)}, nil
}

// sendWelcome es best-effort: un fallo no revierte el registro.
func (uc *AuthUseCase) sendWelcome(ctx context.Context, user *entity.User) {
	sendCtx, cancel := context.WithTimeout(ctx, uc.cfg.EmailTimeout)
	defer cancel()
	msg := EmailMessage{
		To:      user.Email,
		Subject: "Bienvenido a Natours",
		Body:    fmt.Sprintf("Hola %s, tu cuenta fue creada. ¡Nos alegra tenerte con nosotros!", user.Name),
	}
	if err := uc.mailer.Send(sendCtx, msg); err != nil {
		uc.warn(err, "email de bienvenida")
	}
}

func (uc *AuthUseCase) warn(err error, what string) {
	if uc.log == nil {
		return
	}
	uc.log.Warn().Err(err).Msg(what)
}

func resetEmail(user *entity.User, link string, window time.Duration) EmailMessage {
	return EmailMessage{
		To:      user.Email,
		Subject: fmt.Sprintf("Restablecer contraseña (válido por %d minutos)", int(window.Minutes())),
		Body: fmt.Sprintf(
			"Hola %s,\n\n¿Olvidaste tu contraseña? Envía un PATCH con tu nueva contraseña a:\n%s\n\nSi no lo solicitaste, ignora este mensaje.",
			user.Name, link,
		),
	}
}

// ToUserResponse proyecta la entidad sin hash ni estado de reset.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Photo:     u.Photo,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}
