package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tours-api/internal/domain"
	"github.com/jhoicas/tours-api/internal/domain/entity"
	"github.com/jhoicas/tours-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, email, name, photo, password_hash, role, active,
	password_changed_at, password_reset_token_hash, password_reset_expires_at, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	if !user.Role.Valid() {
		return domain.ErrInvalidRole
	}
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.Name, user.Photo, user.PasswordHash, string(user.Role), user.Active,
		user.PasswordChangedAt, user.PasswordResetTokenHash, user.PasswordResetExpiresAt,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return translateWriteErr("insert user", err)
	}
	return nil
}

// FindByID obtiene un usuario por ID.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if !validUUID(id) {
		return nil, nil
	}
	return r.findOne(ctx, "get user by id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByEmail obtiene un usuario por email normalizado.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "get user by email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// FindByResetTokenHash obtiene el usuario con ese hash de reset (vigente o no; la expiración la valida el caso de uso).
func (r *UserRepo) FindByResetTokenHash(ctx context.Context, hash string) (*entity.User, error) {
	return r.findOne(ctx, "get user by reset token",
		`SELECT `+userColumns+` FROM users WHERE password_reset_token_hash = $1`, hash)
}

// SetPasswordReset guarda hash y expiración del reset.
func (r *UserRepo) SetPasswordReset(ctx context.Context, id, hash string, expiresAt, at time.Time) error {
	query := `
		UPDATE users SET password_reset_token_hash = $2, password_reset_expires_at = $3, updated_at = $4
		WHERE id = $1`
	return r.execOne(ctx, "set password reset", id, query, id, hash, expiresAt, at)
}

// ClearPasswordReset borra el reset solo si el hash guardado sigue siendo hash.
func (r *UserRepo) ClearPasswordReset(ctx context.Context, id, hash string, at time.Time) error {
	if !validUUID(id) {
		return nil
	}
	query := `
		UPDATE users SET password_reset_token_hash = NULL, password_reset_expires_at = NULL, updated_at = $3
		WHERE id = $1 AND password_reset_token_hash = $2`
	if _, err := r.q.Exec(ctx, query, id, hash, at); err != nil {
		return fmt.Errorf("clear password reset: %w", err)
	}
	return nil
}

// UpdatePassword guarda el nuevo hash, fija password_changed_at y borra el reset.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	query := `
		UPDATE users SET password_hash = $2, password_changed_at = $3,
			password_reset_token_hash = NULL, password_reset_expires_at = NULL, updated_at = $3
		WHERE id = $1`
	return r.execOne(ctx, "update password", id, query, id, passwordHash, changedAt)
}

// Deactivate marca la baja lógica y borra el reset.
func (r *UserRepo) Deactivate(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE users SET active = FALSE,
			password_reset_token_hash = NULL, password_reset_expires_at = NULL, updated_at = $2
		WHERE id = $1`
	return r.execOne(ctx, "deactivate user", id, query, id, at)
}

// execOne ejecuta un UPDATE sobre una fila; 0 filas afectadas = domain.ErrNotFound.
func (r *UserRepo) execOne(ctx context.Context, op, id, query string, args ...any) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return translateWriteErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista usuarios con paginación.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *UserRepo) findOne(ctx context.Context, op, query string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u    entity.User
		role string
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.Photo, &u.PasswordHash, &role, &u.Active,
		&u.PasswordChangedAt, &u.PasswordResetTokenHash, &u.PasswordResetExpiresAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if u.Role, err = entity.ParseRole(role); err != nil {
		return nil, fmt.Errorf("rol almacenado inválido %q: %w", role, err)
	}
	return &u, nil
}

func translateWriteErr(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrEmailAlreadyExists
	case isCheckViolation(err):
		return domain.ErrInvalidInput.Wrap(err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
