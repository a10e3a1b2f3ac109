package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farbari/farbari-api/internal/apperrors"
	"github.com/farbari/farbari-api/internal/domain/entity"
	"github.com/farbari/farbari-api/internal/domain/repository"
)

const userColumns = `
	id, email, password_hash, name, phone, avatar_url, bio,
	location_city, location_state, location_country, role,
	is_verified, is_active,
	email_verification_token, email_verification_expires,
	password_reset_token, password_reset_expires,
	refresh_tokens, last_login_at, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var verifyExp, resetExp, lastLogin *time.Time
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.Name, &u.Phone, &u.AvatarURL, &u.Bio,
		&u.Location.City, &u.Location.State, &u.Location.Country, &u.Role,
		&u.IsVerified, &u.IsActive,
		&u.EmailVerificationToken, &verifyExp,
		&u.PasswordResetToken, &resetExp,
		&u.RefreshTokens, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if verifyExp != nil {
		u.EmailVerificationExpires = *verifyExp
	}
	if resetExp != nil {
		u.PasswordResetExpires = *resetExp
	}
	if lastLogin != nil {
		u.LastLoginAt = *lastLogin
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, nu repository.NewUser) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, phone)
		VALUES (lower($1), $2, $3, $4)
		RETURNING `+userColumns,
		nu.Email, nu.PasswordHash, nu.Name, nu.Phone)
	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation on the email index
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string, activeOnly bool) (*entity.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = lower($1)`
	if activeOnly {
		q += ` AND is_active`
	}
	row := r.pool.QueryRow(ctx, q, strings.TrimSpace(email))
	return scanUser(row)
}

// AddRefreshToken appends the token and clamps the set to the newest
// `capacity` entries in a single statement, so concurrent logins cannot
// observe an oversized set.
func (r *UserRepository) AddRefreshToken(ctx context.Context, id, token string, capacity int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET refresh_tokens = (array_append(refresh_tokens, $2))
			[greatest(1, cardinality(refresh_tokens) + 2 - $3):cardinality(refresh_tokens) + 1],
		    updated_at = now()
		WHERE id = $1
	`, id, token, capacity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RotateRefreshToken swaps oldToken for newToken in one conditional update.
// found=false means oldToken was not in the set (revoked or replayed).
func (r *UserRepository) RotateRefreshToken(ctx context.Context, id, oldToken, newToken string, capacity int) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET refresh_tokens = (array_append(array_remove(refresh_tokens, $2), $3))
			[greatest(1, cardinality(refresh_tokens) + 1 - $4):cardinality(refresh_tokens)],
		    updated_at = now()
		WHERE id = $1 AND $2 = ANY(refresh_tokens)
	`, id, oldToken, newToken, capacity)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepository) RemoveRefreshToken(ctx context.Context, id, token string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET refresh_tokens = array_remove(refresh_tokens, $2), updated_at = now()
		WHERE id = $1
	`, id, token)
	return err
}

func (r *UserRepository) ClearRefreshTokens(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET refresh_tokens = '{}', updated_at = now() WHERE id = $1
	`, id)
	return err
}

func (r *UserRepository) SetVerificationToken(ctx context.Context, id, hash string, expiresAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email_verification_token = $2, email_verification_expires = $3, updated_at = now()
		WHERE id = $1
	`, id, hash, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkVerified flips the verified flag and consumes the token fields in the
// same statement.
func (r *UserRepository) MarkVerified(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET is_verified = true,
		    email_verification_token = '',
		    email_verification_expires = NULL,
		    updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) FindByVerificationHash(ctx context.Context, hash string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE email_verification_token = $1 AND email_verification_token <> ''
	`, hash)
	return scanUser(row)
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, hash string, expiresAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_reset_token = $2, password_reset_expires = $3, updated_at = now()
		WHERE id = $1
	`, id, hash, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) FindByResetHash(ctx context.Context, hash string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE password_reset_token = $1 AND password_reset_token <> ''
	`, hash)
	return scanUser(row)
}

// ResetPassword replaces the hash, consumes the reset token, and revokes
// every outstanding session in one atomic update.
func (r *UserRepository) ResetPassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $2,
		    password_reset_token = '',
		    password_reset_expires = NULL,
		    refresh_tokens = '{}',
		    updated_at = now()
		WHERE id = $1
	`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET last_login_at = $2 WHERE id = $1
	`, id, at)
	return err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, up repository.ProfileUpdate) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name             = COALESCE($2, name),
		    phone            = COALESCE($3, phone),
		    bio              = COALESCE($4, bio),
		    avatar_url       = COALESCE($5, avatar_url),
		    location_city    = COALESCE($6, location_city),
		    location_state   = COALESCE($7, location_state),
		    location_country = COALESCE($8, location_country),
		    updated_at       = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, up.Name, up.Phone, up.Bio, up.AvatarURL,
		locField(up.Location, func(l entity.Location) string { return l.City }),
		locField(up.Location, func(l entity.Location) string { return l.State }),
		locField(up.Location, func(l entity.Location) string { return l.Country }),
	)
	return scanUser(row)
}

func locField(l *entity.Location, pick func(entity.Location) string) *string {
	if l == nil {
		return nil
	}
	v := pick(*l)
	return &v
}

func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET is_active = false, refresh_tokens = '{}', updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
