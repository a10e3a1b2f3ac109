package repository

import (
	"context"
	"time"

	"github.com/farbari/farbari-api/internal/domain/entity"
)

// NewUser carries the fields persisted at registration.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	Phone        string
}

// ProfileUpdate is the explicit field set a profile update may touch.
// Nil pointers leave the column unchanged.
type ProfileUpdate struct {
	Name      *string
	Phone     *string
	Bio       *string
	AvatarURL *string
	Location  *entity.Location
}

// UserRepository is the account store contract the auth core depends on.
//
// All refresh-token mutations must be atomic with respect to concurrent
// updates of the same account record: implementations may not read-modify-
// write the token set. RotateRefreshToken reports found=false when oldToken
// was not present, in the same atomic step that would have swapped it.
type UserRepository interface {
	Create(ctx context.Context, nu NewUser) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string, activeOnly bool) (*entity.User, error)

	AddRefreshToken(ctx context.Context, id, token string, capacity int) error
	RotateRefreshToken(ctx context.Context, id, oldToken, newToken string, capacity int) (found bool, err error)
	RemoveRefreshToken(ctx context.Context, id, token string) error
	ClearRefreshTokens(ctx context.Context, id string) error

	SetVerificationToken(ctx context.Context, id, hash string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, id string) error
	FindByVerificationHash(ctx context.Context, hash string) (*entity.User, error)

	SetResetToken(ctx context.Context, id, hash string, expiresAt time.Time) error
	FindByResetHash(ctx context.Context, hash string) (*entity.User, error)
	// ResetPassword replaces the hash, clears the reset-token fields and the
	// whole refresh-token set in one atomic update.
	ResetPassword(ctx context.Context, id, passwordHash string) error

	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateProfile(ctx context.Context, id string, up ProfileUpdate) (*entity.User, error)
	Deactivate(ctx context.Context, id string) error
}
