package application

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/farbari/farbari-api/internal/apperrors"
	"github.com/farbari/farbari-api/internal/domain/entity"
	repo "github.com/farbari/farbari-api/internal/domain/repository"
	"github.com/farbari/farbari-api/pkg/helpers"
)

const strongPassword = "Adopt!Pets123"

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestAuthService(users *MockUserRepository) *AuthService {
	return NewAuthService(
		users,
		helpers.NewPasswordHasher(bcrypt.MinCost),
		helpers.NewJWTManager("test-access-secret", "", 15*time.Minute, 168*time.Hour),
		nil,
		testLogger(),
		AuthConfig{
			VerifyTokenTTL:   24 * time.Hour,
			ResetTokenTTL:    time.Hour,
			VerifyEmailURL:   "http://localhost:3000/verify-email",
			ResetPasswordURL: "http://localhost:3000/reset-password",
		},
	)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name        string
		password    string
		setupMock   func(*MockUserRepository)
		wantErr     error
		wantWeakPwd bool
	}{
		{
			name:     "successful registration",
			password: strongPassword,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "jo@example.com", false).Return(nil, apperrors.ErrNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("repository.NewUser")).Return(&entity.User{
					ID: "u1", Email: "jo@example.com", Name: "Jo", IsActive: true,
				}, nil)
				m.On("AddRefreshToken", mock.Anything, "u1", mock.AnythingOfType("string"), entity.RefreshTokenCapacity).Return(nil)
			},
		},
		{
			name:     "duplicate email",
			password: strongPassword,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "jo@example.com", false).Return(&entity.User{ID: "u1"}, nil)
			},
			wantErr: apperrors.ErrDuplicateEmail,
		},
		{
			name:        "weak password rejected before any store access",
			password:    "short",
			setupMock:   func(m *MockUserRepository) {},
			wantWeakPwd: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setupMock(users)
			svc := newTestAuthService(users)

			res, err := svc.Register(context.Background(), "Jo", "jo@example.com", tt.password, "")

			switch {
			case tt.wantWeakPwd:
				var weak *apperrors.WeakPasswordError
				require.ErrorAs(t, err, &weak)
				assert.NotEmpty(t, weak.Violations)
				assert.Nil(t, res)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
			default:
				require.NoError(t, err)
				assert.Equal(t, "jo@example.com", res.User.Email)
				assert.NotEmpty(t, res.Tokens.AccessToken)
				assert.NotEmpty(t, res.Tokens.RefreshToken)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hasher := helpers.NewPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash(strongPassword)
	require.NoError(t, err)

	account := func() *entity.User {
		return &entity.User{ID: "u1", Email: "jo@example.com", Password: hash, IsActive: true}
	}

	tests := []struct {
		name      string
		password  string
		setupMock func(*MockUserRepository)
		wantErr   error
	}{
		{
			name:     "successful login",
			password: strongPassword,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "jo@example.com", true).Return(account(), nil)
				m.On("UpdateLastLogin", mock.Anything, "u1", mock.AnythingOfType("time.Time")).Return(nil)
				m.On("AddRefreshToken", mock.Anything, "u1", mock.AnythingOfType("string"), entity.RefreshTokenCapacity).Return(nil)
			},
		},
		{
			name:     "wrong password",
			password: "Wrong!Pass123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "jo@example.com", true).Return(account(), nil)
			},
			wantErr: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email yields the same error as wrong password",
			password: strongPassword,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "jo@example.com", true).Return(nil, apperrors.ErrNotFound)
			},
			wantErr: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setupMock(users)
			svc := newTestAuthService(users)

			res, err := svc.Login(context.Background(), "jo@example.com", tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, res.Tokens.RefreshToken)
				assert.Equal(t, "u1", res.User.ID)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)

	pair, err := svc.JWT.IssuePair(helpers.TokenPayload{UserID: "u1", Email: "jo@example.com"})
	require.NoError(t, err)

	users.On("FindByID", mock.Anything, "u1").Return(&entity.User{ID: "u1", Email: "jo@example.com", IsActive: true}, nil)
	users.On("RotateRefreshToken", mock.Anything, "u1", pair.RefreshToken, mock.AnythingOfType("string"), entity.RefreshTokenCapacity).
		Return(true, nil).Once()

	fresh, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, fresh.RefreshToken)

	// Replaying the same token: the atomic swap no longer finds it.
	users.On("RotateRefreshToken", mock.Anything, "u1", pair.RefreshToken, mock.AnythingOfType("string"), entity.RefreshTokenCapacity).
		Return(false, nil).Once()
	_, err = svc.RefreshToken(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)

	users.AssertExpectations(t)
}

func TestAuthService_RefreshToken_Invalid(t *testing.T) {
	t.Run("garbage token", func(t *testing.T) {
		svc := newTestAuthService(new(MockUserRepository))
		_, err := svc.RefreshToken(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("access token is not accepted as refresh token", func(t *testing.T) {
		svc := newTestAuthService(new(MockUserRepository))
		pair, err := svc.JWT.IssuePair(helpers.TokenPayload{UserID: "u1", Email: "jo@example.com"})
		require.NoError(t, err)
		_, err = svc.RefreshToken(context.Background(), pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("deactivated account", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestAuthService(users)
		pair, err := svc.JWT.IssuePair(helpers.TokenPayload{UserID: "u1", Email: "jo@example.com"})
		require.NoError(t, err)
		users.On("FindByID", mock.Anything, "u1").Return(&entity.User{ID: "u1", IsActive: false}, nil)
		_, err = svc.RefreshToken(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
		users.AssertExpectations(t)
	})

	t.Run("unknown account", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestAuthService(users)
		pair, err := svc.JWT.IssuePair(helpers.TokenPayload{UserID: "u1", Email: "jo@example.com"})
		require.NoError(t, err)
		users.On("FindByID", mock.Anything, "u1").Return(nil, apperrors.ErrNotFound)
		_, err = svc.RefreshToken(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
		users.AssertExpectations(t)
	})

	t.Run("store failure is not a credential error", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestAuthService(users)
		pair, err := svc.JWT.IssuePair(helpers.TokenPayload{UserID: "u1", Email: "jo@example.com"})
		require.NoError(t, err)
		boom := errors.New("connection refused")
		users.On("FindByID", mock.Anything, "u1").Return(nil, boom)
		_, err = svc.RefreshToken(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
		users.AssertExpectations(t)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("valid token is removed", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestAuthService(users)
		pair, err := svc.JWT.IssuePair(helpers.TokenPayload{UserID: "u1", Email: "jo@example.com"})
		require.NoError(t, err)

		users.On("RemoveRefreshToken", mock.Anything, "u1", pair.RefreshToken).Return(nil)
		svc.Logout(context.Background(), pair.RefreshToken)
		users.AssertExpectations(t)
	})

	t.Run("bogus token touches nothing", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestAuthService(users)
		svc.Logout(context.Background(), "bogus")
		users.AssertNotCalled(t, "RemoveRefreshToken", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_LogoutAll(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)
	users.On("ClearRefreshTokens", mock.Anything, "u1").Return(nil)
	assert.NoError(t, svc.LogoutAll(context.Background(), "u1"))
	users.AssertExpectations(t)
}

func TestAuthService_GenerateEmailVerificationToken(t *testing.T) {
	t.Run("stores the digest, returns the plaintext", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestAuthService(users)

		var storedHash string
		users.On("FindByID", mock.Anything, "u1").Return(&entity.User{ID: "u1", Email: "jo@example.com"}, nil)
		users.On("SetVerificationToken", mock.Anything, "u1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Run(func(args mock.Arguments) { storedHash = args.String(2) }).
			Return(nil)

		plain, err := svc.GenerateEmailVerificationToken(context.Background(), "u1")
		require.NoError(t, err)
		assert.NotEmpty(t, plain)
		assert.NotEqual(t, plain, storedHash)
		assert.Equal(t, helpers.HashSecretToken(plain), storedHash)
		users.AssertExpectations(t)
	})

	t.Run("already verified", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestAuthService(users)
		users.On("FindByID", mock.Anything, "u1").Return(&entity.User{ID: "u1", IsVerified: true}, nil)
		_, err := svc.GenerateEmailVerificationToken(context.Background(), "u1")
		assert.ErrorIs(t, err, apperrors.ErrAlreadyVerified)
	})
}

func TestAuthService_VerifyEmail(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*MockUserRepository, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupMock: func(m *MockUserRepository, hash string) {
				m.On("FindByVerificationHash", mock.Anything, hash).Return(&entity.User{
					ID: "u1", EmailVerificationExpires: time.Now().Add(time.Hour),
				}, nil)
				m.On("MarkVerified", mock.Anything, "u1").Return(nil)
			},
		},
		{
			name: "expired token",
			setupMock: func(m *MockUserRepository, hash string) {
				m.On("FindByVerificationHash", mock.Anything, hash).Return(&entity.User{
					ID: "u1", EmailVerificationExpires: time.Now().Add(-time.Minute),
				}, nil)
			},
			wantErr: apperrors.ErrInvalidOrExpiredToken,
		},
		{
			name: "unknown token",
			setupMock: func(m *MockUserRepository, hash string) {
				m.On("FindByVerificationHash", mock.Anything, hash).Return(nil, apperrors.ErrNotFound)
			},
			wantErr: apperrors.ErrInvalidOrExpiredToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setupMock(users, helpers.HashSecretToken("plain-token"))
			svc := newTestAuthService(users)

			err := svc.VerifyEmail(context.Background(), "plain-token")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_GeneratePasswordResetToken_UnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)
	users.On("FindByEmail", mock.Anything, "ghost@example.com", true).Return(nil, apperrors.ErrNotFound)

	_, err := svc.GeneratePasswordResetToken(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAuthService_ResetPassword(t *testing.T) {
	hash := helpers.HashSecretToken("reset-token")

	t.Run("valid token replaces the hash and revokes sessions", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestAuthService(users)

		users.On("FindByResetHash", mock.Anything, hash).Return(&entity.User{
			ID: "u1", PasswordResetExpires: time.Now().Add(30 * time.Minute),
		}, nil)
		users.On("ResetPassword", mock.Anything, "u1", mock.AnythingOfType("string")).Return(nil)

		err := svc.ResetPassword(context.Background(), "reset-token", strongPassword)
		assert.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("expired token", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestAuthService(users)
		users.On("FindByResetHash", mock.Anything, hash).Return(&entity.User{
			ID: "u1", PasswordResetExpires: time.Now().Add(-time.Minute),
		}, nil)

		err := svc.ResetPassword(context.Background(), "reset-token", strongPassword)
		assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)
	})

	t.Run("weak replacement password", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestAuthService(users)
		users.On("FindByResetHash", mock.Anything, hash).Return(&entity.User{
			ID: "u1", PasswordResetExpires: time.Now().Add(30 * time.Minute),
		}, nil)

		err := svc.ResetPassword(context.Background(), "reset-token", "weak")
		var weak *apperrors.WeakPasswordError
		assert.ErrorAs(t, err, &weak)
		users.AssertNotCalled(t, "ResetPassword", mock.Anything, mock.Anything, mock.Anything)
	})
}

var _ repo.UserRepository = (*MockUserRepository)(nil)
