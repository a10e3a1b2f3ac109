package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/farbari/farbari-api/internal/apperrors"
	"github.com/farbari/farbari-api/internal/domain/entity"
	repo "github.com/farbari/farbari-api/internal/domain/repository"
	"github.com/farbari/farbari-api/pkg/helpers"
	"github.com/farbari/farbari-api/pkg/mailer"
)

// AuthConfig is the explicit configuration the auth service needs; no
// environment reads happen inside business logic.
type AuthConfig struct {
	VerifyTokenTTL   time.Duration
	ResetTokenTTL    time.Duration
	VerifyEmailURL   string
	ResetPasswordURL string
	MailEnabled      bool
}

// AuthService orchestrates registration, login, token rotation, logout,
// email verification and password reset.
type AuthService struct {
	Users  repo.UserRepository
	Hasher *helpers.PasswordHasher
	JWT    *helpers.JWTManager
	Pub    Publisher
	Logger *logrus.Logger
	Cfg    AuthConfig
}

// Publisher enqueues email jobs; delivery is best-effort and asynchronous.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

func NewAuthService(users repo.UserRepository, hasher *helpers.PasswordHasher, jwt *helpers.JWTManager, pub Publisher, logger *logrus.Logger, cfg AuthConfig) *AuthService {
	return &AuthService{Users: users, Hasher: hasher, JWT: jwt, Pub: pub, Logger: logger, Cfg: cfg}
}

// AuthResult is the outcome of register/login: the safe user projection plus
// a fresh token pair.
type AuthResult struct {
	User   entity.SafeUser   `json:"user"`
	Tokens helpers.TokenPair `json:"tokens"`
}

// Register creates an account and logs the user in immediately; email
// verification is advisory and never gates access.
func (s *AuthService) Register(ctx context.Context, name, email, password, phone string) (*AuthResult, error) {
	if res := s.Hasher.AssessStrength(password); !res.Valid {
		return nil, apperrors.NewWeakPassword(res.Violations)
	}

	if _, err := s.Users.FindByEmail(ctx, email, false); err == nil {
		return nil, apperrors.ErrDuplicateEmail
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u, err := s.Users.Create(ctx, repo.NewUser{Name: name, Email: email, PasswordHash: hash, Phone: phone})
	if err != nil {
		return nil, err
	}

	pair, err := s.issueAndRecord(ctx, u)
	if err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user registered")
	return &AuthResult{User: u.Safe(), Tokens: pair}, nil
}

// Login authenticates against active accounts only. Unknown email and wrong
// password produce the same error so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Users.FindByEmail(ctx, email, true)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.Hasher.Verify(password, u.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.Users.UpdateLastLogin(ctx, u.ID, time.Now()); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("update last login failed")
	}

	pair, err := s.issueAndRecord(ctx, u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u.Safe(), Tokens: pair}, nil
}

// RefreshToken rotates a refresh token: the presented token must verify,
// belong to an active account, and still be in that account's token set.
// The swap is a single atomic store update, so a concurrent rotation of the
// same token can succeed at most once.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (helpers.TokenPair, error) {
	payload, err := s.JWT.VerifyRefresh(refreshToken)
	if err != nil {
		return helpers.TokenPair{}, apperrors.ErrInvalidRefreshToken
	}

	u, err := s.Users.FindByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return helpers.TokenPair{}, apperrors.ErrInvalidRefreshToken
		}
		return helpers.TokenPair{}, err
	}
	if !u.IsActive {
		return helpers.TokenPair{}, apperrors.ErrInvalidRefreshToken
	}

	pair, err := s.JWT.IssuePair(helpers.TokenPayload{UserID: u.ID, Email: u.Email})
	if err != nil {
		return helpers.TokenPair{}, err
	}

	found, err := s.Users.RotateRefreshToken(ctx, u.ID, refreshToken, pair.RefreshToken, entity.RefreshTokenCapacity)
	if err != nil {
		return helpers.TokenPair{}, err
	}
	if !found {
		// Replay of a token already rotated or revoked.
		s.Logger.WithField("user_id", u.ID).Warn("refresh token replay detected")
		return helpers.TokenPair{}, apperrors.ErrInvalidRefreshToken
	}
	return pair, nil
}

// Logout removes the refresh token from its owner when resolvable. It is
// idempotent and always succeeds so callers cannot probe token validity.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	payload, err := s.JWT.VerifyRefresh(refreshToken)
	if err != nil {
		return
	}
	if err := s.Users.RemoveRefreshToken(ctx, payload.UserID, refreshToken); err != nil {
		s.Logger.WithError(err).WithField("user_id", payload.UserID).Warn("logout token removal failed")
	}
}

// LogoutAll clears the whole refresh-token set, invalidating every session.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	return s.Users.ClearRefreshTokens(ctx, userID)
}

// GenerateEmailVerificationToken stores a hashed one-time token on the
// account and emails the plaintext link. Returns the plaintext token.
func (s *AuthService) GenerateEmailVerificationToken(ctx context.Context, userID string) (string, error) {
	u, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u.IsVerified {
		return "", apperrors.ErrAlreadyVerified
	}

	tok, err := helpers.GenerateSecretToken(s.Cfg.VerifyTokenTTL)
	if err != nil {
		return "", err
	}
	if err := s.Users.SetVerificationToken(ctx, u.ID, tok.Hashed, tok.ExpiresAt); err != nil {
		return "", err
	}

	s.enqueueEmail(ctx, u.Email, mailer.TemplateVerifyEmail, map[string]any{
		"Name":      u.Name,
		"VerifyURL": s.Cfg.VerifyEmailURL + "?token=" + tok.Plain,
		"ExpiresIn": s.Cfg.VerifyTokenTTL.String(),
	})
	return tok.Plain, nil
}

// VerifyEmail consumes a verification token: the verified flag flips and the
// token fields clear in the same store update.
func (s *AuthService) VerifyEmail(ctx context.Context, plainToken string) error {
	u, err := s.Users.FindByVerificationHash(ctx, helpers.HashSecretToken(plainToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrInvalidOrExpiredToken
		}
		return err
	}
	if !u.EmailVerificationExpires.After(time.Now()) {
		return apperrors.ErrInvalidOrExpiredToken
	}
	return s.Users.MarkVerified(ctx, u.ID)
}

// GeneratePasswordResetToken stores a hashed reset token for an active
// account and emails the plaintext link. Unknown emails surface NotFound.
func (s *AuthService) GeneratePasswordResetToken(ctx context.Context, email string) (string, error) {
	u, err := s.Users.FindByEmail(ctx, email, true)
	if err != nil {
		return "", err
	}

	tok, err := helpers.GenerateSecretToken(s.Cfg.ResetTokenTTL)
	if err != nil {
		return "", err
	}
	if err := s.Users.SetResetToken(ctx, u.ID, tok.Hashed, tok.ExpiresAt); err != nil {
		return "", err
	}

	s.enqueueEmail(ctx, u.Email, mailer.TemplateResetPassword, map[string]any{
		"Name":      u.Name,
		"ResetURL":  s.Cfg.ResetPasswordURL + "?token=" + tok.Plain,
		"ExpiresIn": s.Cfg.ResetTokenTTL.String(),
	})
	return tok.Plain, nil
}

// ResetPassword consumes a reset token, replaces the password hash, and
// clears every outstanding refresh token so all devices must log in again.
func (s *AuthService) ResetPassword(ctx context.Context, plainToken, newPassword string) error {
	u, err := s.Users.FindByResetHash(ctx, helpers.HashSecretToken(plainToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrInvalidOrExpiredToken
		}
		return err
	}
	if !u.PasswordResetExpires.After(time.Now()) {
		return apperrors.ErrInvalidOrExpiredToken
	}

	if res := s.Hasher.AssessStrength(newPassword); !res.Valid {
		return apperrors.NewWeakPassword(res.Violations)
	}
	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.ResetPassword(ctx, u.ID, hash); err != nil {
		return err
	}
	s.Logger.WithField("user_id", u.ID).Info("password reset, all sessions revoked")
	return nil
}

func (s *AuthService) issueAndRecord(ctx context.Context, u *entity.User) (helpers.TokenPair, error) {
	pair, err := s.JWT.IssuePair(helpers.TokenPayload{UserID: u.ID, Email: u.Email})
	if err != nil {
		return helpers.TokenPair{}, err
	}
	if err := s.Users.AddRefreshToken(ctx, u.ID, pair.RefreshToken, entity.RefreshTokenCapacity); err != nil {
		return helpers.TokenPair{}, err
	}
	return pair, nil
}

func (s *AuthService) enqueueEmail(ctx context.Context, to, template string, data map[string]any) {
	if s.Pub == nil || !s.Cfg.MailEnabled {
		return
	}
	job := mailer.EmailJob{To: to, Template: template, Data: data}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("template", template).Warn("email enqueue failed")
	}
}
