package application

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/farbari/farbari-api/internal/domain/entity"
	repo "github.com/farbari/farbari-api/internal/domain/repository"
	"github.com/farbari/farbari-api/pkg/helpers"
)

// UserService covers profile reads and self-service account management.
type UserService struct {
	Users  repo.UserRepository
	GCS    *storage.Client
	Bucket string
	Logger *logrus.Logger
}

func NewUserService(users repo.UserRepository, gcs *storage.Client, bucket string, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, GCS: gcs, Bucket: bucket, Logger: logger}
}

func (s *UserService) Profile(ctx context.Context, userID string) (entity.SafeUser, error) {
	u, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return entity.SafeUser{}, err
	}
	return u.Safe(), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, up repo.ProfileUpdate) (entity.SafeUser, error) {
	u, err := s.Users.UpdateProfile(ctx, userID, up)
	if err != nil {
		return entity.SafeUser{}, err
	}
	return u.Safe(), nil
}

// UploadAvatar stores the image under avatars/<userID>/ and points the
// profile at the public URL.
func (s *UserService) UploadAvatar(ctx context.Context, userID, filename, contentType string, r io.Reader) (entity.SafeUser, error) {
	if s.GCS == nil {
		return entity.SafeUser{}, fmt.Errorf("object storage not configured")
	}
	object := fmt.Sprintf("avatars/%s/%d-%s%s", userID, time.Now().UnixMilli(), uuid.NewString()[:8], path.Ext(filename))
	url, err := helpers.UploadObject(ctx, s.GCS, s.Bucket, object, contentType, r)
	if err != nil {
		return entity.SafeUser{}, err
	}
	return s.UpdateProfile(ctx, userID, repo.ProfileUpdate{AvatarURL: &url})
}

// Deactivate soft-deletes the account and revokes every session.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	if err := s.Users.Deactivate(ctx, userID); err != nil {
		return err
	}
	s.Logger.WithField("user_id", userID).Info("account deactivated")
	return nil
}
