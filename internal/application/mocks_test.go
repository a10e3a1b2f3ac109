package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/farbari/farbari-api/internal/domain/entity"
	repo "github.com/farbari/farbari-api/internal/domain/repository"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, nu repo.NewUser) (*entity.User, error) {
	args := m.Called(ctx, nu)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string, activeOnly bool) (*entity.User, error) {
	args := m.Called(ctx, email, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) AddRefreshToken(ctx context.Context, id, token string, capacity int) error {
	args := m.Called(ctx, id, token, capacity)
	return args.Error(0)
}

func (m *MockUserRepository) RotateRefreshToken(ctx context.Context, id, oldToken, newToken string, capacity int) (bool, error) {
	args := m.Called(ctx, id, oldToken, newToken, capacity)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) RemoveRefreshToken(ctx context.Context, id, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshTokens(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) SetVerificationToken(ctx context.Context, id, hash string, expiresAt time.Time) error {
	args := m.Called(ctx, id, hash, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) MarkVerified(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByVerificationHash(ctx context.Context, hash string) (*entity.User, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, id, hash string, expiresAt time.Time) error {
	args := m.Called(ctx, id, hash, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) FindByResetHash(ctx context.Context, hash string) (*entity.User, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) ResetPassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id string, up repo.ProfileUpdate) (*entity.User, error) {
	args := m.Called(ctx, id, up)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPostRepository is a mock implementation of repository.PostRepository.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, p *entity.Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id string) (*entity.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, f entity.PostFilter) ([]*entity.Post, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) Update(ctx context.Context, id string, up repo.PostUpdate, resetApproval bool) (*entity.Post, error) {
	args := m.Called(ctx, id, up, resetApproval)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostRepository) UpdateStatus(ctx context.Context, id string, status entity.PostStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPostRepository) SetApproval(ctx context.Context, id string, approved bool, approvedBy, rejectionReason string) error {
	args := m.Called(ctx, id, approved, approvedBy, rejectionReason)
	return args.Error(0)
}

func (m *MockPostRepository) AddPhoto(ctx context.Context, id, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

func (m *MockPostRepository) ToggleFavorite(ctx context.Context, id, userID string) (bool, int, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockPostRepository) IncrementViews(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) SearchLike(ctx context.Context, query string, limit int) ([]*entity.Post, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

// MockInterestRepository is a mock implementation of repository.InterestRepository.
type MockInterestRepository struct {
	mock.Mock
}

func (m *MockInterestRepository) Create(ctx context.Context, i *entity.Interest) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockInterestRepository) FindByID(ctx context.Context, id string) (*entity.Interest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Interest), args.Error(1)
}

func (m *MockInterestRepository) List(ctx context.Context, f entity.InterestFilter) ([]*entity.Interest, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Interest), args.Get(1).(int64), args.Error(2)
}

func (m *MockInterestRepository) HasLiveInterest(ctx context.Context, postID, applicantID string) (bool, error) {
	args := m.Called(ctx, postID, applicantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInterestRepository) UpdateStatus(ctx context.Context, id string, status entity.InterestStatus, ownerResponse string, entry entity.TimelineEntry) error {
	args := m.Called(ctx, id, status, ownerResponse, entry)
	return args.Error(0)
}

func (m *MockInterestRepository) RejectSiblings(ctx context.Context, postID, keepID string, entry entity.TimelineEntry) ([]*entity.Interest, error) {
	args := m.Called(ctx, postID, keepID, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Interest), args.Error(1)
}

// MockPublisher is a mock implementation of Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(ctx context.Context, body any) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}
