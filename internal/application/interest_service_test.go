package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/farbari/farbari-api/internal/apperrors"
	"github.com/farbari/farbari-api/internal/domain/entity"
	repo "github.com/farbari/farbari-api/internal/domain/repository"
)

func newTestInterestService(interests *MockInterestRepository, posts *MockPostRepository, users *MockUserRepository) *InterestService {
	return NewInterestService(interests, posts, users, nil, testLogger(), false)
}

func visiblePost(owner string) *entity.Post {
	return &entity.Post{
		ID:         "p1",
		OwnerID:    owner,
		Title:      "Friendly beagle",
		Pet:        entity.Pet{Name: "Biscuit"},
		Status:     entity.PostActive,
		IsApproved: true,
	}
}

func TestInterestService_Apply(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*MockInterestRepository, *MockPostRepository)
		wantErr   error
	}{
		{
			name: "successful application",
			setupMock: func(mi *MockInterestRepository, mp *MockPostRepository) {
				mp.On("FindByID", mock.Anything, "p1").Return(visiblePost("owner"), nil)
				mi.On("HasLiveInterest", mock.Anything, "p1", "applicant").Return(false, nil)
				mi.On("Create", mock.Anything, mock.AnythingOfType("*entity.Interest")).Return(nil)
			},
		},
		{
			name: "unapproved post is unavailable",
			setupMock: func(mi *MockInterestRepository, mp *MockPostRepository) {
				p := visiblePost("owner")
				p.IsApproved = false
				mp.On("FindByID", mock.Anything, "p1").Return(p, nil)
			},
			wantErr: apperrors.ErrPostUnavailable,
		},
		{
			name: "adopted post is unavailable",
			setupMock: func(mi *MockInterestRepository, mp *MockPostRepository) {
				p := visiblePost("owner")
				p.Status = entity.PostAdopted
				mp.On("FindByID", mock.Anything, "p1").Return(p, nil)
			},
			wantErr: apperrors.ErrPostUnavailable,
		},
		{
			name: "owner cannot apply to own post",
			setupMock: func(mi *MockInterestRepository, mp *MockPostRepository) {
				mp.On("FindByID", mock.Anything, "p1").Return(visiblePost("applicant"), nil)
			},
			wantErr: apperrors.ErrOwnPost,
		},
		{
			name: "second live application is rejected",
			setupMock: func(mi *MockInterestRepository, mp *MockPostRepository) {
				mp.On("FindByID", mock.Anything, "p1").Return(visiblePost("owner"), nil)
				mi.On("HasLiveInterest", mock.Anything, "p1", "applicant").Return(true, nil)
			},
			wantErr: apperrors.ErrDuplicateInterest,
		},
		{
			// A concurrent duplicate can pass the pre-check and trip the
			// unique index inside Create instead.
			name: "duplicate surfacing from the store is rejected",
			setupMock: func(mi *MockInterestRepository, mp *MockPostRepository) {
				mp.On("FindByID", mock.Anything, "p1").Return(visiblePost("owner"), nil)
				mi.On("HasLiveInterest", mock.Anything, "p1", "applicant").Return(false, nil)
				mi.On("Create", mock.Anything, mock.AnythingOfType("*entity.Interest")).Return(apperrors.ErrDuplicateInterest)
			},
			wantErr: apperrors.ErrDuplicateInterest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interests := new(MockInterestRepository)
			posts := new(MockPostRepository)
			svc := newTestInterestService(interests, posts, new(MockUserRepository))
			tt.setupMock(interests, posts)

			in, err := svc.Apply(context.Background(), "p1", "applicant", "We would love to give Biscuit a home.", entity.ApplicantInfo{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, in)
			} else {
				require.NoError(t, err)
				assert.Equal(t, entity.InterestPending, in.Status)
				require.Len(t, in.Timeline, 1)
				assert.Equal(t, "applied", in.Timeline[0].Action)
			}
			interests.AssertExpectations(t)
			posts.AssertExpectations(t)
		})
	}
}

func TestInterestService_UpdateStatus(t *testing.T) {
	pending := func() *entity.Interest {
		return &entity.Interest{ID: "i1", PostID: "p1", ApplicantID: "applicant", Status: entity.InterestPending}
	}

	t.Run("owner shortlists a pending application", func(t *testing.T) {
		interests := new(MockInterestRepository)
		posts := new(MockPostRepository)
		svc := newTestInterestService(interests, posts, new(MockUserRepository))

		interests.On("FindByID", mock.Anything, "i1").Return(pending(), nil).Once()
		posts.On("FindByID", mock.Anything, "p1").Return(visiblePost("owner"), nil)
		interests.On("UpdateStatus", mock.Anything, "i1", entity.InterestShortlisted, "looks promising", mock.AnythingOfType("entity.TimelineEntry")).Return(nil)
		shortlisted := pending()
		shortlisted.Status = entity.InterestShortlisted
		interests.On("FindByID", mock.Anything, "i1").Return(shortlisted, nil).Once()

		in, err := svc.UpdateStatus(context.Background(), "i1", "owner", entity.RoleUser, entity.InterestShortlisted, "looks promising")
		require.NoError(t, err)
		assert.Equal(t, entity.InterestShortlisted, in.Status)
		interests.AssertExpectations(t)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		interests := new(MockInterestRepository)
		posts := new(MockPostRepository)
		svc := newTestInterestService(interests, posts, new(MockUserRepository))

		interests.On("FindByID", mock.Anything, "i1").Return(pending(), nil)
		posts.On("FindByID", mock.Anything, "p1").Return(visiblePost("owner"), nil)

		_, err := svc.UpdateStatus(context.Background(), "i1", "stranger", entity.RoleUser, entity.InterestApproved, "")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("owner cannot withdraw on behalf of the applicant", func(t *testing.T) {
		interests := new(MockInterestRepository)
		posts := new(MockPostRepository)
		svc := newTestInterestService(interests, posts, new(MockUserRepository))

		interests.On("FindByID", mock.Anything, "i1").Return(pending(), nil)
		posts.On("FindByID", mock.Anything, "p1").Return(visiblePost("owner"), nil)

		_, err := svc.UpdateStatus(context.Background(), "i1", "owner", entity.RoleUser, entity.InterestWithdrawn, "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})

	t.Run("terminal status rejects further transitions", func(t *testing.T) {
		interests := new(MockInterestRepository)
		posts := new(MockPostRepository)
		svc := newTestInterestService(interests, posts, new(MockUserRepository))

		rejected := pending()
		rejected.Status = entity.InterestRejected
		interests.On("FindByID", mock.Anything, "i1").Return(rejected, nil)
		posts.On("FindByID", mock.Anything, "p1").Return(visiblePost("owner"), nil)

		_, err := svc.UpdateStatus(context.Background(), "i1", "owner", entity.RoleUser, entity.InterestApproved, "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})

	t.Run("approval rejects siblings and adopts the post", func(t *testing.T) {
		interests := new(MockInterestRepository)
		posts := new(MockPostRepository)
		svc := newTestInterestService(interests, posts, new(MockUserRepository))

		interests.On("FindByID", mock.Anything, "i1").Return(pending(), nil).Once()
		posts.On("FindByID", mock.Anything, "p1").Return(visiblePost("owner"), nil)
		interests.On("UpdateStatus", mock.Anything, "i1", entity.InterestApproved, "welcome", mock.AnythingOfType("entity.TimelineEntry")).Return(nil)
		approved := pending()
		approved.Status = entity.InterestApproved
		interests.On("FindByID", mock.Anything, "i1").Return(approved, nil).Once()
		interests.On("RejectSiblings", mock.Anything, "p1", "i1", mock.AnythingOfType("entity.TimelineEntry")).
			Return([]*entity.Interest{}, nil)
		posts.On("UpdateStatus", mock.Anything, "p1", entity.PostAdopted).Return(nil)

		in, err := svc.UpdateStatus(context.Background(), "i1", "owner", entity.RoleUser, entity.InterestApproved, "welcome")
		require.NoError(t, err)
		assert.Equal(t, entity.InterestApproved, in.Status)
		interests.AssertExpectations(t)
		posts.AssertExpectations(t)
	})
}

func TestInterestService_Withdraw(t *testing.T) {
	t.Run("applicant withdraws a pending application", func(t *testing.T) {
		interests := new(MockInterestRepository)
		svc := newTestInterestService(interests, new(MockPostRepository), new(MockUserRepository))

		pending := &entity.Interest{ID: "i1", PostID: "p1", ApplicantID: "applicant", Status: entity.InterestPending}
		interests.On("FindByID", mock.Anything, "i1").Return(pending, nil).Once()
		interests.On("UpdateStatus", mock.Anything, "i1", entity.InterestWithdrawn, "", mock.AnythingOfType("entity.TimelineEntry")).Return(nil)
		withdrawn := &entity.Interest{ID: "i1", PostID: "p1", ApplicantID: "applicant", Status: entity.InterestWithdrawn}
		interests.On("FindByID", mock.Anything, "i1").Return(withdrawn, nil).Once()

		in, err := svc.Withdraw(context.Background(), "i1", "applicant")
		require.NoError(t, err)
		assert.Equal(t, entity.InterestWithdrawn, in.Status)
	})

	t.Run("only the applicant may withdraw", func(t *testing.T) {
		interests := new(MockInterestRepository)
		svc := newTestInterestService(interests, new(MockPostRepository), new(MockUserRepository))

		pending := &entity.Interest{ID: "i1", PostID: "p1", ApplicantID: "applicant", Status: entity.InterestPending}
		interests.On("FindByID", mock.Anything, "i1").Return(pending, nil)

		_, err := svc.Withdraw(context.Background(), "i1", "owner")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

var (
	_ repo.PostRepository     = (*MockPostRepository)(nil)
	_ repo.InterestRepository = (*MockInterestRepository)(nil)
)
