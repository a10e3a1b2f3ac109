package repository

import (
	"context"

	"github.com/farbari/farbari-api/internal/domain/entity"
)

// InterestRepository persists adoption applications.
type InterestRepository interface {
	Create(ctx context.Context, i *entity.Interest) error
	FindByID(ctx context.Context, id string) (*entity.Interest, error)
	List(ctx context.Context, f entity.InterestFilter) ([]*entity.Interest, int64, error)
	// HasLiveInterest reports whether the applicant already has a
	// non-withdrawn application for the post.
	HasLiveInterest(ctx context.Context, postID, applicantID string) (bool, error)
	// UpdateStatus sets the status, optional owner response, and appends the
	// timeline entry in one update.
	UpdateStatus(ctx context.Context, id string, status entity.InterestStatus, ownerResponse string, entry entity.TimelineEntry) error
	// RejectSiblings rejects every pending/shortlisted application for the
	// post except keepID, appending entry to each timeline. Returns the
	// applications it rejected.
	RejectSiblings(ctx context.Context, postID, keepID string, entry entity.TimelineEntry) ([]*entity.Interest, error)
}
