package repository

import (
	"context"

	"github.com/farbari/farbari-api/internal/domain/entity"
)

// PostUpdate is the explicit field set a listing update may touch.
// Nil pointers leave the column unchanged.
type PostUpdate struct {
	Title       *string
	Description *string
	Pet         *entity.Pet
	Location    *entity.Location
	AdoptionFee *float64
	Urgency     *entity.Urgency
	Tags        []string
}

// PostRepository persists pet adoption listings.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	FindByID(ctx context.Context, id string) (*entity.Post, error)
	List(ctx context.Context, f entity.PostFilter) ([]*entity.Post, int64, error)
	Update(ctx context.Context, id string, up PostUpdate, resetApproval bool) (*entity.Post, error)
	UpdateStatus(ctx context.Context, id string, status entity.PostStatus) error
	SetApproval(ctx context.Context, id string, approved bool, approvedBy, rejectionReason string) error
	AddPhoto(ctx context.Context, id, url string) error
	IncrementViews(ctx context.Context, id string) error
	// ToggleFavorite atomically adds or removes userID from the listing's
	// favorite set and reports the resulting membership and set size.
	ToggleFavorite(ctx context.Context, id, userID string) (favorited bool, count int, err error)
	Delete(ctx context.Context, id string) error
	// SearchLike is the ILIKE fallback used when Elasticsearch is not configured.
	SearchLike(ctx context.Context, query string, limit int) ([]*entity.Post, error)
}
