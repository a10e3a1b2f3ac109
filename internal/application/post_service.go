package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/farbari/farbari-api/internal/apperrors"
	"github.com/farbari/farbari-api/internal/domain/entity"
	repo "github.com/farbari/farbari-api/internal/domain/repository"
	"github.com/farbari/farbari-api/pkg/helpers"
)

const viewDedupTTL = 6 * time.Hour

// PostService manages pet listings: CRUD, moderation, photos, views and
// search.
type PostService struct {
	Posts   repo.PostRepository
	Users   repo.UserRepository
	ES      *elasticsearch.Client
	ESIndex string
	Redis   *redis.Client
	GCS     *storage.Client
	Bucket  string
	Logger  *logrus.Logger
}

func NewPostService(posts repo.PostRepository, users repo.UserRepository, es *elasticsearch.Client, esIndex string, rdb *redis.Client, gcs *storage.Client, bucket string, logger *logrus.Logger) *PostService {
	if esIndex == "" {
		esIndex = "posts"
	}
	return &PostService{Posts: posts, Users: users, ES: es, ESIndex: esIndex, Redis: rdb, GCS: gcs, Bucket: bucket, Logger: logger}
}

func (s *PostService) Create(ctx context.Context, p *entity.Post) (*entity.Post, error) {
	p.Status = entity.PostDraft
	p.IsApproved = false
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	s.indexPost(ctx, p)
	return p, nil
}

// Get returns a post, counting the view once per viewer per dedup window.
// The owner's own views never count. Listings that are unapproved or not
// active are visible only to their owner and to moderators; everyone else
// gets not-found rather than a confirmation the listing exists.
func (s *PostService) Get(ctx context.Context, id, viewerID string, viewerRole entity.Role) (*entity.Post, error) {
	p, err := s.Posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Visible() && !canSeeHidden(p, viewerID, viewerRole) {
		return nil, apperrors.ErrNotFound
	}
	if viewerID != "" && viewerID != p.OwnerID && s.shouldCountView(ctx, id, viewerID) {
		if err := s.Posts.IncrementViews(ctx, id); err == nil {
			p.Views++
		}
	}
	return p, nil
}

func canSeeHidden(p *entity.Post, viewerID string, viewerRole entity.Role) bool {
	if viewerID != "" && viewerID == p.OwnerID {
		return true
	}
	return viewerRole == entity.RoleAdmin || viewerRole == entity.RoleModerator
}

func (s *PostService) List(ctx context.Context, f entity.PostFilter) ([]*entity.Post, entity.Pagination, error) {
	posts, total, err := s.Posts.List(ctx, f)
	if err != nil {
		return nil, entity.Pagination{}, err
	}
	return posts, entity.NewPagination(f.Page, f.Limit, total), nil
}

// ToggleFavorite saves or unsaves a listing for the user and reports the
// new state. Hidden listings cannot be favorited by outsiders.
func (s *PostService) ToggleFavorite(ctx context.Context, id, userID string, userRole entity.Role) (bool, int, error) {
	p, err := s.Posts.FindByID(ctx, id)
	if err != nil {
		return false, 0, err
	}
	if !p.Visible() && !canSeeHidden(p, userID, userRole) {
		return false, 0, apperrors.ErrNotFound
	}
	return s.Posts.ToggleFavorite(ctx, id, userID)
}

// ListFavorites returns the listings the user has saved, newest first.
func (s *PostService) ListFavorites(ctx context.Context, userID string, page, limit int) ([]*entity.Post, entity.Pagination, error) {
	f := entity.PostFilter{
		FavoritedBy: userID,
		Page:        page,
		Limit:       limit,
		SortBy:      "created_at",
		SortDesc:    true,
	}
	posts, total, err := s.Posts.List(ctx, f)
	if err != nil {
		return nil, entity.Pagination{}, err
	}
	return posts, entity.NewPagination(page, limit, total), nil
}

// Update applies owner edits. Changing listing content on an approved post
// sends it back through moderation.
func (s *PostService) Update(ctx context.Context, id, actorID string, actorRole entity.Role, up repo.PostUpdate) (*entity.Post, error) {
	p, err := s.Posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actorID && actorRole != entity.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	resetApproval := p.IsApproved && actorRole != entity.RoleAdmin
	updated, err := s.Posts.Update(ctx, id, up, resetApproval)
	if err != nil {
		return nil, err
	}
	s.indexPost(ctx, updated)
	return updated, nil
}

func (s *PostService) UpdateStatus(ctx context.Context, id, actorID string, actorRole entity.Role, status entity.PostStatus) (*entity.Post, error) {
	p, err := s.Posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actorID && actorRole != entity.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	if err := s.Posts.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	updated, err := s.Posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.indexPost(ctx, updated)
	return updated, nil
}

// Approve is a moderation action: approve or reject with a reason.
func (s *PostService) Approve(ctx context.Context, id, moderatorID string, approved bool, rejectionReason string) (*entity.Post, error) {
	if err := s.Posts.SetApproval(ctx, id, approved, moderatorID, rejectionReason); err != nil {
		return nil, err
	}
	updated, err := s.Posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.indexPost(ctx, updated)
	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, id, actorID string, actorRole entity.Role) error {
	p, err := s.Posts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.OwnerID != actorID && actorRole != entity.RoleAdmin {
		return apperrors.ErrForbidden
	}
	if err := s.Posts.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteIndexed(ctx, id)
	return nil
}

// UploadPhoto stores a pet photo and appends its public URL to the post.
func (s *PostService) UploadPhoto(ctx context.Context, id, actorID, filename, contentType string, r io.Reader) (*entity.Post, error) {
	p, err := s.Posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actorID {
		return nil, apperrors.ErrForbidden
	}
	if s.GCS == nil {
		return nil, fmt.Errorf("object storage not configured")
	}
	object := fmt.Sprintf("posts/%s/%d-%s%s", id, time.Now().UnixMilli(), uuid.NewString()[:8], path.Ext(filename))
	url, err := helpers.UploadObject(ctx, s.GCS, s.Bucket, object, contentType, r)
	if err != nil {
		return nil, err
	}
	if err := s.Posts.AddPhoto(ctx, id, url); err != nil {
		return nil, err
	}
	return s.Posts.FindByID(ctx, id)
}

// Search queries the posts index; when the index is unavailable it degrades
// to a store-side pattern match so the endpoint keeps working.
func (s *PostService) Search(ctx context.Context, query string, limit int) ([]*entity.Post, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if s.ES == nil {
		return s.Posts.SearchLike(ctx, query, limit)
	}

	body := map[string]any{
		"size": limit,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"title^3", "pet.name^2", "pet.breed^2", "description"},
						"fuzziness": "AUTO",
					},
				},
				"filter": []map[string]any{
					{"term": map[string]any{"status": string(entity.PostActive)}},
					{"term": map[string]any{"is_approved": true}},
				},
			},
		},
	}
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return nil, err
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(buf),
	)
	if err != nil {
		s.Logger.WithError(err).Warn("post search fell back to store matching")
		return s.Posts.SearchLike(ctx, query, limit)
	}
	defer res.Body.Close()
	if res.IsError() {
		s.Logger.WithField("status", res.StatusCode).Warn("post search fell back to store matching")
		return s.Posts.SearchLike(ctx, query, limit)
	}

	var out struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		p, err := s.Posts.FindByID(ctx, h.ID)
		if err != nil {
			continue
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (s *PostService) shouldCountView(ctx context.Context, postID, viewerID string) bool {
	if s.Redis == nil {
		return true
	}
	key := fmt.Sprintf("post:view:%s:%s", postID, viewerID)
	ok, err := s.Redis.SetNX(ctx, key, 1, viewDedupTTL).Result()
	if err != nil {
		return true
	}
	return ok
}

func (s *PostService) indexPost(ctx context.Context, p *entity.Post) {
	if s.ES == nil {
		return
	}
	doc := map[string]any{
		"title":       p.Title,
		"description": p.Description,
		"status":      p.Status,
		"is_approved": p.IsApproved,
		"urgency":     p.Urgency,
		"city":        p.Location.City,
		"state":       p.Location.State,
		"pet": map[string]any{
			"name":    p.Pet.Name,
			"species": p.Pet.Species,
			"breed":   p.Pet.Breed,
		},
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return
	}
	res, err := s.ES.Index(s.ESIndex, strings.NewReader(string(payload)),
		s.ES.Index.WithDocumentID(p.ID),
		s.ES.Index.WithContext(ctx),
	)
	if err != nil {
		s.Logger.WithError(err).WithField("post_id", p.ID).Warn("post indexing failed")
		return
	}
	res.Body.Close()
}

func (s *PostService) deleteIndexed(ctx context.Context, id string) {
	if s.ES == nil {
		return
	}
	res, err := s.ES.Delete(s.ESIndex, id, s.ES.Delete.WithContext(ctx))
	if err != nil {
		s.Logger.WithError(err).WithField("post_id", id).Warn("post index delete failed")
		return
	}
	res.Body.Close()
}
