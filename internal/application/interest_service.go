package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/farbari/farbari-api/internal/apperrors"
	"github.com/farbari/farbari-api/internal/domain/entity"
	repo "github.com/farbari/farbari-api/internal/domain/repository"
	"github.com/farbari/farbari-api/pkg/mailer"
)

// InterestService handles adoption applications and their status lifecycle.
type InterestService struct {
	Interests repo.InterestRepository
	Posts     repo.PostRepository
	Users     repo.UserRepository
	Pub       Publisher
	Logger    *logrus.Logger
	MailOn    bool
}

func NewInterestService(interests repo.InterestRepository, posts repo.PostRepository, users repo.UserRepository, pub Publisher, logger *logrus.Logger, mailOn bool) *InterestService {
	return &InterestService{Interests: interests, Posts: posts, Users: users, Pub: pub, Logger: logger, MailOn: mailOn}
}

// Apply files an application against a visible post. Owners cannot apply to
// their own posts, and an applicant holds at most one live application per
// post at a time (withdrawn ones do not count).
func (s *InterestService) Apply(ctx context.Context, postID, applicantID, message string, info entity.ApplicantInfo) (*entity.Interest, error) {
	p, err := s.Posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !p.Visible() {
		return nil, apperrors.ErrPostUnavailable
	}
	if p.OwnerID == applicantID {
		return nil, apperrors.ErrOwnPost
	}

	live, err := s.Interests.HasLiveInterest(ctx, postID, applicantID)
	if err != nil {
		return nil, err
	}
	if live {
		return nil, apperrors.ErrDuplicateInterest
	}

	in := &entity.Interest{
		PostID:        postID,
		ApplicantID:   applicantID,
		Message:       message,
		ApplicantInfo: info,
		Status:        entity.InterestPending,
		Timeline: []entity.TimelineEntry{{
			Action:      "applied",
			PerformedBy: applicantID,
			Message:     message,
			Date:        time.Now(),
		}},
	}
	if err := s.Interests.Create(ctx, in); err != nil {
		return nil, err
	}

	s.notifyOwner(ctx, p, in)
	return in, nil
}

// Get returns an application to its applicant or the post owner.
func (s *InterestService) Get(ctx context.Context, id, actorID string, actorRole entity.Role) (*entity.Interest, error) {
	in, err := s.Interests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, in, actorID, actorRole); err != nil {
		return nil, err
	}
	return in, nil
}

// ListForPost returns a post's applications to its owner.
func (s *InterestService) ListForPost(ctx context.Context, postID, actorID string, actorRole entity.Role, f entity.InterestFilter) ([]*entity.Interest, entity.Pagination, error) {
	p, err := s.Posts.FindByID(ctx, postID)
	if err != nil {
		return nil, entity.Pagination{}, err
	}
	if p.OwnerID != actorID && actorRole != entity.RoleAdmin {
		return nil, entity.Pagination{}, apperrors.ErrForbidden
	}
	f.PostID = postID
	f.ApplicantID = ""
	items, total, err := s.Interests.List(ctx, f)
	if err != nil {
		return nil, entity.Pagination{}, err
	}
	return items, entity.NewPagination(f.Page, f.Limit, total), nil
}

// ListMine returns the caller's own applications.
func (s *InterestService) ListMine(ctx context.Context, applicantID string, f entity.InterestFilter) ([]*entity.Interest, entity.Pagination, error) {
	f.ApplicantID = applicantID
	f.PostID = ""
	items, total, err := s.Interests.List(ctx, f)
	if err != nil {
		return nil, entity.Pagination{}, err
	}
	return items, entity.NewPagination(f.Page, f.Limit, total), nil
}

// UpdateStatus is the post owner moving an application through the review
// states. Approving one application rejects every other live application on
// the post and marks the post adopted.
func (s *InterestService) UpdateStatus(ctx context.Context, id, actorID string, actorRole entity.Role, status entity.InterestStatus, ownerResponse string) (*entity.Interest, error) {
	in, err := s.Interests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.Posts.FindByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actorID && actorRole != entity.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	if status == entity.InterestWithdrawn {
		return nil, apperrors.ErrInvalidTransition
	}
	if !entity.CanTransition(in.Status, status) {
		return nil, apperrors.ErrInvalidTransition
	}

	entry := entity.TimelineEntry{
		Action:      string(status),
		PerformedBy: actorID,
		Message:     ownerResponse,
		Date:        time.Now(),
	}
	if err := s.Interests.UpdateStatus(ctx, id, status, ownerResponse, entry); err != nil {
		return nil, err
	}
	updated, err := s.Interests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifyApplicant(ctx, p, updated, ownerResponse)

	if status == entity.InterestApproved {
		rejectEntry := entity.TimelineEntry{
			Action:      string(entity.InterestRejected),
			PerformedBy: actorID,
			Message:     "another application was approved",
			Date:        time.Now(),
		}
		rejected, err := s.Interests.RejectSiblings(ctx, in.PostID, id, rejectEntry)
		if err != nil {
			s.Logger.WithError(err).WithField("post_id", in.PostID).Warn("sibling rejection failed")
		} else {
			for _, r := range rejected {
				s.notifyApplicant(ctx, p, r, rejectEntry.Message)
			}
		}
		if err := s.Posts.UpdateStatus(ctx, in.PostID, entity.PostAdopted); err != nil {
			s.Logger.WithError(err).WithField("post_id", in.PostID).Warn("post adoption status update failed")
		}
	}
	return updated, nil
}

// Withdraw lets an applicant pull a live application back.
func (s *InterestService) Withdraw(ctx context.Context, id, actorID string) (*entity.Interest, error) {
	in, err := s.Interests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ApplicantID != actorID {
		return nil, apperrors.ErrForbidden
	}
	if !entity.CanTransition(in.Status, entity.InterestWithdrawn) {
		return nil, apperrors.ErrInvalidTransition
	}
	entry := entity.TimelineEntry{
		Action:      string(entity.InterestWithdrawn),
		PerformedBy: actorID,
		Date:        time.Now(),
	}
	if err := s.Interests.UpdateStatus(ctx, id, entity.InterestWithdrawn, "", entry); err != nil {
		return nil, err
	}
	return s.Interests.FindByID(ctx, id)
}

func (s *InterestService) authorize(ctx context.Context, in *entity.Interest, actorID string, actorRole entity.Role) error {
	if in.ApplicantID == actorID || actorRole == entity.RoleAdmin {
		return nil
	}
	p, err := s.Posts.FindByID(ctx, in.PostID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrForbidden
		}
		return err
	}
	if p.OwnerID != actorID {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *InterestService) notifyOwner(ctx context.Context, p *entity.Post, in *entity.Interest) {
	if s.Pub == nil || !s.MailOn {
		return
	}
	owner, err := s.Users.FindByID(ctx, p.OwnerID)
	if err != nil {
		return
	}
	applicant, err := s.Users.FindByID(ctx, in.ApplicantID)
	if err != nil {
		return
	}
	s.publish(ctx, mailer.EmailJob{
		To:       owner.Email,
		Template: mailer.TemplateApplicationReceived,
		Data: map[string]any{
			"Name":          owner.Name,
			"ApplicantName": applicant.Name,
			"PetName":       p.Pet.Name,
			"PostTitle":     p.Title,
			"Message":       in.Message,
		},
	})
}

func (s *InterestService) notifyApplicant(ctx context.Context, p *entity.Post, in *entity.Interest, message string) {
	if s.Pub == nil || !s.MailOn {
		return
	}
	applicant, err := s.Users.FindByID(ctx, in.ApplicantID)
	if err != nil {
		return
	}
	s.publish(ctx, mailer.EmailJob{
		To:       applicant.Email,
		Template: mailer.TemplateApplicationStatus,
		Data: map[string]any{
			"Name":      applicant.Name,
			"PetName":   p.Pet.Name,
			"PostTitle": p.Title,
			"Status":    string(in.Status),
			"Message":   message,
		},
	})
}

func (s *InterestService) publish(ctx context.Context, job mailer.EmailJob) {
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("template", job.Template).Warn("email enqueue failed")
	}
}
