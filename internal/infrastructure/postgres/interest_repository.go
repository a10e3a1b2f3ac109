package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farbari/farbari-api/internal/apperrors"
	"github.com/farbari/farbari-api/internal/domain/entity"
	"github.com/farbari/farbari-api/internal/domain/repository"
)

const interestColumns = `
	id, post_id, applicant_id, status, message,
	applicant_experience, applicant_living_space, applicant_has_yard,
	applicant_has_other_pets, applicant_has_children, applicant_work_schedule,
	owner_response, timeline, created_at, updated_at`

type InterestRepository struct {
	pool *pgxpool.Pool
}

func NewInterestRepository(pool *pgxpool.Pool) *InterestRepository {
	return &InterestRepository{pool: pool}
}

var _ repository.InterestRepository = (*InterestRepository)(nil)

func scanInterest(row pgx.Row) (*entity.Interest, error) {
	i := &entity.Interest{}
	var timeline []byte
	err := row.Scan(
		&i.ID, &i.PostID, &i.ApplicantID, &i.Status, &i.Message,
		&i.ApplicantInfo.Experience, &i.ApplicantInfo.LivingSpace, &i.ApplicantInfo.HasYard,
		&i.ApplicantInfo.HasOtherPets, &i.ApplicantInfo.HasChildren, &i.ApplicantInfo.WorkSchedule,
		&i.OwnerResponse, &timeline, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if len(timeline) > 0 {
		if err := json.Unmarshal(timeline, &i.Timeline); err != nil {
			return nil, err
		}
	}
	return i, nil
}

func (r *InterestRepository) Create(ctx context.Context, i *entity.Interest) error {
	timeline, err := json.Marshal(i.Timeline)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO interests (
			post_id, applicant_id, status, message,
			applicant_experience, applicant_living_space, applicant_has_yard,
			applicant_has_other_pets, applicant_has_children, applicant_work_schedule,
			timeline
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`,
		i.PostID, i.ApplicantID, i.Status, i.Message,
		i.ApplicantInfo.Experience, i.ApplicantInfo.LivingSpace, i.ApplicantInfo.HasYard,
		i.ApplicantInfo.HasOtherPets, i.ApplicantInfo.HasChildren, i.ApplicantInfo.WorkSchedule,
		timeline,
	)
	if err := row.Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation on the live-application index; a concurrent
		// duplicate can slip past the service pre-check.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicateInterest
		}
		return err
	}
	return nil
}

func (r *InterestRepository) FindByID(ctx context.Context, id string) (*entity.Interest, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+interestColumns+` FROM interests WHERE id = $1`, id)
	return scanInterest(row)
}

func (r *InterestRepository) List(ctx context.Context, f entity.InterestFilter) ([]*entity.Interest, int64, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.PostID != "" {
		conds = append(conds, "post_id = "+arg(f.PostID))
	}
	if f.ApplicantID != "" {
		conds = append(conds, "applicant_id = "+arg(f.ApplicantID))
	}
	if f.Status != "" {
		conds = append(conds, "status = "+arg(f.Status))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM interests"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	q := "SELECT " + interestColumns + " FROM interests" + where +
		" ORDER BY created_at DESC LIMIT " + arg(f.Limit) + " OFFSET " + arg(offset)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var interests []*entity.Interest
	for rows.Next() {
		i, err := scanInterest(rows)
		if err != nil {
			return nil, 0, err
		}
		interests = append(interests, i)
	}
	return interests, total, rows.Err()
}

func (r *InterestRepository) HasLiveInterest(ctx context.Context, postID, applicantID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM interests
			WHERE post_id = $1 AND applicant_id = $2 AND status <> 'withdrawn'
		)
	`, postID, applicantID).Scan(&exists)
	return exists, err
}

func (r *InterestRepository) UpdateStatus(ctx context.Context, id string, status entity.InterestStatus, ownerResponse string, entry entity.TimelineEntry) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE interests
		SET status = $2,
		    owner_response = CASE WHEN $3 <> '' THEN $3 ELSE owner_response END,
		    timeline = timeline || $4::jsonb,
		    updated_at = now()
		WHERE id = $1
	`, id, status, ownerResponse, b)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *InterestRepository) RejectSiblings(ctx context.Context, postID, keepID string, entry entity.TimelineEntry) ([]*entity.Interest, error) {
	b, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, `
		UPDATE interests
		SET status = 'rejected',
		    timeline = timeline || $3::jsonb,
		    updated_at = now()
		WHERE post_id = $1 AND id <> $2 AND status IN ('pending', 'shortlisted')
		RETURNING `+interestColumns,
		postID, keepID, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rejected []*entity.Interest
	for rows.Next() {
		i, err := scanInterest(rows)
		if err != nil {
			return nil, err
		}
		rejected = append(rejected, i)
	}
	return rejected, rows.Err()
}
