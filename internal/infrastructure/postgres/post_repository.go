package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farbari/farbari-api/internal/apperrors"
	"github.com/farbari/farbari-api/internal/domain/entity"
	"github.com/farbari/farbari-api/internal/domain/repository"
)

const postColumns = `
	id, owner_id, title, description,
	pet_name, pet_species, pet_breed, pet_age_value, pet_age_unit,
	pet_gender, pet_size, pet_color, pet_vaccinated, pet_neutered,
	pet_health_status, pet_temperament, pet_good_with_children,
	pet_good_with_dogs, pet_good_with_cats, pet_energy, pet_photos,
	location_city, location_state, location_country,
	adoption_fee, status, urgency, views, cardinality(favorited_by), tags,
	is_approved, approved_by, rejection_reason,
	created_at, updated_at`

var postSortColumns = map[string]string{
	"created_at":   "created_at",
	"adoption_fee": "adoption_fee",
	"views":        "views",
}

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

var _ repository.PostRepository = (*PostRepository)(nil)

func scanPost(row pgx.Row) (*entity.Post, error) {
	p := &entity.Post{}
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Description,
		&p.Pet.Name, &p.Pet.Species, &p.Pet.Breed, &p.Pet.AgeValue, &p.Pet.AgeUnit,
		&p.Pet.Gender, &p.Pet.Size, &p.Pet.Color, &p.Pet.IsVaccinated, &p.Pet.IsNeutered,
		&p.Pet.HealthStatus, &p.Pet.Temperament, &p.Pet.GoodWithKids,
		&p.Pet.GoodWithDogs, &p.Pet.GoodWithCats, &p.Pet.Energy, &p.Pet.Photos,
		&p.Location.City, &p.Location.State, &p.Location.Country,
		&p.AdoptionFee, &p.Status, &p.Urgency, &p.Views, &p.FavoriteCount, &p.Tags,
		&p.IsApproved, &p.ApprovedBy, &p.RejectionReason,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (
			owner_id, title, description,
			pet_name, pet_species, pet_breed, pet_age_value, pet_age_unit,
			pet_gender, pet_size, pet_color, pet_vaccinated, pet_neutered,
			pet_health_status, pet_temperament, pet_good_with_children,
			pet_good_with_dogs, pet_good_with_cats, pet_energy, pet_photos,
			location_city, location_state, location_country,
			adoption_fee, status, urgency, tags
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13,
			$14, $15, $16,
			$17, $18, $19, $20,
			$21, $22, $23,
			$24, $25, $26, $27
		)
		RETURNING id, views, is_approved, created_at, updated_at
	`,
		p.OwnerID, p.Title, p.Description,
		p.Pet.Name, p.Pet.Species, p.Pet.Breed, p.Pet.AgeValue, p.Pet.AgeUnit,
		p.Pet.Gender, p.Pet.Size, p.Pet.Color, p.Pet.IsVaccinated, p.Pet.IsNeutered,
		p.Pet.HealthStatus, p.Pet.Temperament, p.Pet.GoodWithKids,
		p.Pet.GoodWithDogs, p.Pet.GoodWithCats, p.Pet.Energy, p.Pet.Photos,
		p.Location.City, p.Location.State, p.Location.Country,
		p.AdoptionFee, p.Status, p.Urgency, p.Tags,
	)
	return row.Scan(&p.ID, &p.Views, &p.IsApproved, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*entity.Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	return scanPost(row)
}

func (r *PostRepository) List(ctx context.Context, f entity.PostFilter) ([]*entity.Post, int64, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.OwnerID != "" {
		conds = append(conds, "owner_id = "+arg(f.OwnerID))
	}
	if f.FavoritedBy != "" {
		conds = append(conds, arg(f.FavoritedBy)+" = ANY(favorited_by)")
	}
	if f.Status != "" {
		conds = append(conds, "status = "+arg(f.Status))
	}
	if f.ApprovedOnly {
		conds = append(conds, "is_approved")
	}
	if f.Species != "" {
		conds = append(conds, "pet_species = "+arg(f.Species))
	}
	if f.Size != "" {
		conds = append(conds, "pet_size = "+arg(f.Size))
	}
	if f.Gender != "" {
		conds = append(conds, "pet_gender = "+arg(f.Gender))
	}
	if f.Energy != "" {
		conds = append(conds, "pet_energy = "+arg(f.Energy))
	}
	if f.City != "" {
		conds = append(conds, "location_city ILIKE "+arg(f.City))
	}
	if f.State != "" {
		conds = append(conds, "location_state ILIKE "+arg(f.State))
	}
	if f.Urgency != "" {
		conds = append(conds, "urgency = "+arg(f.Urgency))
	}
	if f.MinFee != nil {
		conds = append(conds, "adoption_fee >= "+arg(*f.MinFee))
	}
	if f.MaxFee != nil {
		conds = append(conds, "adoption_fee <= "+arg(*f.MaxFee))
	}
	if f.IsVaccinated != nil {
		conds = append(conds, "pet_vaccinated = "+arg(*f.IsVaccinated))
	}
	if f.IsNeutered != nil {
		conds = append(conds, "pet_neutered = "+arg(*f.IsNeutered))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM posts"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol, ok := postSortColumns[f.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	offset := (f.Page - 1) * f.Limit
	q := "SELECT " + postColumns + " FROM posts" + where +
		fmt.Sprintf(" ORDER BY %s %s LIMIT %s OFFSET %s", sortCol, dir, arg(f.Limit), arg(offset))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*entity.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

func (r *PostRepository) Update(ctx context.Context, id string, up repository.PostUpdate, resetApproval bool) (*entity.Post, error) {
	var pet entity.Pet
	hasPet := up.Pet != nil
	if hasPet {
		pet = *up.Pet
	}
	var loc entity.Location
	hasLoc := up.Location != nil
	if hasLoc {
		loc = *up.Location
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE posts
		SET title       = COALESCE($2, title),
		    description = COALESCE($3, description),
		    adoption_fee = COALESCE($4, adoption_fee),
		    urgency     = COALESCE($5, urgency),
		    tags        = COALESCE($6, tags),
		    pet_name = CASE WHEN $7 THEN $8 ELSE pet_name END,
		    pet_species = CASE WHEN $7 THEN $9 ELSE pet_species END,
		    pet_breed = CASE WHEN $7 THEN $10 ELSE pet_breed END,
		    pet_age_value = CASE WHEN $7 THEN $11 ELSE pet_age_value END,
		    pet_age_unit = CASE WHEN $7 THEN $12 ELSE pet_age_unit END,
		    pet_gender = CASE WHEN $7 THEN $13 ELSE pet_gender END,
		    pet_size = CASE WHEN $7 THEN $14 ELSE pet_size END,
		    pet_color = CASE WHEN $7 THEN $15 ELSE pet_color END,
		    pet_vaccinated = CASE WHEN $7 THEN $16 ELSE pet_vaccinated END,
		    pet_neutered = CASE WHEN $7 THEN $17 ELSE pet_neutered END,
		    pet_health_status = CASE WHEN $7 THEN $18 ELSE pet_health_status END,
		    pet_temperament = CASE WHEN $7 THEN $19 ELSE pet_temperament END,
		    pet_good_with_children = CASE WHEN $7 THEN $20 ELSE pet_good_with_children END,
		    pet_good_with_dogs = CASE WHEN $7 THEN $21 ELSE pet_good_with_dogs END,
		    pet_good_with_cats = CASE WHEN $7 THEN $22 ELSE pet_good_with_cats END,
		    pet_energy = CASE WHEN $7 THEN $23 ELSE pet_energy END,
		    location_city = CASE WHEN $24 THEN $25 ELSE location_city END,
		    location_state = CASE WHEN $24 THEN $26 ELSE location_state END,
		    location_country = CASE WHEN $24 THEN $27 ELSE location_country END,
		    is_approved = CASE WHEN $28 THEN false ELSE is_approved END,
		    approved_by = CASE WHEN $28 THEN '' ELSE approved_by END,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+postColumns,
		id, up.Title, up.Description, up.AdoptionFee, up.Urgency, up.Tags,
		hasPet, pet.Name, pet.Species, pet.Breed, pet.AgeValue, pet.AgeUnit,
		pet.Gender, pet.Size, pet.Color, pet.IsVaccinated, pet.IsNeutered,
		pet.HealthStatus, pet.Temperament, pet.GoodWithKids, pet.GoodWithDogs,
		pet.GoodWithCats, pet.Energy,
		hasLoc, loc.City, loc.State, loc.Country,
		resetApproval,
	)
	return scanPost(row)
}

func (r *PostRepository) UpdateStatus(ctx context.Context, id string, status entity.PostStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE posts SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PostRepository) SetApproval(ctx context.Context, id string, approved bool, approvedBy, rejectionReason string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE posts
		SET is_approved = $2, approved_by = $3, rejection_reason = $4, updated_at = now()
		WHERE id = $1
	`, id, approved, approvedBy, rejectionReason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PostRepository) AddPhoto(ctx context.Context, id, url string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE posts SET pet_photos = array_append(pet_photos, $2), updated_at = now()
		WHERE id = $1
	`, id, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PostRepository) ToggleFavorite(ctx context.Context, id, userID string) (bool, int, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE posts
		SET favorited_by = CASE WHEN $2 = ANY(favorited_by)
		        THEN array_remove(favorited_by, $2)
		        ELSE array_append(favorited_by, $2) END,
		    updated_at = now()
		WHERE id = $1
		RETURNING $2 = ANY(favorited_by), cardinality(favorited_by)
	`, id, userID)
	var favorited bool
	var count int
	if err := row.Scan(&favorited, &count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, 0, apperrors.ErrNotFound
		}
		return false, 0, err
	}
	return favorited, count, nil
}

func (r *PostRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE posts SET views = views + 1 WHERE id = $1`, id)
	return err
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PostRepository) SearchLike(ctx context.Context, query string, limit int) ([]*entity.Post, error) {
	pattern := "%" + query + "%"
	rows, err := r.pool.Query(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE is_approved AND status = 'active'
		  AND (title ILIKE $1 OR description ILIKE $1 OR pet_name ILIKE $1 OR pet_breed ILIKE $1)
		ORDER BY created_at DESC
		LIMIT $2
	`, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*entity.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
