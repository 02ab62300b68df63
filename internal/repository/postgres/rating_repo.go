package postgres

import (
	"context"
	"time"

	"event-staffing-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ratingRow struct {
	ID        string    `db:"id"`
	JobID     string    `db:"job_id"`
	RaterID   string    `db:"rater_id"`
	RatedID   string    `db:"rated_id"`
	Rating    int       `db:"rating"`
	Comment   *string   `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
	RaterName *string   `db:"rater_name"`
	JobTitle  *string   `db:"job_title"`
}

const ratingSelect = `
	SELECT r.id, r.job_id, r.rater_id, r.rated_id, r.rating, r.comment, r.created_at,
		p.full_name AS rater_name, j.title AS job_title
	FROM ratings r
	LEFT JOIN profiles p ON p.id = r.rater_id
	LEFT JOIN jobs j ON j.id = r.job_id`

func ratingToDomain(r ratingRow) domain.Rating {
	return domain.Rating{
		ID:        r.ID,
		JobID:     r.JobID,
		RaterID:   r.RaterID,
		RatedID:   r.RatedID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		RaterName: r.RaterName,
		JobTitle:  r.JobTitle,
	}
}

type ratingRepo struct {
	db *pgxpool.Pool
}

func NewRatingRepository(db *pgxpool.Pool) domain.RatingRepository {
	return &ratingRepo{db: db}
}

func (r *ratingRepo) Create(ctx context.Context, rating *domain.Rating) error {
	query := `INSERT INTO ratings (job_id, rater_id, rated_id, rating, comment)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, rating.JobID, rating.RaterID, rating.RatedID, rating.Rating, rating.Comment).
		Scan(&rating.ID, &rating.CreatedAt)
	return wrapErr("ratings.insert", err)
}

func (r *ratingRepo) FetchByRatedID(ctx context.Context, ratedID string) ([]domain.Rating, error) {
	rows, err := r.db.Query(ctx, ratingSelect+` WHERE r.rated_id = $1 ORDER BY r.created_at DESC`, ratedID)
	if err != nil {
		return nil, wrapErr("ratings.list_received", err)
	}
	list, err := collect(rows, ratingToDomain)
	return list, wrapErr("ratings.list_received", err)
}

func (r *ratingRepo) FetchByRaterID(ctx context.Context, raterID string) ([]domain.Rating, error) {
	rows, err := r.db.Query(ctx, ratingSelect+` WHERE r.rater_id = $1 ORDER BY r.created_at DESC`, raterID)
	if err != nil {
		return nil, wrapErr("ratings.list_given", err)
	}
	list, err := collect(rows, ratingToDomain)
	return list, wrapErr("ratings.list_given", err)
}
