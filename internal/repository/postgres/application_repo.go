package postgres

import (
	"context"
	"errors"
	"time"

	"event-staffing-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRow struct {
	ID               string    `db:"id"`
	JobID            string    `db:"job_id"`
	PromoterID       string    `db:"promoter_id"`
	Status           string    `db:"status"`
	Message          *string   `db:"message"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
	JobTitle         *string   `db:"job_title"`
	PromoterName     *string   `db:"promoter_name"`
	PromoterAvatar   *string   `db:"promoter_avatar"`
	PromoterAvgScore *float64  `db:"promoter_avg_score"`
}

const applicationSelect = `
	SELECT
		a.id, a.job_id, a.promoter_id, a.status, a.message, a.created_at, a.updated_at,
		j.title AS job_title,
		p.full_name AS promoter_name,
		p.avatar_url AS promoter_avatar,
		(SELECT ROUND(AVG(r.rating)::numeric, 1)::float8 FROM ratings r WHERE r.rated_id = a.promoter_id) AS promoter_avg_score
	FROM job_applications a
	LEFT JOIN jobs j ON j.id = a.job_id
	LEFT JOIN profiles p ON p.id = a.promoter_id`

func applicationToDomain(r applicationRow) domain.JobApplication {
	return domain.JobApplication{
		ID:               r.ID,
		JobID:            r.JobID,
		PromoterID:       r.PromoterID,
		Status:           domain.ApplicationStatus(r.Status),
		Message:          r.Message,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		JobTitle:         r.JobTitle,
		PromoterName:     r.PromoterName,
		PromoterAvatar:   r.PromoterAvatar,
		PromoterAvgScore: r.PromoterAvgScore,
	}
}

type applicationRepo struct {
	db *pgxpool.Pool
}

func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create inserts a pending application. A second application for the same
// job and promoter fails with a duplicate RepoError.
func (r *applicationRepo) Create(ctx context.Context, app *domain.JobApplication) error {
	app.Status = domain.ApplicationStatusPending
	query := `INSERT INTO job_applications (job_id, promoter_id, status, message)
              VALUES ($1, $2, $3, $4)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, app.JobID, app.PromoterID, app.Status, app.Message).
		Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	return wrapErr("job_applications.insert", err)
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.JobApplication, error) {
	rows, err := r.db.Query(ctx, applicationSelect+` WHERE a.id = $1`, id)
	if err != nil {
		return nil, wrapErr("job_applications.get", err)
	}
	app, err := collectOne(rows, applicationToDomain)
	return app, wrapErr("job_applications.get", err)
}

func (r *applicationRepo) FetchByJobID(ctx context.Context, jobID string) ([]domain.JobApplication, error) {
	rows, err := r.db.Query(ctx, applicationSelect+` WHERE a.job_id = $1 ORDER BY a.created_at DESC`, jobID)
	if err != nil {
		return nil, wrapErr("job_applications.list_by_job", err)
	}
	apps, err := collect(rows, applicationToDomain)
	return apps, wrapErr("job_applications.list_by_job", err)
}

func (r *applicationRepo) FetchByPromoterID(ctx context.Context, promoterID string) ([]domain.JobApplication, error) {
	rows, err := r.db.Query(ctx, applicationSelect+` WHERE a.promoter_id = $1 ORDER BY a.created_at DESC`, promoterID)
	if err != nil {
		return nil, wrapErr("job_applications.list_by_promoter", err)
	}
	apps, err := collect(rows, applicationToDomain)
	return apps, wrapErr("job_applications.list_by_promoter", err)
}

// Approve flips a pending application to approved and takes one position on
// the job in the same transaction. The job becomes filled when the last
// position is taken.
func (r *applicationRepo) Approve(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return wrapErr("job_applications.approve", err)
	}
	defer tx.Rollback(ctx)

	var jobID string
	err = tx.QueryRow(ctx, `
		UPDATE job_applications SET status = 'approved', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING job_id`, id).Scan(&jobID)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.transitionError(ctx, tx, id, "job_applications.approve")
	}
	if err != nil {
		return wrapErr("job_applications.approve", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE jobs SET
			positions_filled = positions_filled + 1,
			status = CASE WHEN positions_filled + 1 >= positions_available THEN 'filled' ELSE status END,
			updated_at = NOW()
		WHERE id = $1 AND positions_filled < positions_available`, jobID)
	if err != nil {
		return wrapErr("jobs.fill_position", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobFull
	}

	return wrapErr("job_applications.approve", tx.Commit(ctx))
}

func (r *applicationRepo) Reject(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE job_applications SET status = 'rejected', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return wrapErr("job_applications.reject", err)
	}
	if tag.RowsAffected() == 0 {
		return r.transitionError(ctx, r.db, id, "job_applications.reject")
	}
	return nil
}

// transitionError tells a missing application apart from one that was
// already reviewed.
func (r *applicationRepo) transitionError(ctx context.Context, q querier, id, op string) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM job_applications WHERE id = $1)`, id).Scan(&exists); err != nil {
		return wrapErr(op, err)
	}
	if !exists {
		return notFound(op)
	}
	return domain.ErrInvalidTransition
}

func (r *applicationRepo) CountPendingForCompany(ctx context.Context, companyID string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM job_applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN events e ON e.id = j.event_id
		WHERE e.company_id = $1 AND a.status = 'pending'`, companyID).Scan(&n)
	return n, wrapErr("job_applications.count_pending", err)
}
