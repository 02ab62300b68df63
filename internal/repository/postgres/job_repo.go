package postgres

import (
	"context"
	"time"

	"event-staffing-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type jobRow struct {
	ID                 string    `db:"id"`
	EventID            string    `db:"event_id"`
	Title              string    `db:"title"`
	Description        *string   `db:"description"`
	PositionsAvailable int       `db:"positions_available"`
	PositionsFilled    int       `db:"positions_filled"`
	HourlyRate         *float64  `db:"hourly_rate"`
	ShiftStart         time.Time `db:"shift_start"`
	ShiftEnd           time.Time `db:"shift_end"`
	Status             string    `db:"status"`
	Requirements       []string  `db:"requirements"`
	SupervisorID       *string   `db:"supervisor_id"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`

	EventTitle     string    `db:"event_title"`
	EventLocation  string    `db:"event_location"`
	EventStartDate time.Time `db:"event_start_date"`
	EventEndDate   time.Time `db:"event_end_date"`
	CompanyID      string    `db:"company_id"`
	CompanyName    string    `db:"company_name"`
}

const jobSelect = `
	SELECT
		j.id, j.event_id, j.title, j.description, j.positions_available, j.positions_filled,
		j.hourly_rate, j.shift_start, j.shift_end, j.status,
		COALESCE(j.requirements, '{}') AS requirements, j.supervisor_id,
		j.created_at, j.updated_at,
		e.title AS event_title, e.location AS event_location,
		e.start_date AS event_start_date, e.end_date AS event_end_date,
		e.company_id, COALESCE(c.name, 'Unknown Company') AS company_name
	FROM jobs j
	JOIN events e ON e.id = j.event_id
	LEFT JOIN companies c ON c.id = e.company_id`

func jobToDomain(r jobRow) domain.Job {
	requirements := r.Requirements
	if requirements == nil {
		requirements = []string{}
	}
	return domain.Job{
		ID:                 r.ID,
		EventID:            r.EventID,
		Title:              r.Title,
		Description:        r.Description,
		PositionsAvailable: r.PositionsAvailable,
		PositionsFilled:    r.PositionsFilled,
		HourlyRate:         r.HourlyRate,
		ShiftStart:         r.ShiftStart,
		ShiftEnd:           r.ShiftEnd,
		Status:             domain.JobStatus(r.Status),
		Requirements:       requirements,
		SupervisorID:       r.SupervisorID,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		Event: &domain.JobEventSummary{
			ID:          r.EventID,
			Title:       r.EventTitle,
			Location:    r.EventLocation,
			StartDate:   r.EventStartDate,
			EndDate:     r.EventEndDate,
			CompanyID:   r.CompanyID,
			CompanyName: r.CompanyName,
		},
	}
}

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	if job.Status == "" {
		job.Status = domain.JobStatusOpen
	}
	query := `INSERT INTO jobs (event_id, title, description, positions_available, positions_filled,
                hourly_rate, shift_start, shift_end, status, requirements, supervisor_id)
              VALUES ($1, $2, $3, $4, 0, $5, $6, $7, $8, $9, $10)
              RETURNING id, positions_filled, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		job.EventID, job.Title, job.Description, job.PositionsAvailable,
		job.HourlyRate, job.ShiftStart, job.ShiftEnd, job.Status,
		pq.Array(job.Requirements), job.SupervisorID,
	).Scan(&job.ID, &job.PositionsFilled, &job.CreatedAt, &job.UpdatedAt)
	return wrapErr("jobs.insert", err)
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	rows, err := r.db.Query(ctx, jobSelect+` WHERE j.id = $1`, id)
	if err != nil {
		return nil, wrapErr("jobs.get", err)
	}
	job, err := collectOne(rows, jobToDomain)
	return job, wrapErr("jobs.get", err)
}

// FetchOpen lists open jobs, soonest shift first, with the total count.
func (r *jobRepo) FetchOpen(ctx context.Context, limit, offset int) ([]domain.Job, int64, error) {
	rows, err := r.db.Query(ctx, jobSelect+`
		WHERE j.status = 'open'
		ORDER BY j.shift_start ASC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, wrapErr("jobs.list_open", err)
	}
	jobs, err := collect(rows, jobToDomain)
	if err != nil {
		return nil, 0, wrapErr("jobs.list_open", err)
	}

	total, err := r.CountOpen(ctx)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *jobRepo) FetchByCompanyID(ctx context.Context, companyID string) ([]domain.Job, error) {
	rows, err := r.db.Query(ctx, jobSelect+` WHERE e.company_id = $1 ORDER BY j.created_at DESC`, companyID)
	if err != nil {
		return nil, wrapErr("jobs.list_by_company", err)
	}
	jobs, err := collect(rows, jobToDomain)
	return jobs, wrapErr("jobs.list_by_company", err)
}

func (r *jobRepo) FetchBySupervisorID(ctx context.Context, supervisorID string) ([]domain.Job, error) {
	rows, err := r.db.Query(ctx, jobSelect+` WHERE j.supervisor_id = $1 ORDER BY j.shift_start ASC`, supervisorID)
	if err != nil {
		return nil, wrapErr("jobs.list_by_supervisor", err)
	}
	jobs, err := collect(rows, jobToDomain)
	return jobs, wrapErr("jobs.list_by_supervisor", err)
}

// Update rewrites the editable fields. positions_available may not drop
// below positions_filled; the row is left untouched and not found is returned.
func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `UPDATE jobs SET title = $2, description = $3, positions_available = $4,
                hourly_rate = $5, shift_start = $6, shift_end = $7,
                requirements = $8, supervisor_id = $9, updated_at = NOW()
              WHERE id = $1 AND positions_filled <= $4
              RETURNING positions_filled, status, updated_at`
	var status string
	err := r.db.QueryRow(ctx, query,
		job.ID, job.Title, job.Description, job.PositionsAvailable,
		job.HourlyRate, job.ShiftStart, job.ShiftEnd,
		pq.Array(job.Requirements), job.SupervisorID,
	).Scan(&job.PositionsFilled, &status, &job.UpdatedAt)
	if err != nil {
		return wrapErr("jobs.update", err)
	}
	job.Status = domain.JobStatus(status)
	return nil
}

func (r *jobRepo) UpdateStatus(ctx context.Context, id string, status domain.JobStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE jobs SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return wrapErr("jobs.update_status", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("jobs.update_status")
	}
	return nil
}

func (r *jobRepo) CountOpen(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE status = 'open'`).Scan(&total)
	return total, wrapErr("jobs.count_open", err)
}
