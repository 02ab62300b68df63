package postgres

import (
	"context"
	"time"

	"event-staffing-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type eventRow struct {
	ID          string    `db:"id"`
	CompanyID   string    `db:"company_id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Location    string    `db:"location"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const eventColumns = `e.id, e.company_id, e.title, e.description, e.location, e.start_date, e.end_date, e.status, e.created_at, e.updated_at`

func eventToDomain(r eventRow) domain.Event {
	return domain.Event{
		ID:          r.ID,
		CompanyID:   r.CompanyID,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Status:      domain.EventStatus(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type eventRepo struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) domain.EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, e *domain.Event) error {
	if e.Status == "" {
		e.Status = domain.EventStatusDraft
	}
	query := `INSERT INTO events (company_id, title, description, location, start_date, end_date, status)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		e.CompanyID, e.Title, e.Description, e.Location, e.StartDate, e.EndDate, e.Status,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return wrapErr("events.insert", err)
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	rows, err := r.db.Query(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = $1`, id)
	if err != nil {
		return nil, wrapErr("events.get", err)
	}
	e, err := collectOne(rows, eventToDomain)
	return e, wrapErr("events.get", err)
}

func (r *eventRepo) FetchByCompanyID(ctx context.Context, companyID string) ([]domain.Event, error) {
	rows, err := r.db.Query(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.company_id = $1 ORDER BY e.start_date DESC`, companyID)
	if err != nil {
		return nil, wrapErr("events.list_by_company", err)
	}
	events, err := collect(rows, eventToDomain)
	return events, wrapErr("events.list_by_company", err)
}

// FetchInRange returns events overlapping [From, To] visible to the owner
// named in the filter.
func (r *eventRepo) FetchInRange(ctx context.Context, f domain.EventFilter) ([]domain.Event, error) {
	var query string
	var owner string
	switch {
	case f.CompanyID != "":
		owner = f.CompanyID
		query = `SELECT ` + eventColumns + ` FROM events e
                 WHERE e.company_id = $1 AND e.start_date <= $3 AND e.end_date >= $2`
	case f.PromoterID != "":
		owner = f.PromoterID
		query = `SELECT DISTINCT ` + eventColumns + ` FROM events e
                 JOIN jobs j ON j.event_id = e.id
                 JOIN job_applications a ON a.job_id = j.id
                 WHERE a.promoter_id = $1 AND a.status = 'approved'
                   AND e.start_date <= $3 AND e.end_date >= $2`
	case f.SupervisorID != "":
		owner = f.SupervisorID
		query = `SELECT DISTINCT ` + eventColumns + ` FROM events e
                 JOIN jobs j ON j.event_id = e.id
                 WHERE j.supervisor_id = $1 AND e.start_date <= $3 AND e.end_date >= $2`
	default:
		return []domain.Event{}, nil
	}

	rows, err := r.db.Query(ctx, query+` ORDER BY e.start_date`, owner, f.From, f.To)
	if err != nil {
		return nil, wrapErr("events.list_range", err)
	}
	events, err := collect(rows, eventToDomain)
	return events, wrapErr("events.list_range", err)
}

func (r *eventRepo) Update(ctx context.Context, e *domain.Event) error {
	query := `UPDATE events SET title = $2, description = $3, location = $4,
                start_date = $5, end_date = $6, status = $7, updated_at = NOW()
              WHERE id = $1
              RETURNING updated_at`
	err := r.db.QueryRow(ctx, query,
		e.ID, e.Title, e.Description, e.Location, e.StartDate, e.EndDate, e.Status,
	).Scan(&e.UpdatedAt)
	return wrapErr("events.update", err)
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return wrapErr("events.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("events.delete")
	}
	return nil
}

func (r *eventRepo) CountUpcoming(ctx context.Context, from time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE start_date >= $1 AND status = 'published'`, from).Scan(&n)
	return n, wrapErr("events.count_upcoming", err)
}
