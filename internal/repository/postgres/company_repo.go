package postgres

import (
	"context"
	"time"

	"event-staffing-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type companyRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	LogoURL     *string   `db:"logo_url"`
	Website     *string   `db:"website"`
	Industry    *string   `db:"industry"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const companyColumns = `id, user_id, name, description, logo_url, website, industry, created_at, updated_at`

func companyToDomain(r companyRow) domain.Company {
	return domain.Company{
		ID:          r.ID,
		UserID:      r.UserID,
		Name:        r.Name,
		Description: r.Description,
		LogoURL:     r.LogoURL,
		Website:     r.Website,
		Industry:    r.Industry,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type companyRepo struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) domain.CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) GetByUserID(ctx context.Context, userID string) (*domain.Company, error) {
	rows, err := r.db.Query(ctx, `SELECT `+companyColumns+` FROM companies WHERE user_id = $1`, userID)
	if err != nil {
		return nil, wrapErr("companies.get_by_user", err)
	}
	c, err := collectOne(rows, companyToDomain)
	return c, wrapErr("companies.get_by_user", err)
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	rows, err := r.db.Query(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	if err != nil {
		return nil, wrapErr("companies.get", err)
	}
	c, err := collectOne(rows, companyToDomain)
	return c, wrapErr("companies.get", err)
}

// Upsert creates the owner's company or updates it in place; one company per user.
func (r *companyRepo) Upsert(ctx context.Context, c *domain.Company) error {
	query := `INSERT INTO companies (user_id, name, description, website, industry)
              VALUES ($1, $2, $3, $4, $5)
              ON CONFLICT (user_id) DO UPDATE SET
                name = EXCLUDED.name,
                description = EXCLUDED.description,
                website = EXCLUDED.website,
                industry = EXCLUDED.industry,
                updated_at = NOW()
              RETURNING id, logo_url, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, c.UserID, c.Name, c.Description, c.Website, c.Industry).
		Scan(&c.ID, &c.LogoURL, &c.CreatedAt, &c.UpdatedAt)
	return wrapErr("companies.upsert", err)
}

func (r *companyRepo) UpdateLogo(ctx context.Context, id, logoURL string) error {
	tag, err := r.db.Exec(ctx, `UPDATE companies SET logo_url = $2, updated_at = NOW() WHERE id = $1`, id, logoURL)
	if err != nil {
		return wrapErr("companies.update_logo", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("companies.update_logo")
	}
	return nil
}
