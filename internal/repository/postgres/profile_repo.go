package postgres

import (
	"context"
	"time"

	"event-staffing-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type profileRow struct {
	ID        string    `db:"id"`
	FullName  string    `db:"full_name"`
	Phone     *string   `db:"phone"`
	UserType  string    `db:"user_type"`
	AvatarURL *string   `db:"avatar_url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

const profileColumns = `id, full_name, phone, user_type, avatar_url, created_at, updated_at`

func profileToDomain(r profileRow) domain.Profile {
	return domain.Profile{
		ID:        r.ID,
		FullName:  r.FullName,
		Phone:     r.Phone,
		UserType:  domain.UserType(r.UserType),
		AvatarURL: r.AvatarURL,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, p *domain.Profile) error {
	query := `INSERT INTO profiles (id, full_name, phone, user_type, avatar_url)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query, p.ID, p.FullName, p.Phone, p.UserType, p.AvatarURL).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	return wrapErr("profiles.insert", err)
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	rows, err := r.db.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	if err != nil {
		return nil, wrapErr("profiles.get", err)
	}
	p, err := collectOne(rows, profileToDomain)
	return p, wrapErr("profiles.get", err)
}

// Update only touches the fields set in update; user_type is never written.
func (r *profileRepo) Update(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Profile, error) {
	query := `UPDATE profiles SET
                full_name = COALESCE($2, full_name),
                phone = COALESCE($3, phone),
                avatar_url = COALESCE($4, avatar_url),
                updated_at = NOW()
              WHERE id = $1
              RETURNING ` + profileColumns
	rows, err := r.db.Query(ctx, query, id, update.FullName, update.Phone, update.AvatarURL)
	if err != nil {
		return nil, wrapErr("profiles.update", err)
	}
	p, err := collectOne(rows, profileToDomain)
	return p, wrapErr("profiles.update", err)
}

func (r *profileRepo) CountByType(ctx context.Context) (map[domain.UserType]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT user_type, COUNT(*) FROM profiles GROUP BY user_type`)
	if err != nil {
		return nil, wrapErr("profiles.count", err)
	}
	defer rows.Close()

	counts := make(map[domain.UserType]int64)
	for rows.Next() {
		var userType string
		var n int64
		if err := rows.Scan(&userType, &n); err != nil {
			return nil, wrapErr("profiles.count", err)
		}
		counts[domain.UserType(userType)] = n
	}
	return counts, wrapErr("profiles.count", rows.Err())
}
