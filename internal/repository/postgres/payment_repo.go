package postgres

import (
	"context"
	"time"

	"event-staffing-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type paymentRow struct {
	ID           string    `db:"id"`
	JobID        string    `db:"job_id"`
	CompanyID    string    `db:"company_id"`
	PromoterID   string    `db:"promoter_id"`
	Amount       float64   `db:"amount"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	JobTitle     *string   `db:"job_title"`
	PromoterName *string   `db:"promoter_name"`
}

const paymentSelect = `
	SELECT pay.id, pay.job_id, pay.company_id, pay.promoter_id, pay.amount::float8 AS amount,
		pay.status, pay.created_at, pay.updated_at,
		j.title AS job_title, p.full_name AS promoter_name
	FROM payments pay
	LEFT JOIN jobs j ON j.id = pay.job_id
	LEFT JOIN profiles p ON p.id = pay.promoter_id`

func paymentToDomain(r paymentRow) domain.Payment {
	return domain.Payment{
		ID:           r.ID,
		JobID:        r.JobID,
		CompanyID:    r.CompanyID,
		PromoterID:   r.PromoterID,
		Amount:       r.Amount,
		Status:       domain.PaymentStatus(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		JobTitle:     r.JobTitle,
		PromoterName: r.PromoterName,
	}
}

type payoutRow struct {
	ID          string    `db:"id"`
	PromoterID  string    `db:"promoter_id"`
	Amount      float64   `db:"amount"`
	BankDetails string    `db:"bank_details"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

const payoutColumns = `id, promoter_id, amount::float8 AS amount, bank_details, status, created_at`

func payoutToDomain(r payoutRow) domain.PayoutRequest {
	return domain.PayoutRequest{
		ID:          r.ID,
		PromoterID:  r.PromoterID,
		Amount:      r.Amount,
		BankDetails: r.BankDetails,
		Status:      domain.PayoutStatus(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}

type earningsRow struct {
	TotalEarned        float64 `db:"total_earned"`
	PendingEarnings    float64 `db:"pending_earnings"`
	AvailableForPayout float64 `db:"available_for_payout"`
}

func earningsToDomain(r earningsRow) domain.Earnings {
	return domain.Earnings{
		TotalEarned:        r.TotalEarned,
		PendingEarnings:    r.PendingEarnings,
		AvailableForPayout: r.AvailableForPayout,
	}
}

type paymentRepo struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) domain.PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	p.Status = domain.PaymentStatusPending
	query := `INSERT INTO payments (job_id, company_id, promoter_id, amount, status)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, p.JobID, p.CompanyID, p.PromoterID, p.Amount, p.Status).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return wrapErr("payments.insert", err)
}

func (r *paymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	rows, err := r.db.Query(ctx, paymentSelect+` WHERE pay.id = $1`, id)
	if err != nil {
		return nil, wrapErr("payments.get", err)
	}
	p, err := collectOne(rows, paymentToDomain)
	return p, wrapErr("payments.get", err)
}

func (r *paymentRepo) FetchByCompanyID(ctx context.Context, companyID string) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx, paymentSelect+` WHERE pay.company_id = $1 ORDER BY pay.created_at DESC`, companyID)
	if err != nil {
		return nil, wrapErr("payments.list_by_company", err)
	}
	list, err := collect(rows, paymentToDomain)
	return list, wrapErr("payments.list_by_company", err)
}

func (r *paymentRepo) FetchByPromoterID(ctx context.Context, promoterID string) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx, paymentSelect+` WHERE pay.promoter_id = $1 ORDER BY pay.created_at DESC`, promoterID)
	if err != nil {
		return nil, wrapErr("payments.list_by_promoter", err)
	}
	list, err := collect(rows, paymentToDomain)
	return list, wrapErr("payments.list_by_promoter", err)
}

func (r *paymentRepo) TransitionStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE payments SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return wrapErr("payments.transition", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE id = $1)`, id).Scan(&exists); err != nil {
			return wrapErr("payments.transition", err)
		}
		if !exists {
			return notFound("payments.transition")
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

// CalculateEarnings delegates to the calculate_promoter_earnings stored function.
func (r *paymentRepo) CalculateEarnings(ctx context.Context, promoterID string) (*domain.Earnings, error) {
	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(total_earned, 0)::float8 AS total_earned,
			COALESCE(pending_earnings, 0)::float8 AS pending_earnings,
			COALESCE(available_for_payout, 0)::float8 AS available_for_payout
		FROM calculate_promoter_earnings($1)`, promoterID)
	if err != nil {
		return nil, wrapErr("rpc.calculate_promoter_earnings", err)
	}
	e, err := collectOne(rows, earningsToDomain)
	return e, wrapErr("rpc.calculate_promoter_earnings", err)
}

func (r *paymentRepo) CreatePayoutRequest(ctx context.Context, req *domain.PayoutRequest) error {
	req.Status = domain.PayoutStatusPending
	query := `INSERT INTO payout_requests (promoter_id, amount, bank_details, status)
              VALUES ($1, $2, $3, $4)
              RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, req.PromoterID, req.Amount, req.BankDetails, req.Status).
		Scan(&req.ID, &req.CreatedAt)
	return wrapErr("payout_requests.insert", err)
}

func (r *paymentRepo) FetchPayoutRequests(ctx context.Context, promoterID string) ([]domain.PayoutRequest, error) {
	rows, err := r.db.Query(ctx, `SELECT `+payoutColumns+` FROM payout_requests
		WHERE promoter_id = $1 ORDER BY created_at DESC`, promoterID)
	if err != nil {
		return nil, wrapErr("payout_requests.list", err)
	}
	list, err := collect(rows, payoutToDomain)
	return list, wrapErr("payout_requests.list", err)
}
