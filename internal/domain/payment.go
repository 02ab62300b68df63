package domain

import (
	"context"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// Payment status is owned by the backend; this service only ever requests
// pending -> processing.
type Payment struct {
	ID         string        `json:"id"`
	JobID      string        `json:"jobId"`
	CompanyID  string        `json:"companyId"`
	PromoterID string        `json:"promoterId"`
	Amount     float64       `json:"amount"`
	Status     PaymentStatus `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`

	JobTitle     *string `json:"jobTitle,omitempty"`
	PromoterName *string `json:"promoterName,omitempty"`
}

type PaymentInput struct {
	JobID      string  `json:"jobId" validate:"required,uuid"`
	PromoterID string  `json:"promoterId" validate:"required,uuid"`
	Amount     float64 `json:"amount" validate:"gt=0"`
}

// Earnings is computed remotely by calculate_promoter_earnings.
type Earnings struct {
	TotalEarned        float64 `json:"totalEarned"`
	PendingEarnings    float64 `json:"pendingEarnings"`
	AvailableForPayout float64 `json:"availableForPayout"`
}

type PayoutStatus string

const (
	PayoutStatusPending  PayoutStatus = "pending"
	PayoutStatusApproved PayoutStatus = "approved"
	PayoutStatusPaid     PayoutStatus = "paid"
	PayoutStatusRejected PayoutStatus = "rejected"
)

type PayoutRequest struct {
	ID          string       `json:"id"`
	PromoterID  string       `json:"promoterId"`
	Amount      float64      `json:"amount"`
	BankDetails string       `json:"bankDetails"`
	Status      PayoutStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type PayoutInput struct {
	Amount      float64 `json:"amount" validate:"gt=0"`
	BankDetails string  `json:"bankDetails" validate:"required,notblank,max=500"`
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	FetchByCompanyID(ctx context.Context, companyID string) ([]Payment, error)
	FetchByPromoterID(ctx context.Context, promoterID string) ([]Payment, error)
	// TransitionStatus moves a payment from one status to another and
	// returns ErrInvalidTransition if the current status is not from.
	TransitionStatus(ctx context.Context, id string, from, to PaymentStatus) error
	CalculateEarnings(ctx context.Context, promoterID string) (*Earnings, error)
	CreatePayoutRequest(ctx context.Context, req *PayoutRequest) error
	FetchPayoutRequests(ctx context.Context, promoterID string) ([]PayoutRequest, error)
}

type PaymentUsecase interface {
	ListCompanyPayments(ctx context.Context, userID string) ([]Payment, error)
	ListPromoterPayments(ctx context.Context, promoterID string) ([]Payment, error)
	CreatePayment(ctx context.Context, userID string, input PaymentInput) (*Payment, error)
	RequestProcessing(ctx context.Context, userID, paymentID string) error
	CalculateEarnings(ctx context.Context, promoterID string) (*Earnings, error)
	RequestPayout(ctx context.Context, promoterID string, input PayoutInput) (*PayoutRequest, error)
	ListPayoutRequests(ctx context.Context, promoterID string) ([]PayoutRequest, error)
	// ExportCompanyPayments renders the company's payments as "xlsx" or "csv".
	ExportCompanyPayments(ctx context.Context, userID, format string) ([]byte, string, error)
}
