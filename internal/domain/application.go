package domain

import (
	"context"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// JobApplication is unique per (JobID, PromoterID); the backend enforces it.
type JobApplication struct {
	ID         string            `json:"id"`
	JobID      string            `json:"jobId"`
	PromoterID string            `json:"promoterId"`
	Status     ApplicationStatus `json:"status"`
	Message    *string           `json:"message,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`

	// Joined data for list responses
	JobTitle         *string  `json:"jobTitle,omitempty"`
	PromoterName     *string  `json:"promoterName,omitempty"`
	PromoterAvatar   *string  `json:"promoterAvatarUrl,omitempty"`
	PromoterAvgScore *float64 `json:"promoterAverageRating,omitempty"`
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *JobApplication) error
	GetByID(ctx context.Context, id string) (*JobApplication, error)
	FetchByJobID(ctx context.Context, jobID string) ([]JobApplication, error)
	FetchByPromoterID(ctx context.Context, promoterID string) ([]JobApplication, error)
	// Approve marks the application approved and fills one position in the
	// same transaction. Returns ErrJobFull when no position is left.
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	CountPendingForCompany(ctx context.Context, companyID string) (int64, error)
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, promoterID, jobID string, message *string) (*JobApplication, error)
	ListMyApplications(ctx context.Context, promoterID string) ([]JobApplication, error)
	ListJobApplications(ctx context.Context, userID, jobID string) ([]JobApplication, error)
	ReviewApplication(ctx context.Context, userID, applicationID string, approve bool) error
}
