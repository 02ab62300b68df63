package domain

import (
	"context"
	"time"
)

// Company is owned by exactly one company-type profile.
type Company struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	LogoURL     *string   `json:"logoUrl,omitempty"`
	Website     *string   `json:"website,omitempty"`
	Industry    *string   `json:"industry,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CompanyInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Website     *string `json:"website" validate:"omitempty,url"`
	Industry    *string `json:"industry" validate:"omitempty,max=80"`
}

type CompanyRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Company, error)
	GetByID(ctx context.Context, id string) (*Company, error)
	Upsert(ctx context.Context, company *Company) error
	UpdateLogo(ctx context.Context, id, logoURL string) error
}

type CompanyUsecase interface {
	GetMyCompany(ctx context.Context, userID string) (*Company, error)
	SaveMyCompany(ctx context.Context, userID string, input CompanyInput) (*Company, error)
	UploadLogo(ctx context.Context, userID string, upload FileUpload) (*Company, error)
}
