package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type companyUsecase struct {
	companyRepo domain.CompanyRepository
	storage     domain.FileStorage
	validate    *validator.Validate
}

func NewCompanyUsecase(companyRepo domain.CompanyRepository, storage domain.FileStorage, validate *validator.Validate) domain.CompanyUsecase {
	return &companyUsecase{
		companyRepo: companyRepo,
		storage:     storage,
		validate:    validate,
	}
}

func (u *companyUsecase) GetMyCompany(ctx context.Context, userID string) (*domain.Company, error) {
	company, err := u.companyRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, lookupFailure("Company profile not found", "Failed to load your company profile", err)
	}
	return company, nil
}

func (u *companyUsecase) SaveMyCompany(ctx context.Context, userID string, input domain.CompanyInput) (*domain.Company, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}

	company := &domain.Company{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Website:     input.Website,
		Industry:    input.Industry,
	}
	if err := u.companyRepo.Upsert(ctx, company); err != nil {
		return nil, failure("Failed to save your company profile", err)
	}
	return company, nil
}

func (u *companyUsecase) UploadLogo(ctx context.Context, userID string, upload domain.FileUpload) (*domain.Company, error) {
	if u.storage == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "File uploads are not available right now", nil)
	}

	company, err := u.companyRepo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.BadRequest("Save your company profile before uploading a logo")
	}
	if err != nil {
		return nil, failure("Failed to load your company profile", err)
	}

	data, err := prepareImage(upload)
	if err != nil {
		return nil, err
	}

	url, err := u.storage.Upload(ctx, fmt.Sprintf("logos/%s/%s.jpg", company.ID, uuid.NewString()), "image/jpeg", data)
	if err != nil {
		return nil, apperror.Wrap("Failed to upload the logo", err)
	}
	if err := u.companyRepo.UpdateLogo(ctx, company.ID, url); err != nil {
		return nil, failure("Failed to save the logo", err)
	}

	company.LogoURL = &url
	return company, nil
}

// companyOf returns the company owned by userID. Callers without one get a
// 403, since every company-side mutation needs it.
func companyOf(ctx context.Context, repo domain.CompanyRepository, userID string) (*domain.Company, error) {
	company, err := repo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Forbidden("Create your company profile first")
	}
	if err != nil {
		return nil, failure("Failed to load your company profile", err)
	}
	return company, nil
}
