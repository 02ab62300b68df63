package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/apperror"
	"event-staffing-backend/pkg/imaging"
	"event-staffing-backend/pkg/security"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type profileUsecase struct {
	profileRepo domain.ProfileRepository
	storage     domain.FileStorage
	validate    *validator.Validate
}

// NewProfileUsecase wires the profile use-case. storage may be nil, in which
// case avatar uploads are refused.
func NewProfileUsecase(profileRepo domain.ProfileRepository, storage domain.FileStorage, validate *validator.Validate) domain.ProfileUsecase {
	return &profileUsecase{
		profileRepo: profileRepo,
		storage:     storage,
		validate:    validate,
	}
}

func (u *profileUsecase) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	profile, err := u.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupFailure("Profile not found", "Failed to load your profile", err)
	}
	return profile, nil
}

// UpdateProfile writes the editable fields only. The role cannot change.
func (u *profileUsecase) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Profile, error) {
	if update.FullName != nil {
		trimmed := strings.TrimSpace(*update.FullName)
		update.FullName = &trimmed
	}
	if update.Phone != nil {
		trimmed := strings.TrimSpace(*update.Phone)
		update.Phone = &trimmed
	}
	update.AvatarURL = nil

	if err := validateInput(u.validate, update); err != nil {
		return nil, err
	}

	profile, err := u.profileRepo.Update(ctx, id, update)
	if err != nil {
		return nil, lookupFailure("Profile not found", "Failed to update your profile", err)
	}
	return profile, nil
}

func (u *profileUsecase) UploadAvatar(ctx context.Context, id string, upload domain.FileUpload) (*domain.Profile, error) {
	if u.storage == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "File uploads are not available right now", nil)
	}

	data, err := prepareImage(upload)
	if err != nil {
		return nil, err
	}

	url, err := u.storage.Upload(ctx, fmt.Sprintf("avatars/%s/%s.jpg", id, uuid.NewString()), "image/jpeg", data)
	if err != nil {
		return nil, apperror.Wrap("Failed to upload your photo", err)
	}

	profile, err := u.profileRepo.Update(ctx, id, domain.ProfileUpdate{AvatarURL: &url})
	if err != nil {
		return nil, lookupFailure("Profile not found", "Failed to save your photo", err)
	}
	return profile, nil
}

// prepareImage validates an uploaded image and downscales it to a JPEG.
func prepareImage(upload domain.FileUpload) ([]byte, error) {
	if _, err := security.ValidateImage(upload.Filename, upload.Data); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	data, err := imaging.Downscale(upload.Data, imaging.AvatarMaxDimension, imaging.DefaultQuality)
	if err != nil {
		return nil, apperror.New(http.StatusBadRequest, "The image could not be processed", err)
	}
	return data, nil
}
