package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/apperror"
	"event-staffing-backend/pkg/logger"
	"event-staffing-backend/pkg/security"

	"github.com/go-playground/validator/v10"
)

type authUsecase struct {
	auth        domain.AuthClient
	profileRepo domain.ProfileRepository
	tracker     *security.LoginTracker
	validate    *validator.Validate
}

func NewAuthUsecase(
	auth domain.AuthClient,
	profileRepo domain.ProfileRepository,
	tracker *security.LoginTracker,
	validate *validator.Validate,
) domain.AuthUsecase {
	return &authUsecase{
		auth:        auth,
		profileRepo: profileRepo,
		tracker:     tracker,
		validate:    validate,
	}
}

// SignIn checks the brute-force block, signs in against the auth provider and
// records the outcome for the email and client IP.
func (u *authUsecase) SignIn(ctx context.Context, key, email, password, clientIP string) (*domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperror.BadRequest("Email and password are required")
	}

	blocked, err := u.tracker.IsBlocked(ctx, email, clientIP)
	if err != nil {
		logger.Log.Warn("Login block check failed", "error", err)
	}
	if blocked {
		return nil, apperror.TooManyRequests("Too many failed login attempts. Please try again later")
	}

	session, err := u.auth.SignInWithPassword(ctx, key, email, password)
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) && authErr.Kind == domain.AuthInvalidCredentials {
			nowBlocked, _, trackErr := u.tracker.RecordFailedAttempt(ctx, email, clientIP)
			if trackErr != nil {
				logger.Log.Warn("Failed to record login attempt", "error", trackErr)
			}
			if nowBlocked {
				return nil, apperror.TooManyRequests("Too many failed login attempts. Please try again later")
			}
		}
		return nil, authFailure(err)
	}

	if err := u.tracker.ClearAttempts(ctx, email, clientIP); err != nil {
		logger.Log.Warn("Failed to clear login attempts", "error", err)
	}
	return session, nil
}

// SignUp registers the identity. The session is nil while email
// confirmation is pending; the profile is then provisioned on first sign-in.
func (u *authUsecase) SignUp(ctx context.Context, key string, input domain.RegisterInput) (*domain.Session, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}

	attrs := domain.ProfileAttributes{
		FullName: input.FullName,
		Phone:    input.Phone,
		UserType: input.UserType,
	}
	session, identity, err := u.auth.SignUp(ctx, key, input.Email, input.Password, attrs)
	if err != nil {
		return nil, authFailure(err)
	}
	if session == nil || identity == nil {
		return nil, nil
	}

	provisioned := *identity
	if provisioned.Metadata.UserType == "" {
		provisioned.Metadata = attrs
	}
	if _, err := u.EnsureProfile(ctx, provisioned); err != nil {
		return nil, err
	}
	return session, nil
}

// EnsureProfile returns the profile for identity, creating it on first use.
// A missing role falls back to promoter and a missing name to the email's
// local part.
func (u *authUsecase) EnsureProfile(ctx context.Context, identity domain.Identity) (*domain.Profile, error) {
	profile, err := u.profileRepo.GetByID(ctx, identity.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, failure("Failed to load your profile", err)
	}

	profile = defaultProfile(identity)
	if err := u.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// provisioned concurrently by another request
			existing, getErr := u.profileRepo.GetByID(ctx, identity.ID)
			if getErr != nil {
				return nil, failure("Failed to load your profile", getErr)
			}
			return existing, nil
		}
		return nil, failure("Failed to create your profile", err)
	}

	logger.Log.Info("Profile provisioned", "user_id", profile.ID, "user_type", profile.UserType)
	return profile, nil
}

func (u *authUsecase) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	profile, err := u.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupFailure("Profile not found", "Failed to load your profile", err)
	}
	return profile, nil
}

func defaultProfile(identity domain.Identity) *domain.Profile {
	fullName := strings.TrimSpace(identity.Metadata.FullName)
	if fullName == "" {
		fullName, _, _ = strings.Cut(identity.Email, "@")
	}
	if fullName == "" {
		fullName = "User"
	}

	userType := identity.Metadata.UserType
	if !userType.Valid() {
		userType = domain.UserTypePromoter
	}

	profile := &domain.Profile{
		ID:       identity.ID,
		FullName: fullName,
		UserType: userType,
	}
	if identity.Metadata.Phone != "" {
		profile.Phone = strPtr(identity.Metadata.Phone)
	}
	return profile
}

// authFailure maps auth provider errors to the messages shown on the login
// and register forms.
func authFailure(err error) error {
	var authErr *domain.AuthError
	if !errors.As(err, &authErr) {
		return apperror.Wrap("Authentication failed. Please try again", err)
	}

	switch authErr.Kind {
	case domain.AuthInvalidCredentials:
		return apperror.New(http.StatusUnauthorized, "Invalid email or password", err)
	case domain.AuthEmailNotConfirmed:
		return apperror.New(http.StatusForbidden, "Please confirm your email address before signing in", err)
	case domain.AuthRateLimited:
		return apperror.New(http.StatusTooManyRequests, "Too many attempts. Please wait a moment and try again", err)
	case domain.AuthUserNotFound:
		return apperror.New(http.StatusNotFound, "No account found with this email", err)
	case domain.AuthUserExists:
		return apperror.New(http.StatusConflict, "An account with this email already exists", err)
	case domain.AuthWeakPassword:
		return apperror.New(http.StatusBadRequest, "Password is too weak", err)
	case domain.AuthSessionMissing:
		return apperror.New(http.StatusUnauthorized, "Your session has expired. Please sign in again", err)
	default:
		return apperror.New(http.StatusServiceUnavailable, "Authentication service is unavailable. Please try again later", err)
	}
}
