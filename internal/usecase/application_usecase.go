package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/apperror"
	"event-staffing-backend/pkg/querycache"
)

const maxApplicationMessage = 1000

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	jobRepo         domain.JobRepository
	companyRepo     domain.CompanyRepository
	notifier        domain.NotificationUsecase
	cache           *querycache.Cache
}

func NewApplicationUsecase(
	applicationRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	companyRepo domain.CompanyRepository,
	notifier domain.NotificationUsecase,
	cache *querycache.Cache,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		companyRepo:     companyRepo,
		notifier:        notifier,
		cache:           cache,
	}
}

// Apply submits a pending application. A second application to the same job
// is rejected with a specific message.
func (uc *applicationUsecase) Apply(ctx context.Context, promoterID, jobID string, message *string) (*domain.JobApplication, error) {
	if message != nil {
		trimmed := strings.TrimSpace(*message)
		if len(trimmed) > maxApplicationMessage {
			return nil, apperror.BadRequest("Your message must be at most 1000 characters")
		}
		message = nil
		if trimmed != "" {
			message = &trimmed
		}
	}

	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, lookupFailure("Job not found", "Failed to load the job", err)
	}
	if job.Status != domain.JobStatusOpen || job.SlotsLeft() == 0 {
		return nil, apperror.BadRequest("This job is no longer accepting applications")
	}

	app := &domain.JobApplication{
		JobID:      jobID,
		PromoterID: promoterID,
		Message:    message,
	}
	if err := uc.applicationRepo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.New(http.StatusConflict, "You have already applied for this job", err)
		}
		return nil, failure("Failed to submit your application", err)
	}
	app.JobTitle = &job.Title

	if ownerID := uc.ownerOf(ctx, job); ownerID != "" {
		uc.notifier.Notify(ctx, domain.Notification{
			UserID:       ownerID,
			Title:        "New application",
			Message:      fmt.Sprintf("A promoter applied for %s", job.Title),
			Type:         domain.NotificationApplication,
			RelatedJobID: &job.ID,
		})
	}

	uc.invalidate(ctx, jobID, promoterID)
	return app, nil
}

func (uc *applicationUsecase) ListMyApplications(ctx context.Context, promoterID string) ([]domain.JobApplication, error) {
	var apps []domain.JobApplication
	err := uc.cache.Fetch(ctx, querycache.Key("applications.promoter", promoterID), &apps, func() (interface{}, error) {
		return uc.applicationRepo.FetchByPromoterID(ctx, promoterID)
	})
	if err != nil {
		return nil, failure("Failed to load your applications", err)
	}
	return apps, nil
}

// ListJobApplications is only available to the company that owns the job.
func (uc *applicationUsecase) ListJobApplications(ctx context.Context, userID, jobID string) ([]domain.JobApplication, error) {
	if _, err := uc.ownedJob(ctx, userID, jobID); err != nil {
		return nil, err
	}

	var apps []domain.JobApplication
	err := uc.cache.Fetch(ctx, querycache.Key("applications.job", jobID), &apps, func() (interface{}, error) {
		return uc.applicationRepo.FetchByJobID(ctx, jobID)
	})
	if err != nil {
		return nil, failure("Failed to load applications", err)
	}
	return apps, nil
}

// ReviewApplication approves or rejects a pending application. Approval takes
// one of the job's positions.
func (uc *applicationUsecase) ReviewApplication(ctx context.Context, userID, applicationID string, approve bool) error {
	app, err := uc.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return lookupFailure("Application not found", "Failed to load the application", err)
	}
	job, err := uc.ownedJob(ctx, userID, app.JobID)
	if err != nil {
		return err
	}

	if approve {
		err = uc.applicationRepo.Approve(ctx, applicationID)
	} else {
		err = uc.applicationRepo.Reject(ctx, applicationID)
	}
	switch {
	case errors.Is(err, domain.ErrJobFull):
		return apperror.Conflict("All positions for this job are already filled")
	case errors.Is(err, domain.ErrInvalidTransition):
		return apperror.Conflict("This application has already been reviewed")
	case err != nil:
		return lookupFailure("Application not found", "Failed to review the application", err)
	}

	title, text := "Application rejected", fmt.Sprintf("Your application for %s was not accepted", job.Title)
	if approve {
		title, text = "Application approved", fmt.Sprintf("You have been approved for %s", job.Title)
	}
	uc.notifier.Notify(ctx, domain.Notification{
		UserID:       app.PromoterID,
		Title:        title,
		Message:      text,
		Type:         domain.NotificationApplication,
		RelatedJobID: &job.ID,
	})

	uc.invalidate(ctx, app.JobID, app.PromoterID)
	return nil
}

func (uc *applicationUsecase) ownedJob(ctx context.Context, userID, jobID string) (*domain.Job, error) {
	company, err := companyOf(ctx, uc.companyRepo, userID)
	if err != nil {
		return nil, err
	}
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, lookupFailure("Job not found", "Failed to load the job", err)
	}
	if job.Event == nil || job.Event.CompanyID != company.ID {
		return nil, apperror.Forbidden("You can only review applications for your own jobs")
	}
	return job, nil
}

// ownerOf returns the user id of the company that posted job, or "" if it
// cannot be resolved.
func (uc *applicationUsecase) ownerOf(ctx context.Context, job *domain.Job) string {
	if job.Event == nil {
		return ""
	}
	company, err := uc.companyRepo.GetByID(ctx, job.Event.CompanyID)
	if err != nil {
		return ""
	}
	return company.UserID
}

func (uc *applicationUsecase) invalidate(ctx context.Context, jobID, promoterID string) {
	uc.cache.Invalidate(ctx,
		querycache.Key("applications.job", jobID),
		querycache.Key("applications.promoter", promoterID),
		querycache.Key("jobs.get", jobID),
		querycache.Prefix("jobs.open"),
	)
}
