package usecase

import (
	"context"
	"strings"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/apperror"
	"event-staffing-backend/pkg/querycache"

	"github.com/go-playground/validator/v10"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type jobUsecase struct {
	jobRepo     domain.JobRepository
	eventRepo   domain.EventRepository
	companyRepo domain.CompanyRepository
	cache       *querycache.Cache
	validate    *validator.Validate
}

func NewJobUsecase(
	jobRepo domain.JobRepository,
	eventRepo domain.EventRepository,
	companyRepo domain.CompanyRepository,
	cache *querycache.Cache,
	validate *validator.Validate,
) domain.JobUsecase {
	return &jobUsecase{
		jobRepo:     jobRepo,
		eventRepo:   eventRepo,
		companyRepo: companyRepo,
		cache:       cache,
		validate:    validate,
	}
}

type jobPage struct {
	Jobs  []domain.Job `json:"jobs"`
	Total int64        `json:"total"`
}

func (u *jobUsecase) ListOpenJobs(ctx context.Context, page, pageSize int) ([]domain.Job, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var result jobPage
	err := u.cache.Fetch(ctx, querycache.Key("jobs.open", page, pageSize), &result, func() (interface{}, error) {
		jobs, total, err := u.jobRepo.FetchOpen(ctx, pageSize, (page-1)*pageSize)
		if err != nil {
			return nil, err
		}
		return jobPage{Jobs: jobs, Total: total}, nil
	})
	if err != nil {
		return nil, 0, failure("Failed to load jobs", err)
	}
	return result.Jobs, result.Total, nil
}

func (u *jobUsecase) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	var job domain.Job
	err := u.cache.Fetch(ctx, querycache.Key("jobs.get", id), &job, func() (interface{}, error) {
		return u.jobRepo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, lookupFailure("Job not found", "Failed to load the job", err)
	}
	return &job, nil
}

func (u *jobUsecase) ListCompanyJobs(ctx context.Context, userID string) ([]domain.Job, error) {
	company, err := companyOf(ctx, u.companyRepo, userID)
	if err != nil {
		return nil, err
	}
	jobs, err := u.jobRepo.FetchByCompanyID(ctx, company.ID)
	if err != nil {
		return nil, failure("Failed to load your jobs", err)
	}
	return jobs, nil
}

func (u *jobUsecase) ListSupervisedJobs(ctx context.Context, supervisorID string) ([]domain.Job, error) {
	jobs, err := u.jobRepo.FetchBySupervisorID(ctx, supervisorID)
	if err != nil {
		return nil, failure("Failed to load your assignments", err)
	}
	return jobs, nil
}

func (u *jobUsecase) CreateJob(ctx context.Context, userID string, input domain.JobInput) (*domain.Job, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	company, err := companyOf(ctx, u.companyRepo, userID)
	if err != nil {
		return nil, err
	}
	if err := u.checkEventOwner(ctx, input.EventID, company.ID); err != nil {
		return nil, err
	}

	job := &domain.Job{
		EventID:            input.EventID,
		Title:              input.Title,
		Description:        input.Description,
		PositionsAvailable: input.PositionsAvailable,
		HourlyRate:         input.HourlyRate,
		ShiftStart:         input.ShiftStart,
		ShiftEnd:           input.ShiftEnd,
		Status:             domain.JobStatusOpen,
		Requirements:       cleanRequirements(input.Requirements),
		SupervisorID:       input.SupervisorID,
	}
	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, failure("Failed to create the job", err)
	}

	u.invalidate(ctx, job.ID)
	return job, nil
}

func (u *jobUsecase) UpdateJob(ctx context.Context, userID, id string, input domain.JobInput) (*domain.Job, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	job, company, err := u.ownedJob(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if input.EventID != job.EventID {
		if err := u.checkEventOwner(ctx, input.EventID, company.ID); err != nil {
			return nil, err
		}
	}
	if input.PositionsAvailable < job.PositionsFilled {
		return nil, apperror.BadRequest("Positions cannot be fewer than the promoters already approved")
	}

	job.EventID = input.EventID
	job.Title = input.Title
	job.Description = input.Description
	job.PositionsAvailable = input.PositionsAvailable
	job.HourlyRate = input.HourlyRate
	job.ShiftStart = input.ShiftStart
	job.ShiftEnd = input.ShiftEnd
	job.Requirements = cleanRequirements(input.Requirements)
	job.SupervisorID = input.SupervisorID
	if err := u.jobRepo.Update(ctx, job); err != nil {
		return nil, lookupFailure("Job not found", "Failed to update the job", err)
	}

	u.invalidate(ctx, job.ID)
	return job, nil
}

func (u *jobUsecase) UpdateJobStatus(ctx context.Context, userID, id string, status domain.JobStatus) error {
	switch status {
	case domain.JobStatusOpen, domain.JobStatusFilled, domain.JobStatusClosed, domain.JobStatusCancelled:
	default:
		return apperror.BadRequest("Unknown job status")
	}
	job, _, err := u.ownedJob(ctx, userID, id)
	if err != nil {
		return err
	}
	if status == domain.JobStatusOpen && job.SlotsLeft() == 0 {
		return apperror.BadRequest("A job without free positions cannot be reopened")
	}
	if err := u.jobRepo.UpdateStatus(ctx, id, status); err != nil {
		return lookupFailure("Job not found", "Failed to update the job status", err)
	}

	u.invalidate(ctx, id)
	return nil
}

// ownedJob loads the job and checks it belongs to the caller's company.
func (u *jobUsecase) ownedJob(ctx context.Context, userID, id string) (*domain.Job, *domain.Company, error) {
	company, err := companyOf(ctx, u.companyRepo, userID)
	if err != nil {
		return nil, nil, err
	}
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, lookupFailure("Job not found", "Failed to load the job", err)
	}
	if job.Event == nil || job.Event.CompanyID != company.ID {
		return nil, nil, apperror.Forbidden("You can only manage your own jobs")
	}
	return job, company, nil
}

func (u *jobUsecase) checkEventOwner(ctx context.Context, eventID, companyID string) error {
	event, err := u.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return lookupFailure("Event not found", "Failed to load the event", err)
	}
	if event.CompanyID != companyID {
		return apperror.Forbidden("You can only add jobs to your own events")
	}
	return nil
}

func (u *jobUsecase) invalidate(ctx context.Context, jobID string) {
	u.cache.Invalidate(ctx,
		querycache.Prefix("jobs.open"),
		querycache.Key("jobs.get", jobID),
		querycache.Key("stats.platform"),
	)
}

func cleanRequirements(in []string) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
