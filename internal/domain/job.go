package domain

import (
	"context"
	"time"
)

type JobStatus string

const (
	JobStatusOpen      JobStatus = "open"
	JobStatusFilled    JobStatus = "filled"
	JobStatusClosed    JobStatus = "closed"
	JobStatusCancelled JobStatus = "cancelled"
)

type Job struct {
	ID                 string    `json:"id"`
	EventID            string    `json:"eventId"`
	Title              string    `json:"title"`
	Description        *string   `json:"description,omitempty"`
	PositionsAvailable int       `json:"positionsAvailable"`
	PositionsFilled    int       `json:"positionsFilled"`
	HourlyRate         *float64  `json:"hourlyRate,omitempty"`
	ShiftStart         time.Time `json:"shiftStart"`
	ShiftEnd           time.Time `json:"shiftEnd"`
	Status             JobStatus `json:"status"`
	Requirements       []string  `json:"requirements"`
	SupervisorID       *string   `json:"supervisorId,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`

	// Joined from events/companies when the query asks for it.
	Event *JobEventSummary `json:"event,omitempty"`
}

// SlotsLeft is never negative, even if the backend reports overfilled jobs.
func (j *Job) SlotsLeft() int {
	left := j.PositionsAvailable - j.PositionsFilled
	if left < 0 {
		return 0
	}
	return left
}

type JobEventSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	CompanyID   string    `json:"companyId"`
	CompanyName string    `json:"companyName"`
}

type JobInput struct {
	EventID            string    `json:"eventId" validate:"required,uuid"`
	Title              string    `json:"title" validate:"required,min=3,max=150"`
	Description        *string   `json:"description" validate:"omitempty,max=5000"`
	PositionsAvailable int       `json:"positionsAvailable" validate:"required,gte=1,lte=1000"`
	HourlyRate         *float64  `json:"hourlyRate" validate:"omitempty,gt=0"`
	ShiftStart         time.Time `json:"shiftStart" validate:"required"`
	ShiftEnd           time.Time `json:"shiftEnd" validate:"required,gtfield=ShiftStart"`
	Requirements       []string  `json:"requirements" validate:"omitempty,max=20,dive,max=200"`
	SupervisorID       *string   `json:"supervisorId" validate:"omitempty,uuid"`
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	FetchOpen(ctx context.Context, limit, offset int) ([]Job, int64, error)
	FetchByCompanyID(ctx context.Context, companyID string) ([]Job, error)
	FetchBySupervisorID(ctx context.Context, supervisorID string) ([]Job, error)
	Update(ctx context.Context, job *Job) error
	UpdateStatus(ctx context.Context, id string, status JobStatus) error
	CountOpen(ctx context.Context) (int64, error)
}

type JobUsecase interface {
	ListOpenJobs(ctx context.Context, page, pageSize int) ([]Job, int64, error)
	GetJob(ctx context.Context, id string) (*Job, error)
	ListCompanyJobs(ctx context.Context, userID string) ([]Job, error)
	ListSupervisedJobs(ctx context.Context, supervisorID string) ([]Job, error)
	CreateJob(ctx context.Context, userID string, input JobInput) (*Job, error)
	UpdateJob(ctx context.Context, userID, id string, input JobInput) (*Job, error)
	UpdateJobStatus(ctx context.Context, userID, id string, status JobStatus) error
}
