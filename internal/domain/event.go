package domain

import (
	"context"
	"time"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

type Event struct {
	ID          string      `json:"id"`
	CompanyID   string      `json:"companyId"`
	Title       string      `json:"title"`
	Description *string     `json:"description,omitempty"`
	Location    string      `json:"location"`
	StartDate   time.Time   `json:"startDate"`
	EndDate     time.Time   `json:"endDate"`
	Status      EventStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type EventInput struct {
	Title       string      `json:"title" validate:"required,min=3,max=150"`
	Description *string     `json:"description" validate:"omitempty,max=5000"`
	Location    string      `json:"location" validate:"required,max=200"`
	StartDate   time.Time   `json:"startDate" validate:"required"`
	EndDate     time.Time   `json:"endDate" validate:"required,gtefield=StartDate"`
	Status      EventStatus `json:"status" validate:"omitempty,oneof=draft published completed cancelled"`
}

type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	FetchByCompanyID(ctx context.Context, companyID string) ([]Event, error)
	FetchInRange(ctx context.Context, filter EventFilter) ([]Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
	CountUpcoming(ctx context.Context, from time.Time) (int64, error)
}

// EventFilter narrows FetchInRange. Exactly one of the owner fields is set.
type EventFilter struct {
	From         time.Time
	To           time.Time
	CompanyID    string // events owned by the company
	PromoterID   string // events with an approved application by the promoter
	SupervisorID string // events with a job supervised by the user
}

type EventUsecase interface {
	ListMyEvents(ctx context.Context, userID string) ([]Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	CreateEvent(ctx context.Context, userID string, input EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, userID, id string, input EventInput) (*Event, error)
	DeleteEvent(ctx context.Context, userID, id string) error
	ListCalendar(ctx context.Context, viewer Viewer, from, to time.Time) ([]Event, error)
}

// Viewer is the signed-in caller as seen by use-cases.
type Viewer struct {
	UserID   string
	UserType UserType
}
