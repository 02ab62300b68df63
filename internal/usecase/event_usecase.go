package usecase

import (
	"context"
	"strings"
	"time"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/apperror"
	"event-staffing-backend/pkg/querycache"

	"github.com/go-playground/validator/v10"
)

type eventUsecase struct {
	eventRepo   domain.EventRepository
	companyRepo domain.CompanyRepository
	cache       *querycache.Cache
	validate    *validator.Validate
}

func NewEventUsecase(
	eventRepo domain.EventRepository,
	companyRepo domain.CompanyRepository,
	cache *querycache.Cache,
	validate *validator.Validate,
) domain.EventUsecase {
	return &eventUsecase{
		eventRepo:   eventRepo,
		companyRepo: companyRepo,
		cache:       cache,
		validate:    validate,
	}
}

func (u *eventUsecase) ListMyEvents(ctx context.Context, userID string) ([]domain.Event, error) {
	company, err := companyOf(ctx, u.companyRepo, userID)
	if err != nil {
		return nil, err
	}

	var events []domain.Event
	err = u.cache.Fetch(ctx, querycache.Key("events.company", company.ID), &events, func() (interface{}, error) {
		return u.eventRepo.FetchByCompanyID(ctx, company.ID)
	})
	if err != nil {
		return nil, failure("Failed to load events", err)
	}
	return events, nil
}

func (u *eventUsecase) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := u.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupFailure("Event not found", "Failed to load the event", err)
	}
	return event, nil
}

func (u *eventUsecase) CreateEvent(ctx context.Context, userID string, input domain.EventInput) (*domain.Event, error) {
	if err := u.validateEvent(&input); err != nil {
		return nil, err
	}
	company, err := companyOf(ctx, u.companyRepo, userID)
	if err != nil {
		return nil, err
	}

	event := &domain.Event{
		CompanyID:   company.ID,
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      input.Status,
	}
	if err := u.eventRepo.Create(ctx, event); err != nil {
		return nil, failure("Failed to create the event", err)
	}

	u.invalidate(ctx, company.ID)
	return event, nil
}

func (u *eventUsecase) UpdateEvent(ctx context.Context, userID, id string, input domain.EventInput) (*domain.Event, error) {
	if err := u.validateEvent(&input); err != nil {
		return nil, err
	}
	event, err := u.ownedEvent(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	event.Title = input.Title
	event.Description = input.Description
	event.Location = input.Location
	event.StartDate = input.StartDate
	event.EndDate = input.EndDate
	if input.Status != "" {
		event.Status = input.Status
	}
	if err := u.eventRepo.Update(ctx, event); err != nil {
		return nil, lookupFailure("Event not found", "Failed to update the event", err)
	}

	u.invalidate(ctx, event.CompanyID)
	return event, nil
}

func (u *eventUsecase) DeleteEvent(ctx context.Context, userID, id string) error {
	event, err := u.ownedEvent(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := u.eventRepo.Delete(ctx, id); err != nil {
		return lookupFailure("Event not found", "Failed to delete the event", err)
	}

	u.invalidate(ctx, event.CompanyID)
	return nil
}

// ListCalendar returns the events overlapping [from, to] that concern the
// viewer: owned events for companies, approved shifts for promoters and
// supervised jobs for supervisors.
func (u *eventUsecase) ListCalendar(ctx context.Context, viewer domain.Viewer, from, to time.Time) ([]domain.Event, error) {
	if to.Before(from) {
		return nil, apperror.BadRequest("The end of the range must be after its start")
	}

	filter := domain.EventFilter{From: from, To: to}
	switch viewer.UserType {
	case domain.UserTypeCompany:
		company, err := u.companyRepo.GetByUserID(ctx, viewer.UserID)
		if err != nil {
			// no company yet means an empty calendar
			return []domain.Event{}, nil
		}
		filter.CompanyID = company.ID
	case domain.UserTypePromoter:
		filter.PromoterID = viewer.UserID
	case domain.UserTypeSupervisor:
		filter.SupervisorID = viewer.UserID
	default:
		return []domain.Event{}, nil
	}

	events, err := u.eventRepo.FetchInRange(ctx, filter)
	if err != nil {
		return nil, failure("Failed to load the calendar", err)
	}
	return events, nil
}

func (u *eventUsecase) validateEvent(input *domain.EventInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Location = strings.TrimSpace(input.Location)
	return validateInput(u.validate, *input)
}

// ownedEvent loads the event and checks it belongs to the caller's company.
func (u *eventUsecase) ownedEvent(ctx context.Context, userID, id string) (*domain.Event, error) {
	company, err := companyOf(ctx, u.companyRepo, userID)
	if err != nil {
		return nil, err
	}
	event, err := u.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupFailure("Event not found", "Failed to load the event", err)
	}
	if event.CompanyID != company.ID {
		return nil, apperror.Forbidden("You can only manage your own events")
	}
	return event, nil
}

func (u *eventUsecase) invalidate(ctx context.Context, companyID string) {
	u.cache.Invalidate(ctx,
		querycache.Key("events.company", companyID),
		querycache.Prefix("jobs"),
		querycache.Key("stats.platform"),
	)
}
