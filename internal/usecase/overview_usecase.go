package usecase

import (
	"context"
	"time"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/querycache"
)

const (
	featuredJobCount = 6
	dashboardWindow  = 30 * 24 * time.Hour
)

type overviewUsecase struct {
	profileRepo     domain.ProfileRepository
	jobRepo         domain.JobRepository
	eventRepo       domain.EventRepository
	companyRepo     domain.CompanyRepository
	applicationRepo domain.ApplicationRepository

	applications  domain.ApplicationUsecase
	events        domain.EventUsecase
	jobs          domain.JobUsecase
	messages      domain.MessageUsecase
	notifications domain.NotificationUsecase
	payments      domain.PaymentUsecase

	cache *querycache.Cache
	now   func() time.Time
}

// OverviewDeps groups what the read-only pages aggregate over.
type OverviewDeps struct {
	ProfileRepo     domain.ProfileRepository
	JobRepo         domain.JobRepository
	EventRepo       domain.EventRepository
	CompanyRepo     domain.CompanyRepository
	ApplicationRepo domain.ApplicationRepository

	Applications  domain.ApplicationUsecase
	Events        domain.EventUsecase
	Jobs          domain.JobUsecase
	Messages      domain.MessageUsecase
	Notifications domain.NotificationUsecase
	Payments      domain.PaymentUsecase

	Cache *querycache.Cache
}

func NewOverviewUsecase(deps OverviewDeps) domain.OverviewUsecase {
	return &overviewUsecase{
		profileRepo:     deps.ProfileRepo,
		jobRepo:         deps.JobRepo,
		eventRepo:       deps.EventRepo,
		companyRepo:     deps.CompanyRepo,
		applicationRepo: deps.ApplicationRepo,
		applications:    deps.Applications,
		events:          deps.Events,
		jobs:            deps.Jobs,
		messages:        deps.Messages,
		notifications:   deps.Notifications,
		payments:        deps.Payments,
		cache:           deps.Cache,
		now:             time.Now,
	}
}

// Landing returns public counts and the next open jobs.
func (u *overviewUsecase) Landing(ctx context.Context) (*domain.PlatformStats, []domain.Job, error) {
	stats, err := u.platformStats(ctx)
	if err != nil {
		return nil, nil, err
	}
	jobs, _, err := u.jobs.ListOpenJobs(ctx, 1, featuredJobCount)
	if err != nil {
		return nil, nil, err
	}
	return stats, jobs, nil
}

func (u *overviewUsecase) Admin(ctx context.Context) (*domain.PlatformStats, error) {
	stats, err := u.platformStats(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := u.profileRepo.CountByType(ctx)
	if err != nil {
		return nil, failure("Failed to load user statistics", err)
	}
	stats.UsersByType = counts
	return stats, nil
}

func (u *overviewUsecase) platformStats(ctx context.Context) (*domain.PlatformStats, error) {
	var stats domain.PlatformStats
	err := u.cache.Fetch(ctx, querycache.Key("stats.platform"), &stats, func() (interface{}, error) {
		openJobs, err := u.jobRepo.CountOpen(ctx)
		if err != nil {
			return nil, err
		}
		upcoming, err := u.eventRepo.CountUpcoming(ctx, u.now())
		if err != nil {
			return nil, err
		}
		return domain.PlatformStats{OpenJobs: openJobs, UpcomingEvents: upcoming}, nil
	})
	if err != nil {
		return nil, failure("Failed to load statistics", err)
	}
	return &stats, nil
}

// Dashboard assembles the viewer's home page. The sections depend on the role.
func (u *overviewUsecase) Dashboard(ctx context.Context, viewer domain.Viewer) (*domain.Dashboard, error) {
	profile, err := u.profileRepo.GetByID(ctx, viewer.UserID)
	if err != nil {
		return nil, lookupFailure("Profile not found", "Failed to load your profile", err)
	}

	dash := &domain.Dashboard{Profile: profile}
	if dash.UnreadMessages, err = u.messages.UnreadCount(ctx, viewer.UserID); err != nil {
		return nil, err
	}
	if dash.UnreadNotifications, err = u.notifications.UnreadCount(ctx, viewer.UserID); err != nil {
		return nil, err
	}

	from := u.now()
	to := from.Add(dashboardWindow)

	switch profile.UserType {
	case domain.UserTypePromoter:
		if dash.Applications, err = u.applications.ListMyApplications(ctx, viewer.UserID); err != nil {
			return nil, err
		}
		if dash.Earnings, err = u.payments.CalculateEarnings(ctx, viewer.UserID); err != nil {
			return nil, err
		}
	case domain.UserTypeCompany:
		company, err := u.companyRepo.GetByUserID(ctx, viewer.UserID)
		if err != nil {
			// nothing more to show until the company profile exists
			return dash, nil
		}
		if dash.Jobs, err = u.jobRepo.FetchByCompanyID(ctx, company.ID); err != nil {
			return nil, failure("Failed to load your jobs", err)
		}
		if dash.PendingApplications, err = u.applicationRepo.CountPendingForCompany(ctx, company.ID); err != nil {
			return nil, failure("Failed to count applications", err)
		}
	case domain.UserTypeSupervisor:
		if dash.Jobs, err = u.jobs.ListSupervisedJobs(ctx, viewer.UserID); err != nil {
			return nil, err
		}
	}

	calendarViewer := domain.Viewer{UserID: viewer.UserID, UserType: profile.UserType}
	if dash.Events, err = u.events.ListCalendar(ctx, calendarViewer, from, to); err != nil {
		return nil, err
	}
	return dash, nil
}

func (u *overviewUsecase) Training(viewer domain.Viewer) []domain.TrainingModule {
	out := make([]domain.TrainingModule, 0, len(trainingCatalog))
	for _, module := range trainingCatalog {
		for _, audience := range module.Audience {
			if audience == viewer.UserType {
				out = append(out, module)
				break
			}
		}
	}
	return out
}

var trainingCatalog = []domain.TrainingModule{
	{
		ID:          "platform-basics",
		Title:       "Getting started",
		Summary:     "Find jobs, apply and keep your profile up to date.",
		Audience:    []domain.UserType{domain.UserTypePromoter, domain.UserTypeSupervisor, domain.UserTypeCompany},
		DurationMin: 10,
	},
	{
		ID:          "brand-ambassador",
		Title:       "Representing a brand",
		Summary:     "Dress code, product messaging and handling customer questions on the floor.",
		Audience:    []domain.UserType{domain.UserTypePromoter},
		DurationMin: 25,
	},
	{
		ID:          "event-safety",
		Title:       "Event safety",
		Summary:     "Emergency exits, crowd flow and who to call when something goes wrong.",
		Audience:    []domain.UserType{domain.UserTypePromoter, domain.UserTypeSupervisor},
		DurationMin: 20,
	},
	{
		ID:          "team-lead",
		Title:       "Leading a shift",
		Summary:     "Check-ins, breaks and reporting attendance back to the company.",
		Audience:    []domain.UserType{domain.UserTypeSupervisor},
		DurationMin: 30,
	},
	{
		ID:          "posting-jobs",
		Title:       "Posting jobs that fill",
		Summary:     "Writing clear requirements, setting rates and reviewing applications quickly.",
		Audience:    []domain.UserType{domain.UserTypeCompany},
		DurationMin: 15,
	},
	{
		ID:          "getting-paid",
		Title:       "Payments and payouts",
		Summary:     "How earnings become available and how to request a payout.",
		Audience:    []domain.UserType{domain.UserTypePromoter},
		DurationMin: 10,
	},
}
