package domain

import "context"

// PlatformStats backs the landing and admin pages.
type PlatformStats struct {
	OpenJobs       int64              `json:"openJobs"`
	UpcomingEvents int64              `json:"upcomingEvents"`
	UsersByType    map[UserType]int64 `json:"usersByType,omitempty"`
}

// Dashboard is assembled per user type; unused sections stay nil.
type Dashboard struct {
	Profile             *Profile         `json:"profile"`
	UnreadMessages      int64            `json:"unreadMessages"`
	UnreadNotifications int64            `json:"unreadNotifications"`
	Applications        []JobApplication `json:"applications,omitempty"`
	Earnings            *Earnings        `json:"earnings,omitempty"`
	Events              []Event          `json:"events,omitempty"`
	Jobs                []Job            `json:"jobs,omitempty"`
	PendingApplications int64            `json:"pendingApplications"`
}

type OverviewUsecase interface {
	Landing(ctx context.Context) (*PlatformStats, []Job, error)
	Dashboard(ctx context.Context, viewer Viewer) (*Dashboard, error)
	Admin(ctx context.Context) (*PlatformStats, error)
	// Training lists the modules relevant to the viewer's role.
	Training(viewer Viewer) []TrainingModule
}

// TrainingModule is static onboarding content for promoters and supervisors.
type TrainingModule struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Audience    []UserType `json:"audience"`
	DurationMin int        `json:"durationMinutes"`
}
