package session

import (
	"net/url"
	"time"

	"event-staffing-backend/internal/domain"
)

const (
	LoginPath     = "/auth/login"
	DashboardPath = "/dashboard"
)

type Outcome int

const (
	Allow Outcome = iota
	// Pending means the state is still loading; no decision yet.
	Pending
	RedirectLogin
	RedirectExpired
	RedirectNoPermission
)

// Decision is what a protected route should do with the request.
type Decision struct {
	Outcome  Outcome
	Location string // redirect target, empty for Allow and Pending
}

// Decide gates a protected route. Checks run in order: loading, signed out,
// expired session, wrong role. An expired session goes back to login whatever
// the role. This is a UX gate; row-level policies on the backend remain the
// access boundary.
func Decide(state State, requiredRole domain.UserType, path string, now time.Time) Decision {
	if state.Loading {
		return Decision{Outcome: Pending}
	}
	if !state.SignedIn() {
		return Decision{Outcome: RedirectLogin, Location: loginURL(path, "")}
	}
	if state.Session.Expired(now) {
		return Decision{Outcome: RedirectExpired, Location: loginURL(path, "session_expired")}
	}
	if requiredRole != "" && state.UserType() != requiredRole {
		return Decision{Outcome: RedirectNoPermission, Location: DashboardPath + "?error=no_permission"}
	}
	return Decision{Outcome: Allow}
}

func loginURL(path, reason string) string {
	q := url.Values{}
	if reason != "" {
		q.Set("error", reason)
	}
	if path != "" {
		q.Set("redirect", path)
	}
	if len(q) == 0 {
		return LoginPath
	}
	return LoginPath + "?" + q.Encode()
}
