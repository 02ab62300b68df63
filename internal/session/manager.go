// Package session keeps the signed-in state of every browser session: who
// the user is, which session they hold and whether that is still being
// resolved. The auth provider's change stream and the explicit actions on
// Manager are the only writers.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/logger"
)

// ProfileProvider resolves the application profile for an auth identity.
type ProfileProvider interface {
	EnsureProfile(ctx context.Context, identity domain.Identity) (*domain.Profile, error)
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
}

// State is a snapshot of one browser session. While Loading is true no
// authorization decision should be made from it.
type State struct {
	User    *domain.Profile
	Session *domain.Session
	Loading bool
}

// UserType is derived from the profile; it is empty when signed out.
func (s State) UserType() domain.UserType {
	if s.User == nil {
		return ""
	}
	return s.User.UserType
}

func (s State) SignedIn() bool {
	return s.User != nil && s.Session != nil
}

const (
	// idleTimeout is how long a settled entry is kept without being loaded
	// again. Evicted keys are resolved from the store on their next request.
	idleTimeout   = 30 * time.Minute
	sweepInterval = time.Minute
)

type entry struct {
	state State
	gen   uint64
	ready chan struct{} // closed when the current load completes
	seen  time.Time
}

// Manager is safe for concurrent use. Every write bumps a per-key
// generation; a profile fetch only lands if no newer write happened while it
// was in flight, so a slow fetch never overwrites a later sign-in or
// sign-out.
type Manager struct {
	auth     domain.AuthClient
	profiles ProfileProvider
	timeout  time.Duration

	mu      sync.Mutex
	entries map[string]*entry

	unsubscribe func()
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewManager returns a manager that gives each profile fetch at most
// timeout.
func NewManager(auth domain.AuthClient, profiles ProfileProvider, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Manager{
		auth:     auth,
		profiles: profiles,
		timeout:  timeout,
		entries:  make(map[string]*entry),
	}
}

// Start subscribes to the auth change stream and starts evicting idle
// entries. Call Stop to release both.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unsubscribe != nil {
		return
	}
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.unsubscribe = m.auth.OnAuthStateChange(m.handle)

	m.wg.Add(1)
	go m.sweep(m.ctx)
}

// Stop unsubscribes, cancels in-flight profile fetches and the sweeper, and
// waits for them.
func (m *Manager) Stop() {
	m.mu.Lock()
	unsubscribe, cancel := m.unsubscribe, m.cancel
	m.unsubscribe, m.cancel = nil, nil
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

// State returns the current snapshot for key. Unknown keys report Loading.
func (m *Manager) State(key string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return State{Loading: true}
	}
	return e.state
}

// Load resolves key on first use: it asks the provider for the current
// session, checks its access token and fetches, or provisions, the matching
// profile. Known keys are returned as they are, which may still be Loading.
// Only signed-in keys are kept; a key that resolves signed out, or whose
// load failed, is resolved again on its next Load.
func (m *Manager) Load(ctx context.Context, key string) (State, error) {
	m.mu.Lock()
	if e, ok := m.entries[key]; ok {
		e.seen = time.Now()
		state := e.state
		m.mu.Unlock()
		return state, nil
	}
	gen := m.beginLocked(key, State{Loading: true})
	m.mu.Unlock()

	state, err := m.resolve(ctx, key)
	if err != nil || !state.SignedIn() {
		return m.forget(key, gen, state), err
	}
	return m.commit(key, gen, state), nil
}

func (m *Manager) resolve(ctx context.Context, key string) (State, error) {
	session, identity, err := m.auth.GetSession(ctx, key)
	if err != nil {
		return State{}, err
	}
	if session == nil || identity == nil {
		return State{}, nil
	}

	verified, err := m.auth.GetUser(ctx, key)
	if err != nil {
		if domain.IsAuthKind(err, domain.AuthSessionMissing) {
			logger.Log.Info("Stored session rejected", "user_id", identity.ID, "error", err)
			return State{}, nil
		}
		return State{}, err
	}
	if verified.ID != identity.ID {
		logger.Log.Warn("Access token does not match stored session",
			"user_id", identity.ID,
			"token_subject", verified.ID,
		)
		return State{}, nil
	}

	profile, err := m.profiles.EnsureProfile(ctx, *identity)
	if err != nil {
		return State{}, err
	}
	return State{User: profile, Session: session}, nil
}

// Wait blocks until key is no longer loading or ctx is done, and returns the
// latest snapshot.
func (m *Manager) Wait(ctx context.Context, key string) State {
	waited := false
	for {
		m.mu.Lock()
		e, ok := m.entries[key]
		if !ok {
			m.mu.Unlock()
			if waited {
				// the load finished without keeping the key
				return State{}
			}
			return State{Loading: true}
		}
		if !e.state.Loading {
			state := e.state
			m.mu.Unlock()
			return state
		}
		ready := e.ready
		m.mu.Unlock()

		select {
		case <-ready:
			waited = true
		case <-ctx.Done():
			return m.State(key)
		}
	}
}

// SignOut clears the local state first, then revokes the session with the
// provider. The key reads as signed out even if the provider call fails.
func (m *Manager) SignOut(ctx context.Context, key string) error {
	m.mu.Lock()
	gen := m.beginLocked(key, State{})
	m.mu.Unlock()
	m.commit(key, gen, State{})

	return m.auth.SignOut(ctx, key)
}

// RefreshProfile re-reads the profile of the signed-in user. It is a no-op
// when key has no user.
func (m *Manager) RefreshProfile(ctx context.Context, key string) error {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok || e.state.User == nil {
		m.mu.Unlock()
		return nil
	}
	gen, userID := e.gen, e.state.User.ID
	m.mu.Unlock()

	profile, err := m.profiles.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok && e.gen == gen && e.state.User != nil {
		e.state.User = profile
	}
	return nil
}

// Release forgets key. The next Load resolves it again.
func (m *Manager) Release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok {
		e.gen++
		if e.state.Loading {
			close(e.ready)
		}
		delete(m.entries, key)
	}
}

// handle runs on the provider's goroutine and must not block: sign-outs are
// applied at once, everything else sets the new session and fetches the
// profile in the background.
func (m *Manager) handle(event domain.AuthEvent) {
	if event.Key == "" {
		return
	}

	if event.Type == domain.AuthEventSignedOut || event.Session == nil {
		m.mu.Lock()
		gen := m.beginLocked(event.Key, State{})
		m.mu.Unlock()
		m.commit(event.Key, gen, State{})
		return
	}

	m.mu.Lock()
	base := m.ctx
	var user *domain.Profile
	if e, ok := m.entries[event.Key]; ok {
		user = e.state.User
	}
	gen := m.beginLocked(event.Key, State{User: user, Session: event.Session, Loading: true})
	m.mu.Unlock()

	if base == nil {
		base = context.Background()
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(base, m.timeout)
		defer cancel()

		profile, err := m.resolveProfile(ctx, event)
		if err != nil {
			logger.Log.Warn("Failed to resolve profile after auth change",
				"event", event.Type,
				"error", err,
			)
			m.commit(event.Key, gen, State{})
			return
		}
		m.commit(event.Key, gen, State{User: profile, Session: event.Session})
	}()
}

func (m *Manager) resolveProfile(ctx context.Context, event domain.AuthEvent) (*domain.Profile, error) {
	identity := event.Identity
	if identity == nil {
		_, stored, err := m.auth.GetSession(ctx, event.Key)
		if err != nil {
			return nil, err
		}
		if stored == nil {
			return nil, errors.New("auth event without identity")
		}
		identity = stored
	}
	return m.profiles.EnsureProfile(ctx, *identity)
}

// beginLocked installs state under a new generation. m.mu must be held.
func (m *Manager) beginLocked(key string, state State) uint64 {
	e, ok := m.entries[key]
	if !ok {
		e = &entry{ready: make(chan struct{})}
		m.entries[key] = e
	} else if !e.state.Loading && state.Loading {
		e.ready = make(chan struct{})
	}
	e.seen = time.Now()
	e.gen++
	e.state = state
	if !state.Loading {
		close(e.ready)
		e.ready = make(chan struct{})
	}
	return e.gen
}

// commit stores the outcome of the write started at gen, unless a newer
// write superseded it. It returns the state that is current afterwards.
func (m *Manager) commit(key string, gen uint64, state State) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return state
	}
	if e.gen != gen {
		return e.state
	}
	wasLoading := e.state.Loading
	e.state = state
	if wasLoading && !state.Loading {
		close(e.ready)
		e.ready = make(chan struct{})
	}
	return e.state
}

// forget drops the entry started at gen and wakes its waiters, unless a
// newer write superseded it. It returns the state that is current
// afterwards.
func (m *Manager) forget(key string, gen uint64, state State) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return state
	}
	if e.gen != gen {
		return e.state
	}
	if e.state.Loading {
		close(e.ready)
	}
	delete(m.entries, key)
	return state
}

func (m *Manager) sweep(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.evictIdle(now)
		}
	}
}

// evictIdle drops settled entries not loaded for idleTimeout.
func (m *Manager) evictIdle(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for key, e := range m.entries {
		if e.state.Loading || now.Sub(e.seen) < idleTimeout {
			continue
		}
		e.gen++
		delete(m.entries, key)
		evicted++
	}
	return evicted
}
