package session

import (
	"encoding/json"
	"sync"
	"time"

	"lendworks-web/internal/domain"
)

// Manager is the in-memory session container. One instance exists per
// process; the HTTP client and the route gate read from it, and every
// mutation writes through to the Store for the fields it touches.
//
// All operations hold the lock for their full duration, so a token update
// can never interleave with a partial profile update.
type Manager struct {
	store Store
	now   func() time.Time

	mu  sync.RWMutex
	cur domain.Session
}

// NewManager creates a Manager backed by store. A nil clock defaults to
// time.Now.
func NewManager(store Store, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{store: store, now: now}
}

// Now returns the injected clock's current time.
func (m *Manager) Now() time.Time {
	return m.now()
}

// Hydrate pulls the persisted session into memory. It is called once at
// startup, before any protected page renders, and is idempotent: repeated
// calls with no intervening writes yield the same state.
func (m *Manager) Hydrate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s domain.Session
	s.AccessToken, _ = m.store.Read(KeyToken)
	s.AccessTokenExpiry, _ = m.store.Read(KeyTokenExp)
	s.RefreshToken, _ = m.store.Read(KeyRefresh)
	s.RefreshTokenExpiry, _ = m.store.Read(KeyRefreshExp)

	// A profile left over from a previous session must never survive
	// without the access token it belongs to.
	if s.AccessToken != "" {
		if raw, ok := m.store.Read(KeyProfile); ok {
			var p domain.Profile
			if err := json.Unmarshal([]byte(raw), &p); err == nil {
				s.Profile = &p
			}
		}
	}
	m.cur = s
}

// SetFromLogin replaces the whole session with the login result. Fields the
// backend omitted are cleared rather than inherited from a prior session.
func (m *Manager) SetFromLogin(tokens domain.TokenSet, profile *domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cur = domain.Session{TokenSet: tokens, Profile: profile}

	m.writeOrRemove(KeyToken, tokens.AccessToken)
	m.writeOrRemove(KeyTokenExp, tokens.AccessTokenExpiry)
	m.writeOrRemove(KeyRefresh, tokens.RefreshToken)
	m.writeOrRemove(KeyRefreshExp, tokens.RefreshTokenExpiry)
	m.persistProfile(profile)
}

// SetFromRefresh installs freshly minted tokens, leaving the profile
// untouched. The refresh token is only replaced when the backend rotated it.
func (m *Manager) SetFromRefresh(tokens domain.TokenSet) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cur.AccessToken = tokens.AccessToken
	m.cur.AccessTokenExpiry = tokens.AccessTokenExpiry
	m.writeOrRemove(KeyToken, tokens.AccessToken)
	m.writeOrRemove(KeyTokenExp, tokens.AccessTokenExpiry)

	if tokens.RefreshToken != "" {
		m.cur.RefreshToken = tokens.RefreshToken
		m.cur.RefreshTokenExpiry = tokens.RefreshTokenExpiry
		m.store.Write(KeyRefresh, tokens.RefreshToken)
		m.writeOrRemove(KeyRefreshExp, tokens.RefreshTokenExpiry)
	}
}

// SetProfile records the profile fetched for the current access token.
func (m *Manager) SetProfile(p domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cur.Profile = &p
	m.persistProfile(&p)
}

// Clear logs the session out: every field absent, every persisted key removed.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cur = domain.Session{}
	m.store.Clear()
}

// Snapshot returns a copy of the current session. A session without an
// access token always reports an absent profile, whatever storage holds.
func (m *Manager) Snapshot() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.cur
	if s.AccessToken == "" {
		s.Profile = nil
	} else if s.Profile != nil {
		p := *s.Profile
		s.Profile = &p
	}
	return s
}

// AccessToken returns the current access token, or "" when unauthenticated.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.AccessToken
}

// RefreshToken returns the current refresh token, or "" when absent.
func (m *Manager) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.RefreshToken
}

func (m *Manager) writeOrRemove(key, value string) {
	if value == "" {
		m.store.Remove(key)
		return
	}
	m.store.Write(key, value)
}

func (m *Manager) persistProfile(p *domain.Profile) {
	if p == nil {
		m.store.Remove(KeyProfile)
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	m.store.Write(KeyProfile, string(data))
}
