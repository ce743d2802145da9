package tenant

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/evilsocket/islazy/log"

	"hvac-dashboard/internal/auth"
	"hvac-dashboard/internal/common"
)

// sessionKey is where the session is kept in the tenant's namespace
const sessionKey = "session"

// Authenticator is the part of the API client a session needs
type Authenticator interface {
	Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	SetAccessToken(token string)
}

// SessionStore persists the session in the active namespace
type SessionStore interface {
	SetJSON(ctx context.Context, key string, v interface{}) error
	Remove(ctx context.Context, key string) error
}

// StoredSession is what a session writes to tenant-scoped storage
type StoredSession struct {
	Refresh  string          `json:"refresh"`
	User     json.RawMessage `json:"user,omitempty"`
	Tenant   Identity        `json:"tenant"`
	LoggedIn time.Time       `json:"logged_in"`
}

// Info is a point-in-time view of the session
type Info struct {
	State     string          `json:"state"`
	Tenant    *Identity       `json:"tenant,omitempty"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	User      json.RawMessage `json:"user,omitempty"`
}

// Session drives login and logout through the tenant context
type Session struct {
	tenants *Context
	api     Authenticator
	store   SessionStore
	host    string
	now     func() time.Time

	mu      sync.Mutex
	access  string
	refresh string
	user    json.RawMessage
}

// NewSession creates a logged-out session. host is used to synthesize
// tenant base URLs.
func NewSession(tenants *Context, api Authenticator, store SessionStore, host string) *Session {
	return &Session{
		tenants: tenants,
		api:     api,
		store:   store,
		host:    host,
		now:     time.Now,
	}
}

// Login exchanges credentials and activates the resolved tenant. Upstream
// errors are returned unchanged and leave the tenant as it was.
func (s *Session) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	resp, err := s.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.activate(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Restore activates a session from a previously issued access token
func (s *Session) Restore(ctx context.Context, access, refresh string) error {
	if !auth.IsSessionValid(access, s.now()) {
		return common.ErrExpiredSessionError()
	}
	return s.activate(ctx, &auth.LoginResponse{Access: access, Refresh: refresh})
}

func (s *Session) activate(ctx context.Context, resp *auth.LoginResponse) error {
	var previous *Identity
	if id, ok := s.tenants.Active(); ok {
		previous = &id
	}

	id, source := Resolve(resp, previous, s.host)
	if source == SourceNone {
		return common.ErrNoTenantError()
	}
	log.Debug("tenant %s resolved from %s", id.TenantSlug, source)

	if err := id.Validate(); err != nil {
		return err
	}

	// a new login always passes through NoTenant, so the old token is never
	// paired with the new base URL and the old tenant's session is removed
	if previous != nil {
		s.Logout(ctx)
	}

	if err := s.tenants.Apply(id); err != nil {
		return err
	}

	s.mu.Lock()
	s.access = resp.Access
	s.refresh = resp.Refresh
	s.user = resp.User
	s.mu.Unlock()
	s.api.SetAccessToken(resp.Access)

	stored := StoredSession{Refresh: resp.Refresh, User: resp.User, Tenant: id, LoggedIn: s.now()}
	if err := s.store.SetJSON(ctx, sessionKey, stored); err != nil {
		log.Warning("could not persist session for tenant %s: %v", id.TenantSlug, err)
	}
	return nil
}

// Logout clears the session and returns to NoTenant
func (s *Session) Logout(ctx context.Context) {
	if s.tenants.State() == TenantActive {
		if err := s.store.Remove(ctx, sessionKey); err != nil {
			log.Warning("could not remove stored session: %v", err)
		}
	}
	s.clear()
}

func (s *Session) clear() {
	s.mu.Lock()
	s.access, s.refresh, s.user = "", "", nil
	s.mu.Unlock()

	s.api.SetAccessToken("")
	s.tenants.Reset()
}

// Check verifies there is an active tenant with an unexpired token. An
// expired token ends the session.
func (s *Session) Check(ctx context.Context) error {
	if s.tenants.State() != TenantActive {
		return common.ErrNoTenantError()
	}

	if !auth.IsSessionValid(s.AccessToken(), s.now()) {
		log.Info("⌛ session expired, logging out")
		s.Logout(ctx)
		return common.ErrExpiredSessionError()
	}
	return nil
}

// AccessToken returns the current access token
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

// Info returns a snapshot of the session
func (s *Session) Info() Info {
	info := Info{State: s.tenants.State().String()}
	if id, ok := s.tenants.Active(); ok {
		info.Tenant = &id
	}

	s.mu.Lock()
	access, user := s.access, s.user
	s.mu.Unlock()

	if payload, err := auth.DecodeToken(access); err == nil && payload.Exp != 0 {
		exp := payload.ExpiresAt()
		info.ExpiresAt = &exp
	}
	info.User = user
	return info
}
