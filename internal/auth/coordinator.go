// ABOUTME: Auth coordinator owning current-user state and the session lifecycle
// ABOUTME: Mediates login, registration, logout, restore, and token refresh

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/paperai/polish-cli/internal/client"
	"github.com/paperai/polish-cli/internal/session"
)

// State is the coordinator's position in the auth lifecycle.
type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// ErrNoRefreshToken is returned when a token refresh is requested without a
// stored refresh token.
var ErrNoRefreshToken = errors.New("no refresh token stored")

// Coordinator owns the current-user state. It is the only writer of the
// session store. Not safe for concurrent use; callers serialize operations,
// which the single-threaded event loop of the TUI does naturally.
type Coordinator struct {
	api   *client.Client
	store *session.Store

	state   State
	user    *client.UserProfile
	lastErr error
}

// New creates a coordinator in the loading state.
func New(api *client.Client, store *session.Store) *Coordinator {
	return &Coordinator{
		api:   api,
		store: store,
		state: StateLoading,
	}
}

// State returns the current auth state.
func (c *Coordinator) State() State { return c.state }

// User returns the current user profile, nil when unauthenticated.
func (c *Coordinator) User() *client.UserProfile { return c.user }

// LastError returns the error recorded by the most recent failed operation.
func (c *Coordinator) LastError() error { return c.lastErr }

// RestoreSession re-establishes identity from the stored session. With no
// stored token it settles on unauthenticated immediately. Otherwise the
// cached profile is adopted optimistically, then the server is asked for the
// authoritative one. A token-invalid or unauthorized answer clears the whole
// session; any other failure keeps the cached identity and records the error.
func (c *Coordinator) RestoreSession(ctx context.Context) error {
	if !c.store.LoggedIn() {
		c.state = StateUnauthenticated
		c.user = nil
		return nil
	}

	if cached := c.store.Profile(); cached != nil {
		c.user = cached
		c.state = StateAuthenticated
	}

	if c.store.AccessTokenExpired(time.Now()) {
		if err := c.RefreshAccessToken(ctx); err != nil {
			return err
		}
	}

	user, err := c.api.Me(ctx)
	if err != nil {
		if client.InvalidatesSession(err) {
			c.clearSession()
			return err
		}
		c.lastErr = err
		if c.user == nil {
			c.state = StateUnauthenticated
		}
		return err
	}

	if err := c.store.SaveProfile(user); err != nil {
		c.lastErr = err
	}
	c.user = user
	c.state = StateAuthenticated
	c.lastErr = nil
	return nil
}

// Login authenticates and persists both tokens and the profile. On failure
// the state stays unauthenticated and the error is surfaced, not swallowed.
func (c *Coordinator) Login(ctx context.Context, username, password string) (*client.UserProfile, error) {
	result, err := c.api.Login(ctx, username, password)
	if err != nil {
		c.state = StateUnauthenticated
		c.lastErr = err
		return nil, err
	}

	if err := c.store.SaveTokens(result.AccessToken, result.RefreshToken); err != nil {
		c.state = StateUnauthenticated
		c.lastErr = err
		return nil, err
	}
	if err := c.store.SaveProfile(&result.User); err != nil {
		c.lastErr = err
	}

	c.user = &result.User
	c.state = StateAuthenticated
	c.lastErr = nil
	return c.user, nil
}

// Register forwards to the backend. Registration does not authenticate; the
// caller logs in separately afterwards.
func (c *Coordinator) Register(ctx context.Context, input *client.RegisterInput) (*client.UserProfile, error) {
	user, err := c.api.Register(ctx, input)
	if err != nil {
		c.lastErr = err
		return nil, err
	}
	return user, nil
}

// Logout notifies the server best-effort and clears the local session
// unconditionally. Logout is idempotent and client-authoritative: a server
// failure never leaves the client logged in.
func (c *Coordinator) Logout(ctx context.Context) {
	if refresh := c.store.RefreshToken(); refresh != "" {
		// Server failure is deliberately ignored.
		_ = c.api.Logout(ctx, refresh)
	}
	c.clearSession()
	c.lastErr = nil
}

// RefreshProfile fetches the authoritative profile for the current session.
func (c *Coordinator) RefreshProfile(ctx context.Context) (*client.UserProfile, error) {
	user, err := c.api.Me(ctx)
	if err != nil {
		if client.InvalidatesSession(err) {
			c.clearSession()
		}
		c.lastErr = err
		return nil, err
	}
	if err := c.store.SaveProfile(user); err != nil {
		c.lastErr = err
	}
	c.user = user
	c.state = StateAuthenticated
	return user, nil
}

// RefreshAccessToken trades the stored refresh token for a new access token.
// A failed refresh invalidates the whole session.
func (c *Coordinator) RefreshAccessToken(ctx context.Context) error {
	refresh := c.store.RefreshToken()
	if refresh == "" {
		c.clearSession()
		return ErrNoRefreshToken
	}

	token, err := c.api.RefreshToken(ctx, refresh)
	if err != nil {
		c.clearSession()
		c.lastErr = err
		return err
	}
	return c.store.SaveAccessToken(token)
}

func (c *Coordinator) clearSession() {
	// Clearing twice is harmless; a removal error leaves stale files that the
	// next successful login overwrites.
	_ = c.store.Clear()
	c.user = nil
	c.state = StateUnauthenticated
}
