// ABOUTME: Authentication endpoints of the paper-polish backend
// ABOUTME: Register, login, current-user, token refresh, and logout calls

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// User account statuses reported by the backend.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusBanned   = "banned"
)

// UserProfile mirrors the server-side user record.
type UserProfile struct {
	ID            int64      `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	EmailVerified bool       `json:"email_verified"`
	Nickname      string     `json:"nickname,omitempty"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

// DisplayName returns the nickname when set, otherwise the username.
func (u *UserProfile) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}

// RegisterInput is the payload for POST /api/v1/auth/register.
type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Nickname        string `json:"nickname,omitempty"`
}

// LoginResult is the payload returned by a successful login.
type LoginResult struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserProfile `json:"user"`
}

// Register creates a new account. Registration does not authenticate; the
// caller must log in separately.
func (c *Client) Register(ctx context.Context, input *RegisterInput) (*UserProfile, error) {
	res, err := c.call(ctx, http.MethodPost, "/api/v1/auth/register", nil, input)
	if err != nil {
		return nil, err
	}

	// Some deployments return the created user, some return no data.
	if len(res.Data) == 0 || string(res.Data) == "null" {
		return nil, nil
	}
	var user UserProfile
	if err := json.Unmarshal(res.Data, &user); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return &user, nil
}

// Login exchanges credentials for a token pair and the user profile.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}
	res, err := c.call(ctx, http.MethodPost, "/api/v1/auth/login", nil, body)
	if err != nil {
		return nil, err
	}

	var result LoginResult
	if err := json.Unmarshal(res.Data, &result); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	if result.AccessToken == "" {
		return nil, &MalformedResponseError{Field: "access_token"}
	}
	return &result, nil
}

// Me fetches the profile of the authenticated user.
func (c *Client) Me(ctx context.Context) (*UserProfile, error) {
	res, err := c.call(ctx, http.MethodGet, "/api/v1/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}

	var user UserProfile
	if err := json.Unmarshal(res.Data, &user); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return &user, nil
}

// RefreshToken trades the refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	body := map[string]string{"refresh_token": refreshToken}
	res, err := c.call(ctx, http.MethodPost, "/api/v1/auth/refresh", nil, body)
	if err != nil {
		return "", err
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(res.Data, &result); err != nil {
		return "", fmt.Errorf("invalid response from backend: %w", err)
	}
	if result.AccessToken == "" {
		return "", &MalformedResponseError{Field: "access_token"}
	}
	return result.AccessToken, nil
}

// Logout notifies the backend that the refresh token should be revoked.
// Callers treat logout as client-authoritative and ignore server failures.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh_token": refreshToken}
	_, err := c.call(ctx, http.MethodPost, "/api/v1/auth/logout", nil, body)
	return err
}
