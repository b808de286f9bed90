// ABOUTME: Persists session credentials and the cached user profile on disk
// ABOUTME: One file per storage key under the XDG config directory, cleared together on logout

package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/paperai/polish-cli/internal/client"
)

// Storage keys, one file each. They are only ever cleared together.
const (
	accessTokenFile  = "access_token"
	refreshTokenFile = "refresh_token"
	profileFile      = "user.json"
)

// Store owns the persisted session: access token, refresh token, and the
// cached user profile. It satisfies client.TokenSource.
type Store struct {
	configDir string
}

// New creates a store rooted at the given config directory.
func New(configDir string) *Store {
	return &Store{configDir: configDir}
}

// Dir returns the config directory backing the store.
func (s *Store) Dir() string { return s.configDir }

// DefaultConfigDir returns the default config directory following XDG spec.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "paper-polish")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "paper-polish")
}

func (s *Store) path(name string) string {
	return filepath.Join(s.configDir, name)
}

func (s *Store) readKey(name string) string {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (s *Store) writeKey(name, value string) error {
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}
	return os.WriteFile(s.path(name), []byte(value), 0600)
}

// AccessToken returns the stored access token, or "" when logged out.
func (s *Store) AccessToken() string {
	return s.readKey(accessTokenFile)
}

// RefreshToken returns the stored refresh token, or "".
func (s *Store) RefreshToken() string {
	return s.readKey(refreshTokenFile)
}

// SaveAccessToken persists a new access token, e.g. after a refresh.
func (s *Store) SaveAccessToken(token string) error {
	return s.writeKey(accessTokenFile, token)
}

// SaveTokens persists both tokens of a login response.
func (s *Store) SaveTokens(accessToken, refreshToken string) error {
	if err := s.writeKey(accessTokenFile, accessToken); err != nil {
		return err
	}
	return s.writeKey(refreshTokenFile, refreshToken)
}

// Profile returns the cached user profile, or nil when none is stored or the
// cache is unreadable.
func (s *Store) Profile() *client.UserProfile {
	data, err := os.ReadFile(s.path(profileFile))
	if err != nil {
		return nil
	}
	var user client.UserProfile
	if err := json.Unmarshal(data, &user); err != nil {
		// Corrupt cache: treat as absent, it will be refreshed from the server.
		return nil
	}
	return &user
}

// SaveProfile caches the user profile.
func (s *Store) SaveProfile(user *client.UserProfile) error {
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}
	return os.WriteFile(s.path(profileFile), data, 0600)
}

// LoggedIn reports whether an access token is stored.
func (s *Store) LoggedIn() bool {
	return s.AccessToken() != ""
}

// AccessTokenExpired reports whether the stored access token carries an exp
// claim in the past. The token is decoded without signature verification;
// only the server can truly judge validity, this is a hint to refresh early.
// A missing token counts as expired; an undecodable one does not.
func (s *Store) AccessTokenExpired(now time.Time) bool {
	token := s.AccessToken()
	if token == "" {
		return true
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

// Clear removes every stored key. Missing files are not an error; the first
// real failure is returned after attempting all removals.
func (s *Store) Clear() error {
	var firstErr error
	for _, name := range []string{accessTokenFile, refreshTokenFile, profileFile} {
		if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
