// ABOUTME: Tests for the on-disk session store
// ABOUTME: Exercises token persistence, profile caching, and expiry detection

package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperai/polish-cli/internal/client"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "42", "exp": exp.Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestSaveTokens_RoundTrip(t *testing.T) {
	store := New(t.TempDir())

	require.NoError(t, store.SaveTokens("access-1", "refresh-1"))
	assert.Equal(t, "access-1", store.AccessToken())
	assert.Equal(t, "refresh-1", store.RefreshToken())
	assert.True(t, store.LoggedIn())
}

func TestSaveAccessToken_ReplacesOnlyAccess(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.SaveTokens("access-1", "refresh-1"))

	require.NoError(t, store.SaveAccessToken("access-2"))
	assert.Equal(t, "access-2", store.AccessToken())
	assert.Equal(t, "refresh-1", store.RefreshToken())
}

func TestAccessToken_EmptyWhenLoggedOut(t *testing.T) {
	store := New(t.TempDir())
	assert.Empty(t, store.AccessToken())
	assert.False(t, store.LoggedIn())
}

func TestProfile_RoundTrip(t *testing.T) {
	store := New(t.TempDir())
	user := &client.UserProfile{ID: 7, Username: "ada", Email: "ada@example.com", Nickname: "Ada"}

	require.NoError(t, store.SaveProfile(user))
	got := store.Profile()
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "ada", got.Username)
	assert.Equal(t, "Ada", got.Nickname)
}

func TestProfile_CorruptCacheTreatedAsAbsent(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.json"), []byte("{broken"), 0600))

	assert.Nil(t, store.Profile())
}

func TestAccessTokenExpired_MissingToken(t *testing.T) {
	store := New(t.TempDir())
	assert.True(t, store.AccessTokenExpired(time.Now()))
}

func TestAccessTokenExpired_FutureExp(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.SaveAccessToken(signedToken(t, time.Now().Add(time.Hour))))

	assert.False(t, store.AccessTokenExpired(time.Now()))
}

func TestAccessTokenExpired_PastExp(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.SaveAccessToken(signedToken(t, time.Now().Add(-time.Hour))))

	assert.True(t, store.AccessTokenExpired(time.Now()))
}

func TestAccessTokenExpired_UndecodableToken(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.SaveAccessToken("not-a-jwt"))

	// Let the server judge opaque tokens.
	assert.False(t, store.AccessTokenExpired(time.Now()))
}

func TestClear_RemovesEverything(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.SaveTokens("a", "r"))
	require.NoError(t, store.SaveProfile(&client.UserProfile{Username: "ada"}))

	require.NoError(t, store.Clear())
	assert.Empty(t, store.AccessToken())
	assert.Empty(t, store.RefreshToken())
	assert.Nil(t, store.Profile())
	assert.False(t, store.LoggedIn())
}

func TestClear_MissingFilesNotAnError(t *testing.T) {
	store := New(t.TempDir())
	assert.NoError(t, store.Clear())
}
