package auth

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvToken, "")
	return home
}

func TestTokenFileLifecycle(t *testing.T) {
	home := isolate(t)

	ti, err := Get()
	require.NoError(t, err)
	assert.Nil(t, ti)
	assert.Empty(t, Source()())

	require.NoError(t, Set("Bearer abc123", nil))
	fi, err := os.Stat(filepath.Join(home, ".csvboard", credFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	ti, err = Get()
	require.NoError(t, err)
	require.NotNil(t, ti)
	assert.Equal(t, "abc123", ti.Token)
	assert.Equal(t, "file", ti.Source)
	assert.Equal(t, "abc123", Source()())

	require.NoError(t, Delete())
	require.NoError(t, Delete())
	ti, err = Get()
	require.NoError(t, err)
	assert.Nil(t, ti)
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	require.NoError(t, Set("from-file", nil))
	t.Setenv(EnvToken, "bearer from-env")

	ti, err := Get()
	require.NoError(t, err)
	assert.Equal(t, "from-env", ti.Token)
	assert.Equal(t, "env", ti.Source)
}

func TestSetRejectsEmpty(t *testing.T) {
	isolate(t)
	assert.Error(t, Set("   ", nil))
}

func TestPayload(t *testing.T) {
	body := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"me"}`))
	p, ok := Payload("hdr." + body + ".sig")
	require.True(t, ok)
	assert.Equal(t, `{"sub":"me"}`, p)

	_, ok = Payload("opaque-token")
	assert.False(t, ok)
}

func TestExpiredFileTokenIsNotSent(t *testing.T) {
	isolate(t)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	exp := base.Add(time.Hour)
	require.NoError(t, Set("abc123", &exp))
	assert.Equal(t, "abc123", Source()())

	now = func() time.Time { return exp }
	assert.Empty(t, Source()())
	ti, err := Active()
	require.NoError(t, err)
	assert.Nil(t, ti)

	// still visible to status
	ti, err = Get()
	require.NoError(t, err)
	require.NotNil(t, ti)
	assert.True(t, ti.Expired(now()))
}

func TestSetTakesExpiryFromJWT(t *testing.T) {
	isolate(t)
	exp := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)
	body := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"sub":"me","exp":%d}`, exp.Unix())))
	require.NoError(t, Set("hdr."+body+".sig", nil))

	ti, err := Get()
	require.NoError(t, err)
	require.NotNil(t, ti.ExpiresAt)
	assert.True(t, exp.Equal(*ti.ExpiresAt))

	require.NoError(t, Set("opaque", nil))
	ti, err = Get()
	require.NoError(t, err)
	assert.Nil(t, ti.ExpiresAt)
}

func TestEnvTokenNeverExpires(t *testing.T) {
	isolate(t)
	t.Setenv(EnvToken, "from-env")
	now = func() time.Time { return time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	assert.Equal(t, "from-env", Source()())
}
