package apns

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSigningKey(t *testing.T) []byte {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
}

func TestTokenSourceRejectsBadKey(t *testing.T) {
	_, err := newTokenSource("TEAM", "KEY", []byte("not a pem key"))
	assert.ErrorIs(t, err, ErrInitialize)
}

func TestTokenReuseWithinLifetime(t *testing.T) {
	ts, err := newTokenSource("TEAM123", "KEY456", testSigningKey(t))
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	ts.now = func() time.Time { return now }

	first, err := ts.bearer()
	require.NoError(t, err)

	now = now.Add(19 * time.Minute)
	second, err := ts.bearer()
	require.NoError(t, err)

	// ES256 signatures are randomized, so an identical string proves the
	// cached token was returned without re-signing.
	assert.Equal(t, first, second)
}

func TestTokenRefreshAfterLifetime(t *testing.T) {
	ts, err := newTokenSource("TEAM123", "KEY456", testSigningKey(t))
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	ts.now = func() time.Time { return now }

	first, err := ts.bearer()
	require.NoError(t, err)

	now = now.Add(21 * time.Minute)
	second, err := ts.bearer()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, now, ts.signedAt)
}

func TestTokenShape(t *testing.T) {
	ts, err := newTokenSource("TEAM123", "KEY456", testSigningKey(t))
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	ts.now = func() time.Time { return now }

	token, err := ts.bearer()
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	var header map[string]any
	require.NoError(t, json.Unmarshal(headerJSON, &header))
	assert.Equal(t, "ES256", header["alg"])
	assert.Equal(t, "KEY456", header["kid"])
	assert.NotContains(t, header, "typ")

	claimsJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var claims map[string]any
	require.NoError(t, json.Unmarshal(claimsJSON, &claims))
	assert.Equal(t, "TEAM123", claims["iss"])
	assert.Equal(t, float64(now.Unix()), claims["iat"])
}

func TestTokenClockBeforeEpoch(t *testing.T) {
	ts, err := newTokenSource("TEAM123", "KEY456", testSigningKey(t))
	require.NoError(t, err)

	ts.now = func() time.Time { return time.Unix(-60, 0) }

	_, err = ts.bearer()
	assert.ErrorIs(t, err, ErrClock)
}
