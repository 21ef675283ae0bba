package apns

import (
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenLifetime is how long a signed provider token is reused before a new
// one is produced. APNs refuses tokens older than an hour and throttles
// clients that re-sign too often; 20 minutes matches the enforced lifetime
// with room to spare. Not configurable.
const tokenLifetime = 20 * time.Minute

// tokenSource signs and caches the ES256 provider token that authenticates
// pushes. It owns the (token, signedAt) pair; both are replaced together on
// refresh and never touched elsewhere. Not safe for concurrent use.
type tokenSource struct {
	teamID string
	keyID  string
	key    *ecdsa.PrivateKey

	token    string
	signedAt time.Time

	now func() time.Time
}

// newTokenSource parses the PEM-encoded .p8 signing key once, up front, so a
// bad key fails construction instead of the first push.
func newTokenSource(teamID, keyID string, keyPEM []byte) (*tokenSource, error) {
	key, err := jwt.ParseECPrivateKeyFromPEM(keyPEM)
	if err != nil {
		return nil, fmt.Errorf("%w: parse signing key: %v", ErrInitialize, err)
	}
	return &tokenSource{
		teamID: teamID,
		keyID:  keyID,
		key:    key,
		now:    time.Now,
	}, nil
}

// bearer returns the current provider token, signing a fresh one only when
// the cached token has aged past tokenLifetime.
func (s *tokenSource) bearer() (string, error) {
	now := s.now()
	if now.Unix() < 0 {
		return "", ErrClock
	}
	if s.token != "" && now.Sub(s.signedAt) < tokenLifetime {
		return s.token, nil
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": s.teamID,
		"iat": now.Unix(),
	})
	tok.Header["kid"] = s.keyID
	// APNs provider tokens carry no typ header.
	delete(tok.Header, "typ")

	signed, err := tok.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSign, err)
	}
	s.token, s.signedAt = signed, now
	return signed, nil
}
