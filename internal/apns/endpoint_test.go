package apns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointPresets(t *testing.T) {
	assert.Equal(t, "api.push.apple.com:443", Production().String())
	assert.Equal(t, "api.push.apple.com:2197", ProductionAlternate().String())
	assert.Equal(t, "api.sandbox.push.apple.com:443", Development().String())
	assert.Equal(t, "api.sandbox.push.apple.com:2197", DevelopmentAlternate().String())
}

func TestParseEndpoint(t *testing.T) {
	e, err := ParseEndpoint("api.push.apple.com:2197")
	require.NoError(t, err)
	assert.Equal(t, ProductionAlternate(), e)

	for _, bad := range []string{"", "no-port", ":443", "host:", "host:abc", "host:0", "host:70000", "a:b:c"} {
		_, err := ParseEndpoint(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestEndpointRoundTrip(t *testing.T) {
	e := Endpoint{Host: "localhost", Port: 8443}
	parsed, err := ParseEndpoint(e.String())
	require.NoError(t, err)
	assert.Equal(t, e, parsed)
	assert.Equal(t, "https://localhost:8443", e.baseURL())
}
