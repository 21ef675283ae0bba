package apns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsHeadersTopicOnly(t *testing.T) {
	h, err := PushOptions{Topic: "com.example.app"}.headers()
	require.NoError(t, err)

	assert.Equal(t, "com.example.app", h.Get("apns-topic"))
	assert.Len(t, h, 1)
}

func TestOptionsHeadersAllSet(t *testing.T) {
	h, err := PushOptions{
		PushType:   "alert",
		ID:         "8lxW9-1",
		Expiration: Int64(1700000600),
		Priority:   Int(10),
		Topic:      "com.example.app",
		CollapseID: "score-update",
	}.headers()
	require.NoError(t, err)

	assert.Equal(t, "alert", h.Get("apns-push-type"))
	assert.Equal(t, "8lxW9-1", h.Get("apns-id"))
	assert.Equal(t, "1700000600", h.Get("apns-expiration"))
	assert.Equal(t, "10", h.Get("apns-priority"))
	assert.Equal(t, "com.example.app", h.Get("apns-topic"))
	assert.Equal(t, "score-update", h.Get("apns-collapse-id"))
}

func TestOptionsHeadersRejectControlBytes(t *testing.T) {
	_, err := PushOptions{Topic: "com.example\r\nx-injected: 1"}.headers()
	assert.ErrorIs(t, err, ErrHeader)

	_, err = PushOptions{Topic: "com.example.app", CollapseID: "bad\x00id"}.headers()
	assert.ErrorIs(t, err, ErrHeader)
}
