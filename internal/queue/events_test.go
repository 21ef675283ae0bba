package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NanamiNakano/apnoxide/internal/apns"
)

func TestBuildPayloadFull(t *testing.T) {
	spec := NotificationSpec{
		Title:             "Title",
		SubtitleLocKey:    "SUBTITLE_KEY",
		Body:              "Body",
		Badge:             apns.Int(3),
		Sound:             "siren.aiff",
		Critical:          true,
		Volume:            apns.Float64(0.5),
		ThreadID:          "thread-1",
		MutableContent:    true,
		InterruptionLevel: "time-sensitive",
		Data:              map[string]any{"order_id": "A-42"},
	}

	payload, err := spec.BuildPayload()
	require.NoError(t, err)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"aps": {
			"alert": {
				"title": "Title",
				"subtitle-loc-key": "SUBTITLE_KEY",
				"body": "Body"
			},
			"badge": 3,
			"sound": {"critical": 1, "name": "siren.aiff", "volume": 0.5},
			"thread-id": "thread-1",
			"mutable-content": 1,
			"interruption-level": "time-sensitive"
		},
		"order_id": "A-42"
	}`, string(raw))
}

func TestBuildPayloadPlainSound(t *testing.T) {
	payload, err := NotificationSpec{Body: "hi", Sound: "default"}.BuildPayload()
	require.NoError(t, err)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"aps":{"alert":{"body":"hi"},"sound":"default"}}`, string(raw))
}

func TestBuildPayloadBackground(t *testing.T) {
	payload, err := NotificationSpec{ContentAvailable: true}.BuildPayload()
	require.NoError(t, err)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"aps":{"content-available":1}}`, string(raw))
}

func TestBuildPayloadLocKeyWinsOverLiteral(t *testing.T) {
	payload, err := NotificationSpec{
		Title:        "ignored",
		TitleLocKey:  "TITLE_KEY",
		TitleLocArgs: []string{"x"},
	}.BuildPayload()
	require.NoError(t, err)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"aps":{"alert":{"title-loc-key":"TITLE_KEY","title-loc-args":["x"]}}}`, string(raw))
}

func TestBuildPayloadRejectsReservedDataKey(t *testing.T) {
	_, err := NotificationSpec{Data: map[string]any{"aps": 1}}.BuildPayload()
	assert.Error(t, err)
}

func TestBuildPayloadEmptySpec(t *testing.T) {
	payload, err := NotificationSpec{}.BuildPayload()
	require.NoError(t, err)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"aps":{}}`, string(raw))
}
