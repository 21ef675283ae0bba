package apns

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyNotification(t *testing.T) {
	raw, err := json.Marshal(Notification{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw))
}

func TestFilledNotification(t *testing.T) {
	n := Notification{
		Alert: &Alert{
			Title:    Text("Title"),
			Subtitle: Localized("SUBTITLE_KEY"),
		},
		Sound:             &Sound{Critical: Bool(true)},
		MutableContent:    Bool(true),
		InterruptionLevel: InterruptionTimeSensitive,
	}

	raw, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"alert": {"title": "Title", "subtitle-loc-key": "SUBTITLE_KEY"},
		"sound": {"critical": 1},
		"mutable-content": 1,
		"interruption-level": "time-sensitive"
	}`, string(raw))
}

func TestFlagsNeverSerializeAsBooleans(t *testing.T) {
	n := Notification{
		ContentAvailable: Bool(true),
		MutableContent:   Bool(false),
	}

	raw, err := json.Marshal(n)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// Presence means true; a false flag is indistinguishable from an
	// unset one on the wire.
	assert.Equal(t, float64(1), decoded["content-available"])
	assert.NotContains(t, decoded, "mutable-content")
	for k, v := range decoded {
		_, isBool := v.(bool)
		assert.False(t, isBool, "field %s serialized as a JSON boolean", k)
	}
}

func TestBareAlertAndSound(t *testing.T) {
	n := Notification{
		Alert: TextAlert("You have mail"),
		Sound: NamedSound("chime.aiff"),
	}

	raw, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"alert":"You have mail","sound":"chime.aiff"}`, string(raw))
}

func TestLocalizedAlertWithArgs(t *testing.T) {
	n := Notification{
		Alert: &Alert{
			Title:       Localized("GAME_INVITE", "Alice", "Bob"),
			Body:        Localized("GAME_BODY"),
			LaunchImage: "invite.png",
		},
	}

	raw, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"alert": {
			"title-loc-key": "GAME_INVITE",
			"title-loc-args": ["Alice", "Bob"],
			"loc-key": "GAME_BODY",
			"launch-image": "invite.png"
		}
	}`, string(raw))
}

func TestCriticalSound(t *testing.T) {
	n := Notification{
		Sound: &Sound{
			Critical: Bool(true),
			Name:     "siren.aiff",
			Volume:   Float64(0.75),
		},
	}

	raw, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sound":{"critical":1,"name":"siren.aiff","volume":0.75}}`, string(raw))
}

func TestCustomPayload(t *testing.T) {
	var p Payload
	require.NoError(t, p.SetCustom(struct {
		Payload string `json:"payload"`
	}{Payload: "payload"}))

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"aps":{},"payload":"payload"}`, string(raw))
}

func TestCustomPayloadMustBeObject(t *testing.T) {
	var p Payload
	assert.ErrorIs(t, p.SetCustom([]string{"a", "b"}), ErrNotAnObject)
	assert.ErrorIs(t, p.SetCustom(42), ErrNotAnObject)
	assert.ErrorIs(t, p.SetCustom(nil), ErrNotAnObject)
}

func TestCustomPayloadRejectsReservedKey(t *testing.T) {
	var p Payload
	err := p.SetCustom(map[string]any{"aps": "shadowed"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotAnObject)
	assert.Contains(t, err.Error(), "reserved")
}

func TestContentStateAndAttributes(t *testing.T) {
	type state struct {
		Score int `json:"score"`
	}

	var n Notification
	require.NoError(t, n.SetContentState(state{Score: 3}))
	require.NoError(t, n.SetAttributes(map[string]any{"match": "semifinal"}))
	n.AttributesType = "MatchAttributes"
	n.Event = "update"
	n.Timestamp = Int64(1700000000)

	raw, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"content-state": {"score": 3},
		"attributes": {"match": "semifinal"},
		"attributes-type": "MatchAttributes",
		"event": "update",
		"timestamp": 1700000000
	}`, string(raw))

	assert.ErrorIs(t, n.SetContentState("scalar"), ErrNotAnObject)
	assert.ErrorIs(t, n.SetAttributes([]int{1}), ErrNotAnObject)
}

func TestEmptyPayload(t *testing.T) {
	raw, err := json.Marshal(Payload{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"aps":{}}`, string(raw))
}
