package apns

import (
	"encoding/json"
	"fmt"
)

// InterruptionLevel controls how the system delivers and presents a
// notification.
type InterruptionLevel string

const (
	InterruptionPassive       InterruptionLevel = "passive"
	InterruptionActive        InterruptionLevel = "active"
	InterruptionTimeSensitive InterruptionLevel = "time-sensitive"
	InterruptionCritical      InterruptionLevel = "critical"
)

// AlertText is the title, subtitle or body of an alert: either a literal
// string or a localization key with optional arguments. The two forms are
// mutually exclusive; on the wire they are told apart purely by which field
// names appear, so the constructors are the only way to build one.
type AlertText struct {
	text      string
	key       string
	args      []string
	localized bool
}

// Text builds a literal alert text.
func Text(s string) *AlertText {
	return &AlertText{text: s}
}

// Localized builds an alert text resolved from the app's string catalog.
func Localized(key string, args ...string) *AlertText {
	return &AlertText{key: key, args: args, localized: true}
}

// Alert is the user-visible content of a notification. A bare alert
// marshals as a single JSON string; the structured form flattens the
// title, subtitle and body fields into one object.
type Alert struct {
	Title       *AlertText
	Subtitle    *AlertText
	Body        *AlertText
	LaunchImage string

	text string
	bare bool
}

// TextAlert builds the bare-string form of an alert.
func TextAlert(body string) *Alert {
	return &Alert{text: body, bare: true}
}

// alertWire is the flattened object form. The body slot uses the legacy
// "loc-key"/"loc-args" names, not "body-loc-*".
type alertWire struct {
	Title           string   `json:"title,omitempty"`
	TitleLocKey     string   `json:"title-loc-key,omitempty"`
	TitleLocArgs    []string `json:"title-loc-args,omitempty"`
	Subtitle        string   `json:"subtitle,omitempty"`
	SubtitleLocKey  string   `json:"subtitle-loc-key,omitempty"`
	SubtitleLocArgs []string `json:"subtitle-loc-args,omitempty"`
	Body            string   `json:"body,omitempty"`
	LocKey          string   `json:"loc-key,omitempty"`
	LocArgs         []string `json:"loc-args,omitempty"`
	LaunchImage     string   `json:"launch-image,omitempty"`
}

func (a *Alert) MarshalJSON() ([]byte, error) {
	if a.bare {
		return json.Marshal(a.text)
	}
	w := alertWire{LaunchImage: a.LaunchImage}
	if t := a.Title; t != nil {
		if t.localized {
			w.TitleLocKey, w.TitleLocArgs = t.key, t.args
		} else {
			w.Title = t.text
		}
	}
	if s := a.Subtitle; s != nil {
		if s.localized {
			w.SubtitleLocKey, w.SubtitleLocArgs = s.key, s.args
		} else {
			w.Subtitle = s.text
		}
	}
	if b := a.Body; b != nil {
		if b.localized {
			w.LocKey, w.LocArgs = b.key, b.args
		} else {
			w.Body = b.text
		}
	}
	return json.Marshal(w)
}

// Sound selects the sound played on delivery. A bare sound marshals as a
// single JSON string naming a resource in the app bundle; the structured
// form adds the critical flag and volume for critical alerts.
type Sound struct {
	// Critical marks the sound as a critical alert. Encoded as the
	// integer 1 when true; false is never sent.
	Critical *bool

	// Name of the sound file in the app bundle.
	Name string

	// Volume between 0.0 and 1.0 for critical alerts.
	Volume *float64

	name string
	bare bool
}

// NamedSound builds the bare-string form of a sound.
func NamedSound(name string) *Sound {
	return &Sound{name: name, bare: true}
}

type soundWire struct {
	Critical *int     `json:"critical,omitempty"`
	Name     string   `json:"name,omitempty"`
	Volume   *float64 `json:"volume,omitempty"`
}

func (s *Sound) MarshalJSON() ([]byte, error) {
	if s.bare {
		return json.Marshal(s.name)
	}
	return json.Marshal(soundWire{
		Critical: oneIf(s.Critical),
		Name:     s.Name,
		Volume:   s.Volume,
	})
}

// Notification is the aps dictionary of a push payload. Every field is
// optional; the zero value serializes to an empty object.
//
// The *bool flags follow APNs presence semantics: the mere presence of the
// field means true, so a set-to-false flag is omitted exactly like an unset
// one and the wire never carries a JSON boolean.
type Notification struct {
	Alert             *Alert
	Badge             *int
	Sound             *Sound
	ThreadID          string
	Category          string
	ContentAvailable  *bool
	MutableContent    *bool
	TargetContentID   string
	InterruptionLevel InterruptionLevel
	RelevanceScore    *float64
	FilterCriteria    string
	StaleDate         *int64
	ContentState      map[string]any
	Timestamp         *int64
	Event             string
	DismissalDate     *int64
	AttributesType    string
	Attributes        map[string]any
}

// SetContentState coerces v into the content-state dictionary of a Live
// Activity update. v must serialize to a JSON object.
func (n *Notification) SetContentState(v any) error {
	obj, err := jsonObject(v)
	if err != nil {
		return fmt.Errorf("content state: %w", err)
	}
	n.ContentState = obj
	return nil
}

// SetAttributes coerces v into the attributes dictionary used when starting
// a Live Activity. v must serialize to a JSON object.
func (n *Notification) SetAttributes(v any) error {
	obj, err := jsonObject(v)
	if err != nil {
		return fmt.Errorf("attributes: %w", err)
	}
	n.Attributes = obj
	return nil
}

type notificationWire struct {
	Alert             *Alert            `json:"alert,omitempty"`
	Badge             *int              `json:"badge,omitempty"`
	Sound             *Sound            `json:"sound,omitempty"`
	ThreadID          string            `json:"thread-id,omitempty"`
	Category          string            `json:"category,omitempty"`
	ContentAvailable  *int              `json:"content-available,omitempty"`
	MutableContent    *int              `json:"mutable-content,omitempty"`
	TargetContentID   string            `json:"target-content-id,omitempty"`
	InterruptionLevel InterruptionLevel `json:"interruption-level,omitempty"`
	RelevanceScore    *float64          `json:"relevance-score,omitempty"`
	FilterCriteria    string            `json:"filter-criteria,omitempty"`
	StaleDate         *int64            `json:"stale-date,omitempty"`
	ContentState      map[string]any    `json:"content-state,omitempty"`
	Timestamp         *int64            `json:"timestamp,omitempty"`
	Event             string            `json:"event,omitempty"`
	DismissalDate     *int64            `json:"dismissal-date,omitempty"`
	AttributesType    string            `json:"attributes-type,omitempty"`
	Attributes        map[string]any    `json:"attributes,omitempty"`
}

func (n Notification) MarshalJSON() ([]byte, error) {
	return json.Marshal(notificationWire{
		Alert:             n.Alert,
		Badge:             n.Badge,
		Sound:             n.Sound,
		ThreadID:          n.ThreadID,
		Category:          n.Category,
		ContentAvailable:  oneIf(n.ContentAvailable),
		MutableContent:    oneIf(n.MutableContent),
		TargetContentID:   n.TargetContentID,
		InterruptionLevel: n.InterruptionLevel,
		RelevanceScore:    n.RelevanceScore,
		FilterCriteria:    n.FilterCriteria,
		StaleDate:         n.StaleDate,
		ContentState:      n.ContentState,
		Timestamp:         n.Timestamp,
		Event:             n.Event,
		DismissalDate:     n.DismissalDate,
		AttributesType:    n.AttributesType,
		Attributes:        n.Attributes,
	})
}

// Payload is the full request body: the aps dictionary plus any custom
// top-level fields flattened alongside it.
type Payload struct {
	APS Notification

	custom map[string]any
}

// SetCustom flattens v's fields into the top level of the payload, next to
// the aps key. v must serialize to a JSON object, and may not carry a field
// named "aps".
func (p *Payload) SetCustom(v any) error {
	obj, err := jsonObject(v)
	if err != nil {
		return fmt.Errorf("custom data: %w", err)
	}
	if _, ok := obj["aps"]; ok {
		return fmt.Errorf("custom data: field name %q is reserved", "aps")
	}
	p.custom = obj
	return nil
}

func (p Payload) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.custom)+1)
	for k, v := range p.custom {
		m[k] = v
	}
	m["aps"] = p.APS
	return json.Marshal(m)
}

// jsonObject converts v to a generic key/value object via its JSON form.
func jsonObject(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, ErrNotAnObject
	}
	if obj == nil {
		// JSON null unmarshals into a nil map without error.
		return nil, ErrNotAnObject
	}
	return obj, nil
}

// oneIf maps a presence flag to its wire form: 1 when set to true, omitted
// otherwise.
func oneIf(b *bool) *int {
	if b != nil && *b {
		one := 1
		return &one
	}
	return nil
}

// Bool returns a pointer to b, for the optional flag fields.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Int64 returns a pointer to i.
func Int64(i int64) *int64 { return &i }

// Float64 returns a pointer to f.
func Float64(f float64) *float64 { return &f }
