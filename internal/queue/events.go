package queue

import (
	"fmt"

	"github.com/NanamiNakano/apnoxide/internal/apns"
)

// PushDeliveryPayload is the body of a push_delivery task.
type PushDeliveryPayload struct {
	PushID      string           `json:"push_id"`
	UserID      int64            `json:"user_id"`
	DeviceToken string           `json:"device_token"`
	Spec        NotificationSpec `json:"spec"`
}

// NotificationSpec is the API-facing description of a notification. It is
// carried through the queue as plain JSON and mapped onto the APNs payload
// model on both sides: eagerly by the handler so build failures surface as
// HTTP 400 before anything is queued, and again by the worker right before
// the send.
type NotificationSpec struct {
	Title           string   `json:"title,omitempty"`
	TitleLocKey     string   `json:"title_loc_key,omitempty"`
	TitleLocArgs    []string `json:"title_loc_args,omitempty"`
	Subtitle        string   `json:"subtitle,omitempty"`
	SubtitleLocKey  string   `json:"subtitle_loc_key,omitempty"`
	SubtitleLocArgs []string `json:"subtitle_loc_args,omitempty"`
	Body            string   `json:"body,omitempty"`
	BodyLocKey      string   `json:"body_loc_key,omitempty"`
	BodyLocArgs     []string `json:"body_loc_args,omitempty"`
	LaunchImage     string   `json:"launch_image,omitempty"`

	Badge    *int     `json:"badge,omitempty"`
	Sound    string   `json:"sound,omitempty"`
	Critical bool     `json:"critical,omitempty"`
	Volume   *float64 `json:"volume,omitempty"`

	ThreadID          string   `json:"thread_id,omitempty"`
	Category          string   `json:"category,omitempty"`
	ContentAvailable  bool     `json:"content_available,omitempty"`
	MutableContent    bool     `json:"mutable_content,omitempty"`
	InterruptionLevel string   `json:"interruption_level,omitempty" validate:"omitempty,oneof=passive active time-sensitive critical"`
	RelevanceScore    *float64 `json:"relevance_score,omitempty"`

	Data map[string]any `json:"data,omitempty"`
}

// BuildPayload maps the spec onto the wire payload model. Custom data that
// is not a JSON object is rejected here, before the push is queued.
func (s NotificationSpec) BuildPayload() (*apns.Payload, error) {
	var n apns.Notification

	if alert := s.buildAlert(); alert != nil {
		n.Alert = alert
	}
	n.Badge = s.Badge
	if s.Sound != "" {
		if s.Critical {
			n.Sound = &apns.Sound{
				Critical: apns.Bool(true),
				Name:     s.Sound,
				Volume:   s.Volume,
			}
		} else {
			n.Sound = apns.NamedSound(s.Sound)
		}
	}
	n.ThreadID = s.ThreadID
	n.Category = s.Category
	if s.ContentAvailable {
		n.ContentAvailable = apns.Bool(true)
	}
	if s.MutableContent {
		n.MutableContent = apns.Bool(true)
	}
	n.InterruptionLevel = apns.InterruptionLevel(s.InterruptionLevel)
	n.RelevanceScore = s.RelevanceScore

	payload := &apns.Payload{APS: n}
	if s.Data != nil {
		if err := payload.SetCustom(s.Data); err != nil {
			return nil, fmt.Errorf("build payload: %w", err)
		}
	}
	return payload, nil
}

func (s NotificationSpec) buildAlert() *apns.Alert {
	var alert apns.Alert
	switch {
	case s.TitleLocKey != "":
		alert.Title = apns.Localized(s.TitleLocKey, s.TitleLocArgs...)
	case s.Title != "":
		alert.Title = apns.Text(s.Title)
	}
	switch {
	case s.SubtitleLocKey != "":
		alert.Subtitle = apns.Localized(s.SubtitleLocKey, s.SubtitleLocArgs...)
	case s.Subtitle != "":
		alert.Subtitle = apns.Text(s.Subtitle)
	}
	switch {
	case s.BodyLocKey != "":
		alert.Body = apns.Localized(s.BodyLocKey, s.BodyLocArgs...)
	case s.Body != "":
		alert.Body = apns.Text(s.Body)
	}
	alert.LaunchImage = s.LaunchImage

	if alert == (apns.Alert{}) {
		return nil
	}
	return &alert
}
