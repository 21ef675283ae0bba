package apns

import (
	"fmt"
	"net/http"
	"strconv"
)

// PushOptions maps 1:1 onto the apns-* request headers. Topic is the only
// mandatory field; everything else is sent only when set.
type PushOptions struct {
	// PushType is the apns-push-type value ("alert", "background",
	// "liveactivity", ...).
	PushType string

	// ID is a caller-chosen canonical UUID for the notification. When
	// empty, APNs assigns one and returns it in the receipt.
	ID string

	// Expiration is the apns-expiration value in Unix seconds.
	Expiration *int64

	// Priority is the apns-priority value (1, 5 or 10).
	Priority *int

	// Topic is the apns-topic header, normally the app bundle id.
	Topic string

	// CollapseID coalesces notifications sharing the same value.
	CollapseID string
}

// headers builds the request header set. Every value is checked for valid
// header content first so a bad option never reaches the wire.
func (o PushOptions) headers() (http.Header, error) {
	h := make(http.Header)
	set := func(name, value string) error {
		if !validHeaderValue(value) {
			return fmt.Errorf("%w: %s", ErrHeader, name)
		}
		h.Set(name, value)
		return nil
	}

	if o.PushType != "" {
		if err := set("apns-push-type", o.PushType); err != nil {
			return nil, err
		}
	}
	if o.ID != "" {
		if err := set("apns-id", o.ID); err != nil {
			return nil, err
		}
	}
	if o.Expiration != nil {
		if err := set("apns-expiration", strconv.FormatInt(*o.Expiration, 10)); err != nil {
			return nil, err
		}
	}
	if o.Priority != nil {
		if err := set("apns-priority", strconv.Itoa(*o.Priority)); err != nil {
			return nil, err
		}
	}
	if o.CollapseID != "" {
		if err := set("apns-collapse-id", o.CollapseID); err != nil {
			return nil, err
		}
	}
	if err := set("apns-topic", o.Topic); err != nil {
		return nil, err
	}
	return h, nil
}

// validHeaderValue reports whether s may appear as an HTTP header value:
// visible ASCII plus space and horizontal tab, no control bytes.
func validHeaderValue(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 0x20 && c != '\t') || c == 0x7f {
			return false
		}
	}
	return true
}
