package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const DomainClicks = "clicks"

const EventTypeClick = "click"

// ClickPayload is one user click as it travels through the ingestion
// pipeline. ClickEnd is nil for sources that only report click starts.
type ClickPayload struct {
	UserID     int                    `json:"user_id"`
	SessionID  string                 `json:"session_id,omitempty"`
	ClickStart time.Time              `json:"click_start"`
	ClickEnd   *time.Time             `json:"click_end,omitempty"`
	Additional map[string]interface{} `json:"additional,omitempty"`
}

func (p *ClickPayload) Validate() error {
	if p == nil {
		return errors.New("payload must not be nil")
	}
	if p.UserID == 0 {
		return errors.New("user_id must be set")
	}
	if p.ClickStart.IsZero() {
		return errors.New("click_start must be set")
	}
	if p.ClickEnd != nil && p.ClickEnd.Before(p.ClickStart) {
		return errors.New("click_end must not precede click_start")
	}
	return nil
}

func (e Envelope) ClickPayload() (ClickPayload, error) {
	if e.Domain != DomainClicks {
		return ClickPayload{}, fmt.Errorf("expected domain %q, got %q", DomainClicks, e.Domain)
	}

	var payload ClickPayload
	if err := e.PayloadInto(&payload); err != nil {
		return ClickPayload{}, err
	}
	if err := payload.Validate(); err != nil {
		return ClickPayload{}, fmt.Errorf("invalid click payload: %w", err)
	}
	return payload, nil
}

// WrapClick builds the envelope the ingest endpoint publishes for one
// click payload.
func WrapClick(source string, payload ClickPayload) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal click payload: %w", err)
	}

	return Envelope{
		SpecVersion: SpecVersionV1,
		Domain:      DomainClicks,
		EventType:   EventTypeClick,
		Source:      source,
		Timestamp:   time.Now().UTC(),
		Payload:     raw,
	}, nil
}
