package dto

import "time"

// SessionEditedMessage rides the in-process bus from the edit endpoint to the
// auto-save consumer. It carries only identity and edit time; the consumer
// reads the current document from the session cache when the save fires, so a
// stale message can never overwrite newer content.
type SessionEditedMessage struct {
	SessionId string    `json:"session_id"`
	EditedAt  time.Time `json:"edited_at"`
}
