package models

import "time"

// Presence is the practitioner's online/offline flag, independent of
// appointment state. Unset storage reads as offline.
type Presence struct {
	Online    bool      `json:"online"`
	UpdatedAt time.Time `json:"updated_at"`
}
