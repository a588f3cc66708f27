package domain

import "time"

type Severity string

const (
	SeverityInfo        Severity = "info"
	SeverityDestructive Severity = "destructive"
)

// Notification is a user-facing event (toast). Delivery is fire-and-forget.
type Notification struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	IdentityID  string    `json:"identityId,omitempty"`
	At          time.Time `json:"at"`
}
