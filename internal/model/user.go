package model

import "time"

// Plan names accepted at registration. Premium has no daily request cap.
const (
	PlanFree    = "free"
	PlanPro     = "pro"
	PlanPremium = "premium"
)

// User represents an API consumer identified by an issued key.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	APIKey       string    `json:"apiKey,omitempty"`
	Plan         string    `json:"plan"`
	RequestCount int       `json:"requestCount"`
	RequestDate  string    `json:"requestDate"` // YYYY-MM-DD of the current counter window
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}
