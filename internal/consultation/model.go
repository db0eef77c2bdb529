package consultation

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Consultation is one AI triage exchange kept for a signed-in user.
type Consultation struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patientId"`
	Language  string    `json:"language"`

	History []Message `json:"history"`

	// Empty when the model reply could not be parsed.
	Classification string `json:"classification,omitempty"`
	Summary        string `json:"summary,omitempty"`

	ImageCount int       `json:"imageCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Label is the short description shown in activity feeds.
func (c Consultation) Label() string {
	if c.Classification == "" {
		return "Assessment unavailable"
	}
	return "Triage: " + c.Classification
}
