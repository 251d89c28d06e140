package events

import (
	"time"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered   EventType = "account_registered"
	EventAccountLoggedIn     EventType = "account_logged_in"
	EventAccountLoggedOut    EventType = "account_logged_out"
	EventCredentialMigrated  EventType = "credential_migrated"
	EventTicketSaved         EventType = "ticket_saved"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketDeleted       EventType = "ticket_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Email     string      `json:"email,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TicketSavedPayload payload.
type TicketSavedPayload struct {
	TicketID string                `json:"ticket_id"`
	Client   string                `json:"client"`
	Priority domain.TicketPriority `json:"priority"`
	Editing  bool                  `json:"editing"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketID  string              `json:"ticket_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	TicketID string `json:"ticket_id"`
}
