package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusAnalysis   TicketStatus = "Analysis"
	TicketStatusMonitoring TicketStatus = "Monitoring"
	TicketStatusPending    TicketStatus = "Pending"
	TicketStatusClosed     TicketStatus = "Closed"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
	TicketPriorityUrgent TicketPriority = "Urgent"
)

// Ticket is the aggregate for support requests. The ID is the user-assigned
// ticket number, not generated.
type Ticket struct {
	ID          string         `json:"id"`
	Client      string         `json:"client"`
	Description string         `json:"description"`
	Status      TicketStatus   `json:"status"`
	Priority    TicketPriority `json:"priority"`
	OpeningDate time.Time      `json:"openingDate"`
	ClosingDate *time.Time     `json:"closingDate,omitempty"`
}

// IsClosed reports whether the ticket reached its terminal status.
func (t Ticket) IsClosed() bool {
	return t.Status == TicketStatusClosed
}

// ValidStatus reports whether s is one of the known status values.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusAnalysis, TicketStatusMonitoring, TicketStatusPending, TicketStatusClosed:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the known priority values.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// OpenStatuses lists every non-terminal status in display order.
func OpenStatuses() []TicketStatus {
	return []TicketStatus{TicketStatusAnalysis, TicketStatusMonitoring, TicketStatusPending}
}
