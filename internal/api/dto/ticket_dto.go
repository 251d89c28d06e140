package dto

import (
	"time"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// TicketSaveRequest carries a full ticket for insert-or-replace.
type TicketSaveRequest struct {
	ID          string     `json:"id"`
	Client      string     `json:"client"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	OpeningDate time.Time  `json:"openingDate"`
	ClosingDate *time.Time `json:"closingDate,omitempty"`
	Editing     bool       `json:"editing"`
}

// ToDomain converts the request into the domain aggregate.
func (r TicketSaveRequest) ToDomain() domain.Ticket {
	return domain.Ticket{
		ID:          r.ID,
		Client:      r.Client,
		Description: r.Description,
		Status:      domain.TicketStatus(r.Status),
		Priority:    domain.TicketPriority(r.Priority),
		OpeningDate: r.OpeningDate,
		ClosingDate: r.ClosingDate,
	}
}

// StatusChangeRequest carries the target status for a ticket.
type StatusChangeRequest struct {
	Status string `json:"status"`
}

// TicketListResponse is the filtered listing plus the open-status counts the
// filter bar shows.
type TicketListResponse struct {
	Tickets     []domain.Ticket `json:"tickets"`
	OpenCount   int             `json:"openCount"`
	ClosedCount int             `json:"closedCount"`
	StatusCount map[string]int  `json:"statusCount"`
}
