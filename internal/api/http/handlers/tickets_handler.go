package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticketdesk/internal/api/dto"
	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/service"
	apperrors "github.com/spec-kit/ticketdesk/pkg/util"
)

// TicketsHandler exposes the ticket collection of the active session.
type TicketsHandler struct {
	accounts *service.AccountService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(accounts *service.AccountService) *TicketsHandler {
	return &TicketsHandler{accounts: accounts}
}

// List handles GET /tickets?view=open|closed&status=<status>.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	workspace := h.accounts.Workspace()
	if workspace == nil {
		return apperrors.NewUnauthorized("no active session")
	}

	tickets := workspace.Tickets()

	open := make([]domain.Ticket, 0, len(tickets))
	closed := make([]domain.Ticket, 0)
	// Every open bucket is present even at zero, so the counts are stable.
	statusCount := make(map[string]int, len(domain.OpenStatuses()))
	for _, status := range domain.OpenStatuses() {
		statusCount[string(status)] = 0
	}
	for _, ticket := range tickets {
		if ticket.IsClosed() {
			closed = append(closed, ticket)
			continue
		}
		open = append(open, ticket)
		statusCount[string(ticket.Status)]++
	}

	view := c.Query("view", "open")
	displayed := open
	if view == "closed" {
		displayed = closed
	} else if status := c.Query("status"); status != "" {
		filtered := make([]domain.Ticket, 0, len(open))
		for _, ticket := range open {
			if string(ticket.Status) == status {
				filtered = append(filtered, ticket)
			}
		}
		displayed = filtered
	}

	return c.JSON(fiber.Map{
		"data": dto.TicketListResponse{
			Tickets:     displayed,
			OpenCount:   len(open),
			ClosedCount: len(closed),
			StatusCount: statusCount,
		},
	})
}

// Save handles PUT /tickets: insert-or-replace by id.
func (h *TicketsHandler) Save(c *fiber.Ctx) error {
	workspace := h.accounts.Workspace()
	if workspace == nil {
		return apperrors.NewUnauthorized("no active session")
	}

	var req dto.TicketSaveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := workspace.SaveTicket(c.UserContext(), req.ToDomain(), req.Editing); err != nil {
		return err
	}
	if req.Editing {
		return c.SendStatus(http.StatusOK)
	}
	return c.SendStatus(http.StatusCreated)
}

// Delete handles DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	workspace := h.accounts.Workspace()
	if workspace == nil {
		return apperrors.NewUnauthorized("no active session")
	}

	if err := workspace.DeleteTicket(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ChangeStatus handles PATCH /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	workspace := h.accounts.Workspace()
	if workspace == nil {
		return apperrors.NewUnauthorized("no active session")
	}

	var req dto.StatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := workspace.ChangeStatus(c.UserContext(), c.Params("id"), domain.TicketStatus(req.Status)); err != nil {
		return err
	}
	return c.SendStatus(http.StatusOK)
}
