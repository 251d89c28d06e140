package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticketdesk/internal/api/dto"
	"github.com/spec-kit/ticketdesk/internal/repository"
	"github.com/spec-kit/ticketdesk/internal/service"
	"github.com/spec-kit/ticketdesk/internal/stats"
	apperrors "github.com/spec-kit/ticketdesk/pkg/util"
)

// Known dashboard card ids per group. A stored ordering that does not match
// these sets exactly is discarded in favor of the defaults.
var (
	defaultInfoCardOrder = []string{
		"closedToday", "avgClosingTime", "totalOpen",
		"clientMonth", "clientWeek", "totalTickets",
	}
	defaultDistCardOrder = []string{"statusDistribution", "priorityDistribution"}
)

// DashboardHandler exposes the statistics snapshot and card-order prefs.
type DashboardHandler struct {
	accounts *service.AccountService
	prefs    repository.PrefsRepository
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(accounts *service.AccountService, prefs repository.PrefsRepository) *DashboardHandler {
	return &DashboardHandler{accounts: accounts, prefs: prefs}
}

// Stats handles GET /dashboard/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	workspace := h.accounts.Workspace()
	if workspace == nil {
		return apperrors.NewUnauthorized("no active session")
	}

	snapshot := stats.Compute(workspace.Tickets(), time.Now())
	return c.JSON(fiber.Map{"data": snapshot})
}

// CardOrder handles GET /dashboard/cards/:group.
func (h *DashboardHandler) CardOrder(c *fiber.Ctx) error {
	workspace := h.accounts.Workspace()
	if workspace == nil {
		return apperrors.NewUnauthorized("no active session")
	}

	group, defaults, err := cardGroup(c.Params("group"))
	if err != nil {
		return err
	}

	order, err := h.prefs.LoadCardOrder(c.UserContext(), group, workspace.Email())
	if err != nil {
		return err
	}
	if !sameCardSet(order, defaults) {
		order = defaults
	}
	return c.JSON(fiber.Map{"data": order})
}

// SaveCardOrder handles PUT /dashboard/cards/:group.
func (h *DashboardHandler) SaveCardOrder(c *fiber.Ctx) error {
	workspace := h.accounts.Workspace()
	if workspace == nil {
		return apperrors.NewUnauthorized("no active session")
	}

	group, defaults, err := cardGroup(c.Params("group"))
	if err != nil {
		return err
	}

	var req dto.CardOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if !sameCardSet(req.Order, defaults) {
		return apperrors.NewValidationError("unknown or incomplete card set", nil)
	}

	if err := h.prefs.SaveCardOrder(c.UserContext(), group, workspace.Email(), req.Order); err != nil {
		return err
	}
	return c.SendStatus(http.StatusOK)
}

func cardGroup(name string) (repository.CardGroup, []string, error) {
	switch name {
	case "info":
		return repository.CardGroupInfo, defaultInfoCardOrder, nil
	case "distribution":
		return repository.CardGroupDistribution, defaultDistCardOrder, nil
	default:
		return "", nil, apperrors.NewNotFound("card group", map[string]any{"group": name})
	}
}

// sameCardSet reports whether order is a permutation of the known card ids.
func sameCardSet(order, known []string) bool {
	if len(order) != len(known) {
		return false
	}
	seen := make(map[string]bool, len(known))
	for _, id := range known {
		seen[id] = true
	}
	for _, id := range order {
		if !seen[id] {
			return false
		}
		seen[id] = false
	}
	return true
}
