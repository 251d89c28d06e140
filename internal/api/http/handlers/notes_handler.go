package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticketdesk/internal/api/dto"
	"github.com/spec-kit/ticketdesk/internal/service"
	apperrors "github.com/spec-kit/ticketdesk/pkg/util"
)

// NotesHandler exposes the notepad of the active session.
type NotesHandler struct {
	accounts *service.AccountService
}

// NewNotesHandler constructs handler.
func NewNotesHandler(accounts *service.AccountService) *NotesHandler {
	return &NotesHandler{accounts: accounts}
}

// List handles GET /notes.
func (h *NotesHandler) List(c *fiber.Ctx) error {
	workspace := h.accounts.Workspace()
	if workspace == nil {
		return apperrors.NewUnauthorized("no active session")
	}
	return c.JSON(fiber.Map{"data": workspace.Notes()})
}

// Create handles POST /notes.
func (h *NotesHandler) Create(c *fiber.Ctx) error {
	workspace := h.accounts.Workspace()
	if workspace == nil {
		return apperrors.NewUnauthorized("no active session")
	}

	var req dto.NoteCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	note, err := workspace.AddNote(c.UserContext(), req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": note})
}

// Update handles PUT /notes/:id.
func (h *NotesHandler) Update(c *fiber.Ctx) error {
	workspace := h.accounts.Workspace()
	if workspace == nil {
		return apperrors.NewUnauthorized("no active session")
	}

	var req dto.NoteUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := workspace.UpdateNote(c.UserContext(), c.Params("id"), req.Title, req.Content); err != nil {
		return err
	}
	return c.SendStatus(http.StatusOK)
}

// Delete handles DELETE /notes/:id.
func (h *NotesHandler) Delete(c *fiber.Ctx) error {
	workspace := h.accounts.Workspace()
	if workspace == nil {
		return apperrors.NewUnauthorized("no active session")
	}

	if err := workspace.DeleteNote(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
