package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/events"
	"github.com/spec-kit/ticketdesk/internal/repository"
	"github.com/spec-kit/ticketdesk/pkg/util"
)

// Workspace owns the in-memory ticket and note collections of one account
// partition. A workspace only exists fully loaded: OpenWorkspace performs the
// initial load before handing the value out, so no mutation can write to the
// store ahead of it. Every mutation is applied in memory and persisted before
// the call returns.
type Workspace struct {
	mu         sync.Mutex
	email      string
	partitions repository.PartitionRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger

	tickets []domain.Ticket
	notes   []domain.Note
}

// OpenWorkspace loads the partition identified by email and returns the
// workspace bound to it. Corrupt partition data has already been degraded to
// empty collections by the repository.
func OpenWorkspace(ctx context.Context, email string, partitions repository.PartitionRepository, dispatcher events.Dispatcher, logger *zap.Logger) (*Workspace, error) {
	tickets, err := partitions.LoadTickets(ctx, email)
	if err != nil {
		return nil, err
	}
	notes, err := partitions.LoadNotes(ctx, email)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{
		email:      email,
		partitions: partitions,
		dispatcher: dispatcher,
		logger:     logger,
		tickets:    tickets,
		notes:      notes,
	}
	ws.sortTicketsLocked()
	ws.sortNotesLocked()
	logger.Debug("workspace loaded",
		zap.String("email", email),
		zap.Int("tickets", len(tickets)),
		zap.Int("notes", len(notes)))
	return ws, nil
}

// Email returns the partition identity this workspace is bound to.
func (w *Workspace) Email() string {
	return w.email
}

// Tickets returns a snapshot of the ticket collection, newest opening first.
func (w *Workspace) Tickets() []domain.Ticket {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.Ticket{}, w.tickets...)
}

// Notes returns a snapshot of the note collection, newest first.
func (w *Workspace) Notes() []domain.Note {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.Note{}, w.notes...)
}

// SaveTicket inserts a new ticket or replaces an existing one by id, then
// re-sorts by opening date descending and persists the collection. The
// closing date is normalized against the status before anything is written:
// a ticket is closed iff it carries a closing date.
func (w *Workspace) SaveTicket(ctx context.Context, ticket domain.Ticket, isEditing bool) error {
	ticket.ID = strings.TrimSpace(ticket.ID)
	ticket.Client = strings.TrimSpace(ticket.Client)

	if ticket.ID == "" || ticket.Client == "" {
		return util.NewValidationError("ticket id and client are required", nil)
	}
	if !domain.ValidStatus(ticket.Status) {
		return util.NewValidationError("unknown ticket status", map[string]any{"status": ticket.Status})
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(ticket.Priority) {
		return util.NewValidationError("unknown ticket priority", map[string]any{"priority": ticket.Priority})
	}
	if ticket.OpeningDate.IsZero() {
		return util.NewValidationError("opening date is required", nil)
	}

	if ticket.Status == domain.TicketStatusClosed {
		if ticket.ClosingDate == nil {
			now := time.Now()
			ticket.ClosingDate = &now
		}
		if ticket.ClosingDate.Before(ticket.OpeningDate) {
			return util.NewValidationError("closing date precedes opening date", nil)
		}
	} else {
		ticket.ClosingDate = nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	index := w.indexOfTicketLocked(ticket.ID)
	if isEditing {
		if index < 0 {
			return util.NewNotFound("ticket", map[string]any{"id": ticket.ID})
		}
		w.tickets[index] = ticket
	} else {
		if index >= 0 {
			return util.NewConflict("ticket id already exists", map[string]any{"id": ticket.ID})
		}
		w.tickets = append([]domain.Ticket{ticket}, w.tickets...)
	}
	w.sortTicketsLocked()

	if err := w.persistTicketsLocked(ctx); err != nil {
		return err
	}
	w.publish(ctx, events.Event{
		Type:  events.EventTicketSaved,
		Email: w.email,
		Payload: events.TicketSavedPayload{
			TicketID: ticket.ID,
			Client:   ticket.Client,
			Priority: ticket.Priority,
			Editing:  isEditing,
		},
	})
	return nil
}

// DeleteTicket removes the ticket with the given id and persists.
func (w *Workspace) DeleteTicket(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	index := w.indexOfTicketLocked(id)
	if index < 0 {
		return util.NewNotFound("ticket", map[string]any{"id": id})
	}
	w.tickets = append(w.tickets[:index], w.tickets[index+1:]...)

	if err := w.persistTicketsLocked(ctx); err != nil {
		return err
	}
	w.publish(ctx, events.Event{
		Type:    events.EventTicketDeleted,
		Email:   w.email,
		Payload: events.TicketDeletedPayload{TicketID: id},
	})
	return nil
}

// ChangeStatus moves a ticket to newStatus, stamping the closing date on the
// transition into Closed and clearing it on the transition out.
func (w *Workspace) ChangeStatus(ctx context.Context, id string, newStatus domain.TicketStatus) error {
	if !domain.ValidStatus(newStatus) {
		return util.NewValidationError("unknown ticket status", map[string]any{"status": newStatus})
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	index := w.indexOfTicketLocked(id)
	if index < 0 {
		return util.NewNotFound("ticket", map[string]any{"id": id})
	}

	ticket := &w.tickets[index]
	oldStatus := ticket.Status
	if newStatus == domain.TicketStatusClosed && oldStatus != domain.TicketStatusClosed {
		now := time.Now()
		ticket.ClosingDate = &now
	} else if newStatus != domain.TicketStatusClosed && oldStatus == domain.TicketStatusClosed {
		ticket.ClosingDate = nil
	}
	ticket.Status = newStatus

	if err := w.persistTicketsLocked(ctx); err != nil {
		return err
	}
	w.publish(ctx, events.Event{
		Type:  events.EventTicketStatusChanged,
		Email: w.email,
		Payload: events.TicketStatusChangedPayload{
			TicketID:  id,
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return nil
}

// AddNote creates a note with a generated id and the current timestamp.
func (w *Workspace) AddNote(ctx context.Context, title, content string) (*domain.Note, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(content) == "" {
		return nil, util.NewValidationError("note is empty", nil)
	}

	note := domain.Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.notes = append([]domain.Note{note}, w.notes...)
	w.sortNotesLocked()

	if err := w.persistNotesLocked(ctx); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote rewrites the title and content of an existing note. ID and
// creation time are immutable.
func (w *Workspace) UpdateNote(ctx context.Context, id, title, content string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.notes {
		if w.notes[i].ID == id {
			w.notes[i].Title = title
			w.notes[i].Content = content
			w.sortNotesLocked()
			return w.persistNotesLocked(ctx)
		}
	}
	return util.NewNotFound("note", map[string]any{"id": id})
}

// DeleteNote removes the note with the given id and persists.
func (w *Workspace) DeleteNote(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.notes {
		if w.notes[i].ID == id {
			w.notes = append(w.notes[:i], w.notes[i+1:]...)
			return w.persistNotesLocked(ctx)
		}
	}
	return util.NewNotFound("note", map[string]any{"id": id})
}

func (w *Workspace) indexOfTicketLocked(id string) int {
	for i := range w.tickets {
		if w.tickets[i].ID == id {
			return i
		}
	}
	return -1
}

func (w *Workspace) sortTicketsLocked() {
	sort.SliceStable(w.tickets, func(i, j int) bool {
		return w.tickets[i].OpeningDate.After(w.tickets[j].OpeningDate)
	})
}

func (w *Workspace) sortNotesLocked() {
	sort.SliceStable(w.notes, func(i, j int) bool {
		return w.notes[i].CreatedAt.After(w.notes[j].CreatedAt)
	})
}

func (w *Workspace) persistTicketsLocked(ctx context.Context) error {
	return w.partitions.SaveTickets(ctx, w.email, w.tickets)
}

func (w *Workspace) persistNotesLocked(ctx context.Context) error {
	return w.partitions.SaveNotes(ctx, w.email, w.notes)
}

func (w *Workspace) publish(ctx context.Context, event events.Event) {
	if w.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = w.dispatcher.Publish(ctx, event)
}
