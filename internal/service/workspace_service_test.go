package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/persistence"
	"github.com/spec-kit/ticketdesk/internal/repository"
	"github.com/spec-kit/ticketdesk/internal/service"
)

func openTestWorkspace(t *testing.T, store persistence.Store) *service.Workspace {
	t.Helper()
	repo := repository.NewPartitionRepository(store, zap.NewNop())
	ws, err := service.OpenWorkspace(context.Background(), "ana@example.com", repo, nil, zap.NewNop())
	require.NoError(t, err)
	return ws
}

func newTicket(id string, opened time.Time) domain.Ticket {
	return domain.Ticket{
		ID:          id,
		Client:      "Alpha",
		Description: "issue",
		Status:      domain.TicketStatusAnalysis,
		Priority:    domain.TicketPriorityMedium,
		OpeningDate: opened,
	}
}

func TestSaveTicketInsertsSortedByOpeningDateDesc(t *testing.T) {
	store := persistence.NewMemoryStore()
	ws := openTestWorkspace(t, store)
	ctx := context.Background()

	base := time.Date(2024, time.July, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, ws.SaveTicket(ctx, newTicket("CHM-001", base), false))
	require.NoError(t, ws.SaveTicket(ctx, newTicket("CHM-003", base.AddDate(0, 0, 2)), false))
	require.NoError(t, ws.SaveTicket(ctx, newTicket("CHM-002", base.AddDate(0, 0, 1)), false))

	tickets := ws.Tickets()
	require.Equal(t, []string{"CHM-003", "CHM-002", "CHM-001"},
		[]string{tickets[0].ID, tickets[1].ID, tickets[2].ID})
}

func TestSaveTicketRejectsDuplicateID(t *testing.T) {
	store := persistence.NewMemoryStore()
	ws := openTestWorkspace(t, store)
	ctx := context.Background()

	opened := time.Date(2024, time.July, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, ws.SaveTicket(ctx, newTicket("CHM-001", opened), false))
	err := ws.SaveTicket(ctx, newTicket("CHM-001", opened), false)
	require.Error(t, err)
	require.Len(t, ws.Tickets(), 1)
}

func TestSaveTicketEditReplacesByID(t *testing.T) {
	store := persistence.NewMemoryStore()
	ws := openTestWorkspace(t, store)
	ctx := context.Background()

	opened := time.Date(2024, time.July, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, ws.SaveTicket(ctx, newTicket("CHM-001", opened), false))

	edited := newTicket("CHM-001", opened)
	edited.Client = "Beta"
	edited.Priority = domain.TicketPriorityHigh
	require.NoError(t, ws.SaveTicket(ctx, edited, true))

	tickets := ws.Tickets()
	require.Len(t, tickets, 1)
	require.Equal(t, "Beta", tickets[0].Client)
	require.Equal(t, domain.TicketPriorityHigh, tickets[0].Priority)

	require.Error(t, ws.SaveTicket(ctx, newTicket("CHM-404", opened), true))
}

func TestSaveTicketRejectsClosingBeforeOpening(t *testing.T) {
	store := persistence.NewMemoryStore()
	ws := openTestWorkspace(t, store)
	ctx := context.Background()

	opened := time.Date(2024, time.July, 10, 9, 0, 0, 0, time.UTC)
	closed := opened.AddDate(0, 0, -1)
	ticket := newTicket("CHM-001", opened)
	ticket.Status = domain.TicketStatusClosed
	ticket.ClosingDate = &closed

	require.Error(t, ws.SaveTicket(ctx, ticket, false))
	require.Empty(t, ws.Tickets())

	// Nothing reached the store either.
	repo := repository.NewPartitionRepository(store, zap.NewNop())
	persisted, err := repo.LoadTickets(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Empty(t, persisted)
}

func TestSaveTicketNormalizesClosingDate(t *testing.T) {
	store := persistence.NewMemoryStore()
	ws := openTestWorkspace(t, store)
	ctx := context.Background()

	opened := time.Date(2024, time.July, 10, 9, 0, 0, 0, time.UTC)

	// Closed without a closing date gets one.
	ticket := newTicket("CHM-001", opened)
	ticket.Status = domain.TicketStatusClosed
	require.NoError(t, ws.SaveTicket(ctx, ticket, false))
	require.NotNil(t, ws.Tickets()[0].ClosingDate)

	// Not closed but carrying a stale closing date loses it.
	closed := opened.AddDate(0, 0, 1)
	other := newTicket("CHM-002", opened)
	other.ClosingDate = &closed
	require.NoError(t, ws.SaveTicket(ctx, other, false))
	for _, saved := range ws.Tickets() {
		if saved.ID == "CHM-002" {
			require.Nil(t, saved.ClosingDate)
		}
	}
}

func TestChangeStatusTogglesClosingDate(t *testing.T) {
	store := persistence.NewMemoryStore()
	ws := openTestWorkspace(t, store)
	ctx := context.Background()

	opened := time.Date(2024, time.July, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, ws.SaveTicket(ctx, newTicket("CHM-001", opened), false))

	require.NoError(t, ws.ChangeStatus(ctx, "CHM-001", domain.TicketStatusClosed))
	require.NotNil(t, ws.Tickets()[0].ClosingDate)
	require.Equal(t, domain.TicketStatusClosed, ws.Tickets()[0].Status)

	require.NoError(t, ws.ChangeStatus(ctx, "CHM-001", domain.TicketStatusMonitoring))
	require.Nil(t, ws.Tickets()[0].ClosingDate)

	// Repeated toggles keep the invariant.
	require.NoError(t, ws.ChangeStatus(ctx, "CHM-001", domain.TicketStatusClosed))
	require.NotNil(t, ws.Tickets()[0].ClosingDate)
	require.NoError(t, ws.ChangeStatus(ctx, "CHM-001", domain.TicketStatusPending))
	require.Nil(t, ws.Tickets()[0].ClosingDate)

	require.Error(t, ws.ChangeStatus(ctx, "CHM-404", domain.TicketStatusClosed))
	require.Error(t, ws.ChangeStatus(ctx, "CHM-001", domain.TicketStatus("Bogus")))
}

func TestMutationsPersistImmediately(t *testing.T) {
	store := persistence.NewMemoryStore()
	ws := openTestWorkspace(t, store)
	ctx := context.Background()

	opened := time.Date(2024, time.July, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, ws.SaveTicket(ctx, newTicket("CHM-001", opened), false))
	require.NoError(t, ws.ChangeStatus(ctx, "CHM-001", domain.TicketStatusClosed))

	// A fresh workspace over the same store observes the prior writes.
	reopened := openTestWorkspace(t, store)
	tickets := reopened.Tickets()
	require.Len(t, tickets, 1)
	require.Equal(t, domain.TicketStatusClosed, tickets[0].Status)
	require.NotNil(t, tickets[0].ClosingDate)

	require.NoError(t, ws.DeleteTicket(ctx, "CHM-001"))
	reopened = openTestWorkspace(t, store)
	require.Empty(t, reopened.Tickets())
}

func TestNotesLifecycle(t *testing.T) {
	store := persistence.NewMemoryStore()
	ws := openTestWorkspace(t, store)
	ctx := context.Background()

	first, err := ws.AddNote(ctx, "first", "older")
	require.NoError(t, err)
	second, err := ws.AddNote(ctx, "second", "newer")
	require.NoError(t, err)

	notes := ws.Notes()
	require.Len(t, notes, 2)
	// Newest first.
	require.Equal(t, second.ID, notes[0].ID)
	require.Equal(t, first.ID, notes[1].ID)

	require.NoError(t, ws.UpdateNote(ctx, first.ID, "first edited", "changed"))
	notes = ws.Notes()
	for _, note := range notes {
		if note.ID == first.ID {
			require.Equal(t, "first edited", note.Title)
			require.True(t, note.CreatedAt.Equal(first.CreatedAt), "createdAt is immutable")
		}
	}

	require.NoError(t, ws.DeleteNote(ctx, second.ID))
	require.Len(t, ws.Notes(), 1)

	require.Error(t, ws.UpdateNote(ctx, "missing", "x", "y"))
	require.Error(t, ws.DeleteNote(ctx, "missing"))

	_, err = ws.AddNote(ctx, "  ", "")
	require.Error(t, err)
}
