package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/persistence"
	"github.com/spec-kit/ticketdesk/internal/repository"
)

func TestPartitionKeyDerivation(t *testing.T) {
	require.Equal(t, "tickets_ana@example.com", repository.PartitionKey("tickets", "Ana@Example.com"))
	require.Equal(t, "notes_anonymous", repository.PartitionKey("notes", ""))
}

func TestTicketsRoundTrip(t *testing.T) {
	store := persistence.NewMemoryStore()
	repo := repository.NewPartitionRepository(store, zap.NewNop())
	ctx := context.Background()

	opened := time.Date(2024, time.July, 10, 9, 0, 0, 0, time.UTC)
	closed := time.Date(2024, time.July, 12, 17, 0, 0, 0, time.UTC)
	tickets := []domain.Ticket{
		{
			ID:          "CHM-001",
			Client:      "Alpha",
			Description: "login broken",
			Status:      domain.TicketStatusClosed,
			Priority:    domain.TicketPriorityUrgent,
			OpeningDate: opened,
			ClosingDate: &closed,
		},
		{
			ID:          "CHM-002",
			Client:      "Beta",
			Status:      domain.TicketStatusAnalysis,
			Priority:    domain.TicketPriorityLow,
			OpeningDate: opened.AddDate(0, 0, 1),
		},
	}

	require.NoError(t, repo.SaveTickets(ctx, "ana@example.com", tickets))

	loaded, err := repo.LoadTickets(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, tickets[0].ID, loaded[0].ID)
	require.True(t, loaded[0].OpeningDate.Equal(opened))
	require.NotNil(t, loaded[0].ClosingDate)
	require.True(t, loaded[0].ClosingDate.Equal(closed))
	require.Nil(t, loaded[1].ClosingDate)

	// Other partitions are unaffected.
	other, err := repo.LoadTickets(ctx, "bruno@example.com")
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestNotesRoundTrip(t *testing.T) {
	store := persistence.NewMemoryStore()
	repo := repository.NewPartitionRepository(store, zap.NewNop())
	ctx := context.Background()

	notes := []domain.Note{
		{ID: "n1", Title: "todo", Content: "call Alpha", CreatedAt: time.Date(2024, time.July, 10, 9, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, repo.SaveNotes(ctx, "ana@example.com", notes))

	loaded, err := repo.LoadNotes(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, notes[0].ID, loaded[0].ID)
	require.Equal(t, notes[0].Content, loaded[0].Content)
	require.True(t, loaded[0].CreatedAt.Equal(notes[0].CreatedAt))
}

func TestCorruptPartitionIsClearedAndEmpty(t *testing.T) {
	store := persistence.NewMemoryStore()
	repo := repository.NewPartitionRepository(store, zap.NewNop())
	ctx := context.Background()

	key := repository.PartitionKey("tickets", "ana@example.com")
	require.NoError(t, store.Set(ctx, key, []byte("no-json-here")))

	tickets, err := repo.LoadTickets(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Empty(t, tickets)

	_, err = store.Get(ctx, key)
	require.ErrorIs(t, err, persistence.ErrKeyNotFound)
}
