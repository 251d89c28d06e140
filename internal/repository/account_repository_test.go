package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/persistence"
	"github.com/spec-kit/ticketdesk/internal/repository"
)

func TestRosterRoundTrip(t *testing.T) {
	store := persistence.NewMemoryStore()
	repo := repository.NewAccountRepository(store, zap.NewNop())
	ctx := context.Background()

	roster, err := repo.LoadRoster(ctx)
	require.NoError(t, err)
	require.Empty(t, roster)

	roster = []domain.Account{
		{ID: "1", Name: "Ana", Email: "ana@example.com", Credential: "$2a$04$abc"},
		{ID: "2", Name: "Bruno", Email: "bruno@example.com", Credential: "legacy-plain"},
	}
	require.NoError(t, repo.SaveRoster(ctx, roster))

	loaded, err := repo.LoadRoster(ctx)
	require.NoError(t, err)
	require.Equal(t, roster, loaded)
}

func TestCorruptRosterDegradesToEmpty(t *testing.T) {
	store := persistence.NewMemoryStore()
	repo := repository.NewAccountRepository(store, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "app_users", []byte("{not json")))

	roster, err := repo.LoadRoster(ctx)
	require.NoError(t, err)
	require.Empty(t, roster)

	// The corrupt value is gone, not merely skipped.
	_, err = store.Get(ctx, "app_users")
	require.ErrorIs(t, err, persistence.ErrKeyNotFound)
}

func TestSessionLifecycle(t *testing.T) {
	store := persistence.NewMemoryStore()
	repo := repository.NewAccountRepository(store, zap.NewNop())
	ctx := context.Background()

	session, err := repo.LoadSession(ctx)
	require.NoError(t, err)
	require.Nil(t, session)

	active := domain.Session{AccountID: "1", Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, repo.SaveSession(ctx, active))

	session, err = repo.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	require.Equal(t, active, *session)

	require.NoError(t, repo.ClearSession(ctx))
	session, err = repo.LoadSession(ctx)
	require.NoError(t, err)
	require.Nil(t, session)
}

func TestCorruptSessionDegradesToNone(t *testing.T) {
	store := persistence.NewMemoryStore()
	repo := repository.NewAccountRepository(store, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "currentUser", []byte("42")))

	session, err := repo.LoadSession(ctx)
	require.NoError(t, err)
	require.Nil(t, session)
}
