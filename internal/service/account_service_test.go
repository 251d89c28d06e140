package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ticketdesk/internal/auth"
	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/persistence"
	"github.com/spec-kit/ticketdesk/internal/repository"
	"github.com/spec-kit/ticketdesk/internal/service"
)

func newAccountService(store persistence.Store) *service.AccountService {
	logger := zap.NewNop()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:         "test-secret",
			SessionTTLMinutes: 60,
			BcryptCost:        bcrypt.MinCost,
		},
	}
	return service.NewAccountService(cfg, service.AccountDependencies{
		AccountRepo:   repository.NewAccountRepository(store, logger),
		PartitionRepo: repository.NewPartitionRepository(store, logger),
	}, logger)
}

func TestRegisterAndLogin(t *testing.T) {
	store := persistence.NewMemoryStore()
	svc := newAccountService(store)
	ctx := context.Background()
	require.NoError(t, svc.Restore(ctx))

	created, err := svc.Register(ctx, "Ana", "Ana@Example.com", "hunter2")
	require.NoError(t, err)
	require.True(t, created)

	session, token, exp, ok, err := svc.Login(ctx, "ana@example.com", "hunter2")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, session)
	require.Equal(t, "ana@example.com", session.Email)
	require.NotEmpty(t, token)
	require.True(t, exp.After(time.Now()))
	require.NotNil(t, svc.Workspace())

	// Wrong password and unknown email are results, not errors.
	_, _, _, ok, err = svc.Login(ctx, "ana@example.com", "nope")
	require.NoError(t, err)
	require.False(t, ok)
	_, _, _, ok, err = svc.Login(ctx, "ghost@example.com", "hunter2")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	store := persistence.NewMemoryStore()
	svc := newAccountService(store)
	ctx := context.Background()
	require.NoError(t, svc.Restore(ctx))

	created, err := svc.Register(ctx, "Ana", "ana@example.com", "hunter2")
	require.NoError(t, err)
	require.True(t, created)

	created, err = svc.Register(ctx, "Other", "ANA@EXAMPLE.COM", "different")
	require.NoError(t, err)
	require.False(t, created)
}

// seedLegacyAccount writes a roster entry with a pre-migration credential
// directly to the store.
func seedLegacyAccount(t *testing.T, store persistence.Store, email, credential string) {
	t.Helper()
	repo := repository.NewAccountRepository(store, zap.NewNop())
	roster := []domain.Account{
		{ID: "legacy-1", Name: "Legacy", Email: email, Credential: credential},
	}
	require.NoError(t, repo.SaveRoster(context.Background(), roster))
}

func TestLoginMigratesLegacyPlaintext(t *testing.T) {
	store := persistence.NewMemoryStore()
	seedLegacyAccount(t, store, "legacy@example.com", "hunter2")

	svc := newAccountService(store)
	ctx := context.Background()
	require.NoError(t, svc.Restore(ctx))

	_, _, _, ok, err := svc.Login(ctx, "legacy@example.com", "hunter2")
	require.NoError(t, err)
	require.True(t, ok)

	// The stored credential is now hashed.
	repo := repository.NewAccountRepository(store, zap.NewNop())
	roster, err := repo.LoadRoster(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	require.True(t, auth.IsBcryptHash(roster[0].Credential))

	// A second login with the same password succeeds via the digest path.
	require.NoError(t, svc.Logout(ctx))
	_, _, _, ok, err = svc.Login(ctx, "legacy@example.com", "hunter2")
	require.NoError(t, err)
	require.True(t, ok)

	// The old plaintext no longer works as a credential lookalike.
	_, _, _, ok, err = svc.Login(ctx, "legacy@example.com", "wrong")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLoginMigratesLegacyHexDigest(t *testing.T) {
	store := persistence.NewMemoryStore()
	seedLegacyAccount(t, store, "legacy@example.com",
		auth.LegacyDigest("hunter2", "legacy@example.com"))

	svc := newAccountService(store)
	ctx := context.Background()
	require.NoError(t, svc.Restore(ctx))

	_, _, _, ok, err := svc.Login(ctx, "legacy@example.com", "hunter2")
	require.NoError(t, err)
	require.True(t, ok)

	repo := repository.NewAccountRepository(store, zap.NewNop())
	roster, err := repo.LoadRoster(ctx)
	require.NoError(t, err)
	require.True(t, auth.IsBcryptHash(roster[0].Credential))
}

func TestLogoutClearsSessionAndWorkspace(t *testing.T) {
	store := persistence.NewMemoryStore()
	svc := newAccountService(store)
	ctx := context.Background()
	require.NoError(t, svc.Restore(ctx))

	_, err := svc.Register(ctx, "Ana", "ana@example.com", "hunter2")
	require.NoError(t, err)
	_, _, _, ok, err := svc.Login(ctx, "ana@example.com", "hunter2")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, svc.Logout(ctx))
	require.Nil(t, svc.CurrentSession())
	require.Nil(t, svc.Workspace())

	// The persisted session record is gone too.
	repo := repository.NewAccountRepository(store, zap.NewNop())
	session, err := repo.LoadSession(ctx)
	require.NoError(t, err)
	require.Nil(t, session)
}

func TestNoCrossAccountLeakage(t *testing.T) {
	store := persistence.NewMemoryStore()
	svc := newAccountService(store)
	ctx := context.Background()
	require.NoError(t, svc.Restore(ctx))

	for _, email := range []string{"ana@example.com", "bruno@example.com"} {
		created, err := svc.Register(ctx, email, email, "hunter2")
		require.NoError(t, err)
		require.True(t, created)
	}

	_, _, _, ok, err := svc.Login(ctx, "ana@example.com", "hunter2")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, svc.Workspace().SaveTicket(ctx, domain.Ticket{
		ID:          "CHM-001",
		Client:      "Alpha",
		Status:      domain.TicketStatusAnalysis,
		Priority:    domain.TicketPriorityMedium,
		OpeningDate: time.Now(),
	}, false))
	_, err = svc.Workspace().AddNote(ctx, "private", "ana only")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))
	_, _, _, ok, err = svc.Login(ctx, "bruno@example.com", "hunter2")
	require.NoError(t, err)
	require.True(t, ok)

	require.Empty(t, svc.Workspace().Tickets())
	require.Empty(t, svc.Workspace().Notes())

	// Ana's data is intact on her next login.
	require.NoError(t, svc.Logout(ctx))
	_, _, _, ok, err = svc.Login(ctx, "ana@example.com", "hunter2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, svc.Workspace().Tickets(), 1)
	require.Len(t, svc.Workspace().Notes(), 1)
}

// faultyStore fails Get for keys with the given prefix, passing everything
// else through.
type faultyStore struct {
	persistence.Store
	failPrefix string
}

func (s *faultyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if strings.HasPrefix(key, s.failPrefix) {
		return nil, errors.New("storage unavailable")
	}
	return s.Store.Get(ctx, key)
}

func TestFailedLoginLeavesNoPersistedSession(t *testing.T) {
	backing := persistence.NewMemoryStore()
	store := &faultyStore{Store: backing, failPrefix: "tickets_"}
	svc := newAccountService(store)
	ctx := context.Background()
	require.NoError(t, svc.Restore(ctx))

	_, err := svc.Register(ctx, "Ana", "ana@example.com", "hunter2")
	require.NoError(t, err)

	// The workspace cannot load, so the login must fail without leaving a
	// session record a restart would pick up.
	_, _, _, _, err = svc.Login(ctx, "ana@example.com", "hunter2")
	require.Error(t, err)
	require.Nil(t, svc.CurrentSession())

	repo := repository.NewAccountRepository(backing, zap.NewNop())
	session, err := repo.LoadSession(ctx)
	require.NoError(t, err)
	require.Nil(t, session)
}

func TestRestoreRecoversPersistedSession(t *testing.T) {
	store := persistence.NewMemoryStore()
	svc := newAccountService(store)
	ctx := context.Background()
	require.NoError(t, svc.Restore(ctx))

	_, err := svc.Register(ctx, "Ana", "ana@example.com", "hunter2")
	require.NoError(t, err)
	_, _, _, ok, err := svc.Login(ctx, "ana@example.com", "hunter2")
	require.NoError(t, err)
	require.True(t, ok)

	// A new service over the same store picks the session back up.
	restored := newAccountService(store)
	require.NoError(t, restored.Restore(ctx))
	session := restored.CurrentSession()
	require.NotNil(t, session)
	require.Equal(t, "ana@example.com", session.Email)
	require.NotNil(t, restored.Workspace())
}
