package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/auth"
	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/events"
	"github.com/spec-kit/ticketdesk/internal/repository"
)

// AccountService owns the account roster and the single active session.
// Duplicate registrations and bad credentials are results, not errors; only
// storage faults surface as errors.
type AccountService struct {
	mu         sync.Mutex
	accounts   repository.AccountRepository
	partitions repository.PartitionRepository
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	logger     *zap.Logger
	bcryptCost int

	roster    []domain.Account
	session   *domain.Session
	workspace *Workspace
}

// AccountDependencies encapsulates repo requirements for the account service.
type AccountDependencies struct {
	AccountRepo   repository.AccountRepository
	PartitionRepo repository.PartitionRepository
	Dispatcher    events.Dispatcher
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, deps AccountDependencies, logger *zap.Logger) *AccountService {
	return &AccountService{
		accounts:   deps.AccountRepo,
		partitions: deps.PartitionRepo,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLMinutes),
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Restore loads the roster and any persisted session at startup. When a
// session survives from the previous run its workspace is opened before the
// service accepts requests.
func (s *AccountService) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster, err := s.accounts.LoadRoster(ctx)
	if err != nil {
		return err
	}
	s.roster = roster

	session, err := s.accounts.LoadSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	workspace, err := OpenWorkspace(ctx, session.Email, s.partitions, s.dispatcher, s.logger)
	if err != nil {
		return err
	}
	s.session = session
	s.workspace = workspace
	s.logger.Info("restored session", zap.String("email", session.Email))
	return nil
}

// Register creates a new account. Returns false when an account with the
// same email already exists, compared case-insensitively.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (bool, error) {
	normalized := domain.NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findAccountLocked(normalized) >= 0 {
		return false, nil
	}

	credential, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return false, err
	}

	account := domain.Account{
		ID:         uuid.NewString(),
		Name:       name,
		Email:      normalized,
		Credential: credential,
	}
	s.roster = append(s.roster, account)
	if err := s.accounts.SaveRoster(ctx, s.roster); err != nil {
		return false, err
	}

	s.publish(ctx, events.Event{Type: events.EventAccountRegistered, Email: normalized})
	return true, nil
}

// Login verifies credentials and, on success, establishes the session and
// opens the account's workspace. A stored legacy credential (plaintext or
// hex digest) that verifies is migrated to its hashed form before the login
// completes. Returns ok=false for unknown email or credential mismatch.
func (s *AccountService) Login(ctx context.Context, email, password string) (session *domain.Session, token string, expiresAt time.Time, ok bool, err error) {
	normalized := domain.NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.findAccountLocked(normalized)
	if index < 0 {
		return nil, "", time.Time{}, false, nil
	}
	account := s.roster[index]

	match, upgraded, err := auth.VerifyCredential(account.Credential, password, normalized, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, false, err
	}
	if !match {
		return nil, "", time.Time{}, false, nil
	}

	if upgraded != "" {
		s.roster[index].Credential = upgraded
		if err := s.accounts.SaveRoster(ctx, s.roster); err != nil {
			return nil, "", time.Time{}, false, err
		}
		s.publish(ctx, events.Event{Type: events.EventCredentialMigrated, Email: normalized})
		account = s.roster[index]
	}

	active := domain.SessionFor(account)
	workspace, err := OpenWorkspace(ctx, active.Email, s.partitions, s.dispatcher, s.logger)
	if err != nil {
		return nil, "", time.Time{}, false, err
	}

	token, expiresAt, err = s.tokenMgr.GenerateToken(active.AccountID, active.Email)
	if err != nil {
		return nil, "", time.Time{}, false, err
	}

	// Persisted last so a restart never restores a session whose login
	// did not complete.
	if err := s.accounts.SaveSession(ctx, active); err != nil {
		return nil, "", time.Time{}, false, err
	}

	s.session = &active
	s.workspace = workspace
	s.publish(ctx, events.Event{Type: events.EventAccountLoggedIn, Email: active.Email})

	copied := active
	return &copied, token, expiresAt, true, nil
}

// Logout clears the session and discards the in-memory collections. The
// persisted partitions are untouched; the next login reloads them fresh.
func (s *AccountService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}
	email := s.session.Email

	if err := s.accounts.ClearSession(ctx); err != nil {
		return err
	}
	s.session = nil
	s.workspace = nil

	s.publish(ctx, events.Event{Type: events.EventAccountLoggedOut, Email: email})
	return nil
}

// CurrentSession returns a copy of the active session, or nil.
func (s *AccountService) CurrentSession() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

// Workspace returns the active session's workspace, or nil when logged out.
func (s *AccountService) Workspace() *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workspace
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AccountService) findAccountLocked(normalizedEmail string) int {
	for i := range s.roster {
		if domain.NormalizeEmail(s.roster[i].Email) == normalizedEmail {
			return i
		}
	}
	return -1
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
