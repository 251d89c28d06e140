package repository

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/persistence"
)

const (
	rosterKey  = "app_users"
	sessionKey = "currentUser"
)

// AccountRepository persists the account roster and the active session
// record. Corrupt stored values are discarded rather than surfaced: the
// roster degrades to empty, the session to none.
type AccountRepository interface {
	LoadRoster(ctx context.Context) ([]domain.Account, error)
	SaveRoster(ctx context.Context, roster []domain.Account) error
	LoadSession(ctx context.Context) (*domain.Session, error)
	SaveSession(ctx context.Context, session domain.Session) error
	ClearSession(ctx context.Context) error
}

type accountRepository struct {
	store  persistence.Store
	logger *zap.Logger
}

// NewAccountRepository instantiates repository.
func NewAccountRepository(store persistence.Store, logger *zap.Logger) AccountRepository {
	return &accountRepository{store: store, logger: logger}
}

func (r *accountRepository) LoadRoster(ctx context.Context) ([]domain.Account, error) {
	raw, err := r.store.Get(ctx, rosterKey)
	if errors.Is(err, persistence.ErrKeyNotFound) {
		return []domain.Account{}, nil
	}
	if err != nil {
		return nil, err
	}

	var roster []domain.Account
	if err := json.Unmarshal(raw, &roster); err != nil {
		r.logger.Warn("discarding corrupt account roster", zap.Error(err))
		if delErr := r.store.Delete(ctx, rosterKey); delErr != nil {
			return nil, delErr
		}
		return []domain.Account{}, nil
	}
	return roster, nil
}

func (r *accountRepository) SaveRoster(ctx context.Context, roster []domain.Account) error {
	raw, err := json.Marshal(roster)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, rosterKey, raw)
}

func (r *accountRepository) LoadSession(ctx context.Context) (*domain.Session, error) {
	raw, err := r.store.Get(ctx, sessionKey)
	if errors.Is(err, persistence.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		r.logger.Warn("discarding corrupt session record", zap.Error(err))
		if delErr := r.store.Delete(ctx, sessionKey); delErr != nil {
			return nil, delErr
		}
		return nil, nil
	}
	return &session, nil
}

func (r *accountRepository) SaveSession(ctx context.Context, session domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, sessionKey, raw)
}

func (r *accountRepository) ClearSession(ctx context.Context) error {
	return r.store.Delete(ctx, sessionKey)
}
