package repository

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/persistence"
)

// CardGroup identifies a dashboard card group whose order can be customized.
type CardGroup string

const (
	CardGroupInfo         CardGroup = "dashboard_infoCardOrder"
	CardGroupDistribution CardGroup = "dashboard_distCardOrder"
)

// PrefsRepository stores opaque per-account display preferences. Preference
// data is cosmetic and fully independent of ticket/note integrity; anything
// unreadable is treated as absent.
type PrefsRepository interface {
	LoadCardOrder(ctx context.Context, group CardGroup, email string) ([]string, error)
	SaveCardOrder(ctx context.Context, group CardGroup, email string, order []string) error
}

type prefsRepository struct {
	store  persistence.Store
	logger *zap.Logger
}

// NewPrefsRepository instantiates repository.
func NewPrefsRepository(store persistence.Store, logger *zap.Logger) PrefsRepository {
	return &prefsRepository{store: store, logger: logger}
}

func (r *prefsRepository) LoadCardOrder(ctx context.Context, group CardGroup, email string) ([]string, error) {
	key := prefsKey(group, email)
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, persistence.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var order []string
	if err := json.Unmarshal(raw, &order); err != nil {
		r.logger.Warn("discarding corrupt card order preference",
			zap.String("key", key), zap.Error(err))
		if delErr := r.store.Delete(ctx, key); delErr != nil {
			return nil, delErr
		}
		return nil, nil
	}
	return order, nil
}

func (r *prefsRepository) SaveCardOrder(ctx context.Context, group CardGroup, email string, order []string) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, prefsKey(group, email), raw)
}

func prefsKey(group CardGroup, email string) string {
	if email == "" {
		return string(group) + "_default"
	}
	return string(group) + "_" + domain.NormalizeEmail(email)
}
