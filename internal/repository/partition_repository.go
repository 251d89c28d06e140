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
	ticketsKeyBase = "tickets"
	notesKeyBase   = "notes"

	// anonymousPartition is the partition suffix used when no session is
	// active.
	anonymousPartition = "anonymous"
)

// PartitionRepository reads and writes the ticket and note collections of one
// account partition. Parse failures clear the offending key and yield empty
// collections; the caller's flow continues uninterrupted.
type PartitionRepository interface {
	LoadTickets(ctx context.Context, email string) ([]domain.Ticket, error)
	SaveTickets(ctx context.Context, email string, tickets []domain.Ticket) error
	LoadNotes(ctx context.Context, email string) ([]domain.Note, error)
	SaveNotes(ctx context.Context, email string, notes []domain.Note) error
}

type partitionRepository struct {
	store  persistence.Store
	logger *zap.Logger
}

// NewPartitionRepository instantiates repository.
func NewPartitionRepository(store persistence.Store, logger *zap.Logger) PartitionRepository {
	return &partitionRepository{store: store, logger: logger}
}

// PartitionKey derives the store key for a base collection and account email.
func PartitionKey(base, email string) string {
	if email == "" {
		return base + "_" + anonymousPartition
	}
	return base + "_" + domain.NormalizeEmail(email)
}

func (r *partitionRepository) LoadTickets(ctx context.Context, email string) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	if err := r.loadCollection(ctx, PartitionKey(ticketsKeyBase, email), &tickets); err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

func (r *partitionRepository) SaveTickets(ctx context.Context, email string, tickets []domain.Ticket) error {
	return r.saveCollection(ctx, PartitionKey(ticketsKeyBase, email), tickets)
}

func (r *partitionRepository) LoadNotes(ctx context.Context, email string) ([]domain.Note, error) {
	var notes []domain.Note
	if err := r.loadCollection(ctx, PartitionKey(notesKeyBase, email), &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []domain.Note{}
	}
	return notes, nil
}

func (r *partitionRepository) SaveNotes(ctx context.Context, email string, notes []domain.Note) error {
	return r.saveCollection(ctx, PartitionKey(notesKeyBase, email), notes)
}

func (r *partitionRepository) loadCollection(ctx context.Context, key string, out any) error {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, persistence.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		r.logger.Warn("discarding corrupt partition data",
			zap.String("key", key), zap.Error(err))
		return r.store.Delete(ctx, key)
	}
	return nil
}

func (r *partitionRepository) saveCollection(ctx context.Context, key string, collection any) error {
	raw, err := json.Marshal(collection)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, key, raw)
}
