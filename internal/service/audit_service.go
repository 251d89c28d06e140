package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/events"
)

// AuditService logs account and ticket activity from domain events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventAccountRegistered, a.handleAccountEvent)
	a.dispatcher.Subscribe(events.EventAccountLoggedIn, a.handleAccountEvent)
	a.dispatcher.Subscribe(events.EventAccountLoggedOut, a.handleAccountEvent)
	a.dispatcher.Subscribe(events.EventCredentialMigrated, a.handleAccountEvent)
	a.dispatcher.Subscribe(events.EventTicketSaved, a.handleTicketEvent)
	a.dispatcher.Subscribe(events.EventTicketStatusChanged, a.handleTicketEvent)
	a.dispatcher.Subscribe(events.EventTicketDeleted, a.handleTicketEvent)
}

func (a *AuditService) handleAccountEvent(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type), zap.String("email", event.Email))
	return nil
}

func (a *AuditService) handleTicketEvent(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("email", event.Email),
		zap.Any("payload", event.Payload))
	return nil
}
