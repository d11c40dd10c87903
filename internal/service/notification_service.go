package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Katsud0n0/city-nexus-connect/internal/config"
	"github.com/Katsud0n0/city-nexus-connect/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRequestCreated, n.handleRequestCreated)
	n.dispatcher.Subscribe(events.EventRequestStatusChanged, n.handleRequestStatusChanged)
	n.dispatcher.Subscribe(events.EventRequestDeleted, n.handleRequestDeleted)
}

func (n *NotificationService) handleRequestCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("RequestCreated", zap.String("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRequestStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("RequestStatusChanged", zap.String("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRequestDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("RequestDeleted", zap.String("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("request_id", event.RequestID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("request_id", event.RequestID),
		zap.String("event_type", string(event.Type)))
}
