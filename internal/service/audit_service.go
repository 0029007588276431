package service

import (
	"context"
	"strings"

	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/pkg/events"
	pktNats "gsu-chatbot-be/pkg/nats"
)

const (
	auditDurableName    = "schedule-audit"
	scheduleEventPrefix = "SCHEDULE_"
)

// EventSubscriber is satisfied by the JetStream subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventPattern, durableName string, handler pktNats.EventHandler) error
}

// IAuditService records schedule outcomes published on the event stream.
type IAuditService interface {
	Start(ctx context.Context) error
	HandleEvent(ctx context.Context, event events.Event) error
}

type auditService struct {
	subscriber EventSubscriber
	logger     logger.ILogger
}

func NewAuditService(subscriber EventSubscriber, log logger.ILogger) IAuditService {
	return &auditService{subscriber: subscriber, logger: log}
}

// Start is a no-op without a subscriber so deployments without NATS still boot.
func (a *auditService) Start(ctx context.Context) error {
	if a.subscriber == nil {
		return nil
	}
	return a.subscriber.Subscribe(ctx, ">", auditDurableName, a.HandleEvent)
}

// HandleEvent logs schedule events. Subjects cannot wildcard a partial token,
// so the stream is consumed whole and filtered by type here.
func (a *auditService) HandleEvent(_ context.Context, event events.Event) error {
	if !strings.HasPrefix(event.EventType(), scheduleEventPrefix) {
		return nil
	}

	details := map[string]interface{}{
		"type":        event.EventType(),
		"occurred_at": event.Timestamp(),
	}
	for k, v := range event.Payload() {
		details[k] = v
	}

	if event.EventType() == events.TypeScheduleGenerationFailed {
		a.logger.Warn("SCHEDULE", "Schedule generation failed", details)
		return nil
	}
	a.logger.Info("SCHEDULE", "Schedule generated", details)
	return nil
}
