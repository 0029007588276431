package events

import (
	"context"
	"time"

	"gsu-chatbot-be/internal/pkg/logger"
)

const (
	TypePipelineStarted          = "PIPELINE_STARTED"
	TypePipelineExited           = "PIPELINE_EXITED"
	TypeTranscriptUploaded       = "TRANSCRIPT_UPLOADED"
	TypeScheduleGenerated        = "SCHEDULE_GENERATED"
	TypeScheduleGenerationFailed = "SCHEDULE_GENERATION_FAILED"
)

// Bus is anything that can carry an event, such as the NATS publisher.
type Bus interface {
	Publish(ctx context.Context, event Event) error
}

// PipelinePublisher abstracts event publishing for schedule planning.
// Publishing is fire-and-forget; failures are logged only.
type PipelinePublisher interface {
	PublishPipelineStarted(ctx context.Context, sessionID string, requestedCourses int)
	PublishPipelineExited(ctx context.Context, sessionID, fromState string)
	PublishTranscriptUploaded(ctx context.Context, sessionID, transcriptID, fileName string)
	PublishScheduleGenerated(ctx context.Context, sessionID, semester string, courses int, totalCredits float64, valid bool)
	PublishScheduleGenerationFailed(ctx context.Context, sessionID, kind, reason string)
}

type BusPublisher struct {
	bus    Bus
	logger logger.ILogger
	now    func() time.Time
}

func NewBusPublisher(bus Bus, logger logger.ILogger) *BusPublisher {
	return &BusPublisher{bus: bus, logger: logger, now: time.Now}
}

func (p *BusPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.bus == nil {
		return
	}

	evt := BaseEvent{Type: eventType, Data: data, OccurredAt: p.now()}
	if err := p.bus.Publish(ctx, evt); err != nil {
		p.logger.Error("EVENTS", "Failed to publish "+eventType+" event", map[string]interface{}{
			"session_id": data["session_id"],
			"error":      err.Error(),
		})
	}
}

// PublishPipelineStarted emits PIPELINE_STARTED when a session enters planning
func (p *BusPublisher) PublishPipelineStarted(ctx context.Context, sessionID string, requestedCourses int) {
	p.publish(ctx, TypePipelineStarted, map[string]interface{}{
		"session_id":        sessionID,
		"requested_courses": requestedCourses,
	})
}

func (p *BusPublisher) PublishPipelineExited(ctx context.Context, sessionID, fromState string) {
	p.publish(ctx, TypePipelineExited, map[string]interface{}{
		"session_id": sessionID,
		"from_state": fromState,
	})
}

func (p *BusPublisher) PublishTranscriptUploaded(ctx context.Context, sessionID, transcriptID, fileName string) {
	p.publish(ctx, TypeTranscriptUploaded, map[string]interface{}{
		"session_id":    sessionID,
		"transcript_id": transcriptID,
		"file_name":     fileName,
	})
}

func (p *BusPublisher) PublishScheduleGenerated(ctx context.Context, sessionID, semester string, courses int, totalCredits float64, valid bool) {
	p.publish(ctx, TypeScheduleGenerated, map[string]interface{}{
		"session_id":    sessionID,
		"semester":      semester,
		"course_count":  courses,
		"total_credits": totalCredits,
		"valid":         valid,
	})
}

func (p *BusPublisher) PublishScheduleGenerationFailed(ctx context.Context, sessionID, kind, reason string) {
	p.publish(ctx, TypeScheduleGenerationFailed, map[string]interface{}{
		"session_id": sessionID,
		"kind":       kind,
		"reason":     reason,
	})
}

// NopPipelinePublisher drops every event. Used when NATS is not configured.
type NopPipelinePublisher struct{}

func (NopPipelinePublisher) PublishPipelineStarted(context.Context, string, int) {}

func (NopPipelinePublisher) PublishPipelineExited(context.Context, string, string) {}

func (NopPipelinePublisher) PublishTranscriptUploaded(context.Context, string, string, string) {}

func (NopPipelinePublisher) PublishScheduleGenerated(context.Context, string, string, int, float64, bool) {
}

func (NopPipelinePublisher) PublishScheduleGenerationFailed(context.Context, string, string, string) {
}
