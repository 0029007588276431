package dto

import (
	"time"

	"gsu-chatbot-be/pkg/pipeline"
	"gsu-chatbot-be/pkg/schedule"
)

type TranscriptResponse struct {
	Id          string    `json:"id"`
	FileName    string    `json:"fileName"`
	FileUrl     string    `json:"fileUrl"`
	TextLength  int       `json:"textLength"`
	CourseCount int       `json:"courseCount"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

type PipelineStateResponse struct {
	SessionId  string              `json:"sessionId"`
	State      string              `json:"state"`
	InPipeline bool                `json:"inPipeline"`
	Data       pipeline.Data       `json:"data"`
	UpdatedAt  time.Time           `json:"updatedAt"`
	Transcript *TranscriptResponse `json:"transcript,omitempty"`
}

type UpdatePipelineStateRequest struct {
	State string        `json:"state" validate:"required"`
	Data  pipeline.Data `json:"data"`
}

type GenerateScheduleRequest struct {
	SessionId string `json:"sessionId" validate:"required,max=128"`
	Text      string `json:"transcriptText,omitempty"`
}

// ScheduleResultResponse is returned by every operation that can produce a
// schedule: transcript upload and explicit generation.
type ScheduleResultResponse struct {
	Response      string                      `json:"response"`
	PipelineState string                      `json:"pipelineState"`
	Schedule      *schedule.GeneratedSchedule `json:"schedule,omitempty"`
	Validation    *schedule.Validation        `json:"validation,omitempty"`
	ErrorType     string                      `json:"errorType,omitempty"`
	ScheduleError string                      `json:"scheduleError,omitempty"`
	Transcript    *TranscriptResponse         `json:"transcript,omitempty"`
}
