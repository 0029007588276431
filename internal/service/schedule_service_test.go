package service

import (
	"context"
	"strings"
	"testing"

	"gsu-chatbot-be/internal/dto"
	"gsu-chatbot-be/internal/entity"
	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/pkg/export"
	"gsu-chatbot-be/pkg/pipeline"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduleHarness(transcripts TranscriptReader) (IScheduleService, *pipeline.Pipeline) {
	p := newTestPipeline(&stubGenerator{schedule: sampleSchedule()})
	return NewScheduleService(p, transcripts, export.NewExporter(), logger.NewNopLogger()), p
}

func TestGetPipelineState(t *testing.T) {
	id := uuid.New()
	svc, p := newScheduleHarness(&stubTranscripts{transcript: &entity.Transcript{
		Id:            id,
		SessionId:     "s1",
		FileName:      "t.pdf",
		ExtractedText: "abc",
	}})
	ctx := context.Background()
	p.Store().Update(ctx, "s1", pipeline.StateCollectingWorkload, pipeline.Data{Major: "Biology"})

	res, err := svc.GetPipelineState(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "collecting_workload", res.State)
	assert.True(t, res.InPipeline)
	assert.Equal(t, "Biology", res.Data.Major)
	require.NotNil(t, res.Transcript)
	assert.Equal(t, id.String(), res.Transcript.Id)
	assert.Equal(t, 3, res.Transcript.TextLength)
}

func TestUpdatePipelineState(t *testing.T) {
	svc, _ := newScheduleHarness(nil)
	ctx := context.Background()

	res, err := svc.UpdatePipelineState(ctx, "s1", &dto.UpdatePipelineStateRequest{
		State: "collecting_year_level",
		Data:  pipeline.Data{Major: "Physics", CreditRange: "16-18"},
	})
	require.NoError(t, err)
	assert.Equal(t, "collecting_year_level", res.State)
	assert.Equal(t, "Physics", res.Data.Major)

	res, err = svc.UpdatePipelineState(ctx, "s1", &dto.UpdatePipelineStateRequest{
		State: "collecting_transcript",
		Data:  pipeline.Data{YearLevel: "junior"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Physics", res.Data.Major)
	assert.Equal(t, "junior", string(res.Data.YearLevel))

	_, err = svc.UpdatePipelineState(ctx, "s1", &dto.UpdatePipelineStateRequest{State: "dancing"})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestGenerateSchedule(t *testing.T) {
	svc, p := newScheduleHarness(nil)
	ctx := context.Background()

	_, err := svc.GenerateSchedule(ctx, &dto.GenerateScheduleRequest{SessionId: "s1"})
	assert.ErrorIs(t, err, pipeline.ErrNotProcessing)

	p.Store().Update(ctx, "s1", pipeline.StateProcessing, pipeline.Data{
		Major:          "Biology",
		TranscriptText: "BIOL 1103K A",
	})
	res, err := svc.GenerateSchedule(ctx, &dto.GenerateScheduleRequest{SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "offering_export", res.PipelineState)
	assert.NotNil(t, res.Schedule)
}

func TestExport(t *testing.T) {
	svc, p := newScheduleHarness(nil)
	ctx := context.Background()

	_, err := svc.Export(ctx, "s1", "pdf")
	assert.ErrorIs(t, err, ErrNoSchedule)

	_, err = svc.Export(ctx, "s1", "docx")
	assert.ErrorIs(t, err, export.ErrUnknownFormat)

	p.Store().Update(ctx, "s1", pipeline.StateOfferingExport, pipeline.Data{Schedule: sampleSchedule()})

	tests := []struct {
		format string
		ext    string
	}{
		{"", "pdf"},
		{"notion", "md"},
		{"markdown", "md"},
		{"csv", "csv"},
		{"html", "html"},
	}
	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			doc, err := svc.Export(ctx, "s1", tt.format)
			require.NoError(t, err)
			assert.Equal(t, "schedule-s1."+tt.ext, doc.Filename("s1"))
			assert.NotEmpty(t, doc.Content)
		})
	}

	doc, err := svc.Export(ctx, "s1", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc.Content), "Course Code,Course Name,Credits"))
}
