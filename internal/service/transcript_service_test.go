package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/pkg/pipeline"
	"gsu-chatbot-be/pkg/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transcriptHarness struct {
	svc       ITranscriptService
	factory   *fakeFactory
	files     *stubFiles
	extractor *stubExtractor
	pipeline  *pipeline.Pipeline
}

func newTranscriptHarness() *transcriptHarness {
	h := &transcriptHarness{
		factory:   newFakeFactory(),
		files:     newStubFiles(),
		extractor: &stubExtractor{text: "BIOL 1103K A 4.0 Fall 2025"},
		pipeline:  newTestPipeline(&stubGenerator{schedule: sampleSchedule()}),
	}
	structured := &stubStructured{parsed: &schedule.ParsedTranscript{
		Courses: []schedule.CompletedCourse{{Code: "BIOL 1103K", Grade: "A", Credits: 4}},
	}}
	h.svc = NewTranscriptService(h.factory, h.pipeline, h.files, h.extractor, structured, logger.NewNopLogger(), time.Hour)
	return h
}

func (h *transcriptHarness) enterTranscriptStep(sessionID string) {
	h.pipeline.Store().Update(context.Background(), sessionID, pipeline.StateCollectingTranscript, pipeline.Data{
		Major:              "Biology",
		WorkloadPreference: schedule.WorkloadMedium,
		YearLevel:          schedule.YearSophomore,
	})
}

func upload(sessionID string) UploadTranscriptInput {
	return UploadTranscriptInput{
		SessionId:   sessionID,
		FileName:    "my transcript.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 fake"),
	}
}

func TestStorageKey(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	assert.Equal(t, "transcripts/1700000000000_my_transcript__1_.pdf", StorageKey("my transcript (1).pdf", at))
	assert.Equal(t, "transcripts/1700000000000_.._etc_passwd", StorageKey("../etc/passwd", at))
}

func TestUpload_GeneratesSchedule(t *testing.T) {
	h := newTranscriptHarness()
	h.enterTranscriptStep("s1")
	ctx := context.Background()

	res, err := h.svc.Upload(ctx, upload("s1"))
	require.NoError(t, err)

	assert.Equal(t, string(pipeline.StateOfferingExport), res.PipelineState)
	require.NotNil(t, res.Schedule)
	assert.Equal(t, 14.0, res.Schedule.TotalCredits)
	require.NotNil(t, res.Transcript)
	assert.Equal(t, 1, res.Transcript.CourseCount)
	assert.False(t, strings.HasPrefix(res.Transcript.Id, "temp-"))

	require.Len(t, h.factory.transcripts.rows, 1)
	row := h.factory.transcripts.rows[0]
	assert.Equal(t, "s1", row.SessionId)
	assert.True(t, strings.HasPrefix(row.StoragePath, "transcripts/"))
	assert.Contains(t, h.files.uploaded, row.StoragePath)

	latest, err := h.svc.Latest(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, row.Id, latest.Id)

	st := h.pipeline.State(ctx, "s1")
	assert.Equal(t, row.Id.String(), st.Data.TranscriptID)
	assert.Equal(t, "BIOL 1103K A 4.0 Fall 2025", st.Data.TranscriptText)
}

func TestUpload_Failures(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		h := newTranscriptHarness()
		h.enterTranscriptStep("s1")
		in := upload("s1")
		in.Data = nil
		_, err := h.svc.Upload(context.Background(), in)
		assert.ErrorIs(t, err, ErrEmptyUpload)
	})

	t.Run("not in pipeline", func(t *testing.T) {
		h := newTranscriptHarness()
		_, err := h.svc.Upload(context.Background(), upload("s1"))
		assert.ErrorIs(t, err, pipeline.ErrNotInPipeline)
		assert.Empty(t, h.files.uploaded)
	})

	t.Run("storage failure", func(t *testing.T) {
		h := newTranscriptHarness()
		h.enterTranscriptStep("s1")
		h.files.err = errBoom
		_, err := h.svc.Upload(context.Background(), upload("s1"))
		assert.ErrorIs(t, err, ErrUploadFailed)
	})

	t.Run("extraction failure", func(t *testing.T) {
		h := newTranscriptHarness()
		h.enterTranscriptStep("s1")
		h.extractor.err = errBoom
		_, err := h.svc.Upload(context.Background(), upload("s1"))
		assert.ErrorIs(t, err, ErrExtractionFailed)
		assert.Empty(t, h.factory.transcripts.rows)
	})

	t.Run("row save failure uses a temporary id", func(t *testing.T) {
		h := newTranscriptHarness()
		h.enterTranscriptStep("s1")
		h.factory.transcripts.err = errBoom
		res, err := h.svc.Upload(context.Background(), upload("s1"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.Transcript.Id, "temp-"))
		assert.Equal(t, string(pipeline.StateOfferingExport), res.PipelineState)
	})
}
