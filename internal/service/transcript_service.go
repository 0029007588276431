package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"gsu-chatbot-be/internal/dto"
	"gsu-chatbot-be/internal/entity"
	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/internal/repository/specification"
	"gsu-chatbot-be/internal/repository/unitofwork"
	"gsu-chatbot-be/pkg/pipeline"
	"gsu-chatbot-be/pkg/schedule"
	"gsu-chatbot-be/pkg/storage"
	"gsu-chatbot-be/pkg/transcript"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUploadFailed     = errors.New("file upload failed")
	ErrExtractionFailed = errors.New("text extraction failed")
	ErrEmptyUpload      = errors.New("no file uploaded")
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// StructuredTranscriptExtractor parses transcript text into course records.
type StructuredTranscriptExtractor interface {
	Extract(ctx context.Context, text string) (*schedule.ParsedTranscript, error)
}

type UploadTranscriptInput struct {
	SessionId   string
	FileName    string
	ContentType string
	Data        []byte
}

type ITranscriptService interface {
	TranscriptReader
	Upload(ctx context.Context, in UploadTranscriptInput) (*dto.ScheduleResultResponse, error)
}

type transcriptService struct {
	uowFactory unitofwork.RepositoryFactory
	pipeline   *pipeline.Pipeline
	files      storage.FileStore
	extractor  transcript.TextExtractor
	structured StructuredTranscriptExtractor
	logger     logger.ILogger
	urlTTL     time.Duration
	now        func() time.Time
}

func NewTranscriptService(
	uowFactory unitofwork.RepositoryFactory,
	p *pipeline.Pipeline,
	files storage.FileStore,
	extractor transcript.TextExtractor,
	structured StructuredTranscriptExtractor,
	log logger.ILogger,
	urlTTL time.Duration,
) ITranscriptService {
	if urlTTL <= 0 {
		urlTTL = 24 * time.Hour
	}
	return &transcriptService{
		uowFactory: uowFactory,
		pipeline:   p,
		files:      files,
		extractor:  extractor,
		structured: structured,
		logger:     log,
		urlTTL:     urlTTL,
		now:        time.Now,
	}
}

// StorageKey places uploads under transcripts/ with a millisecond prefix so
// repeated uploads of one file never collide.
func StorageKey(fileName string, at time.Time) string {
	return fmt.Sprintf("transcripts/%d_%s", at.UnixMilli(), unsafeFileChars.ReplaceAllString(fileName, "_"))
}

func (s *transcriptService) Latest(ctx context.Context, sessionID string) (*entity.Transcript, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.TranscriptRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionID})
}

func (s *transcriptService) Upload(ctx context.Context, in UploadTranscriptInput) (*dto.ScheduleResultResponse, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyUpload
	}
	if !s.pipeline.Store().IsInPipeline(ctx, in.SessionId) {
		return nil, pipeline.ErrNotInPipeline
	}

	uploadedAt := s.now()
	key := StorageKey(in.FileName, uploadedAt)

	var text string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.files.Upload(gctx, key, in.Data, in.ContentType); err != nil {
			return fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		return nil
	})
	g.Go(func() error {
		extracted, err := s.extractor.ExtractText(gctx, in.Data, in.ContentType)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}
		text = extracted
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("TRANSCRIPT", "Transcript intake failed", map[string]interface{}{
			"session_id": in.SessionId,
			"file_name":  in.FileName,
			"error":      err.Error(),
		})
		return nil, err
	}

	fileURL, err := s.files.SignedURL(key, s.urlTTL)
	if err != nil {
		s.logger.Warn("TRANSCRIPT", "Signed URL failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	var structured *schedule.ParsedTranscript
	if s.structured != nil {
		structured, err = s.structured.Extract(ctx, text)
		if err != nil {
			s.logger.Warn("TRANSCRIPT", "Structured extraction failed, generation will parse the text", map[string]interface{}{
				"session_id": in.SessionId,
				"error":      err.Error(),
			})
			structured = nil
		}
	}

	record := &entity.Transcript{
		Id:             uuid.New(),
		SessionId:      in.SessionId,
		FileName:       in.FileName,
		StoragePath:    key,
		FileUrl:        fileURL,
		ExtractedText:  text,
		StructuredData: structured,
		UploadedAt:     uploadedAt,
	}
	transcriptID := record.Id.String()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.TranscriptRepository().Create(ctx, record); err != nil {
		transcriptID = fmt.Sprintf("temp-%d", uploadedAt.UnixMilli())
		s.logger.Warn("TRANSCRIPT", "Transcript row not saved, continuing with temporary id", map[string]interface{}{
			"session_id":    in.SessionId,
			"transcript_id": transcriptID,
			"error":         err.Error(),
		})
	}

	s.logger.Info("TRANSCRIPT", "Transcript stored", map[string]interface{}{
		"session_id":    in.SessionId,
		"transcript_id": transcriptID,
		"text_length":   len(text),
	})

	res, err := s.pipeline.HandleTranscript(ctx, in.SessionId, pipeline.TranscriptUpload{
		ID:             transcriptID,
		FileName:       in.FileName,
		FileURL:        fileURL,
		Text:           text,
		StructuredData: structured,
	})
	if err != nil {
		return nil, err
	}

	out := scheduleResult(res)
	out.Transcript = &dto.TranscriptResponse{
		Id:         transcriptID,
		FileName:   in.FileName,
		FileUrl:    fileURL,
		TextLength: len(text),
		UploadedAt: uploadedAt,
	}
	if structured != nil {
		out.Transcript.CourseCount = len(structured.Courses)
	}
	return out, nil
}

func scheduleResult(res *pipeline.Result) *dto.ScheduleResultResponse {
	return &dto.ScheduleResultResponse{
		Response:      res.Reply,
		PipelineState: string(res.State),
		Schedule:      res.Schedule,
		Validation:    res.Validation,
		ErrorType:     string(res.ErrorKind),
		ScheduleError: res.ScheduleError,
	}
}
