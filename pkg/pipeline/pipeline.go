package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/pkg/events"
	"gsu-chatbot-be/pkg/llm"
	"gsu-chatbot-be/pkg/retrieval"
	"gsu-chatbot-be/pkg/schedule"
)

var (
	ErrNotInPipeline = errors.New("session is not in schedule planning pipeline")
	ErrNotProcessing = errors.New("session is not processing a transcript")
)

// errSuperseded marks a generation whose session left the pipeline while the
// model was running.
var errSuperseded = errors.New("session left the pipeline during generation")

// ScheduleGenerator is the generation backend the pipeline drives.
type ScheduleGenerator interface {
	Generate(ctx context.Context, req schedule.Request) (*schedule.GeneratedSchedule, error)
	ExtractRequestedCourses(ctx context.Context, history []llm.Message, message string) ([]schedule.RequestedCourse, error)
}

// Result is the outcome of one pipeline step. When Handled is false the caller
// continues with ordinary chat, adding ChatContext as a system message when set.
type Result struct {
	Handled       bool                        `json:"handled"`
	Reply         string                      `json:"response,omitempty"`
	State         State                       `json:"pipelineState"`
	Exited        bool                        `json:"pipelineExited,omitempty"`
	Schedule      *schedule.GeneratedSchedule `json:"schedule,omitempty"`
	Validation    *schedule.Validation        `json:"validation,omitempty"`
	MajorContext  *retrieval.MajorContext     `json:"majorContext,omitempty"`
	ExportFormat  string                      `json:"exportFormat,omitempty"`
	ErrorKind     llm.Kind                    `json:"errorType,omitempty"`
	ScheduleError string                      `json:"scheduleError,omitempty"`
	ChatContext   string                      `json:"-"`
}

func (r *Result) InPipeline() bool {
	return r.State.IsActive()
}

type Config struct {
	GenerationTimeout time.Duration
	MajorContextTopK  int
}

// Pipeline drives the schedule-planning conversation for each session.
type Pipeline struct {
	store     *Store
	generator ScheduleGenerator
	contexts  retrieval.ContextProvider
	events    events.PipelinePublisher
	logger    logger.ILogger
	timeout   time.Duration
	topK      int
}

func New(store *Store, generator ScheduleGenerator, contexts retrieval.ContextProvider, publisher events.PipelinePublisher, logger logger.ILogger, cfg Config) *Pipeline {
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = 30 * time.Second
	}
	if cfg.MajorContextTopK <= 0 {
		cfg.MajorContextTopK = 10
	}
	if publisher == nil {
		publisher = events.NopPipelinePublisher{}
	}
	return &Pipeline{
		store:     store,
		generator: generator,
		contexts:  contexts,
		events:    publisher,
		logger:    logger,
		timeout:   cfg.GenerationTimeout,
		topK:      cfg.MajorContextTopK,
	}
}

func (p *Pipeline) Store() *Store {
	return p.store
}

func (p *Pipeline) State(ctx context.Context, sessionID string) *PipelineState {
	return p.store.Get(ctx, sessionID)
}

// HandleMessage runs one conversational turn. Sessions outside the pipeline
// are only handled when the message is a trigger.
func (p *Pipeline) HandleMessage(ctx context.Context, sessionID, message string, history []llm.Message) *Result {
	if sessionID == "" {
		return &Result{State: StateIdle}
	}

	current := p.store.Get(ctx, sessionID)
	active := current.State.IsActive()

	if active && CanExit(message) {
		p.store.Reset(ctx, sessionID)
		p.events.PublishPipelineExited(ctx, sessionID, string(current.State))
		return &Result{Handled: true, Reply: ExitMessage, State: StateIdle, Exited: true}
	}

	if !active {
		if !DetectTrigger(message) {
			return &Result{State: current.State}
		}
		return p.start(ctx, sessionID, message, history)
	}

	switch current.State {
	case StateCollectingMajor:
		return p.collectMajor(ctx, sessionID, message)
	case StateCollectingWorkload:
		return p.collectWorkload(ctx, sessionID, message)
	case StateCollectingYearLevel:
		return p.collectYearLevel(ctx, sessionID, message)
	case StateCollectingTranscript:
		return p.collectTranscript(ctx, sessionID, message, current.Data)
	case StateProcessing, StateGeneratingSchedule:
		return &Result{Handled: true, Reply: ProcessingMessage, State: current.State}
	case StateOfferingExport:
		return p.offerExport(message, current)
	}
	return &Result{State: current.State}
}

func (p *Pipeline) start(ctx context.Context, sessionID, message string, history []llm.Message) *Result {
	requested, err := p.generator.ExtractRequestedCourses(ctx, history, message)
	if err != nil {
		p.logger.Warn("PIPELINE", "Requested course extraction failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
	if requested == nil {
		requested = []schedule.RequestedCourse{}
	}

	p.store.Update(ctx, sessionID, StateCollectingMajor, Data{RequestedCourses: requested})
	p.events.PublishPipelineStarted(ctx, sessionID, len(requested))
	return &Result{Handled: true, Reply: Question(StateCollectingMajor), State: StateCollectingMajor}
}

func (p *Pipeline) collectMajor(ctx context.Context, sessionID, message string) *Result {
	major := ExtractMajor(message)
	p.store.Update(ctx, sessionID, StateCollectingWorkload, Data{Major: major})

	res := &Result{Handled: true, Reply: workloadQuestion(major), State: StateCollectingWorkload}
	if p.contexts != nil && major != "" {
		res.MajorContext = p.contexts.MajorContext(ctx, major, p.topK)
	}
	return res
}

func (p *Pipeline) collectWorkload(ctx context.Context, sessionID, message string) *Result {
	workload := ParseWorkloadPreference(message).Or(schedule.WorkloadMedium)
	p.store.Update(ctx, sessionID, StateCollectingYearLevel, Data{
		WorkloadPreference: workload,
		CreditRange:        schedule.CreditRange(workload),
	})
	return &Result{Handled: true, Reply: Question(StateCollectingYearLevel), State: StateCollectingYearLevel}
}

func (p *Pipeline) collectYearLevel(ctx context.Context, sessionID, message string) *Result {
	year := ParseYearLevel(message)
	if year == "" {
		return &Result{Handled: true, Reply: YearLevelReprompt, State: StateCollectingYearLevel}
	}
	p.store.Update(ctx, sessionID, StateCollectingTranscript, Data{YearLevel: year})
	return &Result{Handled: true, Reply: Question(StateCollectingTranscript), State: StateCollectingTranscript}
}

func (p *Pipeline) collectTranscript(ctx context.Context, sessionID, message string, data Data) *Result {
	if !WantsToSkip(message) {
		return &Result{Handled: true, Reply: TranscriptReprompt, State: StateCollectingTranscript}
	}

	outcome, err := p.generate(ctx, sessionID, data, schedule.TranscriptInput{Major: data.Major})
	if errors.Is(err, errSuperseded) {
		return &Result{Handled: true, Reply: ExitMessage, State: StateIdle, Exited: true}
	}
	if err != nil {
		p.recordFailure(ctx, sessionID, Data{}, err)
		return &Result{
			Handled:       true,
			Reply:         failureMessage(err),
			State:         StateCollectingTranscript,
			ErrorKind:     llm.KindOf(err),
			ScheduleError: err.Error(),
		}
	}

	p.store.Update(ctx, sessionID, StateOfferingExport, Data{
		Schedule:          outcome.schedule,
		Validation:        &outcome.validation,
		TranscriptSkipped: true,
	})
	return &Result{
		Handled:      true,
		Reply:        SummaryMessage(outcome.schedule, outcome.validation, data.WorkloadPreference, false),
		State:        StateOfferingExport,
		Schedule:     outcome.schedule,
		Validation:   &outcome.validation,
		MajorContext: outcome.majorContext,
	}
}

func (p *Pipeline) offerExport(message string, current *PipelineState) *Result {
	s := current.Data.Schedule
	if WantsExport(message) {
		format := ExportFormat(message)
		return &Result{Handled: true, Reply: exportMessage(format), State: current.State, Schedule: s, ExportFormat: format}
	}
	if WantsModify(message) && s != nil {
		return &Result{Handled: true, Reply: ModifyMessage, State: current.State, Schedule: s}
	}

	res := &Result{State: current.State, Schedule: s}
	if s != nil {
		res.ChatContext = ScheduleContext(s, current.Data.WorkloadPreference)
	}
	return res
}

// TranscriptUpload is a stored, text-extracted transcript ready for generation.
type TranscriptUpload struct {
	ID             string
	FileName       string
	FileURL        string
	Text           string
	StructuredData *schedule.ParsedTranscript
}

// HandleTranscript records an uploaded transcript and generates a schedule
// from it. The session must already be in the pipeline.
func (p *Pipeline) HandleTranscript(ctx context.Context, sessionID string, upload TranscriptUpload) (*Result, error) {
	current := p.store.Get(ctx, sessionID)
	if !current.State.IsActive() {
		return nil, ErrNotInPipeline
	}

	p.store.Update(ctx, sessionID, StateProcessing, Data{
		TranscriptID:             upload.ID,
		TranscriptText:           upload.Text,
		TranscriptStructuredData: upload.StructuredData,
		TranscriptFileName:       upload.FileName,
		TranscriptFileURL:        upload.FileURL,
	})
	p.events.PublishTranscriptUploaded(ctx, sessionID, upload.ID, upload.FileName)

	input := schedule.TranscriptInput{Major: current.Data.Major, Text: upload.Text}
	if upload.StructuredData != nil {
		input.CompletedCourses = upload.StructuredData.Courses
	}
	return p.finishUpload(ctx, sessionID, current.Data, input, upload.FileName)
}

// GenerateFromProcessing retries generation for a session stuck in
// processing, using text when given and the stored transcript otherwise.
func (p *Pipeline) GenerateFromProcessing(ctx context.Context, sessionID, text string) (*Result, error) {
	current := p.store.Get(ctx, sessionID)
	if current.State != StateProcessing {
		return nil, ErrNotProcessing
	}

	if text == "" {
		text = current.Data.TranscriptText
	}
	input := schedule.TranscriptInput{Major: current.Data.Major, Text: text}
	if sd := current.Data.TranscriptStructuredData; sd != nil {
		input.CompletedCourses = sd.Courses
	}
	return p.finishUpload(ctx, sessionID, current.Data, input, current.Data.TranscriptFileName)
}

func (p *Pipeline) finishUpload(ctx context.Context, sessionID string, data Data, input schedule.TranscriptInput, fileName string) (*Result, error) {
	outcome, err := p.generate(ctx, sessionID, data, input)
	if errors.Is(err, errSuperseded) {
		return &Result{Handled: true, Reply: ExitMessage, State: StateIdle, Exited: true}, nil
	}
	if err != nil {
		p.recordFailure(ctx, sessionID, Data{TranscriptText: input.Text, TranscriptFileName: fileName}, err)
		return &Result{
			Handled:       true,
			Reply:         UploadFailureMessage(fileName, err),
			State:         StateCollectingTranscript,
			ErrorKind:     llm.KindOf(err),
			ScheduleError: err.Error(),
		}, nil
	}

	p.store.Update(ctx, sessionID, StateOfferingExport, Data{
		Schedule:   outcome.schedule,
		Validation: &outcome.validation,
	})
	return &Result{
		Handled:      true,
		Reply:        SummaryMessage(outcome.schedule, outcome.validation, data.WorkloadPreference, true),
		State:        StateOfferingExport,
		Schedule:     outcome.schedule,
		Validation:   &outcome.validation,
		MajorContext: outcome.majorContext,
	}, nil
}

type generation struct {
	schedule     *schedule.GeneratedSchedule
	validation   schedule.Validation
	majorContext *retrieval.MajorContext
}

// generate builds and validates a schedule under the generation timeout.
// Results arriving after the session left the pipeline are dropped.
func (p *Pipeline) generate(ctx context.Context, sessionID string, data Data, input schedule.TranscriptInput) (*generation, error) {
	var mc *retrieval.MajorContext
	if p.contexts != nil && data.Major != "" {
		mc = p.contexts.MajorContext(ctx, data.Major, p.topK)
	}

	genCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	started := time.Now()
	s, err := p.generator.Generate(genCtx, schedule.Request{
		Transcript:         input,
		MajorContext:       mc,
		WorkloadPreference: data.WorkloadPreference.Or(schedule.WorkloadMedium),
		RequestedCourses:   data.RequestedCourses,
		YearLevel:          data.YearLevel,
	})
	if err != nil && errors.Is(genCtx.Err(), context.DeadlineExceeded) && llm.KindOf(err) != llm.KindTimeout {
		err = llm.NewError(llm.KindTimeout, fmt.Sprintf("schedule generation exceeded %s", p.timeout), err)
	}

	if !p.store.Get(ctx, sessionID).State.IsActive() {
		p.logger.Info("PIPELINE", "Discarding generation for session that left the pipeline", map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, errSuperseded
	}
	if err != nil {
		return nil, err
	}

	v := schedule.Validate(s, mc, s.CompletedCourses)
	p.events.PublishScheduleGenerated(ctx, sessionID, s.Semester, len(s.Courses), s.TotalCredits, v.Valid)
	p.logger.Info("PIPELINE", "Schedule ready", map[string]interface{}{
		"session_id":  sessionID,
		"duration_ms": time.Since(started).Milliseconds(),
		"valid":       v.Valid,
	})
	return &generation{schedule: s, validation: v, majorContext: mc}, nil
}

func (p *Pipeline) recordFailure(ctx context.Context, sessionID string, patch Data, err error) {
	kind := llm.KindOf(err)
	p.logger.Error("PIPELINE", "Schedule generation failed", map[string]interface{}{
		"session_id": sessionID,
		"kind":       kind,
		"error":      err.Error(),
	})
	patch.ScheduleError = err.Error()
	p.store.Update(ctx, sessionID, StateCollectingTranscript, patch)
	p.events.PublishScheduleGenerationFailed(ctx, sessionID, string(kind), err.Error())
}
