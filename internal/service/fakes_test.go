package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"gsu-chatbot-be/internal/entity"
	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/internal/repository/contract"
	"gsu-chatbot-be/internal/repository/memory"
	"gsu-chatbot-be/internal/repository/specification"
	"gsu-chatbot-be/internal/repository/unitofwork"
	"gsu-chatbot-be/pkg/llm"
	"gsu-chatbot-be/pkg/pipeline"
	"gsu-chatbot-be/pkg/retrieval"
	"gsu-chatbot-be/pkg/schedule"
	"gsu-chatbot-be/pkg/storage"
)

type stubLLM struct {
	mu    sync.Mutex
	reply string
	err   error
	calls [][]llm.Message
	opts  []*llm.Options
}

func (s *stubLLM) Chat(_ context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, history)
	s.opts = append(s.opts, llm.ApplyOptions(opts...))
	return s.reply, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

type stubContexts struct {
	chunks  []retrieval.Chunk
	err     error
	queries []string
}

func (s *stubContexts) Search(_ context.Context, query string, _ int) ([]retrieval.Chunk, error) {
	s.queries = append(s.queries, query)
	return s.chunks, s.err
}

func (s *stubContexts) MajorContext(_ context.Context, major string, _ int) *retrieval.MajorContext {
	return &retrieval.MajorContext{
		Major:            major,
		Requirements:     []string{"Complete 120 credit hours"},
		AvailableCourses: []string{"BIOL 2107 Principles of Biology"},
		Prerequisites:    map[string][]string{},
	}
}

type stubTranscripts struct {
	transcript *entity.Transcript
	err        error
}

func (s *stubTranscripts) Latest(context.Context, string) (*entity.Transcript, error) {
	return s.transcript, s.err
}

type stubGenerator struct {
	schedule *schedule.GeneratedSchedule
	err      error
	requests []schedule.Request
}

func (g *stubGenerator) Generate(_ context.Context, req schedule.Request) (*schedule.GeneratedSchedule, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	s := *g.schedule
	return &s, nil
}

func (g *stubGenerator) ExtractRequestedCourses(context.Context, []llm.Message, string) ([]schedule.RequestedCourse, error) {
	return nil, nil
}

type nopDurable struct{}

func (nopDurable) Load(context.Context, string) (*pipeline.PipelineState, error) { return nil, nil }

func (nopDurable) Save(context.Context, *pipeline.PipelineState) error { return nil }

func sampleSchedule() *schedule.GeneratedSchedule {
	return &schedule.GeneratedSchedule{
		Semester:           "Fall 2026",
		TotalCredits:       14,
		WorkloadPreference: schedule.WorkloadMedium,
		Major:              "Biology",
		Courses: []schedule.Course{
			{Code: "BIOL 2107", Name: "Principles of Biology I", Credits: 4},
			{Code: "CHEM 1211", Name: "Principles of Chemistry I", Credits: 4},
			{Code: "ENGL 1101", Name: "English Composition I", Credits: 3},
			{Code: "MATH 1113", Name: "Precalculus", Credits: 3},
		},
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newTestPipeline(gen pipeline.ScheduleGenerator) *pipeline.Pipeline {
	log := logger.NewNopLogger()
	store := pipeline.NewStore(memory.NewPipelineStateCache(time.Minute), nil, nopDurable{}, log)
	return pipeline.New(store, gen, &stubContexts{}, nil, log, pipeline.Config{
		GenerationTimeout: time.Second,
		MajorContextTopK:  10,
	})
}

// In-memory unit of work.

type fakeFactory struct {
	sessions    *fakeChatSessionRepo
	transcripts *fakeTranscriptRepo
	chunks      *fakeCatalogRepo
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		sessions:    &fakeChatSessionRepo{rows: map[string]*entity.ChatSession{}},
		transcripts: &fakeTranscriptRepo{},
		chunks:      &fakeCatalogRepo{},
	}
}

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{f: f}
}

type fakeUnitOfWork struct {
	f         *fakeFactory
	committed bool
}

func (u *fakeUnitOfWork) Begin(context.Context) error { return nil }

func (u *fakeUnitOfWork) Commit() error {
	u.committed = true
	return nil
}

func (u *fakeUnitOfWork) Rollback() error { return nil }

func (u *fakeUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return u.f.sessions
}

func (u *fakeUnitOfWork) TranscriptRepository() contract.TranscriptRepository {
	return u.f.transcripts
}

func (u *fakeUnitOfWork) CatalogChunkRepository() contract.CatalogChunkRepository {
	return u.f.chunks
}

type fakeChatSessionRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.ChatSession
	err  error
}

func (r *fakeChatSessionRepo) UpsertPipelineState(_ context.Context, id, title string, st *pipeline.PipelineState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	row, ok := r.rows[id]
	if !ok {
		row = &entity.ChatSession{Id: id, Title: title}
		r.rows[id] = row
	}
	row.PipelineState = st.Clone()
	return nil
}

func (r *fakeChatSessionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, spec := range specs {
		if key, ok := spec.(specification.BySessionKey); ok {
			return r.rows[key.Key], nil
		}
	}
	return nil, nil
}

type fakeTranscriptRepo struct {
	mu   sync.Mutex
	rows []*entity.Transcript
	err  error
}

func (r *fakeTranscriptRepo) Create(_ context.Context, t *entity.Transcript) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.rows = append(r.rows, t)
	return nil
}

func (r *fakeTranscriptRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Transcript, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sessionID string
	for _, spec := range specs {
		if s, ok := spec.(specification.BySessionID); ok {
			sessionID = s.SessionID
		}
	}
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].SessionId == sessionID {
			return r.rows[i], nil
		}
	}
	return nil, nil
}

func (r *fakeTranscriptRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Transcript, error) {
	return r.rows, nil
}

func (r *fakeTranscriptRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(r.rows)), nil
}

type fakeCatalogRepo struct {
	mu       sync.Mutex
	chunks   []*entity.CatalogChunk
	deleted  []string
	scored   []*entity.ScoredCatalogChunk
	createFn func([]*entity.CatalogChunk) error
}

func (r *fakeCatalogRepo) CreateBulk(_ context.Context, chunks []*entity.CatalogChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createFn != nil {
		if err := r.createFn(chunks); err != nil {
			return err
		}
	}
	r.chunks = append(r.chunks, chunks...)
	return nil
}

func (r *fakeCatalogRepo) DeleteBySource(_ context.Context, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, source)
	kept := r.chunks[:0]
	for _, c := range r.chunks {
		if c.Source != source {
			kept = append(kept, c)
		}
	}
	r.chunks = kept
	return nil
}

func (r *fakeCatalogRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.CatalogChunk, error) {
	return r.chunks, nil
}

func (r *fakeCatalogRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(r.chunks)), nil
}

func (r *fakeCatalogRepo) SearchSimilarWithScore(context.Context, []float32, int, float64) ([]*entity.ScoredCatalogChunk, error) {
	return r.scored, nil
}

// File and text fakes.

type stubFiles struct {
	mu       sync.Mutex
	uploaded map[string][]byte
	err      error
}

func newStubFiles() *stubFiles {
	return &stubFiles{uploaded: map[string][]byte{}}
}

func (s *stubFiles) Upload(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.uploaded[key] = data
	return nil
}

func (s *stubFiles) SignedURL(key string, _ time.Duration) (string, error) {
	return "http://localhost/api/files/transcripts/" + key + "?token=t", nil
}

func (s *stubFiles) Open(key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.uploaded[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *stubFiles) Verify(string, string) error { return nil }

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) ExtractText(context.Context, []byte, string) (string, error) {
	return s.text, s.err
}

type stubStructured struct {
	parsed *schedule.ParsedTranscript
	err    error
}

func (s *stubStructured) Extract(context.Context, string) (*schedule.ParsedTranscript, error) {
	return s.parsed, s.err
}

var errBoom = errors.New("boom")
