package pipeline

import (
	"context"
	"errors"
	"sync"

	"gsu-chatbot-be/pkg/llm"
	"gsu-chatbot-be/pkg/retrieval"
	"gsu-chatbot-be/pkg/schedule"

	"github.com/stretchr/testify/mock"
)

type mapCache struct {
	mu     sync.Mutex
	states map[string]*PipelineState
}

func newMapCache() *mapCache {
	return &mapCache{states: map[string]*PipelineState{}}
}

func (c *mapCache) Get(_ context.Context, id string) (*PipelineState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.states[id]
	return st.Clone(), ok
}

func (c *mapCache) Set(_ context.Context, st *PipelineState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[st.SessionID] = st.Clone()
	return nil
}

// failingCache behaves like an unreachable Redis: writes error, reads miss.
type failingCache struct{}

func (failingCache) Get(context.Context, string) (*PipelineState, bool) { return nil, false }

func (failingCache) Set(context.Context, *PipelineState) error {
	return errors.New("dial tcp: connection refused")
}

type mockDurable struct {
	mock.Mock
}

func (m *mockDurable) Load(ctx context.Context, id string) (*PipelineState, error) {
	args := m.Called(ctx, id)
	st, _ := args.Get(0).(*PipelineState)
	return st, args.Error(1)
}

func (m *mockDurable) Save(ctx context.Context, st *PipelineState) error {
	return m.Called(ctx, st).Error(0)
}

type fakeGenerator struct {
	generate  func(ctx context.Context, req schedule.Request) (*schedule.GeneratedSchedule, error)
	requested []schedule.RequestedCourse
	requests  []schedule.Request
}

func (g *fakeGenerator) Generate(ctx context.Context, req schedule.Request) (*schedule.GeneratedSchedule, error) {
	g.requests = append(g.requests, req)
	return g.generate(ctx, req)
}

func (g *fakeGenerator) ExtractRequestedCourses(context.Context, []llm.Message, string) ([]schedule.RequestedCourse, error) {
	return g.requested, nil
}

type fakeContexts struct {
	calls []string
}

func (f *fakeContexts) Search(context.Context, string, int) ([]retrieval.Chunk, error) {
	return nil, nil
}

func (f *fakeContexts) MajorContext(_ context.Context, major string, _ int) *retrieval.MajorContext {
	f.calls = append(f.calls, major)
	return &retrieval.MajorContext{
		Major:            major,
		Requirements:     []string{"Complete 120 credit hours"},
		AvailableCourses: []string{"BIOL 2107 Principles of Biology"},
		Prerequisites:    map[string][]string{},
	}
}

type recordedEvent struct {
	kind      string
	sessionID string
}

type fakePublisher struct {
	events []recordedEvent
}

func (p *fakePublisher) PublishPipelineStarted(_ context.Context, id string, _ int) {
	p.events = append(p.events, recordedEvent{"started", id})
}

func (p *fakePublisher) PublishPipelineExited(_ context.Context, id, _ string) {
	p.events = append(p.events, recordedEvent{"exited", id})
}

func (p *fakePublisher) PublishTranscriptUploaded(_ context.Context, id, _, _ string) {
	p.events = append(p.events, recordedEvent{"uploaded", id})
}

func (p *fakePublisher) PublishScheduleGenerated(_ context.Context, id, _ string, _ int, _ float64, _ bool) {
	p.events = append(p.events, recordedEvent{"generated", id})
}

func (p *fakePublisher) PublishScheduleGenerationFailed(_ context.Context, id, _, _ string) {
	p.events = append(p.events, recordedEvent{"failed", id})
}

func (p *fakePublisher) kinds() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.kind)
	}
	return out
}

func sampleSchedule() *schedule.GeneratedSchedule {
	s := &schedule.GeneratedSchedule{
		Semester:           "Fall 2026",
		WorkloadPreference: schedule.WorkloadMedium,
		Major:              "Biology",
		Courses: []schedule.Course{
			{Code: "BIOL 2107", Name: "Principles of Biology I", Credits: 3, Prerequisites: []string{}, PrerequisitesMet: true},
			{Code: "BIOL 2107L", Name: "Principles of Biology I Lab", Credits: 1, Prerequisites: []string{}, PrerequisitesMet: true},
			{Code: "CHEM 1211", Name: "Principles of Chemistry I", Credits: 3, Prerequisites: []string{}, PrerequisitesMet: true},
			{Code: "MATH 1113", Name: "Precalculus", Credits: 4, Prerequisites: []string{}, PrerequisitesMet: true},
			{Code: "ENGL 1101", Name: "English Composition I", Credits: 3, Prerequisites: []string{}, PrerequisitesMet: true},
		},
	}
	s.RecomputeTotal()
	return s
}
