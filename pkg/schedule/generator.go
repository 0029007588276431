package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/pkg/llm"
)

// Generator builds schedules with a language model and enforces the
// completed-course exclusion itself.
type Generator struct {
	llm             llm.LLMProvider
	logger          logger.ILogger
	model           string
	extractionModel string
	now             func() time.Time
}

func NewGenerator(provider llm.LLMProvider, model, extractionModel string, logger logger.ILogger) *Generator {
	return &Generator{
		llm:             provider,
		logger:          logger,
		model:           model,
		extractionModel: extractionModel,
		now:             time.Now,
	}
}

// WithClock overrides the time source used for semester resolution.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// ParseCompletedCourses extracts completed courses from transcript text,
// degrading to a regex scan on failure.
func (g *Generator) ParseCompletedCourses(ctx context.Context, text string) []CompletedCourse {
	courses, err := ParseCompletedCourses(ctx, g.llm, g.extractionModel, text)
	if err != nil {
		g.logger.Warn("SCHEDULE", "Course extraction failed, using regex fallback", map[string]interface{}{
			"error":   err.Error(),
			"courses": len(courses),
		})
	}
	return courses
}

type generatedPayload struct {
	Semester     string   `json:"semester"`
	TotalCredits float64  `json:"totalCredits"`
	Courses      []Course `json:"courses"`
}

func (g *Generator) Generate(ctx context.Context, req Request) (*GeneratedSchedule, error) {
	if g.llm == nil {
		return nil, llm.NewError(llm.KindUnavailable, "no language model configured", nil)
	}

	completed := req.Transcript.CompletedCourses
	if len(completed) > 0 {
		completed = NormalizeCourses(completed)
	} else {
		completed = g.ParseCompletedCourses(ctx, req.Transcript.Text)
	}

	now := g.now()
	semester := CurrentSemester(now)
	workload := req.WorkloadPreference.Or(WorkloadMedium)

	content, err := g.llm.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: generatorSystemPrompt},
		{Role: llm.RoleUser, Content: buildPrompt(req, completed, semester)},
	}, llm.WithModel(g.model), llm.WithTemperature(0.5), llm.WithMaxTokens(3000), llm.WithJSONMode())
	if err != nil {
		return nil, fmt.Errorf("generate schedule: %w", err)
	}

	var payload generatedPayload
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}

	s := &GeneratedSchedule{
		Semester:           resolveSemester(payload.Semester, now),
		WorkloadPreference: workload,
		Major:              req.Transcript.Major,
		CompletedCourses:   completed,
		Courses:            g.excludeCompleted(payload.Courses, completed),
		GeneratedAt:        now.UTC(),
	}
	s.RecomputeTotal()

	g.logger.Info("SCHEDULE", "Schedule generated", map[string]interface{}{
		"major":     s.Major,
		"semester":  s.Semester,
		"courses":   len(s.Courses),
		"credits":   s.TotalCredits,
		"completed": len(completed),
	})

	return s, nil
}

// excludeCompleted drops code-less courses and any course whose code key
// matches a completed course. Prerequisite lists are never nil.
func (g *Generator) excludeCompleted(courses []Course, completed []CompletedCourse) []Course {
	keys := completedKeys(completed)
	out := make([]Course, 0, len(courses))
	for _, c := range courses {
		c.Code = strings.TrimSpace(c.Code)
		if c.Code == "" {
			continue
		}
		if _, done := keys[CodeKey(c.Code)]; done {
			g.logger.Debug("SCHEDULE", "Dropped already completed course", map[string]interface{}{"code": c.Code})
			continue
		}
		if c.Prerequisites == nil {
			c.Prerequisites = []string{}
		}
		out = append(out, c)
	}
	return out
}

// ExtractRequestedCourses runs requested-course extraction with the
// generator's extraction model.
func (g *Generator) ExtractRequestedCourses(ctx context.Context, history []llm.Message, message string) ([]RequestedCourse, error) {
	return ExtractRequestedCourses(ctx, g.llm, g.extractionModel, history, message)
}
