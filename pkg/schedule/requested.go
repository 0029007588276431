package schedule

import (
	"context"
	"fmt"
	"strings"

	"gsu-chatbot-be/pkg/llm"
)

const (
	requestedHistoryTurns = 10
	requestedMinChars     = 50
)

const requestedSystemPrompt = "You are an expert at extracting course information from conversations. Return only valid JSON."

const requestedPrompt = `From this conversation, extract any specific courses or classes that the user mentioned wanting to take or add to their schedule.

Look for:
- Course codes (e.g., "CSC 4821", "CSC 4820", "CSC 4841")
- Course names (e.g., "Game Design", "Interactive Computer Graphics", "Computer Animation")
- Subject areas mentioned (e.g., "game design classes", "CMII classes")

Return a JSON object with this structure:
{
  "courses": [
    {"code": "CSC 4821", "name": "Fundamentals of Game Design"},
    {"code": "CSC 4820", "name": "Interactive Computer Graphics"}
  ],
  "subjects": ["game design", "CMII"]
}

If no specific courses are mentioned, return {"courses": [], "subjects": []}.

Conversation:
%s

Current message: %s`

// FormatHistory renders the last turns of history as "User:"/"Assistant:" lines.
func FormatHistory(history []llm.Message, turns int) string {
	if len(history) > turns {
		history = history[len(history)-turns:]
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		speaker := "Assistant"
		if m.Role == llm.RoleUser {
			speaker = "User"
		}
		lines = append(lines, speaker+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

// ExtractRequestedCourses finds courses the user asked for earlier in the
// conversation. Short histories are skipped without a model call.
func ExtractRequestedCourses(ctx context.Context, provider llm.LLMProvider, model string, history []llm.Message, message string) ([]RequestedCourse, error) {
	text := FormatHistory(history, requestedHistoryTurns)
	if len(text) <= requestedMinChars || provider == nil {
		return []RequestedCourse{}, nil
	}

	content, err := provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: requestedSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(requestedPrompt, text, message)},
	}, llm.WithModel(model), llm.WithTemperature(0.1), llm.WithMaxTokens(500), llm.WithJSONMode())
	if err != nil {
		return []RequestedCourse{}, err
	}

	var parsed struct {
		Courses []RequestedCourse `json:"courses"`
	}
	if err := llm.DecodeJSON(content, &parsed); err != nil {
		return []RequestedCourse{}, err
	}
	if parsed.Courses == nil {
		return []RequestedCourse{}, nil
	}
	return parsed.Courses, nil
}
