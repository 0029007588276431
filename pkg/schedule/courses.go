package schedule

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gsu-chatbot-be/pkg/llm"
)

const maxTranscriptChars = 12000

var (
	exactCodePattern = regexp.MustCompile(`(?i)^([A-Z]{2,4})\s*(\d{4})$`)
	scanCodePattern  = regexp.MustCompile(`\b([A-Z]{2,4})\s*(\d{4})\b`)
	whitespace       = regexp.MustCompile(`\s+`)
)

const transcriptParserSystemPrompt = "You are an expert academic transcript parser. Extract ALL completed courses with EXACT course codes. Be thorough and accurate. Return only valid JSON."

const transcriptParserPrompt = `Extract ALL completed courses from this academic transcript.

For each completed course, extract:
- **Course code** (EXACT format, e.g., "CSC 1301", "MATH 1111", "ENGL 1101")
- **Course name** (full name)
- **Grade received** (A, B, C, D, F, P, S, W, etc.)
- **Credits earned** (number)
- **Semester/Term** (e.g., "Fall 2023", "Spring 2024")

CRITICAL REQUIREMENTS:
1. Include ALL courses that have been completed (have a grade)
2. Do NOT include courses that are in-progress, withdrawn (W), or incomplete
3. If a course appears multiple times (retaken), include all instances
4. Normalize course codes to standard format: "SUBJ XXXX" (e.g., "CSC 1301" not "CSC1301")

Return a JSON object with this structure:
{
  "courses": [
    {
      "code": "CSC 1301",
      "name": "Principles of Computer Science I",
      "grade": "A",
      "credits": 3,
      "semester": "Fall 2023"
    }
  ],
  "gpa": 3.5,
  "totalCredits": 45
}

Transcript text:
%s`

// NormalizeCode rewrites "csc1301" style codes to "CSC 1301". Codes that do
// not look like SUBJ NNNN are returned trimmed.
func NormalizeCode(code string) string {
	code = strings.TrimSpace(code)
	if m := exactCodePattern.FindStringSubmatch(code); m != nil {
		return strings.ToUpper(m[1]) + " " + m[2]
	}
	return code
}

// CodeKey is the comparison key for course codes: uppercase, no whitespace.
func CodeKey(code string) string {
	return whitespace.ReplaceAllString(strings.ToUpper(code), "")
}

// ParsedTranscript is the model's structured reading of a transcript.
type ParsedTranscript struct {
	Courses      []CompletedCourse `json:"courses"`
	GPA          *float64          `json:"gpa,omitempty"`
	TotalCredits *float64          `json:"totalCredits,omitempty"`
}

// ParseCompletedCourses asks the model for the completed courses in text and
// falls back to a regex scan when the call or its JSON fails. Empty text
// yields no courses without calling the model.
func ParseCompletedCourses(ctx context.Context, provider llm.LLMProvider, model, text string) ([]CompletedCourse, error) {
	if strings.TrimSpace(text) == "" {
		return []CompletedCourse{}, nil
	}

	parsed, err := ParseTranscript(ctx, provider, model, text)
	if err != nil {
		return ScanCourseCodes(text), err
	}
	return parsed.Courses, nil
}

// ParseTranscript runs the structured extraction call without any fallback.
func ParseTranscript(ctx context.Context, provider llm.LLMProvider, model, text string) (*ParsedTranscript, error) {
	if provider == nil {
		return nil, llm.NewError(llm.KindUnavailable, "no language model configured", nil)
	}

	truncated := text
	if r := []rune(text); len(r) > maxTranscriptChars {
		truncated = string(r[:maxTranscriptChars])
	}

	content, err := provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: transcriptParserSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(transcriptParserPrompt, truncated)},
	}, llm.WithModel(model), llm.WithTemperature(0.1), llm.WithMaxTokens(3000), llm.WithJSONMode())
	if err != nil {
		return nil, err
	}

	var parsed ParsedTranscript
	if err := llm.DecodeJSON(content, &parsed); err != nil {
		return nil, err
	}
	parsed.Courses = NormalizeCourses(parsed.Courses)
	return &parsed, nil
}

// NormalizeCourses normalizes every code in place and never returns nil.
func NormalizeCourses(courses []CompletedCourse) []CompletedCourse {
	out := make([]CompletedCourse, 0, len(courses))
	for _, c := range courses {
		c.Code = NormalizeCode(c.Code)
		out = append(out, c)
	}
	return out
}

// ScanCourseCodes extracts every SUBJ NNNN occurrence as a degraded record.
func ScanCourseCodes(text string) []CompletedCourse {
	matches := scanCodePattern.FindAllStringSubmatch(text, -1)
	out := make([]CompletedCourse, 0, len(matches))
	for _, m := range matches {
		out = append(out, CompletedCourse{
			Code:     m[1] + " " + m[2],
			Name:     "Unknown",
			Grade:    "Unknown",
			Credits:  3,
			Semester: "Unknown",
		})
	}
	return out
}

// completedKeys indexes completed courses by CodeKey.
func completedKeys(completed []CompletedCourse) map[string]struct{} {
	keys := make(map[string]struct{}, len(completed))
	for _, c := range completed {
		if c.Code == "" {
			continue
		}
		keys[CodeKey(c.Code)] = struct{}{}
	}
	return keys
}
