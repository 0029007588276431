package pipeline

import (
	"strings"

	"gsu-chatbot-be/pkg/schedule"
)

// rule maps a keyword set to a result. Rule tables are evaluated in order
// and the first rule with a matching keyword wins.
type rule[T any] struct {
	result   T
	keywords []string
}

func firstMatch[T any](message string, rules []rule[T]) (T, bool) {
	lower := strings.ToLower(message)
	for _, r := range rules {
		if containsAny(lower, r.keywords) {
			return r.result, true
		}
	}
	var zero T
	return zero, false
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

var triggerPhrases = []string{
	"schedule", "planning", "plan my", "build schedule", "next semester",
	"course schedule", "class schedule", "semester planning", "schedule building",
	"help with planning", "create schedule", "generate schedule",
}

var exitKeywords = []string{"exit", "cancel", "stop", "nevermind", "quit", "abort", "back"}

var workloadRules = []rule[schedule.Workload]{
	{schedule.WorkloadLight, []string{"light", "easy", "minimal", "few", "less", "12", "13"}},
	{schedule.WorkloadMedium, []string{"medium", "moderate", "normal", "average", "14", "15"}},
	{schedule.WorkloadHeavy, []string{"heavy", "full", "maximum", "many", "lots", "16", "17", "18", "max"}},
}

var yearLevelRules = []rule[schedule.YearLevel]{
	{schedule.YearFreshman, []string{"freshman", "first year", "1st year", "first-year"}},
	{schedule.YearSophomore, []string{"sophomore", "second year", "2nd year", "second-year"}},
	{schedule.YearJunior, []string{"junior", "third year", "3rd year", "third-year"}},
	{schedule.YearSenior, []string{"senior", "fourth year", "4th year", "fourth-year"}},
}

var skipKeywords = []string{"skip", "no transcript", "don't have", "don't", "no", "continue without", "generate without"}

var exportKeywords = []string{"download", "pdf", "notion", "export", "save", "get file"}

var modifyKeywords = []string{"change", "modify", "update", "different", "switch", "replace", "remove", "add"}

var exportFormatRules = []rule[string]{
	{"notion", []string{"notion"}},
	{"csv", []string{"csv"}},
}

func DetectTrigger(message string) bool {
	return containsAny(strings.ToLower(message), triggerPhrases)
}

func CanExit(message string) bool {
	return containsAny(strings.TrimSpace(strings.ToLower(message)), exitKeywords)
}

// ParseWorkloadPreference returns "" when nothing matches.
func ParseWorkloadPreference(message string) schedule.Workload {
	w, _ := firstMatch(message, workloadRules)
	return w
}

// ParseYearLevel returns "" when nothing matches.
func ParseYearLevel(message string) schedule.YearLevel {
	y, _ := firstMatch(message, yearLevelRules)
	return y
}

func WantsToSkip(message string) bool {
	return containsAny(strings.ToLower(message), skipKeywords)
}

func WantsExport(message string) bool {
	return containsAny(strings.ToLower(message), exportKeywords)
}

// ExportFormat picks the export format a message asks for, defaulting to pdf.
func ExportFormat(message string) string {
	if f, ok := firstMatch(message, exportFormatRules); ok {
		return f
	}
	return "pdf"
}

func WantsModify(message string) bool {
	return containsAny(strings.ToLower(message), modifyKeywords)
}
