package pipeline

import (
	"regexp"
	"strings"
)

var (
	majorPhrasePattern  = regexp.MustCompile(`(?i)(?:i am|i'm|my major is|i study|studying|majoring in)\s+(.+)`)
	majorKeywordPattern = regexp.MustCompile(`(?i)\b(?:computer science|cs|information technology|it|business|engineering|biology|chemistry|physics|mathematics|math|psychology|english|history|political science|economics|accounting|finance|marketing|management)\b`)
	majorSuffixPattern  = regexp.MustCompile(`(?i)\s+major\s*$`)
	leadingArticle      = regexp.MustCompile(`(?i)^(?:a|an)\s+`)
	csAbbrev            = regexp.MustCompile(`(?i)\bcs\b`)
	itAbbrev            = regexp.MustCompile(`(?i)\bit\b`)
)

// ExtractMajor pulls a major name out of a free-text answer, falling back to
// the trimmed message.
func ExtractMajor(message string) string {
	major := strings.TrimSpace(message)

	if m := majorPhrasePattern.FindStringSubmatch(message); m != nil {
		major = strings.TrimSpace(m[1])
	} else if m := majorKeywordPattern.FindString(message); m != "" {
		major = strings.TrimSpace(m)
	}
	major = strings.TrimSpace(majorSuffixPattern.ReplaceAllString(major, ""))
	major = strings.TrimSpace(leadingArticle.ReplaceAllString(major, ""))
	major = strings.TrimRight(major, ".!")

	lower := strings.ToLower(major)
	switch {
	case strings.Contains(lower, "computer science") || csAbbrev.MatchString(major):
		return "Computer Science"
	case strings.Contains(lower, "information technology") || itAbbrev.MatchString(major):
		return "Information Technology"
	}
	return major
}
