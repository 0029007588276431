package retrieval

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
)

var (
	courseMentionPattern = regexp.MustCompile(`(?i)\b[a-z]{2,4}\s*\d{4}\b`)
	prereqCodePattern    = regexp.MustCompile(`[A-Z]{2,4}\s*\d{4}`)
)

// MajorContext is the catalog material gathered for one major.
type MajorContext struct {
	Major            string              `json:"major"`
	Requirements     []string            `json:"requirements"`
	AvailableCourses []string            `json:"availableCourses"`
	Prerequisites    map[string][]string `json:"prerequisites"`
	DegreeAudit      *string             `json:"degreeAudit"`
	RawContext       []Chunk             `json:"rawContext,omitempty"`
	Error            string              `json:"error,omitempty"`
}

// Empty reports whether nothing usable was found for the major.
func (m *MajorContext) Empty() bool {
	return m == nil || (len(m.Requirements) == 0 && len(m.AvailableCourses) == 0 && len(m.Prerequisites) == 0)
}

func newMajorContext(major string) *MajorContext {
	return &MajorContext{
		Major:            major,
		Requirements:     []string{},
		AvailableCourses: []string{},
		Prerequisites:    map[string][]string{},
	}
}

// MajorContext fans out five major-specific queries and classifies the merged
// chunks. Failures are reported in the Error field instead of returned.
func (p *Provider) MajorContext(ctx context.Context, major string, topK int) *MajorContext {
	major = strings.TrimSpace(major)
	mc := newMajorContext(major)
	if major == "" {
		return mc
	}
	if topK <= 0 {
		topK = 10
	}

	queries := []string{
		major + " major requirements",
		major + " degree requirements",
		major + " courses available",
		major + " prerequisites",
		major + " degree audit",
	}
	perQuery := int(math.Ceil(float64(topK) / float64(len(queries))))

	var all []Chunk
	for _, q := range queries {
		chunks, err := p.Search(ctx, q, perQuery)
		if err != nil {
			p.logger.Error("RETRIEVAL", "Major context lookup failed", map[string]interface{}{
				"major": major,
				"error": err.Error(),
			})
			mc.Error = err.Error()
			return mc
		}
		all = append(all, chunks...)
	}

	unique := dedupe(all)
	sort.SliceStable(unique, func(i, j int) bool { return unique[i].Score > unique[j].Score })
	if len(unique) > topK {
		unique = unique[:topK]
	}

	classify(mc, unique)
	mc.RawContext = unique
	return mc
}

// dedupe keeps the last chunk seen for each id at the position of its first
// occurrence.
func dedupe(chunks []Chunk) []Chunk {
	index := make(map[string]int, len(chunks))
	out := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		if i, ok := index[c.ID]; ok {
			out[i] = c
			continue
		}
		index[c.ID] = len(out)
		out = append(out, c)
	}
	return out
}

func classify(mc *MajorContext, chunks []Chunk) {
	for _, chunk := range chunks {
		text := strings.ToLower(chunk.Text)

		if strings.Contains(text, "requirement") || strings.Contains(text, "credit") {
			mc.Requirements = append(mc.Requirements, chunk.Text)
		}

		if strings.Contains(text, "course") || courseMentionPattern.MatchString(text) {
			mc.AvailableCourses = append(mc.AvailableCourses, chunk.Text)
		}

		if strings.Contains(text, "prerequisite") || strings.Contains(text, "prereq") {
			for _, code := range prereqCodePattern.FindAllString(chunk.Text, -1) {
				mc.Prerequisites[code] = append(mc.Prerequisites[code], chunk.Text)
			}
		}

		if strings.Contains(text, "degree audit") || strings.Contains(text, "evaluation") {
			t := chunk.Text
			mc.DegreeAudit = &t
		}
	}
}
