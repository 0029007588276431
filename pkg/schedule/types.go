package schedule

import (
	"time"

	"gsu-chatbot-be/pkg/retrieval"
)

type Workload string

const (
	WorkloadLight  Workload = "light"
	WorkloadMedium Workload = "medium"
	WorkloadHeavy  Workload = "heavy"
)

type YearLevel string

const (
	YearFreshman  YearLevel = "freshman"
	YearSophomore YearLevel = "sophomore"
	YearJunior    YearLevel = "junior"
	YearSenior    YearLevel = "senior"
)

// CreditBand is an inclusive credit-hour range.
type CreditBand struct {
	Min int
	Max int
}

var creditBands = map[Workload]CreditBand{
	WorkloadLight:  {Min: 12, Max: 13},
	WorkloadMedium: {Min: 14, Max: 15},
	WorkloadHeavy:  {Min: 16, Max: 18},
}

// BandFor resolves a workload to its credit band, defaulting to medium.
func BandFor(w Workload) CreditBand {
	if b, ok := creditBands[w]; ok {
		return b
	}
	return creditBands[WorkloadMedium]
}

// CreditRange renders the band as "min-max".
func CreditRange(w Workload) string {
	b := BandFor(w)
	return itoa(b.Min) + "-" + itoa(b.Max)
}

// Or returns w, or fallback when w is empty.
func (w Workload) Or(fallback Workload) Workload {
	if w == "" {
		return fallback
	}
	return w
}

type CompletedCourse struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Grade    string  `json:"grade"`
	Credits  float64 `json:"credits"`
	Semester string  `json:"semester"`
}

type Course struct {
	Code             string   `json:"code"`
	Name             string   `json:"name"`
	Credits          float64  `json:"credits"`
	Prerequisites    []string `json:"prerequisites"`
	PrerequisitesMet bool     `json:"prerequisitesMet"`
}

type GeneratedSchedule struct {
	Semester           string            `json:"semester"`
	TotalCredits       float64           `json:"totalCredits"`
	WorkloadPreference Workload          `json:"workloadPreference"`
	Major              string            `json:"major"`
	CompletedCourses   []CompletedCourse `json:"completedCourses"`
	Courses            []Course          `json:"courses"`
	GeneratedAt        time.Time         `json:"generatedAt"`
}

// RecomputeTotal sets TotalCredits to the sum of course credits.
func (s *GeneratedSchedule) RecomputeTotal() {
	var total float64
	for _, c := range s.Courses {
		total += c.Credits
	}
	s.TotalCredits = total
}

type RequestedCourse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Validation struct {
	Valid    bool     `json:"valid"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
}

// TranscriptInput is what the generator knows about the student's history.
// CompletedCourses, when set, skips text parsing.
type TranscriptInput struct {
	Text             string
	Major            string
	CompletedCourses []CompletedCourse
}

type Request struct {
	Transcript         TranscriptInput
	MajorContext       *retrieval.MajorContext
	WorkloadPreference Workload
	RequestedCourses   []RequestedCourse
	YearLevel          YearLevel
}
