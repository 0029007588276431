package schedule

import (
	"fmt"
	"strings"

	"gsu-chatbot-be/pkg/retrieval"
)

const (
	minFullTimeCredits = 12
	maxAllowedCredits  = 18
)

// Validate checks credit bounds and prerequisites. Warnings are advisory and
// never affect Valid.
func Validate(s *GeneratedSchedule, mc *retrieval.MajorContext, completed []CompletedCourse) Validation {
	v := Validation{Issues: []string{}, Warnings: []string{}}
	if s == nil {
		v.Issues = append(v.Issues, "No schedule to validate")
		return v
	}

	if s.TotalCredits < minFullTimeCredits {
		v.Issues = append(v.Issues, "Schedule has less than 12 credits (minimum for full-time)")
	}
	if s.TotalCredits > maxAllowedCredits {
		v.Issues = append(v.Issues, "Schedule exceeds 18 credits (maximum allowed)")
	}

	for _, c := range s.Courses {
		if len(c.Prerequisites) == 0 {
			continue
		}
		if !prerequisitesMet(c.Prerequisites, completed) && !c.PrerequisitesMet {
			v.Issues = append(v.Issues, fmt.Sprintf("Course %s has unmet prerequisites: %s", c.Code, strings.Join(c.Prerequisites, ", ")))
		}
	}

	if s.WorkloadPreference != "" {
		band := BandFor(s.WorkloadPreference)
		if s.TotalCredits >= minFullTimeCredits && s.TotalCredits <= maxAllowedCredits &&
			(s.TotalCredits < float64(band.Min) || s.TotalCredits > float64(band.Max)) {
			v.Warnings = append(v.Warnings, fmt.Sprintf("Total credits (%s) fall outside your %s workload range (%d-%d credits)",
				formatCredits(s.TotalCredits), s.WorkloadPreference, band.Min, band.Max))
		}
	}
	if mc.Empty() {
		v.Warnings = append(v.Warnings, "No major-specific catalog information was found; verify these courses with your advisor")
	}

	v.Valid = len(v.Issues) == 0
	return v
}

// prerequisitesMet reports whether every prerequisite is a case-insensitive
// substring of some completed course code.
func prerequisitesMet(prereqs []string, completed []CompletedCourse) bool {
	for _, p := range prereqs {
		p = strings.ToLower(p)
		found := false
		for _, c := range completed {
			if strings.Contains(strings.ToLower(c.Code), p) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
