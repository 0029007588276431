package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// CurrentSemester returns the semester a schedule built at now targets.
// August through January plan for Fall, February through May for Spring and
// the summer months for the upcoming Fall.
func CurrentSemester(now time.Time) string {
	year := now.Year()
	switch m := now.Month(); {
	case m >= time.February && m <= time.May:
		return fmt.Sprintf("Spring %d", year)
	default:
		return fmt.Sprintf("Fall %d", year)
	}
}

// resolveSemester keeps the model's semester unless it is empty, carries no
// year or names a year before the computed one.
func resolveSemester(got string, now time.Time) string {
	want := CurrentSemester(now)
	if got == "" {
		return want
	}
	m := yearPattern.FindStringSubmatch(got)
	if m == nil {
		return want
	}
	y, err := strconv.Atoi(m[1])
	if err != nil || y < now.Year() {
		return want
	}
	return got
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
