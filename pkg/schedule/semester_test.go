package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month) time.Time {
	return time.Date(year, month, 15, 12, 0, 0, 0, time.UTC)
}

func TestCurrentSemester(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.January, "Fall 2026"},
		{time.February, "Spring 2026"},
		{time.May, "Spring 2026"},
		{time.June, "Fall 2026"},
		{time.July, "Fall 2026"},
		{time.August, "Fall 2026"},
		{time.December, "Fall 2026"},
	}
	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentSemester(date(2026, tt.month)))
		})
	}
}

func TestResolveSemester(t *testing.T) {
	now := date(2026, time.October)
	assert.Equal(t, "Fall 2026", resolveSemester("", now))
	assert.Equal(t, "Fall 2026", resolveSemester("Spring 2025", now))
	assert.Equal(t, "Fall 2026", resolveSemester("next semester", now))
	assert.Equal(t, "Spring 2027", resolveSemester("Spring 2027", now))
	assert.Equal(t, "Spring 2026", resolveSemester("Spring 2026", now))
}
