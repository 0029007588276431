package pipeline

import (
	"testing"

	"gsu-chatbot-be/pkg/schedule"

	"github.com/stretchr/testify/assert"
)

func TestDetectTrigger(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"Can you help me plan my next semester?", true},
		{"I need a class schedule", true},
		{"GENERATE SCHEDULE", true},
		{"What are the library hours?", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectTrigger(tt.message))
		})
	}
}

func TestCanExit(t *testing.T) {
	assert.True(t, CanExit("  Cancel  "))
	assert.True(t, CanExit("nevermind"))
	assert.True(t, CanExit("go back"))
	assert.False(t, CanExit("Biology"))
}

func TestParseWorkloadPreference(t *testing.T) {
	tests := []struct {
		message string
		want    schedule.Workload
	}{
		{"I want a light load", schedule.WorkloadLight},
		{"give me the max, like 18 credits", schedule.WorkloadHeavy},
		{"something moderate", schedule.WorkloadMedium},
		{"15 credits", schedule.WorkloadMedium},
		{"whatever works", ""},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseWorkloadPreference(tt.message))
		})
	}
}

func TestParseYearLevel(t *testing.T) {
	tests := []struct {
		message string
		want    schedule.YearLevel
	}{
		{"I'm a 2nd year", schedule.YearSophomore},
		{"Freshman here", schedule.YearFreshman},
		{"third-year student", schedule.YearJunior},
		{"SENIOR", schedule.YearSenior},
		{"I don't know", ""},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseYearLevel(tt.message))
		})
	}
}

func TestExportIntent(t *testing.T) {
	assert.True(t, WantsExport("can I download it"))
	assert.False(t, WantsExport("what is CS 1301"))

	assert.Equal(t, "notion", ExportFormat("send a Notion template"))
	assert.Equal(t, "csv", ExportFormat("export csv"))
	assert.Equal(t, "pdf", ExportFormat("download it"))

	assert.True(t, WantsModify("replace the chemistry class"))
	assert.True(t, WantsToSkip("skip"))
	assert.True(t, WantsToSkip("I don't have one"))
	assert.False(t, WantsToSkip("here it is"))
}
