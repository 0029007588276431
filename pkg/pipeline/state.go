package pipeline

import (
	"encoding/json"
	"time"

	"gsu-chatbot-be/pkg/schedule"
)

type State string

const (
	StateIdle                 State = "idle"
	StateCollectingMajor      State = "collecting_major"
	StateCollectingWorkload   State = "collecting_workload"
	StateCollectingYearLevel  State = "collecting_year_level"
	StateCollectingTranscript State = "collecting_transcript"
	StateProcessing           State = "processing"
	StateGeneratingSchedule   State = "generating_schedule"
	StateOfferingExport       State = "offering_export"
	StateCompleted            State = "completed"
)

var knownStates = map[State]struct{}{
	StateIdle: {}, StateCollectingMajor: {}, StateCollectingWorkload: {},
	StateCollectingYearLevel: {}, StateCollectingTranscript: {}, StateProcessing: {},
	StateGeneratingSchedule: {}, StateOfferingExport: {}, StateCompleted: {},
}

// ParseState validates a state name.
func ParseState(s string) (State, bool) {
	st := State(s)
	_, ok := knownStates[st]
	return st, ok
}

// IsActive reports whether the session is inside the pipeline.
func (s State) IsActive() bool {
	return s != "" && s != StateIdle && s != StateCompleted
}

// Data is everything the pipeline has collected for a session.
type Data struct {
	Major                    string                      `json:"major,omitempty"`
	WorkloadPreference       schedule.Workload           `json:"workloadPreference,omitempty"`
	CreditRange              string                      `json:"creditRange,omitempty"`
	YearLevel                schedule.YearLevel          `json:"yearLevel,omitempty"`
	RequestedCourses         []schedule.RequestedCourse  `json:"requestedCourses,omitempty"`
	TranscriptID             string                      `json:"transcriptId,omitempty"`
	TranscriptText           string                      `json:"transcriptText,omitempty"`
	TranscriptStructuredData *schedule.ParsedTranscript  `json:"transcriptStructuredData,omitempty"`
	TranscriptFileName       string                      `json:"transcriptFileName,omitempty"`
	TranscriptFileURL        string                      `json:"transcriptFileUrl,omitempty"`
	TranscriptSkipped        bool                        `json:"transcriptSkipped,omitempty"`
	Schedule                 *schedule.GeneratedSchedule `json:"schedule,omitempty"`
	Validation               *schedule.Validation        `json:"validation,omitempty"`
	ScheduleError            string                      `json:"scheduleError,omitempty"`
}

// Merge returns d with every field set in patch overriding. A new schedule
// clears any previous schedule error.
func (d Data) Merge(patch Data) Data {
	out := d
	if patch.Major != "" {
		out.Major = patch.Major
	}
	if patch.WorkloadPreference != "" {
		out.WorkloadPreference = patch.WorkloadPreference
	}
	if patch.CreditRange != "" {
		out.CreditRange = patch.CreditRange
	}
	if patch.YearLevel != "" {
		out.YearLevel = patch.YearLevel
	}
	if patch.RequestedCourses != nil {
		out.RequestedCourses = patch.RequestedCourses
	}
	if patch.TranscriptID != "" {
		out.TranscriptID = patch.TranscriptID
	}
	if patch.TranscriptText != "" {
		out.TranscriptText = patch.TranscriptText
	}
	if patch.TranscriptStructuredData != nil {
		out.TranscriptStructuredData = patch.TranscriptStructuredData
	}
	if patch.TranscriptFileName != "" {
		out.TranscriptFileName = patch.TranscriptFileName
	}
	if patch.TranscriptFileURL != "" {
		out.TranscriptFileURL = patch.TranscriptFileURL
	}
	if patch.TranscriptSkipped {
		out.TranscriptSkipped = true
	}
	if patch.Validation != nil {
		out.Validation = patch.Validation
	}
	if patch.Schedule != nil {
		out.Schedule = patch.Schedule
		out.ScheduleError = ""
	}
	if patch.ScheduleError != "" {
		out.ScheduleError = patch.ScheduleError
	}
	return out
}

// PipelineState is the persisted record for one session.
type PipelineState struct {
	SessionID string    `json:"sessionId"`
	State     State     `json:"state"`
	Data      Data      `json:"data"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func idleState(sessionID string) *PipelineState {
	return &PipelineState{SessionID: sessionID, State: StateIdle}
}

// Clone returns a deep copy so cached values are never shared with callers.
func (p *PipelineState) Clone() *PipelineState {
	if p == nil {
		return nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		cp := *p
		return &cp
	}
	var out PipelineState
	if err := json.Unmarshal(b, &out); err != nil {
		cp := *p
		return &cp
	}
	return &out
}
