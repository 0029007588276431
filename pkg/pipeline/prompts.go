package pipeline

import (
	"fmt"
	"strings"

	"gsu-chatbot-be/pkg/llm"
	"gsu-chatbot-be/pkg/schedule"
)

const (
	MajorQuestion      = "Great! I'd be happy to help you plan your schedule. First, what's your major?"
	YearLevelQuestion  = "Great! What year are you in school? Are you a **Freshman**, **Sophomore**, **Junior**, or **Senior**?"
	YearLevelReprompt  = "I didn't catch that. Could you please tell me what year you are? Are you a **Freshman**, **Sophomore**, **Junior**, or **Senior**?"
	TranscriptQuestion = "Excellent! To create the best schedule for you, I can use your transcript to see what courses you've already completed. You can upload it using the file upload button, or type 'skip' if you don't have one available."
	TranscriptReprompt = "Please use the file upload button to upload your transcript, or type 'skip' if you don't have one. Once uploaded, I'll process it and generate your schedule."
	ProcessingMessage  = "I'm still processing your transcript and generating your schedule. This may take a moment. Please wait..."
	ExitMessage        = "No problem! I've exited the schedule planning mode. How else can I help you?"
	ModifyMessage      = "I can help you modify your schedule! What would you like to change? For example:\n- Replace a course\n- Change workload preference\n- Adjust times\n- Add or remove courses\n\nJust let me know what you'd like to modify!"
	GenerationFailed   = "I encountered an issue generating your schedule. Please try again or upload your transcript for more accurate recommendations."
	QuotaMessage       = "I apologize, but the OpenAI API quota has been exceeded. Please check your billing and usage limits at " + llm.BillingURL + ". You may need to add credits to your account or upgrade your plan."
)

const workloadMenu = "Now, what kind of workload are you looking for? You can choose:\n\n" +
	"• **Light** (12-13 credits) - Minimum for full-time students\n" +
	"• **Medium** (14-15 credits) - Balanced course load\n" +
	"• **Heavy** (16-18 credits) - Maximum course load\n\n" +
	"Which would you prefer?"

// Question returns the canned prompt asked on entering state.
func Question(state State) string {
	switch state {
	case StateCollectingMajor:
		return MajorQuestion
	case StateCollectingWorkload:
		return "Perfect! " + workloadMenu
	case StateCollectingYearLevel:
		return YearLevelQuestion
	case StateCollectingTranscript:
		return TranscriptQuestion
	case StateProcessing:
		return "I'm processing your transcript and gathering information about your major requirements. This may take a moment..."
	case StateGeneratingSchedule:
		return "I'm generating your personalized schedule based on your transcript and major requirements..."
	case StateOfferingExport:
		return "Your schedule is ready! Would you like to download it as a PDF or get a Notion template you can copy and paste?"
	default:
		return "How can I help you with your schedule planning?"
	}
}

func workloadQuestion(major string) string {
	return fmt.Sprintf("Perfect! I see you're a %s major. %s", major, workloadMenu)
}

func exportMessage(format string) string {
	return fmt.Sprintf("I'll prepare your schedule in %s format. You can download it using the export buttons below.", strings.ToUpper(format))
}

func failureMessage(err error) string {
	if llm.IsQuotaExceeded(err) {
		return QuotaMessage
	}
	return GenerationFailed
}

// UploadFailureMessage is the reply when a transcript arrived but generation failed.
func UploadFailureMessage(fileName string, err error) string {
	if llm.IsQuotaExceeded(err) {
		return QuotaMessage
	}
	return fmt.Sprintf("I've received your transcript \"%s\", but I encountered an issue generating your schedule. The error was: %s. \n\n"+
		"Would you like to try uploading your transcript again, or would you prefer to continue with schedule planning in a different way?", fileName, err.Error())
}

func bulletSection(title string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(items))
	for _, i := range items {
		lines = append(lines, "• "+i)
	}
	return "\n" + title + "\n" + strings.Join(lines, "\n") + "\n"
}

func semesterOr(s *schedule.GeneratedSchedule) string {
	if s.Semester == "" {
		return "next semester"
	}
	return s.Semester
}

// SummaryMessage describes a freshly generated schedule. fromTranscript
// selects the wording used after an upload.
func SummaryMessage(s *schedule.GeneratedSchedule, v schedule.Validation, workload schedule.Workload, fromTranscript bool) string {
	var b strings.Builder
	if fromTranscript {
		fmt.Fprintf(&b, "Great! I've processed your transcript and generated your schedule for %s.\n\n", semesterOr(s))
	} else {
		fmt.Fprintf(&b, "Perfect! I've generated a schedule for %s based on your major and workload preference.\n\n", semesterOr(s))
	}
	fmt.Fprintf(&b, "**Your Schedule Summary:**\n• Total Credits: %g\n• Number of Courses: %d\n• Workload: %s\n\n",
		s.TotalCredits, len(s.Courses), workload.Or(schedule.WorkloadMedium))
	b.WriteString(bulletSection("⚠️ **Issues Found:**", v.Issues))
	b.WriteString("\n")
	b.WriteString(bulletSection("💡 **Notes:**", v.Warnings))
	b.WriteString("\nYou can:\n• Ask me questions about your schedule\n")
	if fromTranscript {
		b.WriteString("• Request modifications (change courses, times, workload, etc.)\n")
	} else {
		b.WriteString("• Request modifications\n")
	}
	b.WriteString("• Download your schedule as a **PDF** or **Notion template**\n\nWhat would you like to do?")
	return b.String()
}

// ScheduleContext is the system message injected into ordinary chat while a
// schedule is on offer.
func ScheduleContext(s *schedule.GeneratedSchedule, workload schedule.Workload) string {
	courses := make([]string, 0, len(s.Courses))
	for _, c := range s.Courses {
		courses = append(courses, c.Code+": "+c.Name)
	}
	list := strings.Join(courses, ", ")
	if list == "" {
		list = "None"
	}
	return fmt.Sprintf("The user has a generated schedule for %s:\n- Total Credits: %g\n- Courses: %s\n- Workload: %s\n\n"+
		"The user can ask questions about the schedule, request modifications, or ask to download it as PDF or Notion template.",
		semesterOr(s), s.TotalCredits, list, workload.Or(schedule.WorkloadMedium))
}
