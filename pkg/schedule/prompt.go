package schedule

import (
	"encoding/json"
	"fmt"
	"strings"

	"gsu-chatbot-be/pkg/retrieval"
)

const generatorSystemPrompt = "You are an expert academic advisor. Generate optimal course schedules that meet degree requirements and student preferences. CRITICAL RULES: 1) NEVER recommend courses the student has already completed - always check the completed courses list and exclude those courses. 2) Only use real, verified data from the provided context. 3) Never invent or make up professor names, locations, times, or building names. 4) If information is not available, use \"TBA\" (To Be Announced). Return only valid JSON."

const (
	noRequirements       = "No specific requirements found."
	noCourseInfo         = "No course information available."
	allCoursesCompleted  = "No additional courses available (all major courses completed)."
	noCompletedCourses   = "None (student is new or transcript not provided)"
	maxListedCompletions = 20
)

var yearLevelDescriptions = map[YearLevel]string{
	YearFreshman:  "first-year student (typically taking introductory courses like CSC 1301, MATH 1111, ENGL 1101)",
	YearSophomore: "second-year student (typically taking lower-division major courses like CSC 2720, MATH 2212)",
	YearJunior:    "third-year student (typically taking upper-division major courses like CSC 3210, CSC 4350)",
	YearSenior:    "fourth-year student (typically taking advanced/capstone courses like CSC 4990, senior electives)",
}

var yearLevelFocus = map[YearLevel]string{
	YearFreshman:  "Focus on introductory courses (1000-2000 level) like CSC 1301, MATH 1111, ENGL 1101.",
	YearSophomore: "Focus on lower-division major courses (2000-3000 level) like CSC 2720, MATH 2212, CSC 2302.",
	YearJunior:    "Focus on upper-division major courses (3000-4000 level) like CSC 3210, CSC 4350, CSC 4330.",
	YearSenior:    "Focus on advanced/capstone courses (4000+ level) like CSC 4990, senior electives, and advanced topics courses.",
}

// codeVariants lists each completed code uppercase, plus its spaceless form.
func codeVariants(completed []CompletedCourse) []string {
	var out []string
	for _, c := range completed {
		code := strings.ToUpper(strings.TrimSpace(c.Code))
		if code == "" {
			continue
		}
		out = append(out, code)
		if ns := CodeKey(code); ns != code {
			out = append(out, ns)
		}
	}
	return out
}

// availableCoursesText joins the major's course lines, dropping lines that
// mention a completed course.
func availableCoursesText(mc *retrieval.MajorContext, variants []string) string {
	if mc == nil || len(mc.AvailableCourses) == 0 {
		return noCourseInfo
	}
	joined := strings.Join(mc.AvailableCourses, "\n")
	if len(variants) == 0 {
		return joined
	}

	var kept []string
	for _, line := range strings.Split(joined, "\n") {
		upper := strings.ToUpper(line)
		mentions := false
		for _, v := range variants {
			if strings.Contains(upper, v) {
				mentions = true
				break
			}
		}
		if !mentions {
			kept = append(kept, line)
		}
	}
	if len(kept) == 0 {
		return allCoursesCompleted
	}
	return strings.Join(kept, "\n")
}

func requirementsText(mc *retrieval.MajorContext) string {
	if mc == nil || len(mc.Requirements) == 0 {
		return noRequirements
	}
	return strings.Join(mc.Requirements, "\n")
}

func prerequisitesJSON(mc *retrieval.MajorContext) string {
	prereqs := map[string][]string{}
	if mc != nil && mc.Prerequisites != nil {
		prereqs = mc.Prerequisites
	}
	b, err := json.Marshal(prereqs)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func formatCredits(c float64) string {
	return fmt.Sprintf("%g", c)
}

func completedList(completed []CompletedCourse) string {
	if len(completed) == 0 {
		return noCompletedCourses
	}
	lines := make([]string, 0, len(completed))
	for _, c := range completed {
		semester := c.Semester
		if semester == "" {
			semester = "N/A"
		}
		lines = append(lines, fmt.Sprintf("%s: %s (%s, %s credits, %s)", c.Code, c.Name, c.Grade, formatCredits(c.Credits), semester))
	}
	return strings.Join(lines, "\n")
}

func requestedSection(requested []RequestedCourse) string {
	if len(requested) == 0 {
		return ""
	}
	lines := make([]string, 0, len(requested))
	for _, c := range requested {
		switch {
		case c.Code != "":
			name := c.Name
			if name == "" {
				name = "Unknown"
			}
			lines = append(lines, c.Code+": "+name)
		case c.Name != "":
			lines = append(lines, c.Name)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n\n**IMPORTANT - USER REQUESTED COURSES:**\n" +
		"The user specifically mentioned wanting to take these courses. Please prioritize including as many of these as possible in the schedule:\n" +
		strings.Join(lines, "\n") +
		"\n\nIf these courses are available and fit the credit requirements, include them in the schedule."
}

// buildPrompt renders the generation prompt for req against the resolved
// completed courses and target semester.
func buildPrompt(req Request, completed []CompletedCourse, semester string) string {
	workload := req.WorkloadPreference.Or(WorkloadMedium)
	band := BandFor(workload)
	variants := codeVariants(completed)
	hasCompleted := len(completed) > 0

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a course schedule for a %s workload (%d-%d credits) for a %s major.%s\n\n",
		workload, band.Min, band.Max, req.Transcript.Major, requestedSection(req.RequestedCourses))

	b.WriteString("Student Information:\n")
	if req.YearLevel != "" {
		desc, ok := yearLevelDescriptions[req.YearLevel]
		if !ok {
			desc = string(req.YearLevel)
		}
		fmt.Fprintf(&b, "- Year Level: %s (%s)\n", req.YearLevel, desc)
	}
	switch {
	case hasCompleted:
		fmt.Fprintf(&b, "IMPORTANT - Already Completed Courses (DO NOT RECOMMEND THESE):\n%s\n\n", completedList(completed))
		fmt.Fprintf(&b, "CRITICAL: Do NOT include any of these courses in the schedule. The student has already taken them:\n%s\n\n", strings.Join(variants, ", "))
	case req.YearLevel != "":
		b.WriteString("The student has not provided a transcript. Based on their year level, recommend appropriate courses for their academic standing.\n")
	default:
		b.WriteString("The student has not provided a transcript, so assume they are starting fresh or early in their program.\n")
	}

	fmt.Fprintf(&b, "\nMajor Requirements:\n%s\n\n", requirementsText(req.MajorContext))
	fmt.Fprintf(&b, "Available Courses:\n%s\n\n", availableCoursesText(req.MajorContext, variants))
	fmt.Fprintf(&b, "Prerequisites:\n%s\n\n", prerequisitesJSON(req.MajorContext))

	b.WriteString("Generate a schedule that:\n1. ")
	if hasCompleted {
		listed := variants
		more := ""
		if len(listed) > maxListedCompletions {
			listed = listed[:maxListedCompletions]
			more = " (and more)"
		}
		fmt.Fprintf(&b, "CRITICAL: ONLY includes courses that are NOT in the completed courses list. The student has ALREADY TAKEN these courses: %s%s. DO NOT recommend any of these courses.", strings.Join(listed, ", "), more)
	}
	switch {
	case req.YearLevel != "":
		even := ""
		if hasCompleted {
			even = "Even though they have completed some courses, "
		}
		fmt.Fprintf(&b, "CRITICAL: The student is a %s. %sRecommend courses appropriate for their year level. %s", req.YearLevel, even, yearLevelFocus[req.YearLevel])
	case !hasCompleted:
		b.WriteString("Includes courses needed for the major")
	}
	b.WriteString("\n2. Respects prerequisites (don't suggest courses where prerequisites aren't met)\n")
	fmt.Fprintf(&b, "3. Fits within %d-%d credits\n", band.Min, band.Max)
	b.WriteString("4. Only includes course codes, names, and credits (no sections, times, professors, or locations)\n5. ")
	if hasCompleted {
		b.WriteString("DO NOT duplicate any courses the student has already completed. Check course codes carefully - if a course code matches any in the completed list (even with different spacing), DO NOT include it.")
	} else {
		b.WriteString("Start with foundational courses if this appears to be a new student")
	}
	b.WriteString("\n6. When selecting courses from the available courses list, cross-reference with the completed courses list to ensure no duplicates\n\n")

	fmt.Fprintf(&b, `Format as JSON with this structure:
{
  "semester": "%s",
  "totalCredits": <number>,
  "courses": [
    {
      "code": "CSC 1301",
      "name": "Introduction to Computer Science",
      "credits": 3,
      "prerequisites": ["MATH 1111"],
      "prerequisitesMet": true
    }
  ]
}

IMPORTANT:
- Use the semester "%s" for the semester field
- Do NOT include sections, days, times, professors, or locations in the response
- Only include course code, name, and credits`, semester, semester)

	return b.String()
}
