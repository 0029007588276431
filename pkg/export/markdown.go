package export

import (
	"bytes"
	"fmt"
	"strings"

	"gsu-chatbot-be/pkg/schedule"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// renderMarkdown produces the Notion-friendly template: a title, summary
// lines and a pipe table of courses.
func renderMarkdown(s *schedule.GeneratedSchedule, h header) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s Course Schedule\n\n", h.semester)
	fmt.Fprintf(&b, "**Major:** %s\n", h.major)
	fmt.Fprintf(&b, "**Total Credits:** %s\n", h.credits)
	fmt.Fprintf(&b, "**Workload:** %s\n\n", h.workload)
	b.WriteString("---\n\n")

	b.WriteString("| Course Code | Course Name | Credits |\n")
	b.WriteString("|-------------|-------------|---------|\n")
	for _, c := range s.Courses {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(c.Code), cell(c.Name), formatCredits(c.Credits))
	}

	b.WriteString("\n---\n\n")
	fmt.Fprintf(&b, "*Generated: %s*\n", h.generated)
	return b.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

var htmlRenderer = goldmark.New(goldmark.WithExtensions(extension.Table))

const htmlHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s Course Schedule</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 2rem auto; max-width: 48rem; color: #1a1a1a; }
table { border-collapse: collapse; width: 100%%; }
th, td { border: 1px solid #c8c8c8; padding: .4rem .6rem; text-align: left; }
th { background: #0039a6; color: #fff; }
</style>
</head>
<body>
`

// renderHTML converts the markdown template into a standalone page.
func renderHTML(s *schedule.GeneratedSchedule, h header) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, htmlHead, h.semester)
	if err := htmlRenderer.Convert([]byte(renderMarkdown(s, h)), &buf); err != nil {
		return nil, err
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}
