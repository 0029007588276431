// Package export renders generated schedules into downloadable documents.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gsu-chatbot-be/pkg/schedule"
)

var ErrUnknownFormat = errors.New("invalid format. Use: pdf, notion, markdown, csv, or html")

type Format string

const (
	FormatPDF      Format = "pdf"
	FormatNotion   Format = "notion"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatHTML     Format = "html"
)

// ParseFormat accepts a query value; empty means pdf.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatNotion, FormatMarkdown, FormatCSV, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Document is a rendered export ready to send as an attachment.
type Document struct {
	Content     []byte
	ContentType string
	Extension   string
}

// Filename is the attachment name for a session's export.
func (d *Document) Filename(sessionID string) string {
	return fmt.Sprintf("schedule-%s.%s", sessionID, d.Extension)
}

type Exporter struct {
	now func() time.Time
}

func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

// Export renders s in the requested format.
func (e *Exporter) Export(s *schedule.GeneratedSchedule, format Format) (*Document, error) {
	if s == nil {
		return nil, errors.New("no schedule to export")
	}
	h := e.header(s)

	switch format {
	case FormatPDF, "":
		content, err := renderPDF(s, h)
		if err != nil {
			return nil, fmt.Errorf("render pdf: %w", err)
		}
		return &Document{Content: content, ContentType: "application/pdf", Extension: "pdf"}, nil
	case FormatNotion, FormatMarkdown:
		return &Document{Content: []byte(renderMarkdown(s, h)), ContentType: "text/markdown", Extension: "md"}, nil
	case FormatCSV:
		content, err := renderCSV(s)
		if err != nil {
			return nil, fmt.Errorf("render csv: %w", err)
		}
		return &Document{Content: content, ContentType: "text/csv", Extension: "csv"}, nil
	case FormatHTML:
		content, err := renderHTML(s, h)
		if err != nil {
			return nil, fmt.Errorf("render html: %w", err)
		}
		return &Document{Content: content, ContentType: "text/html; charset=utf-8", Extension: "html"}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// header holds the display values shared by every format.
type header struct {
	semester  string
	major     string
	credits   string
	workload  string
	generated string
}

func (e *Exporter) header(s *schedule.GeneratedSchedule) header {
	now := e.now()
	h := header{
		semester:  s.Semester,
		major:     s.Major,
		credits:   formatCredits(s.TotalCredits),
		workload:  string(s.WorkloadPreference.Or(schedule.WorkloadMedium)),
		generated: s.GeneratedAt.UTC().Format(time.RFC3339),
	}
	if h.semester == "" {
		h.semester = schedule.CurrentSemester(now)
	}
	if h.major == "" {
		h.major = "N/A"
	}
	if s.GeneratedAt.IsZero() {
		h.generated = now.UTC().Format(time.RFC3339)
	}
	return h
}

func formatCredits(c float64) string {
	return fmt.Sprintf("%g", c)
}
