package export

import (
	"bytes"
	"fmt"

	"gsu-chatbot-be/pkg/schedule"

	"github.com/go-pdf/fpdf"
)

func renderPDF(s *schedule.GeneratedSchedule, h header) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(h.semester+" Course Schedule", true)
	pdf.SetCreator("GSU Panther Chatbot", true)
	pdf.SetMargins(18, 18, 18)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 10, "Generated: "+h.generated, "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Course Schedule", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 14)
	for _, line := range []string{
		"Semester: " + h.semester,
		"Major: " + h.major,
		"Total Credits: " + h.credits,
		"Workload: " + h.workload,
	} {
		pdf.CellFormat(0, 8, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "BU", 12)
	pdf.CellFormat(0, 8, "Courses:", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	for i, c := range s.Courses {
		line := fmt.Sprintf("%d. %s - %s (%s credits)", i+1, c.Code, c.Name, formatCredits(c.Credits))
		pdf.MultiCell(0, 6, tr(line), "", "L", false)
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
