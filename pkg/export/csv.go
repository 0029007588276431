package export

import (
	"bytes"
	"encoding/csv"

	"gsu-chatbot-be/pkg/schedule"
)

var csvHeader = []string{"Course Code", "Course Name", "Credits", "Section", "Days", "Time", "Professor", "Location"}

// renderCSV writes one row per course. Section details are not known at
// generation time and read TBA.
func renderCSV(s *schedule.GeneratedSchedule) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, c := range s.Courses {
		row := []string{c.Code, c.Name, formatCredits(c.Credits), "1", "TBA", "TBA", "TBA", "TBA"}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
