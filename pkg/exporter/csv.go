package exporter

import (
	"encoding/csv"
	"io"
	"strconv"
)

var examHeader = []string{"نام درس", "کد درس", "استاد", "زمان کلاس", "زمان امتحان", "واحد", "محل برگزاری"}

// WriteExamCSV writes the exam rows as CSV with a UTF-8 byte order mark so
// spreadsheet programs detect the encoding.
func WriteExamCSV(rep ExamReport, w io.Writer) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(examHeader); err != nil {
		return err
	}
	for _, r := range rep.Rows {
		record := []string{r.Name, r.Code, r.Instructor, r.ClassTimes("\n"), r.Exam, strconv.Itoa(r.Credits), r.Location}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
