package exporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

var parityLegend = []string{
	"ز: دروس هفته\u200cهای زوج",
	"ف: دروس هفته\u200cهای فرد",
	"بدون علامت: همه هفته\u200cها",
}

// WriteExamTXT writes a plain text summary, the exam table and the parity legend.
func WriteExamTXT(rep ExamReport, w io.Writer) error {
	var b strings.Builder
	b.WriteString("برنامه امتحانات\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "تاریخ تولید: %s\n\n", rep.Generated.Format("2006/01/02 - 15:04"))
	fmt.Fprintf(&b, "تعداد دروس: %d\n", rep.Stats.Courses)
	fmt.Fprintf(&b, "مجموع واحدها: %d\n", rep.Stats.Credits)
	fmt.Fprintf(&b, "تعداد جلسات: %d\n", rep.Stats.Sessions)
	fmt.Fprintf(&b, "روزهای حضور: %d", rep.Stats.Days)
	if len(rep.Days) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(rep.Days, "، "))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "تعداد اساتید: %d\n\n", len(rep.Stats.Instructors))
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(examHeader)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetRowLine(true)
	for _, r := range rep.Rows {
		table.Append([]string{r.Name, r.Code, r.Instructor, r.ClassTimes("\n"), r.Exam, strconv.Itoa(r.Credits), r.Location})
	}
	table.Render()

	_, err := io.WriteString(w, "\n"+strings.Join(parityLegend, "\n")+"\n")
	return err
}
