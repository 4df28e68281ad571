package exporter

import (
	"html/template"
	"io"
	"strings"
)

var examPage = template.Must(template.New("exams").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`<!DOCTYPE html>
<html dir="rtl" lang="fa">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>برنامه امتحانات</title>
<style>
body { font-family: 'Vazir', 'Tahoma', sans-serif; direction: rtl; text-align: right; margin: 0; padding: 20px; }
.container { max-width: 1200px; margin: 0 auto; }
h1 { color: #9C27B0; text-align: center; }
.summary { background: #E1BEE7; padding: 16px; border-radius: 8px; text-align: center; margin-bottom: 24px; }
table { width: 100%; border-collapse: collapse; }
thead { background: #9C27B0; }
th, td { padding: 10px 14px; border: 1px solid #dcdcdc; }
tr:nth-child(odd) { background: #f9f9f9; }
.multi { white-space: pre-line; }
.numeric { text-align: center; }
.legend { color: #7f8c8d; font-size: 14px; margin-top: 24px; }
</style>
</head>
<body>
<div class="container">
<h1>برنامه امتحانات</h1>
<div class="summary">
دروس: {{.Stats.Courses}} | واحدها: {{.Stats.Credits}} | جلسات: {{.Stats.Sessions}} | روزهای حضور: {{.Stats.Days}}{{if .Days}} ({{join .Days "، "}}){{end}} | اساتید: {{len .Stats.Instructors}}
<br>تاریخ تولید: {{.Generated.Format "2006/01/02 - 15:04"}}
</div>
<table>
<thead><tr><th>نام درس</th><th>کد درس</th><th>استاد</th><th>زمان کلاس</th><th>زمان امتحان</th><th>واحد</th><th>محل برگزاری</th></tr></thead>
<tbody>
{{- range .Rows}}
<tr><td>{{.Name}}</td><td>{{.Code}}</td><td>{{.Instructor}}</td><td class="multi">{{.ClassTimes "\n"}}</td><td>{{.Exam}}</td><td class="numeric">{{.Credits}}</td><td>{{.Location}}</td></tr>
{{- end}}
</tbody>
</table>
<div class="legend">ز: زوج، ف: فرد</div>
</div>
</body>
</html>
`))

// WriteExamHTML writes a standalone right-to-left HTML page.
func WriteExamHTML(rep ExamReport, w io.Writer) error {
	return examPage.Execute(w, rep)
}
