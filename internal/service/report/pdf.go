package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/report"
	"github.com/go-pdf/fpdf"
)

const (
	displayDate = "02/01/2006"
	displayTime = "15:04"
	font        = "Helvetica"
)

var (
	baseHeaders = []string{"Date", "E1", "S1", "E2", "S2", "E3", "S3", "Hours"}
	baseWidths  = []float64{26, 16, 16, 16, 16, 16, 16, 18}
)

// RenderPDF writes a portrait A4 attendance report.
func RenderPDF(w io.Writer, data report.Data) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	strict := data.Mode == attendance.ModeStrict

	pdf.SetTitle("Attendance report", true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(font, "", 8)
		pdf.CellFormat(0, 6, "Generated: "+data.GeneratedAt.Format("02/01/2006 15:04:05"), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(font, "B", 16)
	pdf.CellFormat(0, 8, "ATTENDANCE REPORT", "", 1, "C", false, 0, "")
	pdf.SetFont(font, "", 12)
	pdf.CellFormat(0, 7, "Mode: "+strings.ToUpper(string(data.Mode)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(font, "", 10)
	pdf.CellFormat(0, 6, tr("Employee: "+data.Employee.FullName()), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("ID: "+data.Employee.ExternalID), "", 1, "L", false, 0, "")
	if data.Employee.Department != nil {
		pdf.CellFormat(0, 6, tr("Department: "+*data.Employee.Department), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s - %s",
		data.StartDate.Format(displayDate), data.EndDate.Format(displayDate)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	headers := baseHeaders
	widths := baseWidths
	if strict {
		headers = append(append([]string{}, baseHeaders...), "Observations")
		widths = append(append([]float64{}, baseWidths...), 50)
	}

	pdf.SetFont(font, "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(font, "", 8)
	for _, row := range data.Rows {
		cells := make([]string, 0, len(headers))
		cells = append(cells, row.Date.Format(displayDate))
		for _, slot := range row.Slots {
			cells = append(cells, clock(slot[0]), clock(slot[1]))
		}
		cells = append(cells, fmt.Sprintf("%.2f", row.Hours))
		if strict {
			cells = append(cells, tr(truncate(row.Observation, 40)))
		}

		for i, c := range cells {
			align := "C"
			switch {
			case i == 7:
				align = "R"
			case i == 8:
				align = "L"
			}
			pdf.CellFormat(widths[i], 5, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont(font, "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("TOTAL DAYS WORKED: %d", data.DaysWorked), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("TOTAL HOURS: %.2f", data.TotalHours), "", 1, "L", false, 0, "")

	return pdf.Output(w)
}

func clock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(displayTime)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
