package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/christopherklint97/semplan/internal/semester"
)

// WriteXLSX lays the document out as a timetable: one row per week, one
// column per weekday, every slot of a day in its cell.
func WriteXLSX(w io.Writer, doc Document, sheetName string) error {
	if sheetName == "" {
		sheetName = "Timetable"
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, colName(2), colName(2+len(weekdayColumns)-1), 28)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	shadedStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#F2F2F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	cellStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})

	lastCol := colName(2 + len(weekdayColumns) - 1)
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s %s (%s to %s)", doc.AcademicYear, doc.Semester, doc.Start, doc.End))
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	row := 2
	f.SetCellValue(sheetName, cell("A", row), "Week")
	f.SetCellValue(sheetName, cell("B", row), "Monday")
	for i, wd := range weekdayColumns {
		f.SetCellValue(sheetName, cell(colName(2+i), row), wd.String())
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(lastCol, row), headerStyle)

	for _, wk := range doc.Weeks {
		row++
		f.SetCellValue(sheetName, cell("A", row), wk.Label)
		f.SetCellValue(sheetName, cell("B", row), wk.Monday.String())

		byWeekday := make(map[string]Day, len(wk.Days))
		for _, d := range wk.Days {
			byWeekday[d.Weekday] = d
		}
		for i, wd := range weekdayColumns {
			d, ok := byWeekday[wd.String()]
			if !ok {
				continue
			}
			lines := make([]string, len(d.Slots))
			for j, s := range d.Slots {
				lines[j] = s.String()
			}
			f.SetCellValue(sheetName, cell(colName(2+i), row), strings.Join(lines, "\n"))
		}

		style := cellStyle
		if wk.Category != semester.Normal.String() {
			style = shadedStyle
		}
		f.SetCellStyle(sheetName, cell("A", row), cell(lastCol, row), style)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
