package fleet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WorkbookSheet 导出工作表名称
const WorkbookSheet = "Export"

// ExportWorkbook 生成与文本导出内容相同的 Excel 文件
func ExportWorkbook(in ExportInput) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", WorkbookSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	rowNum := 1
	for _, line := range headerLines(in) {
		if err := f.SetCellValue(WorkbookSheet, fmt.Sprintf("A%d", rowNum), line); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		rowNum++
	}
	rowNum++ // 空行

	header := make([]interface{}, len(ExportColumns))
	for i, col := range ExportColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(WorkbookSheet, fmt.Sprintf("A%d", rowNum), &header); err != nil {
		return nil, fmt.Errorf("write columns: %w", err)
	}
	rowNum++

	for _, row := range exportOrder(in.Rows) {
		values := workbookValues(row)
		if err := f.SetSheetRow(WorkbookSheet, fmt.Sprintf("A%d", rowNum), &values); err != nil {
			return nil, fmt.Errorf("write row for bus %s: %w", row.Bus.Code, err)
		}
		rowNum++
	}

	if err := f.SetColWidth(WorkbookSheet, "A", "A", 12); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(WorkbookSheet, "B", "F", 18); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &buf, nil
}

// workbookValues 数值写为数字单元格，非有限值写为文本
func workbookValues(row Row) []interface{} {
	values := []interface{}{row.Bus.Code}
	data := row.Data
	if data == nil {
		return append(values, nil, nil, nil, nil, nil)
	}
	return append(values,
		data.NumTimesStopped,
		data.TotalPeopleOn,
		data.TotalPeopleOff,
		numberCell(data.MilesDriven),
		numberCell(data.AvgMilesPerDay),
	)
}

func numberCell(n Number) interface{} {
	if n.IsFinite() {
		return n.Float()
	}
	return FormatNumber(n.Float())
}
