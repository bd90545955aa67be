package fleet

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/ninerlytics/transit-dashboard/internal/models"
)

// ExportTitle 导出内容首行
const ExportTitle = "Transit Ninerlytics Export"

// ExportColumns 导出表格列名
var ExportColumns = []string{
	"Bus Code",
	"NumTimesStopped",
	"TotalPeopleOn",
	"TotalPeopleOff",
	"MilesDriven",
	"AvgMilesPerDay",
}

// ExportInput 导出输入
type ExportInput struct {
	Filter  models.DataFilter
	NumDays int
	Routes  []models.Route
	Buses   []models.Bus
	Rows    []Row // 当前表格顺序
}

// Export 生成制表符分隔的导出文本
func Export(in ExportInput) string {
	var sb strings.Builder
	for _, line := range headerLines(in) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')

	sb.WriteString(strings.Join(ExportColumns, "\t"))
	sb.WriteByte('\n')

	for _, row := range exportOrder(in.Rows) {
		sb.WriteString(strings.Join(exportValues(row), "\t"))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// headerLines 筛选条件摘要（不含空行）
func headerLines(in ExportInput) []string {
	f := in.Filter
	return []string{
		ExportTitle,
		fmt.Sprintf("Dates: %s - %s (%d days)", f.MinDate.Format(models.DateLayout), f.MaxDate.Format(models.DateLayout), in.NumDays),
		fmt.Sprintf("Times: %s - %s", f.MinTime, f.MaxTime),
		"Routes: " + strings.Join(routeNames(in.Routes, &f), ","),
		"Buses: " + strings.Join(busCodes(in.Buses, &f), ","),
	}
}

// routeNames 筛选内线路名称，按字符串排序
func routeNames(routes []models.Route, f *models.DataFilter) []string {
	names := []string{}
	for _, r := range routes {
		if f.IncludesRoute(r.ID) {
			names = append(names, r.Name)
		}
	}
	sortUTF16(names)
	return names
}

// busCodes 筛选内车辆编号，按字符串（而非整数）排序
func busCodes(buses []models.Bus, f *models.DataFilter) []string {
	codes := []string{}
	for _, b := range buses {
		if f.IncludesBus(b.ID) {
			codes = append(codes, b.Code)
		}
	}
	sortUTF16(codes)
	return codes
}

// sortUTF16 按 UTF-16 码元排序，与浏览器默认字符串排序一致
func sortUTF16(ss []string) {
	sort.SliceStable(ss, func(i, j int) bool {
		return lessUTF16(ss[i], ss[j])
	})
}

func lessUTF16(a, b string) bool {
	ua, ub := utf16.Encode([]rune(a)), utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}

// exportOrder 按车辆编号整数值升序，与表格当前排序无关
func exportOrder(rows []Row) []Row {
	ordered := make([]Row, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ParseCode(ordered[i].Bus.Code)-ParseCode(ordered[j].Bus.Code) < 0
	})
	return ordered
}

// exportValues 单行字段，无数据时数值字段为空
func exportValues(row Row) []string {
	values := []string{row.Bus.Code}
	data := row.Data
	if data == nil {
		return append(values, "", "", "", "", "")
	}
	return append(values,
		FormatNumber(float64(data.NumTimesStopped)),
		FormatNumber(float64(data.TotalPeopleOn)),
		FormatNumber(float64(data.TotalPeopleOff)),
		FormatNumber(float64(data.MilesDriven)),
		FormatNumber(float64(data.AvgMilesPerDay)),
	)
}
