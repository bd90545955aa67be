package fleet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ninerlytics/transit-dashboard/internal/models"
)

func exportFixture(t *testing.T) ExportInput {
	t.Helper()

	f := filter("2024-03-01", "2024-03-02")
	f.MinTime, _ = models.ParseClockTime("06:30:00")
	f.MaxTime, _ = models.ParseClockTime("22:00:00")
	f.Routes = []int64{1, 2}
	f.Buses = []int64{1, 2, 3}

	buses := []models.Bus{bus(1, "10"), bus(2, "2"), bus(3, "1"), bus(4, "30")}
	table := Build(Input{
		Buses:     buses,
		Stats:     []models.BusStatistics{stats(1, 5, 20, 18, 40), stats(2, 9, 31, 30, 1000)},
		Intervals: models.DefaultIntervals(),
		Filter:    f,
		Sort:      SortState{SortMiles, false},
	})
	require.Equal(t, []string{"2", "10", "30", "1"}, codes(table.Rows))

	return ExportInput{
		Filter:  *f,
		NumDays: *table.NumDays,
		Routes:  []models.Route{{ID: 1, Name: "Green"}, {ID: 2, Name: "Gold"}, {ID: 3, Name: "Red"}},
		Buses:   buses,
		Rows:    table.Rows,
	}
}

func TestExport(t *testing.T) {
	got := Export(exportFixture(t))

	want := strings.Join([]string{
		"Transit Ninerlytics Export",
		"Dates: 2024-03-01 - 2024-03-02 (2 days)",
		"Times: 06:30:00 - 22:00:00",
		"Routes: Gold,Green",
		"Buses: 1,10,2",
		"",
		"Bus Code\tNumTimesStopped\tTotalPeopleOn\tTotalPeopleOff\tMilesDriven\tAvgMilesPerDay",
		"1\t\t\t\t\t",
		"2\t9\t31\t30\t621.371\t310.6855",
		"10\t5\t20\t18\t24.85484\t12.42742",
		"30\t\t\t\t\t",
	}, "\n") + "\n"

	assert.Equal(t, want, got)
}

func TestExport_OrderIndependentOfDisplay(t *testing.T) {
	in := exportFixture(t)
	first := Export(in)

	in.Rows = Rank(in.Rows, SortState{SortName, false})
	assert.Equal(t, first, Export(in))
}

func TestExport_Empty(t *testing.T) {
	in := ExportInput{Filter: *filter("2024-01-01", "2024-01-01"), NumDays: 1}
	got := Export(in)

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Routes: ", lines[3])
	assert.Equal(t, "Buses: ", lines[4])
}

func TestExport_HeaderSortsByUTF16(t *testing.T) {
	f := filter("2024-01-01", "2024-01-01")
	f.Routes = []int64{1, 2, 3}
	f.Buses = []int64{1, 2}
	in := ExportInput{
		Filter:  *f,
		NumDays: 1,
		Routes:  []models.Route{{ID: 1, Name: "\uFF01"}, {ID: 2, Name: "\U0001F68C"}, {ID: 3, Name: "A"}},
		Buses:   []models.Bus{bus(1, "\uFF01"), bus(2, "\U0001F68C")},
	}

	lines := strings.Split(Export(in), "\n")
	assert.Equal(t, "Routes: A,\U0001F68C,\uFF01", lines[3])
	assert.Equal(t, "Buses: \U0001F68C,\uFF01", lines[4])
}

func TestExportWorkbook(t *testing.T) {
	buf, err := ExportWorkbook(exportFixture(t))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(WorkbookSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, ExportTitle, title)

	header, err := f.GetCellValue(WorkbookSheet, "F7")
	require.NoError(t, err)
	assert.Equal(t, "AvgMilesPerDay", header)

	rows, err := f.GetRows(WorkbookSheet)
	require.NoError(t, err)
	require.Len(t, rows, 11)
	assert.Equal(t, "1", rows[7][0])
	assert.Equal(t, []string{"2", "9", "31", "30"}, rows[8][:4])
	assert.Equal(t, "10", rows[9][0])

	width, err := f.GetColWidth(WorkbookSheet, "B")
	require.NoError(t, err)
	assert.Equal(t, 18.0, width)
}
