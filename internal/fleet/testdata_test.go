package fleet

import (
	"time"

	"github.com/ninerlytics/transit-dashboard/internal/models"
)

func bus(id int64, code string) models.Bus {
	return models.Bus{ID: id, Code: code}
}

func stats(id int64, stops, on, off int64, km float64) models.BusStatistics {
	return models.BusStatistics{
		ID:               id,
		NumTimesStopped:  stops,
		TotalPeopleOn:    on,
		TotalPeopleOff:   off,
		DistanceFromLast: km,
	}
}

func withData(b models.Bus, s models.BusStatistics) Row {
	return Row{Bus: b, Data: &RowData{BusStatistics: s}}
}

func withoutData(b models.Bus) Row {
	return Row{Bus: b}
}

func codes(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Bus.Code)
	}
	return out
}

func filter(from, to string) *models.DataFilter {
	minDate, _ := time.Parse(models.DateLayout, from)
	maxDate, _ := time.Parse(models.DateLayout, to)
	return &models.DataFilter{MinDate: minDate, MaxDate: maxDate}
}
