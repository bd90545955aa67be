package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ninerlytics/transit-dashboard/internal/fleet"
	"github.com/ninerlytics/transit-dashboard/internal/models"
)

func TestReduceSort(t *testing.T) {
	tests := []struct {
		name  string
		state fleet.SortState
		key   fleet.SortKey
		want  fleet.SortState
	}{
		{"toggle same column", fleet.DefaultSortState(), fleet.SortName, fleet.SortState{Key: fleet.SortName, Ascending: false}},
		{"toggle back", fleet.SortState{Key: fleet.SortStops, Ascending: false}, fleet.SortStops, fleet.SortState{Key: fleet.SortStops, Ascending: true}},
		{"new column defaults descending", fleet.DefaultSortState(), fleet.SortMiles, fleet.SortState{Key: fleet.SortMiles, Ascending: false}},
		{"maintenance column defaults ascending", fleet.SortState{Key: fleet.SortStops, Ascending: false}, fleet.SortRefuel, fleet.SortState{Key: fleet.SortRefuel, Ascending: true}},
		{"name defaults ascending", fleet.SortState{Key: fleet.SortMiles, Ascending: false}, fleet.SortName, fleet.SortState{Key: fleet.SortName, Ascending: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReduceSort(tt.state, tt.key))
		})
	}
}

func TestReduceIntervals(t *testing.T) {
	intervals := models.DefaultIntervals()

	next := ReduceIntervals(intervals, IntervalAction{Key: 1, Miles: 1500})

	assert.Equal(t, 1500.0, next[1].Miles)
	assert.Equal(t, 1000.0, intervals[1].Miles, "input must not change")
	assert.Equal(t, intervals[0], next[0])
	assert.Equal(t, intervals[2], next[2])

	unchanged := ReduceIntervals(intervals, IntervalAction{Key: 9, Miles: 1})
	assert.Equal(t, intervals, unchanged)
}

func TestFindInterval(t *testing.T) {
	in, ok := FindInterval(models.DefaultIntervals(), 2)
	assert.True(t, ok)
	assert.Equal(t, models.StorageKeyInspection, in.StorageKey)

	_, ok = FindInterval(models.DefaultIntervals(), 3)
	assert.False(t, ok)
}
