package routing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// The scanner adds interchange[stop] as a boarding buffer even at the
// very first hop from an anchor stop (per the round-1 board rule), so
// every fixture below keeps at least minInterchange (120s) of slack
// between an anchor/arrival time and the next trip it must catch.

func TestScanDepartAfterDirectTrip(t *testing.T) {
	tt, err := PrepareTimetable(threeLineFeed(t))
	require.NoError(t, err)

	sr := tt.ScanDepartAfter(map[StopID]int{"stopA": 800}, 20250106, 1, ScanConfig{MaxRounds: 4})

	arrival, ok := sr.BestArrival("stopC")
	require.True(t, ok)
	require.Equal(t, 1200, arrival)
}

func TestScanDepartAfterWithTransfer(t *testing.T) {
	tt, err := PrepareTimetable(threeLineFeed(t))
	require.NoError(t, err)

	sr := tt.ScanDepartAfter(map[StopID]int{"stopA": 800}, 20250106, 1, ScanConfig{MaxRounds: 4})

	// stopX is reached only via the stopB->stopX foot transfer.
	arrival, ok := sr.BestArrival("stopX")
	require.True(t, ok)
	require.Equal(t, 1100+60, arrival)
}

func TestScanDepartAfterTwoLegJourney(t *testing.T) {
	tt, err := PrepareTimetable(threeLineFeed(t))
	require.NoError(t, err)

	sr := tt.ScanDepartAfter(map[StopID]int{"stopA": 800}, 20250106, 1, ScanConfig{MaxRounds: 4})

	// stopD needs line A then line B; line B departs stopC at 1340,
	// comfortably past the 1200+120 interchange floor at stopC.
	arrival, ok := sr.BestArrival("stopD")
	require.True(t, ok)
	require.Equal(t, 1440, arrival)
}

func TestScanDepartAfterSkipsNonRunningService(t *testing.T) {
	svc := &Service{
		ID: "sat-only", StartDate: 20250101, EndDate: 20251231,
		WeekdayMask: [7]bool{false, false, false, false, false, false, true},
	}
	trip := &Trip{
		ID: "S1", RouteID: "S", ServiceID: "sat-only",
		StopTimes: []StopTime{
			{StopID: "stopA", ArrivalTime: 1000, DepartureTime: 1000, StopSequence: 0},
			{StopID: "stopB", ArrivalTime: 1100, DepartureTime: 1100, StopSequence: 1},
		},
	}
	tt, err := PrepareTimetable(RawTimetableInput{
		Trips:          []*Trip{trip},
		Services:       map[string]*Service{"sat-only": svc},
		MinInterchange: 120,
	})
	require.NoError(t, err)

	// 20250106 is a Monday (dayOfWeek=1): the service shouldn't run.
	sr := tt.ScanDepartAfter(map[StopID]int{"stopA": 800}, 20250106, 1, ScanConfig{MaxRounds: 2})
	_, ok := sr.BestArrival("stopB")
	require.False(t, ok)
}

func TestScanArriveBySymmetricWithDepartAfter(t *testing.T) {
	tt, err := PrepareTimetable(threeLineFeed(t))
	require.NoError(t, err)

	sr := tt.ScanArriveBy(map[StopID]int{"stopD": 1600}, 20250106, 1, ScanConfig{MaxRounds: 4})

	departure, ok := sr.BestArrival("stopA")
	require.True(t, ok)
	require.Equal(t, 1000, departure)
}
