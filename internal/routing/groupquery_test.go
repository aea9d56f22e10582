package routing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanDepartAfterSameDay(t *testing.T) {
	tt, err := PrepareTimetable(threeLineFeed(t))
	require.NoError(t, err)

	journeys, err := tt.PlanDepartAfter(
		map[StopID]bool{"stopA": true},
		map[StopID]bool{"stopD": true},
		20250106, 800,
		GroupQueryConfig{ScanConfig: ScanConfig{MaxRounds: 4}},
	)
	require.NoError(t, err)
	require.Len(t, journeys, 1)
	require.Equal(t, 1440, journeys[0].Arrive)
}

func TestPlanDepartAfterStacksNextDayWhenExhausted(t *testing.T) {
	tt, err := PrepareTimetable(threeLineFeed(t))
	require.NoError(t, err)

	// Request a departure after the last service of the day; the feed
	// runs every day identically, so the stitched result should be
	// found on day+1 with times normalized back onto the requested
	// day's clock (arrival past 24h, GTFS-style).
	journeys, err := tt.PlanDepartAfter(
		map[StopID]bool{"stopA": true},
		map[StopID]bool{"stopD": true},
		20250106, 50000,
		GroupQueryConfig{ScanConfig: ScanConfig{MaxRounds: 4}, MaxSearchDays: 2, DayRollover: 86400},
	)
	require.NoError(t, err)
	require.Len(t, journeys, 1)
	require.Equal(t, 86400+1440, journeys[0].Arrive)
}

func TestPlanArriveBySameDay(t *testing.T) {
	tt, err := PrepareTimetable(threeLineFeed(t))
	require.NoError(t, err)

	journeys, err := tt.PlanArriveBy(
		map[StopID]bool{"stopA": true},
		map[StopID]bool{"stopD": true},
		20250106, 1600,
		GroupQueryConfig{ScanConfig: ScanConfig{MaxRounds: 4}},
	)
	require.NoError(t, err)
	require.Len(t, journeys, 1)
	require.Equal(t, 1000, journeys[0].Depart)
}

func TestPlanDepartAfterNoJourneyReturnsEmpty(t *testing.T) {
	tt, err := PrepareTimetable(threeLineFeed(t))
	require.NoError(t, err)

	journeys, err := tt.PlanDepartAfter(
		map[StopID]bool{"stopA": true},
		map[StopID]bool{"nonexistent-stop": true},
		20250106, 800,
		GroupQueryConfig{ScanConfig: ScanConfig{MaxRounds: 4}, MaxSearchDays: 1},
	)
	require.NoError(t, err)
	require.Empty(t, journeys)
}

// twoDayStitchFeed is built so that no single day's service can reach
// stopR from stopP: line P's only trip departs stopP late and reaches
// stopQ just before midnight, and line Q's only trip departs stopQ just
// after midnight, too early to be caught by the same day's line-P
// arrival. A depart-after query that stacks one extra day reaches stopQ
// at the end of day N, re-anchors it (shifted back a day) as day N+1's
// starting point, and catches line Q's early trip there — a genuine
// two-leg stitch across the day boundary, not just a same-origins retry.
func twoDayStitchFeed(t *testing.T) RawTimetableInput {
	t.Helper()
	svc := svcAlwaysRuns("daily")

	lineP := &Trip{
		ID: "P1", RouteID: "P", ServiceID: "daily",
		StopTimes: []StopTime{
			{StopID: "stopP", ArrivalTime: 86000, DepartureTime: 86000, StopSequence: 0},
			{StopID: "stopQ", ArrivalTime: 86300, DepartureTime: 86300, StopSequence: 1},
		},
	}
	lineQ := &Trip{
		ID: "Q1", RouteID: "Q", ServiceID: "daily",
		StopTimes: []StopTime{
			{StopID: "stopQ", ArrivalTime: 200, DepartureTime: 200, StopSequence: 0},
			{StopID: "stopR", ArrivalTime: 500, DepartureTime: 500, StopSequence: 1},
		},
	}

	return RawTimetableInput{
		Trips:          []*Trip{lineP, lineQ},
		Services:       map[string]*Service{"daily": svc},
		MinInterchange: 120,
	}
}

func TestPlanDepartAfterStitchesGenuineCrossMidnightJourney(t *testing.T) {
	tt, err := PrepareTimetable(twoDayStitchFeed(t))
	require.NoError(t, err)

	journeys, err := tt.PlanDepartAfter(
		map[StopID]bool{"stopP": true},
		map[StopID]bool{"stopR": true},
		20250106, 80000,
		GroupQueryConfig{ScanConfig: ScanConfig{MaxRounds: 4}, MaxSearchDays: 1, DayRollover: 86400},
	)
	require.NoError(t, err)
	require.Len(t, journeys, 1)

	j := journeys[0]
	require.Len(t, j.Legs, 2)
	require.Equal(t, "P", j.Legs[0].Trip.RouteID)
	require.Equal(t, "Q", j.Legs[1].Trip.RouteID)
	require.Equal(t, 86000, j.Legs[0].BoardTime)
	require.Equal(t, 86300, j.Legs[0].AlightTime)
	require.Equal(t, 86400+200, j.Legs[1].BoardTime)
	require.Equal(t, 86400+500, j.Legs[1].AlightTime)
	require.Equal(t, 86000, j.Depart)
	require.Equal(t, 86400+500, j.Arrive)
	require.Equal(t, 1, j.Transfers)
}
