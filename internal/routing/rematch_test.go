package routing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReMatchDepartIdempotentOnSameAnchor(t *testing.T) {
	tt, err := PrepareTimetable(threeLineFeed(t))
	require.NoError(t, err)

	legs := []LegDescriptor{
		{RouteID: "A", DirectionID: 0, StopIDs: []StopID{"stopA", "stopC"}},
		{RouteID: "B", DirectionID: 0, StopIDs: []StopID{"stopC", "stopD"}},
	}

	matched, err := tt.ReMatch(legs, 1000, 20250106, true)
	require.NoError(t, err)
	require.Len(t, matched, 2)
	require.Equal(t, 1000, matched[0].Trip.StopTimes[matched[0].BoardIdx].DepartureTime)
	require.Equal(t, "A1", matched[0].Trip.ID)
	require.Equal(t, "B1", matched[1].Trip.ID)
}

func TestReMatchDepartAdvancesAnchorPastInterchange(t *testing.T) {
	tt, err := PrepareTimetable(threeLineFeed(t))
	require.NoError(t, err)

	legs := []LegDescriptor{
		{RouteID: "A", DirectionID: 0, StopIDs: []StopID{"stopA", "stopC"}},
		{RouteID: "B", DirectionID: 0, StopIDs: []StopID{"stopC", "stopD"}},
	}

	// Anchoring well before the day's only run should still land on it.
	matched, err := tt.ReMatch(legs, 0, 20250106, true)
	require.NoError(t, err)
	require.Equal(t, "A1", matched[0].Trip.ID)
	require.Equal(t, "B1", matched[1].Trip.ID)
}

func TestReMatchFailsWithoutMatchingTrip(t *testing.T) {
	tt, err := PrepareTimetable(threeLineFeed(t))
	require.NoError(t, err)

	legs := []LegDescriptor{
		{RouteID: "A", DirectionID: 0, StopIDs: []StopID{"stopA", "stopC"}},
	}

	// No line A trip departs at or after this anchor.
	_, err = tt.ReMatch(legs, 999999, 20250106, true)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNoRematch))
}

func TestReMatchArriveByWalksLegsInReverse(t *testing.T) {
	tt, err := PrepareTimetable(threeLineFeed(t))
	require.NoError(t, err)

	legs := []LegDescriptor{
		{RouteID: "A", DirectionID: 0, StopIDs: []StopID{"stopA", "stopC"}},
		{RouteID: "B", DirectionID: 0, StopIDs: []StopID{"stopC", "stopD"}},
	}

	matched, err := tt.ReMatch(legs, 1440, 20250106, false)
	require.NoError(t, err)
	require.Equal(t, "B1", matched[1].Trip.ID)
	require.Equal(t, "A1", matched[0].Trip.ID)
}
