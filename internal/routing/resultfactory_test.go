package routing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractJourneyTwoLegTrip(t *testing.T) {
	tt, err := PrepareTimetable(threeLineFeed(t))
	require.NoError(t, err)

	sr := tt.ScanDepartAfter(map[StopID]int{"stopA": 800}, 20250106, 1, ScanConfig{MaxRounds: 4})

	j, ok := ExtractJourney(sr, "stopD")
	require.True(t, ok)
	require.Equal(t, 1000, j.Depart)
	require.Equal(t, 1440, j.Arrive)
	require.Equal(t, 1, j.Transfers)
	require.Len(t, j.Legs, 2)
	require.Equal(t, StopID("stopA"), j.Legs[0].BoardStop)
	require.Equal(t, StopID("stopC"), j.Legs[0].AlightStop)
	require.Equal(t, StopID("stopC"), j.Legs[1].BoardStop)
	require.Equal(t, StopID("stopD"), j.Legs[1].AlightStop)
}

func TestExtractJourneyTripThenTransfer(t *testing.T) {
	tt, err := PrepareTimetable(threeLineFeed(t))
	require.NoError(t, err)

	sr := tt.ScanDepartAfter(map[StopID]int{"stopA": 800}, 20250106, 1, ScanConfig{MaxRounds: 4})

	j, ok := ExtractJourney(sr, "stopX")
	require.True(t, ok)
	require.Equal(t, 1000, j.Depart)
	require.Equal(t, 1160, j.Arrive)
	require.Equal(t, 0, j.Transfers)
	require.Len(t, j.Legs, 2)
	require.False(t, j.Legs[0].IsTransfer)
	require.True(t, j.Legs[1].IsTransfer)
}

func TestExtractJourneyUnknownStop(t *testing.T) {
	tt, err := PrepareTimetable(threeLineFeed(t))
	require.NoError(t, err)

	sr := tt.ScanDepartAfter(map[StopID]int{"stopA": 800}, 20250106, 1, ScanConfig{MaxRounds: 4})

	_, ok := ExtractJourney(sr, "nowhere")
	require.False(t, ok)
}

func TestExtractJourneyUnreachedStop(t *testing.T) {
	tt, err := PrepareTimetable(threeLineFeed(t))
	require.NoError(t, err)

	// Departing after everything has already left reaches nothing.
	sr := tt.ScanDepartAfter(map[StopID]int{"stopA": 999999}, 20250106, 1, ScanConfig{MaxRounds: 4})

	_, ok := ExtractJourney(sr, "stopC")
	require.False(t, ok)
}
