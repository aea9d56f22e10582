package routing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func tripLeg(routeID string) Leg {
	return Leg{Trip: &Trip{RouteID: routeID}}
}

func TestFilterParetoDropsDominatedForward(t *testing.T) {
	journeys := []Journey{
		{Arrive: 1200, Transfers: 1},
		{Arrive: 1200, Transfers: 2}, // dominated: same arrival, more transfers
		{Arrive: 1100, Transfers: 2}, // not dominated: earlier arrival
	}
	kept := FilterPareto(journeys, Forward)
	require.Len(t, kept, 2)
	for _, j := range kept {
		require.False(t, j.Arrive == 1200 && j.Transfers == 2)
	}
}

func TestFilterParetoArriveByPrefersLaterDeparture(t *testing.T) {
	journeys := []Journey{
		{Depart: 1000, Transfers: 1},
		{Depart: 900, Transfers: 1}, // dominated: departs earlier, same transfers
	}
	kept := FilterPareto(journeys, Reverse)
	require.Len(t, kept, 1)
	require.Equal(t, 1000, kept[0].Depart)
}

func TestFilterRouteUniqueRejectsRepeatedRoute(t *testing.T) {
	journeys := []Journey{
		{Legs: []Leg{tripLeg("A"), tripLeg("B")}},
		{Legs: []Leg{tripLeg("A"), tripLeg("A")}}, // boards route A twice
	}
	kept := FilterRouteUnique(journeys)
	require.Len(t, kept, 1)
	require.Equal(t, "A", kept[0].Legs[0].Trip.RouteID)
	require.Equal(t, "B", kept[0].Legs[1].Trip.RouteID)
}

func TestFilterRouteUniqueKeepsDistinctJourneysWithNoRepeat(t *testing.T) {
	journeys := []Journey{
		{Legs: []Leg{tripLeg("A"), tripLeg("B")}},
		{Legs: []Leg{tripLeg("A"), tripLeg("B")}},
	}
	kept := FilterRouteUnique(journeys)
	require.Len(t, kept, 2)
}
