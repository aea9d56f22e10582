package routing

import (
	"fmt"
	"sort"
)

// StopID is an opaque, globally unique stop token at the data-model
// boundary. Every stop is translated once to a dense stopIndex at
// preparation time and route traversal works on those indices; the
// scanner looks a StopID up in the index map only for query anchors and
// transfer endpoints.
type StopID string

type stopIndex int

// StopTime is one scheduled visit of a Trip at a Stop.
type StopTime struct {
	StopID        StopID
	ArrivalTime   int // seconds since midnight, may exceed 86400
	DepartureTime int
	StopSequence  int
	PickUp        bool
	DropOff       bool
	Headsign      string
}

// Trip is an immutable ordered sequence of StopTimes run by one vehicle.
type Trip struct {
	ID          string
	RouteID     string // the feed's marketed route/line identifier
	DirectionID int
	ServiceID   string
	StopTimes   []StopTime

	service *Service
	routeIx int // index into Timetable.routes; the RAPTOR-sense route
}

// Transfer is a foot connection between two stops.
type Transfer struct {
	OriginStopID      StopID
	DestinationStopID StopID
	Duration          int // seconds
	StartTime         int // validity window, seconds since midnight
	EndTime           int
	TransferType      int
}

// route is the RAPTOR-sense "route": the maximal set of trips that
// share one exact ordered stop-pattern. Trips are kept sorted by their
// first stop's departure time, tie-broken by Trip.ID.
type route struct {
	stops []stopIndex
	trips []*Trip
}

// routeStopRef locates one (route, offset) occurrence of a stop.
type routeStopRef struct {
	routeIx int
	offset  int
}

// Timetable is the immutable, shared representation of trips,
// stop-times, transfers and derived RAPTOR routes built once at
// startup. All fields are read-only after PrepareTimetable returns.
type Timetable struct {
	stopIDs   []StopID
	stopIndex map[StopID]stopIndex

	trips  []*Trip
	routes []route

	routesByStop           [][]routeStopRef // indexed by stopIndex
	transfersByOrigin      [][]Transfer     // indexed by stopIndex
	transfersByDestination [][]Transfer     // indexed by stopIndex; mirror used by the reverse scanner
	interchange            []int            // indexed by stopIndex, seconds

	services map[string]*Service

	minInterchange int
}

// RawTimetableInput is what an external GTFS loader collaborator
// produces; PrepareTimetable derives everything the scanner needs from
// it and never mutates it afterwards.
type RawTimetableInput struct {
	Trips             []*Trip
	TransfersByOrigin map[StopID][]Transfer
	Services          map[string]*Service
	MinInterchange    int // seconds; applied when a stop has no explicit interchange entry
}

// PrepareTimetable groups trips by their exact ordered stop-ID sequence
// to derive RAPTOR routes, builds the RoutesByStop index, resolves each
// Trip's Service, and converts origin==destination transfers into
// per-stop Interchange entries. It fails loudly (wrapping
// ErrMalformedFeed) on any violation of the stop-time monotonicity
// invariant, an unresolved service, or a trip with fewer than two
// stop-times.
func PrepareTimetable(in RawTimetableInput) (*Timetable, error) {
	t := &Timetable{
		stopIndex:      map[StopID]stopIndex{},
		services:       in.Services,
		minInterchange: in.MinInterchange,
	}
	if t.minInterchange <= 0 {
		t.minInterchange = 120
	}

	internStop := func(id StopID) stopIndex {
		if ix, ok := t.stopIndex[id]; ok {
			return ix
		}
		ix := stopIndex(len(t.stopIDs))
		t.stopIndex[id] = ix
		t.stopIDs = append(t.stopIDs, id)
		return ix
	}

	// Resolve services and validate monotonicity per trip.
	for _, trip := range in.Trips {
		if len(trip.StopTimes) < 2 {
			return nil, fmt.Errorf("%w: trip %s has fewer than 2 stop-times", ErrMalformedFeed, trip.ID)
		}
		svc, ok := in.Services[trip.ServiceID]
		if !ok {
			return nil, fmt.Errorf("%w: trip %s references unresolved service %q", ErrMalformedFeed, trip.ID, trip.ServiceID)
		}
		trip.service = svc

		for i := 0; i+1 < len(trip.StopTimes); i++ {
			cur, next := trip.StopTimes[i], trip.StopTimes[i+1]
			if cur.ArrivalTime > cur.DepartureTime {
				return nil, fmt.Errorf("%w: trip %s stop %d arrival after departure", ErrMalformedFeed, trip.ID, i)
			}
			if next.StopSequence <= cur.StopSequence {
				return nil, fmt.Errorf("%w: trip %s stop sequence not strictly increasing at %d", ErrMalformedFeed, trip.ID, i)
			}
			if cur.DepartureTime > next.ArrivalTime {
				return nil, fmt.Errorf("%w: trip %s departure at stop %d exceeds arrival at stop %d", ErrMalformedFeed, trip.ID, i, i+1)
			}
		}
		for _, st := range trip.StopTimes {
			internStop(st.StopID)
		}
		t.trips = append(t.trips, trip)
	}

	// Group trips into RAPTOR routes by exact ordered stop-ID pattern.
	patternKeyOf := func(trip *Trip) string {
		key := make([]byte, 0, len(trip.StopTimes)*8)
		for _, st := range trip.StopTimes {
			key = append(key, st.StopID...)
			key = append(key, 0)
		}
		return string(key)
	}

	routeIxByPattern := map[string]int{}
	for _, trip := range t.trips {
		key := patternKeyOf(trip)
		rix, ok := routeIxByPattern[key]
		if !ok {
			stops := make([]stopIndex, len(trip.StopTimes))
			for i, st := range trip.StopTimes {
				stops[i] = t.stopIndex[st.StopID]
			}
			rix = len(t.routes)
			t.routes = append(t.routes, route{stops: stops})
			routeIxByPattern[key] = rix
		}
		trip.routeIx = rix
		t.routes[rix].trips = append(t.routes[rix].trips, trip)
	}

	// Sort each route's trips by first-stop departure, tie-break by TripID.
	for i := range t.routes {
		trips := t.routes[i].trips
		sort.Slice(trips, func(a, b int) bool {
			da, db := trips[a].StopTimes[0].DepartureTime, trips[b].StopTimes[0].DepartureTime
			if da != db {
				return da < db
			}
			return trips[a].ID < trips[b].ID
		})
	}

	// Build RoutesByStop: one entry per (route, stop) occurrence.
	t.routesByStop = make([][]routeStopRef, len(t.stopIDs))
	for rix, r := range t.routes {
		for offset, six := range r.stops {
			t.routesByStop[six] = append(t.routesByStop[six], routeStopRef{routeIx: rix, offset: offset})
		}
	}

	// Transfer endpoints may name stops that never appear in any trip's
	// stop-times (a PostGIS-proximity transfer pair, say); intern both
	// ends of every transfer before sizing the per-stop-index arrays
	// below, and pad routesByStop (sized above) to match, or a
	// transfer-only stop's index would fall outside them.
	for origin, transfers := range in.TransfersByOrigin {
		internStop(origin)
		for _, tr := range transfers {
			internStop(tr.OriginStopID)
			internStop(tr.DestinationStopID)
		}
	}
	for len(t.routesByStop) < len(t.stopIDs) {
		t.routesByStop = append(t.routesByStop, nil)
	}

	// Transfers: keep by origin and by destination; same-stop transfers
	// become interchange entries instead.
	t.transfersByOrigin = make([][]Transfer, len(t.stopIDs))
	t.transfersByDestination = make([][]Transfer, len(t.stopIDs))
	t.interchange = make([]int, len(t.stopIDs))
	for i := range t.interchange {
		t.interchange[i] = t.minInterchange
	}
	for origin, transfers := range in.TransfersByOrigin {
		oix := t.stopIndex[origin]
		for _, tr := range transfers {
			if tr.OriginStopID == tr.DestinationStopID {
				t.interchange[oix] = tr.Duration
				continue
			}
			dix := t.stopIndex[tr.DestinationStopID]
			t.transfersByOrigin[oix] = append(t.transfersByOrigin[oix], tr)
			t.transfersByDestination[dix] = append(t.transfersByDestination[dix], tr)
		}
	}

	return t, nil
}

func (t *Timetable) indexOf(id StopID) (stopIndex, bool) {
	ix, ok := t.stopIndex[id]
	return ix, ok
}

func (t *Timetable) stopAt(ix stopIndex) StopID {
	return t.stopIDs[ix]
}

func (t *Timetable) interchangeAt(ix stopIndex) int {
	return t.interchange[ix]
}
