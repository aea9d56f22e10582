package routing

import "sort"

// ScanConfig bounds a single scanner pass.
type ScanConfig struct {
	MaxRounds int // transfer cap; default 8
}

// ScanDepartAfter runs the forward RAPTOR pass: given a set of
// origins each with an earliest departure time, it finds the earliest
// arrival at every reachable stop using at most cfg.MaxRounds trips.
func (t *Timetable) ScanDepartAfter(origins map[StopID]int, date Date, dayOfWeek int, cfg ScanConfig) *ScanResult {
	return t.scan(origins, date, dayOfWeek, cfg, Forward)
}

// ScanArriveBy runs the reverse RAPTOR pass: the structural mirror of
// ScanDepartAfter, given a set of destinations each with a latest
// acceptable arrival time.
func (t *Timetable) ScanArriveBy(destinations map[StopID]int, date Date, dayOfWeek int, cfg ScanConfig) *ScanResult {
	return t.scan(destinations, date, dayOfWeek, cfg, Reverse)
}

func (t *Timetable) scan(anchors map[StopID]int, date Date, dayOfWeek int, cfg ScanConfig, direction ScanDirection) *ScanResult {
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = 8
	}
	sr := newScanResult(t, direction, maxRounds)

	marked := map[stopIndex]bool{}
	for id, anchorTime := range anchors {
		ix, ok := t.indexOf(id)
		if !ok {
			continue // unknown stop id: treated as absent
		}
		sr.kArrival[0][ix] = anchorTime
		sr.bestArrival[ix] = anchorTime
		marked[ix] = true
	}

	for k := 1; k <= maxRounds; k++ {
		nextMarked := map[stopIndex]bool{}

		routesToProcess := t.collectCandidateRoutes(marked, direction)

		for rix, startOffset := range routesToProcess {
			if direction == Forward {
				t.traverseRouteForward(sr, k, rix, startOffset, date, dayOfWeek, nextMarked)
			} else {
				t.traverseRouteReverse(sr, k, rix, startOffset, date, dayOfWeek, nextMarked)
			}
		}

		t.applyTransfers(sr, k, nextMarked, direction)

		if len(nextMarked) == 0 {
			sr.roundsUsed = k - 1
			break
		}
		sr.roundsUsed = k
		marked = nextMarked
	}

	return sr
}

// collectCandidateRoutes returns, for every route touched by a marked
// stop, the single offset to start traversal from: the earliest marked
// offset for a forward scan, the latest for a reverse scan.
func (t *Timetable) collectCandidateRoutes(marked map[stopIndex]bool, direction ScanDirection) map[int]int {
	routesToProcess := map[int]int{}
	for six := range marked {
		for _, ref := range t.routesByStop[six] {
			existing, ok := routesToProcess[ref.routeIx]
			if !ok {
				routesToProcess[ref.routeIx] = ref.offset
				continue
			}
			if direction == Forward && ref.offset < existing {
				routesToProcess[ref.routeIx] = ref.offset
			} else if direction == Reverse && ref.offset > existing {
				routesToProcess[ref.routeIx] = ref.offset
			}
		}
	}
	return routesToProcess
}

func (t *Timetable) traverseRouteForward(sr *ScanResult, k int, rix int, startOffset int, date Date, dayOfWeek int, nextMarked map[stopIndex]bool) {
	r := &t.routes[rix]
	var currentTrip *Trip
	boardOffset := -1

	for i := startOffset; i < len(r.stops); i++ {
		six := r.stops[i]
		interchange := t.interchange[six]

		if currentTrip != nil {
			arrivalAt := currentTrip.StopTimes[i].ArrivalTime
			if sr.improves(arrivalAt, sr.bestArrival[six]) {
				sr.kArrival[k][six] = arrivalAt
				sr.bestArrival[six] = arrivalAt
				sr.kConn[k][six] = Connection{Trip: currentTrip, BoardIdx: boardOffset, AlightIdx: i, valid: true}
				nextMarked[six] = true
			}
		}

		threshold := sr.kArrival[k-1][six] + interchange
		canStillCatchCurrent := currentTrip != nil && threshold <= currentTrip.StopTimes[i].DepartureTime
		if sr.kArrival[k-1][six] < worstForward && !canStillCatchCurrent {
			if trip, boardIdx := t.earliestTripAtOrAfter(r, i, threshold, date, dayOfWeek); trip != nil {
				currentTrip = trip
				boardOffset = boardIdx
			}
		}
	}
}

func (t *Timetable) traverseRouteReverse(sr *ScanResult, k int, rix int, startOffset int, date Date, dayOfWeek int, nextMarked map[stopIndex]bool) {
	r := &t.routes[rix]
	var currentTrip *Trip
	anchorOffset := -1

	for i := startOffset; i >= 0; i-- {
		six := r.stops[i]
		interchange := t.interchange[six]

		if currentTrip != nil {
			departAt := currentTrip.StopTimes[i].DepartureTime
			if sr.improves(departAt, sr.bestArrival[six]) {
				sr.kArrival[k][six] = departAt
				sr.bestArrival[six] = departAt
				sr.kConn[k][six] = Connection{Trip: currentTrip, BoardIdx: i, AlightIdx: anchorOffset, valid: true}
				nextMarked[six] = true
			}
		}

		threshold := sr.kArrival[k-1][six] - interchange
		canStillCatchCurrent := currentTrip != nil && currentTrip.StopTimes[i].ArrivalTime >= threshold
		if sr.kArrival[k-1][six] > worstReverse && !canStillCatchCurrent {
			if trip, anchorIdx := t.latestTripAtOrBefore(r, i, threshold, date, dayOfWeek); trip != nil {
				currentTrip = trip
				anchorOffset = anchorIdx
			}
		}
	}
}

// earliestTripAtOrAfter binary-searches route r's trips (sorted
// ascending by departure at their first stop, which by the no-overtake
// invariant also orders them ascending at offset i) for the earliest
// one departing offset i at or after threshold and running on date.
func (t *Timetable) earliestTripAtOrAfter(r *route, offset int, threshold int, date Date, dayOfWeek int) (*Trip, int) {
	trips := r.trips
	start := sort.Search(len(trips), func(i int) bool {
		return trips[i].StopTimes[offset].DepartureTime >= threshold
	})
	for i := start; i < len(trips); i++ {
		if trips[i].service.RunsOn(date, dayOfWeek) {
			return trips[i], offset
		}
	}
	return nil, 0
}

// latestTripAtOrBefore is the reverse mirror: the latest trip arriving
// at offset i at or before threshold and running on date.
func (t *Timetable) latestTripAtOrBefore(r *route, offset int, threshold int, date Date, dayOfWeek int) (*Trip, int) {
	trips := r.trips
	end := sort.Search(len(trips), func(i int) bool {
		return trips[i].StopTimes[offset].ArrivalTime > threshold
	})
	for i := end - 1; i >= 0; i-- {
		if trips[i].service.RunsOn(date, dayOfWeek) {
			return trips[i], offset
		}
	}
	return nil, 0
}

// applyTransfers chains one foot transfer out of every stop marked by
// a trip board this round. Transfers never chain transfer-to-transfer.
func (t *Timetable) applyTransfers(sr *ScanResult, k int, nextMarked map[stopIndex]bool, direction ScanDirection) {
	boarded := make([]stopIndex, 0, len(nextMarked))
	for six := range nextMarked {
		boarded = append(boarded, six)
	}

	for _, six := range boarded {
		if direction == Forward {
			for ti := range t.transfersByOrigin[six] {
				tr := &t.transfersByOrigin[six][ti]
				candidate := sr.kArrival[k][six] + tr.Duration
				dix := t.stopIndex[tr.DestinationStopID]
				if sr.improves(candidate, sr.bestArrival[dix]) {
					sr.kArrival[k][dix] = candidate
					sr.bestArrival[dix] = candidate
					sr.kConn[k][dix] = Connection{IsTransfer: true, Transfer: tr, valid: true}
					nextMarked[dix] = true
				}
			}
		} else {
			for ti := range t.transfersByDestination[six] {
				tr := &t.transfersByDestination[six][ti]
				candidate := sr.kArrival[k][six] - tr.Duration
				oix := t.stopIndex[tr.OriginStopID]
				if sr.improves(candidate, sr.bestArrival[oix]) {
					sr.kArrival[k][oix] = candidate
					sr.bestArrival[oix] = candidate
					sr.kConn[k][oix] = Connection{IsTransfer: true, Transfer: tr, valid: true}
					nextMarked[oix] = true
				}
			}
		}
	}
}
