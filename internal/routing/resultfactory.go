package routing

// Leg is one reconstructed segment of a Journey: either a ride on a
// Trip between two stop offsets, or a foot Transfer.
type Leg struct {
	IsTransfer bool

	Trip         *Trip
	BoardStop    StopID
	AlightStop   StopID
	BoardTime    int
	AlightTime   int
	BoardOffset  int
	AlightOffset int

	Transfer *Transfer
}

// Journey is a Pareto-optimal path: an ordered sequence of Legs plus
// its headline metrics.
type Journey struct {
	Legs      []Leg
	Depart    int
	Arrive    int
	Transfers int // count of trip legs minus 1, never negative
}

// ExtractJourney walks a ScanResult's per-round Connection chain
// backward from destination (forward scans) or backward from origin
// (reverse scans) to reconstruct the single journey that reached
// targetStop in exactly round k, then returns it in natural
// chronological (board-to-alight) leg order regardless of which
// direction produced it.
func ExtractJourney(sr *ScanResult, targetStop StopID) (Journey, bool) {
	ix, ok := sr.timetable.indexOf(targetStop)
	if !ok {
		return Journey{}, false
	}

	k := -1
	for round := 0; round <= sr.roundsUsed; round++ {
		if sr.kConn[round][ix].valid {
			k = round
		}
	}
	if k < 0 {
		return Journey{}, false
	}

	var legs []Leg
	cur := ix
	round := k
	for round > 0 {
		conn := sr.kConn[round][cur]
		if !conn.valid {
			break
		}
		atTime := sr.kArrival[round][cur]
		leg, prev := legFromConnection(sr, conn, cur, atTime)
		legs = append(legs, leg)
		cur = prev
		if !conn.IsTransfer {
			round--
		}
	}

	// A forward walk starts at the destination and accumulates legs
	// latest-first, so it is reversed into board-to-alight order. A
	// reverse walk starts at the origin and already accumulates legs in
	// that order.
	if sr.direction == Forward {
		reverseLegs(legs)
	}

	return journeyFromLegs(legs)
}

// journeyFromLegs derives a Journey's headline metrics (Transfers,
// Depart, Arrive) from an already chronologically-ordered leg list.
// Shared by ExtractJourney and concatJourneys so a stitched multi-day
// journey's metrics are computed the same way as a single-day one.
func journeyFromLegs(legs []Leg) (Journey, bool) {
	if len(legs) == 0 {
		return Journey{}, false
	}

	j := Journey{Legs: legs}
	for _, l := range legs {
		if !l.IsTransfer {
			j.Transfers++
		}
	}
	if j.Transfers > 0 {
		j.Transfers--
	}

	// departureTime is the first timetable leg's first-stop departure
	// minus preceding transfers' cumulative duration; arrivalTime is the
	// last timetable leg's last-stop arrival plus succeeding transfers'
	// cumulative duration. Zero if the journey has no timetable leg.
	firstLeg, lastLeg := -1, -1
	for i, l := range legs {
		if !l.IsTransfer {
			if firstLeg < 0 {
				firstLeg = i
			}
			lastLeg = i
		}
	}
	if firstLeg >= 0 {
		depart := legs[firstLeg].BoardTime
		for i := firstLeg - 1; i >= 0; i-- {
			depart -= legs[i].Transfer.Duration
		}
		arrive := legs[lastLeg].AlightTime
		for i := lastLeg + 1; i < len(legs); i++ {
			arrive += legs[i].Transfer.Duration
		}
		j.Depart = depart
		j.Arrive = arrive
	}
	return j, true
}

// concatJourneys joins two chronologically adjacent journeys (earlier
// arriving before later departs) into one, recomputing headline
// metrics over the combined leg list.
func concatJourneys(earlier, later Journey) Journey {
	legs := make([]Leg, 0, len(earlier.Legs)+len(later.Legs))
	legs = append(legs, earlier.Legs...)
	legs = append(legs, later.Legs...)
	j, _ := journeyFromLegs(legs)
	return j
}

// legFromConnection converts one stored Connection, known to have been
// recorded while standing at stop `at`, into a chronological Leg plus
// the stop-index the chain should continue from.
func legFromConnection(sr *ScanResult, conn Connection, at stopIndex, atTime int) (Leg, stopIndex) {
	t := sr.timetable
	if conn.IsTransfer {
		tr := conn.Transfer
		if sr.direction == Forward {
			// at is the destination stop, reached at atTime; origin is
			// where we came from.
			origin := t.stopIndex[tr.OriginStopID]
			return Leg{
				IsTransfer: true,
				Transfer:   tr,
				BoardStop:  tr.OriginStopID,
				AlightStop: tr.DestinationStopID,
				BoardTime:  atTime - tr.Duration,
				AlightTime: atTime,
			}, origin
		}
		// Reverse: at is the origin stop, departed at atTime; destination
		// is where the chain continues toward (closer to the anchor).
		dest := t.stopIndex[tr.DestinationStopID]
		return Leg{
			IsTransfer: true,
			Transfer:   tr,
			BoardStop:  tr.OriginStopID,
			AlightStop: tr.DestinationStopID,
			BoardTime:  atTime,
			AlightTime: atTime + tr.Duration,
		}, dest
	}

	trip := conn.Trip
	boardSt := trip.StopTimes[conn.BoardIdx]
	alightSt := trip.StopTimes[conn.AlightIdx]
	leg := Leg{
		Trip:         trip,
		BoardStop:    boardSt.StopID,
		AlightStop:   alightSt.StopID,
		BoardTime:    boardSt.DepartureTime,
		AlightTime:   alightSt.ArrivalTime,
		BoardOffset:  conn.BoardIdx,
		AlightOffset: conn.AlightIdx,
	}
	if sr.direction == Forward {
		return leg, t.stopIndex[boardSt.StopID]
	}
	return leg, t.stopIndex[alightSt.StopID]
}

func reverseLegs(legs []Leg) {
	for i, j := 0, len(legs)-1; i < j; i, j = i+1, j-1 {
		legs[i], legs[j] = legs[j], legs[i]
	}
}
