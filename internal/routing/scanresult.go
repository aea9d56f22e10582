package routing

import "math"

// ScanDirection parameterizes the shared ScanResult buffer between the
// forward and reverse scanners: forward improvements are "earlier is
// better", reverse improvements are "later is better".
type ScanDirection int

const (
	Forward ScanDirection = iota
	Reverse
)

const (
	// worstForward is the "not yet reached" sentinel for a forward scan.
	worstForward = math.MaxInt32
	// worstReverse is the "not yet reached" sentinel for a reverse scan.
	worstReverse = math.MinInt32
)

// Connection records the best way a round reached a stop: either a
// boarded trip segment or a foot transfer. It is an explicit two-variant
// sum type with IsTransfer as the discriminator, rather than a tagged
// union inferred from which fields are non-zero.
type Connection struct {
	valid      bool
	IsTransfer bool

	// Populated when !IsTransfer. Both index into Trip.StopTimes /
	// route offsets; BoardIdx < AlightIdx always (physical board/alight
	// order) regardless of which direction discovered the connection —
	// the forward and reverse scanners share this one convention rather
	// than swapping field meaning by direction.
	Trip      *Trip
	BoardIdx  int
	AlightIdx int

	// Populated when IsTransfer. Transfer.OriginStopID/DestinationStopID
	// already carry both ends, so no extra "from" field is needed.
	Transfer *Transfer
}

// ScanResult is the per-query scratch state produced by one scan. It is
// exclusively owned by the query that requested it and discarded after
// journeys have been extracted from it.
type ScanResult struct {
	timetable *Timetable
	direction ScanDirection
	maxRounds int

	bestArrival []int            // per stop-index
	kArrival    [][]int          // [round][stop-index]
	kConn       [][]Connection   // [round][stop-index]
	roundsUsed  int              // highest round actually populated
}

func newScanResult(t *Timetable, direction ScanDirection, maxRounds int) *ScanResult {
	n := len(t.stopIDs)
	worst := worstForward
	if direction == Reverse {
		worst = worstReverse
	}

	sr := &ScanResult{
		timetable:   t,
		direction:   direction,
		maxRounds:   maxRounds,
		bestArrival: make([]int, n),
		kArrival:    make([][]int, maxRounds+1),
		kConn:       make([][]Connection, maxRounds+1),
	}
	for i := range sr.bestArrival {
		sr.bestArrival[i] = worst
	}
	for k := 0; k <= maxRounds; k++ {
		sr.kArrival[k] = make([]int, n)
		sr.kConn[k] = make([]Connection, n)
		for i := range sr.kArrival[k] {
			sr.kArrival[k][i] = worst
		}
	}
	return sr
}

// improves reports whether candidate is strictly better than current
// given the scan direction (earlier for forward, later for reverse).
func (sr *ScanResult) improves(candidate, current int) bool {
	if sr.direction == Forward {
		return candidate < current
	}
	return candidate > current
}

// BestArrival returns the best time reached at stop id across all
// rounds, or false if the stop was never reached.
func (sr *ScanResult) BestArrival(id StopID) (int, bool) {
	ix, ok := sr.timetable.indexOf(id)
	if !ok {
		return 0, false
	}
	v := sr.bestArrival[ix]
	if v == worstForward || v == worstReverse {
		return 0, false
	}
	return v, true
}
