package routing

import "fmt"

// LegDescriptor identifies one leg of a prior journey abstractly enough
// to re-anchor it onto a different day: the route and direction it
// rode, plus the ordered stop subsequence it covered.
type LegDescriptor struct {
	RouteID     string
	DirectionID int
	StopIDs     []StopID // ordered; first boards, last alights
}

// MatchedLeg is the concrete trip ReMatch found for one LegDescriptor.
type MatchedLeg struct {
	Descriptor LegDescriptor
	Trip       *Trip
	BoardIdx   int
	AlightIdx  int
}

// ReMatch re-anchors a sequence of prior-journey LegDescriptors onto
// newAnchor: for depart=true it finds, leg by leg in order, the
// earliest trip at or after the running anchor that realises the leg's
// route/direction/stop-subsequence on a service day that runs; for
// depart=false it walks the legs in reverse, finding the latest trip at
// or before the anchor. Before the next leg is searched, the anchor
// moves to the matched leg's alight time plus (for depart=false: its
// board time minus) the interchange time at the leg's last stop. If
// any leg has no matching trip, ReMatch fails and reports
// ErrNoRematch; the caller's prior journey is left untouched.
func (t *Timetable) ReMatch(legs []LegDescriptor, newAnchor int, anchorDate Date, depart bool) ([]MatchedLeg, error) {
	order := make([]int, len(legs))
	for i := range order {
		if depart {
			order[i] = i
		} else {
			order[i] = len(legs) - 1 - i
		}
	}

	matched := make([]MatchedLeg, len(legs))
	anchor := newAnchor
	date := anchorDate

	for _, i := range order {
		leg := legs[i]
		m, matchDate, err := t.matchOneLeg(leg, anchor, date, depart)
		if err != nil {
			return nil, fmt.Errorf("%w: leg %d (route %s): %v", ErrNoRematch, i, leg.RouteID, err)
		}
		matched[i] = m
		date = matchDate

		boardTime := m.Trip.StopTimes[m.BoardIdx].DepartureTime
		alightTime := m.Trip.StopTimes[m.AlightIdx].ArrivalTime
		interchange := t.interchangeAt(t.stopIndex[leg.StopIDs[len(leg.StopIDs)-1]])
		if depart {
			anchor = alightTime + interchange
		} else {
			anchor = boardTime - interchange
		}
	}

	return matched, nil
}

// matchOneLeg finds the single best trip for one LegDescriptor on the
// given date. It searches only the single date supplied; multi-day
// retry belongs to the group-station query, not here.
func (t *Timetable) matchOneLeg(leg LegDescriptor, anchor int, date Date, depart bool) (MatchedLeg, Date, error) {
	if len(leg.StopIDs) < 2 {
		return MatchedLeg{}, date, fmt.Errorf("%w: leg has fewer than 2 stops", ErrInvalidSubsequence)
	}

	dayOfWeek := date.Weekday()

	var best *Trip
	var bestBoard, bestAlight int
	bestScore := 0
	haveBest := false

	for _, candidate := range t.trips {
		if candidate.RouteID != leg.RouteID || candidate.DirectionID != leg.DirectionID {
			continue
		}
		if !candidate.service.RunsOn(date, dayOfWeek) {
			continue
		}
		boardIdx, alightIdx, ok := subsequenceSpan(candidate, leg.StopIDs)
		if !ok {
			continue
		}

		boardTime := candidate.StopTimes[boardIdx].DepartureTime
		alightTime := candidate.StopTimes[alightIdx].ArrivalTime

		if depart {
			if boardTime < anchor {
				continue
			}
			if !haveBest || boardTime < bestScore {
				best, bestBoard, bestAlight, bestScore, haveBest = candidate, boardIdx, alightIdx, boardTime, true
			}
		} else {
			if alightTime > anchor {
				continue
			}
			if !haveBest || alightTime > bestScore {
				best, bestBoard, bestAlight, bestScore, haveBest = candidate, boardIdx, alightIdx, alightTime, true
			}
		}
	}

	if !haveBest {
		return MatchedLeg{}, date, fmt.Errorf("no trip on route %s direction %d realises the requested stop sequence at or %s %d",
			leg.RouteID, leg.DirectionID, sideWord(depart), anchor)
	}

	return MatchedLeg{Descriptor: leg, Trip: best, BoardIdx: bestBoard, AlightIdx: bestAlight}, date, nil
}

func sideWord(depart bool) string {
	if depart {
		return "after"
	}
	return "before"
}

// subsequenceSpan reports whether wanted appears, in order, as a
// subsequence of trip's stop sequence, and if so the first and last
// matching offsets.
func subsequenceSpan(trip *Trip, wanted []StopID) (board int, alight int, ok bool) {
	wi := 0
	board = -1
	for ti, st := range trip.StopTimes {
		if wi < len(wanted) && st.StopID == wanted[wi] {
			if wi == 0 {
				board = ti
			}
			wi++
		}
	}
	if wi != len(wanted) {
		return 0, 0, false
	}
	return board, lastMatchedOffset(trip, wanted), true
}

func lastMatchedOffset(trip *Trip, wanted []StopID) int {
	target := wanted[len(wanted)-1]
	for ti := len(trip.StopTimes) - 1; ti >= 0; ti-- {
		if trip.StopTimes[ti].StopID == target {
			return ti
		}
	}
	return -1
}
