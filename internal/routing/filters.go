package routing

// FilterPareto keeps only the journeys not dominated by another: for a
// depart-after query a journey dominates another when it arrives no
// later and uses no more transfers (strictly better in at least one);
// for an arrive-by query the comparison runs on departure time instead,
// preferring later departure.
func FilterPareto(journeys []Journey, direction ScanDirection) []Journey {
	kept := make([]Journey, 0, len(journeys))
	for i, candidate := range journeys {
		dominated := false
		for j, other := range journeys {
			if i == j {
				continue
			}
			if dominates(other, candidate, direction) {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// dominates reports whether a is at least as good as b on both
// dimensions and strictly better on one.
func dominates(a, b Journey, direction ScanDirection) bool {
	var aBetterOrEqual, aStrictlyBetter bool
	if direction == Forward {
		aBetterOrEqual = a.Arrive <= b.Arrive
		aStrictlyBetter = a.Arrive < b.Arrive
	} else {
		aBetterOrEqual = a.Depart >= b.Depart
		aStrictlyBetter = a.Depart > b.Depart
	}
	transfersOK := a.Transfers <= b.Transfers
	transfersBetter := a.Transfers < b.Transfers

	if !aBetterOrEqual || !transfersOK {
		return false
	}
	return aStrictlyBetter || transfersBetter
}

// FilterRouteUnique drops any journey that visits the same route more
// than once: a single journey with two or more timetable legs sharing
// a RouteID is rejected outright. Uniqueness is keyed on RouteID alone
// — two legs on the same route ridden in opposite directions still
// count as a repeat, matching "visits the same route more than once"
// literally rather than also keying on directionId.
func FilterRouteUnique(journeys []Journey) []Journey {
	kept := make([]Journey, 0, len(journeys))
	for _, j := range journeys {
		if !revisitsRoute(j) {
			kept = append(kept, j)
		}
	}
	return kept
}

func revisitsRoute(j Journey) bool {
	seen := map[string]bool{}
	for _, leg := range j.Legs {
		if leg.IsTransfer {
			continue
		}
		if seen[leg.Trip.RouteID] {
			return true
		}
		seen[leg.Trip.RouteID] = true
	}
	return false
}
