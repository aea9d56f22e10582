package routing

// GroupQueryConfig bounds a multi-day group-station query.
type GroupQueryConfig struct {
	ScanConfig
	MaxSearchDays int // how many extra calendar days to stack before giving up
	DayRollover   int // seconds added/subtracted per day stacked; default 86400
}

func (cfg GroupQueryConfig) normalized() GroupQueryConfig {
	if cfg.MaxSearchDays <= 0 {
		cfg.MaxSearchDays = 3
	}
	if cfg.DayRollover <= 0 {
		cfg.DayRollover = 86400
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = 8
	}
	return cfg
}

// PlanDepartAfter finds Pareto-optimal, route-unique journeys from any
// stop in origins to any stop in destinations, departing no earlier
// than referenceTime on date. A single scan serves every destination:
// ExtractJourney is called once per destination against the same
// ScanResult rather than re-scanning per target.
//
// When date's scan reaches no destination, every stop actually reached
// during the scan is re-anchored as a departure time on date+1 (shifted
// back by DayRollover onto date+1's own clock) and the day's ScanResult
// is pushed onto a day-stack before rescanning.
// Once a destination is found on some later day, the journey is stitched
// back through the day-stack: for each stacked day (most recent first),
// a partial journey ending at that day's continuation's boarding stop is
// extracted and concatenated in front, every leg time-shifted back onto
// date's own clock so Depart/Arrive stay meaningful regardless of how
// many days were stacked.
func (t *Timetable) PlanDepartAfter(origins, destinations map[StopID]bool, date Date, referenceTime int, cfg GroupQueryConfig) ([]Journey, error) {
	cfg = cfg.normalized()

	anchors := make(map[StopID]int, len(origins))
	for s := range origins {
		anchors[s] = referenceTime
	}

	var journeys []Journey
	var dayStack []*ScanResult
	d := date
	for day := 0; day <= cfg.MaxSearchDays; day++ {
		dow := d.Weekday()
		sr := t.ScanDepartAfter(anchors, d, dow, cfg.ScanConfig)

		found := false
		for dest := range destinations {
			journey, ok := ExtractJourney(sr, dest)
			if !ok {
				continue
			}
			found = true
			journeys = append(journeys, stitchDayStack(Forward, journey, dayStack, cfg.DayRollover))
		}
		if found {
			break
		}

		next := reachedStopTimes(t, sr, -cfg.DayRollover)
		if len(next) == 0 {
			break
		}
		dayStack = append(dayStack, sr)
		anchors = next
		d = d.AddDays(1)
	}

	if journeys == nil {
		return nil, nil
	}
	journeys = FilterRouteUnique(journeys)
	journeys = FilterPareto(journeys, Forward)
	return journeys, nil
}

// PlanArriveBy is the structural mirror of PlanDepartAfter: it finds
// journeys from any stop in origins to any stop in destinations,
// arriving no later than referenceTime on date, stacking earlier
// calendar days when date alone reaches no origin.
func (t *Timetable) PlanArriveBy(origins, destinations map[StopID]bool, date Date, referenceTime int, cfg GroupQueryConfig) ([]Journey, error) {
	cfg = cfg.normalized()

	anchors := make(map[StopID]int, len(destinations))
	for s := range destinations {
		anchors[s] = referenceTime
	}

	var journeys []Journey
	var dayStack []*ScanResult
	d := date
	for day := 0; day <= cfg.MaxSearchDays; day++ {
		dow := d.Weekday()
		sr := t.ScanArriveBy(anchors, d, dow, cfg.ScanConfig)

		found := false
		for origin := range origins {
			journey, ok := ExtractJourney(sr, origin)
			if !ok {
				continue
			}
			found = true
			journeys = append(journeys, stitchDayStack(Reverse, journey, dayStack, cfg.DayRollover))
		}
		if found {
			break
		}

		next := reachedStopTimes(t, sr, cfg.DayRollover)
		if len(next) == 0 {
			break
		}
		dayStack = append(dayStack, sr)
		anchors = next
		d = d.AddDays(-1)
	}

	if journeys == nil {
		return nil, nil
	}
	journeys = FilterRouteUnique(journeys)
	journeys = FilterPareto(journeys, Reverse)
	return journeys, nil
}

// reachedStopTimes reads every stop a scan actually reached (its
// bestArrival, skipping the "never reached" sentinel) and returns each
// one's time shifted by delta, ready to seed the next day's scan
// anchors. Unlike re-anchoring only the original origin/destination
// set, this re-anchors the scan's full reach, matching how a rider
// stranded mid-journey at day's end actually continues the next day.
func reachedStopTimes(t *Timetable, sr *ScanResult, delta int) map[StopID]int {
	next := make(map[StopID]int)
	for ix, id := range t.stopIDs {
		v := sr.bestArrival[ix]
		if v == worstForward || v == worstReverse {
			continue
		}
		next[id] = v + delta
	}
	return next
}

// stitchDayStack normalizes a journey found on a stacked day back onto
// the originally requested day's clock, joining on a continuation from
// each previously stacked day along the way. Day index i's local times
// (i counted from the originally requested day, which is day 0) convert
// to day-0's axis by shifting +i*dayRollover (forward) or -i*dayRollover
// (reverse) — the same convention GTFS itself uses for HH>=24 overnight
// times, just carried across calendar days instead of within one.
//
// dayStack holds one ScanResult per day that was tried and failed
// before the day that finally produced journey, in the order they were
// scanned (dayStack[i] is day i). Each stacked day's ScanResult still
// holds the connections that reached the stop where the next day's
// journey picks up, so a partial journey ending there (forward) or
// starting there (reverse) is extracted from it and joined on.
func stitchDayStack(direction ScanDirection, journey Journey, dayStack []*ScanResult, dayRollover int) Journey {
	finalDay := len(dayStack)
	sign := 1
	if direction == Reverse {
		sign = -1
	}

	full := shiftJourney(journey, sign*finalDay*dayRollover)

	for i := finalDay - 1; i >= 0; i-- {
		var stitchStop StopID
		if direction == Forward {
			stitchStop = full.Legs[0].BoardStop
		} else {
			stitchStop = full.Legs[len(full.Legs)-1].AlightStop
		}

		partial, ok := ExtractJourney(dayStack[i], stitchStop)
		if !ok {
			break
		}
		partial = shiftJourney(partial, sign*i*dayRollover)

		if direction == Forward {
			full = concatJourneys(partial, full)
		} else {
			full = concatJourneys(full, partial)
		}
	}
	return full
}

func shiftJourney(j Journey, delta int) Journey {
	j.Depart += delta
	j.Arrive += delta
	for i := range j.Legs {
		j.Legs[i].BoardTime += delta
		j.Legs[i].AlightTime += delta
	}
	return j
}
