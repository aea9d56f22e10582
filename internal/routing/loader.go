package routing

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Loader builds a Timetable from the PostGIS-backed schema: lines,
// stops, line_stops (ordered stop patterns per line/direction) and
// schedules (one row per trip per stop per day_type).
type Loader struct {
	db *pgxpool.Pool
}

func NewLoader(db *pgxpool.Pool) *Loader {
	return &Loader{db: db}
}

// dayTypeService maps the feed's coarse day_type bucket onto a Service
// weekday mask. The feed carries no per-date calendar exceptions, so
// Added/Removed stay empty; RunsOn falls through to the weekday rule.
func dayTypeService(dayType string) *Service {
	svc := &Service{
		ID:        dayType,
		StartDate: 0,
		EndDate:   99999999,
		Added:     map[Date]bool{},
		Removed:   map[Date]bool{},
	}
	switch dayType {
	case "saturday":
		svc.WeekdayMask = [7]bool{false, false, false, false, false, false, true}
	case "sunday":
		svc.WeekdayMask = [7]bool{true, false, false, false, false, false, false}
	default: // "weekday"
		svc.WeekdayMask = [7]bool{false, true, true, true, true, true, false}
	}
	return svc
}

// Load reads the full feed and prepares it into a routable Timetable.
// It never mutates the database; a failure while loading stops, trips
// or transfers is returned wrapped with the name of that stage, and
// PrepareTimetable's ErrMalformedFeed errors are returned unchanged.
func (l *Loader) Load(ctx context.Context, minInterchange int) (*Timetable, error) {
	start := time.Now()
	log.Println("loading timetable from database")

	services := map[string]*Service{
		"weekday":  dayTypeService("weekday"),
		"saturday": dayTypeService("saturday"),
		"sunday":   dayTypeService("sunday"),
	}

	stopDBToID, err := l.loadStopIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading stops: %w", err)
	}

	trips, err := l.loadTrips(ctx, stopDBToID, services)
	if err != nil {
		return nil, fmt.Errorf("loading trips: %w", err)
	}
	log.Printf("loaded %d trips", len(trips))

	transfers, err := l.loadTransfers(ctx, stopDBToID)
	if err != nil {
		return nil, fmt.Errorf("loading transfers: %w", err)
	}
	log.Printf("loaded transfers for %d origin stops", len(transfers))

	t, err := PrepareTimetable(RawTimetableInput{
		Trips:             trips,
		TransfersByOrigin: transfers,
		Services:          services,
		MinInterchange:    minInterchange,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("timetable prepared in %s", time.Since(start))
	return t, nil
}

func (l *Loader) loadStopIDs(ctx context.Context) (map[int]StopID, error) {
	rows, err := l.db.Query(ctx, "SELECT id, code FROM stops")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := map[int]StopID{}
	for rows.Next() {
		var dbID int
		var code string
		if err := rows.Scan(&dbID, &code); err != nil {
			return nil, err
		}
		ids[dbID] = StopID(code)
	}
	return ids, rows.Err()
}

// loadTrips groups line_stops by (line_id, direction) into ordered
// stop patterns, then materialises one Trip per (pattern, day_type,
// first-stop departure) from schedules.
func (l *Loader) loadTrips(ctx context.Context, stopDBToID map[int]StopID, services map[string]*Service) ([]*Trip, error) {
	patternRows, err := l.db.Query(ctx, "SELECT DISTINCT line_id, direction FROM line_stops")
	if err != nil {
		return nil, err
	}
	type pattern struct {
		lineID, direction int
	}
	var patterns []pattern
	for patternRows.Next() {
		var p pattern
		if err := patternRows.Scan(&p.lineID, &p.direction); err != nil {
			patternRows.Close()
			return nil, err
		}
		patterns = append(patterns, p)
	}
	patternRows.Close()

	var trips []*Trip
	for _, p := range patterns {
		var lineCode string
		err := l.db.QueryRow(ctx, "SELECT code FROM lines WHERE id=$1", p.lineID).Scan(&lineCode)
		if err != nil {
			log.Printf("skipping line %d: %v", p.lineID, err)
			continue
		}

		stopRows, err := l.db.Query(ctx,
			"SELECT stop_id FROM line_stops WHERE line_id=$1 AND direction=$2 ORDER BY stop_sequence",
			p.lineID, p.direction)
		if err != nil {
			return nil, err
		}
		var dbStopIDs []int
		var stopIDs []StopID
		for stopRows.Next() {
			var sid int
			if err := stopRows.Scan(&sid); err != nil {
				stopRows.Close()
				return nil, err
			}
			if rid, ok := stopDBToID[sid]; ok {
				dbStopIDs = append(dbStopIDs, sid)
				stopIDs = append(stopIDs, rid)
			}
		}
		stopRows.Close()
		if len(stopIDs) < 2 {
			continue
		}

		for dayType := range services {
			dayTrips, err := l.loadTripsForPattern(ctx, p.lineID, p.direction, lineCode, dayType, dbStopIDs, stopIDs)
			if err != nil {
				return nil, err
			}
			trips = append(trips, dayTrips...)
		}
	}
	return trips, nil
}

func (l *Loader) loadTripsForPattern(ctx context.Context, lineID, direction int, lineCode, dayType string, dbStopIDs []int, stopIDs []StopID) ([]*Trip, error) {
	rows, err := l.db.Query(ctx, `
		SELECT stop_id, departure_time FROM schedules
		WHERE line_id=$1 AND direction=$2 AND day_type=$3
		ORDER BY departure_time
	`, lineID, direction, dayType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// The first stop's scheduled departures enumerate the day's trips;
	// downstream stop times are derived from it since the feed doesn't
	// carry per-stop schedules for every position in the pattern.
	firstStopDB := dbStopIDs[0]
	var trips []*Trip
	tripSeq := 0
	for rows.Next() {
		var stopID int
		var depart string
		if err := rows.Scan(&stopID, &depart); err != nil {
			return nil, err
		}
		if stopID != firstStopDB {
			continue
		}
		startSecs, err := ParseGTFSTime(depart)
		if err != nil {
			return nil, fmt.Errorf("%w: bad schedule time %q: %v", ErrMalformedFeed, depart, err)
		}

		stopTimes := make([]StopTime, len(stopIDs))
		cur := startSecs
		for i, sid := range stopIDs {
			stopTimes[i] = StopTime{
				StopID:        sid,
				ArrivalTime:   cur,
				DepartureTime: cur,
				StopSequence:  i,
			}
			cur += 180 // no inter-stop running times in the feed; 3-minute default hop
		}

		tripSeq++
		trips = append(trips, &Trip{
			ID:          fmt.Sprintf("%s-%d-%s-%d", lineCode, direction, dayType, tripSeq),
			RouteID:     lineCode,
			DirectionID: direction,
			ServiceID:   dayType,
			StopTimes:   stopTimes,
		})
	}
	return trips, rows.Err()
}

// loadTransfers pulls stop pairs within walking distance from PostGIS
// and turns them into directed Transfer edges in both directions.
func (l *Loader) loadTransfers(ctx context.Context, stopDBToID map[int]StopID) (map[StopID][]Transfer, error) {
	rows, err := l.db.Query(ctx, `
		SELECT s1.id, s2.id, ST_Distance(s1.location::geography, s2.location::geography)
		FROM stops s1
		JOIN stops s2 ON ST_DWithin(s1.location::geography, s2.location::geography, 300)
		WHERE s1.id != s2.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transfers := map[StopID][]Transfer{}
	for rows.Next() {
		var id1, id2 int
		var dist float64
		if err := rows.Scan(&id1, &id2, &dist); err != nil {
			return nil, err
		}
		origin, ok1 := stopDBToID[id1]
		dest, ok2 := stopDBToID[id2]
		if !ok1 || !ok2 {
			continue
		}
		transfers[origin] = append(transfers[origin], Transfer{
			OriginStopID:      origin,
			DestinationStopID: dest,
			Duration:          int(dist), // 1 m/s walking-speed approximation
		})
	}
	return transfers, rows.Err()
}
