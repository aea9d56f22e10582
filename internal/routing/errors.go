package routing

import "errors"

// ErrMalformedFeed is returned by timetable preparation when the loaded
// data violates an invariant the scanner depends on (non-monotonic
// stop-times, a trip with fewer than two stop-times, an unresolved
// service). Preparation refuses to produce a Timetable when this occurs.
var ErrMalformedFeed = errors.New("routing: malformed feed")

// ErrNoRematch is returned by Timetable.ReMatch when no trip realises
// the requested leg's stop subsequence at or around the anchor time.
// The caller's prior journey is left unchanged.
var ErrNoRematch = errors.New("routing: no matching trip for leg")

// ErrInvalidSubsequence signals a leg descriptor whose stop sequence has
// fewer than two stops and so cannot describe a ride. ReMatch fails the
// whole request on it, reporting it inside its ErrNoRematch error; it is
// never silently corrected.
var ErrInvalidSubsequence = errors.New("routing: invalid stop subsequence")
