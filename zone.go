package rfcmark

import "fmt"

// Zone is one of the three top-level regions of an xml2rfc document.
type Zone int

const (
	ZoneFront Zone = iota // <front>
	ZoneBody              // <middle>
	ZoneBack              // <back>
)

var zoneNames = []string{
	ZoneFront: "front",
	ZoneBody:  "body",
	ZoneBack:  "back",
}

func (z Zone) String() string {
	if z < ZoneFront || z > ZoneBack {
		return fmt.Sprintf("Zone(%d)", int(z))
	}
	return zoneNames[z]
}

// element is the xml2rfc element enclosing the zone.
func (z Zone) element() string {
	switch z {
	case ZoneBody:
		return "middle"
	case ZoneBack:
		return "back"
	}
	return "front"
}

// ZoneTracker holds the zone of a single conversion. Transitions are
// monotonic: front, body, back; a zone once left is never re-entered.
//
// Besides the current zone the tracker remembers a pending target set by
// Provisional. Until a real transition into the same zone confirms the split
// point, the pending target is where the document will be after
// reconciliation, so transitions out of it and the final close are computed
// from it.
type ZoneTracker struct {
	current Zone
	pending Zone
	opened  bool
	closed  bool
}

// NewZoneTracker returns a tracker positioned in front matter.
func NewZoneTracker() *ZoneTracker {
	return &ZoneTracker{current: ZoneFront, pending: ZoneFront}
}

// Current returns the confirmed zone.
func (t *ZoneTracker) Current() Zone { return t.current }

// effective is the zone the stream will be in once reconciled.
func (t *ZoneTracker) effective() Zone {
	if t.pending > t.current {
		return t.pending
	}
	return t.current
}

// Open returns the marker opening front matter. Only the first call yields a
// marker.
func (t *ZoneTracker) Open() (bool, Fragment) {
	if t.opened {
		return false, Fragment{}
	}
	t.opened = true
	return true, Fragment{Kind: FragmentOpen, To: ZoneFront}
}

// RequestTransition moves to zone to if it is strictly later than the current
// zone and returns the close/open marker. Probing with a zone already reached
// is not an error, it returns false and no marker.
func (t *ZoneTracker) RequestTransition(to Zone) (bool, Fragment) {
	if t.closed || to <= t.current {
		return false, Fragment{}
	}
	from := t.current
	if t.pending > t.current && t.pending < to {
		// the provisional split will be promoted, we leave from there
		from = t.pending
	}
	t.current, t.pending = to, to
	return true, Fragment{Kind: FragmentTransition, From: from, To: to}
}

// Provisional records that the stream may move to zone to at this point,
// without knowing yet. The marker is settled by Reconcile: dropped if a real
// transition into to follows, promoted otherwise.
func (t *ZoneTracker) Provisional(to Zone) (bool, Fragment) {
	if t.closed || to <= t.effective() {
		return false, Fragment{}
	}
	from := t.current
	t.pending = to
	return true, Fragment{Kind: FragmentProvisional, From: from, To: to}
}

// Withdraw drops the pending target set by Provisional. It reports whether
// there was one; the caller removes the marker from the stream.
func (t *ZoneTracker) Withdraw() bool {
	if t.closed || t.pending <= t.current {
		return false
	}
	t.pending = t.current
	return true
}

// Close returns the single marker closing whichever zone is still open.
func (t *ZoneTracker) Close() (bool, Fragment) {
	if t.closed {
		return false, Fragment{}
	}
	t.closed = true
	return true, Fragment{Kind: FragmentClose, From: t.effective()}
}
