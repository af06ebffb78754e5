package vlist

type trackerState int

const (
	trackerIdle trackerState = iota
	trackerApplying
)

// FrameToken identifies a scheduled frame callback. Tokens from a closed or
// superseded tracker epoch are ignored.
type FrameToken struct {
	epoch uint64
	seq   uint64
}

// ScrollTracker republishes scroll offsets at most once per frame. Offsets
// observed while an update is in flight are coalesced and the latest one wins;
// offsets equal to the last published value are dropped, which keeps spacer
// resizes from looping back as scroll events.
type ScrollTracker struct {
	state   trackerState
	last    float64
	pending float64
	epoch   uint64
	seq     uint64
	closed  bool
}

// NewScrollTracker returns a live tracker with the given starting offset.
func NewScrollTracker(initial float64) *ScrollTracker {
	return &ScrollTracker{last: initial, pending: initial, epoch: 1}
}

// Last returns the most recently published offset.
func (t *ScrollTracker) Last() float64 { return t.last }

// Pending returns the offset the outstanding frame will publish, or Last when
// no frame is outstanding.
func (t *ScrollTracker) Pending() float64 {
	if t.state == trackerApplying {
		return t.pending
	}
	return t.last
}

// Applying reports whether a frame is outstanding.
func (t *ScrollTracker) Applying() bool { return t.state == trackerApplying }

// Observe records a raw scroll offset. When it returns true the caller must
// schedule a frame that calls Frame with the returned token.
func (t *ScrollTracker) Observe(offset float64) (FrameToken, bool) {
	if t.closed {
		return FrameToken{}, false
	}
	if t.state == trackerApplying {
		t.pending = offset
		return FrameToken{}, false
	}
	if offset == t.last {
		return FrameToken{}, false
	}
	t.pending = offset
	t.state = trackerApplying
	t.seq++
	return FrameToken{epoch: t.epoch, seq: t.seq}, true
}

// Frame applies the pending offset. ok is false for stale tokens, after
// Close, or when the offset ended where it started.
func (t *ScrollTracker) Frame(token FrameToken) (float64, bool) {
	if t.closed || token.epoch != t.epoch || token.seq != t.seq || t.state != trackerApplying {
		return t.last, false
	}
	t.state = trackerIdle
	if t.pending == t.last {
		return t.last, false
	}
	t.last = t.pending
	return t.last, true
}

// Reset forces the published offset, e.g. after a programmatic scroll, and
// invalidates any outstanding frame.
func (t *ScrollTracker) Reset(offset float64) {
	t.epoch++
	t.state = trackerIdle
	t.last = offset
	t.pending = offset
}

// Rebase moves the published offset, e.g. when a resize shrinks the scroll
// range, without dropping an outstanding frame or the offset it will apply.
func (t *ScrollTracker) Rebase(offset float64) {
	t.last = offset
	if t.state != trackerApplying {
		t.pending = offset
	}
}

// Close tears the tracker down. Frames that fire afterwards are no-ops.
func (t *ScrollTracker) Close() {
	t.closed = true
	t.state = trackerIdle
	t.epoch++
}

// Closed reports whether Close was called.
func (t *ScrollTracker) Closed() bool { return t.closed }
