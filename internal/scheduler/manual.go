package scheduler

// ManualSource is a FrameSource driven by its owner. It remembers the
// outstanding request so a virtual clock can deliver it.
type ManualSource struct {
	pending   uint64
	Requests  int
	Cancelled int
}

func NewManualSource() *ManualSource {
	return &ManualSource{}
}

func (m *ManualSource) RequestFrame(id uint64) {
	m.pending = id
	m.Requests++
}

func (m *ManualSource) CancelFrame(id uint64) {
	if m.pending == id {
		m.pending = 0
	}
	m.Cancelled++
}

// Pending returns the outstanding request ID, or 0.
func (m *ManualSource) Pending() uint64 { return m.pending }

// Fire builds the frame for the outstanding request at timestamp ts and
// clears it. ok is false when nothing was requested.
func (m *ManualSource) Fire(ts float64) (f Frame, ok bool) {
	if m.pending == 0 {
		return Frame{}, false
	}
	f = Frame{ID: m.pending, Timestamp: ts}
	m.pending = 0
	return f, true
}
