package protocol

import "bytes"

// pendingUpdate accumulates the payload of a multi-frame CONTENTS_START
// / CONTENTS_PART* / CONTENTS_END sequence. It owns a single growable
// buffer rather than a chain of small ones, per the Design Notes:
// reset truncates instead of reallocating so the buffer's backing array
// is reused across successive content updates.
type pendingUpdate struct {
	buf    bytes.Buffer
	active bool
}

// start begins a new accumulation, replacing any previous one in
// progress (a second CONTENTS_START mid-sequence replaces the pending
// accumulator rather than cancelling it).
func (p *pendingUpdate) start(contents string) {
	p.buf.Reset()
	p.buf.WriteString(contents)
	p.active = true
}

// add appends to the in-progress accumulation; a no-op when nothing is
// pending (e.g. a stray CONTENTS_PART with no preceding START).
func (p *pendingUpdate) add(contents string) {
	if !p.active {
		return
	}
	p.buf.WriteString(contents)
}

// end appends the final payload and, when an accumulation was active,
// returns the complete contents and true. Regardless of whether an
// accumulation was active, the accumulator is reset.
func (p *pendingUpdate) end(contents string) (full string, ok bool) {
	defer p.reset()
	if !p.active {
		return "", false
	}
	p.buf.WriteString(contents)
	return p.buf.String(), true
}

// reset discards any in-progress accumulation without invoking a
// callback. Used whenever an interrupting frame cancels the sequence.
func (p *pendingUpdate) reset() {
	p.buf.Reset()
	p.active = false
}
