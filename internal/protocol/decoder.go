package protocol

import (
	"strconv"
	"strings"

	"github.com/vimpair/vimpair/internal/wire"
)

// MessageHandler is the streaming decoder side of the protocol: it turns
// an arbitrarily fragmented byte stream into decoded events dispatched
// to a Callbacks set. It is single-threaded and synchronous — Process
// runs to completion on the caller's goroutine and must not be
// re-entered from within a callback.
type MessageHandler struct {
	callbacks Callbacks
	leftover  string
	pending   pendingUpdate
}

// NewMessageHandler constructs a decoder dispatching to callbacks. A
// zero-value Callbacks is valid; every sink then behaves as a no-op.
func NewMessageHandler(callbacks Callbacks) *MessageHandler {
	return &MessageHandler{callbacks: callbacks}
}

// Process decodes chunks as a single delivery: passing several strings
// is equivalent to passing their concatenation in one call. Call
// Process repeatedly, once per chunk as it arrives off the wire, to get
// ordinary streaming behaviour — leftover state carries across separate
// Process calls, never across chunks joined within a single call.
func (h *MessageHandler) Process(chunks ...string) {
	h.processOne(strings.Join(chunks, ""))
}

func (h *MessageHandler) processOne(chunk string) {
	working := h.leftover + chunk

	takeControlPending := false
	if idx := strings.Index(working, string(wire.TakeControlMessage)); idx != -1 {
		working = working[:idx]
		takeControlPending = true
	}

	h.leftover = h.scan(working)

	if takeControlPending {
		h.callbacks.takeControl()
		h.pending.reset()
		h.leftover = ""
	}
}

// scan repeatedly locates the earliest occurrence of any recognised
// prefix and dispatches it, re-synchronising past a malformed frame's
// prefix rather than the whole buffer so a following well-formed frame
// still parses. It returns once no known prefix remains, or once the
// earliest one is waiting on bytes that have not arrived yet.
//
// Whenever a frame is dispatched (successfully or via malformed resync),
// whatever bytes sat ahead of it in buf are dropped rather than carried
// forward. Those bytes failed to contain any recognised prefix of their
// own — earliestPrefixMatch already searched the whole buffer and found
// nothing earlier — and since later chunks only ever extend buf at its
// tail, nothing arriving afterwards can reach back and complete them.
// A half-built frame fragment that is still sitting there once some
// other frame has been dispatched past it is stranded for good; keeping
// it around would let an unrelated later chunk complete it into a frame
// it was never actually part of.
func (h *MessageHandler) scan(buf string) string {
	for {
		prefix, idx, found := earliestPrefixMatch(buf)
		if !found {
			return buf
		}
		consumed, err := h.dispatch(buf, idx, prefix)
		switch {
		case err == nil:
			buf = buf[idx+consumed:]
		case err == errIncompleteFrame:
			return buf
		default: // errMalformedFrame
			buf = buf[idx+len(prefix):]
		}
	}
}

// dispatch parses and, on success, fully handles the frame matched at
// idx (firing callbacks and updating the pending-update accumulator).
// It reports errIncompleteFrame when the frame's payload has not fully
// arrived and errMalformedFrame when the bytes following the prefix are
// not well-formed.
func (h *MessageHandler) dispatch(buf string, idx int, prefix wire.Prefix) (consumed int, err error) {
	if prefix == wire.SaveFileMessage {
		h.callbacks.saveFile()
		return len(prefix), nil
	}

	if prefix == wire.CursorPositionPrefix {
		line, column, consumed, err := parseCursorPosition(buf, idx)
		if err != nil {
			return 0, err
		}
		h.pending.reset()
		h.callbacks.applyCursorPosition(line, column)
		return consumed, nil
	}

	payload, consumed, abandoned, err := parseLengthPrefixed(buf, idx, prefix)
	if err != nil {
		return 0, err
	}
	if abandoned {
		// A different recognised frame starts inside this frame's
		// declared payload window: the interrupting frame takes
		// priority and this one is never completed. Its bytes are
		// dropped without firing a callback; the scan loop will pick
		// up the interrupting frame on its next iteration.
		return consumed, nil
	}

	switch prefix {
	case wire.FullUpdatePrefix:
		h.pending.reset()
		h.callbacks.updateContents(payload)
	case wire.ContentsStartPrefix:
		h.pending.start(payload)
	case wire.ContentsPartPrefix:
		h.pending.add(payload)
	case wire.ContentsEndPrefix:
		if full, ok := h.pending.end(payload); ok {
			h.callbacks.updateContents(full)
		}
	case wire.FileChangePrefix:
		h.pending.reset()
		h.callbacks.fileChanged(payload)
	}
	return consumed, nil
}

// earliestPrefixMatch finds the earliest-occurring recognised prefix in
// buf, scanning the fixed alphabet of known markers.
func earliestPrefixMatch(buf string) (prefix wire.Prefix, idx int, found bool) {
	idx = -1
	for _, p := range wire.AllPrefixes {
		if i := strings.Index(buf, string(p)); i != -1 && (idx == -1 || i < idx) {
			idx = i
			prefix = p
		}
	}
	return prefix, idx, idx != -1
}

// earliestOtherPrefixIndex finds the earliest occurrence, within body,
// of any recognised prefix. Used to detect a frame whose declared
// payload window has been overrun by a distinct, genuinely-arrived
// frame — see the abandonment case in parseLengthPrefixed.
func earliestOtherPrefixIndex(body string) (idx int, found bool) {
	idx = -1
	for _, p := range wire.AllPrefixes {
		if i := strings.Index(body, string(p)); i != -1 && (idx == -1 || i < idx) {
			idx = i
		}
	}
	return idx, idx != -1
}

// leadingDigits returns the run of decimal digits at the start of s and
// whether that run is terminated by a non-digit byte. complete == false
// means s is entirely digits with no terminator yet observed, i.e. more
// of the run may still be arriving.
func leadingDigits(s string) (digits string, complete bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], i < len(s)
}

// parseLengthPrefixed parses "prefix|N|payload" starting at idx in buf.
//
// Three outcomes are possible:
//   - success: N bytes of payload are available and no other recognised
//     prefix starts within them; payload and the total bytes consumed
//     from idx are returned.
//   - abandoned: another recognised prefix starts before the declared
//     payload window ends. This frame can never be completed; consumed
//     covers only up to that interrupting prefix's start, and the
//     caller must not treat this as the frame's payload.
//   - error: errIncompleteFrame if the header or payload have not fully
//     arrived, errMalformedFrame if the bytes are not well-formed.
func parseLengthPrefixed(buf string, idx int, prefix wire.Prefix) (payload string, consumed int, abandoned bool, err error) {
	rest := buf[idx+len(prefix):]
	if rest == "" {
		return "", 0, false, errIncompleteFrame
	}
	if rest[0] != '|' {
		return "", 0, false, errMalformedFrame
	}
	rest = rest[1:]

	digits, complete := leadingDigits(rest)
	if !complete {
		return "", 0, false, errIncompleteFrame
	}
	if digits == "" || rest[len(digits)] != '|' {
		return "", 0, false, errMalformedFrame
	}
	n, convErr := strconv.Atoi(digits)
	if convErr != nil {
		return "", 0, false, errMalformedFrame
	}

	headerLen := len(prefix) + 1 + len(digits) + 1
	body := rest[len(digits)+1:]

	if otherIdx, found := earliestOtherPrefixIndex(body); found && otherIdx < n {
		return "", headerLen + otherIdx, true, nil
	}
	if len(body) < n {
		return "", 0, false, errIncompleteFrame
	}
	return body[:n], headerLen + n, false, nil
}

// parseCursorPosition parses "VIMPAIR_CURSOR_POSITION|L|C" starting at
// idx. L is terminated by its trailing '|' like any other length field;
// C has no such terminator on the wire, so it is taken as whatever
// digit run follows, which matches how a single-line cursor update is
// always delivered as a complete, unsplit frame in practice.
func parseCursorPosition(buf string, idx int) (line, column, consumed int, err error) {
	prefix := wire.CursorPositionPrefix
	rest := buf[idx+len(prefix):]
	if rest == "" {
		return 0, 0, 0, errIncompleteFrame
	}
	if rest[0] != '|' {
		return 0, 0, 0, errMalformedFrame
	}
	rest = rest[1:]

	lDigits, complete := leadingDigits(rest)
	if !complete {
		return 0, 0, 0, errIncompleteFrame
	}
	if lDigits == "" || rest[len(lDigits)] != '|' {
		return 0, 0, 0, errMalformedFrame
	}

	rest2 := rest[len(lDigits)+1:]
	if rest2 == "" {
		return 0, 0, 0, errIncompleteFrame
	}
	cDigits, _ := leadingDigits(rest2)
	if cDigits == "" {
		return 0, 0, 0, errMalformedFrame
	}

	l, lerr := strconv.Atoi(lDigits)
	c, cerr := strconv.Atoi(cDigits)
	if lerr != nil || cerr != nil {
		return 0, 0, 0, errMalformedFrame
	}

	consumed = len(prefix) + 1 + len(lDigits) + 1 + len(cDigits)
	return l, c, consumed, nil
}
