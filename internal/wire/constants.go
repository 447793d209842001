// Package wire defines the vimpair frame alphabet and the pure,
// stateless functions that encode editor events into wire messages.
//
// All frames are ASCII text. Three shapes exist: length-prefixed
// payloads (PREFIX|N|<N bytes>), the two-integer cursor-position
// frame, and the two bare directives. See the protocol package for
// the receive-side counterpart.
package wire

// Prefix identifies one of the eight frame kinds. Six of them carry a
// body after the marker; the two bare directives (TakeControl,
// SaveFile) are complete messages in themselves and are exported as
// constants alongside them.
type Prefix string

// The full, closed set of frame prefixes recognised on the wire.
const (
	FullUpdatePrefix     Prefix = "VIMPAIR_FULL_UPDATE"
	ContentsStartPrefix  Prefix = "VIMPAIR_CONTENTS_START"
	ContentsPartPrefix   Prefix = "VIMPAIR_CONTENTS_PART"
	ContentsEndPrefix    Prefix = "VIMPAIR_CONTENTS_END"
	CursorPositionPrefix Prefix = "VIMPAIR_CURSOR_POSITION"
	FileChangePrefix     Prefix = "VIMPAIR_FILE_CHANGE"
	TakeControlMessage   Prefix = "VIMPAIR_TAKE_CONTROL"
	SaveFileMessage      Prefix = "VIMPAIR_SAVE_FILE"
)

// AllPrefixes lists the frame markers the decoder's scan loop searches
// for the earliest occurrence of. TakeControlMessage is not among them:
// Process splits on it before the scan loop runs. Order does not affect correctness (the scan picks whichever
// position is smallest) but keeps iteration deterministic.
var AllPrefixes = []Prefix{
	FullUpdatePrefix,
	ContentsStartPrefix,
	ContentsPartPrefix,
	ContentsEndPrefix,
	CursorPositionPrefix,
	FileChangePrefix,
	SaveFileMessage,
}

// MessageLength is the nominal transport-buffer size in bytes. The
// encoder packs chunked content so that every emitted frame fits in a
// single buffer of this size.
const MessageLength = 1024

// lengthDigitsAndMarkers accounts for the two '|' separators plus three
// reserved decimal digits for the length field, reserved by the
// chunking encoder when computing per-part payload capacity.
const lengthDigitsAndMarkers = 3 + 2

// contentsStartCapacity and contentsPartCapacity are the maximum
// payload sizes (bytes) the encoder places in a CONTENTS_START and in a
// CONTENTS_PART/CONTENTS_END frame respectively, so that the full wire
// frame never exceeds MessageLength.
var (
	contentsStartCapacity = MessageLength - len(ContentsStartPrefix) - lengthDigitsAndMarkers
	contentsPartCapacity  = MessageLength - len(ContentsPartPrefix) - lengthDigitsAndMarkers
)
