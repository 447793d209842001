package protocol

import "github.com/pkg/errors"

// errMalformedFrame is returned internally by a per-frame handler when
// the bytes following a matched prefix do not form a well-formed frame
// (missing or non-digit length, missing separator).
// It never escapes MessageHandler.Process: the scan loop catches it and
// advances past the matched prefix to resynchronise. It exists purely
// as internal control flow, wrapped with github.com/pkg/errors so a
// trace hook could log a cause chain without the caller ever seeing it.
var errMalformedFrame = errors.New("malformed frame")

// errIncompleteFrame is returned when a prefix has matched but its
// declared payload has not fully arrived yet. This is not an error
// condition from the caller's point of view — the frame's bytes are
// retained as leftover and retried once more of the stream arrives.
var errIncompleteFrame = errors.New("incomplete frame")
