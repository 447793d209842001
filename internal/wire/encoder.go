package wire

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
)

// GenerateContentsUpdateMessages builds the ordered sequence of wire
// frames that reproduce contents on the receiving side. A nil contents
// (no update at all) yields no messages; an empty string still yields
// a single, empty FULL_UPDATE frame — these are deliberately distinct.
//
// When contents fits within a single FULL_UPDATE payload the result is
// one frame. Otherwise the result starts with CONTENTS_START, is
// followed by zero or more CONTENTS_PART frames, and ends with
// CONTENTS_END; concatenating the payloads in order reproduces
// contents exactly.
func GenerateContentsUpdateMessages(contents *string) []string {
	if contents == nil {
		return nil
	}
	c := *contents
	total := len(c)

	numParts := numberOfParts(total)
	messages := make([]string, 0, numParts)
	for index := 0; index < numParts; index++ {
		prefix := partPrefix(index, numParts)
		size := partSize(total, index, numParts)
		messages = append(messages, fmt.Sprintf("%s|%d|%s", prefix, size, c[:size]))
		c = c[size:]
	}
	return messages
}

// numberOfParts computes how many frames are needed to carry contents
// of the given byte length, per the capacity reserved for CONTENTS_START
// and CONTENTS_PART/CONTENTS_END bodies.
func numberOfParts(length int) int {
	if length <= contentsStartCapacity {
		return 1
	}
	remaining := length - contentsStartCapacity
	parts := 1 + remaining/contentsPartCapacity
	if remaining%contentsPartCapacity > 0 {
		parts++
	}
	return parts
}

func partPrefix(index, numParts int) Prefix {
	if numParts == 1 {
		return FullUpdatePrefix
	}
	switch index {
	case 0:
		return ContentsStartPrefix
	case numParts - 1:
		return ContentsEndPrefix
	default:
		return ContentsPartPrefix
	}
}

func partSize(total, index, numParts int) int {
	if numParts == 1 {
		return total
	}
	switch index {
	case 0:
		return contentsStartCapacity
	case numParts - 1:
		size := (total - contentsStartCapacity) % contentsPartCapacity
		if size == 0 {
			size = contentsPartCapacity
		}
		return size
	default:
		return contentsPartCapacity
	}
}

// GenerateCursorPositionMessage builds a VIMPAIR_CURSOR_POSITION frame.
// Negative coordinates are clamped to 0.
func GenerateCursorPositionMessage(line, column int) string {
	if line < 0 {
		line = 0
	}
	if column < 0 {
		column = 0
	}
	return fmt.Sprintf("%s|%d|%d", CursorPositionPrefix, line, column)
}

// GenerateFileChangeMessage builds a VIMPAIR_FILE_CHANGE frame. The
// filename is trimmed of surrounding whitespace; if it is empty the
// payload is empty regardless of folderpath. When folderpath is
// supplied, the payload is folderpath/filename, or the SHA-224 hex
// digest of folderpath joined with filename when concealPath is set.
// Filename itself is never hashed.
func GenerateFileChangeMessage(filename, folderpath string, concealPath bool) string {
	name := strings.TrimSpace(filename)
	contents := name
	if name != "" && folderpath != "" {
		dir := folderpath
		if concealPath {
			sum := sha256.Sum224([]byte(folderpath))
			dir = hex.EncodeToString(sum[:])
		}
		contents = path.Join(dir, name)
	}
	return fmt.Sprintf("%s|%d|%s", FileChangePrefix, len(contents), contents)
}

// GenerateSaveFileMessage builds the bare VIMPAIR_SAVE_FILE directive.
func GenerateSaveFileMessage() string {
	return string(SaveFileMessage)
}

// GenerateTakeControlMessage builds the bare VIMPAIR_TAKE_CONTROL directive.
func GenerateTakeControlMessage() string {
	return string(TakeControlMessage)
}
