package wire

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContentsUpdateMessages_NilIsEmpty(t *testing.T) {
	msgs := GenerateContentsUpdateMessages(nil)
	assert.Empty(t, msgs)
}

func TestGenerateContentsUpdateMessages_EmptyStringIsSingleEmptyFullUpdate(t *testing.T) {
	empty := ""
	msgs := GenerateContentsUpdateMessages(&empty)
	require.Len(t, msgs, 1)
	assert.Equal(t, "VIMPAIR_FULL_UPDATE|0|", msgs[0])
}

func TestGenerateContentsUpdateMessages_SmallContentsIsSingleFullUpdate(t *testing.T) {
	contents := "Some Contents."
	msgs := GenerateContentsUpdateMessages(&contents)
	require.Len(t, msgs, 1)
	assert.Equal(t, "VIMPAIR_FULL_UPDATE|14|Some Contents.", msgs[0])
}

func TestGenerateContentsUpdateMessages_Reassembly(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"justUnderStartCapacity", contentsStartCapacity - 1},
		{"exactlyStartCapacity", contentsStartCapacity},
		{"justOverStartCapacity", contentsStartCapacity + 1},
		{"exactlyStartPlusOnePart", contentsStartCapacity + contentsPartCapacity},
		{"exactlyStartPlusTwoParts", contentsStartCapacity + 2*contentsPartCapacity},
		{"startPlusPartPlusRemainder", contentsStartCapacity + contentsPartCapacity + 17},
		{"fiftyPartsPlusRemainder", contentsStartCapacity + 50*contentsPartCapacity + 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contents := strings.Repeat("x", tt.length)
			msgs := GenerateContentsUpdateMessages(&contents)

			var rebuilt strings.Builder
			for i, msg := range msgs {
				assert.LessOrEqual(t, len(msg), MessageLength, "message %d exceeds MessageLength", i)
				payload := payloadOf(t, msg)
				rebuilt.WriteString(payload)
			}
			assert.Equal(t, contents, rebuilt.String())

			if tt.length <= contentsStartCapacity {
				assert.True(t, strings.HasPrefix(msgs[0], string(FullUpdatePrefix)))
				require.Len(t, msgs, 1)
			} else {
				assert.True(t, strings.HasPrefix(msgs[0], string(ContentsStartPrefix)))
				assert.True(t, strings.HasPrefix(msgs[len(msgs)-1], string(ContentsEndPrefix)))
			}
		})
	}
}

// payloadOf strips "PREFIX|N|" from a generated message, returning
// everything after the second '|'; N itself is not checked.
func payloadOf(t *testing.T, msg string) string {
	t.Helper()
	parts := strings.SplitN(msg, "|", 3)
	require.Len(t, parts, 3)
	return parts[2]
}

func TestGenerateCursorPositionMessage_ClampsNegatives(t *testing.T) {
	assert.Equal(t, "VIMPAIR_CURSOR_POSITION|22|33", GenerateCursorPositionMessage(22, 33))
	assert.Equal(t, "VIMPAIR_CURSOR_POSITION|0|0", GenerateCursorPositionMessage(-5, -1))
	assert.Equal(t, "VIMPAIR_CURSOR_POSITION|0|4", GenerateCursorPositionMessage(-1, 4))
}

func TestGenerateFileChangeMessage(t *testing.T) {
	assert.Equal(t, "VIMPAIR_FILE_CHANGE|0|", GenerateFileChangeMessage("   ", "", false))
	assert.Equal(t, "VIMPAIR_FILE_CHANGE|7|main.go", GenerateFileChangeMessage(" main.go ", "", false))

	withFolder := GenerateFileChangeMessage("main.go", "/srv/project", false)
	assert.Equal(t, "VIMPAIR_FILE_CHANGE|20|/srv/project/main.go", withFolder)

	concealed := GenerateFileChangeMessage("main.go", "/srv/project", true)
	sum := sha256.Sum224([]byte("/srv/project"))
	expectedDir := hex.EncodeToString(sum[:])
	expectedPayload := expectedDir + "/main.go"
	assert.Equal(t, "VIMPAIR_FILE_CHANGE|"+strconv.Itoa(len(expectedPayload))+"|"+expectedPayload, concealed)
}

func TestGenerateSaveFileMessage(t *testing.T) {
	assert.Equal(t, "VIMPAIR_SAVE_FILE", GenerateSaveFileMessage())
}

func TestGenerateTakeControlMessage(t *testing.T) {
	assert.Equal(t, "VIMPAIR_TAKE_CONTROL", GenerateTakeControlMessage())
}
