package protocol

// Callbacks is the sink set a MessageHandler dispatches decoded events
// to. Every field is optional; a nil field behaves as a no-op, a
// composable hook record rather than requiring callers to implement a
// full interface.
type Callbacks struct {
	// UpdateContents replaces the follower's buffer with fullText.
	UpdateContents func(fullText string)

	// ApplyCursorPosition moves the cursor to zero-based (line, column).
	ApplyCursorPosition func(line, column int)

	// TakeControl fires when the peer has relinquished control to us.
	TakeControl func()

	// FileChanged fires when the driver switches to a different file.
	FileChanged func(filename string)

	// SaveFile fires when the driver requests the current buffer be
	// persisted to disk.
	SaveFile func()
}

func (c Callbacks) updateContents(fullText string) {
	if c.UpdateContents != nil {
		c.UpdateContents(fullText)
	}
}

func (c Callbacks) applyCursorPosition(line, column int) {
	if c.ApplyCursorPosition != nil {
		c.ApplyCursorPosition(line, column)
	}
}

func (c Callbacks) takeControl() {
	if c.TakeControl != nil {
		c.TakeControl()
	}
}

func (c Callbacks) fileChanged(filename string) {
	if c.FileChanged != nil {
		c.FileChanged(filename)
	}
}

func (c Callbacks) saveFile() {
	if c.SaveFile != nil {
		c.SaveFile()
	}
}
