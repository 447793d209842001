// Package adapter defines the editor-side of vimpair: the out-of-scope
// collaborator the core decoder dispatches decoded events to, and the
// collaborator the encoder reads outbound state from. The core treats
// both directions purely through this interface; no editor-specific
// code lives in internal/protocol or internal/wire.
package adapter

// Adapter is implemented by whatever holds the actual editor buffer —
// a real editor's RPC bridge, or (as here) a reference implementation
// backed by a scratch directory on disk. The decoder's callback set is
// built directly from an Adapter's methods; see session.Dial and
// session.Accept.
type Adapter interface {
	// ApplyContentsUpdate replaces the local buffer with fullText.
	ApplyContentsUpdate(fullText string)

	// ApplyCursorPosition moves the cursor to zero-based (line, column).
	ApplyCursorPosition(line, column int)

	// SwitchToBuffer changes which file is considered current,
	// identified by the (possibly path-qualified) name the driver sent.
	SwitchToBuffer(filename string)

	// SaveCurrentFile persists the current buffer to disk.
	SaveCurrentFile() error

	// ShowStatusMessage surfaces a short, human-readable status update,
	// e.g. "took control" or "lost connection".
	ShowStatusMessage(message string)

	// CurrentContents delivers the full text of the buffer currently
	// being observed, for the driver side's outbound updates.
	CurrentContents() string

	// CurrentCursorPosition delivers the zero-based (line, column) of
	// the buffer currently being observed.
	CurrentCursorPosition() (line, column int)

	// CurrentFilename delivers the (possibly path-qualified) identifier
	// of the file currently being observed.
	CurrentFilename() (filename, folderpath string)
}
