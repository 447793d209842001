// Package filebuffer is the reference Adapter implementation: an
// in-memory buffer written to a scratch file on disk when
// SaveCurrentFile is called, standing in for a real editor's RPC bridge.
package filebuffer

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Adapter holds the mirrored buffer in memory; SaveCurrentFile writes it
// to dir under the base name of the current filename. It is safe
// for concurrent use: the decoder invokes its methods synchronously
// from Process, but status/read access may happen from another
// goroutine (e.g. a CLI status line).
type Adapter struct {
	dir string
	log func(message string)

	mu       sync.RWMutex
	contents string
	line     int
	column   int
	filename string
	folder   string
}

// New builds an Adapter rooted at dir. An empty dir falls back to the
// OS default temp directory. log receives status messages; pass nil
// to discard them.
func New(dir string, log func(message string)) *Adapter {
	if dir == "" {
		dir = os.TempDir()
	}
	if log == nil {
		log = func(string) {}
	}
	return &Adapter{dir: dir, log: log, filename: "untitled"}
}

func (a *Adapter) ApplyContentsUpdate(fullText string) {
	a.mu.Lock()
	a.contents = fullText
	a.mu.Unlock()
}

func (a *Adapter) ApplyCursorPosition(line, column int) {
	a.mu.Lock()
	a.line, a.column = line, column
	a.mu.Unlock()
}

func (a *Adapter) SwitchToBuffer(filename string) {
	a.mu.Lock()
	a.filename = filename
	a.mu.Unlock()
	a.log("switched to " + filename)
}

func (a *Adapter) SaveCurrentFile() error {
	a.mu.RLock()
	contents, filename := a.contents, a.filename
	a.mu.RUnlock()

	if filename == "" {
		filename = "untitled"
	}
	path := filepath.Join(a.dir, filepath.Base(filename))
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return errors.Wrapf(err, "filebuffer: save %s", path)
	}
	a.log("saved " + path)
	return nil
}

func (a *Adapter) ShowStatusMessage(message string) {
	a.log(message)
}

func (a *Adapter) CurrentContents() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.contents
}

func (a *Adapter) CurrentCursorPosition() (line, column int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.line, a.column
}

func (a *Adapter) CurrentFilename() (filename, folderpath string) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.filename, a.folder
}

// SetCurrentFile lets a driver-side caller record what it is currently
// observing, so subsequent outbound FileChange announcements carry the
// right name. It is not part of the Adapter interface: only the
// driving side (which owns the real editor state) calls it.
func (a *Adapter) SetCurrentFile(filename, folderpath string) {
	a.mu.Lock()
	a.filename, a.folder = filename, folderpath
	a.mu.Unlock()
}

// SetCurrentContents lets a driver-side caller record the latest buffer
// snapshot to be sent out, analogous to SetCurrentFile.
func (a *Adapter) SetCurrentContents(contents string) {
	a.mu.Lock()
	a.contents = contents
	a.mu.Unlock()
}
