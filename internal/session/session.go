// Package session is the control-handoff glue between a transport.Conn
// and an adapter.Adapter: it builds the protocol.Callbacks a connection
// dispatches decoded frames to, tracks which side currently holds
// control, and exposes outbound sends built from internal/wire's
// encoder functions.
package session

import (
	"context"
	"sync/atomic"

	"github.com/vimpair/vimpair/internal/adapter"
	"github.com/vimpair/vimpair/internal/protocol"
	"github.com/vimpair/vimpair/internal/transport"
	"github.com/vimpair/vimpair/internal/wire"
)

// Session pairs a live transport.Conn with the adapter.Adapter backing
// its local buffer, and tracks control ownership. A Session is safe for
// concurrent use: InControl/TakeControl may be called from a different
// goroutine than the one driving outbound sends.
type Session struct {
	conn        *transport.Conn
	adapter     adapter.Adapter
	concealPath bool
	inControl   atomic.Bool
}

// Dial connects out to addr (the driver side's role) and wires the
// resulting connection to a freshly built Session.
func Dial(ctx context.Context, dialer *transport.Dialer, addr string, a adapter.Adapter, concealPath bool) (*Session, error) {
	s := &Session{adapter: a, concealPath: concealPath}
	handler := protocol.NewMessageHandler(s.callbacks())
	conn, err := dialer.Dial(ctx, addr, handler)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	return s, nil
}

// Accept waits for the next inbound connection on ln (the follower
// side's role) and wires it to a freshly built Session.
func Accept(ctx context.Context, ln *transport.Listener, a adapter.Adapter, concealPath bool) (*Session, error) {
	s := &Session{adapter: a, concealPath: concealPath}
	conn, err := ln.Accept(ctx, func() *protocol.MessageHandler {
		return protocol.NewMessageHandler(s.callbacks())
	})
	if err != nil {
		return nil, err
	}
	s.conn = conn
	return s, nil
}

func (s *Session) callbacks() protocol.Callbacks {
	return protocol.Callbacks{
		UpdateContents:      s.adapter.ApplyContentsUpdate,
		ApplyCursorPosition: s.adapter.ApplyCursorPosition,
		FileChanged:         s.adapter.SwitchToBuffer,
		TakeControl: func() {
			s.inControl.Store(true)
			s.adapter.ShowStatusMessage("took control")
		},
		SaveFile: func() {
			if err := s.adapter.SaveCurrentFile(); err != nil {
				s.adapter.ShowStatusMessage(err.Error())
			}
		},
	}
}

// InControl reports whether this side currently owns the cursor, i.e.
// whether a VIMPAIR_TAKE_CONTROL frame has been received from the peer.
func (s *Session) InControl() bool {
	return s.inControl.Load()
}

// TakeControl records that this side now holds control and announces
// it to the peer.
func (s *Session) TakeControl() error {
	s.inControl.Store(true)
	return s.conn.Send(wire.GenerateTakeControlMessage())
}

// SendFullUpdate sends the adapter's current buffer contents, split
// across as many frames as GenerateContentsUpdateMessages requires.
func (s *Session) SendFullUpdate() error {
	contents := s.adapter.CurrentContents()
	for _, message := range wire.GenerateContentsUpdateMessages(&contents) {
		if err := s.conn.Send(message); err != nil {
			return err
		}
	}
	return nil
}

// SendCursorPosition announces the adapter's current cursor position.
func (s *Session) SendCursorPosition() error {
	line, column := s.adapter.CurrentCursorPosition()
	return s.conn.Send(wire.GenerateCursorPositionMessage(line, column))
}

// SendFileChange announces the adapter's current filename, hashing the
// folder component first when the session was built with concealPath.
func (s *Session) SendFileChange() error {
	filename, folderpath := s.adapter.CurrentFilename()
	return s.conn.Send(wire.GenerateFileChangeMessage(filename, folderpath, s.concealPath))
}

// SendSaveFile requests that the peer persist its current buffer.
func (s *Session) SendSaveFile() error {
	return s.conn.Send(wire.GenerateSaveFileMessage())
}

// RemoteAddr delivers the address of the connected peer.
func (s *Session) RemoteAddr() string {
	return s.conn.RemoteAddr()
}

// Wait blocks until the underlying connection's read loop exits.
func (s *Session) Wait() error {
	return s.conn.Wait()
}

// Close tears down the underlying connection.
func (s *Session) Close() error {
	return s.conn.Close()
}
