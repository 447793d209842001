// Package transport provides the plain TCP carrier that feeds chunks
// into a protocol.MessageHandler and serialises outbound wire messages
// back onto the socket. It is deliberately thin: the wire alphabet and
// decode state machine live entirely in internal/protocol.
package transport

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vimpair/vimpair/internal/protocol"
	"github.com/vimpair/vimpair/internal/wire"
)

// readBufferSize matches the nominal transport-buffer size the wire
// encoder packs messages to; it is not a hard framing boundary, just a
// reasonable per-Read allocation.
const readBufferSize = wire.MessageLength

// Conn wraps a net.Conn, driving a background goroutine that reads
// chunks off the socket and feeds them to a protocol.MessageHandler,
// and a Send method that serialises writes. Conn owns no protocol
// state of its own; that lives in the MessageHandler it was built
// with.
type Conn struct {
	ID uuid.UUID

	nc      net.Conn
	handler *protocol.MessageHandler
	trace   *Trace

	writeMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	closeOnce sync.Once
}

// newConn wires up a Conn around an already-established net.Conn. The
// caller must call Start to begin reading.
func newConn(ctx context.Context, nc net.Conn, handler *protocol.MessageHandler, trace *Trace) *Conn {
	if trace == nil {
		trace = &Trace{}
	}
	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)
	return &Conn{
		ID:      uuid.New(),
		nc:      nc,
		handler: handler,
		trace:   trace,
		ctx:     ctx,
		cancel:  cancel,
		group:   group,
	}
}

// Start launches the background read loop. Wait blocks until it exits.
func (c *Conn) Start() {
	c.group.Go(c.readLoop)
}

// Wait blocks until the read loop exits, returning its error (nil on a
// clean peer-initiated close).
func (c *Conn) Wait() error {
	return c.group.Wait()
}

// RemoteAddr delivers the address of the connected peer.
func (c *Conn) RemoteAddr() string {
	return c.nc.RemoteAddr().String()
}

// Send writes a single wire message to the peer. Sends are serialised;
// the core protocol's send path is best-effort and does not retry, so
// neither does this.
func (c *Conn) Send(message string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.trace.writeStart(c.RemoteAddr(), len(message))
	start := time.Now()
	_, err := io.WriteString(c.nc, message)
	c.trace.writeDone(c.RemoteAddr(), len(message), err, time.Since(start))
	if err != nil {
		return errors.Wrap(err, "transport: write")
	}
	return nil
}

// Close tears down the connection and stops the read loop.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.nc.Close()
		c.trace.closed(c.RemoteAddr(), err)
	})
	return err
}

func (c *Conn) readLoop() error {
	buf := make([]byte, readBufferSize)
	for {
		select {
		case <-c.ctx.Done():
			return c.ctx.Err()
		default:
		}

		c.trace.readStart(c.RemoteAddr())
		start := time.Now()
		n, err := c.nc.Read(buf)
		c.trace.readDone(c.RemoteAddr(), n, err, time.Since(start))

		if n > 0 {
			c.handler.Process(string(buf[:n]))
		}
		if err != nil {
			if err == io.EOF || c.ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "transport: read")
		}
	}
}

// Listener accepts inbound connections, used by the follower side
// (which is, confusingly, the TCP server: the driver dials out).
type Listener struct {
	ln    net.Listener
	trace *Trace
}

// Listen starts listening on addr.
func Listen(addr string, trace *Trace) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "transport: listen")
	}
	return &Listener{ln: ln, trace: trace}, nil
}

// Addr delivers the listener's bound address, useful when addr was
// passed as "host:0" and the kernel chose the port.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Close stops accepting new connections.
func (l *Listener) Close() error {
	return l.ln.Close()
}

// Accept blocks for the next inbound connection and wires it to a
// freshly constructed MessageHandler via newHandler, starting its read
// loop before returning.
func (l *Listener) Accept(ctx context.Context, newHandler func() *protocol.MessageHandler) (*Conn, error) {
	nc, err := l.ln.Accept()
	if err != nil {
		return nil, errors.Wrap(err, "transport: accept")
	}
	l.trace.accepted(nc.RemoteAddr().String())
	conn := newConn(ctx, nc, newHandler(), l.trace)
	conn.Start()
	return conn, nil
}

// Dialer connects out to a listening peer, used by the driver side.
type Dialer struct {
	timeout time.Duration
	trace   *Trace
}

// NewDialer builds a Dialer with the given connect timeout.
func NewDialer(timeout time.Duration, trace *Trace) *Dialer {
	return &Dialer{timeout: timeout, trace: trace}
}

// Dial connects to addr and wires the connection to handler, starting
// its read loop before returning.
func (d *Dialer) Dial(ctx context.Context, addr string, handler *protocol.MessageHandler) (*Conn, error) {
	d.trace.dialStart(addr)
	start := time.Now()
	nc, err := net.DialTimeout("tcp", addr, d.timeout)
	d.trace.dialDone(addr, err, time.Since(start))
	if err != nil {
		return nil, errors.Wrap(err, "transport: dial")
	}
	conn := newConn(ctx, nc, handler, d.trace)
	conn.Start()
	return conn, nil
}
