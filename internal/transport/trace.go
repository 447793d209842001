package transport

import (
	"context"
	"log"
	"reflect"
	"time"
)

// unique type to prevent assignment from outside this package.
type traceContextKey struct{}

// ContextTrace returns the Trace associated with ctx, or nil if none.
func ContextTrace(ctx context.Context) *Trace {
	trace, _ := ctx.Value(traceContextKey{}).(*Trace)
	return trace
}

// WithTrace returns a new context carrying trace. Hooks already
// registered on ctx still fire, after the ones in trace.
func WithTrace(ctx context.Context, trace *Trace) context.Context {
	if trace == nil {
		panic("nil trace")
	}
	old := ContextTrace(ctx)
	trace.compose(old)
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// Trace is a record of optional instrumentation hooks fired around
// connection lifecycle and I/O events. Every field is independently
// optional; a nil hook is simply skipped.
type Trace struct {
	// DialStart is called before dialing addr.
	DialStart func(addr string)
	// DialDone is called once the dial attempt completes.
	DialDone func(addr string, err error, d time.Duration)

	// Accepted is called when a Listener accepts a new connection.
	Accepted func(remoteAddr string)

	// Closed is called once a connection's resources are released.
	Closed func(remoteAddr string, err error)

	// ReadStart is called before reading from the connection.
	ReadStart func(remoteAddr string)
	// ReadDone is called after a read, whether it succeeded or not.
	ReadDone func(remoteAddr string, n int, err error, d time.Duration)

	// WriteStart is called before writing a message to the connection.
	WriteStart func(remoteAddr string, n int)
	// WriteDone is called after a write, whether it succeeded or not.
	WriteDone func(remoteAddr string, n int, err error, d time.Duration)
}

// compose modifies t so that it also invokes the hooks in old, with
// old's hooks running after t's own (mirrors the composition policy
// of WithTrace: more recently registered hooks run first).
func (t *Trace) compose(old *Trace) {
	if old == nil {
		return
	}
	tv := reflect.ValueOf(t).Elem()
	ov := reflect.ValueOf(old).Elem()
	structType := tv.Type()
	for i := 0; i < structType.NumField(); i++ {
		tf := tv.Field(i)
		if tf.Kind() != reflect.Func {
			continue
		}
		of := ov.Field(i)
		if of.IsNil() {
			continue
		}
		if tf.IsNil() {
			tf.Set(of)
			continue
		}
		tfCopy := reflect.ValueOf(tf.Interface())
		hookType := tf.Type()
		newFunc := reflect.MakeFunc(hookType, func(args []reflect.Value) []reflect.Value {
			tfCopy.Call(args)
			return of.Call(args)
		})
		tv.Field(i).Set(newFunc)
	}
}

func (t *Trace) dialStart(addr string) {
	if t != nil && t.DialStart != nil {
		t.DialStart(addr)
	}
}

func (t *Trace) dialDone(addr string, err error, d time.Duration) {
	if t != nil && t.DialDone != nil {
		t.DialDone(addr, err, d)
	}
}

func (t *Trace) accepted(remoteAddr string) {
	if t != nil && t.Accepted != nil {
		t.Accepted(remoteAddr)
	}
}

func (t *Trace) closed(remoteAddr string, err error) {
	if t != nil && t.Closed != nil {
		t.Closed(remoteAddr, err)
	}
}

func (t *Trace) readStart(remoteAddr string) {
	if t != nil && t.ReadStart != nil {
		t.ReadStart(remoteAddr)
	}
}

func (t *Trace) readDone(remoteAddr string, n int, err error, d time.Duration) {
	if t != nil && t.ReadDone != nil {
		t.ReadDone(remoteAddr, n, err, d)
	}
}

func (t *Trace) writeStart(remoteAddr string, n int) {
	if t != nil && t.WriteStart != nil {
		t.WriteStart(remoteAddr, n)
	}
}

func (t *Trace) writeDone(remoteAddr string, n int, err error, d time.Duration) {
	if t != nil && t.WriteDone != nil {
		t.WriteDone(remoteAddr, n, err, d)
	}
}

// DefaultLoggingTrace logs connection lifecycle events; read/write
// traffic is not logged at this level to avoid doubling as a packet
// dump of editor contents.
var DefaultLoggingTrace = &Trace{
	Accepted: func(remoteAddr string) {
		log.Printf("vimpair: accepted connection from %s", remoteAddr)
	},
	Closed: func(remoteAddr string, err error) {
		log.Printf("vimpair: closed connection %s err:%v", remoteAddr, err)
	},
	DialDone: func(addr string, err error, d time.Duration) {
		log.Printf("vimpair: dial %s err:%v took:%s", addr, err, d)
	},
}

// DiagnosticTrace additionally logs every read and write, sized but
// not content-dumped.
var DiagnosticTrace = &Trace{
	DialStart: func(addr string) {
		log.Printf("vimpair: dial start %s", addr)
	},
	DialDone: DefaultLoggingTrace.DialDone,
	Accepted: DefaultLoggingTrace.Accepted,
	Closed:   DefaultLoggingTrace.Closed,
	ReadStart: func(remoteAddr string) {
		log.Printf("vimpair: read start %s", remoteAddr)
	},
	ReadDone: func(remoteAddr string, n int, err error, d time.Duration) {
		log.Printf("vimpair: read done %s len:%d err:%v took:%s", remoteAddr, n, err, d)
	},
	WriteStart: func(remoteAddr string, n int) {
		log.Printf("vimpair: write start %s len:%d", remoteAddr, n)
	},
	WriteDone: func(remoteAddr string, n int, err error, d time.Duration) {
		log.Printf("vimpair: write done %s len:%d err:%v took:%s", remoteAddr, n, err, d)
	},
}
