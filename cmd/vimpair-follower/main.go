// Command vimpair-follower listens for a vimpair-driver connection and
// mirrors whatever buffer, cursor position and file it announces in
// memory; the buffer is written to the scratch directory on disk when the
// driver sends a save-file directive.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vimpair/vimpair/internal/adapter/filebuffer"
	"github.com/vimpair/vimpair/internal/session"
	"github.com/vimpair/vimpair/internal/transport"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := transport.Listen(cfg.ListenAddr, transport.DefaultLoggingTrace)
	if err != nil {
		log.Fatalf("vimpair-follower: listen %s: %v", cfg.ListenAddr, err)
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	log.Printf("vimpair-follower: listening on %s", ln.Addr())

	for {
		adapter := filebuffer.New(cfg.ScratchDir, func(message string) {
			log.Printf("vimpair-follower: %s", message)
		})

		sess, err := session.Accept(ctx, ln, adapter, cfg.ConcealPath)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("vimpair-follower: accept: %v", err)
			continue
		}

		log.Printf("vimpair-follower: accepted connection from %s", sess.RemoteAddr())
		go func() {
			if err := sess.Wait(); err != nil {
				log.Printf("vimpair-follower: connection %s closed: %v", sess.RemoteAddr(), err)
			}
		}()
	}
}
