// Command vimpair-driver watches a local file and drives a connected
// vimpair-follower: it dials out, takes control, announces the watched
// file once, and then pushes full contents and cursor position whenever
// the watched file's modification time advances.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

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

	adapter := filebuffer.New(cfg.ScratchDir, func(message string) {
		log.Printf("vimpair-driver: %s", message)
	})

	dialer := transport.NewDialer(cfg.DialTimeout, transport.DefaultLoggingTrace)
	sess, err := session.Dial(ctx, dialer, cfg.ListenAddr, adapter, cfg.ConcealPath)
	if err != nil {
		log.Fatalf("vimpair-driver: dial %s: %v", cfg.ListenAddr, err)
	}
	defer sess.Close()

	log.Printf("vimpair-driver: connected to %s, watching %s", sess.RemoteAddr(), cfg.file)

	if err := sess.TakeControl(); err != nil {
		log.Fatalf("vimpair-driver: take control: %v", err)
	}

	adapter.SetCurrentFile(filepath.Base(cfg.file), filepath.Dir(cfg.file))
	if err := sess.SendFileChange(); err != nil {
		log.Printf("vimpair-driver: send file change: %v", err)
	}

	done := make(chan struct{})
	go func() {
		watchAndPush(ctx, cfg, adapter, sess)
		close(done)
	}()

	<-ctx.Done()
	log.Printf("vimpair-driver: shutdown signal received")
	<-done
}

// watchAndPush polls cfg.file for modification-time changes, pushing a
// full contents update and cursor position whenever a change is seen.
// It returns once ctx is cancelled.
func watchAndPush(ctx context.Context, cfg *cliConfig, adapter *filebuffer.Adapter, sess *session.Session) {
	ticker := time.NewTicker(cfg.pollInterval)
	defer ticker.Stop()

	var lastModTime time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		info, err := os.Stat(cfg.file)
		if err != nil {
			continue
		}
		if !info.ModTime().After(lastModTime) {
			continue
		}
		lastModTime = info.ModTime()

		contents, err := os.ReadFile(cfg.file)
		if err != nil {
			log.Printf("vimpair-driver: read %s: %v", cfg.file, err)
			continue
		}
		adapter.SetCurrentContents(string(contents))
		if err := sess.SendFullUpdate(); err != nil {
			log.Printf("vimpair-driver: send full update: %v", err)
			return
		}
		if err := sess.SendCursorPosition(); err != nil {
			log.Printf("vimpair-driver: send cursor position: %v", err)
			return
		}
	}
}
