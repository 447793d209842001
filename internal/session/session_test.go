package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vimpair/vimpair/internal/adapter/filebuffer"
	"github.com/vimpair/vimpair/internal/transport"
)

func newPair(t *testing.T) (driver *Session, follower *Session) {
	t.Helper()

	ln, err := transport.Listen("localhost:0", nil)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	followerAdapter := filebuffer.New(t.TempDir(), nil)
	driverAdapter := filebuffer.New(t.TempDir(), nil)

	accepted := make(chan *Session, 1)
	acceptErr := make(chan error, 1)
	go func() {
		s, err := Accept(context.Background(), ln, followerAdapter, false)
		if err != nil {
			acceptErr <- err
			return
		}
		accepted <- s
	}()

	dialer := transport.NewDialer(2*time.Second, nil)
	driver, err = Dial(context.Background(), dialer, ln.Addr().String(), driverAdapter, false)
	require.NoError(t, err)
	t.Cleanup(func() { driver.Close() })

	select {
	case err := <-acceptErr:
		t.Fatalf("accept failed: %v", err)
	case follower = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for accept")
	}
	t.Cleanup(func() { follower.Close() })

	return driver, follower
}

func TestSendFullUpdate_DeliversContentsToPeerAdapter(t *testing.T) {
	driver, follower := newPair(t)

	driverAdapter := driver.adapter.(*filebuffer.Adapter)
	driverAdapter.SetCurrentContents("package main\n")

	require.NoError(t, driver.SendFullUpdate())

	assertEventually(t, func() bool {
		return follower.adapter.CurrentContents() == "package main\n"
	})
}

func TestSendCursorPosition_DeliversPositionToPeerAdapter(t *testing.T) {
	driver, follower := newPair(t)

	driverAdapter := driver.adapter.(*filebuffer.Adapter)
	driverAdapter.ApplyCursorPosition(4, 9)

	require.NoError(t, driver.SendCursorPosition())

	assertEventually(t, func() bool {
		line, column := follower.adapter.CurrentCursorPosition()
		return line == 4 && column == 9
	})
}

func TestSendFileChange_DeliversFilenameToPeerAdapter(t *testing.T) {
	driver, follower := newPair(t)

	driverAdapter := driver.adapter.(*filebuffer.Adapter)
	driverAdapter.SetCurrentFile("main.go", "")

	require.NoError(t, driver.SendFileChange())

	assertEventually(t, func() bool {
		filename, _ := follower.adapter.CurrentFilename()
		return filename == "main.go"
	})
}

func TestTakeControl_SetsInControlLocallyAndRemotely(t *testing.T) {
	driver, follower := newPair(t)

	assert.False(t, driver.InControl())
	require.NoError(t, driver.TakeControl())
	assert.True(t, driver.InControl())

	assertEventually(t, func() bool {
		return follower.InControl()
	})
}

func TestSendSaveFile_TriggersPeerSaveCurrentFile(t *testing.T) {
	ln, err := transport.Listen("localhost:0", nil)
	require.NoError(t, err)
	defer ln.Close()

	scratchDir := t.TempDir()
	followerAdapter := filebuffer.New(scratchDir, nil)
	followerAdapter.SetCurrentFile("saved.txt", "")
	followerAdapter.SetCurrentContents("data")

	accepted := make(chan *Session, 1)
	go func() {
		s, err := Accept(context.Background(), ln, followerAdapter, false)
		require.NoError(t, err)
		accepted <- s
	}()

	dialer := transport.NewDialer(2*time.Second, nil)
	driver, err := Dial(context.Background(), dialer, ln.Addr().String(), filebuffer.New(t.TempDir(), nil), false)
	require.NoError(t, err)
	defer driver.Close()

	follower := <-accepted
	defer follower.Close()

	require.NoError(t, driver.SendSaveFile())

	assertEventually(t, func() bool {
		_, err := os.Stat(filepath.Join(scratchDir, "saved.txt"))
		return err == nil
	})

	got, err := os.ReadFile(filepath.Join(scratchDir, "saved.txt"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
}

func assertEventually(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
