// Package config defines the tunables shared by the driver and
// follower binaries: transport timeouts, the scratch directory files
// are written to, and the path-concealment toggle consumed by the
// encoder.
package config

import (
	"time"

	"github.com/imdario/mergo"
)

// Config holds the options a peer is configured with. Any zero-valued
// field is filled in from DefaultConfig by Resolve.
type Config struct {
	// ListenAddr is the TCP address a follower listens on, or a driver
	// dials. The value is used as given; a host without a port is not
	// completed with a default one.
	ListenAddr string

	// DialTimeout bounds how long a driver waits to establish the
	// connection to a follower.
	DialTimeout time.Duration

	// IdleTimeout is carried in the configuration but is not read by
	// the transport: connections are not closed for being idle,
	// whatever its value.
	IdleTimeout time.Duration

	// ScratchDir is where received file contents are persisted by the
	// reference adapter. Empty means the OS default temp directory.
	ScratchDir string

	// ConcealPath mirrors the encoder's conceal_path option: when set,
	// outgoing file-change announcements hash the folder component
	// instead of sending it in the clear.
	ConcealPath bool
}

// DefaultConfig holds the values used to fill in anything the caller
// left zero-valued.
var DefaultConfig = &Config{
	ListenAddr:  "localhost:16320",
	DialTimeout: 10 * time.Second,
	IdleTimeout: 0,
	ScratchDir:  "",
	ConcealPath: false,
}

// Resolve returns a copy of cfg with every zero-valued field filled in
// from DefaultConfig, applying session defaults on top of whatever the
// caller supplied.
func Resolve(cfg *Config) *Config {
	resolved := *cfg
	_ = mergo.Merge(&resolved, DefaultConfig)
	return &resolved
}
