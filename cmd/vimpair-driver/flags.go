package main

import (
	"errors"
	"flag"
	"os"
	"time"

	"github.com/vimpair/vimpair/internal/config"
)

// cliConfig holds the driver's own flags plus the subset shared with
// vimpair-follower. The shared fields are left at their zero value when
// unset on the command line and filled in by config.Resolve, rather than
// duplicating config.DefaultConfig's values here.
type cliConfig struct {
	config.Config

	file         string
	pollInterval time.Duration
}

func parseFlags(args []string) (*cliConfig, error) {
	fs := flag.NewFlagSet("vimpair-driver", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	cfg := &cliConfig{}
	fs.StringVar(&cfg.ListenAddr, "addr", "", "address of the follower to connect to (default: "+config.DefaultConfig.ListenAddr+")")
	fs.StringVar(&cfg.file, "file", "", "path of the file to watch and drive")
	fs.StringVar(&cfg.ScratchDir, "scratch-dir", "", "directory the reference adapter persists to (default: OS temp dir)")
	fs.BoolVar(&cfg.ConcealPath, "conceal-path", false, "hash the folder component of outgoing file-change announcements")
	fs.DurationVar(&cfg.DialTimeout, "dial-timeout", 0, "timeout for connecting to the follower (default: "+config.DefaultConfig.DialTimeout.String()+")")
	fs.DurationVar(&cfg.pollInterval, "poll-interval", 500*time.Millisecond, "how often to check the watched file for changes")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.file == "" {
		return nil, errors.New("-file is required")
	}
	if cfg.pollInterval <= 0 {
		return nil, errors.New("-poll-interval must be positive")
	}

	cfg.Config = *config.Resolve(&cfg.Config)
	return cfg, nil
}
