package main

import (
	"flag"
	"os"

	"github.com/vimpair/vimpair/internal/config"
)

// cliConfig leaves every shared flag at its zero value when unset on the
// command line; config.Resolve fills the gaps from config.DefaultConfig
// rather than this package duplicating those values itself.
type cliConfig struct {
	config.Config
}

func parseFlags(args []string) (*cliConfig, error) {
	fs := flag.NewFlagSet("vimpair-follower", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	cfg := &cliConfig{}
	fs.StringVar(&cfg.ListenAddr, "addr", "", "address to listen on (default: "+config.DefaultConfig.ListenAddr+")")
	fs.StringVar(&cfg.ScratchDir, "scratch-dir", "", "directory the reference adapter persists received buffers to (default: OS temp dir)")
	fs.BoolVar(&cfg.ConcealPath, "conceal-path", false, "hash the folder component of outgoing file-change announcements")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Config = *config.Resolve(&cfg.Config)
	return cfg, nil
}
