package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "chunker",
		Usage:   "buffer text lines and release them as fixed-size chunks",
		Version: version,
		Commands: []*cli.Command{
			runCommand,
			splitCommand,
		},
	}
}
