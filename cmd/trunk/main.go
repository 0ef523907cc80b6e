package main

import (
	"fmt"
	"os"

	"github.com/vburojevic/trunk/internal/cli"
	"github.com/vburojevic/trunk/internal/config"
)

func main() {
	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	os.Exit(cli.Execute(os.Args[1:], cli.NewGlobals(cfg), cfg))
}
