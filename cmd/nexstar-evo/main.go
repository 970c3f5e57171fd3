// Command nexstar-evo is a reference client for the Evolution mount's
// AUX protocol, built on github.com/urfave/cli/v2.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &cli.App{
		Name:  "nexstar-evo",
		Usage: "control library reference client for the Evolution mount's AUX protocol",
		Commands: []*cli.Command{
			discoverCommand,
			statusCommand,
			watchCommand,
			gotoCommand,
			demoCommand,
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "nexstar-evo:", err)
		os.Exit(1)
	}
}
