package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jochym/nexstar-evo/discovery"
	"github.com/jochym/nexstar-evo/logging"
)

var discoverCommand = &cli.Command{
	Name:  "discover",
	Usage: "listen for the scope's UDP beacon and print its address",
	Flags: []cli.Flag{
		&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second},
		verboseFlag,
	},
	Action: func(c *cli.Context) error {
		logger := logging.New()
		if c.Bool(verboseFlag.Name) {
			logger = logging.NewDevelopment()
		}

		cfg := discovery.DefaultConfig()
		cfg.Timeout = c.Duration("timeout")
		cfg.Logger = logger

		bt, err := discovery.Detect(c.Context, cfg)
		if err != nil {
			return err
		}
		fmt.Printf("%s:%d\n", bt.Host, bt.Port)
		return nil
	},
}
