package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
)

var gotoCommand = &cli.Command{
	Name:      "goto",
	Usage:     "slew to a target position",
	ArgsUsage: "<alt-turns> <azm-turns>",
	Flags: []cli.Flag{
		hostFlag, portFlag, verboseFlag,
		&cli.BoolFlag{Name: "slow", Usage: "use MC_GOTO_SLOW instead of MC_GOTO_FAST"},
		&cli.BoolFlag{Name: "no-wait", Usage: "return immediately instead of waiting for slew-done"},
	},
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 2 {
			return fmt.Errorf("goto: expected <alt-turns> <azm-turns>")
		}
		alt, err := strconv.ParseFloat(c.Args().Get(0), 64)
		if err != nil {
			return fmt.Errorf("goto: invalid alt: %w", err)
		}
		azm, err := strconv.ParseFloat(c.Args().Get(1), 64)
		if err != nil {
			return fmt.Errorf("goto: invalid azm: %w", err)
		}

		conn, err := connect(c)
		if err != nil {
			return err
		}
		defer conn.Close()

		return conn.motion.Goto(c.Context, alt, azm, !c.Bool("slow"), !c.Bool("no-wait"))
	},
}
