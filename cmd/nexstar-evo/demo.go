package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jochym/nexstar-evo/motion"
)

// demoSweep reproduces nexstarevo.py's canned goto/guide demonstration
// (move, lines 498-524): slew to a point and fine-approach it, slew
// back home, guide through a full circle in 5-degree steps, then return
// home again. This is a
// reference example, not a library primitive, which is why it lives
// here rather than in package motion.
func demoSweep(ctx context.Context, m *motion.Motion, log func(string)) error {
	log("slewing to demo position")
	if err := m.Goto(ctx, 0.2, 0.1, true, true); err != nil {
		return err
	}
	if err := m.Goto(ctx, 0.21, 0.11, false, true); err != nil {
		return err
	}

	log("slewing home")
	if err := m.Goto(ctx, 0.01, 0.01, true, true); err != nil {
		return err
	}
	if err := m.Goto(ctx, 0, 0, false, true); err != nil {
		return err
	}

	log("guiding a full circle")
	for deg := 0; deg < 360; deg += 5 {
		rad := math.Pi * float64(deg) / 180
		if err := m.Guide(ctx, math.Sin(rad), math.Cos(rad)); err != nil {
			return err
		}
		select {
		case <-time.After(2 * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := m.Goto(ctx, 0.01, 0.01, false, true); err != nil {
		return err
	}
	return m.Goto(ctx, 0, 0, false, true)
}

var demoCommand = &cli.Command{
	Name:  "demo",
	Usage: "run the reference goto/guide demonstration sweep",
	Flags: []cli.Flag{hostFlag, portFlag, verboseFlag},
	Action: func(c *cli.Context) error {
		conn, err := connect(c)
		if err != nil {
			return err
		}
		defer conn.Close()

		return demoSweep(c.Context, conn.motion, func(s string) { fmt.Println(s) })
	},
}
