package main

import (
	"fmt"
	"log"
	"time"

	"github.com/awesome-gocui/gocui"
	"github.com/urfave/cli/v2"

	. "github.com/logrusorgru/aurora"

	"github.com/jochym/nexstar-evo/session"
)

// watchContext holds the live session the dashboard renders.
type watchContext struct {
	sess *session.Session
}

func (wc *watchContext) update(g *gocui.Gui) error {
	st := wc.sess.Status()

	v, err := g.View("status")
	if err != nil {
		return nil
	}
	v.Clear()
	fmt.Fprintf(v, " LAST UPDATE: %s\n", Bold(Green(time.Now().Format("2006-01-02 15:04:05"))))

	p, err := g.View("position")
	if err != nil {
		return nil
	}
	p.Clear()
	fmt.Fprintln(p, " AXIS   POSITION          STATE    TARGET")
	fmt.Fprintln(p, " ============================================")
	fmt.Fprintln(p, Sprintf(Yellow(" ALT    %3d°%02d'%04.1f\"      %-8s %.4f"),
		st.AltDeg, st.AltMin, st.AltSec, axisState(st.SlewAltPending, st.Guiding), st.TargetAlt))
	fmt.Fprintln(p, Sprintf(Yellow(" AZM    %3d°%02d'%04.1f\"      %-8s %.4f"),
		st.AzmDeg, st.AzmMin, st.AzmSec, axisState(st.SlewAzmPending, st.Guiding), st.TargetAzm))
	fmt.Fprintf(p, "\n Battery: %s\n", Green(fmt.Sprintf("%.2fV", st.BatteryVoltage)))

	return nil
}

func axisState(slewing, guiding bool) string {
	switch {
	case slewing:
		return "SLEWING"
	case guiding:
		return "GUIDING"
	default:
		return "IDLE"
	}
}

func watchLayout(g *gocui.Gui) error {
	const maxX = 70
	_, maxY := g.Size()

	v, err := g.SetView("status", 0, 0, maxX-2, 2, 0)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	if err == gocui.ErrUnknownView {
		v.Title = " STATUS "
		fmt.Fprintln(v, " LAST UPDATE: ----")
	}

	p, err := g.SetView("position", 0, 3, maxX-2, maxY-1, 0)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	if err == gocui.ErrUnknownView {
		p.Title = " MOUNT "
	}
	return nil
}

func watchQuit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

// watchCommand renders a live terminal dashboard of mount state using
// the same gocui layout/update wiring as a live-table dashboard, here
// driving MountStatus instead of an aircraft table.
var watchCommand = &cli.Command{
	Name:  "watch",
	Usage: "live terminal dashboard of mount state",
	Flags: []cli.Flag{hostFlag, portFlag, verboseFlag},
	Action: func(c *cli.Context) error {
		conn, err := connect(c)
		if err != nil {
			return err
		}
		defer conn.Close()

		g, err := gocui.NewGui(gocui.OutputNormal, false)
		if err != nil {
			return err
		}
		defer g.Close()

		g.SetManagerFunc(watchLayout)
		if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, watchQuit); err != nil {
			log.Panicln(err)
		}

		wc := &watchContext{sess: conn.sess}

		stop := make(chan struct{})
		go func() {
			t := time.NewTicker(time.Second)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					g.Update(wc.update)
				case <-stop:
					return
				}
			}
		}()
		defer close(stop)

		if err := g.MainLoop(); err != nil && !gocui.IsQuit(err) {
			return err
		}
		return nil
	},
}
