package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	. "github.com/logrusorgru/aurora"
)

// statusCommand prints one colorized status line, polling at 1Hz and
// rewriting in place — the Go analogue of nexstarevo.py:show_status's
// `print(..., end='\r')` loop, separated from the library: Session
// only hands back data (session.Status), this command owns the
// printing.
var statusCommand = &cli.Command{
	Name:  "status",
	Usage: "print a live, colorized mount status line",
	Flags: []cli.Flag{hostFlag, portFlag, verboseFlag},
	Action: func(c *cli.Context) error {
		conn, err := connect(c)
		if err != nil {
			return err
		}
		defer conn.Close()

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-c.Context.Done():
				fmt.Println()
				return nil
			case <-ticker.C:
				st := conn.sess.Status()
				azmState := "I"
				if st.SlewAzmPending {
					azmState = "S"
				} else if st.Guiding {
					azmState = "G"
				}
				altState := "I"
				if st.SlewAltPending {
					altState = "S"
				} else if st.Guiding {
					altState = "G"
				}
				fmt.Printf("\r%s Az: %s(%s)  Alt: %s(%s)  Batt: %s    ",
					Bold(Cyan("STATUS")),
					Yellow(dms(st.AzmDeg, st.AzmMin, st.AzmSec)), azmState,
					Yellow(dms(st.AltDeg, st.AltMin, st.AltSec)), altState,
					Green(fmt.Sprintf("%.2fV", st.BatteryVoltage)))
			}
		}
	},
}

func dms(deg, min int, sec float64) string {
	return fmt.Sprintf("%d°%02d'%04.1f\"", deg, min, sec)
}
