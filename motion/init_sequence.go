package motion

import (
	"context"
	"fmt"

	"github.com/jochym/nexstar-evo/aux"
)

// InitStep is one command of the fixed initialization sequence issued
// once at session open.
type InitStep struct {
	Target  aux.TargetId
	Command aux.CommandId
	Payload []byte
}

// InitSequence is the ordered init command list, expressed as data (not
// narrative) so it can be asserted against in tests and extended by
// callers. Grounded verbatim on nexstarevo.py:ctrl.
var InitSequence = buildInitSequence()

func buildInitSequence() []InitStep {
	steps := []InitStep{
		{aux.ALT, aux.GetVer, nil},
		{aux.AZM, aux.GetVer, nil},
		{aux.AZM, aux.MCGetUnknown05, nil},
	}
	for _, axis := range []aux.TargetId{aux.ALT, aux.AZM} {
		steps = append(steps,
			InitStep{axis, aux.MCMovePos, []byte{0x00}},
			InitStep{axis, aux.MCGetApproach, nil},
			InitStep{axis, aux.MCGetPosBacklash, nil},
			InitStep{axis, aux.MCGetMaxrate, nil},
			InitStep{axis, aux.MCMaxrateEnabled, nil},
			InitStep{axis, aux.MCGetAutoguideRate, nil},
			InitStep{axis, aux.MCSetPosGuiderate, []byte{0x00, 0x00, 0x00}},
		)
	}
	steps = append(steps,
		InitStep{aux.LIGHT, aux.GetSetLevel, []byte{0x02}},
		InitStep{aux.LIGHT, aux.GetSetLevel, []byte{0x00}},
		InitStep{aux.CHG, aux.GetSetMode, nil},
		InitStep{aux.BAT, aux.GetSetCurrent, nil},
		InitStep{aux.BAT, aux.GetVoltage, nil},
		InitStep{aux.AZM, aux.MCEnableCordwrap, nil},
		InitStep{aux.AZM, aux.MCSetCordwrapPos, []byte{0x7f, 0xff, 0xff}},
	)
	return steps
}

// RunInitSequence sends every step of InitSequence in order.
func (m *Motion) RunInitSequence(ctx context.Context) error {
	for _, step := range InitSequence {
		if err := m.sess.Send(ctx, aux.Message{
			Source:      aux.APP,
			Destination: step.Target,
			MessageId:   step.Command,
			Payload:     step.Payload,
		}); err != nil {
			return fmt.Errorf("motion: init step %#02x to %#02x: %w", byte(step.Command), byte(step.Target), err)
		}
	}
	return nil
}
