package motion

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jochym/nexstar-evo/aux"
)

func TestInitSequence_MatchesReferenceOrder(t *testing.T) {
	seq := InitSequence
	require.Equal(t, aux.ALT, seq[0].Target)
	require.Equal(t, aux.GetVer, seq[0].Command)
	require.Equal(t, aux.AZM, seq[1].Target)
	require.Equal(t, aux.GetVer, seq[1].Command)
	require.Equal(t, aux.AZM, seq[2].Target)
	require.Equal(t, aux.MCGetUnknown05, seq[2].Command)

	last := seq[len(seq)-1]
	require.Equal(t, aux.AZM, last.Target)
	require.Equal(t, aux.MCSetCordwrapPos, last.Command)
	require.Equal(t, []byte{0x7f, 0xff, 0xff}, last.Payload)
}

func TestInitSequence_PerAxisBlockComplete(t *testing.T) {
	want := []aux.CommandId{
		aux.MCMovePos, aux.MCGetApproach, aux.MCGetPosBacklash,
		aux.MCGetMaxrate, aux.MCMaxrateEnabled, aux.MCGetAutoguideRate,
		aux.MCSetPosGuiderate,
	}
	wantSet := make(map[aux.CommandId]bool, len(want))
	for _, c := range want {
		wantSet[c] = true
	}
	for _, axis := range []aux.TargetId{aux.ALT, aux.AZM} {
		var got []aux.CommandId
		for _, step := range InitSequence {
			if step.Target == axis && wantSet[step.Command] {
				got = append(got, step.Command)
			}
		}
		require.Equal(t, want, got, "axis %v", axis)
	}
}
