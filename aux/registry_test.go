package aux

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNameOfTarget_KnownAndUnknown(t *testing.T) {
	name, ok := NameOfTarget(ALT)
	require.True(t, ok)
	require.Equal(t, "ALT", name)

	_, ok = NameOfTarget(TargetId(0x99))
	require.False(t, ok)
}

func TestIdOfTarget_RoundTripsNameOfTarget(t *testing.T) {
	for id := range targetNames {
		name, ok := NameOfTarget(id)
		require.True(t, ok)
		got, ok := IdOfTarget(name)
		require.True(t, ok)
		require.Equal(t, id, got)
	}
}

func TestIsControlTarget(t *testing.T) {
	require.True(t, IsControlTarget(HC))
	require.True(t, IsControlTarget(HCPlus))
	require.True(t, IsControlTarget(APP))
	require.False(t, IsControlTarget(ALT))
	require.False(t, IsControlTarget(GPS))
}

func TestNameOfCommand_MotorControllerCatalog(t *testing.T) {
	name, ok := NameOfCommand(ALT, MCGetPosition)
	require.True(t, ok)
	require.Equal(t, "MC_GET_POSITION", name)

	name, ok = NameOfCommand(AZM, MCSlewDone)
	require.True(t, ok)
	require.Equal(t, "MC_SLEW_DONE", name)
}

func TestNameOfCommand_PeripheralCatalogsDoNotLeakIntoEachOther(t *testing.T) {
	name, ok := NameOfCommand(BAT, GetVoltage)
	require.True(t, ok)
	require.Equal(t, "GET_VOLTAGE", name)

	name, ok = NameOfCommand(CHG, GetSetMode)
	require.True(t, ok)
	require.Equal(t, "GET_SET_MODE", name)

	name, ok = NameOfCommand(LIGHT, GetSetLevel)
	require.True(t, ok)
	require.Equal(t, "GET_SET_LEVEL", name)
}

func TestNameOfCommand_FallsBackToMotorCatalog(t *testing.T) {
	// BAT has no entry for MC_SLEW_DONE in its own catalog; the lookup
	// falls back to the generic motor-controller catalog.
	name, ok := NameOfCommand(BAT, MCSlewDone)
	require.True(t, ok)
	require.Equal(t, "MC_SLEW_DONE", name)
}

func TestNameOfCommand_UnknownOpcode(t *testing.T) {
	_, ok := NameOfCommand(ALT, CommandId(0xaa))
	require.False(t, ok)
}

func TestIdOfCommand_RoundTripsNameOfCommand(t *testing.T) {
	for target, catalog := range targetCommandCatalogs {
		for id, name := range catalog {
			got, ok := IdOfCommand(target, name)
			require.True(t, ok)
			require.Equal(t, id, got)
		}
	}
}

func TestGuideRate_MonotonicallyIncreasing(t *testing.T) {
	for i := 1; i < len(GuideRate); i++ {
		require.Greaterf(t, GuideRate[i], GuideRate[i-1], "rung %d not greater than rung %d", i, i-1)
	}
}
