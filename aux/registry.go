package aux

// TargetId identifies a node on the AUX bus. The client always presents
// itself as APP.
type TargetId byte

// Target IDs observed on the AUX bus. UKN1/UKN2 are undocumented values
// seen on the wire but never explained by any reference; they are kept
// so that frames addressed to/from them still decode instead of falling
// into the unknown-target path.
const (
	ANY   TargetId = 0x00
	MB    TargetId = 0x01
	HC    TargetId = 0x04
	UKN1  TargetId = 0x05
	HCPlus TargetId = 0x0d
	AZM   TargetId = 0x10
	ALT   TargetId = 0x11
	APP   TargetId = 0x20
	GPS   TargetId = 0xb0
	UKN2  TargetId = 0xb4
	WiFi  TargetId = 0xb5
	BAT   TargetId = 0xb6
	CHG   TargetId = 0xb7
	LIGHT TargetId = 0xbf
)

var targetNames = map[TargetId]string{
	ANY: "ANY", MB: "MB", HC: "HC", UKN1: "UKN1", HCPlus: "HC+",
	AZM: "AZM", ALT: "ALT", APP: "APP", GPS: "GPS", UKN2: "UKN2",
	WiFi: "WiFi", BAT: "BAT", CHG: "CHG", LIGHT: "LIGHT",
}

var targetIds map[string]TargetId

// controlTargets are the targets that can be the *origin* of a command,
// as opposed to the motor controllers and peripherals which only answer.
// A frame's destination being one of these (instead of APP) means the
// frame carries a reply addressed back to whichever target originated it.
var controlTargets = map[TargetId]bool{HC: true, HCPlus: true, APP: true}

func init() {
	targetIds = make(map[string]TargetId, len(targetNames))
	for id, name := range targetNames {
		targetIds[name] = id
	}
}

// NameOfTarget returns the symbolic name of a target ID, and false if the
// ID is not in the known enumeration.
func NameOfTarget(id TargetId) (string, bool) {
	name, ok := targetNames[id]
	return name, ok
}

// IdOfTarget returns the target ID for a symbolic name, and false if the
// name is unknown.
func IdOfTarget(name string) (TargetId, bool) {
	id, ok := targetIds[name]
	return id, ok
}

// IsControlTarget reports whether id can originate commands (as opposed
// to only replying to them).
func IsControlTarget(id TargetId) bool {
	return controlTargets[id]
}

// CommandId is a 1-byte AUX command/message opcode. Its meaning depends
// on the target it's addressed to.
type CommandId byte

// Motor-controller (ALT/AZM) command catalog.
const (
	MCGetPosition      CommandId = 0x01
	MCGotoFast         CommandId = 0x02
	MCSetPosition      CommandId = 0x04
	MCGetUnknown05     CommandId = 0x05 // observed, meaning undocumented
	MCSetPosGuiderate  CommandId = 0x06
	MCSetNegGuiderate  CommandId = 0x07
	MCLevelStart       CommandId = 0x0b
	MCSetPosBacklash   CommandId = 0x10
	MCSetNegBacklash   CommandId = 0x11
	MCSlewDone         CommandId = 0x13
	MCGotoSlow         CommandId = 0x17
	MCAtIndex          CommandId = 0x18
	MCSeekIndex        CommandId = 0x19
	MCSetMaxrate       CommandId = 0x20
	MCGetMaxrate       CommandId = 0x21
	MCEnableMaxrate    CommandId = 0x22
	MCMaxrateEnabled   CommandId = 0x23
	MCMovePos          CommandId = 0x24
	MCMoveNeg          CommandId = 0x25
	MCEnableCordwrap   CommandId = 0x38
	MCDisableCordwrap  CommandId = 0x39
	MCSetCordwrapPos   CommandId = 0x3a
	MCPollCordwrap     CommandId = 0x3b
	MCGetCordwrapPos   CommandId = 0x3c
	MCGetPosBacklash   CommandId = 0x40
	MCGetNegBacklash   CommandId = 0x41
	MCGetAutoguideRate CommandId = 0x47
	MCGetApproach      CommandId = 0xfc
	MCSetApproach      CommandId = 0xfd
	GetVer             CommandId = 0xfe
)

// motorCommands is the generic motor-controller catalog, shared by ALT
// and AZM and used as the fallback for any other target's unmapped IDs.
var motorCommands = map[CommandId]string{
	MCGetPosition: "MC_GET_POSITION", MCGotoFast: "MC_GOTO_FAST",
	MCSetPosition: "MC_SET_POSITION", MCGetUnknown05: "MC_GET_???",
	MCSetPosGuiderate: "MC_SET_POS_GUIDERATE", MCSetNegGuiderate: "MC_SET_NEG_GUIDERATE",
	MCLevelStart: "MC_LEVEL_START", MCSetPosBacklash: "MC_SET_POS_BACKLASH",
	MCSetNegBacklash: "MC_SET_NEG_BACKLASH", MCSlewDone: "MC_SLEW_DONE",
	MCGotoSlow: "MC_GOTO_SLOW", MCAtIndex: "MC_AT_INDEX",
	MCSeekIndex: "MC_SEEK_INDEX", MCSetMaxrate: "MC_SET_MAXRATE",
	MCGetMaxrate: "MC_GET_MAXRATE", MCEnableMaxrate: "MC_ENABLE_MAXRATE",
	MCMaxrateEnabled: "MC_MAXRATE_ENABLED", MCMovePos: "MC_MOVE_POS",
	MCMoveNeg: "MC_MOVE_NEG", MCEnableCordwrap: "MC_ENABLE_CORDWRAP",
	MCDisableCordwrap: "MC_DISABLE_CORDWRAP", MCSetCordwrapPos: "MC_SET_CORDWRAP_POS",
	MCPollCordwrap: "MC_POLL_CORDWRAP", MCGetCordwrapPos: "MC_GET_CORDWRAP_POS",
	MCGetPosBacklash: "MC_GET_POS_BACKLASH", MCGetNegBacklash: "MC_GET_NEG_BACKLASH",
	MCGetAutoguideRate: "MC_GET_AUTOGUIDE_RATE", MCGetApproach: "MC_GET_APPROACH",
	MCSetApproach: "MC_SET_APPROACH", GetVer: "GET_VER",
}

// Per-target command catalogs for the peripherals that don't share the
// motor-controller opcode space.
var (
	batCommands = map[CommandId]string{
		0x10: "GET_VOLTAGE",
		0x18: "GET_SET_CURRENT",
	}
	chgCommands = map[CommandId]string{
		0x10: "GET_SET_MODE",
	}
	lightCommands = map[CommandId]string{
		0x10: "GET_SET_LEVEL",
	}
)

// GetVoltage, GetSetCurrent, GetSetMode, GetSetLevel name the opcodes
// shared by BAT/CHG/LIGHT, exported for callers building those commands.
const (
	GetVoltage    CommandId = 0x10
	GetSetCurrent CommandId = 0x18
	GetSetMode    CommandId = 0x10
	GetSetLevel   CommandId = 0x10
)

var targetCommandCatalogs = map[TargetId]map[CommandId]string{
	BAT:   batCommands,
	CHG:   chgCommands,
	LIGHT: lightCommands,
	ALT:   motorCommands,
	AZM:   motorCommands,
}

var reverseCatalogs map[TargetId]map[string]CommandId

func init() {
	reverseCatalogs = make(map[TargetId]map[string]CommandId, len(targetCommandCatalogs))
	for trg, catalog := range targetCommandCatalogs {
		rev := make(map[string]CommandId, len(catalog))
		for id, name := range catalog {
			rev[name] = id
		}
		reverseCatalogs[trg] = rev
	}
}

// NameOfCommand looks up the symbolic name of mid for the given target.
// BAT/CHG/LIGHT are looked up in their own catalog first, falling back to
// the generic motor-controller catalog on miss; ALT/AZM go straight to
// the motor catalog. Returns false if no catalog has a name for mid.
func NameOfCommand(target TargetId, mid CommandId) (string, bool) {
	if catalog, ok := targetCommandCatalogs[target]; ok {
		if name, ok := catalog[mid]; ok {
			return name, true
		}
	}
	if name, ok := motorCommands[mid]; ok {
		return name, true
	}
	return "", false
}

// IdOfCommand is the inverse of NameOfCommand: given a target and a
// symbolic command name, returns its opcode. Falls back to the generic
// motor catalog exactly as NameOfCommand does.
func IdOfCommand(target TargetId, name string) (CommandId, bool) {
	if rev, ok := reverseCatalogs[target]; ok {
		if id, ok := rev[name]; ok {
			return id, true
		}
	}
	for id, n := range motorCommands {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// GuideRate is one rung of the fixed 10-entry guide-rate ladder, index
// 0..9, expressed as a fraction of a full turn per second.
var GuideRate = [10]float64{
	0: 0,
	1: 1.0 / (360 * 60),
	2: 2.0 / (360 * 60),
	3: 5.0 / (360 * 60),
	4: 15.0 / (360 * 60),
	5: 30.0 / (360 * 60),
	6: 1.0 / 360,
	7: 2.0 / 360,
	8: 5.0 / 360,
	9: 10.0 / 360,
}
