package par

// Closed vocabularies of a few special keys. Each defaults to an explicit
// Unstated value; no scientific default is ever substituted.

// TimeEphemeris is the TIMEEPH value.
type TimeEphemeris uint8

const (
	TimeEphemerisUnstated TimeEphemeris = iota
	TimeEphemerisIF99
	TimeEphemerisFB90
)

var timeEphemerisNames = []string{"Unstated", "IF99", "FB90"}

func (t TimeEphemeris) String() string { return enumName(timeEphemerisNames, t) }

// BinaryModel is the MODEL (or BINARY) value.
type BinaryModel uint8

const (
	BinaryModelUnstated BinaryModel = iota
	BinaryModelBT
	BinaryModelBTX
	BinaryModelDD
	BinaryModelDDK
	BinaryModelDDS
	BinaryModelDDGR
	BinaryModelELL1
	BinaryModelELL1H
	BinaryModelMSS
	BinaryModelT2
)

var binaryModelNames = []string{"Unstated", "BT", "BTX", "DD", "DDK", "DDS", "DDGR", "ELL1", "ELL1H", "MSS", "T2"}

func (b BinaryModel) String() string { return enumName(binaryModelNames, b) }

// T2CMethod is the terrestrial-to-celestial transformation method.
type T2CMethod uint8

const (
	T2CMethodUnstated T2CMethod = iota
	T2CMethodIAU2000B
	T2CMethodTEMPO
)

var t2cMethodNames = []string{"Unstated", "IAU2000B", "TEMPO"}

func (m T2CMethod) String() string { return enumName(t2cMethodNames, m) }

// Units is the UNITS value.
type Units uint8

const (
	UnitsUnstated Units = iota
	UnitsSI
	UnitsTCB
	UnitsTDB
)

var unitsNames = []string{"Unstated", "SI", "TCB", "TDB"}

func (u Units) String() string { return enumName(unitsNames, u) }

// ErrorMode is the MODE value.
type ErrorMode uint8

const (
	ErrorModeUnstated ErrorMode = iota
	ErrorMode0
	ErrorMode1
)

var errorModeNames = []string{"Unstated", "0", "1"}

func (m ErrorMode) String() string { return enumName(errorModeNames, m) }

func enumName[E ~uint8](names []string, e E) string {
	if int(e) < len(names) {
		return names[e]
	}
	return "Unstated"
}

// parseEnum matches s against names, skipping the Unstated slot.
func parseEnum[E ~uint8](names []string, s string) (E, bool) {
	for i := 1; i < len(names); i++ {
		if names[i] == s {
			return E(i), true
		}
	}
	return 0, false
}
