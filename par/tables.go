package par

import (
	"slices"
	"sort"
)

// Entry is a row of a parameter table: a canonical key, the synonyms that
// resolve to it, and a description mostly taken from the tempo2 manual.
type Entry struct {
	Name        string
	Aliases     []string
	Description string
}

// Matches reports whether key is the canonical name or one of the aliases.
func (e Entry) Matches(key string) bool {
	return e.Name == key || slices.Contains(e.Aliases, key)
}

// ValueKind is the value type a table stores.
type ValueKind uint8

const (
	KindFloat ValueKind = iota
	KindInteger
	KindText
	KindFlag
	// KindSpecial covers the keys handled outside the generic tables.
	KindSpecial
)

func (k ValueKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInteger:
		return "integer"
	case KindText:
		return "text"
	case KindFlag:
		return "flag"
	default:
		return "special"
	}
}

// Table is one of the static parameter tables.
type Table struct {
	Kind    ValueKind
	Entries []Entry
}

var floatTable = []Entry{
	{"F0", nil, "The rotational frequency (Hz)"},
	{"F1", nil, "The 1st time derivative of the rotational frequency (Hz / s)"},
	{"F2", nil, "The 2nd time derivative of the rotational frequency (Hz / s^2)"},
	{"F3", nil, "The 3rd time derivative of the rotational frequency (Hz / s^3)"},
	{"F4", nil, "The 4th time derivative of the rotational frequency (Hz / s^4)"},
	{"F5", nil, "The 5th time derivative of the rotational frequency (Hz / s^5)"},
	{"F6", nil, "The 6th time derivative of the rotational frequency (Hz / s^6)"},
	{"P0", []string{"P"}, "Spin period of pulsar (s)"},
	{"P1", []string{"PDOT"}, "Spin down rate of pulsar (10^-15)"},
	{"PEPOCH", nil, "Epoch of period measurement (MJD)"},
	{"ELONG", []string{"LAMBDA"}, "Ecliptic longitude (deg)"},
	{"ELAT", []string{"BETA"}, "Ecliptic latitude (deg)"},
	{"POSEPOCH", nil, "Epoch of position measurement (MJD)"},
	{"PMLAMBDA", []string{"PMELONG"}, "Proper motion in ecliptic longitude (mas/yr)"},
	{"PMBETA", []string{"PMELAT"}, "Proper motion in ecliptic latitude (mas/yr)"},
	{"PMRA", nil, "Proper motion in right ascension (mas/yr)"},
	{"PMDEC", nil, "Proper motion in declination (mas/yr)"},
	{"DMEPOCH", nil, "Epoch of DM measurement (MJD)"},
	{"DM", nil, "The dispersion measure (cm^-3 pc)"},
	{"DM1", nil, "1st time derivative of the dispersion measure (cm^-3 pc / s)"},
	{"DM2", nil, "2nd time derivative of the dispersion measure (cm^-3 pc / s^2)"},
	{"DM3", nil, "3rd time derivative of the dispersion measure (cm^-3 pc / s^3)"},
	{"DM4", nil, "4th time derivative of the dispersion measure (cm^-3 pc / s^4)"},
	{"DM5", nil, "5th time derivative of the dispersion measure (cm^-3 pc / s^5)"},
	{"DM6", nil, "6th time derivative of the dispersion measure (cm^-3 pc / s^6)"},
	{"FDD", nil, "Frequency-dependent delay"},
	{"PX", nil, "Parallax (mas)"},
	{"PMRV", nil, "Radial velocity"},
	{"WAVE_OM", nil, "Frequency of fundamental sinusoid for whitening"},
	{"WAVE1", nil, "Amplitude of sine and cosine for the 1st harmonic for whitening"},
	{"WAVE2", nil, "Amplitude of sine and cosine for the 2nd harmonic for whitening"},
	{"WAVE3", nil, "Amplitude of sine and cosine for the 3rd harmonic for whitening"},
	{"WAVE4", nil, "Amplitude of sine and cosine for the 4th harmonic for whitening"},
	{"WAVE5", nil, "Amplitude of sine and cosine for the 5th harmonic for whitening"},
	{"WAVE6", nil, "Amplitude of sine and cosine for the 6th harmonic for whitening"},
	{"TRES", nil, "Rms timing residual (us)"},
	{"NE1AU", nil, "The electron density at 1 AU due to the solar wind"},
	{"TZRMJD", nil, "Reference TOA epoch for phase zero (MJD)"},
	{"TZRFRQ", nil, "Observing frequency of the reference TOA (MHz)"},
	{"START", nil, "Start of the fitted data span (MJD)"},
	{"FINISH", nil, "End of the fitted data span (MJD)"},
	{"A1", nil, "Projected semi-major axis of orbit (lt-sec)"},
	{"PB", nil, "Orbital period (days)"},
	{"PBDOT", nil, "1st time derivative of binary period (days / s)"},
	{"PB2", nil, "2nd time derivative of binary period (days / s^2)"},
	{"PB3", nil, "3rd time derivative of binary period (days / s^3)"},
	{"PB4", nil, "4th time derivative of binary period (days / s^4)"},
	{"PB5", nil, "5th time derivative of binary period (days / s^5)"},
	{"PB6", nil, "6th time derivative of binary period (days / s^6)"},
	{"ECC", []string{"E"}, "Eccentricity of orbit"},
	{"T0", nil, "Epoch of periastron (MJD)"},
	{"OM", nil, "Longitude of periastron (degrees)"},
	{"TASC", nil, "Epoch of ascending node (MJD)"},
	{"EPS1", nil, "ECC x sin(OM) for ELL1 model"},
	{"EPS2", nil, "ECC x cos(OM) for ELL1 model"},
	{"OMDOT", nil, "Rate of advance of periastron (deg/yr)"},
	{"A1DOT", []string{"XDOT"}, "Rate of change of projected semi-major axis (10^-12)"},
	{"SINI", nil, "Sine of inclination angle"},
	{"M2", nil, "Companion mass (solar masses)"},
	{"XPBDOT", nil, "Rate of change of orbital period minus GR prediction"},
	{"ECCDOT", []string{"EDOT"}, "Rate of change of eccentricity"},
	{"GAMMA", nil, "Post-Keplerian 'gamma' term (s)"},
	{"DR", nil, "Relativistic deformation of the orbit"},
	{"DTH", nil, "Relativistic deformation of the orbit"},
	{"A0", nil, "Aberration parameter A0"},
	{"B0", nil, "Aberration parameter B0"},
	{"BP", nil, "Tensor multi-scalar parameter beta-prime"},
	{"BPP", nil, "Tensor multi-scalar parameter beta-prime-prime"},
	{"DTHETA", nil, "Relativistic deformation of the orbit"},
	{"XOMDOT", nil, "Rate of periastron advance minus GR prediction (deg/yr)"},
	{"EPS1DOT", nil, "Time derivative of EPS1"},
	{"EPS2DOT", nil, "Time derivative of EPS2"},
	{"KOM", nil, "Longitude of the ascending node (deg)"},
	{"KIN", nil, "Orbital inclination angle (deg)"},
	{"SHAPMAX", nil, "-ln(1 - SINI) for high-inclination orbits"},
	{"MTOT", nil, "Total system mass (solar masses)"},
	{"NE_SW", nil, "Solar wind electron density at 1 AU (cm^-3)"},
	{"CHI2R", nil, "Reduced chi-square of the last fit"},
}

var integerTable = []Entry{
	{"NITS", nil, "Number of iterations for the fitting routines"},
	{"IBOOT", nil, "Number of iterations used in the bootstrap fitting method"},
	{"NTOA", nil, "Number of TOAs"},
}

var textTable = []Entry{
	{"PSR", []string{"PSRJ", "PSRB"}, "Pulsar name"},
	{"CLK", nil, "Definition of clock to use"},
	{"CLK_CORR_CHAIN", nil, "Clock correction chain(s) to use"},
	{"EPHEM", nil, "Which solar system ephemeris to use"},
	{"TZRSITE", nil, "Observatory code of the reference TOA"},
	{"NSPAN", []string{"TSPAN"}, "Span of the polyco predictions (min)"},
	{"EPHVER", nil, "Ephemeris version of the writing program"},
	{"TRACK", nil, "Phase tracking mode"},
	{"AFAC", nil, "Astrometric factor"},
	{"DM_SERIES", nil, "DM expansion type (e.g. TAYLOR)"},
}

var flagTable = []Entry{
	{"TEMPO1", nil, "Whether to run in tempo emulation mode: e.g. TDB units (Default=false)"},
	{"NOTRACK", nil, "Switch off tracking mode"},
	{"NO_SS_SHAPIRO", nil, "Switch off the calculation of the Solar system Shapiro delay"},
	{"IPM", nil, "Switch off calculation of the interplanetary medium"},
	{"DILATE_FREQ", nil, "Whether or not to apply gravitational redshift and time dilation to observing frequency"},
	{"PLANET_SHAPIRO", nil, "Include planetary Shapiro delays"},
	{"CORRECT_TROPOSPHERE", nil, "Whether or not to apply tropospheric delay corrections"},
	{"DILATEFREQ", nil, "Legacy spelling of DILATE_FREQ"},
}

// Coordinates take fit suffixes, so they sit outside the float table.
var (
	raEntry  = Entry{"RA", []string{"RAJ"}, "J2000 right ascension (hh:mm:ss.s)"}
	decEntry = Entry{"DEC", []string{"DECJ"}, "J2000 declination (dd:mm:ss.s)"}
)

// Keys mapped to closed vocabularies.
var (
	timeEphEntry   = Entry{"TIMEEPH", nil, "Time ephemeris (IF99, FB90)"}
	modelEntry     = Entry{"MODEL", []string{"BINARY"}, "Binary model"}
	t2cMethodEntry = Entry{"T2CMETHOD", nil, "Terrestrial to celestial transformation method"}
	unitsEntry     = Entry{"UNITS", nil, "Time units (SI, TCB, TDB)"}
	modeEntry      = Entry{"MODE", nil, "Error mode (0, 1)"}
	jumpEntry      = Entry{"JUMP", nil, "Constant offset between selected TOAs"}
)

var specialEntries = []Entry{raEntry, decEntry, timeEphEntry, modelEntry, t2cMethodEntry, unitsEntry, modeEntry, jumpEntry}

func lookup(table []Entry, key string) (Entry, bool) {
	for _, e := range table {
		if e.Matches(key) {
			return e, true
		}
	}
	return Entry{}, false
}

// LookupFloat finds key in the float table. The first match wins.
func LookupFloat(key string) (Entry, bool) { return lookup(floatTable, key) }

// LookupInteger finds key in the integer table.
func LookupInteger(key string) (Entry, bool) { return lookup(integerTable, key) }

// LookupText finds key in the text table.
func LookupText(key string) (Entry, bool) { return lookup(textTable, key) }

// LookupFlag finds key in the boolean flag table.
func LookupFlag(key string) (Entry, bool) { return lookup(flagTable, key) }

// Tables returns copies of every table, special keys last.
func Tables() []Table {
	return []Table{
		{KindFloat, slices.Clone(floatTable)},
		{KindInteger, slices.Clone(integerTable)},
		{KindText, slices.Clone(textTable)},
		{KindFlag, slices.Clone(flagTable)},
		{KindSpecial, slices.Clone(specialEntries)},
	}
}

// Collision is a key that resolves in more than one place.
type Collision struct {
	Key     string
	Entries []string // "kind:CANONICAL" for every entry the key matches
}

// AliasCollisions lists every key (canonical or alias) that matches more
// than one entry across all tables, sorted by key. Lookup order hides such
// collisions at parse time, so they are reported here instead.
func AliasCollisions() []Collision {
	owners := make(map[string][]string)
	for _, t := range Tables() {
		for _, e := range t.Entries {
			ref := t.Kind.String() + ":" + e.Name
			for _, key := range append([]string{e.Name}, e.Aliases...) {
				if !slices.Contains(owners[key], ref) {
					owners[key] = append(owners[key], ref)
				}
			}
		}
	}

	var out []Collision
	for key, refs := range owners {
		if len(refs) > 1 {
			out = append(out, Collision{Key: key, Entries: refs})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
