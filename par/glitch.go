package par

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pulsartiming/gopsr/internal/parsetools"
	"github.com/pulsartiming/gopsr/psrerr"
)

// Glitch is one rotational discontinuity, assembled from the indexed GLxx_n
// lines that may appear anywhere in the file.
type Glitch struct {
	// Index is the n of GLxx_n as written in the file.
	Index int
	// Epoch of the glitch (MJD).
	Epoch float64
	// Phase increment.
	Phase float64
	// F0 is the permanent pulse frequency increment (Hz).
	F0 float64
	// F1 is the permanent frequency derivative increment (s^-2).
	F1 float64
	// F0Decay is the decaying pulse frequency increment (Hz).
	F0Decay float64
	// DecayTime is the decay time constant (days).
	DecayTime float64
}

// Glitch sub-field prefixes, in the order they are written.
const (
	glitchEpoch     = "GLEP"
	glitchPhase     = "GLPH"
	glitchF0        = "GLF0"
	glitchF1        = "GLF1"
	glitchF0Decay   = "GLF0D"
	glitchDecayTime = "GLTD"
)

var glitchPrefixes = []string{glitchEpoch, glitchPhase, glitchF0, glitchF1, glitchF0Decay, glitchDecayTime}

// maxGlitchIndex bounds the arena so a stray "GLEP_99999999" cannot
// allocate millions of slots.
const maxGlitchIndex = 1024

// Check reports a glitch that lacks an epoch, a frequency step or a decay
// amplitude.
func (g Glitch) Check() error {
	if g.F0 == 0 || g.F0Decay == 0 || g.Epoch == 0 {
		return &psrerr.Error{Kind: psrerr.KindBadGlitch, Index: g.Index}
	}
	return nil
}

func (g Glitch) lines() string {
	var b strings.Builder
	for _, f := range []struct {
		prefix string
		value  float64
	}{
		{glitchEpoch, g.Epoch},
		{glitchPhase, g.Phase},
		{glitchF0, g.F0},
		{glitchF1, g.F1},
		{glitchF0Decay, g.F0Decay},
		{glitchDecayTime, g.DecayTime},
	} {
		fmt.Fprintf(&b, "%-*s %s\n", keyWidth, f.prefix+"_"+strconv.Itoa(g.Index), parsetools.FormatFloat(f.value))
	}
	return b.String()
}

// glitchArena grows on demand to the highest index seen. Slots that were
// never referenced stay unmarked and are dropped by compact.
type glitchArena struct {
	slots []Glitch
	seen  []bool
}

// splitGlitchKey recognizes "<PREFIX>_<index>".
func splitGlitchKey(key string) (prefix, index string, ok bool) {
	parts := strings.Split(key, "_")
	if len(parts) != 2 {
		return "", "", false
	}
	prefix = strings.ToUpper(parts[0])
	for _, p := range glitchPrefixes {
		if p == prefix {
			return prefix, parts[1], true
		}
	}
	return "", "", false
}

// accept routes a glitch line into its slot. It returns false for lines that
// are not glitch lines, and reports whether an existing field was overwritten.
func (a *glitchArena) accept(tokens []string) (ok, overwrote bool, err error) {
	prefix, indexText, ok := splitGlitchKey(tokens[0])
	if !ok {
		return false, false, nil
	}

	index, err := strconv.Atoi(indexText)
	if err != nil || index < 0 || index >= maxGlitchIndex {
		return true, false, psrerr.Unparsable(indexText, "glitch index")
	}
	value, err := parsetools.Float(tokens[1])
	if err != nil {
		return true, false, err
	}

	for len(a.slots) <= index {
		a.slots = append(a.slots, Glitch{Index: len(a.slots)})
		a.seen = append(a.seen, false)
	}
	a.seen[index] = true
	g := &a.slots[index]

	var field *float64
	switch prefix {
	case glitchEpoch:
		field = &g.Epoch
	case glitchPhase:
		field = &g.Phase
	case glitchF0:
		field = &g.F0
	case glitchF1:
		field = &g.F1
	case glitchF0Decay:
		field = &g.F0Decay
	case glitchDecayTime:
		field = &g.DecayTime
	}
	overwrote = *field != 0
	*field = value
	return true, overwrote, nil
}

// compact returns the referenced glitches in index order.
func (a *glitchArena) compact() []Glitch {
	var out []Glitch
	for i, g := range a.slots {
		if a.seen[i] {
			out = append(out, g)
		}
	}
	return out
}

// checkGlitches validates every glitch and the contiguity of their indices,
// which must run 0..n-1 or 1..n.
func checkGlitches(glitches []Glitch) []error {
	var errs []error
	for _, g := range glitches {
		if err := g.Check(); err != nil {
			errs = append(errs, err)
		}
	}

	indices := make([]int, len(glitches))
	for i, g := range glitches {
		indices[i] = g.Index
	}
	sort.Ints(indices)
	if len(indices) > 0 && indices[0] > 1 {
		errs = append(errs, &psrerr.Error{Kind: psrerr.KindGlitchGap, Index: 1})
	}
	for i := 1; i < len(indices); i++ {
		if indices[i] > indices[i-1]+1 {
			errs = append(errs, &psrerr.Error{Kind: psrerr.KindGlitchGap, Index: indices[i-1] + 1})
		}
	}
	return errs
}
