package par

import (
	"errors"
	"math"
	"strings"

	"github.com/pulsartiming/gopsr/internal/parsetools"
	"github.com/pulsartiming/gopsr/psrerr"
)

// Check validates the document as a whole. Every failing check is reported;
// the result is an errors.Join of *psrerr.Error values, or nil.
func (pf *Parfile) Check() error {
	var errs []error

	if pf.Name() == "" {
		errs = append(errs, psrerr.New(psrerr.KindNoName, ""))
	}
	if err := checkPositive(pf, "PEPOCH", psrerr.KindNoPEpoch, psrerr.KindBadPEpoch); err != nil {
		errs = append(errs, err)
	}
	if err := checkPositive(pf, "F0", psrerr.KindNoFrequency, psrerr.KindBadFrequency); err != nil {
		errs = append(errs, err)
	}
	if _, ok := pf.Lookup("DM"); !ok {
		errs = append(errs, psrerr.New(psrerr.KindNoDispersion, ""))
	}

	var dups []psrerr.Duplicate
	dups = append(dups, duplicates(pf.Floats)...)
	dups = append(dups, duplicates(pf.Integers)...)
	dups = append(dups, duplicates(pf.Texts)...)
	dups = append(dups, duplicates(pf.Flags)...)
	if len(dups) > 0 {
		errs = append(errs, &psrerr.Error{Kind: psrerr.KindDuplicateParameters, Duplicates: dups})
	}

	errs = append(errs, checkGlitches(pf.Glitches)...)

	return errors.Join(errs...)
}

func checkPositive(pf *Parfile, key string, missing, bad psrerr.Kind) error {
	p, ok := pf.Lookup(key)
	if !ok {
		return psrerr.New(missing, "")
	}
	v, ok := p.Value().Get()
	if !ok {
		return psrerr.New(missing, "")
	}
	// NaN fails every comparison, so test for the valid range.
	if !(v > 0) || math.IsInf(v, 1) {
		return psrerr.New(bad, parsetools.FormatFloat(v))
	}
	return nil
}

// duplicates pairs every parameter with the first later parameter of the
// same name. Three parameters sharing a name yield two pairs.
func duplicates[T any](params []Parameter[T]) []psrerr.Duplicate {
	var out []psrerr.Duplicate
	for i := range params {
		for j := i + 1; j < len(params); j++ {
			if params[i].Name() == params[j].Name() {
				out = append(out, psrerr.Duplicate{
					First:  strings.TrimSpace(params[i].String()),
					Second: strings.TrimSpace(params[j].String()),
				})
				break
			}
		}
	}
	return out
}
