package par

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pulsartiming/gopsr/psrerr"
)

// Write checks the Parfile and writes it to w. Nothing is written when the
// check fails.
//
// The output order is fixed and independent of the input: PSR, RA, DEC,
// floats, integers, remaining texts, flags, the stated enumerations,
// glitches and jumps.
func (pf *Parfile) Write(w io.Writer) error {
	if err := pf.Check(); err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, t := range pf.Texts {
		if t.Name() == "PSR" {
			buf.WriteString(t.line())
			break
		}
	}
	if !pf.RA.Value().IsMissing() {
		buf.WriteString(pf.RA.line())
	}
	if !pf.Dec.Value().IsMissing() {
		buf.WriteString(pf.Dec.line())
	}

	for _, p := range pf.Floats {
		buf.WriteString(p.line())
	}
	for _, p := range pf.Integers {
		buf.WriteString(p.line())
	}
	namePrinted := false
	for _, p := range pf.Texts {
		if p.Name() == "PSR" && !namePrinted {
			namePrinted = true
			continue
		}
		buf.WriteString(p.line())
	}
	for _, p := range pf.Flags {
		buf.WriteString(p.line())
	}

	writeEnum(&buf, timeEphEntry, pf.TimeEphemeris)
	writeEnum(&buf, modelEntry, pf.BinaryModel)
	writeEnum(&buf, unitsEntry, pf.Units)
	writeEnum(&buf, t2cMethodEntry, pf.T2CMethod)
	writeEnum(&buf, modeEntry, pf.ErrorMode)

	for _, g := range pf.Glitches {
		buf.WriteString(g.lines())
	}
	for _, j := range pf.Jumps {
		buf.WriteString(j.String())
		buf.WriteByte('\n')
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return psrerr.Wrap(psrerr.KindIO, "", err)
	}
	return nil
}

type stated interface {
	~uint8
	fmt.Stringer
}

func writeEnum[E stated](buf *bytes.Buffer, e Entry, v E) {
	if v == 0 {
		return
	}
	fmt.Fprintf(buf, "%-*s %s\n", keyWidth, e.Name, v)
}
