package tim

import (
	"strings"
	"testing"

	"github.com/pulsartiming/gopsr/internal/testutil"
	"github.com/pulsartiming/gopsr/psrerr"
)

// parkesLine returns a line with a blank first column and a period in
// column 42.
func parkesLine() string {
	b := []byte(strings.Repeat("x", 60))
	b[0] = ' '
	b[41] = '.'
	return string(b)
}

func TestParseParkes(t *testing.T) {
	framed := parkesLine()

	tests := []struct {
		name string
		line string
		kind psrerr.Kind
	}{
		{"framed line is a stub", framed, psrerr.KindNotImplemented},
		{"non ascii", framed[:10] + "é" + framed[12:], psrerr.KindTimNotASCII},
		{"missing blank", "x" + framed[1:], psrerr.KindTimParkesMissingBlank},
		{"empty", "", psrerr.KindTimParkesMissingBlank},
		{"missing period", framed[:41] + "x" + framed[42:], psrerr.KindTimParkesMissingPeriod},
		{"too short", " short", psrerr.KindTimParkesMissingPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseParkes(tt.line)
			testutil.RequireKind(t, err, tt.kind)
		})
	}
}
