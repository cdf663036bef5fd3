package tim

import (
	"strings"
	"unicode/utf8"

	"github.com/pulsartiming/gopsr/psrerr"
)

// Parkes lines are fixed-column. Only the framing is validated.
const (
	parkesBlankColumn  = 0
	parkesPeriodColumn = 41
)

// ParseParkes validates the framing of a fixed-column Parkes TOA line. Full
// column parsing is not supported: a well-framed line yields
// KindNotImplemented.
func ParseParkes(line string) (TOAInfo, error) {
	line = strings.TrimRight(line, "\r\n")
	for i := 0; i < len(line); i++ {
		if line[i] >= utf8.RuneSelf {
			return TOAInfo{}, psrerr.New(psrerr.KindTimNotASCII, line)
		}
	}
	if len(line) <= parkesBlankColumn || line[parkesBlankColumn] != ' ' {
		return TOAInfo{}, psrerr.New(psrerr.KindTimParkesMissingBlank, line)
	}
	if len(line) <= parkesPeriodColumn || line[parkesPeriodColumn] != '.' {
		return TOAInfo{}, psrerr.New(psrerr.KindTimParkesMissingPeriod, line)
	}
	return TOAInfo{}, psrerr.New(psrerr.KindNotImplemented, "parkes TOA parsing")
}
