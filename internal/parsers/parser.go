// Package parsers turns raw template text into discrete bill values for the
// providers whose templates crop whole multi-value sections.
package parsers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/waterbills/constants"
	"github.com/joseph-ayodele/waterbills/internal/entity"
	"github.com/joseph-ayodele/waterbills/internal/extract"
)

// Parser maps raw extracted fields to partial-record fields. Parsers never
// fail: missing or unreadable blocks resolve to defaults.
type Parser interface {
	Parse(raw entity.Fields) entity.Fields
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(raw entity.Fields) entity.Fields

func (f ParserFunc) Parse(raw entity.Fields) entity.Fields { return f(raw) }

// Passthrough returns the raw fields unchanged.
var Passthrough Parser = ParserFunc(func(raw entity.Fields) entity.Fields { return raw.Clone() })

var registry = map[constants.Region]Parser{
	constants.Johor:          ParserFunc(ParseJohor),
	constants.Kedah:          ParserFunc(ParseKedah),
	constants.NegeriSembilan: ParserFunc(ParseNegeriSembilan),
}

// For returns the parser for region; regions without one get Passthrough.
func For(region constants.Region) Parser {
	if p, ok := registry[region]; ok {
		return p
	}
	return Passthrough
}

// amount is the shared "number with up to two decimals" token.
const amount = `([0-9]+(?:[.,][0-9]{1,2})?)`

var reFullDate = regexp.MustCompile(`(\d{2}[/\-]\d{2}[/\-]\d{4})`)

// firstGroup returns the first capture of re in s, or "".
func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// decimal returns the first capture with a comma decimal turned into a
// point, or def when nothing matched.
func decimal(re *regexp.Regexp, s, def string) string {
	if v := firstGroup(re, s); v != "" {
		return strings.Replace(v, ",", ".", 1)
	}
	return def
}

// setPeriod stores "Tempoh Bil" and "Bilangan Hari" for two date tokens.
func setPeriod(out entity.Fields, startRaw, endRaw string) bool {
	start, ok1 := extract.NormalizeDate(startRaw)
	end, ok2 := extract.NormalizeDate(endRaw)
	if !ok1 || !ok2 {
		return false
	}
	period, days, ok := extract.Period(start, end)
	if !ok {
		return false
	}
	out[extract.KeyTempohBil] = period
	out[extract.KeyBilanganHari] = strconv.Itoa(days)
	return true
}
