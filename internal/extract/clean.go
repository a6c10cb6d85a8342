package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultAmount is what an empty currency or quantity field resolves to.
const DefaultAmount = "0.00"

// addressBaselineLines is the address length templates are measured with.
const addressBaselineLines = 6

// addressLineShift is the canonical-pixel shift per missing address line.
const addressLineShift = 50

var (
	reCurrency   = regexp.MustCompile(`(?i)rm\s*`)
	reNonNumeric = regexp.MustCompile(`[^\d.,-]`)
	reDigit      = regexp.MustCompile(`\d`)
	reDate       = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})`)
	reLineBreaks = regexp.MustCompile(`\n+`)

	addressStopWords = []string{"selangor", "kuala lumpur", "putrajaya", "labuan"}
)

// CleanNumeric canonicalizes a recognized amount. The currency prefix and any
// character other than digits, separators and minus are dropped. When both
// separators occur the last one is the decimal point and the other a
// thousands separator; repeated separators keep only their last occurrence.
// Input without digits yields DefaultAmount.
func CleanNumeric(v string) string {
	s := reCurrency.ReplaceAllString(v, "")
	s = reNonNumeric.ReplaceAllString(s, "")
	if !reDigit.MatchString(s) {
		return DefaultAmount
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = keepLast(s, ",")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
			s = keepLast(s, ".")
		}
	case lastComma >= 0:
		s = strings.Replace(keepLast(s, ","), ",", ".", 1)
	case lastDot >= 0:
		s = keepLast(s, ".")
	}
	return s
}

// keepLast removes every occurrence of sep except the last one.
func keepLast(s, sep string) string {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s
	}
	return strings.ReplaceAll(s[:i], sep, "") + s[i:]
}

// NormalizeDate finds the first D/M/Y token in s and returns it as
// DD/MM/YYYY. Two-digit years are taken as 20YY. The second result is false
// when s holds no plausible date.
func NormalizeDate(s string) (string, bool) {
	m := reDate.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	dd, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if dd < 1 || dd > 31 || mm < 1 || mm > 12 {
		return "", false
	}
	yyyy := m[3]
	switch len(yyyy) {
	case 2:
		yyyy = "20" + yyyy
	case 3:
		return "", false
	}
	return fmt.Sprintf("%02d/%02d/%s", dd, mm, yyyy), true
}

// Period joins two normalized dates as "start - end" and returns the absolute
// number of days between them.
func Period(start, end string) (period string, days int, ok bool) {
	d1, err := time.Parse("02/01/2006", start)
	if err != nil {
		return "", 0, false
	}
	d2, err := time.Parse("02/01/2006", end)
	if err != nil {
		return "", 0, false
	}
	days = int(math.Abs(math.Round(d2.Sub(d1).Hours() / 24)))
	return start + " - " + end, days, true
}

// CleanAddress trims the recognized address block and truncates it after the
// last line naming a state or federal territory.
func CleanAddress(t string) string {
	lines := splitLines(t)
	last := -1
	for i := len(lines) - 1; i >= 0; i-- {
		l := strings.ToLower(lines[i])
		for _, w := range addressStopWords {
			if strings.Contains(l, w) {
				last = i
				break
			}
		}
		if last >= 0 {
			break
		}
	}
	if last >= 0 {
		lines = lines[:last+1]
	}
	return strings.Join(lines, "\n")
}

// CountAddressLines counts non-empty lines. An empty address counts as the
// baseline so no offset is applied.
func CountAddressLines(t string) int {
	if t == "" {
		return addressBaselineLines
	}
	return len(splitLines(t))
}

// AddressOffset is the vertical shift applied to address-dependent boxes.
func AddressOffset(lines int) int {
	return -(addressBaselineLines - lines) * addressLineShift
}

func splitLines(t string) []string {
	var out []string
	for _, l := range reLineBreaks.Split(t, -1) {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
