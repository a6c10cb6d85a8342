package classify

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/waterbills/constants"
)

type rule struct {
	region   constants.Region
	patterns []*regexp.Regexp
}

// Checked in order; the first region with a matching pattern wins.
var keywordRules = []rule{
	{constants.Selangor, []*regexp.Regexp{
		regexp.MustCompile(`air\s*selangor`),
	}},
	{constants.Melaka, []*regexp.Regexp{
		regexp.MustCompile(`syarikat\s*air\s*melaka`),
		regexp.MustCompile(`\bsamb\b`),
	}},
	{constants.NegeriSembilan, []*regexp.Regexp{
		regexp.MustCompile(`syarikat\s*air\s*negeri\s*sembilan`),
		regexp.MustCompile(`\bsains\b`),
	}},
	{constants.Kedah, []*regexp.Regexp{
		regexp.MustCompile(`syarikat\s*air\s*darul\s*aman`),
		regexp.MustCompile(`\bsada\b`),
	}},
}

// Johor is matched on plain substrings, after the other providers.
var johorFragments = []string{"ranhill", "saj", "darul ta'zim", "johor"}

// Narrower Johor test applied to header/footer OCR text.
var reJohorBanner = regexp.MustCompile(`ranhill|saj\s+sdn|saj\s+holdings|saj\s+berhad|darul\s+ta'?zim|johor|bil\s+air\s+ranhill|ranhill\s+utilities`)

var reSpaces = regexp.MustCompile(`\s+`)

// MatchKeywords runs the text-keyword phase. It returns Unknown when no
// provider name or abbreviation is present.
func MatchKeywords(text string) constants.Region {
	t := reSpaces.ReplaceAllString(strings.ToLower(text), " ")
	for _, r := range keywordRules {
		for _, p := range r.patterns {
			if p.MatchString(t) {
				return r.region
			}
		}
	}
	for _, f := range johorFragments {
		if strings.Contains(t, f) {
			return constants.Johor
		}
	}
	return constants.Unknown
}

// MatchJohorBanner reports whether header/footer OCR text names the Johor
// provider.
func MatchJohorBanner(text string) bool {
	return reJohorBanner.MatchString(strings.ToLower(text))
}

// isSelangor2 reports whether the layout region shows the newer Air Selangor
// bill, which prints separate "baharu" and "lama" reading columns.
func isSelangor2(layoutText string) bool {
	t := strings.ToLower(layoutText)
	return strings.Contains(t, "baharu") && strings.Contains(t, "lama")
}
