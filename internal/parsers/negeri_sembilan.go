package parsers

import (
	"fmt"
	"regexp"

	"github.com/joseph-ayodele/waterbills/internal/entity"
	"github.com/joseph-ayodele/waterbills/internal/extract"
)

const nsPeriodSection = "Bilangan Hari Section"

var (
	reNSDateSep = regexp.MustCompile(`[.\-]`)
	reNSPeriod  = regexp.MustCompile(`(?i)TEMPOH\s+BIL\s+SEMASA\s*[:\-]?\s*(\d{1,2})[/\-](\d{1,2})[/\-](\d{4}).*?(?:HINGGA|TO)\s*(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`)
	reNSUsage   = regexp.MustCompile(`(\d+(?:[.,]\d+)?)`)
	reNSDeposit = regexp.MustCompile(amount)
)

// ParseNegeriSembilan reads SAINS bills: the period comes from the
// "TEMPOH BIL SEMASA ... HINGGA ..." line.
func ParseNegeriSembilan(raw entity.Fields) entity.Fields {
	out := entity.Fields{
		"No. Akaun":  raw["No. Akaun"],
		"No. Invois": raw["No. Bil"],
		"Tarikh":     "",
	}
	if t := raw["Tarikh"]; t != "" {
		out["Tarikh"] = reWhitespace.ReplaceAllString(reNSDateSep.ReplaceAllString(t, "/"), "")
	}

	out[extract.KeyTempohBil] = ""
	out[extract.KeyBilanganHari] = ""
	if m := reNSPeriod.FindStringSubmatch(raw[nsPeriodSection]); m != nil {
		setPeriod(out,
			fmt.Sprintf("%s/%s/%s", m[1], m[2], m[3]),
			fmt.Sprintf("%s/%s/%s", m[4], m[5], m[6]))
	}

	out["Penggunaan"] = decimal(reNSUsage, raw["Penggunaan"], "0")
	out["Deposit"] = decimal(reNSDeposit, raw["Deposit"], extract.DefaultAmount)

	out["No. Meter"] = raw["No. Meter"]
	out["Caj Semasa"] = raw.Or("Caj Semasa", extract.DefaultAmount)
	out["Tunggakan"] = raw.Or("Tunggakan", extract.DefaultAmount)
	out["Jumlah Perlu Dibayar"] = raw.Or("Jumlah Perlu Dibayar", extract.DefaultAmount)
	return out
}
