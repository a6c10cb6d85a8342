package parsers

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/waterbills/internal/entity"
	"github.com/joseph-ayodele/waterbills/internal/extract"
)

// Section boxes on Ranhill SAJ bills.
const (
	johorArrearsSection = "Tunggakan dan Tarikh Section"
	johorBillSection    = "Jumlah Bil Semasa Section"
	johorMeterSection   = "No Meter, Tarikh, Penggunaan(m3) Section"
	johorChargeSection  = "Jumlah Caj Air Semasa Section"
)

var (
	reJohorDeposit   = regexp.MustCompile(`(\d+(?:[.,]\d{1,2})?)`)
	reJohorArrears   = regexp.MustCompile(`(?i)TUNGGAKAN(?:\s+\d{2}/\d{2}/\d{2,4})?(?:\s+[A-Z0-9/]+)?\s+` + amount)
	reJohorBill      = regexp.MustCompile(`(?i)JUMLAH\s+BIL\s+SEMASA[^0-9]*` + amount)
	reJohorCharge    = regexp.MustCompile(`(?i)JUMLAH\s+CAJ\s+AIR\s+SEMASA[^0-9]*` + amount)
	reJohorMeter     = regexp.MustCompile(`(?i)(SAJ\s*[0-9A-Z]+\s*[0-9A-Z]*)`)
	reJohorMeterAlt  = regexp.MustCompile(`(?i)(S[A-Z0-9]{3,}\s*[0-9A-Z]+)`)
	reJohorSAJ       = regexp.MustCompile(`(?i)SAJ`)
	reJohorUsage     = regexp.MustCompile(`(?i)(\d{1,5}(?:[.,\s]\d{1,2})?)\s*(?:m3|$)`)
	reJohorUsageAlt  = regexp.MustCompile(`(?i)(\d{2,4}(?:[.,]\d{1,2})?)\s*(?:m3|$)`)
	reWhitespace     = regexp.MustCompile(`\s+`)
	reNotAccountChar = regexp.MustCompile(`[^A-Za-z0-9\-]`)
)

// ParseJohor reads the Ranhill SAJ section boxes.
func ParseJohor(raw entity.Fields) entity.Fields {
	out := entity.Fields{}

	out["Deposit"] = decimal(reJohorDeposit, raw["Deposit"], extract.DefaultAmount)

	out["Tunggakan"] = extract.DefaultAmount
	if block := raw[johorArrearsSection]; block != "" {
		out["Tunggakan"] = decimal(reJohorArrears, block, extract.DefaultAmount)
		dates := reFullDate.FindAllString(block, -1)
		if len(dates) >= 1 {
			out["Tarikh"] = dates[0]
		}
		if len(dates) >= 2 {
			out["Tarikh Tamat"] = dates[1]
		}
	}

	if block := raw[johorBillSection]; block != "" {
		out["Jumlah Bil Semasa"] = decimal(reJohorBill, block, extract.DefaultAmount)
	}

	out["No. Bil"] = accountNumber(raw["No. Bil"])
	out["No. Akaun"] = accountNumber(raw["No. Akaun"])

	if block := raw[johorMeterSection]; block != "" {
		parseJohorMeter(block, out)
	}

	if block := raw[johorChargeSection]; block != "" {
		out["Jumlah Caj Air Semasa"] = decimal(reJohorCharge, block, "")
	}
	if out["Jumlah Caj Air Semasa"] == "" {
		out["Jumlah Caj Air Semasa"] = out.Or("Jumlah Bil Semasa", extract.DefaultAmount)
	}
	return out
}

func accountNumber(s string) string {
	return reNotAccountChar.ReplaceAllString(reWhitespace.ReplaceAllString(s, ""), "")
}

// parseJohorMeter handles the combined meter / reading dates / usage box.
// Meter numbers are printed with stray spaces ("SAJ22A 131046").
func parseJohorMeter(block string, out entity.Fields) {
	if m := firstGroup(reJohorMeter, block); m != "" {
		out["No. Meter"] = reWhitespace.ReplaceAllString(m, "")
	} else {
		out["No. Meter"] = reWhitespace.ReplaceAllString(firstGroup(reJohorMeterAlt, block), "")
	}

	meterLine := block
	for _, l := range strings.Split(block, "\n") {
		if reJohorSAJ.MatchString(l) {
			meterLine = l
			break
		}
	}
	// usage prints as 184.00, "184 00" or 184
	if u := firstGroup(reJohorUsage, meterLine); u != "" {
		u = strings.Replace(reWhitespace.ReplaceAllString(u, "."), ",", ".", 1)
		if !strings.Contains(u, ".") {
			u += ".00"
		}
		out["Penggunaan (m3)"] = u
	} else {
		out["Penggunaan (m3)"] = decimal(reJohorUsageAlt, block, extract.DefaultAmount)
	}

	// the box lists the current reading date first, then the previous one
	if dates := reFullDate.FindAllString(block, -1); len(dates) >= 2 {
		setPeriod(out, dates[1], dates[0])
	}
}
