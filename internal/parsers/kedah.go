package parsers

import (
	"regexp"

	"github.com/joseph-ayodele/waterbills/internal/entity"
	"github.com/joseph-ayodele/waterbills/internal/extract"
)

const kedahSummarySection = "Jumlah Caj Semasa, Jumlah Tunggakan dan Jumlah Perlu Dibayar Section"

var (
	reKedahCharge  = regexp.MustCompile(`(?i)JUMLAH CAJ SEMASA[^0-9]*` + amount)
	reKedahArrears = regexp.MustCompile(`(?i)JUMLAH TUNGGAKAN[^0-9]*` + amount)
	reKedahPayable = regexp.MustCompile(`(?i)JUMLAH PERLU DIBAYAR[^0-9]*` + amount)
)

// ParseKedah pulls the three headline amounts out of the SADA summary box
// and renames the discrete fields.
func ParseKedah(raw entity.Fields) entity.Fields {
	summary := raw[kedahSummarySection]
	return entity.Fields{
		"Nombor Akaun":         raw["No. Akaun"],
		"No. Invois":           raw["No. Bil"],
		"Tarikh":               raw["Tarikh"],
		"Tempoh Bil":           raw[extract.KeyTempohBil],
		"Bilangan Hari":        raw[extract.KeyBilanganHari],
		"Nombor Meter":         raw["No. Meter"],
		"Penggunaan Semasa":    raw["Penggunaan Semasa"],
		"Jumlah Caj Semasa":    decimal(reKedahCharge, summary, extract.DefaultAmount),
		"Jumlah Tunggakan":     decimal(reKedahArrears, summary, extract.DefaultAmount),
		"Jumlah Perlu Dibayar": decimal(reKedahPayable, summary, extract.DefaultAmount),
		"Cagaran":              raw.Or("Cagaran", extract.DefaultAmount),
	}
}
