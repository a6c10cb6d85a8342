// Package standardize maps loosely keyed bill fields onto CanonicalRecord.
package standardize

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/waterbills/internal/entity"
	"github.com/joseph-ayodele/waterbills/internal/extract"
)

// Aliases per canonical field, in priority order. The canonical key itself is
// always listed so a standardized record can be standardized again.
var (
	fileNameKeys     = []string{"File Name", "File_Name"}
	regionKeys       = []string{"Region"}
	invoiceKeys      = []string{"No. Invois", "No. Bil", "No_Invois", "No_Bil"}
	accountKeys      = []string{"No. Akaun", "Nombor Akaun", "Nombor_Akaun", "No_Akaun"}
	dateKeys         = []string{"Tarikh"}
	periodKeys       = []string{"Tempoh Bil", "Tempoh_Bil"}
	daysKeys         = []string{"Bilangan Hari", "Bilangan_Hari"}
	meterKeys        = []string{"No. Meter", "Nombor Meter", "Nombor_Meter", "No_Meter"}
	usageKeys        = []string{"Penggunaan", "Penggunaan (m3)", "Penggunaan Semasa"}
	chargeKeys       = []string{"Caj Semasa", "Jumlah Bil Semasa", "Jumlah Caj Semasa", "Jumlah Caj Air Semasa", "Bil Semasa", "Caj_Semasa"}
	arrearsKeys      = []string{"Tunggakan", "Jumlah Tunggakan"}
	payableKeys      = []string{"Jumlah Perlu Dibayar", "Jumlah_Perlu_Dibayar"}
	depositKeys      = []string{"Deposit", "Cagaran"}
	reTextDisallowed = regexp.MustCompile(`[^\w\s/\-.,]`)
)

// Standardize is deterministic and idempotent:
// Standardize(Standardize(f).Fields()) == Standardize(f).
func Standardize(f entity.Fields) entity.CanonicalRecord {
	return entity.CanonicalRecord{
		FileName:           text(f.First(fileNameKeys...)),
		Region:             text(f.First(regionKeys...)),
		NoInvois:           text(f.First(invoiceKeys...)),
		NoAkaun:            text(f.First(accountKeys...)),
		Tarikh:             text(strings.ReplaceAll(f.First(dateKeys...), "-", "/")),
		TempohBil:          text(f.First(periodKeys...)),
		BilanganHari:       text(f.First(daysKeys...)),
		NoMeter:            text(f.First(meterKeys...)),
		Penggunaan:         extract.CleanNumeric(f.First(usageKeys...)),
		CajSemasa:          extract.CleanNumeric(f.First(chargeKeys...)),
		Tunggakan:          extract.CleanNumeric(f.First(arrearsKeys...)),
		JumlahPerluDibayar: extract.CleanNumeric(f.First(payableKeys...)),
		Deposit:            extract.CleanNumeric(f.First(depositKeys...)),
	}
}

// text drops characters outside the whitelist, then trims; nothing left is nil.
func text(v string) *string {
	v = strings.TrimSpace(reTextDisallowed.ReplaceAllString(v, ""))
	if v == "" {
		return nil
	}
	return &v
}
