package standardize

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/waterbills/internal/entity"
)

func TestStandardize(t *testing.T) {
	in := entity.Fields{
		"File Name":             "bill#1.pdf",
		"Region":                "Negeri-Sembilan",
		"No. Bil":               "  INV/2024-001 ",
		"Nombor Akaun":          "ACC:123*",
		"Tarikh":                "09-08-2025",
		"Tempoh Bil":            "01/07/2025 - 31/07/2025",
		"Bilangan Hari":         "30",
		"Nombor Meter":          "",
		"Penggunaan (m3)":       "23,5",
		"Jumlah Caj Air Semasa": "RM 1.234,56",
		"Baki Terdahulu":        "12.00",
		"Cagaran":               "rm 50",
		"Address":               "ignored",
	}
	want := entity.CanonicalRecord{
		FileName:           entity.StringPtr("bill1.pdf"),
		Region:             entity.StringPtr("Negeri-Sembilan"),
		NoInvois:           entity.StringPtr("INV/2024-001"),
		NoAkaun:            entity.StringPtr("ACC123"),
		Tarikh:             entity.StringPtr("09/08/2025"),
		TempohBil:          entity.StringPtr("01/07/2025 - 31/07/2025"),
		BilanganHari:       entity.StringPtr("30"),
		Penggunaan:         "23.5",
		CajSemasa:          "1234.56",
		Tunggakan:          "0.00",
		JumlahPerluDibayar: "0.00",
		Deposit:            "50",
	}
	got := Standardize(in)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Standardize (-want +got):\n%s", diff)
	}
}

// Prior balance boxes only count as arrears once a region parser maps them.
func TestStandardizeArrearsAliases(t *testing.T) {
	tests := []struct {
		name string
		in   entity.Fields
		want string
	}{
		{"prior balance ignored", entity.Fields{"Region": "Selangor", "Baki Terdahulu": "45.10"}, "0.00"},
		{"canonical key", entity.Fields{"Tunggakan": "RM 3.20"}, "3.20"},
		{"kedah summary key", entity.Fields{"Jumlah Tunggakan": "7.00"}, "7.00"},
		{"canonical wins", entity.Fields{"Tunggakan": "1.00", "Jumlah Tunggakan": "2.00"}, "1.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Standardize(tt.in).Tunggakan; got != tt.want {
				t.Errorf("Tunggakan = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStandardizeEmpty(t *testing.T) {
	got := Standardize(entity.Fields{})
	want := entity.CanonicalRecord{
		Penggunaan: "0.00", CajSemasa: "0.00", Tunggakan: "0.00",
		JumlahPerluDibayar: "0.00", Deposit: "0.00",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("empty (-want +got):\n%s", diff)
	}
}

func TestStandardizeIdempotent(t *testing.T) {
	inputs := []entity.Fields{
		{},
		{"No. Invois": "***", "Tarikh": " - ", "Caj Semasa": "RM"},
		{"File_Name": " a b.pdf ", "No_Akaun": "(12)", "Jumlah_Perlu_Dibayar": "1,234.5", "Deposit": "-7,5"},
		{"Region": "Johor", "No. Bil": "SAJ-01 ", "Tunggakan": "RM 1.234,56", "Tempoh_Bil": "1/1/2024 - 2/1/2024"},
		{"Nombor Meter": "M 12\n", "Penggunaan Semasa": "12 m3", "Bil Semasa": "...", "Tarikh": "2024-01-05"},
	}
	for _, in := range inputs {
		once := Standardize(in)
		twice := Standardize(once.Fields())
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("not idempotent for %v (-once +twice):\n%s", in, diff)
		}
	}
}
