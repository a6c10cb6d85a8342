package parsers

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/waterbills/constants"
	"github.com/joseph-ayodele/waterbills/internal/entity"
)

func TestFor(t *testing.T) {
	raw := entity.Fields{"No. Akaun": "1"}
	for _, r := range []constants.Region{constants.Selangor, constants.Selangor2, constants.Melaka} {
		got := For(r).Parse(raw)
		if diff := cmp.Diff(raw, got); diff != "" {
			t.Errorf("%s should pass through (-want +got):\n%s", r, diff)
		}
	}
	if got := For(constants.Kedah).Parse(raw); got["Nombor Akaun"] != "1" {
		t.Errorf("kedah parser not selected: %v", got)
	}
}

func TestParseJohor(t *testing.T) {
	tests := []struct {
		name string
		raw  entity.Fields
		want entity.Fields
	}{
		{
			name: "full bill",
			raw: entity.Fields{
				"Deposit":           "RM 150,00",
				johorArrearsSection: "TUNGGAKAN 12/05/2024 ABC123 25.40\nTarikh Bil 15/06/2024",
				johorBillSection:    "JUMLAH BIL SEMASA RM 48.90",
				"No. Bil":           " 9001 2345-67 ",
				"No. Akaun":         "#12 345 678",
				johorMeterSection:   "Bacaan\nSAJ22A 131046 14/06/2024 15/05/2024 184 00\n",
				johorChargeSection:  "JUMLAH CAJ AIR SEMASA : 45,60",
			},
			want: entity.Fields{
				"Deposit":               "150.00",
				"Tunggakan":             "25.40",
				"Tarikh":                "12/05/2024",
				"Tarikh Tamat":          "15/06/2024",
				"Jumlah Bil Semasa":     "48.90",
				"No. Bil":               "90012345-67",
				"No. Akaun":             "12345678",
				"No. Meter":             "SAJ22A131046",
				"Penggunaan (m3)":       "184.00",
				"Tempoh Bil":            "15/05/2024 - 14/06/2024",
				"Bilangan Hari":         "30",
				"Jumlah Caj Air Semasa": "45.60",
			},
		},
		{
			name: "missing sections default",
			raw:  entity.Fields{},
			want: entity.Fields{
				"Deposit":               "0.00",
				"Tunggakan":             "0.00",
				"No. Bil":               "",
				"No. Akaun":             "",
				"Jumlah Caj Air Semasa": "0.00",
			},
		},
		{
			name: "fallback meter and charge",
			raw: entity.Fields{
				johorBillSection:   "JUMLAH BIL SEMASA 12.30",
				johorChargeSection: "illegible",
				johorMeterSection:  "METER S12AB 99\nGUNA 31 m3",
			},
			want: entity.Fields{
				"Deposit":               "0.00",
				"Tunggakan":             "0.00",
				"Jumlah Bil Semasa":     "12.30",
				"No. Bil":               "",
				"No. Akaun":             "",
				"No. Meter":             "S12AB99",
				"Penggunaan (m3)":       "31.00",
				"Jumlah Caj Air Semasa": "12.30",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseJohor(tt.raw)); diff != "" {
				t.Errorf("ParseJohor (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseKedah(t *testing.T) {
	raw := entity.Fields{
		"No. Akaun":         "K-1",
		"No. Bil":           "INV9",
		"Tarikh":            "01/02/2024",
		"Tempoh Bil":        "01/01/2024 - 31/01/2024",
		"Bilangan Hari":     "30",
		"No. Meter":         "M1",
		"Penggunaan Semasa": "12",
		kedahSummarySection: "JUMLAH CAJ SEMASA RM 30.50\nJUMLAH TUNGGAKAN 0,00\nJUMLAH PERLU DIBAYAR RM30.50",
	}
	want := entity.Fields{
		"Nombor Akaun":         "K-1",
		"No. Invois":           "INV9",
		"Tarikh":               "01/02/2024",
		"Tempoh Bil":           "01/01/2024 - 31/01/2024",
		"Bilangan Hari":        "30",
		"Nombor Meter":         "M1",
		"Penggunaan Semasa":    "12",
		"Jumlah Caj Semasa":    "30.50",
		"Jumlah Tunggakan":     "0.00",
		"Jumlah Perlu Dibayar": "30.50",
		"Cagaran":              "0.00",
	}
	if diff := cmp.Diff(want, ParseKedah(raw)); diff != "" {
		t.Errorf("ParseKedah (-want +got):\n%s", diff)
	}

	empty := ParseKedah(entity.Fields{})
	for _, k := range []string{"Jumlah Caj Semasa", "Jumlah Tunggakan", "Jumlah Perlu Dibayar", "Cagaran"} {
		if empty[k] != "0.00" {
			t.Errorf("%s = %q, want 0.00", k, empty[k])
		}
	}
}

func TestParseNegeriSembilan(t *testing.T) {
	tests := []struct {
		name string
		raw  entity.Fields
		want entity.Fields
	}{
		{
			name: "period found",
			raw: entity.Fields{
				"No. Akaun":     "N1",
				"No. Bil":       "B2",
				"Tarikh":        "09-08-2025 ",
				nsPeriodSection: "TEMPOH BIL SEMASA: 1/7/2025 HINGGA 31/7/2025",
				"Penggunaan":    "Penggunaan 23,5 m3",
				"Deposit":       "RM 100",
				"No. Meter":     "X",
			},
			want: entity.Fields{
				"No. Akaun":            "N1",
				"No. Invois":           "B2",
				"Tarikh":               "09/08/2025",
				"Tempoh Bil":           "01/07/2025 - 31/07/2025",
				"Bilangan Hari":        "30",
				"Penggunaan":           "23.5",
				"Deposit":              "100",
				"No. Meter":            "X",
				"Caj Semasa":           "0.00",
				"Tunggakan":            "0.00",
				"Jumlah Perlu Dibayar": "0.00",
			},
		},
		{
			name: "nothing readable",
			raw:  entity.Fields{nsPeriodSection: "TEMPOH BIL 1/7/2025"},
			want: entity.Fields{
				"No. Akaun":            "",
				"No. Invois":           "",
				"Tarikh":               "",
				"Tempoh Bil":           "",
				"Bilangan Hari":        "",
				"Penggunaan":           "0",
				"Deposit":              "0.00",
				"No. Meter":            "",
				"Caj Semasa":           "0.00",
				"Tunggakan":            "0.00",
				"Jumlah Perlu Dibayar": "0.00",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseNegeriSembilan(tt.raw)); diff != "" {
				t.Errorf("ParseNegeriSembilan (-want +got):\n%s", diff)
			}
		})
	}
}
