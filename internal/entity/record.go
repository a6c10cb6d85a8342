package entity

// CanonicalRecord is the fixed output schema. Text fields are nil when the
// bill did not yield a value; numeric fields default to "0.00".
type CanonicalRecord struct {
	FileName           *string `json:"File_Name"`
	Region             *string `json:"Region"`
	NoInvois           *string `json:"No_Invois"`
	NoAkaun            *string `json:"No_Akaun"`
	Tarikh             *string `json:"Tarikh"`
	TempohBil          *string `json:"Tempoh_Bil"`
	BilanganHari       *string `json:"Bilangan_Hari"`
	NoMeter            *string `json:"No_Meter"`
	Penggunaan         string  `json:"Penggunaan"`
	CajSemasa          string  `json:"Caj_Semasa"`
	Tunggakan          string  `json:"Tunggakan"`
	JumlahPerluDibayar string  `json:"Jumlah_Perlu_Dibayar"`
	Deposit            string  `json:"Deposit"`
}

// Columns lists the canonical keys in output order.
var Columns = []string{
	"File_Name", "Region", "No_Invois", "No_Akaun", "Tarikh", "Tempoh_Bil",
	"Bilangan_Hari", "No_Meter", "Penggunaan", "Caj_Semasa", "Tunggakan",
	"Jumlah_Perlu_Dibayar", "Deposit",
}

// Values returns the record in Columns order; nil text fields become "".
func (r CanonicalRecord) Values() []string {
	return []string{
		deref(r.FileName), deref(r.Region), deref(r.NoInvois), deref(r.NoAkaun),
		deref(r.Tarikh), deref(r.TempohBil), deref(r.BilanganHari), deref(r.NoMeter),
		r.Penggunaan, r.CajSemasa, r.Tunggakan, r.JumlahPerluDibayar, r.Deposit,
	}
}

// Fields converts the record back into a Fields map keyed by canonical
// names, omitting nil text fields.
func (r CanonicalRecord) Fields() Fields {
	out := make(Fields, len(Columns))
	for i, v := range r.Values() {
		if v != "" {
			out[Columns[i]] = v
		}
	}
	return out
}

// SetFileName overrides File_Name, e.g. with an upload's original name.
func (r *CanonicalRecord) SetFileName(name string) {
	if name == "" {
		r.FileName = nil
		return
	}
	r.FileName = &name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }
