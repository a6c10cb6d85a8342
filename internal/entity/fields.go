package entity

// Fields is the loose field-name → text mapping produced by template
// extraction and region parsers. Keys follow whatever label the bill prints;
// the standardizer maps them onto CanonicalRecord.
type Fields map[string]string

// First returns the first non-empty value among keys.
func (f Fields) First(keys ...string) string {
	for _, k := range keys {
		if v := f[k]; v != "" {
			return v
		}
	}
	return ""
}

// Or returns f[key], or def when the value is empty or missing.
func (f Fields) Or(key, def string) string {
	if v := f[key]; v != "" {
		return v
	}
	return def
}

func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
