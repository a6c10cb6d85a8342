// Package template loads per-region field coordinate templates. A template
// maps field names to boxes on the canonical canvas; the reserved "Address"
// box is handled first by the extractor.
package template

import (
	"sort"

	"github.com/joseph-ayodele/waterbills/constants"
)

// AddressField is the reserved field whose line count shifts other boxes.
const AddressField = "Address"

// FieldBox is a rectangle in canonical canvas coordinates.
type FieldBox struct {
	Name string `json:"-"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`
}

// Template is the read-only set of field boxes for one region.
type Template struct {
	Region constants.Region
	Fields map[string]FieldBox
}

// Address returns the address box when the template defines one.
func (t Template) Address() (FieldBox, bool) {
	b, ok := t.Fields[AddressField]
	return b, ok
}

// Boxes returns every non-address box ordered by name.
func (t Template) Boxes() []FieldBox {
	out := make([]FieldBox, 0, len(t.Fields))
	for _, b := range t.Fields {
		if b.Name == AddressField {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (t Template) Empty() bool { return len(t.Fields) == 0 }
