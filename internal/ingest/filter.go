package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/waterbills/constants"
)

// IsBillFile reports whether path has an extension the pipeline accepts.
func IsBillFile(path string) bool {
	return constants.MapExtToFormat(filepath.Ext(path)) != ""
}

// IsHidden matches dot files and the "~$" lock files office tools leave
// next to documents.
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$")
}
