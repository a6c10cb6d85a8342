package constants

import "strings"

// Input formats the rasterizer distinguishes.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
)

var formatByExt = map[string]string{
	"pdf":  PDF,
	"png":  IMAGE,
	"jpg":  IMAGE,
	"jpeg": IMAGE,
	"tif":  IMAGE,
	"tiff": IMAGE,
}

// MapExtToFormat returns PDF or IMAGE for a supported extension (with or
// without the dot, any case), "" otherwise.
func MapExtToFormat(ext string) string {
	return formatByExt[strings.ToLower(strings.TrimPrefix(ext, "."))]
}
