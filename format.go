package texsurf

import (
	"github.com/woozymasta/bcn"
)

// bcnFormats maps registry formats to the pixel codec that produces and
// consumes their payloads.
var bcnFormats = map[Format]bcn.Format{
	FormatBC1:      bcn.FormatDXT1,
	FormatBC1a:     bcn.FormatDXT1,
	FormatBC2:      bcn.FormatDXT3,
	FormatBC3:      bcn.FormatDXT5,
	FormatBC4:      bcn.FormatBC4,
	FormatBC5:      bcn.FormatBC5,
	FormatR8G8B8A8: bcn.FormatRGBA8,
	FormatA8R8G8B8: bcn.FormatBGRA8,
	FormatX8R8G8B8: bcn.FormatBGRA8,
}

// codecFormat returns the pixel codec format for f.
func codecFormat(f Format) (bcn.Format, bool) {
	c, ok := bcnFormats[f]
	return c, ok
}

// HasCodec reports whether pixels of f can be encoded and decoded.
func HasCodec(f Format) bool {
	_, ok := codecFormat(f)
	return ok
}
