package pdf

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// winAnsi transcodes s to Windows-1252, the encoding of the standard fonts.
// Runes outside the code page become '?'.
func winAnsi(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = '?'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// lineHeight is the leading used for text of the given size.
func lineHeight(fontSize float64) float64 {
	return 1.2 * fontSize
}
