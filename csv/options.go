package csv

import "golang.org/x/text/encoding"

type config struct {
	escapeQuotes bool
	enc          encoding.Encoding
}

// Option configures a [Writer].
type Option func(*config)

// WithQuoteEscaping doubles quote characters inside string fields. Without
// it, embedded quotes are written unchanged, which matches what existing
// consumers of the format expect.
func WithQuoteEscaping() Option {
	return func(c *config) {
		c.escapeQuotes = true
	}
}

// WithEncoding transcodes the payload produced by [Writer.ToData], for
// example with charmap.Windows1252 for older spreadsheet software. Runes
// the encoding cannot represent are replaced by its substitute byte.
func WithEncoding(enc encoding.Encoding) Option {
	return func(c *config) {
		c.enc = enc
	}
}
