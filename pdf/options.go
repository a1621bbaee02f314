package pdf

// config holds document wide settings fixed at construction.
type config struct {
	fontFamily string
	title      string
	author     string
	subject    string
	creator    string
	compress   bool
}

func defaultConfig() config {
	return config{
		fontFamily: "helvetica",
		creator:    "ch.kinet.pdflib",
		compress:   true,
	}
}

// Option configures a [Document].
type Option func(*config)

// WithFontFamily selects one of the standard PDF fonts: "helvetica"
// (default, also "arial"), "times" or "courier".
func WithFontFamily(family string) Option {
	return func(c *config) {
		c.fontFamily = family
	}
}

// WithTitle sets the document title metadata. It defaults to the file name.
func WithTitle(title string) Option {
	return func(c *config) {
		c.title = title
	}
}

// WithAuthor sets the document author metadata.
func WithAuthor(author string) Option {
	return func(c *config) {
		c.author = author
	}
}

// WithSubject sets the document subject metadata.
func WithSubject(subject string) Option {
	return func(c *config) {
		c.subject = subject
	}
}

// WithCreator overrides the creator metadata.
func WithCreator(creator string) Option {
	return func(c *config) {
		c.creator = creator
	}
}

// WithCompression controls Flate compression of page content. It is on
// by default.
func WithCompression(on bool) Option {
	return func(c *config) {
		c.compress = on
	}
}
