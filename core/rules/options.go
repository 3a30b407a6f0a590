package rules

// Options are the conversion settings shared by the rules and the
// Markdown host. They are fixed for the lifetime of a conversion.
type Options struct {
	HeadingStyle     string `yaml:"headingStyle" json:"headingStyle" validate:"oneof=atx setext"`
	CodeBlockStyle   string `yaml:"codeBlockStyle" json:"codeBlockStyle" validate:"oneof=fenced indented"`
	BulletListMarker string `yaml:"bulletListMarker" json:"bulletListMarker" validate:"oneof=- * +"`
}

// DefaultOptions returns atx headings, fenced code and "-" bullets.
func DefaultOptions() Options {
	return Options{
		HeadingStyle:     "atx",
		CodeBlockStyle:   "fenced",
		BulletListMarker: "-",
	}
}

func (o Options) bullet() string {
	if o.BulletListMarker == "" {
		return "-"
	}
	return o.BulletListMarker
}
