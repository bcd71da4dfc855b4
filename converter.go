package repub

// Converter converts HTML to Markdown. Used by the export path to write
// stored article bodies as markdown files.
type Converter interface {
	Convert(html string) (string, error)
}
