package integrations

import "github.com/kerbaras/dualbook/pkg/align"

// Exporter writes an aligned book somewhere and returns the output path.
type Exporter interface {
	Export(book *align.AlignedBook, meta Metadata) (string, error)
}

// Metadata describes the exported book. Cover is optional.
type Metadata struct {
	Title              string
	Author             string
	Language           string
	TranslatedLanguage string
	Cover              []byte
}
