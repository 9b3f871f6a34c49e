package reports

import "reportcrew/pkg/extract"

// SchemaBookSummary names the book summary report schema.
const SchemaBookSummary = "book_summary"

// BookSummary is the typed view of a book_summary extraction. The schema is
// derived from the struct tags.
type BookSummary struct {
	Title   string   `json:"title" synonyms:"book_title|name"`
	Author  string   `json:"author" synonyms:"writer|by"`
	Summary string   `json:"summary" synonyms:"abstract|overview" placeholder:"No summary available."`
	Themes  []string `json:"themes,omitempty" synonyms:"topics"`
	Rating  float64  `json:"rating,omitempty" default:"0"`
	Error   string   `json:"error,omitempty"`
}

func init() {
	s := extract.MustSchemaFromStruct(SchemaBookSummary, "1", BookSummary{})
	extract.MustRegister(s, nil)
}

// DecodeBookSummary converts an extraction result into a BookSummary.
func DecodeBookSummary(res *extract.Result) (*BookSummary, error) {
	return decodeAs[BookSummary](res)
}
