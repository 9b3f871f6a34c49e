package reports

import "reportcrew/pkg/extract"

// SchemaDeepResearch names the long-form research report schema.
const SchemaDeepResearch = "deep_research"

// DeepResearch is the typed view of a deep_research extraction. A fallback
// result carries the conclusions placeholder and a non-empty Error.
type DeepResearch struct {
	Topic       string   `json:"topic"`
	Conclusions string   `json:"conclusions"`
	Findings    []string `json:"findings,omitempty"`
	Sources     []string `json:"sources,omitempty"`
	Confidence  string   `json:"confidence,omitempty"`
	Error       string   `json:"error,omitempty"`
}

var deepResearchSchema = &extract.Schema{
	Name:    SchemaDeepResearch,
	Version: "1",
	Fields: []extract.FieldSpec{
		{
			Name:        "topic",
			Type:        extract.TypeString,
			Required:    true,
			Synonyms:    []string{"subject", "question"},
			Placeholder: "Unknown topic",
		},
		{
			Name:        "conclusions",
			Type:        extract.TypeString,
			Required:    true,
			Synonyms:    []string{"conclusion", "summary"},
			Placeholder: "No conclusions available.",
		},
		{Name: "findings", Type: extract.TypeList, Elem: extract.TypeString, Synonyms: []string{"key_findings", "results"}},
		{Name: "sources", Type: extract.TypeList, Elem: extract.TypeString, Synonyms: []string{"references", "citations"}},
		{
			Name:        "confidence",
			Type:        extract.TypeString,
			Enum:        []string{"low", "medium", "high"},
			EnumDefault: "low",
		},
	},
}

func init() {
	extract.MustRegister(deepResearchSchema, nil)
}

// DecodeDeepResearch converts an extraction result into a DeepResearch.
func DecodeDeepResearch(res *extract.Result) (*DeepResearch, error) {
	return decodeAs[DeepResearch](res)
}
