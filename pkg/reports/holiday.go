package reports

import "reportcrew/pkg/extract"

// SchemaHolidayPlan names the travel itinerary report schema.
const SchemaHolidayPlan = "holiday_plan"

// HolidayPlan is the typed view of a holiday_plan extraction.
type HolidayPlan struct {
	Destination string   `json:"destination"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Itinerary   []string `json:"itinerary,omitempty"`
	Budget      float64  `json:"budget,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// holidayPlanSchema is defined by hand rather than derived from the struct
// because several fields carry synonyms and placeholders that completions
// use interchangeably.
var holidayPlanSchema = &extract.Schema{
	Name:    SchemaHolidayPlan,
	Version: "1",
	Fields: []extract.FieldSpec{
		{
			Name:        "destination",
			Type:        extract.TypeString,
			Required:    true,
			Synonyms:    []string{"location", "place", "city"},
			Placeholder: "Unknown destination",
		},
		{Name: "start_date", Type: extract.TypeString, Synonyms: []string{"from", "departure"}},
		{Name: "end_date", Type: extract.TypeString, Synonyms: []string{"to", "return"}},
		{Name: "itinerary", Type: extract.TypeList, Elem: extract.TypeString, Synonyms: []string{"activities", "plan"}},
		{Name: "budget", Type: extract.TypeNumber, Synonyms: []string{"cost", "price", "total_budget"}},
		{
			Name:        "currency",
			Type:        extract.TypeString,
			Enum:        []string{"USD", "EUR", "GBP", "JPY"},
			EnumDefault: "USD",
		},
	},
}

func init() {
	extract.MustRegister(holidayPlanSchema, nil)
}

// DecodeHolidayPlan converts an extraction result into a HolidayPlan.
func DecodeHolidayPlan(res *extract.Result) (*HolidayPlan, error) {
	return decodeAs[HolidayPlan](res)
}
