package reports

import (
	"strings"

	"reportcrew/pkg/extract"
)

// SchemaWeeklyMenu names the meal planning report schema.
const SchemaWeeklyMenu = "weekly_menu"

// WeeklyMenu is the typed view of a weekly_menu extraction.
type WeeklyMenu struct {
	Days         []MenuDay `json:"days"`
	DietaryStyle string    `json:"dietary_style,omitempty"`
	ShoppingList []string  `json:"shopping_list,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// MenuDay is one entry of the menu. Completions disagree on layout, so meals
// may arrive either as named slots or as a flat list.
type MenuDay struct {
	Day       string   `json:"day"`
	Breakfast string   `json:"breakfast,omitempty"`
	Lunch     string   `json:"lunch,omitempty"`
	Dinner    string   `json:"dinner,omitempty"`
	Meals     []string `json:"meals,omitempty"`
}

var weeklyMenuSchema = &extract.Schema{
	Name:    SchemaWeeklyMenu,
	Version: "1",
	Fields: []extract.FieldSpec{
		{
			Name:     "days",
			Type:     extract.TypeList,
			Elem:     extract.TypeObject,
			Required: true,
			Synonyms: []string{"menu", "week", "schedule"},
		},
		{
			Name:        "dietary_style",
			Type:        extract.TypeString,
			Synonyms:    []string{"diet", "style"},
			Enum:        []string{"omnivore", "vegetarian", "vegan", "pescatarian"},
			EnumDefault: "omnivore",
		},
		{Name: "shopping_list", Type: extract.TypeList, Elem: extract.TypeString, Synonyms: []string{"groceries", "ingredients"}},
	},
}

var weekdayOrder = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// adaptWeeklyMenu reshapes the layouts models actually emit for menus. A bare
// top-level list becomes the days list, and an object keyed by weekday names
// becomes an ordered list with the key folded in as "day".
func adaptWeeklyMenu(v any, _ *extract.Schema) (any, []string) {
	switch val := v.(type) {
	case []any:
		return map[string]any{"days": val}, []string{"wrapped top-level list into days"}
	case map[string]any:
		if days, ok := weekdayMapToList(val); ok {
			return map[string]any{"days": days}, []string{"converted weekday-keyed object into days list"}
		}
	}
	return v, nil
}

// weekdayMapToList converts {"Monday": {...}, ...} into an ordered days list.
// Every key must be a weekday name for the conversion to apply.
func weekdayMapToList(m map[string]any) ([]any, bool) {
	if len(m) == 0 {
		return nil, false
	}
	byDay := make(map[string]any, len(m))
	for k, v := range m {
		day := strings.ToLower(strings.TrimSpace(k))
		if !isWeekday(day) {
			return nil, false
		}
		byDay[day] = v
	}
	days := make([]any, 0, len(byDay))
	for _, day := range weekdayOrder {
		v, ok := byDay[day]
		if !ok {
			continue
		}
		days = append(days, menuDayEntry(day, v))
	}
	return days, true
}

func menuDayEntry(day string, v any) map[string]any {
	entry := map[string]any{"day": day}
	switch val := v.(type) {
	case map[string]any:
		for k, e := range val {
			if k == "day" {
				continue
			}
			entry[k] = e
		}
	case []any:
		entry["meals"] = val
	case string:
		entry["meals"] = []any{val}
	}
	return entry
}

func isWeekday(s string) bool {
	for _, d := range weekdayOrder {
		if s == d {
			return true
		}
	}
	return false
}

func init() {
	extract.MustRegister(weeklyMenuSchema, adaptWeeklyMenu)
}

// DecodeWeeklyMenu converts an extraction result into a WeeklyMenu.
func DecodeWeeklyMenu(res *extract.Result) (*WeeklyMenu, error) {
	return decodeAs[WeeklyMenu](res)
}
