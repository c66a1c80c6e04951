// Package derive holds the pure projections over the cached record set: the
// calendar join and the per-activity aggregation.
package derive

// Palette is the single activity→color table shared by the calendar and the
// statistics chart. Lookup is exact-match and case-sensitive; activity names
// that drift from the table fall back. Keeping one table for both consumers
// is what keeps event colors and bar colors in agreement.
type Palette struct {
	Activities   map[string]string
	EventDefault string
	StatFallback string
}

// DefaultPalette is the palette the business has used historically. Note the
// two spellings of gym training; both occur in stored records.
func DefaultPalette() Palette {
	return Palette{
		Activities: map[string]string{
			"Jogging":      "#FF4B4B",
			"Zumba":        "#4B83FF",
			"Spinning":     "#4BFF4B",
			"Yoga":         "#FFB74B",
			"Gym training": "#9B4BFF",
			"Gym Training": "#9B4BFF",
			"Fitness":      "#ff1493",
			"Running":      "#006400",
			"Dancing":      "#8b008b",
		},
		EventDefault: "#007bff",
		StatFallback: "#808080",
	}
}

// EventColor resolves the calendar color for an activity.
func (p Palette) EventColor(activity string) string {
	if c, ok := p.Activities[activity]; ok {
		return c
	}
	return p.EventDefault
}

// StatColor resolves the chart fill color for an activity.
func (p Palette) StatColor(activity string) string {
	if c, ok := p.Activities[activity]; ok {
		return c
	}
	return p.StatFallback
}
