package derive

// Palette is an ordered list of CSS hex colors.
type Palette []string

// d3-scale-chromatic categorical schemes.
var (
	schemeCategory10 = Palette{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf"}
	schemeSet1       = Palette{"#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00", "#ffff33", "#a65628", "#f781bf", "#999999"}
	schemeSet3       = Palette{"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462", "#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f"}
	schemeTableau10  = Palette{"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f", "#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab"}
	schemePastel1    = Palette{"#fbb4ae", "#b3cde3", "#ccebc5", "#decbe4", "#fed9a6", "#ffffcc", "#e5d8bd", "#fddaec", "#f2f2f2"}
)

// Per-kind palettes.
var (
	VesselPalette    = schemeCategory10
	LocationPalette  = concat(schemeSet3, schemeTableau10, schemePastel1)
	CommodityPalette = schemeSet1
)

func concat(palettes ...Palette) Palette {
	var out Palette
	for _, p := range palettes {
		out = append(out, p...)
	}
	return out
}

// Assignment pairs a category with its color.
type Assignment struct {
	Category string `json:"category"`
	Color    string `json:"color"`
}

// ColorScale is an ordinal scale: the i-th distinct category in its domain gets
// palette[i mod len(palette)]. The same domain order always yields the same colors.
type ColorScale struct {
	assignments []Assignment
	byCategory  map[string]string
}

// NewColorScale assigns colors to domain in first-seen order. Repeated
// categories keep their first color.
func NewColorScale(palette Palette, domain []string) ColorScale {
	s := ColorScale{
		assignments: []Assignment{},
		byCategory:  make(map[string]string, len(domain)),
	}
	if len(palette) == 0 {
		return s
	}
	for _, category := range domain {
		if _, ok := s.byCategory[category]; ok {
			continue
		}
		color := palette[len(s.assignments)%len(palette)]
		s.byCategory[category] = color
		s.assignments = append(s.assignments, Assignment{Category: category, Color: color})
	}
	return s
}

// ColorOf returns the color assigned to category.
func (s ColorScale) ColorOf(category string) (string, bool) {
	color, ok := s.byCategory[category]
	return color, ok
}

// Assignments returns the category/color pairs in domain order.
func (s ColorScale) Assignments() []Assignment {
	return append([]Assignment{}, s.assignments...)
}

// Map returns the assignment as a category -> color map.
func (s ColorScale) Map() map[string]string {
	out := make(map[string]string, len(s.byCategory))
	for k, v := range s.byCategory {
		out[k] = v
	}
	return out
}

// Len is the number of categories in the domain.
func (s ColorScale) Len() int { return len(s.assignments) }

// EntityColor resolves an entity id to the color of its category.
func EntityColor[T Entity](idx Index[T], scale ColorScale, id string) (string, bool) {
	item, ok := idx.Get(id)
	if !ok {
		return "", false
	}
	return scale.ColorOf(item.EntityCategory())
}
