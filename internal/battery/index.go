package battery

// Category keys, in canonical order.
const (
	CategorySportsmanship = "sportsmanship"
	CategoryAthleteMind   = "athlete_mind"
	CategorySelfEsteem    = "self_esteem"
)

// Section describes one subcategory of the battery.
type Section struct {
	Key         string
	Title       string
	Description string
}

// Category is an ordered group of sections.
type Category struct {
	Key         string
	Title       string
	Description string
	Sections    []Section
}

// Index is the ordered taxonomy the progress engine walks. Order in the
// slices is the navigation order.
type Index struct {
	Categories []Category
}

// Category returns the category with the given key and its ordinal.
func (ix Index) Category(key string) (Category, int, bool) {
	for i, c := range ix.Categories {
		if c.Key == key {
			return c, i, true
		}
	}
	return Category{}, -1, false
}

// Section returns the section metadata and its ordinal within the category.
func (ix Index) Section(category, key string) (Section, int, bool) {
	c, _, ok := ix.Category(category)
	if !ok {
		return Section{}, -1, false
	}
	for i, s := range c.Sections {
		if s.Key == key {
			return s, i, true
		}
	}
	return Section{}, -1, false
}

// Contains reports whether (category, subcategory) is listed in the index.
func (ix Index) Contains(category, subcategory string) bool {
	_, _, ok := ix.Section(category, subcategory)
	return ok
}

// SectionCount returns the number of listed sections across all categories.
func (ix Index) SectionCount() int {
	n := 0
	for _, c := range ix.Categories {
		n += len(c.Sections)
	}
	return n
}

// DefaultIndex returns the battery taxonomy.
func DefaultIndex() Index {
	return Index{Categories: []Category{
		{
			Key:         CategorySportsmanship,
			Title:       "Sportsmanship Chart",
			Description: "Basic attitude and stance toward sport",
			Sections: []Section{
				{Key: "courage", Title: "Courage", Description: "Keeps taking on challenges in hard situations"},
				{Key: "resilience", Title: "Resilience", Description: "Bounces back from setbacks"},
				{Key: "cooperation", Title: "Cooperation", Description: "Values teamwork"},
				{Key: "natural_acceptance", Title: "Natural Acceptance", Description: "Accepts oneself as one is"},
				{Key: "non_rationality", Title: "Non-rationality", Description: "Trusts intuition and feeling"},
			},
		},
		{
			Key:         CategoryAthleteMind,
			Title:       "Athlete Mind",
			Description: "Mental traits as an athlete",
			Sections: []Section{
				{Key: "introspection", Title: "Introspection", Description: "Looks deeply at oneself"},
				{Key: "self_control", Title: "Self-control", Description: "Keeps oneself in check"},
				{Key: "devotion", Title: "Devotion", Description: "Gives oneself to the team and the goal"},
				{Key: "intuition", Title: "Intuition", Description: "Judges and acts on instinct"},
				{Key: "sensitivity", Title: "Sensitivity", Description: "Notices changes and feelings around"},
				{Key: "steadiness", Title: "Steadiness", Description: "Moves forward one sure step at a time"},
				{Key: "comparison", Title: "Comparison", Description: "Improves by measuring against others"},
				{Key: "result", Title: "Result", Description: "Puts outcomes first"},
				{Key: "assertion", Title: "Assertion", Description: "Expresses opinions appropriately"},
				{Key: "commitment", Title: "Commitment", Description: "Attends to details and aims for perfection"},
			},
		},
		{
			Key:         CategorySelfEsteem,
			Title:       "Self Esteem",
			Description: "Positive feelings toward oneself",
			Sections: []Section{
				{Key: "self_determination", Title: "Self-determination", Description: "Chooses and decides for oneself"},
				{Key: "self_acceptance", Title: "Self-acceptance", Description: "Accepts oneself as one is"},
				{Key: "self_worth", Title: "Self-worth", Description: "Feels the value of one's own presence"},
				{Key: "self_efficacy", Title: "Self-efficacy", Description: "Believes \"I can do it\""},
			},
		},
	}}
}
