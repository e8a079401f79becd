package domain

// AllCategories is the filter sentinel matching every category.
const AllCategories = "All"

// A Product is an immutable catalog entry.
type Product struct {
	ID          string
	Name        string
	Price       float64
	Category    string
	Tags        []string
	Images      []string
	Description string
}

// FirstImage returns the cover image or an empty string.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type FilterState struct {
	ActiveCategory string
	SearchQuery    string
}

func NewFilterState() FilterState {
	return FilterState{ActiveCategory: AllCategories}
}
