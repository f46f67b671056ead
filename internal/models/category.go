package models

type Category struct {
	ID            string        `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	Description   string        `json:"description" yaml:"description"`
	Icon          string        `json:"icon" yaml:"icon"`
	Subcategories []Subcategory `json:"subcategories" yaml:"subcategories"`
	ServiceCount  int           `json:"service_count" yaml:"-"`
	MinPrice      float64       `json:"min_price" yaml:"-"`
}

func (c Category) Clone() Category {
	out := c
	if c.Subcategories != nil {
		out.Subcategories = make([]Subcategory, len(c.Subcategories))
		copy(out.Subcategories, c.Subcategories)
	}
	return out
}

// HasSubcategory reports whether id names one of the category's subcategories.
func (c Category) HasSubcategory(id string) bool {
	for _, sub := range c.Subcategories {
		if sub.ID == id {
			return true
		}
	}
	return false
}
