package products

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shoplane/catalog/internal/platform/httpx"
)

// Category classifies a product. The set is closed; unknown names are
// rejected rather than defaulted.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryCloths
	CategoryFood
	CategoryHousewares
	CategoryAutomotive
	CategoryTools
)

var categoryNames = map[Category]string{
	CategoryUnknown:    "UNKNOWN",
	CategoryCloths:     "CLOTHS",
	CategoryFood:       "FOOD",
	CategoryHousewares: "HOUSEWARES",
	CategoryAutomotive: "AUTOMOTIVE",
	CategoryTools:      "TOOLS",
}

var categoriesByName = func() map[string]Category {
	byName := make(map[string]Category, len(categoryNames))
	for category, name := range categoryNames {
		byName[name] = category
	}
	return byName
}()

// ParseCategory resolves a category name, case-insensitively, to its
// enumeration value. An unrecognized name yields a validation error naming
// the offending value.
func ParseCategory(name string) (Category, error) {
	category, ok := categoriesByName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return CategoryUnknown, fmt.Errorf("%w: invalid category: %s", httpx.ErrValidation, name)
	}
	return category, nil
}

// String returns the canonical upper-case member name.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return categoryNames[CategoryUnknown]
}

// MarshalJSON serializes the category as its canonical name.
func (c Category) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.String())), nil
}

// UnmarshalJSON accepts a category name, case-insensitively.
func (c *Category) UnmarshalJSON(data []byte) error {
	name, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("%w: invalid category: %s", httpx.ErrValidation, data)
	}
	parsed, err := ParseCategory(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
