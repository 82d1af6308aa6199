package products

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/shoplane/catalog/internal/platform/httpx"
)

// Product is the catalog entity. ID is zero until the store assigns one and
// immutable afterwards. Price is an exact decimal; it serializes as a
// decimal-formatted string and never passes through a float.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"`
	Category    Category        `json:"category"`
}

// payload mirrors the JSON body of create/update requests. Presence of each
// key is tracked separately from decoding because a missing key and a zero
// value must report differently.
type payload struct {
	Name        string `validate:"required"`
	Description string
	Price       decimal.Decimal
	Available   bool
	Category    Category
}

var validate = validator.New()

// requiredFields is ordered; the first absent field is the one reported.
var requiredFields = [...]string{"name", "description", "price", "available", "category"}

// Deserialize populates p from a JSON object. It validates field presence
// and types, leaves ID untouched, and has no persistence side effects.
func (p *Product) Deserialize(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return fmt.Errorf("%w: body of request contained bad or no data", httpx.ErrValidation)
	}
	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			return fmt.Errorf("%w: missing %s", httpx.ErrValidation, name)
		}
	}

	var in payload
	if err := json.Unmarshal(fields["name"], &in.Name); err != nil {
		return fmt.Errorf("%w: invalid type for string [name]: %s", httpx.ErrValidation, fields["name"])
	}
	if err := json.Unmarshal(fields["description"], &in.Description); err != nil {
		return fmt.Errorf("%w: invalid type for string [description]: %s", httpx.ErrValidation, fields["description"])
	}
	if isNull(fields["price"]) {
		return fmt.Errorf("%w: invalid price: null", httpx.ErrValidation)
	}
	if err := in.Price.UnmarshalJSON(fields["price"]); err != nil {
		return fmt.Errorf("%w: invalid price: %s", httpx.ErrValidation, fields["price"])
	}
	// A quoted boolean such as "true" must be rejected, not coerced.
	if isNull(fields["available"]) {
		return fmt.Errorf("%w: invalid type for boolean [available]: null", httpx.ErrValidation)
	}
	if err := json.Unmarshal(fields["available"], &in.Available); err != nil {
		return fmt.Errorf("%w: invalid type for boolean [available]: %s", httpx.ErrValidation, fields["available"])
	}
	var categoryName string
	if err := json.Unmarshal(fields["category"], &categoryName); err != nil {
		return fmt.Errorf("%w: invalid category: %s", httpx.ErrValidation, fields["category"])
	}
	category, err := ParseCategory(categoryName)
	if err != nil {
		return err
	}
	in.Category = category

	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: name must not be empty", httpx.ErrValidation)
	}

	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Available = in.Available
	p.Category = in.Category
	return nil
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}
