package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shoplane/catalog/internal/platform/httpx"
)

// Service implements catalog operations over a Repository.
type Service struct {
	repo Repository
}

// NewService constructs a product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListQuery carries the raw query-string filters for List. An empty string
// means the filter is absent.
type ListQuery struct {
	Name      string
	Category  string
	Available string
	Price     string
}

// List applies the filters sequentially, each narrowing the working set. A
// name filter replaces the base set via a name lookup; category,
// availability and price then narrow it in that order.
func (s *Service) List(ctx context.Context, q ListQuery) ([]Product, error) {
	var (
		working []Product
		err     error
	)
	if q.Name != "" {
		working, err = s.repo.FindByName(ctx, q.Name)
	} else {
		working, err = s.repo.All(ctx)
	}
	if err != nil {
		return nil, err
	}

	if q.Category != "" {
		category, err := ParseCategory(q.Category)
		if err != nil {
			return nil, err
		}
		working = narrow(working, func(p Product) bool { return p.Category == category })
	}
	if q.Available != "" {
		// Only the literal "true" means available; anything else is false.
		available := strings.EqualFold(q.Available, "true")
		working = narrow(working, func(p Product) bool { return p.Available == available })
	}
	if q.Price != "" {
		price, err := decimal.NewFromString(q.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid price format: %s - %v", httpx.ErrValidation, q.Price, err)
		}
		working = narrow(working, func(p Product) bool { return p.Price.Equal(price) })
	}
	return working, nil
}

// Get returns the product with the given id or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.repo.Find(ctx, id)
}

// Create inserts a new product. The store controls identity, so a
// caller-fixed id is rejected.
func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if product.ID != 0 {
		return Product{}, fmt.Errorf("%w: id must not be set on create", httpx.ErrValidation)
	}
	return s.repo.Create(ctx, product)
}

// Update persists all non-id fields of a product that already has an
// identity. It never touches the store when the id is unset.
func (s *Service) Update(ctx context.Context, product Product) (Product, error) {
	if product.ID == 0 {
		return Product{}, fmt.Errorf("%w: update called with no id", httpx.ErrValidation)
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return Product{}, err
	}
	return product, nil
}

// Delete removes a product by id. Deleting an absent id is not an error.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ListByCategory returns every product in the given category.
func (s *Service) ListByCategory(ctx context.Context, category Category) ([]Product, error) {
	return s.repo.FindByCategory(ctx, category)
}

// ListByAvailability returns every product with the given availability.
func (s *Service) ListByAvailability(ctx context.Context, available bool) ([]Product, error) {
	return s.repo.FindByAvailability(ctx, available)
}

// ListByPrice returns every product whose price equals the given
// decimal-formatted string exactly.
func (s *Service) ListByPrice(ctx context.Context, raw string) ([]Product, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid price format: %s - %v", httpx.ErrValidation, raw, err)
	}
	return s.repo.FindByPrice(ctx, price)
}

func narrow(in []Product, keep func(Product) bool) []Product {
	out := make([]Product, 0, len(in))
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
