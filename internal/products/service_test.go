package products

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplane/catalog/internal/platform/httpx"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	records map[int64]Product
	order   []int64
	nextID  int64

	updateCalls int

	// Error injection
	allErr    error
	createErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		records: make(map[int64]Product),
		nextID:  1,
	}
}

func (m *mockRepository) All(ctx context.Context) ([]Product, error) {
	if m.allErr != nil {
		return nil, m.allErr
	}
	items := make([]Product, 0, len(m.order))
	for _, id := range m.order {
		items = append(items, m.records[id])
	}
	return items, nil
}

func (m *mockRepository) Find(ctx context.Context, id int64) (Product, error) {
	record, ok := m.records[id]
	if !ok {
		return Product{}, httpx.ErrNotFound
	}
	return record, nil
}

func (m *mockRepository) Create(ctx context.Context, product Product) (Product, error) {
	if m.createErr != nil {
		return Product{}, m.createErr
	}
	product.ID = m.nextID
	m.nextID++
	m.records[product.ID] = product
	m.order = append(m.order, product.ID)
	return product, nil
}

func (m *mockRepository) Update(ctx context.Context, product Product) error {
	m.updateCalls++
	if _, ok := m.records[product.ID]; !ok {
		return httpx.ErrNotFound
	}
	m.records[product.ID] = product
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.records[id]; ok {
		delete(m.records, id)
		for i, existing := range m.order {
			if existing == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (m *mockRepository) FindByName(ctx context.Context, name string) ([]Product, error) {
	return m.filter(func(p Product) bool { return p.Name == name })
}

func (m *mockRepository) FindByCategory(ctx context.Context, category Category) ([]Product, error) {
	return m.filter(func(p Product) bool { return p.Category == category })
}

func (m *mockRepository) FindByAvailability(ctx context.Context, available bool) ([]Product, error) {
	return m.filter(func(p Product) bool { return p.Available == available })
}

func (m *mockRepository) FindByPrice(ctx context.Context, price decimal.Decimal) ([]Product, error) {
	return m.filter(func(p Product) bool { return p.Price.Equal(price) })
}

func (m *mockRepository) filter(keep func(Product) bool) ([]Product, error) {
	items := make([]Product, 0)
	for _, id := range m.order {
		if keep(m.records[id]) {
			items = append(items, m.records[id])
		}
	}
	return items, nil
}

// ============================================================================
// HELPERS
// ============================================================================

func testProduct(name, price string, available bool, category Category) Product {
	return Product{
		Name:        name,
		Description: "a " + name,
		Price:       decimal.RequireFromString(price),
		Available:   available,
		Category:    category,
	}
}

func seedRepo(t *testing.T, repo *mockRepository, items ...Product) []Product {
	t.Helper()
	created := make([]Product, 0, len(items))
	for _, item := range items {
		stored, err := repo.Create(context.Background(), item)
		require.NoError(t, err)
		created = append(created, stored)
	}
	return created
}

// ============================================================================
// CRUD
// ============================================================================

func TestCreateAssignsFreshID(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)
	ctx := context.Background()

	first, err := service.Create(ctx, testProduct("Fedora", "12.50", true, CategoryCloths))
	require.NoError(t, err)
	second, err := service.Create(ctx, testProduct("Wrench", "24.25", true, CategoryTools))
	require.NoError(t, err)

	assert.NotZero(t, first.ID)
	assert.NotZero(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)

	found, err := service.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Name, found.Name)
	assert.Equal(t, first.Description, found.Description)
	assert.True(t, first.Price.Equal(found.Price))
	assert.Equal(t, first.Available, found.Available)
	assert.Equal(t, first.Category, found.Category)
}

func TestCreateRejectsCallerFixedID(t *testing.T) {
	service := NewService(newMockRepository())

	product := testProduct("Fedora", "12.50", true, CategoryCloths)
	product.ID = 99
	_, err := service.Create(context.Background(), product)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestGetMissingProduct(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.Get(context.Background(), 12345)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestUpdateWithoutIDDoesNotTouchStore(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	_, err := service.Update(context.Background(), testProduct("Fedora", "12.50", true, CategoryCloths))
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
	assert.Zero(t, repo.updateCalls)
}

func TestUpdatePersistsFields(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)
	ctx := context.Background()

	created := seedRepo(t, repo, testProduct("Fedora", "12.50", true, CategoryCloths))[0]
	created.Description = "updated description"
	created.Price = decimal.RequireFromString("99.99")
	created.Available = false
	created.Category = CategoryAutomotive

	updated, err := service.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	fetched, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated description", fetched.Description)
	assert.True(t, fetched.Price.Equal(decimal.RequireFromString("99.99")))
	assert.False(t, fetched.Available)
	assert.Equal(t, CategoryAutomotive, fetched.Category)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)
	ctx := context.Background()

	created := seedRepo(t, repo, testProduct("Fedora", "12.50", true, CategoryCloths))[0]

	require.NoError(t, service.Delete(ctx, created.ID))
	require.NoError(t, service.Delete(ctx, created.ID))
	require.NoError(t, service.Delete(ctx, 4040))

	_, err := service.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}

// ============================================================================
// FILTER PIPELINE
// ============================================================================

func TestListWithoutFiltersReturnsEverythingOnce(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	seedRepo(t, repo,
		testProduct("Fedora", "12.50", true, CategoryCloths),
		testProduct("Big Mac", "5.99", true, CategoryFood),
		testProduct("Wrench", "24.25", false, CategoryTools),
	)

	items, err := service.List(context.Background(), ListQuery{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Fedora", items[0].Name)
	assert.Equal(t, "Big Mac", items[1].Name)
	assert.Equal(t, "Wrench", items[2].Name)
}

func TestListFiltersCompose(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	seedRepo(t, repo,
		testProduct("Shirt", "10.00", true, CategoryCloths),
		testProduct("Pants", "10.00", true, CategoryCloths),
		testProduct("Shirt", "10.00", true, CategoryFood),
	)

	items, err := service.List(context.Background(), ListQuery{Name: "Shirt", Category: "CLOTHS"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Shirt", items[0].Name)
	assert.Equal(t, CategoryCloths, items[0].Category)
}

func TestListByName(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	seedRepo(t, repo,
		testProduct("Laptop", "899.00", true, CategoryUnknown),
		testProduct("Keyboard", "45.00", true, CategoryUnknown),
		testProduct("Laptop", "1099.00", false, CategoryUnknown),
	)

	items, err := service.List(context.Background(), ListQuery{Name: "Laptop"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "Laptop", item.Name)
	}
}

func TestListCategoryFilter(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	seedRepo(t, repo,
		testProduct("Fedora", "12.50", true, CategoryCloths),
		testProduct("Big Mac", "5.99", true, CategoryFood),
		testProduct("Shoes", "120.50", false, CategoryCloths),
	)

	items, err := service.List(context.Background(), ListQuery{Category: "cloths"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, CategoryCloths, item.Category)
	}
}

func TestListUnknownCategoryIsValidationError(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)
	seedRepo(t, repo, testProduct("Fedora", "12.50", true, CategoryCloths))

	_, err := service.List(context.Background(), ListQuery{Category: "SPORTS"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
	assert.Contains(t, err.Error(), "SPORTS")
}

func TestListAvailableFilterNeverErrors(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	seedRepo(t, repo,
		testProduct("Fedora", "12.50", true, CategoryCloths),
		testProduct("Shoes", "120.50", false, CategoryCloths),
		testProduct("Wrench", "24.25", true, CategoryTools),
	)

	items, err := service.List(context.Background(), ListQuery{Available: "TRUE"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// Anything other than "true" means unavailable, never a parse error.
	items, err = service.List(context.Background(), ListQuery{Available: "banana"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Shoes", items[0].Name)
}

func TestListPriceFilterExactMatch(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	seedRepo(t, repo,
		testProduct("Shirt", "10.00", true, CategoryCloths),
		testProduct("Hat", "25.50", true, CategoryCloths),
		testProduct("Socks", "10.00", true, CategoryCloths),
	)

	items, err := service.List(context.Background(), ListQuery{Price: "10.00"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.True(t, item.Price.Equal(decimal.RequireFromString("10.00")))
	}
}

func TestListMalformedPriceIsValidationError(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)
	seedRepo(t, repo, testProduct("Shirt", "10.00", true, CategoryCloths))

	_, err := service.List(context.Background(), ListQuery{Price: "abc"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
	assert.Contains(t, err.Error(), "abc")
}

// ============================================================================
// SINGLE-FIELD LOOKUPS
// ============================================================================

func TestListByCategory(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	seedRepo(t, repo,
		testProduct("Fedora", "12.50", true, CategoryCloths),
		testProduct("Big Mac", "5.99", true, CategoryFood),
		testProduct("Shoes", "120.50", false, CategoryCloths),
	)

	items, err := service.ListByCategory(context.Background(), CategoryCloths)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestListByAvailability(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	seedRepo(t, repo,
		testProduct("Fedora", "12.50", true, CategoryCloths),
		testProduct("Shoes", "120.50", false, CategoryCloths),
	)

	available, err := service.ListByAvailability(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Fedora", available[0].Name)

	unavailable, err := service.ListByAvailability(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, unavailable, 1)
	assert.Equal(t, "Shoes", unavailable[0].Name)
}

func TestListByPriceAcceptsDecimalString(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	seedRepo(t, repo,
		testProduct("Sheets", "15.75", true, CategoryHousewares),
		testProduct("Towels", "30.00", true, CategoryHousewares),
		testProduct("Pillow", "15.75", true, CategoryHousewares),
	)

	items, err := service.ListByPrice(context.Background(), "15.75")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = service.ListByPrice(context.Background(), "not-a-price")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestListPropagatesStoreErrors(t *testing.T) {
	repo := newMockRepository()
	repo.allErr = errors.New("connection reset")
	service := NewService(repo)

	_, err := service.List(context.Background(), ListQuery{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, httpx.ErrValidation))
}
