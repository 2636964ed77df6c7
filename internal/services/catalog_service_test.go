package services_test

import (
	"testing"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCategoryRepository is a mock implementation of repositories.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll() ([]models.Category, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(id string) (*models.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByName(name string) (*models.Category, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

func TestSlugify(t *testing.T) {
	assert.Equal(t, "electronics", services.Slugify("Electronics"))
	assert.Equal(t, "home-garden", services.Slugify("Home & Garden"))
	assert.Equal(t, "books-2024", services.Slugify("  Books 2024  "))
	assert.Equal(t, "a-b-c", services.Slugify("a---b___c"))
	assert.Equal(t, "", services.Slugify("!!!"))
}

func TestParseSearchQuery(t *testing.T) {
	// A price bound promotes the preceding term to a category
	parsed := services.ParseSearchQuery("laptops under 500")
	assert.Empty(t, parsed.Terms)
	assert.Equal(t, "laptops", parsed.Category)
	assert.Nil(t, parsed.MinPrice)
	if assert.NotNil(t, parsed.MaxPrice) {
		assert.Equal(t, "500", parsed.MaxPrice.String())
	}

	// "above" sets the lower bound
	parsed = services.ParseSearchQuery("gaming mouse above 20")
	assert.Equal(t, []string{"gaming"}, parsed.Terms)
	assert.Equal(t, "mouse", parsed.Category)
	if assert.NotNil(t, parsed.MinPrice) {
		assert.Equal(t, "20", parsed.MinPrice.String())
	}

	// A bound word with no number after it is just a search term
	parsed = services.ParseSearchQuery("under pressure")
	assert.Equal(t, []string{"under", "pressure"}, parsed.Terms)
	assert.Nil(t, parsed.MaxPrice)

	// A trailing bound word degrades the same way
	parsed = services.ParseSearchQuery("keyboards under")
	assert.Equal(t, []string{"keyboards", "under"}, parsed.Terms)
	assert.Nil(t, parsed.MaxPrice)

	// A bound with nothing before it sets the price without a category
	parsed = services.ParseSearchQuery("under 100")
	assert.Empty(t, parsed.Terms)
	assert.Empty(t, parsed.Category)
	if assert.NotNil(t, parsed.MaxPrice) {
		assert.Equal(t, "100", parsed.MaxPrice.String())
	}

	// Both bounds in one query
	parsed = services.ParseSearchQuery("shoes above 20 under 90")
	assert.Equal(t, "shoes", parsed.Category)
	assert.NotNil(t, parsed.MinPrice)
	assert.NotNil(t, parsed.MaxPrice)

	// Plain terms pass through lowercased
	parsed = services.ParseSearchQuery("Mechanical Keyboard")
	assert.Equal(t, []string{"mechanical", "keyboard"}, parsed.Terms)
}

func TestCatalogService_DescendantIDs(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	catalog := services.NewCatalogService(mockRepo)

	// electronics -> computers -> laptops, plus an unrelated branch
	categories := []models.Category{
		{ID: "c1", Name: "Electronics"},
		{ID: "c2", Name: "Computers", ParentID: strPtr("c1")},
		{ID: "c3", Name: "Laptops", ParentID: strPtr("c2")},
		{ID: "c4", Name: "Books"},
	}
	mockRepo.On("GetAll").Return(categories, nil)

	ids, err := catalog.DescendantIDs("c1")
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "c2", "c3"}, ids)

	ids, err = catalog.DescendantIDs("c2")
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"c2", "c3"}, ids)

	ids, err = catalog.DescendantIDs("c4")
	assert.NoError(t, err)
	assert.Equal(t, []string{"c4"}, ids)
}

func TestCatalogService_DescendantIDsCycle(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	catalog := services.NewCatalogService(mockRepo)

	// Corrupted parent graph: a <-> b. The walk must terminate.
	categories := []models.Category{
		{ID: "a", Name: "A", ParentID: strPtr("b")},
		{ID: "b", Name: "B", ParentID: strPtr("a")},
	}
	mockRepo.On("GetAll").Return(categories, nil)

	ids, err := catalog.DescendantIDs("a")
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}

func TestCatalogService_BuildProductFilter(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	catalog := services.NewCatalogService(mockRepo)

	electronics := &models.Category{ID: "c1", Name: "Electronics", Slug: "electronics"}
	categories := []models.Category{
		*electronics,
		{ID: "c2", Name: "Computers", Slug: "computers", ParentID: strPtr("c1")},
	}
	mockRepo.On("GetAll").Return(categories, nil)

	// A recognized category expands to its whole subtree
	mockRepo.On("GetByName", "electronics").Return(electronics, nil).Once()
	filter, err := catalog.BuildProductFilter(services.ParseSearchQuery("electronics under 300"), "")
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "c2"}, filter.CategoryIDs)
	assert.NotNil(t, filter.MaxPrice)

	// An unrecognized parsed category falls back to a plain name term
	mockRepo.On("GetByName", "widgets").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("GetBySlug", "widgets").Return(nil, repositories.ErrNotFound).Once()
	filter, err = catalog.BuildProductFilter(services.ParseSearchQuery("widgets under 10"), "")
	assert.NoError(t, err)
	assert.Nil(t, filter.CategoryIDs)
	assert.Contains(t, filter.Terms, "widgets")

	// An explicit unknown category is an error, not a fallback
	mockRepo.On("GetByName", "nope").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("GetBySlug", "nope").Return(nil, repositories.ErrNotFound).Once()
	_, err = catalog.BuildProductFilter(services.SearchQuery{}, "nope")
	assert.ErrorIs(t, err, services.ErrNotFound)

	// Name lookup misses but the slug matches
	mockRepo.On("GetByName", "electronics-slug").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("GetBySlug", "electronics-slug").Return(electronics, nil).Once()
	filter, err = catalog.BuildProductFilter(services.SearchQuery{}, "electronics-slug")
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "c2"}, filter.CategoryIDs)
}

func TestCatalogService_CreateCategory(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	catalog := services.NewCatalogService(mockRepo)

	// Slug derived from the name when absent
	mockRepo.On("Create", mock.AnythingOfType("*models.Category")).Return(nil).Once()
	category := &models.Category{Name: "Home & Garden"}
	err := catalog.CreateCategory(category)
	assert.NoError(t, err)
	assert.Equal(t, "home-garden", category.Slug)
	mockRepo.AssertExpectations(t)

	// Unknown parent fails validation
	mockRepo.On("GetByID", "missing").Return(nil, repositories.ErrNotFound).Once()
	err = catalog.CreateCategory(&models.Category{Name: "Chairs", ParentID: strPtr("missing")})
	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	mockRepo.AssertExpectations(t)

	// Duplicate name surfaces as a validation error
	mockRepo.On("Create", mock.AnythingOfType("*models.Category")).Return(repositories.ErrDuplicate).Once()
	err = catalog.CreateCategory(&models.Category{Name: "Home & Garden"})
	assert.ErrorAs(t, err, &vErr)
	mockRepo.AssertExpectations(t)
}
