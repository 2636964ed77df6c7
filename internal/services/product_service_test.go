package services_test

import (
	"testing"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newProductServiceFixture() (*services.ProductService, *repositories.MockProductRepository, *MockCategoryRepository) {
	productRepo := repositories.NewMockProductRepository()
	categoryRepo := new(MockCategoryRepository)
	catalog := services.NewCatalogService(categoryRepo)
	return services.NewProductService(productRepo, categoryRepo, catalog), productRepo, categoryRepo
}

func TestProductService_CreateProduct(t *testing.T) {
	productService, _, categoryRepo := newProductServiceFixture()

	electronics := &models.Category{ID: "c1", Name: "Electronics"}
	categoryRepo.On("GetByID", "c1").Return(electronics, nil)

	seller := services.Identity{UserID: "seller-1", IsSeller: true}
	buyer := services.Identity{UserID: "buyer-1"}

	// Buyers cannot create products
	err := productService.CreateProduct(buyer, &models.Product{Name: "Widget", CategoryID: "c1"})
	assert.ErrorIs(t, err, services.ErrPermissionDenied)

	// Sellers can; ownership and a zeroed view counter are assigned
	product := &models.Product{
		Name:       "Widget",
		Price:      decimal.NewFromFloat(9.99),
		Stock:      5,
		CategoryID: "c1",
		Views:      42,
	}
	err = productService.CreateProduct(seller, product)
	assert.NoError(t, err)
	assert.Equal(t, "seller-1", product.SellerID)
	assert.EqualValues(t, 0, product.Views)
	assert.NotEmpty(t, product.ID)

	// Negative price is rejected
	err = productService.CreateProduct(seller, &models.Product{
		Name:       "Bad",
		Price:      decimal.NewFromInt(-1),
		CategoryID: "c1",
	})
	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "price")

	// Negative stock is rejected
	err = productService.CreateProduct(seller, &models.Product{
		Name:       "Bad",
		Stock:      -3,
		CategoryID: "c1",
	})
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "stock")

	// Unknown category is rejected
	categoryRepo.On("GetByID", "missing").Return(nil, repositories.ErrNotFound)
	err = productService.CreateProduct(seller, &models.Product{Name: "Orphan", CategoryID: "missing"})
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "category_id")
}

func TestProductService_BookRequiresAuthor(t *testing.T) {
	productService, _, categoryRepo := newProductServiceFixture()

	books := &models.Category{ID: "books", Name: "Books"}
	categoryRepo.On("GetByID", "books").Return(books, nil)

	seller := services.Identity{UserID: "seller-1", IsSeller: true}

	// No author fails
	err := productService.CreateProduct(seller, &models.Product{
		Name:       "The Go Programming Language",
		CategoryID: "books",
	})
	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "author")

	// Whitespace-only author still fails
	err = productService.CreateProduct(seller, &models.Product{
		Name:       "The Go Programming Language",
		Author:     "   ",
		CategoryID: "books",
	})
	assert.ErrorAs(t, err, &vErr)

	// With an author it succeeds
	book := &models.Product{
		Name:       "The Go Programming Language",
		Author:     "Donovan & Kernighan",
		CategoryID: "books",
	}
	err = productService.CreateProduct(seller, book)
	assert.NoError(t, err)

	// Clearing the author on update re-triggers the rule
	empty := ""
	_, err = productService.UpdateProduct(seller, book.ID, models.UpdateProductRequest{Author: &empty})
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "author")
}

func TestProductService_UpdateProductPermissions(t *testing.T) {
	productService, productRepo, categoryRepo := newProductServiceFixture()

	categoryRepo.On("GetByID", "c1").Return(&models.Category{ID: "c1", Name: "Electronics"}, nil)

	product := &models.Product{
		Name:       "Widget",
		Price:      decimal.NewFromInt(10),
		Stock:      5,
		CategoryID: "c1",
		SellerID:   "seller-1",
	}
	assert.NoError(t, productRepo.Create(product))

	newName := "Widget Pro"

	// Another seller may not touch it
	_, err := productService.UpdateProduct(services.Identity{UserID: "seller-2", IsSeller: true}, product.ID,
		models.UpdateProductRequest{Name: &newName})
	assert.ErrorIs(t, err, services.ErrPermissionDenied)

	// The owner may
	updated, err := productService.UpdateProduct(services.Identity{UserID: "seller-1", IsSeller: true}, product.ID,
		models.UpdateProductRequest{Name: &newName})
	assert.NoError(t, err)
	assert.Equal(t, "Widget Pro", updated.Name)
	// Untouched fields survive a partial update
	assert.Equal(t, 5, updated.Stock)

	// An admin may too
	newStock := 8
	updated, err = productService.UpdateProduct(services.Identity{UserID: "admin-1", IsAdmin: true}, product.ID,
		models.UpdateProductRequest{Stock: &newStock})
	assert.NoError(t, err)
	assert.Equal(t, 8, updated.Stock)

	// Deletion follows the same ownership rule
	err = productService.DeleteProduct(services.Identity{UserID: "seller-2"}, product.ID)
	assert.ErrorIs(t, err, services.ErrPermissionDenied)
	err = productService.DeleteProduct(services.Identity{UserID: "seller-1"}, product.ID)
	assert.NoError(t, err)
	_, err = productService.GetProductByID(product.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestProductService_IncrementViews(t *testing.T) {
	productService, productRepo, _ := newProductServiceFixture()

	product := &models.Product{Name: "Widget", Stock: 1}
	assert.NoError(t, productRepo.Create(product))

	assert.NoError(t, productService.IncrementViews(product.ID))
	assert.NoError(t, productService.IncrementViews(product.ID))

	stored, err := productRepo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 2, stored.Views)

	err = productService.IncrementViews("missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestProductService_SearchProducts(t *testing.T) {
	productService, productRepo, categoryRepo := newProductServiceFixture()
	// "laptop under 500" promotes "laptop" to a category term; there is no
	// such category, so the lookup misses and it degrades to a name term.
	categoryRepo.On("GetByName", "laptop").Return(nil, repositories.ErrNotFound)
	categoryRepo.On("GetBySlug", "laptop").Return(nil, repositories.ErrNotFound)

	seed := []models.Product{
		{Name: "Gaming Laptop", Price: decimal.NewFromInt(1200), Stock: 3},
		{Name: "Office Laptop", Price: decimal.NewFromInt(450), Stock: 7},
		{Name: "Mechanical Keyboard", Price: decimal.NewFromInt(80), Stock: 20},
	}
	for i := range seed {
		assert.NoError(t, productRepo.Create(&seed[i]))
	}

	// Free-text term match
	results, err := productService.SearchProducts("laptop", "")
	assert.NoError(t, err)
	assert.Len(t, results, 2)

	// Price bound filters
	results, err = productService.SearchProducts("laptop under 500", "")
	assert.NoError(t, err)
	if assert.Len(t, results, 1) {
		assert.Equal(t, "Office Laptop", results[0].Name)
	}

	results, err = productService.SearchProducts("above 1000", "")
	assert.NoError(t, err)
	if assert.Len(t, results, 1) {
		assert.Equal(t, "Gaming Laptop", results[0].Name)
	}
}
