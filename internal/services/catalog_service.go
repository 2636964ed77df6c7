package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shopapi/internal/models"
	"shopapi/internal/repositories"

	"github.com/shopspring/decimal"
)

// CatalogService handles business logic for the category tree and product
// search filters.
type CatalogService struct {
	categoryRepo repositories.CategoryRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(categoryRepo repositories.CategoryRepository) *CatalogService {
	return &CatalogService{categoryRepo: categoryRepo}
}

// ListCategories retrieves all categories.
func (s *CatalogService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

// CreateCategory creates a category, deriving the slug from the name when
// none is supplied.
func (s *CatalogService) CreateCategory(category *models.Category) error {
	if category.Slug == "" {
		category.Slug = Slugify(category.Name)
	}
	if category.ParentID != nil {
		if _, err := s.categoryRepo.GetByID(*category.ParentID); err != nil {
			return NewValidationError("parent_id", fmt.Sprintf("parent category %s does not exist", *category.ParentID))
		}
	}
	if err := s.categoryRepo.Create(category); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return NewValidationError("name", "category name or slug already exists")
		}
		return err
	}
	return nil
}

// DescendantIDs returns the ids of a category and all of its descendants.
// The walk is an iterative breadth-first traversal with a visited set, so a
// corrupted (cyclic) parent graph terminates instead of recursing forever.
func (s *CatalogService) DescendantIDs(categoryID string) ([]string, error) {
	categories, err := s.categoryRepo.GetAll()
	if err != nil {
		return nil, err
	}

	children := make(map[string][]string, len(categories))
	for _, c := range categories {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	visited := map[string]bool{categoryID: true}
	ids := []string{categoryID}
	queue := []string{categoryID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			if visited[child] {
				continue
			}
			visited[child] = true
			ids = append(ids, child)
			queue = append(queue, child)
		}
	}
	return ids, nil
}

// SearchQuery is the parsed form of a free-text product search.
type SearchQuery struct {
	Terms    []string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// ParseSearchQuery tokenizes a free-text query. "under N" / "above N" set a
// price bound and promote the token just before the bound word to a category
// term. A bound word at a token boundary (nothing before it, or no integer
// after it) degrades to a plain search term instead of failing.
func ParseSearchQuery(query string) SearchQuery {
	var parsed SearchQuery
	tokens := strings.Fields(strings.ToLower(query))

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		if token != "under" && token != "above" {
			parsed.Terms = append(parsed.Terms, token)
			continue
		}

		if i+1 >= len(tokens) {
			parsed.Terms = append(parsed.Terms, token)
			continue
		}
		bound, err := strconv.Atoi(tokens[i+1])
		if err != nil {
			parsed.Terms = append(parsed.Terms, token)
			continue
		}

		price := decimal.NewFromInt(int64(bound))
		if token == "under" {
			parsed.MaxPrice = &price
		} else {
			parsed.MinPrice = &price
		}
		if n := len(parsed.Terms); n > 0 && parsed.Category == "" {
			parsed.Category = parsed.Terms[n-1]
			parsed.Terms = parsed.Terms[:n-1]
		}
		i++ // consume the bound value
	}
	return parsed
}

// BuildProductFilter turns a parsed search plus an optional explicit
// category selector into a repository filter. Category terms include the
// category's whole subtree. An unrecognized category term falls back to a
// plain name term.
func (s *CatalogService) BuildProductFilter(parsed SearchQuery, explicitCategory string) (repositories.ProductFilter, error) {
	filter := repositories.ProductFilter{
		Terms:    parsed.Terms,
		MinPrice: parsed.MinPrice,
		MaxPrice: parsed.MaxPrice,
	}

	selector := explicitCategory
	if selector == "" {
		selector = parsed.Category
	}
	if selector == "" {
		return filter, nil
	}

	category, err := s.lookupCategory(selector)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			if parsed.Category != "" && explicitCategory == "" {
				filter.Terms = append(filter.Terms, parsed.Category)
				return filter, nil
			}
			return filter, fmt.Errorf("category %q: %w", selector, ErrNotFound)
		}
		return filter, err
	}

	ids, err := s.DescendantIDs(category.ID)
	if err != nil {
		return filter, err
	}
	filter.CategoryIDs = ids
	return filter, nil
}

func (s *CatalogService) lookupCategory(selector string) (*models.Category, error) {
	category, err := s.categoryRepo.GetByName(selector)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	return s.categoryRepo.GetBySlug(selector)
}

// Slugify derives a URL slug from a name: lowercase, alphanumerics kept,
// everything else collapsed to single dashes.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
