package category

import (
	"fmt"

	"auction-market/internal/accesspolicy"
	"auction-market/internal/auctionerrors"
	"auction-market/internal/models"
	"auction-market/internal/repository"
)

// CategoryService manages the browsing taxonomy. Reads are public, writes
// are admin only.
type CategoryService struct {
	categories repository.CategoryStore
}

// NewCategoryService creates a new CategoryService instance.
func NewCategoryService(categories repository.CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns all categories.
func (s *CategoryService) List() ([]models.Category, error) {
	cats, err := s.categories.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Get returns one category.
func (s *CategoryService) Get(id uint) (models.Category, error) {
	c, err := s.categories.GetCategory(id)
	if err != nil {
		return models.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// Create adds a category, admin only.
func (s *CategoryService) Create(user models.User, name, description string) (models.Category, error) {
	if !accesspolicy.CanManageCategories(user) {
		return models.Category{}, fmt.Errorf("create category: %w", auctionerrors.ErrForbidden)
	}
	if name == "" {
		return models.Category{}, fmt.Errorf("create category: empty name: %w", auctionerrors.ErrInvalidInput)
	}
	c := models.Category{Name: name, Description: description}
	if err := s.categories.CreateCategory(&c); err != nil {
		return models.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Update renames or re-describes a category, admin only. Nil fields stay.
func (s *CategoryService) Update(user models.User, id uint, name, description *string) (models.Category, error) {
	if !accesspolicy.CanManageCategories(user) {
		return models.Category{}, fmt.Errorf("update category %d: %w", id, auctionerrors.ErrForbidden)
	}
	if _, err := s.categories.GetCategory(id); err != nil {
		return models.Category{}, fmt.Errorf("update category: %w", err)
	}

	fields := map[string]any{}
	if name != nil {
		if *name == "" {
			return models.Category{}, fmt.Errorf("update category %d: empty name: %w", id, auctionerrors.ErrInvalidInput)
		}
		fields["name"] = *name
	}
	if description != nil {
		fields["description"] = *description
	}

	c, err := s.categories.UpdateCategory(id, fields)
	if err != nil {
		return models.Category{}, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// Delete removes a category, admin only.
func (s *CategoryService) Delete(user models.User, id uint) error {
	if !accesspolicy.CanManageCategories(user) {
		return fmt.Errorf("delete category %d: %w", id, auctionerrors.ErrForbidden)
	}
	if _, err := s.categories.GetCategory(id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if err := s.categories.DeleteCategory(id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
