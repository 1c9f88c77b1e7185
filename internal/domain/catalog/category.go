package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
)

// MaxCategoryDepth is the maximum depth of the category hierarchy
const MaxCategoryDepth = 5

// Category represents a product category.
// It supports a tree structure via parent pointers plus a materialized
// path; the path is recomputed on structural changes and the application
// layer cascades the recomputation to descendants.
type Category struct {
	shared.BaseAggregateRoot
	Code     string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name     string     `gorm:"type:varchar(100);not null"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`
	Path     string     `gorm:"type:varchar(500);not null;index"`
	Level    int        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new root category
func NewCategory(code, name string) (*Category, error) {
	if err := validateCategoryCode(code); err != nil {
		return nil, err
	}
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	category := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Level:             0,
	}
	category.Path = category.ID.String()

	return category, nil
}

// NewChildCategory creates a new category under a parent
func NewChildCategory(code, name string, parent *Category) (*Category, error) {
	if parent == nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Parent category is required")
	}
	if parent.Level >= MaxCategoryDepth-1 {
		return nil, shared.NewDomainErrorf(shared.CodeValidation, "Category depth cannot exceed %d levels", MaxCategoryDepth)
	}

	category, err := NewCategory(code, name)
	if err != nil {
		return nil, err
	}

	category.ParentID = &parent.ID
	category.Level = parent.Level + 1
	category.Path = parent.Path + "/" + category.ID.String()

	return category, nil
}

// Rename updates the category name
func (c *Category) Rename(name string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}

	c.Name = name
	c.Touch()
	c.IncrementVersion()

	return nil
}

// MoveTo re-parents the category under newParent (nil moves it to the root).
// Descendant paths are invalidated by this change; callers must rebase
// them with RebasePath using the returned previous path prefix.
func (c *Category) MoveTo(newParent *Category) (oldPath string, err error) {
	oldPath = c.Path

	if newParent == nil {
		c.ParentID = nil
		c.Level = 0
		c.Path = c.ID.String()
	} else {
		if newParent.ID == c.ID {
			return "", shared.NewDomainError(shared.CodeValidation, "Category cannot be its own parent")
		}
		if c.IsAncestorOf(newParent) {
			return "", shared.NewDomainErrorf(shared.CodeValidation, "Category %s cannot move under its descendant %s", c.Code, newParent.Code)
		}
		if newParent.Level >= MaxCategoryDepth-1 {
			return "", shared.NewDomainErrorf(shared.CodeValidation, "Category depth cannot exceed %d levels", MaxCategoryDepth)
		}
		c.ParentID = &newParent.ID
		c.Level = newParent.Level + 1
		c.Path = newParent.Path + "/" + c.ID.String()
	}

	c.Touch()
	c.IncrementVersion()

	return oldPath, nil
}

// RebasePath rewrites this category's path after an ancestor moved from
// oldPrefix to newPrefix
func (c *Category) RebasePath(oldPrefix, newPrefix string) error {
	if !strings.HasPrefix(c.Path, oldPrefix+"/") {
		return shared.NewDomainErrorf(shared.CodeValidation, "Category %s is not under path %s", c.Code, oldPrefix)
	}

	c.Path = newPrefix + strings.TrimPrefix(c.Path, oldPrefix)
	c.Level = strings.Count(c.Path, "/")
	c.Touch()
	c.IncrementVersion()

	return nil
}

// IsRoot returns true if this is a root category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// IsAncestorOf returns true if this category is an ancestor of other
func (c *Category) IsAncestorOf(other *Category) bool {
	if other == nil || other.Path == "" {
		return false
	}
	return strings.HasPrefix(other.Path, c.Path+"/")
}

// GetAncestorIDs returns the IDs of all ancestor categories, root first
func (c *Category) GetAncestorIDs() []uuid.UUID {
	parts := strings.Split(c.Path, "/")
	if len(parts) <= 1 {
		return nil
	}

	ancestors := make([]uuid.UUID, 0, len(parts)-1)
	for _, part := range parts[:len(parts)-1] {
		if id, err := uuid.Parse(part); err == nil {
			ancestors = append(ancestors, id)
		}
	}
	return ancestors
}

func validateCategoryCode(code string) error {
	if code == "" {
		return shared.NewDomainError(shared.CodeValidation, "Category code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError(shared.CodeValidation, "Category code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError(shared.CodeValidation, "Category code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError(shared.CodeValidation, "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainErrorf(shared.CodeValidation, "Category name cannot exceed %d characters", 100)
	}
	return nil
}
