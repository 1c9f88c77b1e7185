package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/retail/backend/internal/domain/catalog"
	"github.com/retail/backend/internal/domain/shared"
)

func TestCategoryService_Create(t *testing.T) {
	repo := new(MockCategoryRepository)
	service := NewCategoryService(repo)

	repo.On("ExistsByCode", mock.Anything, "FOOD").Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Category")).Return(nil)

	resp, err := service.Create(context.Background(), CreateCategoryRequest{
		Code: "FOOD",
		Name: "Food",
	})

	require.NoError(t, err)
	assert.Equal(t, "FOOD", resp.Code)
	assert.Nil(t, resp.ParentID)
	repo.AssertExpectations(t)
}

func TestCategoryService_Create_UnderParent(t *testing.T) {
	repo := new(MockCategoryRepository)
	service := NewCategoryService(repo)

	parent, err := catalog.NewCategory("FOOD", "Food")
	require.NoError(t, err)

	repo.On("ExistsByCode", mock.Anything, "COFFEE").Return(false, nil)
	repo.On("FindByID", mock.Anything, parent.ID).Return(parent, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Category")).Return(nil)

	resp, err := service.Create(context.Background(), CreateCategoryRequest{
		Code:     "COFFEE",
		Name:     "Coffee",
		ParentID: &parent.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Level)
	assert.Equal(t, &parent.ID, resp.ParentID)
}

func TestCategoryService_Move_RebasesDescendants(t *testing.T) {
	repo := new(MockCategoryRepository)
	service := NewCategoryService(repo)

	oldRoot, err := catalog.NewCategory("FOOD", "Food")
	require.NoError(t, err)
	newRoot, err := catalog.NewCategory("GROCERY", "Grocery")
	require.NoError(t, err)
	moved, err := catalog.NewChildCategory("COFFEE", "Coffee", oldRoot)
	require.NoError(t, err)
	leaf, err := catalog.NewChildCategory("BEANS", "Beans", moved)
	require.NoError(t, err)

	oldPath := moved.Path

	repo.On("FindByID", mock.Anything, moved.ID).Return(moved, nil)
	repo.On("FindByID", mock.Anything, newRoot.ID).Return(newRoot, nil)
	repo.On("FindDescendants", mock.Anything, oldPath).Return([]*catalog.Category{leaf}, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Category")).Return(nil)

	resp, err := service.Move(context.Background(), moved.ID, MoveCategoryRequest{NewParentID: &newRoot.ID})
	require.NoError(t, err)

	assert.Equal(t, newRoot.Path+"/"+moved.ID.String(), resp.Path)
	assert.Equal(t, moved.Path+"/"+leaf.ID.String(), leaf.Path)
	repo.AssertNumberOfCalls(t, "Save", 2)
}

func TestCategoryService_Delete_Guards(t *testing.T) {
	repo := new(MockCategoryRepository)
	service := NewCategoryService(repo)

	category, err := catalog.NewCategory("FOOD", "Food")
	require.NoError(t, err)

	t.Run("with products", func(t *testing.T) {
		repo.ExpectedCalls = nil
		repo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
		repo.On("HasProducts", mock.Anything, category.ID).Return(true, nil)

		err := service.Delete(context.Background(), category.ID)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidState))
	})

	t.Run("with children", func(t *testing.T) {
		child, err := catalog.NewChildCategory("COFFEE", "Coffee", category)
		require.NoError(t, err)

		repo.ExpectedCalls = nil
		repo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
		repo.On("HasProducts", mock.Anything, category.ID).Return(false, nil)
		repo.On("FindDescendants", mock.Anything, category.Path).Return([]*catalog.Category{child}, nil)

		err = service.Delete(context.Background(), category.ID)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidState))
	})

	t.Run("empty category", func(t *testing.T) {
		repo.ExpectedCalls = nil
		repo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
		repo.On("HasProducts", mock.Anything, category.ID).Return(false, nil)
		repo.On("FindDescendants", mock.Anything, category.Path).Return([]*catalog.Category{}, nil)
		repo.On("Delete", mock.Anything, category.ID).Return(nil)

		require.NoError(t, service.Delete(context.Background(), category.ID))
	})
}

func TestCategoryService_Get_NotFound(t *testing.T) {
	repo := new(MockCategoryRepository)
	service := NewCategoryService(repo)

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := service.Get(context.Background(), id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
