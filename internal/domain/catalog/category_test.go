package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	c, err := NewCategory("food", "Food")
	require.NoError(t, err)
	assert.Equal(t, "FOOD", c.Code)
	assert.True(t, c.IsRoot())
	assert.Equal(t, 0, c.Level)
	assert.Equal(t, c.ID.String(), c.Path)

	_, err = NewCategory("", "Food")
	assert.Error(t, err)
}

func TestNewChildCategory(t *testing.T) {
	root, err := NewCategory("FOOD", "Food")
	require.NoError(t, err)

	child, err := NewChildCategory("BEVERAGES", "Beverages", root)
	require.NoError(t, err)
	assert.Equal(t, 1, child.Level)
	assert.Equal(t, root.Path+"/"+child.ID.String(), child.Path)
	assert.True(t, root.IsAncestorOf(child))
	assert.False(t, child.IsAncestorOf(root))

	_, err = NewChildCategory("X", "Orphan", nil)
	assert.Error(t, err)
}

func TestNewChildCategory_MaxDepth(t *testing.T) {
	parent, err := NewCategory("L0", "Level 0")
	require.NoError(t, err)

	for i := 1; i < MaxCategoryDepth; i++ {
		child, err := NewChildCategory("L"+string(rune('0'+i)), "Level", parent)
		require.NoError(t, err)
		parent = child
	}

	_, err = NewChildCategory("TOODEEP", "Too Deep", parent)
	assert.Error(t, err)
}

func TestCategory_MoveTo(t *testing.T) {
	root, err := NewCategory("FOOD", "Food")
	require.NoError(t, err)
	other, err := NewCategory("DRINKS", "Drinks")
	require.NoError(t, err)
	child, err := NewChildCategory("COFFEE", "Coffee", root)
	require.NoError(t, err)

	oldPath, err := child.MoveTo(other)
	require.NoError(t, err)
	assert.Equal(t, root.Path+"/"+child.ID.String(), oldPath)
	assert.Equal(t, other.Path+"/"+child.ID.String(), child.Path)
	assert.Equal(t, &other.ID, child.ParentID)
	assert.Equal(t, 1, child.Level)
}

func TestCategory_MoveTo_Root(t *testing.T) {
	root, err := NewCategory("FOOD", "Food")
	require.NoError(t, err)
	child, err := NewChildCategory("COFFEE", "Coffee", root)
	require.NoError(t, err)

	_, err = child.MoveTo(nil)
	require.NoError(t, err)
	assert.True(t, child.IsRoot())
	assert.Equal(t, 0, child.Level)
	assert.Equal(t, child.ID.String(), child.Path)
}

func TestCategory_MoveTo_Cycle(t *testing.T) {
	root, err := NewCategory("FOOD", "Food")
	require.NoError(t, err)
	child, err := NewChildCategory("COFFEE", "Coffee", root)
	require.NoError(t, err)

	_, err = root.MoveTo(child)
	assert.Error(t, err)

	_, err = root.MoveTo(root)
	assert.Error(t, err)
}

func TestCategory_RebasePath(t *testing.T) {
	root, err := NewCategory("FOOD", "Food")
	require.NoError(t, err)
	mid, err := NewChildCategory("COFFEE", "Coffee", root)
	require.NoError(t, err)
	leaf, err := NewChildCategory("BEANS", "Beans", mid)
	require.NoError(t, err)

	newRoot, err := NewCategory("GROCERY", "Grocery")
	require.NoError(t, err)

	oldPath, err := mid.MoveTo(newRoot)
	require.NoError(t, err)

	require.NoError(t, leaf.RebasePath(oldPath, mid.Path))
	assert.Equal(t, mid.Path+"/"+leaf.ID.String(), leaf.Path)
	assert.Equal(t, 2, leaf.Level)

	err = leaf.RebasePath("not/a/prefix", mid.Path)
	assert.Error(t, err)
}

func TestCategory_GetAncestorIDs(t *testing.T) {
	root, err := NewCategory("FOOD", "Food")
	require.NoError(t, err)
	mid, err := NewChildCategory("COFFEE", "Coffee", root)
	require.NoError(t, err)
	leaf, err := NewChildCategory("BEANS", "Beans", mid)
	require.NoError(t, err)

	assert.Nil(t, root.GetAncestorIDs())

	ids := leaf.GetAncestorIDs()
	require.Len(t, ids, 2)
	assert.Equal(t, root.ID, ids[0])
	assert.Equal(t, mid.ID, ids[1])
}
