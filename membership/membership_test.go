package membership

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasteknowledge/models"
)

func TestToggleAddsWhenAbsent(t *testing.T) {
	refs := []models.Ref{"aaa", "bbb"}

	out, member := Toggle(refs, "ccc")

	assert.True(t, member)
	assert.Equal(t, []models.Ref{"aaa", "bbb", "ccc"}, out)
	assert.Equal(t, []models.Ref{"aaa", "bbb"}, refs, "input must not be mutated")
}

func TestToggleRemovesWhenPresent(t *testing.T) {
	refs := []models.Ref{"aaa", "bbb", "ccc"}

	out, member := Toggle(refs, "bbb")

	assert.False(t, member)
	assert.Equal(t, []models.Ref{"aaa", "ccc"}, out)
}

func TestToggleCollapsesDuplicates(t *testing.T) {
	refs := []models.Ref{"aaa", "bbb", "aaa"}

	out, member := Toggle(refs, "aaa")

	assert.False(t, member)
	assert.Equal(t, []models.Ref{"bbb"}, out)
}

func TestToggleTwiceRestoresMembership(t *testing.T) {
	refs := []models.Ref{"aaa"}

	once, member := Toggle(refs, "bbb")
	require.True(t, member)
	twice, member := Toggle(once, "bbb")
	require.False(t, member)

	assert.Equal(t, []models.Ref{"aaa"}, twice)
}

func TestToggleEmptyList(t *testing.T) {
	out, member := Toggle(nil, "aaa")

	assert.True(t, member)
	assert.Equal(t, []models.Ref{"aaa"}, out)
}

// Legacy documents mix bare ids with wrapper objects; after the refs
// decode, toggling matches entries regardless of stored shape.
func TestToggleOverHeterogeneousShapes(t *testing.T) {
	raw := `["656e1f77bcf86cd799439011",{"recipeId":"656e1f77bcf86cd799439012"}]`
	var refs []models.Ref
	require.NoError(t, json.Unmarshal([]byte(raw), &refs))

	out, member := Toggle(refs, "656e1f77bcf86cd799439012")

	assert.False(t, member)
	assert.Equal(t, []models.Ref{"656e1f77bcf86cd799439011"}, out)
}

func TestContains(t *testing.T) {
	refs := []models.Ref{"aaa", "bbb"}

	assert.True(t, Contains(refs, "aaa"))
	assert.False(t, Contains(refs, "ccc"))
	assert.False(t, Contains(nil, "aaa"))
}

func TestIDsDropsEmptyEntries(t *testing.T) {
	refs := []models.Ref{"aaa", "", "bbb"}

	assert.Equal(t, []string{"aaa", "bbb"}, IDs(refs))
}
