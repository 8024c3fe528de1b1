package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultSet(t *testing.T) {
	set := NewResultSet()

	assert.Equal(t, 2, set.Add("b", "a"))
	assert.Equal(t, 1, set.Add("a", "c", "b"))
	assert.Equal(t, 0, set.Add())

	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []string{"b", "a", "c"}, set.IDs())
}

func TestResultSet_IDsIsACopy(t *testing.T) {
	set := NewResultSet()
	set.Add("a")

	ids := set.IDs()
	ids[0] = "mutated"

	assert.Equal(t, []string{"a"}, set.IDs())
}

func TestResultSet_EmptyIsNotNil(t *testing.T) {
	ids := NewResultSet().IDs()

	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}
