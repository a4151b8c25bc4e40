package collection

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, Map([]int{1, 2}, strconv.Itoa))
}

func TestFilterNeverNil(t *testing.T) {
	even := Filter([]int{1, 3}, func(n int) bool { return n%2 == 0 })
	raw, err := json.Marshal(even)
	assert.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	assert.Equal(t, []int{2, 4}, Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 }))
}

func TestMapOfNilIsEmpty(t *testing.T) {
	raw, err := json.Marshal(Map[int, int](nil, func(n int) int { return n }))
	assert.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}
