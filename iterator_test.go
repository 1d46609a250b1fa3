package bptree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Full Scan Tests
// =============================================================================

func TestAllEmptyTree(t *testing.T) {
	tree := newIntTree(t, 4)

	it := tree.All()
	defer it.Close()

	assert.False(t, it.Valid())
	_, _, ok := it.Next()
	assert.False(t, ok)
}

func TestAllYieldsAscendingOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tree := newIntTree(t, 5)
	for _, key := range rng.Perm(300) {
		tree.Insert(key, "")
	}

	it := tree.All()
	defer it.Close()

	keys, _ := it.Collect()
	require.Len(t, keys, 300)
	for i, key := range keys {
		require.Equal(t, i, key)
	}
}

// A full scan must survive many splits: the leaf chain stays intact no
// matter how often nodes are divided.
func TestAllAcrossManySplits(t *testing.T) {
	tree := newIntTree(t, 3)
	for i := 0; i < 200; i++ {
		tree.Insert(i, "")
	}
	require.GreaterOrEqual(t, tree.Height(), 4)

	assert.Equal(t, 200, tree.All().Count())
}

// =============================================================================
// Range Iterator Tests
// =============================================================================

func TestRangeInclusiveBounds(t *testing.T) {
	tree := newIntTree(t, 4)
	for _, key := range []int{10, 20, 5, 6, 12, 30, 7, 17} {
		tree.Insert(key, "")
	}

	it := tree.Range(7, 20)
	defer it.Close()

	keys, _ := it.Collect()
	assert.Equal(t, []int{7, 10, 12, 17, 20}, keys)
}

func TestRangeSingleKey(t *testing.T) {
	tree := newIntTree(t, 4)
	for _, key := range []int{10, 20, 30} {
		tree.Insert(key, "")
	}

	keys, _ := tree.Range(20, 20).Collect()
	assert.Equal(t, []int{20}, keys)
}

func TestRangeInvertedBounds(t *testing.T) {
	tree := newIntTree(t, 4)
	tree.Insert(1, "")
	tree.Insert(2, "")

	it := tree.Range(9, 3)
	assert.False(t, it.Valid())
	keys, _ := it.Collect()
	assert.Empty(t, keys)
}

func TestRangeOutsideKeySpace(t *testing.T) {
	tree := newIntTree(t, 4)
	for _, key := range []int{10, 20, 30} {
		tree.Insert(key, "")
	}

	keys, _ := tree.Range(40, 99).Collect()
	assert.Empty(t, keys)

	keys, _ = tree.Range(-10, -1).Collect()
	assert.Empty(t, keys)

	keys, _ = tree.Range(-10, 99).Collect()
	assert.Equal(t, []int{10, 20, 30}, keys)
}

func TestRangeWithDuplicateKeys(t *testing.T) {
	tree := newIntTree(t, 3)
	tree.Insert(5, "")
	for i := 0; i < 6; i++ {
		tree.Insert(10, "")
	}
	tree.Insert(15, "")

	keys, _ := tree.Range(10, 10).Collect()
	assert.Equal(t, []int{10, 10, 10, 10, 10, 10}, keys)
}

// =============================================================================
// Iterator Control Tests
// =============================================================================

func TestIteratorPeek(t *testing.T) {
	tree := newIntTree(t, 4)
	tree.Insert(1, "a")
	tree.Insert(2, "b")

	it := tree.All()
	defer it.Close()

	key, value, ok := it.Peek()
	require.True(t, ok)
	assert.Equal(t, 1, key)
	assert.Equal(t, "a", value)

	// Peek does not advance the cursor.
	key, _, ok = it.Next()
	require.True(t, ok)
	assert.Equal(t, 1, key)
}

func TestIteratorRewind(t *testing.T) {
	tree := newIntTree(t, 3)
	for i := 1; i <= 10; i++ {
		tree.Insert(i, "")
	}

	it := tree.Range(3, 8)
	defer it.Close()

	first, _ := it.Collect()
	it.Rewind()
	second, _ := it.Collect()

	assert.Equal(t, []int{3, 4, 5, 6, 7, 8}, first)
	assert.Equal(t, first, second)
}

func TestIteratorTakeAndSkip(t *testing.T) {
	tree := newIntTree(t, 4)
	for i := 0; i < 20; i++ {
		tree.Insert(i, "")
	}

	it := tree.All()
	defer it.Close()

	assert.Equal(t, 5, it.Skip(5))

	keys, _ := it.Take(3)
	assert.Equal(t, []int{5, 6, 7}, keys)

	// Remaining entries after skip and take.
	assert.Equal(t, 12, it.Count())

	// Fully drained: further skips report zero.
	assert.Equal(t, 0, it.Skip(4))
}

func TestIteratorTakeBeyondEnd(t *testing.T) {
	tree := newIntTree(t, 4)
	tree.Insert(1, "")
	tree.Insert(2, "")

	keys, _ := tree.All().Take(10)
	assert.Equal(t, []int{1, 2}, keys)
}

func TestIteratorClose(t *testing.T) {
	tree := newIntTree(t, 4)
	tree.Insert(1, "")

	it := tree.All()
	it.Close()

	assert.False(t, it.Valid())
	_, _, ok := it.Next()
	assert.False(t, ok)

	// Rewind on a closed iterator is a no-op.
	it.Rewind()
	_, _, ok = it.Next()
	assert.False(t, ok)
}

// =============================================================================
// Reverse Iterator Tests
// =============================================================================

func TestRangeReverseDescendingOrder(t *testing.T) {
	tree := newIntTree(t, 4)
	for _, key := range []int{10, 20, 5, 6, 12, 30, 7, 17} {
		tree.Insert(key, "")
	}

	it := tree.RangeReverse(7, 20)
	defer it.Close()

	var keys []int
	for {
		key, _, ok := it.Next()
		if !ok {
			break
		}
		keys = append(keys, key)
	}
	assert.Equal(t, []int{20, 17, 12, 10, 7}, keys)
}

func TestRangeReverseBoundsAbsent(t *testing.T) {
	tree := newIntTree(t, 4)
	for _, key := range []int{10, 20, 30, 40} {
		tree.Insert(key, "")
	}

	it := tree.RangeReverse(15, 35)
	defer it.Close()

	var keys []int
	for {
		key, _, ok := it.Next()
		if !ok {
			break
		}
		keys = append(keys, key)
	}
	assert.Equal(t, []int{30, 20}, keys)
}

func TestRangeReverseEmptyAndInverted(t *testing.T) {
	empty := newIntTree(t, 4)
	_, _, ok := empty.RangeReverse(1, 9).Next()
	assert.False(t, ok)

	tree := newIntTree(t, 4)
	tree.Insert(5, "")
	_, _, ok = tree.RangeReverse(9, 1).Next()
	assert.False(t, ok)
}

func TestRangeReverseWithDuplicates(t *testing.T) {
	tree := newIntTree(t, 3)
	tree.Insert(5, "")
	for i := 0; i < 5; i++ {
		tree.Insert(10, "")
	}
	tree.Insert(15, "")

	it := tree.RangeReverse(10, 10)
	defer it.Close()

	count := 0
	for {
		key, _, ok := it.Next()
		if !ok {
			break
		}
		require.Equal(t, 10, key)
		count++
	}
	assert.Equal(t, 5, count)
}
