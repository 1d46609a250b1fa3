package bptree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/btree"
)

// A randomized operation stream checked against an independent ordered
// map. Keys are kept unique so both sides agree on what Remove deletes.
func TestRandomizedAgainstReference(t *testing.T) {
	const (
		operations = 20000
		keySpace   = 4000
	)

	for _, order := range []int{3, 4, 7, 64} {
		rng := rand.New(rand.NewSource(int64(order)))

		tree := newIntTree(t, order)
		var ref btree.Map[int, string]

		for i := 0; i < operations; i++ {
			key := rng.Intn(keySpace)

			switch rng.Intn(3) {
			case 0: // insert
				if _, exists := ref.Get(key); exists {
					continue
				}
				value := "v" + string(rune('a'+key%26))
				tree.Insert(key, value)
				ref.Set(key, value)

			case 1: // remove
				_, exists := ref.Get(key)
				err := tree.Remove(key)
				if exists {
					require.NoError(t, err, "order %d op %d: remove %d", order, i, key)
					ref.Delete(key)
				} else {
					require.ErrorIs(t, err, ErrKeyNotFound, "order %d op %d: remove %d", order, i, key)
				}

			case 2: // lookup
				want, exists := ref.Get(key)
				got, found := tree.Search(key)
				require.Equal(t, exists, found, "order %d op %d: search %d", order, i, key)
				if exists {
					require.Equal(t, want, got)
				}
			}

			require.Equal(t, ref.Len(), tree.Len(), "order %d op %d", order, i)

			if i%2000 == 0 {
				require.NoError(t, tree.Validate(), "order %d op %d", order, i)
			}
		}

		require.NoError(t, tree.Validate(), "order %d final", order)

		// Full scans of both structures must agree entry for entry.
		gotKeys, gotValues := tree.All().Collect()
		var wantKeys []int
		var wantValues []string
		ref.Scan(func(key int, value string) bool {
			wantKeys = append(wantKeys, key)
			wantValues = append(wantValues, value)
			return true
		})
		require.Equal(t, wantKeys, gotKeys, "order %d", order)
		require.Equal(t, wantValues, gotValues, "order %d", order)
	}
}

// Range scans over random data must match the reference for random
// bounds, including inverted and out-of-space bounds.
func TestRandomizedRangeAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	tree := newIntTree(t, 5)
	var ref btree.Map[int, string]

	for i := 0; i < 2000; i++ {
		key := rng.Intn(5000)
		if _, exists := ref.Get(key); exists {
			continue
		}
		tree.Insert(key, "")
		ref.Set(key, "")
	}

	for trial := 0; trial < 200; trial++ {
		low := rng.Intn(6000) - 500
		high := rng.Intn(6000) - 500

		gotKeys, _ := tree.SearchRange(low, high)

		var wantKeys []int
		if low <= high {
			ref.Ascend(low, func(key int, _ string) bool {
				if key > high {
					return false
				}
				wantKeys = append(wantKeys, key)
				return true
			})
		}
		require.Equal(t, wantKeys, gotKeys, "range [%d, %d]", low, high)
	}
}
