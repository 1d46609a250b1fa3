package bptree

import (
	"errors"

	"golang.org/x/exp/constraints"
)

// DefaultOrder is a reasonable branching factor for general use.
const DefaultOrder = 128

// Tree errors.
var (
	ErrInvalidOrder = errors.New("bptree: order must be at least 3")
	ErrNilCompare   = errors.New("bptree: compare function cannot be nil")
	ErrKeyNotFound  = errors.New("bptree: key not found")
	ErrTreeEmpty    = errors.New("bptree: tree is empty")
)

// BPlusTree is an in-memory ordered map with duplicate-key support.
// Keys are ordered by the comparator supplied at construction; duplicate
// keys keep their insertion order among equals.
//
// The zero value is not usable; construct trees with New or NewOrdered.
type BPlusTree[K, V any] struct {
	root  *node[K, V] // nil while the tree is empty
	order int
	cmp   func(a, b K) int
	size  int
}

// New creates a B+ tree with the given order and comparator. The order
// is the maximum number of children per internal node; every node holds
// at most order-1 keys. Returns ErrInvalidOrder if order < 3 and
// ErrNilCompare if cmp is nil.
func New[K, V any](order int, cmp func(a, b K) int) (*BPlusTree[K, V], error) {
	if order < 3 {
		return nil, ErrInvalidOrder
	}
	if cmp == nil {
		return nil, ErrNilCompare
	}

	return &BPlusTree[K, V]{
		order: order,
		cmp:   cmp,
	}, nil
}

// NewOrdered creates a B+ tree over a naturally ordered key type.
func NewOrdered[K constraints.Ordered, V any](order int) (*BPlusTree[K, V], error) {
	return New[K, V](order, Ordered[K])
}

// Ordered is a comparator for naturally ordered key types.
func Ordered[K constraints.Ordered](a, b K) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Order returns the order of the tree.
func (t *BPlusTree[K, V]) Order() int {
	return t.order
}

// Len returns the number of entries in the tree.
func (t *BPlusTree[K, V]) Len() int {
	return t.size
}

// IsEmpty returns true if the tree has no entries.
func (t *BPlusTree[K, V]) IsEmpty() bool {
	return t.root == nil
}

// maxKeys returns the maximum number of keys any node may hold.
func (t *BPlusTree[K, V]) maxKeys() int {
	return t.order - 1
}

// minKeys returns the minimum number of keys a non-root node must hold.
func (t *BPlusTree[K, V]) minKeys() int {
	return (t.order - 1) / 2
}

// findLeaf descends from the root to the leaf that should contain the
// given key. At each internal node the child is chosen by the insertion
// index, so equal keys route to the right of an equal separator.
// The tree must not be empty.
func (t *BPlusTree[K, V]) findLeaf(key K) *node[K, V] {
	n := t.root
	for !n.isLeaf {
		n = n.children[n.findInsertIndex(key, t.cmp)]
	}
	return n
}

// seekLeaf finds the leaf holding the first occurrence of the key (or
// the leaf where it would be inserted). Because descent routes equal keys
// right, earlier occurrences of a duplicated key can sit in leaves to the
// left of the landing leaf; walk the prev links back while the preceding
// leaf still ends with an equal key.
func (t *BPlusTree[K, V]) seekLeaf(key K) *node[K, V] {
	leaf := t.findLeaf(key)
	for leaf.prev != nil && leaf.prev.keyCount() > 0 && t.cmp(leaf.prev.lastKey(), key) == 0 {
		leaf = leaf.prev
	}
	return leaf
}

// Search returns the value stored under the key. With duplicates, the
// first (oldest) match is returned. The second result is false if the
// key is absent.
func (t *BPlusTree[K, V]) Search(key K) (V, bool) {
	var zero V
	if t.root == nil {
		return zero, false
	}

	leaf := t.seekLeaf(key)
	idx, found := leaf.findKeyIndex(key, t.cmp)
	if !found {
		return zero, false
	}
	return leaf.values[idx], true
}

// SearchAll returns every value stored under the key, in insertion
// order. Duplicates may span several leaves; collection follows the
// next links until the run of equal keys ends.
func (t *BPlusTree[K, V]) SearchAll(key K) []V {
	if t.root == nil {
		return nil
	}

	leaf := t.seekLeaf(key)
	idx, found := leaf.findKeyIndex(key, t.cmp)
	if !found {
		return nil
	}

	var out []V
	for leaf != nil {
		for ; idx < leaf.keyCount(); idx++ {
			if t.cmp(leaf.keys[idx], key) != 0 {
				return out
			}
			out = append(out, leaf.values[idx])
		}
		leaf = leaf.next
		idx = 0
	}
	return out
}

// Contains checks if a key exists in the tree.
func (t *BPlusTree[K, V]) Contains(key K) bool {
	_, found := t.Search(key)
	return found
}

// Update replaces the value of an existing key in place. With duplicates
// the first occurrence is updated. Returns ErrKeyNotFound if the key is
// absent; the tree is unchanged in that case.
func (t *BPlusTree[K, V]) Update(key K, value V) error {
	if t.root == nil {
		return ErrKeyNotFound
	}

	leaf := t.seekLeaf(key)
	idx, found := leaf.findKeyIndex(key, t.cmp)
	if !found {
		return ErrKeyNotFound
	}

	leaf.values[idx] = value
	return nil
}

// First returns the smallest key and its value.
// Returns ErrTreeEmpty if the tree is empty.
func (t *BPlusTree[K, V]) First() (K, V, error) {
	var zeroK K
	var zeroV V
	if t.root == nil {
		return zeroK, zeroV, ErrTreeEmpty
	}

	leaf := t.leftmostLeaf()
	return leaf.keys[0], leaf.values[0], nil
}

// Last returns the largest key and its value.
// Returns ErrTreeEmpty if the tree is empty.
func (t *BPlusTree[K, V]) Last() (K, V, error) {
	var zeroK K
	var zeroV V
	if t.root == nil {
		return zeroK, zeroV, ErrTreeEmpty
	}

	leaf := t.rightmostLeaf()
	last := leaf.keyCount() - 1
	return leaf.keys[last], leaf.values[last], nil
}

// Height returns the number of levels in the tree. An empty tree has
// height 0 and a lone root leaf has height 1.
func (t *BPlusTree[K, V]) Height() int {
	height := 0
	for n := t.root; n != nil; {
		height++
		if n.isLeaf {
			break
		}
		n = n.children[0]
	}
	return height
}

// leftmostLeaf returns the first leaf in key order.
// The tree must not be empty.
func (t *BPlusTree[K, V]) leftmostLeaf() *node[K, V] {
	n := t.root
	for !n.isLeaf {
		n = n.children[0]
	}
	return n
}

// rightmostLeaf returns the last leaf in key order.
// The tree must not be empty.
func (t *BPlusTree[K, V]) rightmostLeaf() *node[K, V] {
	n := t.root
	for !n.isLeaf {
		n = n.children[len(n.children)-1]
	}
	return n
}

// SearchRange eagerly collects all entries with low <= key <= high in
// ascending order. For lazy traversal use Range.
func (t *BPlusTree[K, V]) SearchRange(low, high K) ([]K, []V) {
	iter := t.Range(low, high)
	defer iter.Close()
	return iter.Collect()
}

// TreeStats holds size statistics about the tree.
type TreeStats struct {
	Height        int
	InternalNodes int
	LeafNodes     int
	TotalKeys     int
}

// Stats walks the tree and reports its shape.
func (t *BPlusTree[K, V]) Stats() TreeStats {
	stats := TreeStats{Height: t.Height()}
	if t.root == nil {
		return stats
	}

	var walk func(n *node[K, V])
	walk = func(n *node[K, V]) {
		if n.isLeaf {
			stats.LeafNodes++
			stats.TotalKeys += n.keyCount()
			return
		}
		stats.InternalNodes++
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)

	return stats
}
