package bptree

// Remove deletes the entry for the given key. With duplicates the first
// (oldest) occurrence is removed. Returns ErrKeyNotFound if the key is
// absent; the tree is unchanged in that case.
//
// Algorithm:
//  1. Descend to the leaf holding the first occurrence of the key
//  2. Remove the entry, shifting later entries left
//  3. If the leaf is the root, discard it once empty and stop
//  4. If the leaf underflowed, rebalance: borrow from a sibling when one
//     has surplus, otherwise merge, which can cascade to ancestors and
//     shrink the root
func (t *BPlusTree[K, V]) Remove(key K) error {
	if t.root == nil {
		return ErrKeyNotFound
	}

	leaf := t.seekLeaf(key)
	idx, found := leaf.findKeyIndex(key, t.cmp)
	if !found {
		return ErrKeyNotFound
	}

	leaf.removeEntryAt(idx)
	t.size--

	if leaf == t.root {
		if leaf.keyCount() == 0 {
			t.root = nil
		}
		return nil
	}

	if leaf.underflowing(t.minKeys()) {
		t.rebalance(leaf)
	}
	return nil
}

// rebalance restores the minimum occupancy of an underflowing non-root
// node. Siblings are resolved through the parent's children slice, never
// through the leaf chain: a chain neighbor is not guaranteed to share the
// node's parent.
func (t *BPlusTree[K, V]) rebalance(n *node[K, V]) {
	parent := n.parent
	idx := parent.childIndex(n)
	if idx < 0 {
		panic("bptree: underflowing node not found in its parent")
	}

	// Borrow from the left sibling if it has surplus.
	if idx > 0 {
		left := parent.children[idx-1]
		if left.canLend(t.minKeys()) {
			if n.isLeaf {
				t.borrowFromLeftLeaf(n, left, parent, idx)
			} else {
				t.borrowFromLeftInternal(n, left, parent, idx)
			}
			return
		}
	}

	// Borrow from the right sibling if it has surplus.
	if idx < len(parent.children)-1 {
		right := parent.children[idx+1]
		if right.canLend(t.minKeys()) {
			if n.isLeaf {
				t.borrowFromRightLeaf(n, right, parent, idx)
			} else {
				t.borrowFromRightInternal(n, right, parent, idx)
			}
			return
		}
	}

	// Neither sibling can lend; merge with one (prefer left).
	if idx > 0 {
		t.merge(parent, idx-1)
	} else {
		t.merge(parent, idx)
	}

	if parent == t.root {
		// A root left with a single child collapses by one level.
		if parent.keyCount() == 0 {
			t.root = parent.children[0]
			t.root.parent = nil
		}
		return
	}

	if parent.underflowing(t.minKeys()) {
		t.rebalance(parent)
	}
}

// borrowFromLeftLeaf moves the left sibling's last entry to the front of
// the leaf. The borrowed key is now the smallest key under the leaf, so
// the parent separator between the two is updated to it.
func (t *BPlusTree[K, V]) borrowFromLeftLeaf(leaf, left, parent *node[K, V], idx int) {
	key, value := left.removeEntryAt(left.keyCount() - 1)
	leaf.insertEntryAt(0, key, value)

	parent.keys[idx-1] = leaf.keys[0]
}

// borrowFromRightLeaf moves the right sibling's first entry to the end of
// the leaf and updates the parent separator to the sibling's new first
// key.
func (t *BPlusTree[K, V]) borrowFromRightLeaf(leaf, right, parent *node[K, V], idx int) {
	key, value := right.removeEntryAt(0)
	leaf.insertEntryAt(leaf.keyCount(), key, value)

	parent.keys[idx] = right.keys[0]
}

// borrowFromLeftInternal rotates through the parent: the separator key
// comes down as the node's new first key, paired with the sibling's last
// child, and the sibling's last key goes up as the new separator.
func (t *BPlusTree[K, V]) borrowFromLeftInternal(n, left, parent *node[K, V], idx int) {
	separator := parent.keys[idx-1]

	lastKey := left.keyCount() - 1
	lastChild := left.children[len(left.children)-1]

	parent.keys[idx-1] = left.keys[lastKey]
	left.keys = left.keys[:lastKey]
	left.children = left.children[:len(left.children)-1]

	n.keys = append([]K{separator}, n.keys...)
	n.children = append([]*node[K, V]{lastChild}, n.children...)
	lastChild.parent = n
}

// borrowFromRightInternal is the mirror rotation: the separator key comes
// down as the node's new last key, paired with the sibling's first child,
// and the sibling's first key goes up as the new separator.
func (t *BPlusTree[K, V]) borrowFromRightInternal(n, right, parent *node[K, V], idx int) {
	separator := parent.keys[idx]

	firstChild := right.children[0]

	parent.keys[idx] = right.keys[0]
	right.keys = right.keys[1:]
	right.children = right.children[1:]

	n.keys = append(n.keys, separator)
	n.children = append(n.children, firstChild)
	firstChild.parent = n
}

// merge combines parent.children[keyIdx] and parent.children[keyIdx+1]
// into the left of the two, then removes the separator at keyIdx and the
// absorbed right child from the parent. The caller handles any resulting
// parent underflow.
func (t *BPlusTree[K, V]) merge(parent *node[K, V], keyIdx int) {
	left := parent.children[keyIdx]
	right := parent.children[keyIdx+1]

	if left.isLeaf {
		left.keys = append(left.keys, right.keys...)
		left.values = append(left.values, right.values...)

		// Splice the absorbed leaf out of the chain.
		left.next = right.next
		if right.next != nil {
			right.next.prev = left
		}
	} else {
		// The separator between the two children groups comes down.
		left.keys = append(left.keys, parent.keys[keyIdx])
		left.keys = append(left.keys, right.keys...)
		left.children = append(left.children, right.children...)
		for _, c := range right.children {
			c.parent = left
		}
	}

	parent.removeKeyChildAt(keyIdx)
}
