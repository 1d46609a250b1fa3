package bptree

import "fmt"

// Validate walks the whole tree and checks its structural invariants:
// sorted keys, node occupancy bounds, uniform leaf depth, parent/child
// consistency, and a complete, ordered leaf chain. It returns nil for a
// well-formed tree. A non-nil result after any sequence of operations is
// a bug in the tree itself, not a caller error.
func (t *BPlusTree[K, V]) Validate() error {
	if t.root == nil {
		if t.size != 0 {
			return fmt.Errorf("empty tree reports size %d", t.size)
		}
		return nil
	}

	if t.root.parent != nil {
		return fmt.Errorf("root has a parent")
	}

	leafDepth := -1
	totalKeys := 0

	var walk func(n *node[K, V], depth int) error
	walk = func(n *node[K, V], depth int) error {
		for i := 1; i < n.keyCount(); i++ {
			if t.cmp(n.keys[i-1], n.keys[i]) > 0 {
				return fmt.Errorf("keys out of order at depth %d", depth)
			}
		}

		if n != t.root && n.keyCount() < t.minKeys() {
			return fmt.Errorf("node below minimum occupancy: %d < %d", n.keyCount(), t.minKeys())
		}
		if n.keyCount() > t.maxKeys() {
			return fmt.Errorf("node above maximum occupancy: %d > %d", n.keyCount(), t.maxKeys())
		}

		if n.isLeaf {
			if len(n.values) != n.keyCount() {
				return fmt.Errorf("leaf has %d values for %d keys", len(n.values), n.keyCount())
			}
			if leafDepth == -1 {
				leafDepth = depth
			} else if depth != leafDepth {
				return fmt.Errorf("leaf at depth %d, expected %d", depth, leafDepth)
			}
			totalKeys += n.keyCount()
			return nil
		}

		if len(n.children) != n.keyCount()+1 {
			return fmt.Errorf("internal node has %d children for %d keys", len(n.children), n.keyCount())
		}
		for _, c := range n.children {
			if c.parent != n {
				return fmt.Errorf("child does not point back to its parent")
			}
			if err := walk(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(t.root, 0); err != nil {
		return err
	}

	if totalKeys != t.size {
		return fmt.Errorf("tree holds %d keys but reports size %d", totalKeys, t.size)
	}

	// The leaf chain end to end must yield every key in sorted order.
	first := t.leftmostLeaf()
	if first.prev != nil {
		return fmt.Errorf("leftmost leaf has a prev link")
	}

	chainKeys := 0
	var prevLeaf *node[K, V]
	for leaf := first; leaf != nil; leaf = leaf.next {
		if !leaf.isLeaf {
			return fmt.Errorf("non-leaf node in the leaf chain")
		}
		if leaf.prev != prevLeaf {
			return fmt.Errorf("broken prev link in the leaf chain")
		}
		if prevLeaf != nil && prevLeaf.keyCount() > 0 && leaf.keyCount() > 0 &&
			t.cmp(prevLeaf.lastKey(), leaf.keys[0]) > 0 {
			return fmt.Errorf("leaf chain out of order")
		}
		chainKeys += leaf.keyCount()
		prevLeaf = leaf
	}
	if chainKeys != t.size {
		return fmt.Errorf("leaf chain holds %d keys but tree reports size %d", chainKeys, t.size)
	}

	return nil
}
