package bptree

// node is a single B+ tree node. It covers both variants: internal nodes
// carry separator keys and child pointers, leaf nodes carry keys, values,
// and sibling links for ordered traversal.
type node[K, V any] struct {
	// isLeaf selects the variant. Leaf nodes store values, internal
	// nodes store only separator keys for navigation.
	isLeaf bool

	// keys holds the node's keys in ascending order.
	// For internal nodes: keys[i] separates children[i] and children[i+1].
	// For leaf nodes: keys[i] corresponds to values[i].
	keys []K

	// children holds child pointers (internal nodes only).
	// len(children) == len(keys)+1 for a live internal node.
	children []*node[K, V]

	// values holds the entries parallel to keys (leaf nodes only).
	values []V

	// parent is a non-owning back-reference used for upward traversal
	// during split propagation and rebalancing. nil for the root.
	parent *node[K, V]

	// next and prev link leaves in ascending key order. They are an
	// iteration aid only; rebalancing resolves siblings through the
	// parent's children slice.
	next *node[K, V]
	prev *node[K, V]
}

// newLeafNode creates an empty leaf node.
func newLeafNode[K, V any](order int) *node[K, V] {
	return &node[K, V]{
		isLeaf: true,
		keys:   make([]K, 0, order),
		values: make([]V, 0, order),
	}
}

// newInternalNode creates an empty internal node.
func newInternalNode[K, V any](order int) *node[K, V] {
	return &node[K, V]{
		isLeaf:   false,
		keys:     make([]K, 0, order),
		children: make([]*node[K, V], 0, order+1),
	}
}

// keyCount returns the number of keys in the node.
func (n *node[K, V]) keyCount() int {
	return len(n.keys)
}

// findInsertIndex returns the smallest index i such that key < keys[i],
// or len(keys) if no such index exists. It selects the child to descend
// into (equal keys route right) and the position at which a new key is
// inserted (new duplicates land after existing equals).
func (n *node[K, V]) findInsertIndex(key K, cmp func(a, b K) int) int {
	low, high := 0, len(n.keys)
	for low < high {
		mid := (low + high) / 2
		if cmp(key, n.keys[mid]) < 0 {
			high = mid
		} else {
			low = mid + 1
		}
	}
	return low
}

// findKeyIndex returns the index of the leftmost key equal to the given
// key and whether it exists. When the key is absent, the returned index
// is the position of the first key greater than it.
func (n *node[K, V]) findKeyIndex(key K, cmp func(a, b K) int) (int, bool) {
	low, high := 0, len(n.keys)
	for low < high {
		mid := (low + high) / 2
		if cmp(n.keys[mid], key) < 0 {
			low = mid + 1
		} else {
			high = mid
		}
	}
	return low, low < len(n.keys) && cmp(n.keys[low], key) == 0
}

// insertEntryAt inserts a key-value pair at the given index of a leaf,
// shifting later entries right by one.
func (n *node[K, V]) insertEntryAt(index int, key K, value V) {
	var zeroK K
	var zeroV V

	n.keys = append(n.keys, zeroK)
	copy(n.keys[index+1:], n.keys[index:])
	n.keys[index] = key

	n.values = append(n.values, zeroV)
	copy(n.values[index+1:], n.values[index:])
	n.values[index] = value
}

// removeEntryAt removes the key-value pair at the given index of a leaf,
// shifting later entries left by one.
func (n *node[K, V]) removeEntryAt(index int) (K, V) {
	key := n.keys[index]
	value := n.values[index]

	n.keys = append(n.keys[:index], n.keys[index+1:]...)
	n.values = append(n.values[:index], n.values[index+1:]...)

	return key, value
}

// insertKeyChildAt inserts a separator key at the given index of an
// internal node, with the child pointer placed to the key's right.
func (n *node[K, V]) insertKeyChildAt(index int, key K, child *node[K, V]) {
	var zeroK K

	n.keys = append(n.keys, zeroK)
	copy(n.keys[index+1:], n.keys[index:])
	n.keys[index] = key

	n.children = append(n.children, nil)
	copy(n.children[index+2:], n.children[index+1:])
	n.children[index+1] = child
}

// removeKeyChildAt removes the separator key at keyIndex and the child
// to its right from an internal node.
func (n *node[K, V]) removeKeyChildAt(keyIndex int) {
	n.keys = append(n.keys[:keyIndex], n.keys[keyIndex+1:]...)
	n.children = append(n.children[:keyIndex+1], n.children[keyIndex+2:]...)
}

// childIndex returns the position of the given child in the node's
// children slice, resolved by identity rather than by key comparison so
// that children separated by equal keys are never confused.
func (n *node[K, V]) childIndex(child *node[K, V]) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// underflowing reports whether a non-root node has dropped below the
// minimum occupancy.
func (n *node[K, V]) underflowing(minKeys int) bool {
	return len(n.keys) < minKeys
}

// canLend reports whether the node can give up an entry to a sibling
// without underflowing itself.
func (n *node[K, V]) canLend(minKeys int) bool {
	return len(n.keys) > minKeys
}

// lastKey returns the node's largest key. The node must not be empty.
func (n *node[K, V]) lastKey() K {
	return n.keys[len(n.keys)-1]
}
