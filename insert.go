package bptree

// Insert adds a key-value pair to the tree. Duplicate keys are allowed;
// a new duplicate is placed after existing equal entries. Insert never
// fails.
//
// Algorithm:
//  1. If the tree is empty, create a root leaf with the single entry
//  2. Descend to the leaf for the key (equal keys route right)
//  3. Insert the pair at its sorted position
//  4. If the leaf overflows, split it and propagate upward
//  5. If the root splits, create a new root
func (t *BPlusTree[K, V]) Insert(key K, value V) {
	if t.root == nil {
		leaf := newLeafNode[K, V](t.order)
		leaf.insertEntryAt(0, key, value)
		t.root = leaf
		t.size = 1
		return
	}

	leaf := t.findLeaf(key)
	idx := leaf.findInsertIndex(key, t.cmp)
	leaf.insertEntryAt(idx, key, value)
	t.size++

	if leaf.keyCount() > t.maxKeys() {
		t.splitLeaf(leaf)
	}
}

// splitLeaf splits an overflowing leaf holding order entries. The left
// half [0, mid) stays in place, the right half [mid, order) moves into a
// new leaf spliced after it in the leaf chain. The promoted key is a copy
// of the right leaf's first key, so every entry stays reachable through a
// leaf scan.
func (t *BPlusTree[K, V]) splitLeaf(leaf *node[K, V]) {
	mid := t.order / 2

	right := newLeafNode[K, V](t.order)
	right.keys = append(right.keys, leaf.keys[mid:]...)
	right.values = append(right.values, leaf.values[mid:]...)

	leaf.keys = leaf.keys[:mid]
	leaf.values = leaf.values[:mid]

	// Splice the new leaf into the chain.
	right.next = leaf.next
	right.prev = leaf
	if right.next != nil {
		right.next.prev = right
	}
	leaf.next = right

	right.parent = leaf.parent

	t.insertIntoParent(leaf, right.keys[0], right)
}

// insertIntoParent inserts a promoted key and the right node produced by
// a split into the parent of the left node. If the left node was the
// root, a new root is created; if the parent overflows, it splits and
// the propagation continues upward.
func (t *BPlusTree[K, V]) insertIntoParent(left *node[K, V], key K, right *node[K, V]) {
	parent := left.parent
	if parent == nil {
		t.createNewRoot(left, key, right)
		return
	}

	// Locate left among the parent's children by identity: two children
	// can be separated by equal keys, so a key search is not enough.
	idx := parent.childIndex(left)
	if idx < 0 {
		panic("bptree: split child not found in its parent")
	}

	parent.insertKeyChildAt(idx, key, right)
	right.parent = parent

	if parent.keyCount() > t.maxKeys() {
		t.splitInternal(parent)
	}
}

// createNewRoot replaces the root after a root split, growing the tree
// by one level.
func (t *BPlusTree[K, V]) createNewRoot(left *node[K, V], key K, right *node[K, V]) {
	root := newInternalNode[K, V](t.order)
	root.keys = append(root.keys, key)
	root.children = append(root.children, left, right)

	left.parent = root
	right.parent = root
	t.root = root
}

// splitInternal splits an overflowing internal node holding order keys
// and order+1 children. The key at mid is pushed up: it moves to the
// parent and is kept by neither half. Children [0, mid] stay with the
// left node, children [mid+1, order] move to the new right node.
func (t *BPlusTree[K, V]) splitInternal(n *node[K, V]) {
	mid := t.order / 2
	promoted := n.keys[mid]

	right := newInternalNode[K, V](t.order)
	right.keys = append(right.keys, n.keys[mid+1:]...)
	right.children = append(right.children, n.children[mid+1:]...)
	for _, c := range right.children {
		c.parent = right
	}

	n.keys = n.keys[:mid]
	n.children = n.children[:mid+1]

	right.parent = n.parent

	t.insertIntoParent(n, promoted, right)
}
