package bptree

// Iterator yields entries in ascending key order by walking the leaf
// chain. Iterators are lazy and restartable (see Rewind) but are
// invalidated by any mutation of the tree.
type Iterator[K, V any] struct {
	cmp      func(a, b K) int
	current  *node[K, V]
	position int

	// start of the sequence, for Rewind
	startLeaf *node[K, V]
	startPos  int

	bounded bool // when true, stop once a key exceeds upper
	upper   K

	closed bool
}

// newIterator creates an iterator beginning at the given leaf position
// and bounded above by upper (inclusive).
func newIterator[K, V any](cmp func(a, b K) int, leaf *node[K, V], pos int, bounded bool, upper K) *Iterator[K, V] {
	return &Iterator[K, V]{
		cmp:       cmp,
		current:   leaf,
		position:  pos,
		startLeaf: leaf,
		startPos:  pos,
		bounded:   bounded,
		upper:     upper,
	}
}

// emptyIterator returns an iterator that yields no results.
func emptyIterator[K, V any]() *Iterator[K, V] {
	return &Iterator[K, V]{closed: true}
}

// Next returns the next key-value pair, or ok=false once the sequence is
// exhausted.
func (it *Iterator[K, V]) Next() (key K, value V, ok bool) {
	var zeroK K
	var zeroV V

	if it.closed || it.current == nil {
		return zeroK, zeroV, false
	}

	// Step across exhausted leaves.
	for it.position >= it.current.keyCount() {
		if it.current.next == nil {
			return zeroK, zeroV, false
		}
		it.current = it.current.next
		it.position = 0
	}

	key = it.current.keys[it.position]
	if it.bounded && it.cmp(key, it.upper) > 0 {
		return zeroK, zeroV, false
	}

	value = it.current.values[it.position]
	it.position++

	return key, value, true
}

// Peek returns the next key-value pair without advancing the iterator.
func (it *Iterator[K, V]) Peek() (key K, value V, ok bool) {
	savedLeaf := it.current
	savedPos := it.position

	key, value, ok = it.Next()

	it.current = savedLeaf
	it.position = savedPos

	return key, value, ok
}

// Rewind restarts the iterator at the beginning of its sequence.
func (it *Iterator[K, V]) Rewind() {
	if it.closed {
		return
	}
	it.current = it.startLeaf
	it.position = it.startPos
}

// Valid returns true if the iterator has more entries.
func (it *Iterator[K, V]) Valid() bool {
	_, _, ok := it.Peek()
	return ok
}

// Close releases the iterator. After Close, Next always returns false.
func (it *Iterator[K, V]) Close() {
	it.closed = true
	it.current = nil
	it.startLeaf = nil
}

// Collect exhausts the iterator and returns the remaining entries.
func (it *Iterator[K, V]) Collect() (keys []K, values []V) {
	for {
		key, value, ok := it.Next()
		if !ok {
			break
		}
		keys = append(keys, key)
		values = append(values, value)
	}
	return keys, values
}

// Count exhausts the iterator and returns the number of remaining
// entries.
func (it *Iterator[K, V]) Count() int {
	count := 0
	for {
		if _, _, ok := it.Next(); !ok {
			break
		}
		count++
	}
	return count
}

// Take returns up to n entries from the iterator.
func (it *Iterator[K, V]) Take(n int) (keys []K, values []V) {
	for i := 0; i < n; i++ {
		key, value, ok := it.Next()
		if !ok {
			break
		}
		keys = append(keys, key)
		values = append(values, value)
	}
	return keys, values
}

// Skip advances the iterator by up to n entries and returns the number
// actually skipped.
func (it *Iterator[K, V]) Skip(n int) int {
	skipped := 0
	for i := 0; i < n; i++ {
		if _, _, ok := it.Next(); !ok {
			break
		}
		skipped++
	}
	return skipped
}

// Range returns an iterator over all entries with low <= key <= high in
// ascending order. The sequence is lazy: leaves are visited as the
// iterator advances.
func (t *BPlusTree[K, V]) Range(low, high K) *Iterator[K, V] {
	if t.root == nil || t.cmp(low, high) > 0 {
		return emptyIterator[K, V]()
	}

	leaf := t.seekLeaf(low)
	idx, _ := leaf.findKeyIndex(low, t.cmp)

	return newIterator(t.cmp, leaf, idx, true, high)
}

// All returns an iterator over every entry in ascending order.
func (t *BPlusTree[K, V]) All() *Iterator[K, V] {
	if t.root == nil {
		return emptyIterator[K, V]()
	}

	var zero K
	return newIterator(t.cmp, t.leftmostLeaf(), 0, false, zero)
}

// ReverseIterator yields entries in descending key order by walking the
// prev links of the leaf chain.
type ReverseIterator[K, V any] struct {
	cmp      func(a, b K) int
	current  *node[K, V]
	position int

	bounded bool // when true, stop once a key drops below lower
	lower   K

	closed bool
}

// Next returns the next key-value pair moving backward, or ok=false once
// the sequence is exhausted.
func (it *ReverseIterator[K, V]) Next() (key K, value V, ok bool) {
	var zeroK K
	var zeroV V

	if it.closed || it.current == nil {
		return zeroK, zeroV, false
	}

	for it.position < 0 {
		if it.current.prev == nil {
			return zeroK, zeroV, false
		}
		it.current = it.current.prev
		it.position = it.current.keyCount() - 1
	}

	key = it.current.keys[it.position]
	if it.bounded && it.cmp(key, it.lower) < 0 {
		return zeroK, zeroV, false
	}

	value = it.current.values[it.position]
	it.position--

	return key, value, true
}

// Close releases the reverse iterator.
func (it *ReverseIterator[K, V]) Close() {
	it.closed = true
	it.current = nil
}

// RangeReverse returns an iterator over all entries with
// low <= key <= high in descending order.
func (t *BPlusTree[K, V]) RangeReverse(low, high K) *ReverseIterator[K, V] {
	if t.root == nil || t.cmp(low, high) > 0 {
		return &ReverseIterator[K, V]{closed: true}
	}

	// Start at the last occurrence of a key <= high. Descent lands right
	// of equal separators; duplicates of high can still spill into the
	// next leaf.
	leaf := t.findLeaf(high)
	for leaf.next != nil && leaf.next.keyCount() > 0 && t.cmp(leaf.next.keys[0], high) <= 0 {
		leaf = leaf.next
	}
	pos := leaf.findInsertIndex(high, t.cmp) - 1

	return &ReverseIterator[K, V]{
		cmp:      t.cmp,
		current:  leaf,
		position: pos,
		bounded:  true,
		lower:    low,
	}
}
