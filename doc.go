// Package bptree implements an in-memory ordered map backed by a B+ tree.
//
// # Overview
//
// The tree keeps keys sorted by an injected comparator and provides:
//
//   - O(log n) lookup, insertion, and deletion
//   - Ordered range scans via a doubly linked leaf chain
//   - Bounded node fan-out with split, borrow, and merge rebalancing
//   - Duplicate keys with stable (insertion-order) placement
//
// # Node Structure
//
// Nodes hold up to order-1 keys:
//
//   - Internal nodes: separator keys and child pointers
//   - Leaf nodes: keys, values, and previous/next sibling links
//
// # Usage
//
// Create and use a tree:
//
//	tree, err := bptree.NewOrdered[int, string](32)
//
//	// Insert key-value pairs (duplicates allowed)
//	tree.Insert(42, "answer")
//
//	// Point lookup
//	value, found := tree.Search(42)
//
//	// Range scan
//	iter := tree.Range(10, 99)
//	for {
//	    key, value, ok := iter.Next()
//	    if !ok {
//	        break
//	    }
//	    _ = key
//	    _ = value
//	}
//
// # Concurrency
//
// The tree performs no internal locking. Every operation completes before
// returning and mutations are not atomic with respect to concurrent
// readers, so callers that share a tree across goroutines must serialize
// access externally.
package bptree
