package bptree

import (
	"math/rand"
	"testing"
)

const benchOrder = 64

func buildBenchTree(b *testing.B, n int) (*BPlusTree[int, int], []int) {
	b.Helper()

	tree, err := NewOrdered[int, int](benchOrder)
	if err != nil {
		b.Fatal(err)
	}

	keys := rand.New(rand.NewSource(1)).Perm(n)
	for _, key := range keys {
		tree.Insert(key, key)
	}
	return tree, keys
}

func BenchmarkInsert(b *testing.B) {
	tree, err := NewOrdered[int, int](benchOrder)
	if err != nil {
		b.Fatal(err)
	}
	keys := rand.New(rand.NewSource(1)).Perm(b.N)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(keys[i], i)
	}
}

func BenchmarkInsertAscending(b *testing.B) {
	tree, err := NewOrdered[int, int](benchOrder)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(i, i)
	}
}

func BenchmarkSearch(b *testing.B) {
	tree, keys := buildBenchTree(b, 100000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Search(keys[i%len(keys)])
	}
}

func BenchmarkRangeScan100(b *testing.B) {
	tree, _ := buildBenchTree(b, 100000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		low := (i * 37) % 99900
		it := tree.Range(low, low+99)
		it.Count()
		it.Close()
	}
}

func BenchmarkRemove(b *testing.B) {
	tree, keys := buildBenchTree(b, b.N)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := tree.Remove(keys[i]); err != nil {
			b.Fatal(err)
		}
	}
}
