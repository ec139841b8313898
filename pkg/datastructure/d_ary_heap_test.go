package datastructure

import (
	"math/rand"
	"sort"
	"testing"
)

func TestHeapExtractsInOrder(t *testing.T) {
	for _, arity := range []int{2, 4, 8} {
		h := NewdAryHeap[int](arity)

		rng := rand.New(rand.NewSource(42))
		ranks := make([]float64, 0, 200)
		for i := 0; i < 200; i++ {
			r := rng.Float64() * 1000
			ranks = append(ranks, r)
			h.Insert(NewPriorityQueueNode(r, i))
		}
		sort.Float64s(ranks)

		for i := 0; i < len(ranks); i++ {
			node, err := h.ExtractMin()
			if err != nil {
				t.Fatalf("arity %d: unexpected error: %v", arity, err)
			}
			if node.GetRank() != ranks[i] {
				t.Fatalf("arity %d: extraction %d got rank %f, expected %f", arity, i, node.GetRank(), ranks[i])
			}
		}
		if !h.IsEmpty() {
			t.Errorf("arity %d: heap not empty after draining", arity)
		}
	}
}

func TestHeapDecreaseKey(t *testing.T) {
	h := NewFourAryHeap[string]()

	a := NewPriorityQueueNode(10.0, "a")
	b := NewPriorityQueueNode(20.0, "b")
	c := NewPriorityQueueNode(30.0, "c")
	h.Insert(a)
	h.Insert(b)
	h.Insert(c)

	if err := h.DecreaseKey(c, 5.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node, _ := h.ExtractMin()
	if node.GetItem() != "c" {
		t.Errorf("got %q first, expected c after decrease-key", node.GetItem())
	}
	node, _ = h.ExtractMin()
	if node.GetItem() != "a" {
		t.Errorf("got %q second, expected a", node.GetItem())
	}
}

func TestHeapGetMinrankEmpty(t *testing.T) {
	h := NewBinaryHeap[int]()
	if h.GetMinrank() < 1e15 {
		t.Errorf("empty heap min rank %f should be effectively infinite", h.GetMinrank())
	}
	if _, err := h.ExtractMin(); err == nil {
		t.Error("ExtractMin on an empty heap should error")
	}
}
