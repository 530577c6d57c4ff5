package logfile

import (
	"container/heap"

	"github.com/ccollicutt/scrobblefix/pkg/scrobble"
)

// MergeRecords combines several record lists into one ordered by timestamp
// (oldest first). Each input is expected to be in play order already; records
// with equal timestamps keep the order of their inputs.
func MergeRecords(inputs ...[]scrobble.Record) []scrobble.Record {
	total := 0
	h := make(recordHeap, 0, len(inputs))
	for i, in := range inputs {
		total += len(in)
		if len(in) > 0 {
			h = append(h, &heapItem{rec: in[0], sourceIdx: i})
		}
	}
	heap.Init(&h)

	merged := make([]scrobble.Record, 0, total)
	for h.Len() > 0 {
		item := heap.Pop(&h).(*heapItem)
		merged = append(merged, item.rec)

		// Refill from the same input
		next := item.pos + 1
		if next < len(inputs[item.sourceIdx]) {
			heap.Push(&h, &heapItem{
				rec:       inputs[item.sourceIdx][next],
				sourceIdx: item.sourceIdx,
				pos:       next,
			})
		}
	}

	return merged
}

// heapItem wraps a record with its input position for the priority queue.
type heapItem struct {
	rec       scrobble.Record
	sourceIdx int
	pos       int
}

// recordHeap implements heap.Interface for timestamp-ordered merging.
type recordHeap []*heapItem

func (h recordHeap) Len() int { return len(h) }

func (h recordHeap) Less(i, j int) bool {
	ti, tj := h[i].rec.Timestamp, h[j].rec.Timestamp
	if ti.Equal(tj) {
		if h[i].sourceIdx != h[j].sourceIdx {
			return h[i].sourceIdx < h[j].sourceIdx
		}
		return h[i].pos < h[j].pos
	}
	return ti.Before(tj)
}

func (h recordHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *recordHeap) Push(x any) {
	*h = append(*h, x.(*heapItem))
}

func (h *recordHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}
