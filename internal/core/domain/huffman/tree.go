package huffman

import "container/heap"

const noChild = -1

type node struct {
	count  int
	symbol byte
	zero   int
	one    int
}

func (n node) leaf() bool {
	return n.zero == noChild
}

// Tree is a Huffman tree stored as an arena. Node IDs are indexes into nodes and
// are only meaningful within the tree that created them.
type Tree struct {
	nodes []node
	root  int
}

func (t *Tree) add(n node) int {
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// Weight is the root count, equal to the number of symbols in the analyzed stream.
func (t *Tree) Weight() int {
	return t.nodes[t.root].count
}

// Leaves is the number of distinct symbols.
func (t *Tree) Leaves() int {
	return (len(t.nodes) + 1) / 2
}

// BuildTree builds a Huffman tree from table, or returns nil for an empty table.
//
// Leaves enter the queue in ascending symbol order. Among nodes with equal counts
// the one created first is popped first, so the same table always yields the same tree.
// The first node popped in a merge becomes the zero-child.
func BuildTree(table FrequencyTable) *Tree {
	if len(table) == 0 {
		return nil
	}

	t := &Tree{nodes: make([]node, 0, 2*len(table)-1)}
	q := make(queue, 0, len(table))

	for _, symbol := range table.Symbols() {
		id := t.add(node{count: table[symbol], symbol: symbol, zero: noChild, one: noChild})
		q = append(q, entry{id: id, count: table[symbol]})
	}
	heap.Init(&q)

	for q.Len() > 1 {
		zero := heap.Pop(&q).(entry)
		one := heap.Pop(&q).(entry)

		count := zero.count + one.count
		id := t.add(node{count: count, zero: zero.id, one: one.id})
		heap.Push(&q, entry{id: id, count: count})
	}

	t.root = heap.Pop(&q).(entry).id
	return t
}

type entry struct {
	id    int
	count int
}

// queue is a min-heap on count, ties broken by node creation order.
type queue []entry

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].count != q[j].count {
		return q[i].count < q[j].count
	}
	return q[i].id < q[j].id
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) { *q = append(*q, x.(entry)) }

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}
