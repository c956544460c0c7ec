package planning

import "sort"

// PendingSet tracks node numbers with a save in flight. Entries are
// counted so a node stays pending until its last save settles.
type PendingSet struct {
	nodes map[int]int
}

func NewPendingSet() *PendingSet {
	return &PendingSet{nodes: make(map[int]int)}
}

func (p *PendingSet) Add(node int) {
	p.nodes[node]++
}

func (p *PendingSet) Remove(node int) {
	if p.nodes[node] <= 1 {
		delete(p.nodes, node)
		return
	}
	p.nodes[node]--
}

func (p *PendingSet) Has(node int) bool {
	return p.nodes[node] > 0
}

func (p *PendingSet) Len() int {
	return len(p.nodes)
}

// Nodes returns the pending node numbers in ascending order.
func (p *PendingSet) Nodes() []int {
	out := make([]int, 0, len(p.nodes))
	for n := range p.nodes {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func (p *PendingSet) Clear() {
	p.nodes = make(map[int]int)
}
