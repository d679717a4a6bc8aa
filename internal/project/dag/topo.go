package dag

import (
	"slices"
)

type Topo struct {
	Order   []SheetID   // линейный порядок (только присутствующие файлы)
	Batches [][]SheetID // волны независимых файлов
	Cyclic  bool
	Cycles  []SheetID // узлы, оставшиеся в цикле
}

// ToposortKahn orders importers before the sheets they import. Reverse the
// order to visit dependencies first.
func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]SheetID, 0, nodeCount),
		Batches: make([][]SheetID, 0),
	}

	active := 0
	current := make([]SheetID, 0, nodeCount)
	for i := range nodeCount {
		if !g.Present[i] {
			continue
		}
		active++
		if indeg[i] == 0 {
			current = append(current, toID(i))
		}
	}

	visited := 0
	for len(current) > 0 {
		batch := make([]SheetID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]SheetID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Edges[int(id)] {
				if !g.Present[int(to)] {
					continue
				}
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		topo.Cycles = residualCycles(g, indeg)
	}

	return topo
}

// residualCycles trims sheets that are only imported by a cycle but do not
// lead back into one.
func residualCycles(g Graph, indeg []int) []SheetID {
	left := make([]bool, len(indeg))
	for i := range indeg {
		left[i] = g.Present[i] && indeg[i] > 0
	}
	for changed := true; changed; {
		changed = false
		for i := range left {
			if !left[i] {
				continue
			}
			out := false
			for _, to := range g.Edges[i] {
				if left[int(to)] {
					out = true
					break
				}
			}
			if !out {
				left[i] = false
				changed = true
			}
		}
	}
	var cycles []SheetID
	for i, ok := range left {
		if ok {
			cycles = append(cycles, toID(i))
		}
	}
	return cycles
}

// DependenciesFirst returns Order reversed. Sheets Kahn could not order
// (cycles and what hangs off them) are not included.
func (t *Topo) DependenciesFirst() []SheetID {
	out := make([]SheetID, 0, len(t.Order))
	for i := len(t.Order) - 1; i >= 0; i-- {
		out = append(out, t.Order[i])
	}
	return out
}
