package dag

import (
	"fmt"
	"slices"
	"strings"

	"stcss/internal/diag"
	"stcss/internal/project"
)

type Graph struct {
	Edges   [][]SheetID // Edges[from] = []to
	Indeg   []int       // входящие степени для Kahn (учитывает только присутствующие файлы)
	Present []bool      // файл реально проанализирован, а не только импортируется
}

type SheetNode struct {
	Meta     project.SheetMeta
	Reporter diag.Reporter
}

type SheetSlot struct {
	Meta     project.SheetMeta
	Reporter diag.Reporter
	Present  bool
}

// BuildGraph links every present sheet to the sheets it imports. Imports of
// files that were never loaded stay as edges to absent nodes; reporting them
// belongs to the resolver. Self imports are reported here and dropped.
func BuildGraph(idx SheetIndex, nodes []SheetNode) (Graph, []SheetSlot) {
	nodeCount := idx.Len()
	g := Graph{
		Edges:   make([][]SheetID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	slots := make([]SheetSlot, nodeCount)
	for i, name := range idx.IDToName {
		slots[i].Meta.Path = name
	}

	for _, node := range nodes {
		meta := node.Meta
		if meta.Path == "" {
			continue
		}
		id, ok := idx.Lookup(meta.Path)
		if !ok || slots[int(id)].Present {
			// один и тот же путь дважды: оставляем первый
			continue
		}
		slot := &slots[int(id)]
		slot.Meta = meta
		slot.Reporter = node.Reporter
		slot.Present = true
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present || len(slot.Meta.Imports) == 0 {
			continue
		}
		seen := make(map[SheetID]struct{}, len(slot.Meta.Imports))
		for _, dep := range slot.Meta.Imports {
			toID, ok := idx.Lookup(dep.Path)
			if !ok {
				continue
			}
			if toID == SheetID(from) {
				if slot.Reporter != nil {
					diag.ReportError(slot.Reporter, diag.ImpSelfImport, dep.Span,
						"stylesheet imports itself").
						WithWord(slot.Meta.Path).
						Emit()
				}
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}

			g.Edges[from] = append(g.Edges[from], toID)
			if g.Present[int(toID)] {
				g.Indeg[int(toID)]++
			}
		}
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}

	return g, slots
}

// ReportCycles reports ImpCycle on the import of every sheet left in a cycle.
func ReportCycles(idx SheetIndex, slots []SheetSlot, topo *Topo) {
	if !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	inCycle := make(map[SheetID]struct{}, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.Name(id))
		inCycle[id] = struct{}{}
	}
	summary := strings.Join(names, " -> ")

	for _, id := range topo.Cycles {
		slot := slots[int(id)]
		if !slot.Present || slot.Reporter == nil {
			continue
		}
		span := slot.Meta.Span
		for _, imp := range slot.Meta.Imports {
			if to, ok := idx.Lookup(imp.Path); ok && to != id {
				if _, cyc := inCycle[to]; cyc {
					span = imp.Span
					break
				}
			}
		}
		msg := fmt.Sprintf("stylesheet participates in an import cycle: %s", summary)
		diag.ReportError(slot.Reporter, diag.ImpCycle, span, msg).
			WithWord(slot.Meta.Path).
			Emit()
	}
}
