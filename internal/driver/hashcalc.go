package driver

import (
	"crypto/sha256"

	"stcss/internal/project"
	"stcss/internal/project/dag"
	"stcss/internal/version"
)

// contentDigest: H(version || relPath || content). Путь входит в хеш, потому что
// от него зависит namespace в выходном CSS.
func contentDigest(relPath string, content [32]byte) project.Digest {
	h := sha256.New()
	_, _ = h.Write([]byte(version.Version))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(relPath))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(content[:])
	var out project.Digest
	copy(out[:], h.Sum(nil))
	return out
}

// ComputeSheetHashes вычисляет ModuleHash по обратному порядку топосортировки.
// Файлы в цикле и всё, что от них зависит, остаются с нулевым хешем и не кешируются.
func ComputeSheetHashes(g dag.Graph, slots []dag.SheetSlot, topo *dag.Topo) {
	if topo == nil {
		return
	}
	for _, id := range topo.DependenciesFirst() {
		slot := &slots[int(id)]
		if !slot.Present {
			continue
		}
		deps := make([]project.Digest, 0, len(g.Edges[int(id)]))
		complete := true
		for _, to := range g.Edges[int(id)] {
			if !g.Present[int(to)] {
				continue
			}
			h := slots[int(to)].Meta.ModuleHash
			if h.IsZero() {
				complete = false
				break
			}
			deps = append(deps, h)
		}
		if !complete {
			slot.Meta.ModuleHash = project.Digest{}
			continue
		}
		slot.Meta.ModuleHash = project.Combine(slot.Meta.ContentHash, deps...)
	}
}
