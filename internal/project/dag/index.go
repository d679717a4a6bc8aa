package dag

import (
	"fmt"
	"maps"
	"slices"

	"fortio.org/safecast"

	"stcss/internal/project"
)

// SheetID is a dense index into a SheetIndex.
type SheetID uint32

// SheetIndex numbers every stylesheet path seen in a build: the sheets
// themselves and every path they import, present or not. IDs follow the
// sorted path order, so the same set of paths always gets the same IDs.
type SheetIndex struct {
	NameToID map[string]SheetID
	IDToName []string
}

// BuildIndex collects the unique non-empty paths of metas and their imports.
func BuildIndex(metas []project.SheetMeta) SheetIndex {
	uniq := make(map[string]struct{}, len(metas))
	add := func(p string) {
		if p != "" {
			uniq[p] = struct{}{}
		}
	}
	for _, m := range metas {
		add(m.Path)
		for _, dep := range m.Imports {
			add(dep.Path)
		}
	}

	paths := slices.Sorted(maps.Keys(uniq))
	nameToID := make(map[string]SheetID, len(paths))
	for i, p := range paths {
		nameToID[p] = toID(i)
	}
	return SheetIndex{NameToID: nameToID, IDToName: paths}
}

// Len is the number of indexed paths.
func (idx SheetIndex) Len() int { return len(idx.IDToName) }

// Lookup returns the ID of path.
func (idx SheetIndex) Lookup(path string) (SheetID, bool) {
	id, ok := idx.NameToID[path]
	return id, ok
}

// Name returns the path of id, or "" when id is out of range.
func (idx SheetIndex) Name(id SheetID) string {
	if int(id) >= len(idx.IDToName) {
		return ""
	}
	return idx.IDToName[id]
}

func toID(i int) SheetID {
	id, err := safecast.Conv[SheetID](i)
	if err != nil {
		panic(fmt.Errorf("sheet id overflow: %w", err))
	}
	return id
}
