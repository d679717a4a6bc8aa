package project

import (
	"stcss/internal/source"
)

// ImportMeta is one resolved @st-import edge.
type ImportMeta struct {
	Path string // нормализованный путь импортируемого файла
	Span source.Span
}

// SheetMeta is the graph view of one stylesheet.
type SheetMeta struct {
	Path        string
	Span        source.Span  // span всего файла
	Imports     []ImportMeta // в порядке объявления
	ContentHash Digest       // хеш содержимого (из FileSet)
	ModuleHash  Digest       // хеш с учётом зависимостей
}
