package symbols

import (
	"stcss/internal/source"
)

// RootClass is the implicit class every stylesheet declares; default imports resolve to it.
const RootClass = "root"

// Kind classifies a symbol variant.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindClass
	KindElement
	KindImport
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindElement:
		return "element"
	case KindImport:
		return "import"
	default:
		return "invalid"
	}
}

// Symbol is a named declaration tracked by a stylesheet's Table.
// Identity is pointer identity: the table hands back the same value it stored.
type Symbol interface {
	SymbolName() string
	Kind() Kind
}

// ElementSymbol is a component-root type selector such as `Button`.
type ElementSymbol struct {
	Name string
	// Alias points at the import that brought the name in, if any.
	Alias *ImportSymbol
	Span  source.Span
}

func (s *ElementSymbol) SymbolName() string { return s.Name }
func (s *ElementSymbol) Kind() Kind         { return KindElement }

// ClassSymbol is a class selector declared (or aliased) in the stylesheet.
type ClassSymbol struct {
	Name  string
	Alias *ImportSymbol
	// Global is the verbatim output name set by -st-global; empty for scoped classes.
	Global string
	Span   source.Span
}

func (s *ClassSymbol) SymbolName() string { return s.Name }
func (s *ClassSymbol) Kind() Kind         { return KindClass }

// ImportSymbol is a lazy reference to a name exported by another stylesheet.
type ImportSymbol struct {
	Name     string // локальное имя
	Request  string // как написано в @st-import
	From     string // нормализованный путь целевого файла
	Imported string // имя в целевом файле; "root" для default-импорта
	Default  bool
	Span     source.Span
}

func (s *ImportSymbol) SymbolName() string { return s.Name }
func (s *ImportSymbol) Kind() Kind         { return KindImport }

// AliasOf returns the import a symbol refers to: the symbol itself for imports,
// the alias for classes and elements, nil otherwise.
func AliasOf(sym Symbol) *ImportSymbol {
	switch s := sym.(type) {
	case *ImportSymbol:
		return s
	case *ElementSymbol:
		return s.Alias
	case *ClassSymbol:
		return s.Alias
	}
	return nil
}
