package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Структура таблицы стилей
	CssInfo            Code = 1000
	CssUnexpectedToken Code = 1001
	CssUnclosedBlock   Code = 1002
	CssMissingSelector Code = 1003
	CssMissingColon    Code = 1004

	// Селекторы
	SelInfo               Code = 2000
	SelUnexpectedToken    Code = 2001
	SelUnclosedParen      Code = 2002
	SelEmptySelector      Code = 2003
	SelDanglingCombinator Code = 2004
	SelInvalidFunctional  Code = 2005

	// Символы
	SymInfo          Code = 3000
	SymRedeclare     Code = 3001
	SymInvalidGlobal Code = 3002

	// Область видимости
	ScpInfo         Code = 4000
	ScpUnscopedType Code = 4001

	// Импорты
	ImpInfo          Code = 5000
	ImpInvalidFormat Code = 5001
	ImpNotTopLevel   Code = 5002
	ImpUnknownFile   Code = 5003
	ImpUnknownSymbol Code = 5004
	ImpSelfImport    Code = 5005
	ImpCycle         Code = 5006

	// Ввод-вывод
	IOInfo          Code = 6000
	IOLoadFileError Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		CssInfo:               "Stylesheet information",
		CssUnexpectedToken:    "Unexpected token",
		CssUnclosedBlock:      "Unclosed block",
		CssMissingSelector:    "Rule without selector",
		CssMissingColon:       "Declaration without colon",
		SelInfo:               "Selector information",
		SelUnexpectedToken:    "Unexpected token in selector",
		SelUnclosedParen:      "Unclosed parenthesis in selector",
		SelEmptySelector:      "Empty selector",
		SelDanglingCombinator: "Dangling combinator",
		SelInvalidFunctional:  "Invalid functional selector",
		SymInfo:               "Symbol information",
		SymRedeclare:          "Redeclared symbol",
		SymInvalidGlobal:      "Invalid -st-global",
		ScpInfo:               "Scoping information",
		ScpUnscopedType:       "Unscoped type selector",
		ImpInfo:               "Import information",
		ImpInvalidFormat:      "Invalid @st-import",
		ImpNotTopLevel:        "Nested @st-import",
		ImpUnknownFile:        "Unknown imported stylesheet",
		ImpUnknownSymbol:      "Unknown imported symbol",
		ImpSelfImport:         "Stylesheet imports itself",
		ImpCycle:              "Import cycle",
		IOInfo:                "I/O information",
		IOLoadFileError:       "Failed to load file",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CSS%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SEL%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SYM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("SCP%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IMP%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
