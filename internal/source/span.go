package source

import (
	"fmt"

	"fortio.org/safecast"
)

type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// NewSpan builds a span from int offsets, panicking when they do not fit into uint32.
func NewSpan(file FileID, start, end int) Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("span start overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("span end overflow: %w", err))
	}
	return Span{File: file, Start: s, End: e}
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Sub returns the span of bytes [from, to) relative to s.Start.
func (s Span) Sub(from, to int) Span {
	inner := NewSpan(s.File, from, to)
	return Span{File: s.File, Start: s.Start + inner.Start, End: s.Start + inner.End}
}

// ShiftLeft сдвигает спан влево; если сдвиг больше Start, спан не меняется.
func (s Span) ShiftLeft(n uint32) Span {
	if n > s.Start {
		return s
	}
	return Span{
		File:  s.File,
		Start: s.Start - n,
		End:   s.End - n,
	}
}

func (s Span) ShiftRight(n uint32) Span {
	return Span{
		File:  s.File,
		Start: s.Start + n,
		End:   s.End + n,
	}
}
