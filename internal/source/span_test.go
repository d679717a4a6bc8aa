package source

import (
	"testing"
)

func TestSpan_ShiftLeft(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		shift    uint32
		expected Span
	}{
		{
			name:     "shift normal span left by 5",
			span:     Span{File: 1, Start: 10, End: 20},
			shift:    5,
			expected: Span{File: 1, Start: 5, End: 15},
		},
		{
			name:     "shift equals start - boundary case",
			span:     Span{File: 1, Start: 10, End: 20},
			shift:    10,
			expected: Span{File: 1, Start: 0, End: 10},
		},
		{
			name:     "shift larger than start - returns original",
			span:     Span{File: 1, Start: 10, End: 20},
			shift:    15,
			expected: Span{File: 1, Start: 10, End: 20},
		},
		{
			name:     "shift zero-length span",
			span:     Span{File: 1, Start: 10, End: 10},
			shift:    3,
			expected: Span{File: 1, Start: 7, End: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.ShiftLeft(tt.shift); got != tt.expected {
				t.Errorf("ShiftLeft(%d) = %v, want %v", tt.shift, got, tt.expected)
			}
		})
	}
}

func TestSpan_Sub(t *testing.T) {
	base := Span{File: 3, Start: 100, End: 140}
	tests := []struct {
		name     string
		from, to int
		expected Span
	}{
		{"prefix", 0, 4, Span{File: 3, Start: 100, End: 104}},
		{"middle", 10, 12, Span{File: 3, Start: 110, End: 112}},
		{"empty", 7, 7, Span{File: 3, Start: 107, End: 107}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.Sub(tt.from, tt.to)
			if got != tt.expected {
				t.Fatalf("Sub(%d, %d) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
			if !base.Contains(got) {
				t.Fatalf("expected %v to be inside %v", got, base)
			}
		})
	}
}

func TestSpan_CoverAndContains(t *testing.T) {
	a := Span{File: 1, Start: 5, End: 10}
	b := Span{File: 1, Start: 8, End: 20}
	c := a.Cover(b)
	if c.Start != 5 || c.End != 20 {
		t.Fatalf("Cover = %v, want 5-20", c)
	}
	if !c.Contains(a) || !c.Contains(b) {
		t.Fatalf("cover %v must contain both operands", c)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("cover across files must keep the receiver, got %v", got)
	}
	if a.Contains(other) {
		t.Fatalf("spans from different files must not contain each other")
	}
}

func TestNewSpanPanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for negative offset")
		}
	}()
	_ = NewSpan(0, -1, 3)
}
