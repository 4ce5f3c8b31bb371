package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"overlap", Rect{0, 0, 2, 2}, Rect{1, 1, 2, 2}, true},
		{"touching edge", Rect{0, 0, 2, 2}, Rect{2, 0, 1, 1}, false},
		{"contained", Rect{0, 0, 5, 6}, Rect{2, 2, 1, 1}, true},
		{"disjoint rows", Rect{0, 0, 5, 1}, Rect{0, 1, 5, 1}, false},
		{"empty", Rect{0, 0, 0, 0}, Rect{0, 0, 1, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("Intersects() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectUnion(t *testing.T) {
	got := Rect{0, 0, 1, 1}.Union(Rect{2, 1, 1, 2})
	if want := (Rect{0, 0, 3, 3}); got != want {
		t.Errorf("Union() = %v, want %v", got, want)
	}
	if got := (Rect{}).Union(Rect{1, 1, 1, 1}); got != (Rect{1, 1, 1, 1}) {
		t.Errorf("Union() with empty = %v", got)
	}
}

func TestRectContainsRect(t *testing.T) {
	outer := Rect{1, 1, 2, 2}
	if !outer.ContainsRect(Rect{1, 1, 1, 2}) {
		t.Error("ContainsRect() = false for inner rect")
	}
	if outer.ContainsRect(Rect{0, 1, 2, 1}) {
		t.Error("ContainsRect() = true for rect sticking out left")
	}
}

func TestRectCells(t *testing.T) {
	got := Rect{1, 2, 2, 2}.Cells()
	want := []Cell{{1, 2}, {2, 2}, {1, 3}, {2, 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Cells() mismatch (-want +got):\n%s", diff)
	}
}

func TestDirection(t *testing.T) {
	for _, d := range Directions {
		if d.Opposite().Opposite() != d {
			t.Errorf("%v.Opposite().Opposite() != %v", d, d)
		}
		dx, dy := d.Delta()
		ox, oy := d.Opposite().Delta()
		if dx+ox != 0 || dy+oy != 0 {
			t.Errorf("%v delta does not cancel its opposite", d)
		}
		if p, ok := ParseDirection(d.String()); !ok || p != d {
			t.Errorf("ParseDirection(%q) = %v, %v", d.String(), p, ok)
		}
	}
}

func TestResizeDirectionApply(t *testing.T) {
	r := Rect{1, 1, 2, 2}
	tests := []struct {
		d    ResizeDirection
		want Rect
	}{
		{ResizeUp, Rect{1, 0, 2, 3}},
		{ResizeDown, Rect{1, 1, 2, 3}},
		{ResizeLeft, Rect{0, 1, 3, 2}},
		{ResizeRight, Rect{1, 1, 3, 2}},
		{ResizeUpIn, Rect{1, 2, 2, 1}},
		{ResizeDownIn, Rect{1, 1, 2, 1}},
		{ResizeLeftIn, Rect{2, 1, 1, 2}},
		{ResizeRightIn, Rect{1, 1, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			if got := tt.d.Apply(r); got != tt.want {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}
