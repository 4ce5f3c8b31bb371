package grid

import (
	"testing"

	"github.com/matzehuels/gridshift/pkg/errors"
)

func TestNewMetrics(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		c, r    int
		wantErr bool
	}{
		{"valid", 100, 100, 5, 6, false},
		{"zero cell", 0, 100, 5, 6, true},
		{"negative rows", 100, 100, 5, -1, true},
		{"zero columns", 100, 100, 0, 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMetrics(tt.w, tt.h, tt.c, tt.r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewMetrics() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("NewMetrics() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestSpans(t *testing.T) {
	m := Metrics{CellWidth: 100, CellHeight: 150, Columns: 5, Rows: 6}

	if got := m.WidthOfColumns(3); got != 300 {
		t.Errorf("WidthOfColumns(3) = %d, want 300", got)
	}
	if got := m.HeightOfRows(2); got != 300 {
		t.Errorf("HeightOfRows(2) = %d, want 300", got)
	}
	if w, h := m.PixelSize(); w != 500 || h != 900 {
		t.Errorf("PixelSize() = %dx%d, want 500x900", w, h)
	}
}

func TestMinColumnsFor(t *testing.T) {
	m := Metrics{CellWidth: 100, CellHeight: 100, Columns: 5, Rows: 6}

	tests := []struct {
		px   int
		want int
	}{
		{0, 1},
		{50, 1},
		{100, 1},
		{101, 2},
		{250, 3},
		{900, 5},
	}

	for _, tt := range tests {
		if got := m.MinColumnsFor(tt.px); got != tt.want {
			t.Errorf("MinColumnsFor(%d) = %d, want %d", tt.px, got, tt.want)
		}
	}
}

func TestMinRowsForIsNotClamped(t *testing.T) {
	m := Metrics{CellWidth: 100, CellHeight: 100, Columns: 5, Rows: 6}

	if got := m.MinRowsFor(10); got != 1 {
		t.Errorf("MinRowsFor(10) = %d, want 1", got)
	}
	if got := m.MinRowsFor(901); got != 10 {
		t.Errorf("MinRowsFor(901) = %d, want 10", got)
	}
}

func TestFitMetrics(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want Metrics
	}{
		{
			name: "portrait",
			w:    1000, h: 2000,
			want: Metrics{CellWidth: 200, CellHeight: 300, Columns: 5, Rows: 6},
		},
		{
			name: "landscape",
			w:    150, h: 100,
			want: Metrics{CellWidth: 30, CellHeight: 34, Columns: 5, Rows: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitMetrics(tt.w, tt.h, DefaultColumns, DefaultMaxRows); got != tt.want {
				t.Errorf("FitMetrics() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResizeKeepsCounts(t *testing.T) {
	m := Metrics{CellWidth: 200, CellHeight: 300, Columns: 5, Rows: 6}

	wide := m.Resize(1000, 2000)
	if wide != m {
		t.Errorf("Resize(same) = %+v, want %+v", wide, m)
	}

	// 6 rows of 300px no longer fit in 1500px: height constrained.
	short := m.Resize(1000, 1500)
	if short.Columns != 5 || short.Rows != 6 {
		t.Fatalf("Resize() changed counts: %+v", short)
	}
	if short.CellWidth != 166 || short.CellHeight != 249 {
		t.Errorf("Resize() cell = %dx%d, want 166x249", short.CellWidth, short.CellHeight)
	}
	if _, h := short.PixelSize(); h > 1500 {
		t.Errorf("Resize() height %d overflows container", h)
	}
}

func TestSnapAndClamp(t *testing.T) {
	m := Metrics{CellWidth: 100, CellHeight: 100, Columns: 5, Rows: 6}

	tests := []struct {
		name   string
		px, py float64
		w, h   int
		want   Cell
	}{
		{"origin", 0, 0, 1, 1, Cell{0, 0}},
		{"just under half", 49, 149, 1, 1, Cell{0, 1}},
		{"half rounds up", 50, 150, 1, 1, Cell{1, 2}},
		{"negative clamps", -300, -10, 1, 1, Cell{0, 0}},
		{"right edge keeps footprint", 480, 0, 2, 1, Cell{3, 0}},
		{"bottom edge keeps footprint", 0, 590, 1, 3, Cell{0, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.ClampCell(m.SnapToCell(tt.px, tt.py), tt.w, tt.h)
			if got != tt.want {
				t.Errorf("ClampCell(SnapToCell(%v,%v)) = %v, want %v", tt.px, tt.py, got, tt.want)
			}
			if !m.Fits(RectAt(got, Size{W: tt.w, H: tt.h})) {
				t.Errorf("clamped footprint %v does not fit", got)
			}
		})
	}
}

func TestWidgetConstraints(t *testing.T) {
	m := Metrics{CellWidth: 100, CellHeight: 100, Columns: 5, Rows: 6}
	c := m.WidgetConstraints(Payload{Kind: KindWidget, MinWidth: 180, MinHeight: 40}, ResizeHorizontal)

	if c.MinSpan != (Size{W: 2, H: 1}) {
		t.Errorf("MinSpan = %v, want 2x1", c.MinSpan)
	}
	if !c.Mode.Allows(ResizeRight) || c.Mode.Allows(ResizeDown) {
		t.Errorf("Mode %v allows the wrong axes", c.Mode)
	}
}
