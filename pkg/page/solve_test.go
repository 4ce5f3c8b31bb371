package page

import (
	"testing"

	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/grid"
	"github.com/matzehuels/gridshift/pkg/solver"
)

func TestSolve(t *testing.T) {
	p, err := Unmarshal([]byte(homeTOML), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		probe    Probe
		wantCode errors.Code
		moved    grid.ItemID
	}{
		{
			name:  "new item pushes the clock down",
			probe: Probe{Width: 1, Height: 1, Target: grid.Cell{X: 0, Y: 0}},
			moved: "clock",
		},
		{
			name:  "existing item onto the clock",
			probe: Probe{Item: "mail", Target: grid.Cell{X: 1, Y: 1}, LastDragged: &grid.Cell{X: 2, Y: 1}},
			moved: "clock",
		},
		{
			name:     "unknown item",
			probe:    Probe{Item: "nope"},
			wantCode: errors.ErrCodeNotFound,
		},
		{
			name:     "missing size",
			probe:    Probe{Target: grid.Cell{}},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "off the grid",
			probe:    Probe{Width: 2, Height: 1, Target: grid.Cell{X: 4, Y: 0}},
			wantCode: errors.ErrCodeOutOfBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol, err := p.Solve(tt.probe)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("Solve() error = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Solve() error = %v", err)
			}
			if sol.Strategy != solver.StrategyCascade || !sol.Contains(tt.moved) {
				t.Errorf("Solve() = %v, want a cascade moving %s", sol, tt.moved)
			}
		})
	}

	if len(p.Items) != 2 || p.Items[1].X != 4 {
		t.Errorf("Solve mutated the page: %+v", p.Items)
	}
}
