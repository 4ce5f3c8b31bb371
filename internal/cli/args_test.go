package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/gridshift/pkg/grid"
	"github.com/matzehuels/gridshift/pkg/page"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		in      string
		want    grid.Cell
		wantErr bool
	}{
		{"3,4", grid.Cell{X: 3, Y: 4}, false},
		{" 0 , 2 ", grid.Cell{X: 0, Y: 2}, false},
		{"-1,0", grid.Cell{X: -1, Y: 0}, false},
		{"3", grid.Cell{}, true},
		{"a,b", grid.Cell{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCell(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCell(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseCell(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    grid.Size
		wantErr bool
	}{
		{"2x1", grid.Size{W: 2, H: 1}, false},
		{"4X2", grid.Size{W: 4, H: 2}, false},
		{"2", grid.Size{}, true},
		{"wxh", grid.Size{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSize(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseSize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestProbeFlags(t *testing.T) {
	from := grid.Cell{X: 1, Y: 0}
	tests := []struct {
		name    string
		flags   probeFlags
		want    page.Probe
		wantErr bool
	}{
		{
			name:  "new item",
			flags: probeFlags{size: "2x2", at: "1,1"},
			want:  page.Probe{Width: 2, Height: 2, Target: grid.Cell{X: 1, Y: 1}},
		},
		{
			name:  "existing item ignores size",
			flags: probeFlags{item: "mail", size: "2x2", at: "0,0", from: "1,0"},
			want:  page.Probe{Item: "mail", Target: grid.Cell{}, LastDragged: &from},
		},
		{name: "missing target", flags: probeFlags{size: "1x1"}, wantErr: true},
		{name: "bad from", flags: probeFlags{size: "1x1", at: "0,0", from: "x"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.flags.probe()
			if (err != nil) != tt.wantErr {
				t.Fatalf("probe() err = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("probe() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsPageFile(t *testing.T) {
	tests := []struct {
		arg  string
		want bool
	}{
		{"home.toml", true},
		{"pages/home.JSON", true},
		{"home", false},
	}
	for _, tt := range tests {
		if got := isPageFile(tt.arg); got != tt.want {
			t.Errorf("isPageFile(%q) = %v, want %v", tt.arg, got, tt.want)
		}
	}
}
