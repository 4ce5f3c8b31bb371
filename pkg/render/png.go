package render

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale  float64
	labels bool
}

// WithScale sets the PNG scale factor (default 1.0).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithoutPNGLabels hides item labels.
func WithoutPNGLabels() PNGOption { return func(r *pngRenderer) { r.labels = false } }

// RenderPNG draws the snapshot as a PNG image.
func RenderPNG(s Snapshot, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := s.Metrics.PixelSize()
	dc := gg.NewContext(int(float64(w)*r.scale), int(float64(h)*r.scale))
	dc.Scale(r.scale, r.scale)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetHexColor(gridStroke)
	dc.SetLineWidth(1)
	for c := 1; c < s.Metrics.Columns; c++ {
		x := float64(s.Metrics.WidthOfColumns(c))
		dc.DrawLine(x, 0, x, float64(h))
	}
	for row := 1; row < s.Metrics.Rows; row++ {
		y := float64(s.Metrics.HeightOfRows(row))
		dc.DrawLine(0, y, float64(w), y)
	}
	dc.Stroke()

	for _, t := range s.Tiles {
		x, y, tw, th := s.Pixels(t)
		dc.DrawRoundedRectangle(x+tileInset, y+tileInset, tw-2*tileInset, th-2*tileInset, 8)
		dc.SetHexColor(fillFor(t))
		dc.FillPreserve()
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.SetLineWidth(1.5)
		dc.Stroke()

		if r.labels {
			label := t.Label
			if label == "" {
				label = string(t.ID)
			}
			dc.SetRGB(0, 0, 0)
			dc.DrawStringAnchored(label, x+tw/2, y+th/2, 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
