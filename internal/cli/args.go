package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/grid"
	"github.com/matzehuels/gridshift/pkg/page"
)

// isPageFile reports whether arg names a page file rather than a stored
// page ID.
func isPageFile(arg string) bool {
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".toml", ".json":
		return true
	}
	_, err := os.Stat(arg)
	return err == nil && strings.ContainsRune(arg, os.PathSeparator)
}

// parseCell parses "x,y".
func parseCell(s string) (grid.Cell, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return grid.Cell{}, errors.New(errors.ErrCodeInvalidInput, "cell %q is not x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return grid.Cell{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "cell %q", s)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return grid.Cell{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "cell %q", s)
	}
	return grid.Cell{X: x, Y: y}, nil
}

// parseSize parses "WxH".
func parseSize(s string) (grid.Size, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return grid.Size{}, errors.New(errors.ErrCodeInvalidInput, "size %q is not WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return grid.Size{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "size %q", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return grid.Size{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "size %q", s)
	}
	return grid.Size{W: w, H: h}, nil
}

// probeFlags are the flags shared by commands that run one solve.
type probeFlags struct {
	item string
	size string
	at   string
	from string
}

func (f *probeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.item, "item", "", "ID of the page item being dragged")
	cmd.Flags().StringVar(&f.size, "size", "1x1", "size of a new item (WxH), used without --item")
	cmd.Flags().StringVar(&f.at, "at", "", "target cell x,y")
	cmd.Flags().StringVar(&f.from, "from", "", "previous drag cell x,y (sets the preferred push direction)")
}

func (f *probeFlags) probe() (page.Probe, error) {
	if f.at == "" {
		return page.Probe{}, fmt.Errorf("--at is required")
	}
	target, err := parseCell(f.at)
	if err != nil {
		return page.Probe{}, err
	}
	pr := page.Probe{Item: grid.ItemID(f.item), Target: target}
	if f.item == "" {
		size, err := parseSize(f.size)
		if err != nil {
			return page.Probe{}, err
		}
		pr.Width, pr.Height = size.W, size.H
	}
	if f.from != "" {
		from, err := parseCell(f.from)
		if err != nil {
			return page.Probe{}, err
		}
		pr.LastDragged = &from
	}
	return pr, nil
}
