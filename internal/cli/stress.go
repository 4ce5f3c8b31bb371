package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gridshift/pkg/drag"
	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/grid"
	"github.com/matzehuels/gridshift/pkg/occupancy"
	"github.com/matzehuels/gridshift/pkg/page"
	"github.com/matzehuels/gridshift/pkg/reflow"
	"github.com/matzehuels/gridshift/pkg/solver"
)

// stressOpts holds the flags for the stress command.
type stressOpts struct {
	trials   int
	workers  int
	seed     int64
	fill     int // items attempted per random layout
	gestures int // drag gestures per session trial
}

// stressStats aggregates trial results across workers.
type stressStats struct {
	trials   atomic.Int64
	cascades atomic.Int64
	swaps    atomic.Int64
	unsolved atomic.Int64
	drops    atomic.Int64
}

// stressCommand creates the stress command.
func (c *CLI) stressCommand() *cobra.Command {
	opts := stressOpts{trials: 500, workers: runtime.NumCPU(), fill: 12, gestures: 8}

	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run randomized property checks against the solver and drag sessions",
		Long: `Run randomized property checks in parallel.

Each trial fills a grid of the configured size with random items and then
either solves one random drag, checking that the solution is deterministic,
stays in bounds, applies without overlap and frees the target; or plays a
series of random gestures through a drag session on simulated time, checking
that the occupancy index agrees with the page after every gesture.

Trial i uses seed+i, so a failure reported for a seed can be reproduced with
--seed and --trials 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStress(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.trials, "trials", "n", opts.trials, "number of trials")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", opts.workers, "parallel workers")
	cmd.Flags().Int64Var(&opts.seed, "seed", time.Now().UnixNano(), "base random seed")
	cmd.Flags().IntVar(&opts.fill, "fill", opts.fill, "items attempted per random layout")
	cmd.Flags().IntVar(&opts.gestures, "gestures", opts.gestures, "gestures per session trial")

	return cmd
}

func (c *CLI) runStress(ctx context.Context, opts stressOpts) error {
	g := c.cfg().Grid
	m, err := grid.NewMetrics(g.CellWidth, g.CellHeight, g.Columns, g.Rows)
	if err != nil {
		return err
	}

	c.Logger.Debug("stress", "trials", opts.trials, "workers", opts.workers, "seed", opts.seed, "grid", fmt.Sprintf("%dx%d", m.Columns, m.Rows))
	prog := newProgress(c.Logger)
	stats := &stressStats{}
	spin := newSpinner(ctx, "Running trials").withStatus(func() string {
		return fmt.Sprintf("%d/%d", stats.trials.Load(), opts.trials)
	})
	spin.Start()

	err = stress(ctx, m, c.cfg().Reflow, opts, stats)
	if err != nil {
		spin.StopWithError("Property violated")
		return err
	}
	spin.Stop()
	if spin.Cancelled() {
		return ctx.Err()
	}

	prog.done(fmt.Sprintf("Ran %d trials", stats.trials.Load()))
	printSuccess("All properties held")
	printStats(
		stat{int(stats.cascades.Load()), "cascades"},
		stat{int(stats.swaps.Load()), "swaps"},
		stat{int(stats.unsolved.Load()), "unsolvable"},
		stat{int(stats.drops.Load()), "drops"},
	)
	printDetail("seed %d", opts.seed)
	return nil
}

// stress runs the trials on an errgroup, counting into stats. The first
// failure cancels the rest.
func stress(ctx context.Context, m grid.Metrics, t reflow.Timings, opts stressOpts, stats *stressStats) error {
	logger := loggerFromContext(ctx)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, opts.workers))

	for i := 0; i < opts.trials; i++ {
		seed := opts.seed + int64(i)
		eg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			rng := rand.New(rand.NewSource(seed))
			var err error
			if i%2 == 0 {
				err = solveTrial(rng, m, opts.fill, stats)
			} else {
				err = sessionTrial(rng, m, t, opts, stats)
			}
			stats.trials.Add(1)
			if err != nil {
				logger.Debug("trial failed", "trial", i, "seed", seed, "err", err)
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// randomItems returns up to n non-overlapping random items of size 1x1 to
// 2x2 (clamped to the grid).
func randomItems(rng *rand.Rand, m grid.Metrics, n int) []grid.Item {
	idx := occupancy.New(m)
	for i := 0; i < n; i++ {
		w, h := min(1+rng.Intn(2), m.Columns), min(1+rng.Intn(2), m.Rows)
		it := grid.Item{
			ID:     grid.ItemID(fmt.Sprintf("i%02d", i)),
			X:      rng.Intn(m.Columns - w + 1),
			Y:      rng.Intn(m.Rows - h + 1),
			Width:  w,
			Height: h,
		}
		_ = idx.Add(it)
	}
	return idx.Items()
}

func randomCell(rng *rand.Rand, m grid.Metrics) grid.Cell {
	return grid.Cell{X: rng.Intn(m.Columns), Y: rng.Intn(m.Rows)}
}

func solveTrial(rng *rand.Rand, m grid.Metrics, fill int, stats *stressStats) error {
	idx, err := occupancy.NewFromItems(m, randomItems(rng, m, fill))
	if err != nil {
		return err
	}
	dragged := grid.Item{ID: "drag", Width: min(1+rng.Intn(2), m.Columns), Height: min(1+rng.Intn(2), m.Rows)}
	target := m.ClampCell(randomCell(rng, m), dragged.Width, dragged.Height)
	last := randomCell(rng, m)
	var origin *grid.Cell
	if c, ok := idx.FindFree(dragged.Width, dragged.Height); ok && rng.Intn(2) == 0 {
		origin = &c
	}

	quiet := solver.WithLogger(log.New(io.Discard))
	first, err1 := solver.New(idx, quiet).Solve(target, origin, &last, dragged)
	second, err2 := solver.New(idx, quiet).Solve(target, origin, &last, dragged)
	if diff := cmp.Diff(first, second); diff != "" || errors.GetCode(err1) != errors.GetCode(err2) {
		return fmt.Errorf("solve is not deterministic (-first +second):\n%s", diff)
	}
	if err1 != nil {
		if !errors.Is(err1, errors.ErrCodeNoCascadeSolution) {
			return err1
		}
		stats.unsolved.Add(1)
		return nil
	}
	if first.Strategy == solver.StrategySwap {
		stats.swaps.Add(1)
	} else {
		stats.cascades.Add(1)
	}
	return solver.Verify(idx, first)
}

func sessionTrial(rng *rand.Rand, m grid.Metrics, t reflow.Timings, opts stressOpts, stats *stressStats) error {
	p := &page.Page{ID: "stress", Columns: m.Columns, Rows: m.Rows, CellWidth: m.CellWidth, CellHeight: m.CellHeight}
	p.Items = randomItems(rng, m, opts.fill)
	pr := page.NewProvider(p, page.WithLogger(log.New(io.Discard)))

	clock := reflow.NewManualClock(time.Unix(0, 0))
	sched := &reflow.ManualScheduler{}
	quiet := log.New(io.Discard)
	sess, err := drag.New(pr, m, sched,
		drag.WithLogger(quiet),
		drag.WithReflow(reflow.WithTimings(t), reflow.WithClock(clock), reflow.WithLogger(quiet)),
	)
	if err != nil {
		return err
	}
	t = t.WithDefaults()
	step := func(d time.Duration) { sched.Run(clock, t.TickInterval, d, sess.Tick) }

	for g := 0; g < opts.gestures; g++ {
		items := pr.Items()
		var it grid.Item
		if len(items) > 0 && rng.Intn(3) > 0 {
			it = items[rng.Intn(len(items))]
		} else {
			it = grid.Item{Width: 1, Height: 1}
		}
		if err := sess.Start(it); err != nil {
			return fmt.Errorf("gesture %d: start: %w", g, err)
		}
		for n := 1 + rng.Intn(4); n > 0; n-- {
			px, py := m.CellOrigin(randomCell(rng, m))
			if err := sess.Move(float64(px), float64(py)); err != nil {
				return fmt.Errorf("gesture %d: move: %w", g, err)
			}
			step(time.Duration(rng.Intn(1000)) * time.Millisecond)
		}

		var out drag.Outcome
		switch rng.Intn(3) {
		case 0:
			out, err = sess.End()
		case 1:
			out, err = sess.Cancel()
		default:
			px, py := m.CellOrigin(randomCell(rng, m))
			out, err = sess.Drop(float64(px), float64(py))
		}
		if err != nil && !out.State.Done() {
			return fmt.Errorf("gesture %d: finish: %w", g, err)
		}
		stats.drops.Add(1)
		step(t.Hint + t.Pause + t.Commit + t.Revert)

		if found := sess.Validate(); len(found) > 0 {
			return fmt.Errorf("gesture %d: index disagrees with page: %v", g, found[0])
		}
	}
	return nil
}
