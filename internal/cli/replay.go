package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridshift/pkg/drag"
	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/loop"
	"github.com/matzehuels/gridshift/pkg/page"
	"github.com/matzehuels/gridshift/pkg/reflow"
	"github.com/matzehuels/gridshift/pkg/render"
)

// replayOpts holds the flags for the replay command.
type replayOpts struct {
	page     string // page override; defaults to the script's page
	frames   bool   // print the grid after every step
	realtime bool   // wait in wall time on a timer-driven loop
	save     bool   // store the final page
	asJSON   bool   // print the replay result as JSON
}

// replayCommand creates the replay command.
func (c *CLI) replayCommand() *cobra.Command {
	var opts replayOpts

	cmd := &cobra.Command{
		Use:   "replay [script.toml]",
		Short: "Replay a recorded drag gesture against a page",
		Long: `Replay a TOML drag script against a page.

By default time is simulated: each step's wait_ms advances a manual clock, so
the result is deterministic and instant. With --realtime the gesture runs on
a single-goroutine event loop with real timers, as an interactive drag would.

The script's page path is resolved relative to the script.`,
		Example: `  gridshift replay push-mail.toml --frames
  gridshift replay push-mail.toml --page home --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReplay(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.page, "page", "p", "", "page file or stored page ID (default: the script's page)")
	cmd.Flags().BoolVar(&opts.frames, "frames", false, "print the grid after every step")
	cmd.Flags().BoolVar(&opts.realtime, "realtime", false, "run on wall-clock timers instead of simulated time")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the resulting page to the store")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the replay result as JSON")

	return cmd
}

func (c *CLI) runReplay(ctx context.Context, scriptPath string, opts replayOpts) error {
	script, err := page.ReadScriptFile(scriptPath)
	if err != nil {
		return err
	}

	target := opts.page
	if target == "" {
		if script.Page == "" {
			return fmt.Errorf("script %s names no page; pass --page", scriptPath)
		}
		target = script.Page
		if isPageFile(target) && !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(scriptPath), target)
		}
	}
	p, err := c.loadPage(ctx, target)
	if err != nil {
		return fmt.Errorf("load page %s: %w", target, err)
	}

	var result *page.Replay
	if opts.realtime {
		result, err = c.replayRealtime(ctx, script, p, opts.frames)
	} else {
		result, err = script.Run(p,
			page.WithReplayTimings(c.cfg().Reflow),
			page.WithReplayLogger(c.Logger),
			page.OnStep(func(res page.StepResult, sess *drag.Session) {
				if opts.frames && !opts.asJSON {
					printFrame(res, sess)
				}
			}),
		)
	}
	if err != nil {
		return err
	}

	if opts.save {
		st, err := c.openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := page.Save(ctx, st, result.Page); err != nil {
			return fmt.Errorf("save page: %w", err)
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printReplaySummary(script, result, opts.save)
	return nil
}

func printFrame(res page.StepResult, sess *drag.Session) {
	fmt.Fprintln(stdout, StyleTitle.Render(fmt.Sprintf("step %d: %s", res.Step, res.Kind)))
	if res.Error != "" {
		printWarning("%s", res.Error)
	}
	fmt.Fprint(stdout, styleGrid(render.Text(render.FromSession(sess))))
	printNewline()
}

func printReplaySummary(script *page.Script, r *page.Replay, saved bool) {
	name := script.Name
	if name == "" {
		name = "script"
	}
	for _, st := range r.Steps {
		if st.Outcome == nil {
			continue
		}
		o := st.Outcome
		switch {
		case o.State == drag.Committed || o.State == drag.Cancelled:
			printSuccess("%s %s at %s", o.Item.ID, o.State, o.Cell)
		case o.Restored:
			printWarning("%s rejected, restored at %s", o.Item.ID, o.Cell)
		default:
			printError("%s rejected and discarded", o.Item.ID)
		}
	}
	printInfo("Replayed %s in %s", name, r.Elapsed)
	printStats(stat{len(r.Steps), "steps"}, stat{len(r.Page.Items), "items"})
	if saved {
		printDetail("Saved page %s", r.Page.ID)
	}
}

// replayRealtime drives the gesture through a loop.Loop with wall-clock
// timers. Every session call happens on the loop goroutine.
func (c *CLI) replayRealtime(ctx context.Context, script *page.Script, p *page.Page, frames bool) (*page.Replay, error) {
	m, err := p.Metrics()
	if err != nil {
		return nil, err
	}
	l := loop.New(ctx)
	defer l.Close()

	sched := loop.NewTimerScheduler(l, nil)
	pr := page.NewProvider(p, page.WithLogger(c.Logger))
	var sess *drag.Session
	if err := l.Do(ctx, func() {
		sess, err = drag.New(pr, m, sched,
			drag.WithLogger(c.Logger),
			drag.WithReflow(reflow.WithTimings(c.cfg().Reflow), reflow.WithLogger(c.Logger)),
		)
	}); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	sched.Bind(sess.Tick)

	start := time.Now()
	out := &page.Replay{Session: sess}
	for i, st := range script.Steps {
		res := page.StepResult{Step: i + 1, Kind: st.Kind}
		if err := l.Do(ctx, func() {
			o, herr := sess.Handle(st.Event())
			res.Outcome = o
			if herr != nil {
				res.Error, res.Code = errors.UserMessage(herr), errors.GetCode(herr)
			}
		}); err != nil {
			return nil, err
		}
		if err := sleep(ctx, st.Wait()); err != nil {
			return nil, err
		}
		if frames {
			if err := l.Do(ctx, func() { printFrame(res, sess) }); err != nil {
				return nil, err
			}
		}
		out.Steps = append(out.Steps, res)
	}

	t := c.cfg().Reflow
	if err := sleep(ctx, t.Hint+t.Pause+t.Commit); err != nil {
		return nil, err
	}
	if err := l.Do(ctx, func() { sess.Halt() }); err != nil {
		return nil, err
	}
	out.Page = pr.Page()
	out.Elapsed = time.Since(start).Round(time.Millisecond).String()
	c.Logger.Debug("replay finished", "steps", len(out.Steps), "elapsed", out.Elapsed)
	return out, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
