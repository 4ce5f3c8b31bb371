package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/grid"
	"github.com/matzehuels/gridshift/pkg/page"
)

const homeTOML = `
id = "home"
name = "Home"
columns = 5
rows = 6

[[items]]
id = "clock"
x = 0
y = 0
width = 4
height = 2

[[items]]
id = "mail"
x = 4
y = 0
width = 1
height = 1
`

// brokenTOML decodes but overlaps: b sits inside a.
const brokenTOML = `
id = "broken"
columns = 4
rows = 4

[[items]]
id = "a"
x = 0
y = 0
width = 2
height = 2

[[items]]
id = "b"
x = 1
y = 1
width = 1
height = 1
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// newTestCLI returns a CLI whose store is a fresh disk store.
func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("GRIDSHIFT_STORE_BACKEND", "disk")
	t.Setenv("GRIDSHIFT_STORE_PATH", t.TempDir())
	return New(io.Discard, LogInfo)
}

func execute(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"solve", "explain", "dump", "validate", "render", "replay", "play", "stress", "serve", "page", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestPageCommands(t *testing.T) {
	c := newTestCLI(t)
	file := writeFile(t, "home.toml", homeTOML)

	if err := execute(t, c, "page", "import", file); err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := execute(t, c, "page", "list"); err != nil {
		t.Fatalf("list: %v", err)
	}

	out := filepath.Join(t.TempDir(), "home.json")
	if err := execute(t, c, "page", "export", "home", "-o", out); err != nil {
		t.Fatalf("export: %v", err)
	}
	want, err := page.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	got, err := page.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("exported page differs (-want +got):\n%s", diff)
	}

	if err := execute(t, c, "page", "delete", "home"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = execute(t, c, "page", "export", "home")
	if !errors.Is(err, errors.ErrCodePageNotFound) {
		t.Errorf("export after delete = %v, want %s", err, errors.ErrCodePageNotFound)
	}
}

func TestPageNew(t *testing.T) {
	c := newTestCLI(t)
	if err := execute(t, c, "page", "new", "Scratch", "--id", "scratch", "--columns", "3", "--rows", "2"); err != nil {
		t.Fatalf("new: %v", err)
	}
	p, err := c.loadPage(context.Background(), "scratch")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Scratch" || p.Columns != 3 || p.Rows != 2 || len(p.Items) != 0 {
		t.Errorf("page = %+v", p)
	}
}

func TestSolveFromFile(t *testing.T) {
	c := New(io.Discard, LogInfo)
	file := writeFile(t, "home.toml", homeTOML)

	sol, err := c.solve(context.Background(), file, probeFlags{size: "1x1", at: "4,0"})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !sol.Contains("mail") {
		t.Errorf("solution %s does not move mail", sol)
	}
	if sol.Target != (grid.Cell{X: 4, Y: 0}) {
		t.Errorf("target = %v", sol.Target)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    errors.Code
	}{
		{"consistent", homeTOML, ""},
		{"overlapping items", brokenTOML, errors.ErrCodeInconsistentState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(io.Discard, LogInfo)
			file := writeFile(t, "page.toml", tt.content)
			err := c.runValidate(context.Background(), file)
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("runValidate() code = %q, want %q (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestDumpBrokenPage(t *testing.T) {
	c := New(io.Discard, LogInfo)
	file := writeFile(t, "broken.toml", brokenTOML)
	if err := execute(t, c, "dump", file); err != nil {
		t.Errorf("dump of a broken page: %v", err)
	}
}

func TestCompletePages(t *testing.T) {
	c := newTestCLI(t)
	for _, f := range []string{"home.toml", "hall.toml"} {
		content := strings.Replace(homeTOML, `id = "home"`, `id = "`+strings.TrimSuffix(f, ".toml")+`"`, 1)
		if err := execute(t, c, "page", "import", writeFile(t, f, content)); err != nil {
			t.Fatal(err)
		}
	}

	cmd := c.RootCommand()
	cmd.SetContext(context.Background())
	got, _ := c.completePages(cmd, nil, "h")
	if diff := cmp.Diff([]string{"hall", "home"}, got); diff != "" {
		t.Errorf("completePages() mismatch (-want +got):\n%s", diff)
	}
	if got, _ := c.completePages(cmd, []string{"home"}, ""); got != nil {
		t.Errorf("second argument completed to %v", got)
	}
}
