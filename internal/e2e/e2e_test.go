package e2e

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	cli "github.com/mark3labs/apimeta/internal/cli"
)

const taskDefinition = "" +
	"name: task\n" +
	"comment: |\n" +
	"  A task represents one unit of work.\n" +
	"properties:\n" +
	"  - name: gid\n" +
	"    type: Id\n" +
	"  - name: completed\n" +
	"    type: Boolean\n" +
	"actions:\n" +
	"  include actions/task.yaml\n"

const taskActions = "" +
	"---\n" +
	"- name: findById\n" +
	"  method: GET\n" +
	"  path: \"/tasks/%s\"\n" +
	"  params:\n" +
	"    - name: task\n" +
	"      type: Id\n" +
	"      required: true\n" +
	"- name: addFollowers\n" +
	"  method: POST\n" +
	"  path: \"/tasks/%s/addFollowers\"\n" +
	"  params:\n" +
	"    - name: task\n" +
	"      type: Id\n" +
	"      required: true\n" +
	"    - name: followers\n" +
	"      type: Array\n" +
	"      required: true\n" +
	"      explicit: true\n"

const storyDefinition = "" +
	"name: story\n" +
	"actions:\n" +
	"  - name: findByTask\n" +
	"    method: GET\n" +
	"    path: \"/tasks/%s/stories\"\n" +
	"    collection: true\n" +
	"    params:\n" +
	"      - name: task\n" +
	"        type: Id\n" +
	"        required: true\n"

const exampleFile = "" +
	"task:\n" +
	"  - method: get\n" +
	"    endpoint: /tasks/124816\n" +
	"    response:\n" +
	"      status: 200 OK\n" +
	"      data:\n" +
	"        gid: \"124816\"\n" +
	"  - method: post\n" +
	"    endpoint: /tasks/124816/addFollowers\n" +
	"    request_data:\n" +
	"      followers: [1, 2]\n" +
	"    response:\n" +
	"      status: 200 OK\n"

const introPartial = "Tasks are the basic unit of work in {{ .resource.Name }} land.\n"

// writeProject lays out definitions, examples and partials under a fresh
// temp dir and returns the flags pointing at them.
func writeProject(t *testing.T) []string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"resources/task.yaml":                   taskDefinition,
		"resources/actions/task.yaml":           taskActions,
		"resources/story.yaml":                  storyDefinition,
		"examples.yaml":                         exampleFile,
		"partials/resources/task/intro.md.tmpl": introPartial,
	}
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return []string{
		"--definitions", filepath.Join(root, "resources"),
		"--examples", filepath.Join(root, "examples.yaml"),
		"--partials", filepath.Join(root, "partials"),
	}
}

func runCLI(t *testing.T, args ...string) {
	t.Helper()
	root := cli.NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("cli execute %v: %v", args, err)
	}
}

func digestDir(t *testing.T, dir string) (files []string, sum string) {
	t.Helper()
	var list []string
	h := sha256.New()
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, rerr := filepath.Rel(dir, path)
		if rerr != nil {
			return rerr
		}
		rel = filepath.ToSlash(rel)
		list = append(list, rel)
		// hash path + contents to be robust
		_, _ = h.Write([]byte(rel))
		b, rerr := os.ReadFile(path)
		if rerr != nil {
			return rerr
		}
		_, _ = h.Write(b)
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
	sort.Strings(list)
	return list, hex.EncodeToString(h.Sum(nil))
}

func TestE2E_Generate_Deterministic(t *testing.T) {
	t.Parallel()
	project := writeProject(t)
	dir1 := t.TempDir()
	dir2 := t.TempDir()

	runCLI(t, append([]string{"generate", "--out", dir1, "--concurrency", "1"}, project...)...)
	runCLI(t, append([]string{"generate", "--out", dir2, "--concurrency", "8"}, project...)...)

	files1, sum1 := digestDir(t, dir1)
	files2, sum2 := digestDir(t, dir2)
	if !slicesEqual(files1, files2) || sum1 != sum2 {
		t.Fatalf("generated outputs differ between runs\nfiles1=%v\nfiles2=%v\nsum1=%s\nsum2=%s", files1, files2, sum1, sum2)
	}
	if len(files1) != 12 {
		t.Fatalf("expected 2 resources x 6 languages, got %v", files1)
	}

	// A second run over the same directory rewrites identical bytes.
	runCLI(t, append([]string{"generate", "--out", dir1}, project...)...)
	if _, again := digestDir(t, dir1); again != sum1 {
		t.Fatalf("regeneration changed output")
	}
}

func TestE2E_Generate_ResolvesIncludesExamplesAndPartials(t *testing.T) {
	t.Parallel()
	project := writeProject(t)
	out := t.TempDir()

	runCLI(t, append([]string{"generate", "--out", out, "-l", "docs,go", "--base-url", "https://api.test/1.0"}, project...)...)

	doc := mustRead(t, filepath.Join(out, "docs", "task.md"))
	for _, want := range []string{
		"Tasks are the basic unit of work in task land.",
		"https://api.test/1.0/tasks/124816",
		"## Add Followers",
		"--data-urlencode",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("docs missing %q:\n%s", want, doc)
		}
	}

	src := mustRead(t, filepath.Join(out, "go", "task_gen.go"))
	if !strings.Contains(src, "func (r *TasksBase) AddFollowers(ctx context.Context, task string, followers []any, opts map[string]any) (*Response, error) {") {
		t.Errorf("go service missing included action:\n%s", src)
	}
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
