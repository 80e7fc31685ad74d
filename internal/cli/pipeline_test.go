package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const taskDefinition = "" +
	"name: task\n" +
	"comment: A task is a unit of work.\n" +
	"properties:\n" +
	"  - name: gid\n" +
	"    type: Id\n" +
	"actions:\n" +
	"  - name: findById\n" +
	"    method: GET\n" +
	"    path: \"/tasks/%s\"\n" +
	"    params:\n" +
	"      - name: task\n" +
	"        type: Id\n" +
	"        required: true\n" +
	"  - name: findAll\n" +
	"    method: GET\n" +
	"    path: \"/tasks\"\n" +
	"    collection: true\n"

func captureStdout(fn func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	defer func() { os.Stdout = old }()
	fn()
	_ = w.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func writeDefinitions(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "resources")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	var err error
	out := captureStdout(func() { err = root.Execute() })
	return out, err
}

func TestGeneratePipeline_DryRun(t *testing.T) {
	defs := writeDefinitions(t, map[string]string{"task.yaml": taskDefinition})
	outDir := filepath.Join(t.TempDir(), "out")

	out, err := execute(t, "generate", "--definitions", defs, "-l", "go,python", "--out", outDir, "--dry-run")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Planned writes to") || !strings.Contains(out, "(2 files)") {
		t.Fatalf("expected dry-run plan output, got: %s", out)
	}
	if !strings.Contains(out, "- go/task_gen.go (") || !strings.Contains(out, "- python/tasks_base.py (") {
		t.Fatalf("plan is missing files: %s", out)
	}
	if _, err := os.Stat(outDir); err == nil {
		t.Fatalf("expected no writes on dry-run")
	}
}

func TestGeneratePipeline_WritesEveryLanguage(t *testing.T) {
	defs := writeDefinitions(t, map[string]string{"task.yaml": taskDefinition})
	outDir := t.TempDir()

	if _, err := execute(t, "generate", "--definitions", defs, "--out", outDir); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, rel := range []string{
		"docs/task.md",
		"go/task_gen.go",
		"java/TasksBase.java",
		"js/TasksBase.js",
		"php/TasksBase.php",
		"python/tasks_base.py",
	} {
		if _, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
}

func TestGeneratePipeline_PartialFailure(t *testing.T) {
	defs := writeDefinitions(t, map[string]string{
		"task.yaml":   taskDefinition,
		"broken.yaml": "actions: [\n",
	})
	outDir := t.TempDir()

	_, err := execute(t, "generate", "--definitions", defs, "-l", "go", "--out", outDir)
	if err == nil {
		t.Fatalf("expected an error for the broken definition")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Fatalf("error does not name the resource: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "go", "task_gen.go")); err != nil {
		t.Fatalf("healthy resource was not written: %v", err)
	}
}

func TestGeneratePipeline_MissingDefinitions(t *testing.T) {
	_, err := execute(t, "generate", "--definitions", filepath.Join(t.TempDir(), "nope"), "--dry-run")
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestResourcesCommand(t *testing.T) {
	defs := writeDefinitions(t, map[string]string{
		"task.yaml":    taskDefinition,
		"project.yaml": "actions: []\n",
		"notes.txt":    "ignored",
	})
	out, err := execute(t, "resources", "--definitions", defs)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "project\ntask\n" {
		t.Fatalf("unexpected listing: %q", out)
	}
}

func TestValidateCommand(t *testing.T) {
	defs := writeDefinitions(t, map[string]string{"task.yaml": taskDefinition})

	out, err := execute(t, "validate", "--definitions", defs, "--show-expanded")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "# task\nname: task\n") {
		t.Fatalf("expanded text missing: %s", out)
	}
	if !strings.Contains(out, "1 resource(s) valid") {
		t.Fatalf("summary missing: %s", out)
	}
}

func TestValidateCommand_ReportsLoadError(t *testing.T) {
	defs := writeDefinitions(t, map[string]string{
		"task.yaml": "actions:\n  - name: x\n    method: GET\n    path: 12\n",
	})
	_, err := execute(t, "validate", "--definitions", defs, "task")
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "definition task") || !strings.Contains(err.Error(), "Code:") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestExportCommand(t *testing.T) {
	defs := writeDefinitions(t, map[string]string{"task.yaml": taskDefinition})
	target := filepath.Join(t.TempDir(), "openapi.yaml")

	if _, err := execute(t, "export-openapi", "--definitions", defs, "-o", target, "--title", "Tasks"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	s := string(data)
	for _, want := range []string{"openapi: 3.0.3", "/tasks/{task}:", "title: Tasks", "operationId: task.findAll"} {
		if !strings.Contains(s, want) {
			t.Errorf("export missing %q:\n%s", want, s)
		}
	}

	out, err := execute(t, "export-openapi", "--definitions", defs, "--format", "json")
	if err != nil {
		t.Fatalf("execute json: %v", err)
	}
	if !strings.HasPrefix(out, "{\n") || !strings.Contains(out, `"openapi": "3.0.3"`) {
		t.Fatalf("unexpected json export: %s", out)
	}

	_, err = execute(t, "export-openapi", "--definitions", defs, "--format", "xml")
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error for bad format, got %v", err)
	}
}
