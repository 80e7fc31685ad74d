package javaemitter

import (
	"io/fs"
	"strings"
	"testing"
	"text/template"

	"github.com/mark3labs/apimeta/internal/definition"
	"github.com/mark3labs/apimeta/internal/lang"
	"github.com/mark3labs/apimeta/internal/render"
)

func sampleResource() *definition.Resource {
	return &definition.Resource{
		Name:    "task",
		Comment: "A task.",
		Actions: []definition.Action{
			{
				Name: "findById", Method: "GET", Path: "/tasks/%s",
				Comment: "Returns the full task record.",
				Params: []definition.Param{
					{Name: "task", Type: "Id", Required: true, Comment: "The task to get."},
					{Name: "opt_pretty", Type: "Boolean", Comment: "Pretty output."},
				},
			},
			{
				Name: "addFollowers", Method: "POST", Path: "/tasks/%s/addFollowers",
				Params: []definition.Param{
					{Name: "task", Type: "Id", Required: true},
					{Name: "followers", Type: "Array", Required: true, Explicit: true},
				},
			},
			{Name: "findAll", Method: "GET", Path: "/tasks", Collection: true},
		},
	}
}

func renderSample(t *testing.T) string {
	t.Helper()
	p := New()
	d := p.Descriptor()
	src, err := fs.ReadFile(d.FS, d.Template)
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	tmpl, err := template.New(d.Template).Funcs(lang.FuncMap(p, lang.Env{})).Option("missingkey=error").Parse(string(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, render.Context{Resource: sampleResource(), Language: p.ID()}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	return b.String()
}

func assertContains(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("output missing %q\n--- output ---\n%s", w, got)
		}
	}
}

func TestProfile(t *testing.T) {
	t.Parallel()
	p := New()
	if got := Filename(&definition.Resource{Name: "user_task"}, p); got != "UserTasksBase.java" {
		t.Fatalf("filename: %s", got)
	}
	if got := p.Comment("Line", 4); got != "    /**\n     * Line\n     */" {
		t.Fatalf("comment: %q", got)
	}
}

func TestTemplate(t *testing.T) {
	t.Parallel()
	out := renderSample(t)
	assertContains(t, out,
		"import com.asana.models.Task;\n",
		"/**\n * A task.\n *\n * This file is auto-generated by apimeta from the task definition.\n */\npublic class TasksBase extends Resource {",
		"    public TasksBase(Client client) {",
		"    /**\n     * Returns the full task record.\n     * @param task The task to get.\n     * @return Request object\n     */\n    public ItemRequest<Task> findById(String task) {",
		"        String path = String.format(\"/tasks/%s\", task);\n        ItemRequest<Task> req = new ItemRequest<Task>(this, Task.class, path, \"GET\");\n        return req;",
		"    public ItemRequest<Task> addFollowers(String task, List<Object> followers) {",
		"        req.query(\"followers\", followers);\n",
		"    public CollectionRequest<Task> findAll() {",
	)
}
