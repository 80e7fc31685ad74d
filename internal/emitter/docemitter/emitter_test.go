package docemitter

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
	"text/template"

	"github.com/mark3labs/apimeta/internal/definition"
	"github.com/mark3labs/apimeta/internal/examples"
	"github.com/mark3labs/apimeta/internal/lang"
	"github.com/mark3labs/apimeta/internal/partial"
	"github.com/mark3labs/apimeta/internal/render"
)

const sampleExamples = `task:
  - method: put
    endpoint: /tasks/1001
    description: Rename
    request_data:
      name: Buy milk
    response:
      status: 200 OK
  - method: put
    endpoint: /tasks/1001
    description: Complete
    request_data:
      completed: "true"
  - key: errors
    method: get
    endpoint: /tasks/0
    response:
      status: 404 Not Found
      errors:
        - message: task not found
`

func sampleResource() *definition.Resource {
	return &definition.Resource{
		Name:    "task",
		Comment: "A task is a unit\nof work.\n\nAssign it to someone.",
		Notes:   []string{"  Tasks   are\nshared.  "},
		Properties: []definition.Property{
			{Name: "id", Type: "Id", Comment: "Globally unique.", ExampleValues: []string{"1001", "1002"}},
			{Name: "name", Type: "String"},
		},
		Actions: []definition.Action{{
			Name: "update", Method: "PUT", Path: "/tasks/%s",
			Comment: "Updates the task.",
			Params: []definition.Param{
				{Name: "task", Type: "Id", Required: true, Comment: "The task."},
				{Name: "name", Type: "String", Comment: "New name."},
			},
		}},
	}
}

func renderSample(t *testing.T, partials fs.FS) string {
	t.Helper()
	exs, err := examples.Parse([]byte(sampleExamples))
	if err != nil {
		t.Fatalf("examples: %v", err)
	}
	p := New()
	funcs := lang.FuncMap(p, lang.Env{Examples: exs})
	for k, v := range partial.NewLibrary(partials, p.PartialExtension(), funcs).Resolver().Funcs() {
		funcs[k] = v
	}
	d := p.Descriptor()
	src, err := fs.ReadFile(d.FS, d.Template)
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	tmpl, err := template.New(d.Template).Funcs(funcs).Option("missingkey=error").Parse(string(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var b strings.Builder
	data := render.Context{Resource: sampleResource(), Language: ID, BaseURL: p.CurlBaseURL()}
	if err := tmpl.Execute(&b, data); err != nil {
		t.Fatalf("execute: %v", err)
	}
	return b.String()
}

func TestProfile(t *testing.T) {
	t.Parallel()
	p := New()
	if got := Filename(&definition.Resource{Name: "user_task"}, p); got != "user-task.md" {
		t.Fatalf("filename: %s", got)
	}
	if !lang.Has(p, lang.CapDocs) || !lang.Has(p, lang.CapPartials) || lang.Has(p, lang.CapComment) {
		t.Fatalf("capabilities: %v", p.Capabilities())
	}
	if _, ok := any(p).(lang.Commenter); ok {
		t.Fatalf("documentation profile must not implement Commenter")
	}
	if p.PartialExtension() != ".md.tmpl" {
		t.Fatalf("partial extension: %s", p.PartialExtension())
	}
	if got := p.TypeName("Id"); got != "Id" {
		t.Fatalf("Id maps to %s", got)
	}
}

func TestTemplate(t *testing.T) {
	t.Parallel()
	out := renderSample(t, nil)
	want := []string{
		"---\ntitle: Task\n---\n\n# Task\n\nA task is a unit of work.\n\nAssign it to someone.\n\n> Tasks are shared.\n",
		"| `id` | Id | Globally unique. Example: `1001`, `1002` |\n| `name` | String |  |",
		"## Update\n\n```\nPUT /tasks/%s\n```\n\nUpdates the task.\n",
		"| `task` | path | Id | The task. |\n| `name` | optional | String | New name. |",
		"\n\nRename\n\n```bash\ncurl -X PUT \\\n  -H \"Authorization: Bearer <personal_access_token>\" \\\n  https://app.asana.com/api/1.0/tasks/1001 \\\n  --data-urlencode \"name=Buy milk\"\n```\n\n```\nHTTP/1.1 200 OK\n```",
		"\n\nComplete\n\n```bash\n",
		"## Errors\n\n```bash\ncurl \\\n",
		"```\nHTTP/1.1 404 Not Found\n{\n  \"errors\": [\n",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q\n--- output ---\n%s", w, out)
		}
	}
}

func TestTemplate_Partials(t *testing.T) {
	t.Parallel()
	partials := fstest.MapFS{
		"resources/task/intro.md.tmpl":  {Data: []byte("See also {{ partial \"shared/link\" (dict \"to\" .resource.Name) }}.")},
		"shared/link.md.tmpl":           {Data: []byte("[{{ .to }}](#{{ .to }})\n")},
		"resources/task/update.md.tmpl": {Data: []byte("\n\nAction {{ .action.Name }} of {{ .resource.Name }}.\n\n")},
	}
	out := renderSample(t, partials)
	for _, w := range []string{
		"Assign it to someone.\n\nSee also [task](#task).\n",
		"Updates the task.\n\n| Parameter",
		"| New name. |\n\nAction update of task.\n\nRename",
	} {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q\n--- output ---\n%s", w, out)
		}
	}
}
