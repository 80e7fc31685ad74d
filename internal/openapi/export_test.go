package openapi

import (
	"context"
	"errors"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/apimeta/internal/definition"
)

func sampleResources() []*definition.Resource {
	task := &definition.Resource{
		Name:    "task",
		Comment: "A task.",
		Properties: []definition.Property{
			{Name: "gid", Type: "Id"},
			{Name: "completed", Type: "Boolean"},
		},
		Actions: []definition.Action{
			{Name: "findById", Method: "GET", Path: "/tasks/%s", Comment: "Returns a task.\nMore detail.",
				Params: []definition.Param{
					{Name: "task", Type: "Id", Required: true, Comment: "The task."},
					{Name: "opt_pretty", Type: "Boolean"},
				}},
			{Name: "delete", Method: "DELETE", Path: "/tasks/%s",
				Params: []definition.Param{{Name: "task_gid", Required: true}}},
			{Name: "addSubtask", Method: "POST", Path: "/tasks/%s/subtasks/%d",
				Params: []definition.Param{
					{Name: "task", Required: true},
					{Name: "position", Type: "Integer", Required: true},
					{Name: "name", Type: "String", Required: true, Explicit: true},
					{Name: "notes", Type: "String"},
				}},
			{Name: "findAll", Method: "GET", Path: "/tasks", Collection: true},
		},
	}
	story := &definition.Resource{
		Name: "story",
		Actions: []definition.Action{
			{Name: "findByTask", Method: "GET", Path: "/tasks/%s/stories", Collection: true},
		},
	}
	return []*definition.Resource{task, story}
}

func TestBuild(t *testing.T) {
	t.Parallel()
	doc, err := Build(context.Background(), sampleResources(), Info{Title: "Tasks API", ServerURL: "https://app.example.com/api/1.0"})
	require.NoError(t, err)

	assert.Equal(t, "Tasks API", doc.Info.Title)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	require.Len(t, doc.Tags, 2)
	assert.Equal(t, "story", doc.Tags[0].Name)

	var paths []string
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	assert.ElementsMatch(t, []string{
		"/tasks/{task}",
		"/tasks/{task}/subtasks/{position}",
		"/tasks",
		"/tasks/{param1}/stories",
	}, paths)

	item := doc.Paths["/tasks/{task}"]
	require.NotNil(t, item.Get)
	require.NotNil(t, item.Delete)
	assert.Equal(t, "task.findById", item.Get.OperationID)
	assert.Equal(t, "Returns a task.", item.Get.Summary)
	require.Len(t, item.Get.Parameters, 2)
	assert.Equal(t, openapi3.ParameterInPath, item.Get.Parameters[0].Value.In)
	assert.Equal(t, openapi3.ParameterInQuery, item.Get.Parameters[1].Value.In)
	assert.Equal(t, "opt_pretty", item.Get.Parameters[1].Value.Name)
	assert.Equal(t, "task", item.Delete.Parameters[0].Value.Name, "shared path keeps the first action's names")

	post := doc.Paths["/tasks/{task}/subtasks/{position}"].Post
	require.NotNil(t, post)
	assert.Equal(t, "integer", post.Parameters[1].Value.Schema.Value.Type)
	require.NotNil(t, post.RequestBody)
	body := post.RequestBody.Value.Content.Get("application/json").Schema.Value
	assert.Equal(t, []string{"name"}, body.Required)
	assert.Contains(t, body.Properties, "notes")

	list := doc.Paths["/tasks"].Get.Responses["200"].Value.Content.Get("application/json").Schema.Value
	assert.Equal(t, "array", list.Properties["data"].Value.Type)
}

func TestBuild_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	doc, err := Build(ctx, sampleResources(), Info{})
	require.NoError(t, err)

	js, err := MarshalJSON(doc)
	require.NoError(t, err)
	loaded, err := openapi3.NewLoader().LoadFromData(js)
	require.NoError(t, err)
	require.NoError(t, loaded.Validate(ctx))
	assert.Len(t, loaded.Paths, 4)

	y, err := MarshalYAML(doc)
	require.NoError(t, err)
	assert.Contains(t, string(y), "openapi: 3.0.3")
}

func TestBuild_DuplicateOperation(t *testing.T) {
	t.Parallel()
	r := &definition.Resource{Name: "task", Actions: []definition.Action{
		{Name: "a", Method: "GET", Path: "/tasks"},
		{Name: "b", Method: "get", Path: "/tasks"},
	}}
	_, err := Build(context.Background(), []*definition.Resource{r}, Info{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defined twice")
}

func TestExtractJSONPointer(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", extractJSONPointer(nil))
	assert.Equal(t, "#/paths/~1tasks", extractJSONPointer(errors.New("bad value at #/paths/~1tasks here")))
	assert.Equal(t, "#/a", extractJSONPointer(openapi3.MultiError{errors.New("x #/a")}))
}
