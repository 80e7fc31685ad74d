// Package openapi projects a resource set into an OpenAPI 3 document.
package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/apimeta/internal/definition"
)

// Info describes the exported API.
type Info struct {
	Title       string
	Version     string
	Description string
	ServerURL   string
}

// ExportError reports a document that failed OpenAPI validation.
type ExportError struct {
	JSONPointer string
	Cause       error
}

func (e *ExportError) Error() string {
	if e.JSONPointer != "" {
		return fmt.Sprintf("openapi: invalid document at %s: %v", e.JSONPointer, e.Cause)
	}
	return fmt.Sprintf("openapi: invalid document: %v", e.Cause)
}

func (e *ExportError) Unwrap() error { return e.Cause }

// pathKey is an action path with placeholders erased; actions sharing a key
// share one path item.
type pathKey string

func keyOf(path string) pathKey {
	var b strings.Builder
	for _, tok := range definition.TokenizePath(path) {
		if tok.Placeholder {
			b.WriteString("{}")
			continue
		}
		b.WriteString(tok.Literal)
	}
	return pathKey(b.String())
}

type pathEntry struct {
	template string
	names    []string
	item     *openapi3.PathItem
}

// Build returns a validated document with one operation per action.
// Resources are visited in the order given.
func Build(ctx context.Context, resources []*definition.Resource, info Info) (*openapi3.T, error) {
	title := strings.TrimSpace(info.Title)
	if title == "" {
		title = "API"
	}
	version := strings.TrimSpace(info.Version)
	if version == "" {
		version = "1.0.0"
	}
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: title, Version: version, Description: info.Description},
		Paths:   openapi3.Paths{},
	}
	if info.ServerURL != "" {
		doc.Servers = openapi3.Servers{&openapi3.Server{URL: info.ServerURL}}
	}

	entries := map[pathKey]*pathEntry{}
	for _, r := range resources {
		if r == nil {
			continue
		}
		doc.Tags = append(doc.Tags, &openapi3.Tag{Name: r.Name, Description: r.Comment})
		record := recordSchema(r)
		for _, a := range r.Actions {
			key := keyOf(a.Path)
			e, ok := entries[key]
			if !ok {
				e = newPathEntry(a)
				entries[key] = e
				doc.Paths[e.template] = e.item
			}
			method := strings.ToUpper(a.Method)
			if e.item.GetOperation(method) != nil {
				return nil, fmt.Errorf("openapi: %s %s is defined twice (%s.%s)", method, e.template, r.Name, a.Name)
			}
			e.item.SetOperation(method, operation(r, a, e.names, record))
		}
	}
	sort.Slice(doc.Tags, func(i, j int) bool { return doc.Tags[i].Name < doc.Tags[j].Name })

	if err := doc.Validate(ctx); err != nil {
		return nil, &ExportError{JSONPointer: extractJSONPointer(err), Cause: err}
	}
	return doc, nil
}

// newPathEntry names the placeholders of a's path after its path-bound
// params, falling back to param1, param2, ... for placeholders no required
// param binds.
func newPathEntry(a definition.Action) *pathEntry {
	bound := definition.ParamsForAction(a).PathParams
	var (
		b     strings.Builder
		names []string
	)
	for _, tok := range definition.TokenizePath(a.Path) {
		if !tok.Placeholder {
			b.WriteString(tok.Literal)
			continue
		}
		i := len(names)
		name := fmt.Sprintf("param%d", i+1)
		if i < len(bound) {
			name = bound[i].Name
		}
		names = append(names, name)
		b.WriteString("{" + name + "}")
	}
	return &pathEntry{template: b.String(), names: names, item: &openapi3.PathItem{}}
}

func operation(r *definition.Resource, a definition.Action, names []string, record *openapi3.Schema) *openapi3.Operation {
	classified := definition.ParamsForAction(a)
	op := &openapi3.Operation{
		OperationID: r.Name + "." + a.Name,
		Summary:     firstLine(a.Comment),
		Description: a.Comment,
		Tags:        []string{r.Name},
	}

	placeholders := placeholderKinds(a.Path)
	for i, name := range names {
		p := openapi3.NewPathParameter(name).WithSchema(placeholderSchema(placeholders[i]))
		if i < len(classified.PathParams) {
			p = p.WithDescription(classified.PathParams[i].Comment)
		}
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: p})
	}

	rest := append(append([]definition.Param(nil), classified.ExplicitNonPathParams...), classified.OptionParams...)
	method := strings.ToUpper(a.Method)
	if method == "GET" || method == "DELETE" {
		for _, prm := range rest {
			q := openapi3.NewQueryParameter(prm.Name).
				WithSchema(typeSchema(prm.Type)).
				WithDescription(prm.Comment).
				WithRequired(prm.Required)
			op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: q})
		}
	} else if len(rest) > 0 {
		body := openapi3.NewObjectSchema()
		for _, prm := range rest {
			s := typeSchema(prm.Type)
			s.Description = prm.Comment
			body = body.WithProperty(prm.Name, s)
			if prm.Required {
				body.Required = append(body.Required, prm.Name)
			}
		}
		op.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithJSONSchema(body)}
	}

	data := record
	if a.Collection {
		data = openapi3.NewArraySchema().WithItems(record)
	}
	envelope := openapi3.NewObjectSchema().WithProperty("data", data)
	op.Responses = openapi3.Responses{
		"200": &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Successful response").WithJSONSchema(envelope)},
	}
	return op
}

// recordSchema describes a resource's record from its properties.
func recordSchema(r *definition.Resource) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	s.Title = r.Name
	for _, p := range r.Properties {
		ps := typeSchema(p.Type)
		ps.Description = p.Comment
		s = s.WithProperty(p.Name, ps)
	}
	return s
}

func typeSchema(abstract string) *openapi3.Schema {
	switch abstract {
	case "Integer":
		return openapi3.NewIntegerSchema()
	case "Number":
		return openapi3.NewFloat64Schema()
	case "Boolean":
		return openapi3.NewBoolSchema()
	case "Date":
		s := openapi3.NewStringSchema()
		s.Format = "date"
		return s
	case "DateTime":
		return openapi3.NewDateTimeSchema()
	case "Array":
		return openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	case "Object":
		return openapi3.NewObjectSchema()
	default:
		return openapi3.NewStringSchema()
	}
}

var placeholderRe = regexp.MustCompile(`%[sd]`)

func placeholderKinds(path string) []string {
	return placeholderRe.FindAllString(path, -1)
}

func placeholderSchema(kind string) *openapi3.Schema {
	if kind == "%d" {
		return openapi3.NewIntegerSchema()
	}
	return openapi3.NewStringSchema()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}

// MarshalJSON renders doc as indented JSON.
func MarshalJSON(doc *openapi3.T) ([]byte, error) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// MarshalYAML renders doc as YAML via its JSON form so the kin-openapi
// marshalers decide the field set.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return yaml.Marshal(v)
}

var jsonPtrRe = regexp.MustCompile(`#/[^\s'"]+`)

func extractJSONPointer(err error) string {
	if err == nil {
		return ""
	}
	// Unwrap MultiError and take the first for brevity.
	var me openapi3.MultiError
	if errors.As(err, &me) && len(me) > 0 {
		return extractJSONPointer(me[0])
	}
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		if parts := se.JSONPointer(); len(parts) > 0 {
			return "#/" + strings.Join(parts, "/")
		}
		if se.SchemaField != "" {
			return se.SchemaField
		}
	}
	if m := jsonPtrRe.FindString(err.Error()); m != "" {
		return m
	}
	return ""
}
