package definition

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const resourceSchemaURL = "https://apimeta.dev/schemas/resource.schema.json"

//go:embed schema/resource.schema.json
var resourceSchema []byte

func compileResourceSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(resourceSchemaURL, bytes.NewReader(resourceSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile(resourceSchemaURL)
}

// decode parses composed definition text into a Resource.
func (s *Store) decode(name string, text []byte) (*Resource, error) {
	var doc any
	if err := yaml.Unmarshal(text, &doc); err != nil {
		return nil, &LoadError{Code: ParseError, Resource: name, Message: fmt.Sprintf("parse definition: %v", err), Cause: err}
	}
	if doc == nil {
		return nil, &LoadError{Code: ParseError, Resource: name, Message: "definition is empty"}
	}

	if s.schema != nil {
		instance, err := jsonValue(doc)
		if err != nil {
			return nil, &LoadError{Code: ParseError, Resource: name, Message: err.Error(), Cause: err}
		}
		if err := s.schema.Validate(instance); err != nil {
			return nil, &LoadError{Code: ValidationError, Resource: name, Message: validationMessage(err), Cause: err}
		}
	}

	var r Resource
	if err := yaml.Unmarshal(text, &r); err != nil {
		return nil, &LoadError{Code: ParseError, Resource: name, Message: fmt.Sprintf("decode definition: %v", err), Cause: err}
	}
	normalizeResource(&r, name)
	return &r, nil
}

// jsonValue converts a YAML document into the JSON value shape expected by
// the schema validator.
func jsonValue(doc any) (any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("definition is not representable as JSON: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func validationMessage(err error) string {
	if ve, ok := err.(*jsonschema.ValidationError); ok {
		leaf := ve
		for len(leaf.Causes) > 0 {
			leaf = leaf.Causes[0]
		}
		loc := leaf.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return fmt.Sprintf("schema violation at %s: %s", loc, leaf.Message)
	}
	return err.Error()
}

func normalizeResource(r *Resource, name string) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		r.Name = name
	}
	for i := range r.Actions {
		a := &r.Actions[i]
		a.Name = strings.TrimSpace(a.Name)
		a.Method = strings.ToUpper(strings.TrimSpace(a.Method))
		a.Path = strings.TrimSpace(a.Path)
		for j := range a.Params {
			a.Params[j].Name = strings.TrimSpace(a.Params[j].Name)
		}
	}
}
