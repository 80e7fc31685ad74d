package examples

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Example is one illustrative request/response pair. Examples carrying a Key
// document a named section instead of an endpoint.
type Example struct {
	Key         string           `yaml:"key,omitempty"`
	Description string           `yaml:"description,omitempty"`
	Method      string           `yaml:"method"`
	Endpoint    string           `yaml:"endpoint"`
	RequestData map[string]Field `yaml:"request_data,omitempty"`
	Response    map[string]any   `yaml:"response,omitempty"`
}

// Field is one request_data value: a single string or a list of strings.
type Field struct {
	Values []string
	List   bool
}

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		f.Values = []string{node.Value}
		f.List = false
		return nil
	case yaml.SequenceNode:
		f.Values = make([]string, 0, len(node.Content))
		f.List = true
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: request_data list items must be scalars", item.Line)
			}
			f.Values = append(f.Values, item.Value)
		}
		return nil
	default:
		return fmt.Errorf("line %d: request_data values must be a string or a list of strings", node.Line)
	}
}

// CurlExample is the renderable form of an Example.
type CurlExample struct {
	Description string
	Command     string
	Status      string
	Body        string
}
