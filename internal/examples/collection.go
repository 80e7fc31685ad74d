package examples

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	// ErrReadExamples is returned when the example file cannot be read.
	ErrReadExamples = errors.New("read examples")
	// ErrDecodeExamples is returned when the example file is not valid YAML.
	ErrDecodeExamples = errors.New("decode examples")
)

// Collection is the shared example store, keyed by resource name. The file
// is read once, on first use, and is read-only afterwards.
type Collection struct {
	path string

	once       sync.Once
	byResource map[string][]Example
	err        error
}

// NewCollection returns a Collection backed by the YAML file at path. An
// empty path yields a collection without examples.
func NewCollection(path string) *Collection {
	return &Collection{path: path}
}

// Parse builds a Collection from YAML content.
func Parse(data []byte) (*Collection, error) {
	c := &Collection{}
	c.once.Do(func() {
		c.byResource, c.err = decode(data)
	})
	if c.err != nil {
		return nil, c.err
	}
	return c, nil
}

func (c *Collection) load() error {
	c.once.Do(func() {
		if c.path == "" {
			c.byResource = map[string][]Example{}
			return
		}
		data, err := os.ReadFile(c.path)
		if err != nil {
			c.err = fmt.Errorf("%w: %w", ErrReadExamples, err)
			return
		}
		c.byResource, c.err = decode(data)
	})
	return c.err
}

func decode(data []byte) (map[string][]Example, error) {
	out := map[string][]Example{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeExamples, err)
	}
	if out == nil {
		out = map[string][]Example{}
	}
	return out, nil
}

// ForResource returns the examples stored for resource, in file order.
func (c *Collection) ForResource(resource string) ([]Example, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	return c.byResource[resource], nil
}
