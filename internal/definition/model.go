package definition

// Resource definition model consumed by the renderers and exporters.

type Resource struct {
	Name       string     `yaml:"name" json:"name"`
	Comment    string     `yaml:"comment" json:"comment"`
	Notes      []string   `yaml:"notes,omitempty" json:"notes,omitempty"`
	Properties []Property `yaml:"properties,omitempty" json:"properties,omitempty"`
	Actions    []Action   `yaml:"actions" json:"actions"`
}

type Property struct {
	Name          string   `yaml:"name" json:"name"`
	Type          string   `yaml:"type" json:"type"`
	Comment       string   `yaml:"comment,omitempty" json:"comment,omitempty"`
	ExampleValues []string `yaml:"example_values,omitempty" json:"example_values,omitempty"`
}

type Action struct {
	Name       string   `yaml:"name" json:"name"`
	Class      string   `yaml:"class,omitempty" json:"class,omitempty"`
	Method     string   `yaml:"method" json:"method"`
	Path       string   `yaml:"path" json:"path"`
	Comment    string   `yaml:"comment,omitempty" json:"comment,omitempty"`
	Notes      []string `yaml:"notes,omitempty" json:"notes,omitempty"`
	Collection bool     `yaml:"collection,omitempty" json:"collection,omitempty"`
	Params     []Param  `yaml:"params,omitempty" json:"params,omitempty"`
}

type Param struct {
	Name          string   `yaml:"name" json:"name"`
	Type          string   `yaml:"type,omitempty" json:"type,omitempty"`
	Comment       string   `yaml:"comment,omitempty" json:"comment,omitempty"`
	Required      bool     `yaml:"required,omitempty" json:"required,omitempty"`
	Explicit      bool     `yaml:"explicit,omitempty" json:"explicit,omitempty"`
	ExampleValues []string `yaml:"example_values,omitempty" json:"example_values,omitempty"`
}

// Action returns the named action, or nil.
func (r *Resource) Action(name string) *Action {
	for i := range r.Actions {
		if r.Actions[i].Name == name {
			return &r.Actions[i]
		}
	}
	return nil
}
