package lang

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/mark3labs/apimeta/internal/definition"
	"github.com/mark3labs/apimeta/internal/examples"
)

// FuncMap returns the template helpers p supports. Helpers for capabilities p
// does not declare are left out, so templates calling them fail to parse.
func FuncMap(p Profile, env Env) template.FuncMap {
	fm := template.FuncMap{
		"plural":          p.Plural,
		"singular":        p.Singular,
		"camel":           p.Camel,
		"capitalize":      p.Capitalize,
		"decapitalize":    p.Decapitalize,
		"snake":           p.Snake,
		"dash":            p.Dash,
		"param":           p.Param,
		"human":           p.Human,
		"title":           p.Title,
		"classify":        p.Classify,
		"typeName":        p.TypeName,
		"paramsForAction": definition.ParamsForAction,
		"numPathParams": func(a definition.Action) int {
			return definition.NumPathParams(a.Path)
		},
		"examplesForResource": func(name string) ([]examples.Example, error) {
			if env.Examples == nil {
				return nil, nil
			}
			return env.Examples.ForResource(name)
		},
		"join":   join,
		"indent": indent,
		"lower":  strings.ToLower,
		"upper":  strings.ToUpper,
	}

	if c, ok := p.(Commenter); ok && Has(p, CapComment) {
		fm["comment"] = c.Comment
	}
	if d, ok := p.(DocHelper); ok && Has(p, CapDocs) {
		baseURL := env.BaseURL
		if baseURL == "" {
			baseURL = d.CurlBaseURL()
		}
		fm["removeLineBreaks"] = d.RemoveLineBreaks
		fm["stripWhitespace"] = d.StripWhitespace
		fm["curlExamplesForAction"] = func(a definition.Action, exs []examples.Example) ([]examples.CurlExample, error) {
			return examples.CurlForAction(a, exs, baseURL)
		}
		// Keys come last so templates can list them inline.
		fm["curlExamplesForKeys"] = func(exs []examples.Example, keys ...string) ([]examples.CurlExample, error) {
			return examples.CurlForKeys(keys, exs, baseURL)
		}
		fm["exampleKeys"] = examples.Keys
		fm["toJSON"] = toJSON
		fm["dict"] = dict
	}
	return fm
}

func join(sep string, elems []string) string {
	return strings.Join(elems, sep)
}

// indent prefixes every non-empty line of s with n spaces.
func indent(n int, s string) string {
	pad := strings.Repeat(" ", max(n, 0))
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

// dict builds a map from alternating keys and values.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[k] = pairs[i+1]
	}
	return m, nil
}

func toJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
