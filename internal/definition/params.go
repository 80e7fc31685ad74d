package definition

import (
	"fmt"
	"regexp"
)

// placeholderRe matches the positional tokens of an action path.
var placeholderRe = regexp.MustCompile(`%[sd]`)

// PathToken is one piece of a tokenized action path: either literal text or a
// placeholder slot.
type PathToken struct {
	Literal     string
	Placeholder bool
}

// TokenizePath splits path into literal text and placeholder slots, in order.
func TokenizePath(path string) []PathToken {
	var tokens []PathToken
	last := 0
	for _, loc := range placeholderRe.FindAllStringIndex(path, -1) {
		if loc[0] > last {
			tokens = append(tokens, PathToken{Literal: path[last:loc[0]]})
		}
		tokens = append(tokens, PathToken{Placeholder: true})
		last = loc[1]
	}
	if last < len(path) {
		tokens = append(tokens, PathToken{Literal: path[last:]})
	}
	return tokens
}

// NumPathParams counts the placeholder tokens in path.
func NumPathParams(path string) int {
	return len(placeholderRe.FindAllStringIndex(path, -1))
}

// ActionParams partitions an action's params. The three groups are disjoint
// and together hold every param of the action in declared order.
type ActionParams struct {
	PathParams            []Param
	ExplicitNonPathParams []Param
	OptionParams          []Param
	NumPathParams         int
}

// Missing is the number of placeholders left without a path param.
func (p ActionParams) Missing() int {
	if n := p.NumPathParams - len(p.PathParams); n > 0 {
		return n
	}
	return 0
}

// ParamsForAction classifies params in declared order: required params fill
// the path placeholders first, then explicit params become positional
// arguments and everything else goes into the options bag.
func ParamsForAction(a Action) ActionParams {
	out := ActionParams{NumPathParams: NumPathParams(a.Path)}
	for _, p := range a.Params {
		switch {
		case p.Required && len(out.PathParams) < out.NumPathParams:
			out.PathParams = append(out.PathParams, p)
		case p.Explicit:
			out.ExplicitNonPathParams = append(out.ExplicitNonPathParams, p)
		default:
			out.OptionParams = append(out.OptionParams, p)
		}
	}
	return out
}

// Shortfall describes an action declaring fewer required params than its
// path has placeholders. Classification still succeeds for such actions.
type Shortfall struct {
	Resource     string
	Action       string
	Path         string
	Placeholders int
	Bound        int
}

func (s Shortfall) String() string {
	return fmt.Sprintf("%s.%s: path %q has %d placeholders but only %d required params", s.Resource, s.Action, s.Path, s.Placeholders, s.Bound)
}

// CheckPathParams lists the actions of r whose path placeholders cannot all
// be bound.
func CheckPathParams(r *Resource) []Shortfall {
	var out []Shortfall
	for _, a := range r.Actions {
		p := ParamsForAction(a)
		if p.Missing() > 0 {
			out = append(out, Shortfall{
				Resource:     r.Name,
				Action:       a.Name,
				Path:         a.Path,
				Placeholders: p.NumPathParams,
				Bound:        len(p.PathParams),
			})
		}
	}
	return out
}
