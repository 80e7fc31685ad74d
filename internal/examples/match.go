package examples

import (
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/mark3labs/apimeta/internal/definition"
)

// patterns caches compiled path matchers by action path.
var patterns sync.Map

// pathPattern compiles an anchored matcher for an action path. Literal tokens
// must match exactly and each placeholder accepts one path segment's worth of
// characters, so /tasks/%s never matches /tasks/1/stories.
func pathPattern(path string) *regexp.Regexp {
	if re, ok := patterns.Load(path); ok {
		return re.(*regexp.Regexp)
	}
	var b strings.Builder
	b.WriteString("^")
	for _, tok := range definition.TokenizePath(path) {
		if tok.Placeholder {
			b.WriteString("[^/]+")
			continue
		}
		b.WriteString(regexp.QuoteMeta(tok.Literal))
	}
	b.WriteString("$")
	re := regexp.MustCompile(b.String())
	patterns.Store(path, re)
	return re
}

// MatchesAction reports whether ex illustrates action a. Keyed examples never
// match an action.
func MatchesAction(ex Example, a definition.Action) bool {
	if ex.Key != "" {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(ex.Method), strings.TrimSpace(a.Method)) {
		return false
	}
	endpoint, _, _ := strings.Cut(strings.TrimSpace(ex.Endpoint), "?")
	return pathPattern(a.Path).MatchString(endpoint)
}

// ForAction returns every example matching a, in source order.
func ForAction(a definition.Action, examples []Example) []Example {
	var out []Example
	for _, ex := range examples {
		if MatchesAction(ex, a) {
			out = append(out, ex)
		}
	}
	return out
}

// ForKeys returns the examples whose key is one of keys, in source order.
func ForKeys(keys []string, examples []Example) []Example {
	var out []Example
	for _, ex := range examples {
		if ex.Key != "" && slices.Contains(keys, ex.Key) {
			out = append(out, ex)
		}
	}
	return out
}

// Keys returns the distinct example keys in first-seen order.
func Keys(examples []Example) []string {
	var keys []string
	for _, ex := range examples {
		if ex.Key != "" && !slices.Contains(keys, ex.Key) {
			keys = append(keys, ex.Key)
		}
	}
	return keys
}
