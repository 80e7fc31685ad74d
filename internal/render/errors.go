package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/apimeta/internal/definition"
	"github.com/mark3labs/apimeta/internal/lang"
)

// RenderError reports a template that failed to parse or execute for one
// resource and language. Nothing is written for that pair.
type RenderError struct {
	Resource string
	Language string
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s for %s (%s): %v", e.Resource, e.Language, e.Template, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// BatchError aggregates every failure of a RenderAll run, ordered by resource
// then language.
type BatchError struct {
	Errs []error
}

func (e *BatchError) Error() string {
	if len(e.Errs) == 1 {
		return e.Errs[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d failures:", len(e.Errs))
	for _, err := range e.Errs {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *BatchError) Unwrap() []error { return e.Errs }

func newBatchError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	sorted := append([]error(nil), errs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, li := errorKey(sorted[i])
		rj, lj := errorKey(sorted[j])
		if ri != rj {
			return ri < rj
		}
		return li < lj
	})
	return &BatchError{Errs: sorted}
}

// errorKey extracts the resource and language an error belongs to.
func errorKey(err error) (resource, language string) {
	var re *RenderError
	if errors.As(err, &re) {
		return re.Resource, re.Language
	}
	var le *definition.LoadError
	if errors.As(err, &le) {
		return le.Resource, ""
	}
	var ue *lang.UnknownLanguageError
	if errors.As(err, &ue) {
		return "", ue.ID
	}
	return "", ""
}
