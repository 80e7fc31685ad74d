package definition

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strings"
)

// includeRe matches one directive per line: optional indentation, the
// keyword, and a relative path optionally wrapped in quotes or backticks.
var includeRe = regexp.MustCompile("(?m)^([ \\t]*)include[ \\t]+(\\S+)[ \\t\\r]*$")

// expand splices included files into raw. stack holds the chain of files
// currently being expanded and is used for cycle detection.
func (s *Store) expand(resource, file string, raw []byte, stack []string) ([]byte, error) {
	if len(stack) > s.settings.MaxIncludeDepth {
		return nil, &LoadError{
			Code:      IncludeError,
			Resource:  resource,
			Reference: file,
			Message:   fmt.Sprintf("include depth exceeds %d", s.settings.MaxIncludeDepth),
		}
	}

	var expandErr error
	out := includeRe.ReplaceAllFunc(raw, func(match []byte) []byte {
		if expandErr != nil {
			return match
		}
		sub := includeRe.FindSubmatch(match)
		indent := string(sub[1])
		ref := strings.Trim(string(sub[2]), "`\"'")

		target, ok := resolveInclude(file, ref)
		if !ok {
			expandErr = &LoadError{Code: IncludeError, Resource: resource, Reference: ref, Message: "include escapes the definitions root"}
			return match
		}
		if slices.Contains(stack, target) {
			expandErr = &LoadError{
				Code:      IncludeError,
				Resource:  resource,
				Reference: ref,
				Message:   fmt.Sprintf("include cycle: %s -> %s", strings.Join(stack, " -> "), target),
			}
			return match
		}

		content, err := fs.ReadFile(s.fsys, target)
		if err != nil {
			expandErr = &LoadError{Code: IncludeError, Resource: resource, Reference: ref, Message: fmt.Sprintf("read include: %v", err), Cause: err}
			return match
		}
		content = stripDocumentSeparator(content)

		next := append(slices.Clone(stack), target)
		expanded, err := s.expand(resource, target, content, next)
		if err != nil {
			expandErr = err
			return match
		}
		return indentBlock(bytes.TrimSuffix(expanded, []byte("\n")), indent)
	})
	if expandErr != nil {
		return nil, expandErr
	}
	return out, nil
}

// resolveInclude resolves ref relative to the directory of the including file.
func resolveInclude(from, ref string) (string, bool) {
	if ref == "" || strings.HasPrefix(ref, "/") {
		return "", false
	}
	target := path.Join(path.Dir(from), ref)
	if !fs.ValidPath(target) {
		return "", false
	}
	return target, true
}

// stripDocumentSeparator drops a leading YAML "---" line so the fragment
// merges into the including document instead of starting a new one.
func stripDocumentSeparator(content []byte) []byte {
	trimmed := bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	line, rest, found := bytes.Cut(trimmed, []byte("\n"))
	if strings.TrimRight(string(line), " \t\r") != "---" {
		return content
	}
	if !found {
		return nil
	}
	return rest
}

func indentBlock(content []byte, indent string) []byte {
	if indent == "" {
		return content
	}
	lines := bytes.Split(content, []byte("\n"))
	var b bytes.Buffer
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if len(bytes.TrimSpace(line)) > 0 {
			b.WriteString(indent)
		}
		b.Write(line)
	}
	return b.Bytes()
}
