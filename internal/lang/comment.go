package lang

import "strings"

// LineComment prefixes every line, as in "// " or "# ".
type LineComment struct {
	Prefix string
}

func (c LineComment) Comment(text string, indent int) string {
	return wrapComment(text, strings.Repeat(" ", max(indent, 0)), c.Prefix)
}

// BlockComment renders a doc block:
//
//	/**
//	 * text
//	 */
type BlockComment struct{}

func (BlockComment) Comment(text string, indent int) string {
	pad := strings.Repeat(" ", max(indent, 0))
	body := wrapComment(text, pad, " * ")
	if body == "" {
		return ""
	}
	return pad + "/**\n" + body + "\n" + pad + " */"
}

// wrapComment trims text as a whole and prefixes each of its lines with pad
// and prefix. Lines keep their interior whitespace; blank lines get the prefix
// without its trailing space.
func wrapComment(text, pad, prefix string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return ""
	}
	bare := strings.TrimRight(prefix, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = pad + bare
			continue
		}
		lines[i] = pad + prefix + line
	}
	return strings.Join(lines, "\n")
}
