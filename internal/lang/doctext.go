package lang

import "strings"

// DocText implements the text helpers of DocHelper.
type DocText struct {
	BaseURL string
}

// RemoveLineBreaks joins the lines of each paragraph with a space. Blank-line
// paragraph breaks and lines ending in a backslash keep their newline.
func (DocText) RemoveLineBreaks(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\n' {
			b.WriteByte(c)
			continue
		}
		prevBreak := i > 0 && s[i-1] == '\n'
		nextBreak := i+1 < len(s) && s[i+1] == '\n'
		escaped := i > 0 && s[i-1] == '\\'
		if prevBreak || nextBreak || escaped {
			b.WriteByte('\n')
			continue
		}
		b.WriteByte(' ')
	}
	return b.String()
}

// StripWhitespace collapses every whitespace run to one space and trims the
// ends.
func (DocText) StripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (d DocText) CurlBaseURL() string { return d.BaseURL }
