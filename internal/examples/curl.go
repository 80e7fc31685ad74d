package examples

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/apimeta/internal/definition"
)

// DefaultBaseURL prefixes example endpoints when no base URL is configured.
const DefaultBaseURL = "https://app.asana.com/api/1.0"

const authHeader = `-H "Authorization: Bearer <personal_access_token>"`

// CurlForAction renders the examples matching a. Descriptions are kept only
// when more than one example matched.
func CurlForAction(a definition.Action, examples []Example, baseURL string) ([]CurlExample, error) {
	return curlAll(ForAction(a, examples), baseURL)
}

// CurlForKeys renders the examples tagged with one of keys.
func CurlForKeys(keys []string, examples []Example, baseURL string) ([]CurlExample, error) {
	return curlAll(ForKeys(keys, examples), baseURL)
}

func curlAll(matched []Example, baseURL string) ([]CurlExample, error) {
	out := make([]CurlExample, 0, len(matched))
	for _, ex := range matched {
		ce, err := Curl(ex, baseURL)
		if err != nil {
			return nil, err
		}
		if len(matched) == 1 {
			ce.Description = ""
		}
		out = append(out, ce)
	}
	return out, nil
}

// Curl renders one example as a curl command plus its response.
func Curl(ex Example, baseURL string) (CurlExample, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	method := strings.ToUpper(strings.TrimSpace(ex.Method))

	first := "curl"
	if method == "PUT" || method == "DELETE" {
		first += " -X " + method
	}
	lines := []string{first, authHeader, strings.TrimRight(baseURL, "/") + ex.Endpoint}

	fields := make([]string, 0, len(ex.RequestData))
	for name := range ex.RequestData {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	for _, name := range fields {
		field := ex.RequestData[name]
		switch {
		case field.List:
			for i, v := range field.Values {
				lines = append(lines, fmt.Sprintf(`--data-urlencode "%s[%d]=%s"`, name, i, quote(v)))
			}
		case name == "file":
			lines = append(lines, fmt.Sprintf(`--form "file=@%s"`, quote(firstValue(field.Values))))
		default:
			lines = append(lines, fmt.Sprintf(`--data-urlencode "%s=%s"`, name, quote(firstValue(field.Values))))
		}
	}

	status, body, err := splitResponse(ex.Response)
	if err != nil {
		return CurlExample{}, fmt.Errorf("example %s %s: %w", method, ex.Endpoint, err)
	}
	return CurlExample{
		Description: strings.TrimSpace(ex.Description),
		Command:     strings.Join(lines, " \\\n  "),
		Status:      status,
		Body:        body,
	}, nil
}

// splitResponse separates the synthetic status line from the body fields and
// renders the body as indented JSON.
func splitResponse(resp map[string]any) (string, string, error) {
	status := ""
	rest := make(map[string]any, len(resp))
	for k, v := range resp {
		if k == "status" {
			status = fmt.Sprint(v)
			continue
		}
		rest[k] = v
	}
	if status != "" && !strings.HasPrefix(status, "HTTP/") {
		status = "HTTP/1.1 " + status
	}
	if len(rest) == 0 {
		return status, "", nil
	}
	body, err := json.MarshalIndent(rest, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encode response: %w", err)
	}
	return status, string(body), nil
}

func quote(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
