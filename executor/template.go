package executor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oliveagle/jsonpath"
)

var tokenPattern = regexp.MustCompile(`{(.*?)}`)

// ResolveTokens substitutes {$.path} tokens in a template with values
// looked up in the session data via jsonpath. Unresolvable tokens render
// as an empty value rather than failing the turn.
func ResolveTokens(data map[string]any, template string) string {
	tokens := tokenPattern.FindAllString(template, -1)
	out := template
	for _, token := range tokens {
		path := strings.TrimSuffix(strings.TrimPrefix(token, "{"), "}")
		if !strings.HasPrefix(path, "$") {
			continue
		}
		value, err := jsonpath.JsonPathLookup(data, path)
		if err != nil {
			out = strings.ReplaceAll(out, token, "")
			continue
		}
		out = strings.ReplaceAll(out, token, fmt.Sprintf("%v", value))
	}
	return out
}

// ResolveParams walks a configured parameter map and substitutes tokens
// in every string value, recursing into nested maps and lists.
func ResolveParams(data map[string]any, params map[string]any) map[string]any {
	output := make(map[string]any)
	for k, v := range params {
		output[k] = resolveValue(data, v)
	}
	return output
}

func resolveValue(data map[string]any, v any) any {
	switch value := v.(type) {
	case map[string]any:
		return ResolveParams(data, value)
	case []any:
		out := make([]any, 0, len(value))
		for _, item := range value {
			out = append(out, resolveValue(data, item))
		}
		return out
	case string:
		return ResolveTokens(data, value)
	default:
		return v
	}
}
