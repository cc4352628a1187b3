package mdx

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Scope maps identifiers to values available to MDX expressions.
type Scope map[string]any

// pathStep is one member access in a dotted path.
type pathStep struct {
	key      string
	index    int
	isIndex  bool
	optional bool // reached through ?.
}

// isCommentExpression reports whether expr holds only /* */ comments.
func isCommentExpression(expr string) bool {
	s := strings.TrimSpace(expr)
	if s == "" {
		return false
	}
	for s != "" {
		if !strings.HasPrefix(s, "/*") {
			return false
		}
		end := strings.Index(s[2:], "*/")
		if end == -1 {
			return false
		}
		s = strings.TrimSpace(s[end+4:])
	}
	return true
}

// evaluate resolves a literal or a member path against scope.
// Supported forms: "str", 'str', `str` without substitutions, numbers,
// true, false, null, undefined, and paths like a.b[0]["c"] with optional ?.
// Anything else (operators, calls, arrow functions) is rejected.
func evaluate(expr string, scope Scope) (any, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return nil, nil
	}

	if v, ok, err := parseLiteral(s); ok || err != nil {
		return v, err
	}

	steps, root, err := parsePath(s)
	if err != nil {
		return nil, err
	}
	return resolvePath(root, steps, scope)
}

// parseLiteral recognizes string, number and keyword literals.
func parseLiteral(s string) (any, bool, error) {
	switch s {
	case "true":
		return true, true, nil
	case "false":
		return false, true, nil
	case "null", "undefined":
		return nil, true, nil
	}

	switch s[0] {
	case '"', '\'', '`':
		v, err := unquote(s)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %s", ErrInvalidExpression, s)
		}
		return v, true, nil
	}

	if s[0] == '-' || s[0] == '.' || (s[0] >= '0' && s[0] <= '9') {
		f, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %s", ErrInvalidExpression, s)
		}
		return f, true, nil
	}
	return nil, false, nil
}

// unquote decodes a JavaScript string literal that spans all of s.
func unquote(s string) (string, error) {
	if len(s) < 2 || s[len(s)-1] != s[0] {
		return "", fmt.Errorf("unterminated string")
	}
	quote := s[0]
	body := s[1 : len(s)-1]

	switch quote {
	case '`':
		if strings.Contains(body, "${") || strings.Contains(body, "`") {
			return "", fmt.Errorf("template substitutions are not supported")
		}
		return body, nil
	case '\'':
		var b strings.Builder
		for i := 0; i < len(body); i++ {
			c := body[i]
			switch {
			case c == '\\' && i+1 < len(body) && body[i+1] == '\'':
				b.WriteByte('\'')
				i++
			case c == '\\' && i+1 < len(body):
				b.WriteByte(c)
				b.WriteByte(body[i+1])
				i++
			case c == '\'':
				return "", fmt.Errorf("unescaped quote")
			case c == '"':
				b.WriteString(`\"`)
			default:
				b.WriteByte(c)
			}
		}
		body = b.String()
	}
	return strconv.Unquote(`"` + body + `"`)
}

// parsePath splits a member path into its root identifier and steps.
func parsePath(s string) ([]pathStep, string, error) {
	invalid := fmt.Errorf("%w: %s", ErrInvalidExpression, s)

	root, i := scanIdent(s, 0)
	if root == "" {
		return nil, "", invalid
	}

	var steps []pathStep
	for i < len(s) {
		optional := false
		switch {
		case strings.HasPrefix(s[i:], "?.["):
			optional = true
			i += 2
		case strings.HasPrefix(s[i:], "?."):
			optional = true
			i += 2
		case s[i] == '.':
			i++
		case s[i] == '[':
		default:
			return nil, "", invalid
		}

		if i < len(s) && s[i] == '[' {
			step, next, ok := parseBracket(s, i)
			if !ok {
				return nil, "", invalid
			}
			step.optional = optional
			steps = append(steps, step)
			i = next
			continue
		}

		name, next := scanIdent(s, i)
		if name == "" {
			return nil, "", invalid
		}
		steps = append(steps, pathStep{key: name, optional: optional})
		i = next
	}
	return steps, root, nil
}

// parseBracket reads a [0] or ["key"] accessor starting at s[i] == '['.
func parseBracket(s string, i int) (pathStep, int, bool) {
	end := strings.IndexByte(s[i:], ']')
	if end == -1 {
		return pathStep{}, 0, false
	}
	inner := strings.TrimSpace(s[i+1 : i+end])
	next := i + end + 1
	if inner == "" {
		return pathStep{}, 0, false
	}

	if inner[0] == '"' || inner[0] == '\'' {
		key, err := unquote(inner)
		if err != nil {
			return pathStep{}, 0, false
		}
		return pathStep{key: key}, next, true
	}

	n, err := strconv.Atoi(inner)
	if err != nil || n < 0 {
		return pathStep{}, 0, false
	}
	return pathStep{index: n, isIndex: true}, next, true
}

// scanIdent reads a JavaScript identifier starting at i.
func scanIdent(s string, i int) (string, int) {
	start := i
	for i < len(s) {
		c := s[i]
		isStart := c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !isStart && (i == start || c < '0' || c > '9') {
			break
		}
		i++
	}
	return s[start:i], i
}

// resolvePath walks steps from the root identifier through scope values.
func resolvePath(root string, steps []pathStep, scope Scope) (any, error) {
	current, ok := scope[root]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedReference, root)
	}

	path := root
	for _, step := range steps {
		if step.isIndex {
			path += "[" + strconv.Itoa(step.index) + "]"
		} else {
			path += "." + step.key
		}

		if current == nil && step.optional {
			return nil, nil
		}
		next, found := member(current, step)
		if !found {
			if step.optional {
				return nil, nil
			}
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedReference, path)
		}
		current = next
	}
	return current, nil
}

// member looks up one step on a map, slice, array, string or struct value.
func member(v any, step pathStep) (any, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		key := step.key
		if step.isIndex {
			key = strconv.Itoa(step.index)
		}
		kv := reflect.ValueOf(key)
		switch rv.Type().Key().Kind() {
		case reflect.String:
			kv = kv.Convert(rv.Type().Key())
		case reflect.Interface:
		default:
			return nil, false
		}
		val := rv.MapIndex(kv)
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true

	case reflect.String:
		// Strings index and count by rune.
		runes := []rune(rv.String())
		if !step.isIndex {
			if step.key == "length" {
				return float64(len(runes)), true
			}
			return nil, false
		}
		if step.index >= len(runes) {
			return nil, false
		}
		return string(runes[step.index]), true

	case reflect.Slice, reflect.Array:
		if !step.isIndex {
			if step.key == "length" {
				return float64(rv.Len()), true
			}
			return nil, false
		}
		if step.index >= rv.Len() {
			return nil, false
		}
		return rv.Index(step.index).Interface(), true

	case reflect.Struct:
		if step.isIndex {
			return nil, false
		}
		field, ok := structField(rv, step.key)
		if !ok {
			return nil, false
		}
		return field.Interface(), true
	}
	return nil, false
}

// structField finds an exported field by json tag or by name.
func structField(rv reflect.Value, key string) (reflect.Value, bool) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == key || (tag == "" && strings.EqualFold(f.Name, key)) {
			return rv.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// textValue converts a resolved value to the text rendered in its place.
// Objects and arrays cannot be rendered as text.
func textValue(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly), nil
		}
		return x.Format(time.RFC3339), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	}
	return "", fmt.Errorf("%w: cannot render %T as text", ErrInvalidExpression, v)
}
