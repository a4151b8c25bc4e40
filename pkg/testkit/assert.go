package testkit

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertJSONSubset checks that every value in expected also appears in actual
// at the same path. Extra object keys in actual are ignored.
func AssertJSONSubset(t *testing.T, expected, actual []byte, msgAndArgs ...interface{}) bool {
	t.Helper()

	var exp, act interface{}
	if err := json.Unmarshal(expected, &exp); err != nil {
		return assert.Fail(t, fmt.Sprintf("expected value is not JSON: %v", err), msgAndArgs...)
	}
	if err := json.Unmarshal(actual, &act); err != nil {
		return assert.Fail(t, fmt.Sprintf("actual value is not JSON: %v\n%s", err, actual), msgAndArgs...)
	}

	diffs := DiffJSON("", exp, act)
	if len(diffs) == 0 {
		return true
	}
	return assert.Fail(t, "JSON subset mismatch:\n"+strings.Join(diffs, "\n")+"\nactual: "+string(actual), msgAndArgs...)
}

// DiffJSON lists where actual does not contain expected.
func DiffJSON(path string, expected, actual interface{}) []string {
	var diffs []string
	switch exp := expected.(type) {
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected object, got %T", keyPath(path), actual))
		}
		for k, ev := range exp {
			p := path + "." + k
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, fmt.Sprintf("  %s: missing in actual", keyPath(p)))
				continue
			}
			diffs = append(diffs, DiffJSON(p, ev, av)...)
		}
	case []interface{}:
		act, ok := actual.([]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected array, got %T", keyPath(path), actual))
		}
		if len(exp) != len(act) {
			diffs = append(diffs, fmt.Sprintf("  %s: array length expected=%d actual=%d", keyPath(path), len(exp), len(act)))
		}
		for i := 0; i < len(exp) && i < len(act); i++ {
			diffs = append(diffs, DiffJSON(fmt.Sprintf("%s.%d", path, i), exp[i], act[i])...)
		}
	default:
		if !reflect.DeepEqual(expected, actual) {
			diffs = append(diffs, fmt.Sprintf("  %s:\n    - %v\n    + %v", keyPath(path), expected, actual))
		}
	}
	return diffs
}

// Lookup walks a dotted path such as "data.0.id" through decoded JSON.
func Lookup(v interface{}, path string) (interface{}, bool) {
	if path == "" {
		return v, true
	}
	for _, part := range strings.Split(path, ".") {
		switch node := v.(type) {
		case map[string]interface{}:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			v = next
		case []interface{}:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			v = node[i]
		default:
			return nil, false
		}
	}
	return v, true
}

func keyPath(path string) string {
	if path == "" {
		return "root"
	}
	return strings.TrimPrefix(path, ".")
}
