// Package validate provides struct-tag validation with per-field message lists.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must be present: non-nil pointer, non-blank string
//	nullable            if nil or blank, skip all remaining rules for this field
//	integer             whole number
//	alpha_num           letters and digits only
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	gt=N                number > N
//	gte=N               number >= N
//	lt=N                number < N
//	lte=N               number <= N
//	between=min,max     number or string length between min and max (inclusive)
//	in=a,b,c            value must be one of the listed items
//	regex=pattern       value must match the regex (avoid commas in pattern)
//
// Additional named rules can be added with Extend. Pointer fields are
// dereferenced before rules run. Numbers include every Go numeric kind and any
// type with a Float64() (float64, bool) method, such as decimal.Decimal.
//
// Every failing rule contributes a message, so a field may carry several.
//
//	type ProductDraft struct {
//	    Name  *string          `json:"name"  validate:"required,min=3,max=100"`
//	    Price *decimal.Decimal `json:"price" validate:"required,gt=0"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// Errors maps a field name to its ordered list of messages.
type Errors map[string][]string

// Add appends msg to field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field has at least one message.
func (e Errors) Has(field string) bool { return len(e[field]) > 0 }

// Any reports whether any field failed.
func (e Errors) Any() bool { return len(e) > 0 }

// Merge appends every message of other into e.
func (e Errors) Merge(other Errors) {
	for field, msgs := range other {
		for _, m := range msgs {
			e.Add(field, m)
		}
	}
}

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		parts = append(parts, f+": "+strings.Join(e[f], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// RuleFunc checks a dereferenced value. It returns an empty string on success
// or the message to record for field.
type RuleFunc func(field string, v reflect.Value, param string) string

var (
	customMu sync.RWMutex
	custom   = map[string]RuleFunc{}
)

// Extend registers a named rule usable in `validate` tags. Registering an
// existing name replaces it.
func Extend(name string, fn RuleFunc) {
	customMu.Lock()
	defer customMu.Unlock()
	custom[name] = fn
}

// Struct validates all exported fields of v that carry a `validate` tag.
func Struct(v interface{}) Errors {
	errs := Errors{}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := FieldName(field)
		rules := splitRules(tag)
		value, present := deref(rv.Field(i))

		if !present || isBlank(value) {
			if hasRule(rules, "required") {
				errs.Add(name, fmt.Sprintf("The %s field is required.", name))
				if !present {
					continue
				}
			} else if hasRule(rules, "nullable") || !present {
				continue
			}
		}

		for _, rule := range rules {
			if rule == "required" || rule == "nullable" {
				continue
			}
			if msg := applyRule(rule, name, value); msg != "" {
				errs.Add(name, msg)
			}
		}
	}

	return errs
}

func applyRule(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")
	raw := toString(v)

	switch key {
	case "integer":
		if isNumber(v) {
			if f := toFloat(v); f != float64(int64(f)) {
				return fmt.Sprintf("The %s field must be an integer.", field)
			}
		} else if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return fmt.Sprintf("The %s field must be an integer.", field)
		}
	case "alpha_num":
		for _, c := range raw {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
				return fmt.Sprintf("The %s field must contain only letters and numbers.", field)
			}
		}

	case "min":
		n := parseFloat(param)
		if isNumber(v) {
			if toFloat(v) < n {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
		} else if float64(runeLen(raw)) < n {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
	case "max":
		n := parseFloat(param)
		if isNumber(v) {
			if toFloat(v) > n {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		} else if float64(runeLen(raw)) > n {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	case "gt":
		if !isNumber(v) || toFloat(v) <= parseFloat(param) {
			return fmt.Sprintf("The %s must be greater than %s.", field, param)
		}
	case "gte":
		if !isNumber(v) || toFloat(v) < parseFloat(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lt":
		if !isNumber(v) || toFloat(v) >= parseFloat(param) {
			return fmt.Sprintf("The %s must be less than %s.", field, param)
		}
	case "lte":
		if !isNumber(v) || toFloat(v) > parseFloat(param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}
	case "between":
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			return ""
		}
		l, h := parseFloat(lo), parseFloat(hi)
		if isNumber(v) {
			if f := toFloat(v); f < l || f > h {
				return fmt.Sprintf("The %s must be between %s and %s.", field, lo, hi)
			}
		} else if n := float64(runeLen(raw)); n < l || n > h {
			return fmt.Sprintf("The %s must be between %s and %s characters.", field, lo, hi)
		}

	case "in":
		for _, a := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "regex":
		re, err := compile(param)
		if err != nil {
			return fmt.Sprintf("The %s has an invalid validation pattern.", field)
		}
		if !re.MatchString(raw) {
			return fmt.Sprintf("The %s format is invalid.", field)
		}

	default:
		customMu.RLock()
		fn, ok := custom[key]
		customMu.RUnlock()
		if ok {
			return fn(field, v, param)
		}
	}

	return ""
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

type floater interface {
	Float64() (float64, bool)
}

var (
	regexMu    sync.Mutex
	regexCache = map[string]*regexp.Regexp{}
)

func compile(pattern string) (*regexp.Regexp, error) {
	regexMu.Lock()
	defer regexMu.Unlock()
	if re, ok := regexCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	regexCache[pattern] = re
	return re, nil
}

// deref follows pointers; present is false for a nil pointer or interface.
func deref(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v, false
		}
		v = v.Elem()
	}
	return v, true
}

// isBlank treats only whitespace strings and empty collections as blank.
// Zero numbers and false are real values.
func isBlank(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	}
	return false
}

func isNumber(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	if v.CanInterface() {
		_, ok := v.Interface().(floater)
		return ok
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	if v.CanInterface() {
		if f, ok := v.Interface().(floater); ok {
			n, _ := f.Float64()
			return n
		}
	}
	return parseFloat(toString(v))
}

func toString(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	if !v.IsValid() || !v.CanInterface() {
		return ""
	}
	return fmt.Sprintf("%v", v.Interface())
}

func runeLen(s string) int { return len([]rune(s)) }

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

// FieldName returns the json name of f, falling back to its lowercased Go name.
func FieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	return name
}

// splitRules splits the validate tag by comma while keeping the parameters of
// in= and between= intact.
// e.g. "required,in=a,b,c,max=100" → ["required","in=a,b,c","max=100"]
func splitRules(tag string) []string {
	var (
		rules   []string
		current strings.Builder
		inParam bool
	)

	for i := 0; i < len(tag); i++ {
		ch := tag[i]
		if ch != ',' {
			current.WriteByte(ch)
			if !inParam {
				s := current.String()
				inParam = s == "in=" || s == "between="
			}
			continue
		}
		if inParam && !looksLikeNewRule(tag[i+1:]) {
			current.WriteByte(ch)
			continue
		}
		rules = append(rules, strings.TrimSpace(current.String()))
		current.Reset()
		inParam = false
	}
	if current.Len() > 0 {
		rules = append(rules, strings.TrimSpace(current.String()))
	}
	return rules
}

func looksLikeNewRule(s string) bool {
	known := []string{
		"required", "nullable", "integer", "alpha_num", "regex=", "min=", "max=",
		"gt=", "gte=", "lt=", "lte=", "in=", "between=",
	}
	for _, k := range known {
		if strings.HasPrefix(s, k) {
			return true
		}
	}
	customMu.RLock()
	defer customMu.RUnlock()
	for name := range custom {
		if strings.HasPrefix(s, name) {
			return true
		}
	}
	return false
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if r == target {
			return true
		}
	}
	return false
}
