// Package bind decodes an HTTP request body into a struct, reporting every
// problem against the field that caused it.
//
//	var in ProductInput
//	if errs := bind.JSON(r, &in, config.MaxBodyBytes()); errs.Any() {
//	    // {"price": ["The price field is invalid."]}
//	}
//
// Validation rules are not run here; the caller validates once the input
// has been normalized.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/shashiranjanraj/catalog/pkg/validate"
)

// BodyField is the key used for problems with the body as a whole.
const BodyField = "body"

// DefaultMaxBytes caps the body when no limit is given.
const DefaultMaxBytes int64 = 1 << 20

// JSON decodes r.Body, a JSON object, into the struct pointed to by dest.
// Unknown keys are ignored. A key whose value has the wrong type is reported
// under that key; a malformed or oversized body is reported under "body".
func JSON(r *http.Request, dest interface{}, maxBytes int64) validate.Errors {
	errs := validate.Errors{}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if r.Body == nil || r.Body == http.NoBody {
		errs.Add(BodyField, "The body must be a JSON object.")
		return errs
	}
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			errs.Add(BodyField, fmt.Sprintf("The body may not be greater than %d bytes.", maxErr.Limit))
		} else {
			errs.Add(BodyField, "The body must be a JSON object.")
		}
		return errs
	}

	rv := reflect.ValueOf(dest).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := validate.FieldName(field)
		value, ok := raw[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, rv.Field(i).Addr().Interface()); err != nil {
			errs.Add(name, fmt.Sprintf("The %s field is invalid.", name))
		}
	}
	return errs
}
