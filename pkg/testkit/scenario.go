// Package testkit drives REST API tests from JSON scenario files.
//
// A scenario is an ordered list of steps fired against one http.Handler.
// Later steps can reference values captured from earlier responses:
//
//	{
//	  "name": "create then show",
//	  "steps": [
//	    {"method": "POST", "url": "/products", "body": {"name": "Lamp", ...},
//	     "expectStatus": 201, "capture": {"id": "data.id"}},
//	    {"method": "GET", "url": "/products/{{id}}", "expectStatus": 200,
//	     "expectBody": {"data": {"name": "Lamp"}}}
//	  ]
//	}
//
// expectBody is matched as a subset: every key it names must be present with
// an equal value, extra keys in the response are ignored. Arrays must have
// the same length.
//
//	testkit.RunDir(t, handler, "testdata")
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scenario is one JSON scenario file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
}

// Step is one request and its expectations.
type Step struct {
	Name    string            `json:"name"`
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`

	// Body is sent verbatim after variable substitution. RawBody wins when
	// both are set and lets a step send malformed JSON.
	Body    json.RawMessage `json:"body"`
	RawBody string          `json:"rawBody"`

	ExpectStatus int               `json:"expectStatus"`
	ExpectBody   json.RawMessage   `json:"expectBody"`
	ExpectEmpty  bool              `json:"expectEmpty"`
	ExpectHeader map[string]string `json:"expectHeader"`

	// Capture maps a variable name to a dotted path into the response body,
	// e.g. "data.id" or "data.0.sku".
	Capture map[string]string `json:"capture"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", path, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", path, err)
	}
	return &s, nil
}

// LoadAllFromDir loads every *.json file in dir, sorted by file name.
func LoadAllFromDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("testkit: no scenario files found in %q", dir)
	}

	out := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (s *Scenario) validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		if st.URL == "" {
			return fmt.Errorf("steps[%d].url is required", i)
		}
		if st.ExpectStatus == 0 {
			return fmt.Errorf("steps[%d].expectStatus is required", i)
		}
		if st.Method == "" {
			st.Method = "GET"
		}
		st.Method = strings.ToUpper(st.Method)
		if st.Name == "" {
			st.Name = fmt.Sprintf("%02d %s %s", i+1, st.Method, st.URL)
		}
	}
	return nil
}
