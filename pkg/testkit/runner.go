package testkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.]+)\s*\}\}`)

// Run loads one scenario file and runs it as a subtest.
func Run(t *testing.T, handler http.Handler, path string) {
	t.Helper()

	s, err := LoadScenario(path)
	require.NoError(t, err)
	t.Run(s.Name, func(t *testing.T) { RunScenario(t, handler, s) })
}

// RunDir runs every scenario in dir as a subtest. Each scenario gets a fresh
// handler from newHandler so scenarios never see each other's data.
func RunDir(t *testing.T, newHandler func(t *testing.T) http.Handler, dir string) {
	t.Helper()

	scenarios, err := LoadAllFromDir(dir)
	require.NoError(t, err)
	for _, s := range scenarios {
		s := s
		t.Run(s.Name, func(t *testing.T) { RunScenario(t, newHandler(t), s) })
	}
}

// RunScenario fires every step in order and stops at the first step whose
// request cannot be built.
func RunScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	vars := map[string]string{}
	for _, st := range s.Steps {
		if !runStep(t, handler, st, vars) {
			return
		}
	}
}

func runStep(t *testing.T, handler http.Handler, st Step, vars map[string]string) bool {
	t.Helper()

	url := expand(st.URL, vars)
	body := st.RawBody
	if body == "" && len(st.Body) > 0 {
		body = string(st.Body)
	}
	body = expand(body, vars)

	if unresolved := placeholder.FindString(url + body); unresolved != "" {
		t.Errorf("[%s] unresolved variable %s", st.Name, unresolved)
		return false
	}

	req := httptest.NewRequest(st.Method, url, strings.NewReader(body))
	req.Header.Set("Accept", "application/json")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range st.Headers {
		req.Header.Set(k, expand(v, vars))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, st.ExpectStatus, rec.Code, "[%s] status (body: %s)", st.Name, rec.Body.String())
	for k, v := range st.ExpectHeader {
		assert.Equal(t, v, rec.Header().Get(k), "[%s] header %s", st.Name, k)
	}
	if st.ExpectEmpty {
		assert.Empty(t, rec.Body.String(), "[%s] body", st.Name)
	}

	var actual interface{}
	if len(st.ExpectBody) > 0 || len(st.Capture) > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &actual); err != nil {
			t.Errorf("[%s] response is not JSON: %v\nbody: %s", st.Name, err, rec.Body.String())
			return false
		}
	}
	if len(st.ExpectBody) > 0 {
		AssertJSONSubset(t, []byte(expand(string(st.ExpectBody), vars)), rec.Body.Bytes(), "[%s]", st.Name)
	}

	for name, path := range st.Capture {
		v, ok := Lookup(actual, path)
		if !ok {
			t.Errorf("[%s] capture %s: path %q not found", st.Name, name, path)
			return false
		}
		vars[name] = scalar(v)
	}
	return true
}

func expand(s string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		if v, ok := vars[name]; ok {
			return v
		}
		return m
	})
}

func scalar(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%v", x)
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}
