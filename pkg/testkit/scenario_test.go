package testkit_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/testkit"
)

// notes is a tiny handler that powers the testkit self-tests.
func notes(*testing.T) http.Handler {
	var (
		mu   sync.Mutex
		text = map[int]string{}
		next = 0
	)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /notes", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Text string `json:"text"`
		}
		json.NewDecoder(r.Body).Decode(&in) //nolint:errcheck
		mu.Lock()
		next++
		id := next
		text[id] = in.Text
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"data":{"id":%d,"text":%q,"extra":true}}`, id, in.Text)
	})
	mux.HandleFunc("GET /notes/{id}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		var id int
		fmt.Sscan(r.PathValue("id"), &id) //nolint:errcheck
		fmt.Fprintf(w, `{"data":{"id":%d,"text":%q}}`, id, text[id])
	})
	mux.HandleFunc("DELETE /notes/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func TestRunDir(t *testing.T) {
	testkit.RunDir(t, notes, "testdata")
}

func TestLoadScenarioDefaults(t *testing.T) {
	s, err := testkit.LoadScenario("testdata/notes.json")
	require.NoError(t, err)

	assert.Equal(t, "create and read a note", s.Name)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, "GET", s.Steps[1].Method)
	assert.Equal(t, "02 GET /notes/{{id}}", s.Steps[1].Name)
	assert.Equal(t, map[string]string{"id": "data.id"}, s.Steps[0].Capture)
}

func TestDiffJSONIsSubset(t *testing.T) {
	var exp, act interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"a":1,"b":[{"c":"x"}]}`), &exp))
	require.NoError(t, json.Unmarshal([]byte(`{"a":1,"z":2,"b":[{"c":"x","d":4}]}`), &act))
	assert.Empty(t, testkit.DiffJSON("", exp, act))

	require.NoError(t, json.Unmarshal([]byte(`{"a":2,"b":[]}`), &act))
	diffs := testkit.DiffJSON("", exp, act)
	require.Len(t, diffs, 2)
	assert.True(t, strings.Contains(strings.Join(diffs, "\n"), "array length expected=1 actual=0"))
}

func TestLookup(t *testing.T) {
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"data":[{"id":7},{"id":8}]}`), &v))

	got, ok := testkit.Lookup(v, "data.1.id")
	assert.True(t, ok)
	assert.Equal(t, float64(8), got)

	_, ok = testkit.Lookup(v, "data.5.id")
	assert.False(t, ok)
}
