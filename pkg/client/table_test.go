package client_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/catalog/pkg/client"
)

func TestDebouncerRunsOnlyTheLastCall(t *testing.T) {
	d := client.NewDebouncer(30 * time.Millisecond)
	var calls atomic.Int32
	var last atomic.Value

	for _, q := range []string{"l", "la", "lam", "lamp"} {
		q := q
		d.Trigger(func() {
			calls.Add(1)
			last.Store(q)
		})
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "lamp", last.Load())
}

func TestDebouncerStop(t *testing.T) {
	d := client.NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestTableFilterChangesResetPage(t *testing.T) {
	table := client.NewTable(10, time.Hour)
	defer table.Close()

	var mu sync.Mutex
	var seen []client.ListParams
	table.OnChange(func(p client.ListParams) {
		mu.Lock()
		seen = append(seen, p)
		mu.Unlock()
	})

	table.SetPage(3)
	assert.Equal(t, 3, table.Params().Page)

	active := true
	table.SetActive(&active)
	assert.Equal(t, 1, table.Params().Page)
	assert.True(t, *table.Params().Active)

	table.SetPage(2)
	table.SetActive(&active)
	assert.Equal(t, 2, table.Params().Page, "same filter is not a change")

	table.SetPerPage(25)
	assert.Equal(t, client.ListParams{Page: 1, PerPage: 25, Active: &active}, table.Params())

	table.SetActive(nil)
	assert.Nil(t, table.Params().Active)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 5)
}

func TestTableSearchIsDebounced(t *testing.T) {
	table := client.NewTable(10, 40*time.Millisecond)
	defer table.Close()

	table.SetPage(2)
	before := client.ListKey(table.Params())

	table.SetSearch("la")
	table.SetSearch("  lamp ")
	assert.Equal(t, "  lamp ", table.Search())
	assert.Equal(t, before, client.ListKey(table.Params()))
	assert.Equal(t, 2, table.Params().Page)

	assert.Eventually(t, func() bool { return table.Params().Q == "lamp" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, table.Params().Page)
	assert.NotEqual(t, before, client.ListKey(table.Params()))
}

func TestListKey(t *testing.T) {
	active := false
	assert.Equal(t, "products:list:page=1:per_page=10:q=:active=all", client.ListKey(client.ListParams{Page: 1, PerPage: 10}))
	assert.Equal(t, "products:list:page=2:per_page=5:q=lamp:active=false",
		client.ListKey(client.ListParams{Page: 2, PerPage: 5, Q: "lamp", Active: &active}))
	assert.Equal(t, "products:detail:7", client.DetailKey(7))
	assert.Equal(t, "products:audits:7", client.AuditsKey(7))
}
