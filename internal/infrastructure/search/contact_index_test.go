package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeeyaD/phonebook-server/internal/domain/entity"
)

type recorded struct {
	method string
	path   string
	body   string
}

// fakeES answers like an Elasticsearch node and records every request.
func fakeES(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*ContactIndex, *[]recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{r.Method, r.URL.Path, string(b)})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handle(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewContactIndex(es, "contacts"), &reqs
}

func TestContactIndex_Index(t *testing.T) {
	idx, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	c := entity.Contact{ID: entity.NewID(), Name: "Arto Hellas", Number: "040-123456", OwnerID: entity.NewID(), UpdatedAt: time.Now()}
	require.NoError(t, idx.Index(context.Background(), c))

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/contacts/_doc/"+c.ID, got.path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(got.body), &doc))
	assert.Equal(t, "Arto Hellas", doc["name"])
	assert.Equal(t, c.OwnerID, doc["owner_id"])
}

func TestContactIndex_Search(t *testing.T) {
	idx, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"a"},{"_id":"b"}]}}`))
	})

	ids, err := idx.Search(context.Background(), "art", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.Len(t, *reqs, 1)
	assert.Equal(t, "/contacts/_search", (*reqs)[0].path)
	assert.True(t, strings.Contains((*reqs)[0].body, `"size":5`))
}

func TestContactIndex_SearchError(t *testing.T) {
	idx, _ := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"unavailable"}`))
	})

	_, err := idx.Search(context.Background(), "art", 5)
	assert.Error(t, err)
}

func TestContactIndex_RemoveMissingIsNotAnError(t *testing.T) {
	idx, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})

	require.NoError(t, idx.Remove(context.Background(), "gone"))
	assert.Equal(t, http.MethodDelete, (*reqs)[0].method)
}

func TestContactIndex_EnsureIndexCreatesOnce(t *testing.T) {
	idx, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	})

	require.NoError(t, idx.EnsureIndex(context.Background()))
	require.Len(t, *reqs, 2)
	assert.Equal(t, http.MethodPut, (*reqs)[1].method)
	assert.Contains(t, (*reqs)[1].body, `"owner_id"`)
}
