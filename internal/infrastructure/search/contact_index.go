package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/LeeyaD/phonebook-server/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

const contactMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "keyword"},
      "name":       {"type": "text"},
      "number":     {"type": "keyword"},
      "owner_id":   {"type": "keyword"},
      "updated_at": {"type": "date"}
    }
  }
}`

// ContactIndex keeps contacts searchable in Elasticsearch.
type ContactIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewContactIndex(es *elasticsearch.Client, index string) *ContactIndex {
	return &ContactIndex{ES: es, IndexName: index}
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (i *ContactIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := esapi.IndicesExistsRequest{Index: []string{i.IndexName}}.Do(c, i.ES)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = esapi.IndicesCreateRequest{Index: i.IndexName, Body: strings.NewReader(contactMapping)}.Do(c, i.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", i.IndexName, res.Status())
	}
	return nil
}

func (i *ContactIndex) Index(ctx context.Context, ct entity.Contact) error {
	doc := map[string]any{
		"id":         ct.ID,
		"name":       ct.Name,
		"number":     ct.Number,
		"owner_id":   ct.OwnerID,
		"updated_at": ct.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req := esapi.IndexRequest{Index: i.IndexName, DocumentID: ct.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	res, err := req.Do(c, i.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index contact %s: %s", ct.ID, res.Status())
	}
	return nil
}

func (i *ContactIndex) Remove(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.DeleteRequest{Index: i.IndexName, DocumentID: id}.Do(c, i.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remove contact %s: %s", id, res.Status())
	}
	return nil
}

// Search returns the ids of the best matches for q by name or number prefix.
func (i *ContactIndex) Search(ctx context.Context, q string, size int) ([]string, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"should": []any{
					map[string]any{"match": map[string]any{"name": map[string]any{"query": q, "fuzziness": "AUTO"}}},
					map[string]any{"match_phrase_prefix": map[string]any{"name": q}},
					map[string]any{"prefix": map[string]any{"number": q}},
				},
				"minimum_should_match": 1,
			},
		},
		"size":    size,
		"_source": false,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := i.ES.Search(i.ES.Search.WithContext(c), i.ES.Search.WithIndex(i.IndexName), i.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search contacts: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
