package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/mdourados/foodcourt/internal/config"
	"github.com/mdourados/foodcourt/internal/models"
)

const ItemIndex = "items"

func NewClient(cfg *config.Config) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.ES_URL},
		Username:  cfg.ES_USER,
		Password:  cfg.ES_PASSWORD,
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create es client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es error: %s: %s", res.Status(), body)
	}

	return client, nil
}

func IndexItem(ctx context.Context, client *elasticsearch.Client, item models.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}

	res, err := client.Index(
		ItemIndex,
		bytes.NewReader(data),
		client.Index.WithDocumentID(strconv.Itoa(int(item.ID))),
		client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index item: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index item: %s", res.Status())
	}
	return nil
}

func DeleteItem(ctx context.Context, client *elasticsearch.Client, id uint) error {
	res, err := client.Delete(
		ItemIndex,
		strconv.Itoa(int(id)),
		client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete item: %s", res.Status())
	}
	return nil
}

func SearchItems(ctx context.Context, client *elasticsearch.Client, query string, from, size int) (int64, []models.Item, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(ItemIndex),
		client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Item `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	items := make([]models.Item, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return r.Hits.Total.Value, items, nil
}
