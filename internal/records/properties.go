package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// PropertyIndex searches the partner property index.
type PropertyIndex struct {
	client  *elasticsearch.Client
	index   string
	maxRows int
}

func NewPropertyIndex(client *elasticsearch.Client, index string, maxRows int) *PropertyIndex {
	return &PropertyIndex{client: client, index: index, maxRows: maxRows}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Source models.Property `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func partnerQuery(partnerID string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{"partnerId": partnerID},
					},
				},
			},
		},
		"sort": []interface{}{"_doc"},
	}
}

// PartnerProperties returns the partner's listings in index order.
func (p *PropertyIndex) PartnerProperties(ctx context.Context, partnerID string) ([]models.Property, error) {
	body, err := json.Marshal(partnerQuery(partnerID))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	size := p.maxRows
	req := esapi.SearchRequest{
		Index: []string{p.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}

	res, err := req.Do(ctx, p.client)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewSearchTimeoutError(p.index)
		}
		return nil, apperrors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewIndexNotFoundError(p.index)
	}
	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError(p.index, fmt.Errorf("search failed: %s", res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(p.index, err)
	}

	properties := make([]models.Property, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		prop := hit.Source
		if prop.ID == "" {
			prop.ID = hit.ID
		}
		properties = append(properties, prop)
	}
	return properties, nil
}
