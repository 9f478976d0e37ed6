package netbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/opsfix/netbox-fixjson/utils"
)

// RequestError is returned when NetBox rejects a write. It is the
// per-record "request rejected" condition: the record stays broken but the
// batch continues.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("NetBox rejected the request: status %d - %s", e.StatusCode, e.Body)
}

// Endpoint addresses one object type, e.g. ipam/prefixes.
type Endpoint struct {
	client     *Client
	module     string
	objectType string
	path       string
}

func (e *Endpoint) String() string {
	return fmt.Sprintf("%s.%s", e.module, e.objectType)
}

// listResponse is one page of a NetBox list endpoint.
type listResponse struct {
	Count   int               `json:"count"`
	Next    *string           `json:"next"`
	Results []json.RawMessage `json:"results"`
}

// recordPayload is the subset of a NetBox object this tool reads.
type recordPayload struct {
	ID           int64          `json:"id"`
	URL          string         `json:"url"`
	Display      string         `json:"display"`
	CustomFields map[string]any `json:"custom_fields"`
}

// All fetches every object of the endpoint, following pagination. Transient
// server errors during a page fetch are retried with backoff; a permanent
// failure aborts the whole run, there is nothing useful to repair from a
// partial record set.
func (e *Endpoint) All(ctx context.Context) ([]*Record, error) {
	url := fmt.Sprintf("%s%s?limit=%d", e.client.baseURL, e.path, e.client.pageSize)

	var records []*Record
	for url != "" {
		pageURL := url
		body, err := utils.Retry(ctx, e.client.logger, e.client.maxRetries, e.client.initialBackoff,
			func(ctx context.Context) ([]byte, error) {
				return e.client.get(ctx, pageURL)
			})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", e, err)
		}

		var page listResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to decode %s list response: %w", e, err)
		}

		for _, raw := range page.Results {
			var payload recordPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return nil, fmt.Errorf("failed to decode %s object: %w", e, err)
			}
			records = append(records, &Record{
				client:       e.client,
				endpoint:     e,
				ID:           payload.ID,
				URL:          payload.URL,
				Display:      payload.Display,
				CustomFields: payload.CustomFields,
			})
		}

		if page.Next != nil && *page.Next != "" {
			url = *page.Next
		} else {
			url = ""
		}
	}

	e.client.logger.Info("Fetched records",
		zap.Stringer("endpoint", e),
		zap.Int("count", len(records)))
	return records, nil
}

// Record is one NetBox object with its custom fields.
type Record struct {
	client   *Client
	endpoint *Endpoint

	ID           int64
	URL          string
	Display      string
	CustomFields map[string]any
}

func (r *Record) String() string {
	if r.Display != "" {
		return fmt.Sprintf("%s (id %d)", r.Display, r.ID)
	}
	return fmt.Sprintf("id %d", r.ID)
}

// CustomField returns the decoded value of the named custom field, or nil
// when the field is absent.
func (r *Record) CustomField(name string) any {
	return r.CustomFields[name]
}

// Update patches the object's custom fields with a single attempt. A non-2xx
// response becomes *RequestError. On success the local copy is refreshed so
// a subsequent classification sees the fixed value.
func (r *Record) Update(ctx context.Context, customFields map[string]any) error {
	payload, err := json.Marshal(map[string]any{"custom_fields": customFields})
	if err != nil {
		return fmt.Errorf("failed to encode update payload: %w", err)
	}

	url := r.URL
	if url == "" {
		url = fmt.Sprintf("%s%s%d/", r.client.baseURL, r.endpoint.path, r.ID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create update request: %w", err)
	}
	r.client.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("update request to NetBox failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read update response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if r.CustomFields == nil {
		r.CustomFields = make(map[string]any, len(customFields))
	}
	for name, value := range customFields {
		r.CustomFields[name] = value
	}
	return nil
}
