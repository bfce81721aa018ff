package repository

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

// DecodeList decodes a list response that is either a bare JSON array or an
// object carrying the array under "data".
func DecodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil
	}
	var envelope struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if envelope.Data == nil {
		return []T{}, nil
	}
	return envelope.Data, nil
}

// DecodeObject decodes a single value that is either bare or wrapped under
// "data".
func DecodeObject[T any](body []byte) (T, error) {
	var out T
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return out, fmt.Errorf("decode object: empty body")
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err == nil {
		if data, ok := probe["data"]; ok {
			if err := json.Unmarshal(data, &out); err != nil {
				return out, fmt.Errorf("decode object: %w", err)
			}
			return out, nil
		}
	}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return out, fmt.Errorf("decode object: %w", err)
	}
	return out, nil
}

// DecodePage decodes a notification category response. A missing total
// defaults to the number of items returned.
func DecodePage(body []byte) (Page, error) {
	items, err := DecodeList[json.RawMessage](body)
	if err != nil {
		return Page{}, err
	}
	page := Page{Total: -1}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var meta struct {
			Total *int `json:"total"`
			Meta  *struct {
				Total *int `json:"total"`
			} `json:"meta"`
		}
		if err := json.Unmarshal(trimmed, &meta); err != nil {
			return Page{}, fmt.Errorf("decode page: %w", err)
		}
		switch {
		case meta.Total != nil:
			page.Total = *meta.Total
		case meta.Meta != nil && meta.Meta.Total != nil:
			page.Total = *meta.Meta.Total
		}
	}
	page.Items = make([]domain.Notification, 0, len(items))
	for _, raw := range items {
		var n domain.Notification
		if err := json.Unmarshal(raw, &n); err != nil {
			return Page{}, fmt.Errorf("decode page: %w", err)
		}
		page.Items = append(page.Items, n)
	}
	if page.Total < 0 {
		page.Total = len(page.Items)
	}
	return page, nil
}
