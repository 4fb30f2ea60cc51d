package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type Order struct {
	ID            ExternalID     `json:"id"             validate:"required"`
	Name          string         `json:"name"           validate:"required,max=64"`
	OrderNumber   int64          `json:"order_number"`
	Tags          Tags           `json:"tags"`
	ShippingLines []ShippingLine `json:"shipping_lines"`
}

type ShippingLine struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

// ExternalID is the upstream order id. Upstream ids do not fit a float64, so the
// JSON number is kept as its literal text.
type ExternalID string

func (id *ExternalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("entity.ExternalID: %w", err)
		}
		*id = ExternalID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("entity.ExternalID: %w", err)
	}
	*id = ExternalID(n.String())
	return nil
}

func (id ExternalID) String() string {
	return string(id)
}

// Tags accepts both the comma separated string sent by the upstream platform
// and a plain JSON array.
type Tags []string

func (t *Tags) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}

	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("entity.Tags: %w", err)
		}
		*t = normalizeTags(list)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("entity.Tags: %w", err)
	}
	*t = normalizeTags(strings.Split(s, ","))
	return nil
}

func normalizeTags(raw []string) Tags {
	tags := make(Tags, 0, len(raw))
	for _, tag := range raw {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
