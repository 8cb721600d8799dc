package client

import (
	"encoding/json"
	"fmt"
)

// Template fields with a dedicated struct field. Everything else lands in Extra.
var templateKnownFields = map[string]bool{
	"type":            true,
	"catalogItemId":   true,
	"requestedFor":    true,
	"businessGroupId": true,
	"description":     true,
	"reasons":         true,
	"data":            true,
}

// RequestTemplate is the request body skeleton returned by the catalog service
// for an entitled item. Fields the SDK does not know about are kept in Extra
// so a template can be fetched, modified and submitted without loss.
type RequestTemplate struct {
	Type            string         `json:"type,omitempty"`
	CatalogItemID   string         `json:"catalogItemId" jsonschema:"required"`
	RequestedFor    string         `json:"requestedFor,omitempty"`
	BusinessGroupID string         `json:"businessGroupId,omitempty"`
	Description     *string        `json:"description"`
	Reasons         *string        `json:"reasons"`
	Data            map[string]any `json:"data,omitempty"`

	Extra map[string]any `json:"-"`
}

// SetDescription sets the request description.
func (t *RequestTemplate) SetDescription(s string) { t.Description = &s }

// SetReasons sets the request reasons.
func (t *RequestTemplate) SetReasons(s string) { t.Reasons = &s }

// templateFields is RequestTemplate without methods, used to avoid recursion.
type templateFields struct {
	Type            string         `json:"type,omitempty"`
	CatalogItemID   string         `json:"catalogItemId"`
	RequestedFor    string         `json:"requestedFor,omitempty"`
	BusinessGroupID string         `json:"businessGroupId,omitempty"`
	Description     *string        `json:"description"`
	Reasons         *string        `json:"reasons"`
	Data            map[string]any `json:"data,omitempty"`
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (t *RequestTemplate) UnmarshalJSON(data []byte) error {
	var known templateFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	*t = RequestTemplate{
		Type:            known.Type,
		CatalogItemID:   known.CatalogItemID,
		RequestedFor:    known.RequestedFor,
		BusinessGroupID: known.BusinessGroupID,
		Description:     known.Description,
		Reasons:         known.Reasons,
		Data:            known.Data,
	}

	for key, raw := range all {
		if templateKnownFields[key] {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decoding template field %q: %w", key, err)
		}
		if t.Extra == nil {
			t.Extra = make(map[string]any)
		}
		t.Extra[key] = v
	}
	return nil
}

// MarshalJSON encodes the known fields merged with Extra.
func (t RequestTemplate) MarshalJSON() ([]byte, error) {
	m, err := t.ToMap()
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// ToMap returns the template as a generic JSON object.
func (t RequestTemplate) ToMap() (map[string]any, error) {
	data, err := json.Marshal(templateFields{
		Type:            t.Type,
		CatalogItemID:   t.CatalogItemID,
		RequestedFor:    t.RequestedFor,
		BusinessGroupID: t.BusinessGroupID,
		Description:     t.Description,
		Reasons:         t.Reasons,
		Data:            t.Data,
	})
	if err != nil {
		return nil, err
	}

	m := make(map[string]any, len(t.Extra)+len(templateKnownFields))
	for k, v := range t.Extra {
		m[k] = v
	}
	var known map[string]any
	if err := json.Unmarshal(data, &known); err != nil {
		return nil, err
	}
	for k, v := range known {
		m[k] = v
	}
	return m, nil
}

// RequestTemplateFromMap builds a template from a generic JSON object, for
// instance one produced by ToMap and then patched.
func RequestTemplateFromMap(m map[string]any) (*RequestTemplate, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding template: %w", err)
	}
	var t RequestTemplate
	if err := decode(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
