package tools

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/usestring/vra-mcp/pkg/client"
)

func TestCheckOutputSchema(t *testing.T) {
	type machine struct {
		ID       string `json:"id"`
		LeaseEnd string `json:"lease_end,omitempty"`
	}
	type nested struct {
		Request struct {
			Submitted time.Time `json:"submitted"`
		} `json:"request"`
	}

	tests := []struct {
		name   string
		check  func()
		panics bool
	}{
		{
			name: "nil slice without omitempty",
			check: func() {
				CheckOutputSchema[struct {
					Machines []machine `json:"machines"`
				}]("nil_slice")
			},
			panics: true,
		},
		{
			name: "slice with omitempty",
			check: func() {
				CheckOutputSchema[struct {
					Machines []machine `json:"machines,omitempty"`
					Total    int       `json:"total"`
				}]("omitempty_slice")
			},
		},
		{
			name: "slice with omitzero",
			check: func() {
				CheckOutputSchema[struct {
					Values []any `json:"values,omitzero"`
				}]("omitzero_slice")
			},
		},
		{
			name: "pointer to slice",
			check: func() {
				CheckOutputSchema[struct {
					Machines *[]machine `json:"machines"`
				}]("pointer_slice")
			},
		},
		{
			name:  "untyped output",
			check: func() { CheckOutputSchema[any]("untyped") },
		},
		{
			name: "raw document as map",
			check: func() {
				CheckOutputSchema[struct {
					Template map[string]any `json:"template,omitempty"`
				}]("map_document")
			},
		},
		{
			name: "time field",
			check: func() {
				CheckOutputSchema[struct {
					DateCreated time.Time `json:"date_created"`
				}]("time_field")
			},
			panics: true,
		},
		{
			name:   "nested time field",
			check:  func() { CheckOutputSchema[nested]("nested_time") },
			panics: true,
		},
		{
			name: "raw message slice",
			check: func() {
				CheckOutputSchema[struct {
					Events []json.RawMessage `json:"events,omitempty"`
				}]("raw_messages")
			},
			panics: true,
		},
		{
			name: "request template",
			check: func() {
				CheckOutputSchema[struct {
					Template *client.RequestTemplate `json:"template,omitempty"`
				}]("request_template")
			},
			panics: true,
		},
		{
			name: "ignored field",
			check: func() {
				CheckOutputSchema[struct {
					ID     string    `json:"id"`
					Cached time.Time `json:"-"`
				}]("ignored_field")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.panics {
				assert.Panics(t, tt.check)
			} else {
				assert.NotPanics(t, tt.check)
			}
		})
	}
}
