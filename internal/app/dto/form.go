package dto

import (
	"encoding/json"
	"fmt"
)

// FormConfig is a form definition. Known top-level keys are typed; any other key
// the builder sends is kept in Extra and written back unchanged.
type FormConfig struct {
	ID               string            `json:"id,omitempty"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Theme            map[string]string `json:"theme,omitempty"`
	Fields           []Field           `json:"fields"`
	Calculation      Toggle            `json:"calculation"`
	Payment          Toggle            `json:"payment"`
	ConditionalLogic []json.RawMessage `json:"conditionalLogic"`
	Active           *bool             `json:"active,omitempty"`
	CreatedAt        string            `json:"createdAt,omitempty"`
	UpdatedAt        string            `json:"updatedAt,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var formConfigKeys = []string{
	"id", "title", "description", "theme", "fields", "calculation",
	"payment", "conditionalLogic", "active", "createdAt", "updatedAt",
}

type formConfigAlias FormConfig

func (f FormConfig) MarshalJSON() ([]byte, error) {
	alias := formConfigAlias(f)
	if alias.Fields == nil {
		alias.Fields = []Field{}
	}
	if alias.ConditionalLogic == nil {
		alias.ConditionalLogic = []json.RawMessage{}
	}
	return marshalWithExtra(alias, f.Extra)
}

func (f *FormConfig) UnmarshalJSON(data []byte) error {
	var alias formConfigAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	extra, err := collectExtra(data, formConfigKeys)
	if err != nil {
		return err
	}
	*f = FormConfig(alias)
	f.Extra = extra
	return nil
}

// Field is one field descriptor. Type-specific options (choices, placeholder,
// min/max, ...) stay opaque in Options.
type Field struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Label    string `json:"label"`
	Required bool   `json:"required"`

	Options map[string]json.RawMessage `json:"-"`
}

type fieldAlias Field

func (f Field) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(fieldAlias(f), f.Options)
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var alias fieldAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	options, err := collectExtra(data, []string{"id", "type", "label", "required"})
	if err != nil {
		return err
	}
	*f = Field(alias)
	f.Options = options
	return nil
}

// Toggle is a nested feature block (calculation, payment) with an enabled flag.
type Toggle struct {
	Enabled bool `json:"enabled"`

	Settings map[string]json.RawMessage `json:"-"`
}

type toggleAlias Toggle

func (t Toggle) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(toggleAlias(t), t.Settings)
}

func (t *Toggle) UnmarshalJSON(data []byte) error {
	var alias toggleAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	settings, err := collectExtra(data, []string{"enabled"})
	if err != nil {
		return err
	}
	*t = Toggle(alias)
	t.Settings = settings
	return nil
}

func marshalWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	known, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return known, nil
	}

	merged := make(map[string]json.RawMessage, len(extra)+8)
	for k, raw := range extra {
		merged[k] = raw
	}
	var typed map[string]json.RawMessage
	if err := json.Unmarshal(known, &typed); err != nil {
		return nil, fmt.Errorf("remarshal known keys: %w", err)
	}
	for k, raw := range typed {
		merged[k] = raw
	}
	return json.Marshal(merged)
}

func collectExtra(data []byte, known []string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// DefaultFormConfig is served for any form id no store knows about.
func DefaultFormConfig() FormConfig {
	return FormConfig{
		ID:          "default",
		Title:       "Sample Form",
		Description: "This is a sample form",
		Theme: map[string]string{
			"primaryColor":    "#6366f1",
			"accentColor":     "#8b5cf6",
			"backgroundColor": "#0f172a",
		},
		Fields: []Field{
			{ID: "name", Type: "text", Label: "Full Name", Required: true},
			{ID: "email", Type: "email", Label: "Email Address", Required: true},
		},
		Calculation:      Toggle{Enabled: false},
		Payment:          Toggle{Enabled: false},
		ConditionalLogic: []json.RawMessage{},
	}
}
