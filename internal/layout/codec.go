package layout

// codec.go parses and serializes templates. The store keeps one JSON document
// per client; the admin API additionally accepts and produces YAML so layouts
// can be edited offline and kept under version control.

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseJSON decodes a template from its stored JSON form. Syntax errors are
// reported as ErrInvalid so callers treat malformed stored layouts the same
// way as layouts that violate the structural invariants.
func ParseJSON(data []byte) (*Template, error) {
	var t Template
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: parse json: %v", ErrInvalid, err)
	}
	return &t, nil
}

// EncodeJSON serializes a template to the stored JSON form.
func EncodeJSON(t *Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ParseYAML decodes a template from its YAML interchange form.
func ParseYAML(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %v", ErrInvalid, err)
	}
	return &t, nil
}

// EncodeYAML serializes a template to its YAML interchange form.
func EncodeYAML(t *Template) ([]byte, error) {
	return yaml.Marshal(t)
}
