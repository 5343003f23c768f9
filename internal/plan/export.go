package plan

import (
	"encoding/json"
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Marshal encodes the plan in the storage representation (JSON).
func Marshal(p *Plan) ([]byte, error) {
	return json.Marshal(p)
}

// Unmarshal decodes a stored plan. The counters are recomputed from the tree.
func Unmarshal(data []byte) (*Plan, error) {
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	p.Recount()
	return &p, nil
}

// Export renders the plan in a human-editable format (json or yaml).
func Export(p *Plan, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return json.MarshalIndent(p, "", "  ")
	case FormatYAML:
		return yaml.Marshal(p)
	default:
		return nil, fmt.Errorf("unsupported export format: %s (supported: json, yaml)", format)
	}
}
