package schema

import (
	jsonschema "github.com/google/jsonschema-go/jsonschema"
)

// ToJSONSchema converts s into a google/jsonschema-go representation, used
// only for publishing a tool's declared schema verbatim in tools/list
// responses (SPEC_FULL.md §4.C). The validation walk in this package never
// goes through this type; it exists purely for the wire representation.
func (s *Schema) ToJSONSchema() *jsonschema.Schema {
	if s == nil {
		return nil
	}

	out := &jsonschema.Schema{
		Type:        string(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		Minimum:     s.Minimum,
		Maximum:     s.Maximum,
		MinLength:   s.MinLength,
		MaxLength:   s.MaxLength,
		Pattern:     s.Pattern,
		MinItems:    s.MinItems,
		MaxItems:    s.MaxItems,
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*jsonschema.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop.ToJSONSchema()
		}
	}
	if s.Items != nil {
		out.Items = s.Items.ToJSONSchema()
	}
	// Closed object schemas publish their closedness: additionalProperties is
	// the "false" schema (matches nothing) unless the schema opts into being
	// an open map.
	if s.Type == TypeObject && !s.AdditionalProperties {
		out.AdditionalProperties = &jsonschema.Schema{Not: &jsonschema.Schema{}}
	}

	return out
}
