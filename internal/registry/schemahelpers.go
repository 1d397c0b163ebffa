package registry

import "github.com/dockermcp/gateway/internal/schema"

// Small builders for the closed object schemas tool definitions declare.
// Kept deliberately terse: schemas here are data, not logic.

func obj(props map[string]*schema.Schema, required ...string) *schema.Schema {
	return &schema.Schema{
		Type:       schema.TypeObject,
		Properties: props,
		Required:   required,
	}
}

func str(desc string) *schema.Schema {
	return &schema.Schema{Type: schema.TypeString, Description: desc}
}

func strEnum(desc string, values ...string) *schema.Schema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return &schema.Schema{Type: schema.TypeString, Description: desc, Enum: enum}
}

func integerMin(desc string, min float64) *schema.Schema {
	return &schema.Schema{Type: schema.TypeInteger, Description: desc, Minimum: &min}
}

func boolean(desc string) *schema.Schema {
	return &schema.Schema{Type: schema.TypeBoolean, Description: desc}
}

func arrayOf(desc string, items *schema.Schema) *schema.Schema {
	return &schema.Schema{Type: schema.TypeArray, Description: desc, Items: items}
}

func object(desc string) *schema.Schema {
	return &schema.Schema{Type: schema.TypeObject, Description: desc, AdditionalProperties: true}
}
