package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func scaleServiceSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"service":  {Type: TypeString, MinLength: ptr(1)},
			"replicas": {Type: TypeInteger, Minimum: ptr(0.0)},
		},
		Required: []string{"service", "replicas"},
	}
}

func TestValidate_Success(t *testing.T) {
	result := Validate(map[string]any{"service": "web", "replicas": float64(3)}, scaleServiceSchema())
	require.True(t, result.OK(), "expected no errors, got %+v", result.Errors)
}

func TestValidate_MissingRequiredField(t *testing.T) {
	result := Validate(map[string]any{"service": "web"}, scaleServiceSchema())
	require.False(t, result.OK())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "/replicas", result.Errors[0].Path)
	assert.Equal(t, "required", result.Errors[0].Kind)
}

func TestValidate_AdditionalPropertyRejectedByDefault(t *testing.T) {
	result := Validate(map[string]any{"service": "web", "replicas": float64(1), "extra": true}, scaleServiceSchema())
	require.False(t, result.OK())
	assert.Equal(t, "/extra", result.Errors[0].Path)
	assert.Equal(t, "additionalProperties", result.Errors[0].Kind)
}

func TestValidate_AdditionalPropertiesAllowed(t *testing.T) {
	s := &Schema{Type: TypeObject, Properties: map[string]*Schema{}, AdditionalProperties: true}
	result := Validate(map[string]any{"anything": "goes"}, s)
	assert.True(t, result.OK())
}

func TestValidate_NoStringToIntegerCoercion(t *testing.T) {
	result := Validate(map[string]any{"service": "web", "replicas": "3"}, scaleServiceSchema())
	require.False(t, result.OK())
	assert.Equal(t, "type", result.Errors[0].Kind)
}

func TestValidate_NoStringToBooleanCoercion(t *testing.T) {
	s := &Schema{Type: TypeObject, Properties: map[string]*Schema{"flag": {Type: TypeBoolean}}}
	result := Validate(map[string]any{"flag": "true"}, s)
	require.False(t, result.OK())
	assert.Equal(t, "type", result.Errors[0].Kind)
}

func TestValidate_EnumRejection(t *testing.T) {
	s := &Schema{Type: TypeString, Enum: []any{"start", "stop"}}
	result := Validate("restart", s)
	require.False(t, result.OK())
	assert.Equal(t, "enum", result.Errors[0].Kind)
}

func TestValidate_NestedArrayOfObjects(t *testing.T) {
	s := &Schema{
		Type: TypeArray,
		Items: &Schema{
			Type:       TypeObject,
			Properties: map[string]*Schema{"name": {Type: TypeString}},
			Required:   []string{"name"},
		},
	}
	result := Validate([]any{map[string]any{"name": "a"}, map[string]any{}}, s)
	require.False(t, result.OK())
	assert.Equal(t, "/1/name", result.Errors[0].Path)
}

func TestValidate_PatternConstraint(t *testing.T) {
	s := &Schema{Type: TypeString, Pattern: `^[a-z]+$`}
	assert.True(t, Validate("abc", s).OK())
	assert.False(t, Validate("ABC", s).OK())
}

func TestValidate_MinMaxItems(t *testing.T) {
	s := &Schema{Type: TypeArray, Items: &Schema{Type: TypeString}, MinItems: ptr(1), MaxItems: ptr(2)}
	assert.False(t, Validate([]any{}, s).OK())
	assert.True(t, Validate([]any{"a"}, s).OK())
	assert.False(t, Validate([]any{"a", "b", "c"}, s).OK())
}

func TestToJSONSchema_PreservesShape(t *testing.T) {
	s := scaleServiceSchema()
	js := s.ToJSONSchema()
	require.NotNil(t, js)
	assert.Equal(t, "object", js.Type)
	require.Contains(t, js.Properties, "service")
	assert.Equal(t, "string", js.Properties["service"].Type)
	assert.ElementsMatch(t, []string{"service", "replicas"}, js.Required)
}
