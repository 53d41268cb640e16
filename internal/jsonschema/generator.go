// Package jsonschema renders Go parameter structs into the inline JSON Schema
// that MCP tool definitions carry as inputSchema.
package jsonschema

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
)

var emptyObject = json.RawMessage(`{"type":"object","properties":{}}`)

// GenerateSchemaForType uses reflection to create a JSON schema for a given Go struct type.
//
// Properties are named after the json tag, documented from the description tag,
// and required only when the json tag lacks omitempty.
func GenerateSchemaForType(t reflect.Type) (json.RawMessage, error) {
	if t == nil {
		return emptyObject, nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return emptyObject, nil
	}

	// Hosts expect the schema fully inlined, so no $defs/$ref.
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(reflect.New(t).Interface())
	schema.Version = ""
	schema.ID = ""

	// invopop only reads jsonschema:"description=..." so copy plain description tags over.
	if schema.Properties != nil {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			name, ok := jsonName(field)
			if !ok {
				continue
			}
			desc := field.Tag.Get("description")
			if desc == "" {
				continue
			}
			if prop, ok := schema.Properties.Get(name); ok {
				prop.Description = desc
			}
		}
	}

	b, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

func jsonName(field reflect.StructField) (string, bool) {
	if !field.IsExported() {
		return "", false
	}
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		name = field.Name
	}
	return name, true
}
