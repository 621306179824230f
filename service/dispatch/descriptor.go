package dispatch

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/viant/agui/extension"
	"github.com/viant/agui/policy"
	"github.com/viant/agui/protocol"
	"github.com/viant/agui/service/llm"
)

// Descriptors lists the backend tools offered to the model for a run: every
// non-internal registry method the active policy allows.
func Descriptors(ctx context.Context, actions *extension.Actions) []llm.Tool {
	pol := policy.FromContext(ctx)
	var ret []llm.Tool
	for _, service := range actions.Services() {
		for _, signature := range service.Methods() {
			if signature.Internal {
				continue
			}
			if pol != nil && !pol.IsAllowed(signature.Name) {
				continue
			}
			ret = append(ret, llm.Tool{
				Name:        signature.Name,
				Description: signature.Description,
				Parameters:  inputSchema(signature.Input),
			})
		}
	}
	return ret
}

// mergeFrontendTools appends UI-supplied tool descriptors to the backend
// inventory.  Backend tools win on a name collision.  The returned set marks
// which names the UI executes.
func mergeFrontendTools(tools []llm.Tool, descriptors []*protocol.ToolDescriptor) ([]llm.Tool, map[string]bool) {
	known := map[string]bool{}
	for _, tool := range tools {
		known[tool.Name] = true
	}
	frontend := map[string]bool{}
	for _, descriptor := range descriptors {
		if descriptor == nil || descriptor.Name == "" || known[descriptor.Name] {
			continue
		}
		parameters := map[string]interface{}{}
		if len(descriptor.Parameters) > 0 {
			_ = json.Unmarshal(descriptor.Parameters, &parameters)
		}
		if len(parameters) == 0 {
			parameters = map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
		}
		tools = append(tools, llm.Tool{
			Name:        descriptor.Name,
			Description: descriptor.Description,
			Parameters:  parameters,
		})
		known[descriptor.Name] = true
		frontend[descriptor.Name] = true
	}
	return tools, frontend
}

// inputSchema derives a JSON schema object from a tool input struct type.
// Field names come from json tags, documentation from description tags;
// fields without omitempty are required.
func inputSchema(input reflect.Type) map[string]interface{} {
	for input != nil && input.Kind() == reflect.Ptr {
		input = input.Elem()
	}
	properties := map[string]interface{}{}
	var required []string
	if input != nil && input.Kind() == reflect.Struct {
		for i := 0; i < input.NumField(); i++ {
			field := input.Field(i)
			if field.PkgPath != "" {
				continue
			}
			name, optional := jsonName(field)
			if name == "" {
				continue
			}
			property := schemaOf(field.Type)
			if description := field.Tag.Get("description"); description != "" {
				property["description"] = description
			}
			properties[name] = property
			if !optional {
				required = append(required, name)
			}
		}
	}
	schema := map[string]interface{}{"type": "object", "properties": properties}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func jsonName(field reflect.StructField) (name string, optional bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = field.Name
	}
	for _, part := range parts[1:] {
		if part == "omitempty" {
			optional = true
		}
	}
	return name, optional
}

func schemaOf(t reflect.Type) map[string]interface{} {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return map[string]interface{}{"type": "string"}
	case reflect.Bool:
		return map[string]interface{}{"type": "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]interface{}{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]interface{}{"type": "number"}
	case reflect.Slice, reflect.Array:
		return map[string]interface{}{"type": "array", "items": schemaOf(t.Elem())}
	default:
		return map[string]interface{}{"type": "object"}
	}
}
