package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool checks the output type of a tool with CheckOutputSchema and
// registers it. Misdeclared outputs panic at startup instead of failing the
// first call that returns them.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema panics when the output type T of toolName would produce
// structured content that fails the schema the SDK infers from T:
//
//   - a field whose type has its own MarshalJSON (time.Time, json.RawMessage,
//     client.RequestTemplate). The inferred schema follows the Go struct, the
//     encoded value does not. Tool outputs carry timestamps as RFC 3339
//     strings and raw vRA documents as map[string]any.
//   - a zero value that does not validate, usually a nil slice encoded as
//     null where the schema expects an array. Tag such fields omitempty.
//
// The untyped "any" output is not checked. Schema inference errors are left
// for the SDK to report.
func CheckOutputSchema[T any](toolName string) {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if paths := findMarshalerFields(rt, nil, make(map[reflect.Type]bool)); len(paths) > 0 {
		panic(fmt.Sprintf(
			"tool %q: output type %s has custom JSON encoding at %s\n"+
				"  the inferred schema describes the Go type, not its JSON encoding\n"+
				"  fix: use a string for times and map[string]any for raw documents",
			toolName, rt, strings.Join(paths, ", "),
		))
	}

	schema, err := jsonschema.ForType(rt, &jsonschema.ForOptions{})
	if err != nil {
		return
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return
	}

	data, err := json.Marshal(reflect.Zero(rt).Interface())
	if err != nil {
		return
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return
	}

	if err := resolved.Validate(&v); err != nil {
		panic(fmt.Sprintf(
			"tool %q: zero value of output type %s fails its schema: %v\n"+
				"  JSON: %s\n"+
				"  fix: tag nil-defaulting slice and map fields omitempty",
			toolName, rt, err, data,
		))
	}
}

var marshalerType = reflect.TypeFor[json.Marshaler]()

func hasCustomJSON(t reflect.Type) bool {
	return t.Implements(marshalerType) || (t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(marshalerType))
}

// findMarshalerFields returns the paths below t whose type implements
// json.Marshaler.
func findMarshalerFields(t reflect.Type, path []string, visited map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if len(path) > 0 && hasCustomJSON(t) {
		return []string{strings.Join(path, ".")}
	}
	if visited[t] {
		return nil
	}
	visited[t] = true
	defer delete(visited, t)

	var found []string
	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("json") == "-" {
				continue
			}
			found = append(found, findMarshalerFields(f.Type, append(path, f.Name), visited)...)
		}
	case reflect.Slice, reflect.Array:
		found = append(found, findMarshalerFields(t.Elem(), append(path, "[]"), visited)...)
	case reflect.Map:
		found = append(found, findMarshalerFields(t.Elem(), append(path, "[value]"), visited)...)
	}
	return found
}
