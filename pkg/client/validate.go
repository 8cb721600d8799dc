package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	schemagen "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Records are validated against a JSON Schema reflected from their Go type
// before being decoded. Fields tagged `jsonschema:"required"` must be present
// and non-null; every other field may be missing or null.

// schemaCache holds compiled schemas keyed by reflect.Type.
var schemaCache sync.Map

// printer is a default English printer for localized error messages.
var printer = message.NewPrinter(language.English)

// decode validates body against the schema of result's type and unmarshals it.
func decode(body []byte, result any) error {
	rt := reflect.TypeOf(result)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if rt.Kind() == reflect.Struct || rt.Kind() == reflect.Slice {
		if err := validate(rt, body); err != nil {
			return err
		}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return &ParseError{Type: typeName(rt), Body: body, Err: err}
	}
	return nil
}

// validate checks body against the schema for rt.
func validate(rt reflect.Type, body []byte) error {
	sch, err := schemaFor(rt)
	if err != nil {
		return fmt.Errorf("building schema for %s: %w", typeName(rt), err)
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return &ParseError{Type: typeName(rt), Body: body, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	if err := sch.Validate(value); err != nil {
		return &ParseError{Type: typeName(rt), Problems: validationProblems(err), Body: body, Err: err}
	}
	return nil
}

// schemaFor returns the compiled schema for rt, building it on first use.
func schemaFor(rt reflect.Type) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(rt); ok {
		return cached.(*jsonschema.Schema), nil
	}

	reflector := &schemagen.Reflector{
		Anonymous:                  true,
		DoNotReference:             true,
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
	}
	generated := reflector.ReflectFromType(rt)
	relaxOptional(generated)

	// Convert to JSON and back to get a clean map[string]any
	raw, err := json.Marshal(generated)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.json", doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	compiled, err := compiler.Compile("record.json")
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	actual, _ := schemaCache.LoadOrStore(rt, compiled)
	return actual.(*jsonschema.Schema), nil
}

// relaxOptional lets every non-required property be null, recursively.
// vRA sends null for unset optional fields.
func relaxOptional(s *schemagen.Schema) {
	if s == nil {
		return
	}
	relaxOptional(s.Items)
	for _, branch := range s.AnyOf {
		relaxOptional(branch)
	}
	if s.Properties == nil {
		return
	}

	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}

	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		relaxOptional(pair.Value)
		if !required[pair.Key] {
			pair.Value = &schemagen.Schema{
				AnyOf: []*schemagen.Schema{pair.Value, {Type: "null"}},
			}
		}
	}
}

// JSONSchemaExtend lets content be null. vRA answers an empty collection
// with "content": null on some endpoints.
func (Page[T]) JSONSchemaExtend(s *schemagen.Schema) {
	if s.Properties == nil {
		return
	}
	if content, ok := s.Properties.Get("content"); ok {
		s.Properties.Set("content", &schemagen.Schema{
			AnyOf: []*schemagen.Schema{content, {Type: "null"}},
		})
	}
}

// validationProblems flattens a validation error into "path: message" strings.
func validationProblems(err error) []string {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []string{err.Error()}
	}

	byPath := make(map[string][]string)
	collectProblems(validationErr, byPath)

	var result []string
	for path, msgs := range byPath {
		seen := make(map[string]bool)
		for _, msg := range msgs {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			result = append(result, fmt.Sprintf("%s: %s", path, msg))
		}
	}
	sort.Strings(result)
	return result
}

// collectProblems recursively collects leaf errors (those without causes).
func collectProblems(err *jsonschema.ValidationError, byPath map[string][]string) {
	path := "/" + strings.Join(err.InstanceLocation, "/")

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		msg := err.ErrorKind.LocalizedString(printer)
		if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
			byPath[path] = append(byPath[path], msg)
		}
	}

	for _, cause := range err.Causes {
		collectProblems(cause, byPath)
	}
}

func typeName(rt reflect.Type) string {
	if rt.Kind() == reflect.Slice {
		return "[]" + typeName(rt.Elem())
	}
	name := rt.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		// Page[github.com/.../client.BusinessGroup] -> Page[BusinessGroup]
		inner := name[i+1 : len(name)-1]
		if j := strings.LastIndexByte(inner, '.'); j >= 0 {
			inner = inner[j+1:]
		}
		name = name[:i] + "[" + inner + "]"
	}
	if name == "" {
		return rt.String()
	}
	return name
}
