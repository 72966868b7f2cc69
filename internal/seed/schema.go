// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package seed

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// schemaCache holds the compiled schema to avoid recompilation.
// Validation runs on concurrent request paths, so compilation is
// guarded by schemaOnce.
var (
	schemaOnce  sync.Once
	schemaCache *jschema.Schema
	schemaErr   error
)

// SchemaID is the schema $id for seed files.
const SchemaID = "https://rpgvault.dev/schemas/seed.schema.json"

// GenerateSchema generates a JSON Schema from the File struct.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&File{})

	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "RPGVault Seed File"
	schema.Description = "Schema for seed roster YAML files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code("SEED_SCHEMA_FAILED").
			With("operation", "marshal schema").
			Wrap(err)
	}
	return data, nil
}

// ValidateSchema validates YAML data against the seed file JSON Schema.
func ValidateSchema(data []byte) error {
	if len(data) == 0 {
		return oops.Code("SEED_INVALID").Errorf("seed data is empty")
	}

	// Parse YAML to generic interface for validation
	var yamlData any
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return oops.Code("SEED_INVALID").
			With("operation", "parse yaml").
			Wrap(err)
	}

	jsonData := convertToJSONTypes(yamlData)

	sch, err := getCompiledSchema()
	if err != nil {
		return err
	}

	if err := sch.Validate(jsonData); err != nil {
		return oops.Code("SEED_INVALID").
			With("operation", "schema validation").
			Wrap(err)
	}
	return nil
}

// getCompiledSchema returns the compiled schema, compiling it exactly once.
func getCompiledSchema() (*jschema.Schema, error) {
	schemaOnce.Do(func() {
		schemaCache, schemaErr = compileSchema()
	})
	return schemaCache, schemaErr
}

func compileSchema() (*jschema.Schema, error) {
	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, oops.Code("SEED_SCHEMA_FAILED").
			With("operation", "parse schema json").
			Wrap(err)
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaData); err != nil {
		return nil, oops.Code("SEED_SCHEMA_FAILED").
			With("operation", "add schema resource").
			Wrap(err)
	}

	sch, err := c.Compile("schema.json")
	if err != nil {
		return nil, oops.Code("SEED_SCHEMA_FAILED").
			With("operation", "compile schema").
			Wrap(err)
	}

	return sch, nil
}

// convertToJSONTypes converts YAML-parsed data to JSON-compatible
// types recursively.
func convertToJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, item := range val {
			result[k] = convertToJSONTypes(item)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = convertToJSONTypes(item)
		}
		return result
	case string, int, int64, float64, bool, nil:
		return val
	default:
		// For other types, try to convert via JSON round-trip
		if b, err := json.Marshal(val); err == nil {
			var result any
			if err := json.Unmarshal(b, &result); err == nil {
				return result
			}
		}
		return val
	}
}
