package patterns

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
	yaml "gopkg.in/yaml.v3"
)

func GetJSONSchema() string {
	return `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["version", "screens"],
		"properties": {
			"version": {
				"type": "string",
				"enum": ["v1"]
			},
			"screens": {
				"type": "array",
				"items": {
					"$ref": "#/definitions/screen"
				},
				"minItems": 1
			}
		},
		"definitions": {
			"screen": {
				"type": "object",
				"required": ["screen"],
				"properties": {
					"screen": {
						"type": "string",
						"minLength": 1
					},
					"fields": {
						"type": "object",
						"additionalProperties": {
							"type": "string",
							"minLength": 1
						}
					},
					"sections": {
						"type": "object",
						"additionalProperties": {
							"type": "string",
							"minLength": 1
						}
					},
					"locations": {
						"type": "object",
						"additionalProperties": {
							"type": "string",
							"minLength": 1
						}
					},
					"scroll_targets": {
						"type": "array",
						"items": {
							"type": "string",
							"minLength": 1
						}
					}
				}
			}
		}
	}`
}

// ValidateYAMLWithSchema checks a pattern definition file against the JSON
// schema. The YAML payload is round-tripped through JSON so gojsonschema
// can evaluate it.
func ValidateYAMLWithSchema(yamlPayload []byte) error {
	var data interface{}
	if err := yaml.Unmarshal(yamlPayload, &data); err != nil {
		return fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal to JSON: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(GetJSONSchema())
	documentLoader := gojsonschema.NewBytesLoader(jsonData)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate schema: %w", err)
	}

	if !result.Valid() {
		var errMsg string
		for _, desc := range result.Errors() {
			errMsg += fmt.Sprintf("- %s\n", desc)
		}
		return fmt.Errorf("schema validation failed:\n%s", errMsg)
	}

	return nil
}
