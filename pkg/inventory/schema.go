package inventory

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v2"
)

// hostsSchema is the structural contract of the hosts file, checked before
// the typed unmarshal so field errors carry a document path.
const hostsSchema = `{
	"type": "object",
	"required": ["host_groups"],
	"properties": {
		"defaults": {
			"type": "object",
			"properties": {
				"admin_user": {"type": "string"},
				"username": {"type": "string"},
				"user_password": {
					"type": "object",
					"additionalProperties": {"type": "string"}
				},
				"port": {"type": "integer", "minimum": 1, "maximum": 65535},
				"timeout": {"type": "integer", "minimum": 1}
			}
		},
		"host_groups": {
			"type": "object",
			"minProperties": 1,
			"additionalProperties": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["host"],
					"properties": {
						"host": {"type": "string", "minLength": 1},
						"name": {"type": "string"},
						"username": {"type": "string"},
						"password": {"type": "string"},
						"port": {"type": "integer", "minimum": 1, "maximum": 65535},
						"timeout": {"type": "integer", "minimum": 1},
						"tags": {"type": "array", "items": {"type": "string"}}
					}
				}
			}
		}
	}
}`

func validate(raw []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("error unmarshalling hosts file: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(hostsSchema),
		gojsonschema.NewGoLoader(jsonable(doc)),
	)
	if err != nil {
		return fmt.Errorf("error validating hosts file: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("validation failed:\n - %s", strings.Join(errs, "\n - "))
	}

	return nil
}

// jsonable rewrites the yaml.v2 interface-keyed maps into string-keyed ones
// so the schema validator can walk the document.
func jsonable(v interface{}) interface{} {
	switch v := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for key, value := range v {
			m[fmt.Sprintf("%v", key)] = jsonable(value)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(v))
		for i, value := range v {
			s[i] = jsonable(value)
		}
		return s
	default:
		return v
	}
}
