package forecast

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// pointsSchema is the part of a /points document the resolver depends on.
const pointsSchema = `{
  "type": "object",
  "required": ["properties"],
  "properties": {
    "properties": {
      "type": "object",
      "required": ["forecast"],
      "properties": {
        "forecast": {"type": "string", "minLength": 1}
      }
    }
  }
}`

// forecastSchema is the part of a gridpoint forecast document the resolver
// depends on. Each period must carry a name and a detailed forecast.
const forecastSchema = `{
  "type": "object",
  "required": ["properties"],
  "properties": {
    "properties": {
      "type": "object",
      "required": ["periods"],
      "properties": {
        "periods": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["name", "detailedForecast"],
            "properties": {
              "name": {"type": "string"},
              "detailedForecast": {"type": "string"}
            }
          }
        }
      }
    }
  }
}`

type documentSchemas struct {
	points   *gojsonschema.Schema
	forecast *gojsonschema.Schema
}

func compileSchemas() (*documentSchemas, error) {
	points, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(pointsSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile points schema: %w", err)
	}
	forecast, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(forecastSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile forecast schema: %w", err)
	}
	return &documentSchemas{points: points, forecast: forecast}, nil
}

// validate checks body against schema and folds every violation into one error.
func validate(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var messages []string
	for _, desc := range result.Errors() {
		messages = append(messages, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrUnexpectedDocument, strings.Join(messages, "; "))
}
