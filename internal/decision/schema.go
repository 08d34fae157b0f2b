package decision

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schemas stay deliberately loose on value types: amounts and
// confidence arrive as numbers or numeric strings depending on the
// model, coercion happens after shape validation.
const planSchemaJSON = `{
	"type": "object",
	"anyOf": [
		{"required": ["buys"]},
		{"required": ["sells"]}
	],
	"properties": {
		"buys": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["symbol"],
				"properties": {
					"symbol": {"type": "string"},
					"quote_usdt": {"type": ["number", "string", "null"]}
				}
			}
		},
		"sells": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["symbol"],
				"properties": {
					"symbol": {"type": "string"},
					"quantity": {"type": ["number", "string", "null"]}
				}
			}
		},
		"rationale": {"type": ["string", "null"]},
		"confidence": {"type": ["number", "string", "null"]}
	}
}`

const legacySchemaJSON = `{
	"type": "object",
	"required": ["action"],
	"properties": {
		"symbol": {"type": ["string", "null"]},
		"action": {"type": "string"},
		"confidence": {"type": ["number", "string", "null"]},
		"rationale": {"type": ["string", "null"]}
	}
}`

var (
	planSchema   = mustCompile("plan.json", planSchemaJSON)
	legacySchema = mustCompile("legacy.json", legacySchemaJSON)
)

func mustCompile(name, raw string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(raw)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(name)
}
