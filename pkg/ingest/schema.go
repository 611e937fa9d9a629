package ingest

import "github.com/xeipuuv/gojsonschema"

// workflowSchema gates externally produced workflow payloads before they are
// dispatched into the store. It checks the structural minimum; the reducer's
// own rules handle the rest.
const workflowSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["id", "name", "status"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"person_id": {"type": "string"},
		"name": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"status": {"type": "string", "enum": ["draft", "active", "completed"]},
		"priority": {"type": "string", "enum": ["low", "medium", "high"]},
		"tasks": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "type"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"type": {"type": "string", "minLength": 1},
					"status": {"type": "string", "enum": ["pending", "executing", "completed", "failed"]},
					"order": {"type": "integer", "minimum": 1},
					"config": {
						"type": "object",
						"additionalProperties": {"type": "string"}
					}
				}
			}
		}
	}
}`

func newWorkflowSchema() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(workflowSchema))
}
