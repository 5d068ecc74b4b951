// internal/api/schema.go
package api

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// scoreRequestSchema guards the evaluation endpoint: a caller phone is
// mandatory, everything else optional. Unknown top-level keys are rejected to
// catch client typos early.
const scoreRequestSchema = `{
	"type": "object",
	"required": ["callerPhone"],
	"additionalProperties": false,
	"properties": {
		"callerPhone": {"type": "string", "minLength": 1, "pattern": "^\\+?[0-9]{6,15}$"},
		"audio": {"type": "string"},
		"audioFormat": {"type": "string", "enum": ["mp3", "wav", "m4a", "webm", "ogg"]},
		"transcript": {"type": "string"},
		"claim": {"type": "object"}
	}
}`

const locationVerifySchema = `{
	"type": "object",
	"required": ["phoneNumber", "latitude", "longitude", "radius"],
	"properties": {
		"phoneNumber": {"type": "string", "minLength": 1},
		"latitude": {"type": "number"},
		"longitude": {"type": "number"},
		"radius": {"type": "number"}
	}
}`

const kycMatchSchema = `{
	"type": "object",
	"required": ["phoneNumber", "claim"],
	"properties": {
		"phoneNumber": {"type": "string", "minLength": 1},
		"claim": {"type": "object"}
	}
}`

var (
	scoreSchema    = gojsonschema.NewStringLoader(scoreRequestSchema)
	locationSchema = gojsonschema.NewStringLoader(locationVerifySchema)
	kycSchema      = gojsonschema.NewStringLoader(kycMatchSchema)
)

// validateBody checks raw JSON against a schema and flattens violations into
// one error message.
func validateBody(schema gojsonschema.JSONLoader, body []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, violation := range result.Errors() {
		msgs = append(msgs, violation.String())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
