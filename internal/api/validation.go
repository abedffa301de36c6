package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxSyncBodyBytes bounds the sync request body
const maxSyncBodyBytes = 1 << 20

const syncRequestSchemaURL = "https://gitea-bridge.local/schemas/sync-request.json"

// syncRequestSchema describes POST /api/gitea/sync-environmental-data
const syncRequestSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"commitMessage": {"type": "string", "maxLength": 1024}
	}
}`

// SyncRequest is the body of the sync endpoint
type SyncRequest struct {
	Data          json.RawMessage `json:"data"`
	CommitMessage string          `json:"commitMessage,omitempty"`
}

type syncRequestValidator struct {
	schema  *jsonschema.Schema
	printer *message.Printer
}

func newSyncRequestValidator() (*syncRequestValidator, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(syncRequestSchema))
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(syncRequestSchemaURL, doc); err != nil {
		return nil, err
	}

	schema, err := compiler.Compile(syncRequestSchemaURL)
	if err != nil {
		return nil, err
	}
	return &syncRequestValidator{schema: schema, printer: message.NewPrinter(language.English)}, nil
}

// decode reads, validates and decodes a sync request body
func (v *syncRequestValidator) decode(body io.Reader) (*SyncRequest, error) {
	raw, err := io.ReadAll(io.LimitReader(body, maxSyncBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(raw) > maxSyncBodyBytes {
		return nil, fmt.Errorf("request body exceeds %d bytes", maxSyncBodyBytes)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("request body is empty")
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("request body is not valid JSON: %w", err)
	}
	if err := v.schema.Validate(instance); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return nil, fmt.Errorf("invalid sync request: %s", v.firstCause(validationErr))
		}
		return nil, fmt.Errorf("invalid sync request: %w", err)
	}

	var req SyncRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("invalid sync request: %w", err)
	}
	if len(req.Data) == 0 {
		req.Data = json.RawMessage("null")
	}
	return &req, nil
}

// firstCause returns the innermost message of a schema validation failure
func (v *syncRequestValidator) firstCause(err *jsonschema.ValidationError) string {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	location := "/" + strings.Join(err.InstanceLocation, "/")
	return fmt.Sprintf("%s: %s", location, err.ErrorKind.LocalizedString(v.printer))
}
