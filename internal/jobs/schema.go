package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/qri-io/jsonschema"
	"github.com/workdeck/workdeck/pkg/airtable"
)

// recordSchemaJSON describes the shape a well-formed store record should
// have. Validation is advisory only: nonconforming records are logged
// and still normalized, since every normalizer is total.
const recordSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["title", "company", "apply_url", "posted_date", "status"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "company": {"type": "string", "minLength": 1},
    "type": {"type": "string"},
    "description": {"type": "string"},
    "apply_url": {"type": "string", "minLength": 1},
    "posted_date": {"type": "string"},
    "status": {"type": "string", "enum": ["active", "inactive"]},
    "salary_min": {"type": "number", "minimum": 0},
    "salary_max": {"type": "number", "minimum": 0},
    "salary_currency": {"type": "string"},
    "salary_unit": {"type": "string"},
    "featured": {"type": "boolean"},
    "career_level": {},
    "languages": {"type": "array"},
    "workplace_type": {"type": "string"},
    "remote_region": {"type": "string"},
    "visa_sponsorship": {"type": "string"}
  }
}`

// RecordSchema validates raw record field bags before normalization.
type RecordSchema struct {
	schema *jsonschema.Schema
	logger *slog.Logger
}

func compileRecordSchema(logger *slog.Logger) *RecordSchema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(recordSchemaJSON), rs); err != nil {
		// the schema is a compile-time constant, so this only fires on a
		// bad edit; validation is skipped rather than failing the fetch
		logger.Error("compile record schema", slog.Any("err", err))
		return &RecordSchema{logger: logger}
	}
	return &RecordSchema{schema: rs, logger: logger}
}

// Check logs a warning for every record that does not match the expected
// shape. It never rejects a record.
func (s *RecordSchema) Check(ctx context.Context, rec airtable.Record) {
	if s == nil || s.schema == nil {
		return
	}

	doc, err := json.Marshal(rec.Fields)
	if err != nil {
		return
	}

	keyErrs, err := s.schema.ValidateBytes(ctx, doc)
	if err != nil || len(keyErrs) == 0 {
		return
	}

	attrs := []any{slog.String("record", rec.ID)}
	for i, ke := range keyErrs {
		if i == 3 {
			attrs = append(attrs, slog.Int("more", len(keyErrs)-i))
			break
		}
		attrs = append(attrs, slog.String("field", ke.PropertyPath), slog.String("problem", ke.Message))
	}
	s.logger.Warn("record failed schema validation", attrs...)
}
