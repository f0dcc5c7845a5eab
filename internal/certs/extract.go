package certs

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/qri-io/jsonschema"
)

// envelopeSchema accepts {"data": {"profile": {...non-empty...}}}.
const envelopeSchema = `{
  "type": "object",
  "required": ["data"],
  "properties": {
    "data": {
      "type": "object",
      "required": ["profile"],
      "properties": {
        "profile": {"type": "object", "minProperties": 1}
      }
    }
  }
}`

var envelope = mustSchema(envelopeSchema)

func mustSchema(s string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(s), rs); err != nil {
		panic("certs: compile envelope schema: " + err.Error())
	}
	return rs
}

// Extract turns a profile API response body into an Outcome. Entries without
// a usable title or completion date are dropped; missing nested fields are
// treated as an empty list.
func Extract(ctx context.Context, username string, body []byte) Outcome {
	noProfile := Failure{Username: username, Reason: ReasonNoProfile}

	verrs, err := envelope.ValidateBytes(ctx, body)
	if err != nil || len(verrs) > 0 {
		return noProfile
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return noProfile
	}

	profile := object(object(payload, "data"), "profile")
	raw, _ := object(profile, "credential")["certifications"].([]any)

	out := Success{Username: username, Seen: len(raw), Certifications: []Certification{}}
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if c, ok := normalize(entry); ok {
			out.Certifications = append(out.Certifications, c)
		}
	}

	return out
}

func normalize(entry map[string]any) (Certification, bool) {
	title, _ := entry["title"].(string)
	title = strings.TrimSpace(title)
	if title == "" {
		return Certification{}, false
	}

	completed, ok := ParseDate(stringField(entry, "dateCompleted"))
	if !ok {
		return Certification{}, false
	}

	return Certification{
		Title:         title,
		Product:       stringField(entry, "product"),
		DateCompleted: completed,
		DateExpired:   ParseOptionalDate(stringField(entry, "dateExpired")),
	}, true
}

// object returns m[key] when it is a JSON object, nil otherwise. Reading
// from a nil map is safe, so lookups can be chained.
func object(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func stringField(m map[string]any, key string) *string {
	s, ok := m[key].(string)
	if !ok {
		return nil
	}
	return &s
}
