package models

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/matzehuels/godbolt/pkg/errors"
)

// record is a decoded JSON object whose fields are extracted one by one so
// that every failure can name the entity and field it came from.
type record struct {
	entity string
	fields map[string]json.RawMessage
}

func parseRecord(entity string, data []byte) (*record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &errors.DecodingError{Entity: entity, Reason: "expected object", Cause: err}
	}
	if fields == nil {
		return nil, &errors.DecodingError{Entity: entity, Reason: "expected object, got null"}
	}
	return &record{entity: entity, fields: fields}, nil
}

// lookup returns the raw value of field; null counts as absent.
func (r *record) lookup(field string) (json.RawMessage, bool) {
	raw, ok := r.fields[field]
	if !ok || isNull(raw) {
		return nil, false
	}
	return raw, true
}

func (r *record) missing(field string) error {
	return &errors.DecodingError{Entity: r.entity, Field: field, Reason: "missing"}
}

func (r *record) wrongType(field, want string, cause error) error {
	return &errors.DecodingError{Entity: r.entity, Field: field, Reason: "expected " + want, Cause: cause}
}

func (r *record) requiredString(field string) (string, error) {
	raw, ok := r.lookup(field)
	if !ok {
		return "", r.missing(field)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", r.wrongType(field, "string", err)
	}
	return s, nil
}

func (r *record) optionalString(field string) (string, error) {
	if _, ok := r.lookup(field); !ok {
		return "", nil
	}
	return r.requiredString(field)
}

func (r *record) optionalStringPtr(field string) (*string, error) {
	if _, ok := r.lookup(field); !ok {
		return nil, nil
	}
	s, err := r.requiredString(field)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *record) requiredStrings(field string) ([]string, error) {
	raw, ok := r.lookup(field)
	if !ok {
		return nil, r.missing(field)
	}
	var ss []string
	if err := json.Unmarshal(raw, &ss); err != nil {
		return nil, r.wrongType(field, "array of strings", err)
	}
	if ss == nil {
		ss = []string{}
	}
	return ss, nil
}

// optionalStrings returns an empty, non-nil slice when the field is absent.
func (r *record) optionalStrings(field string) ([]string, error) {
	if _, ok := r.lookup(field); !ok {
		return []string{}, nil
	}
	return r.requiredStrings(field)
}

func (r *record) optionalInt(field string) (*int, error) {
	raw, ok := r.lookup(field)
	if !ok {
		return nil, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, r.wrongType(field, "integer", err)
	}
	return &n, nil
}

func (r *record) optionalBool(field string) (*bool, error) {
	raw, ok := r.lookup(field)
	if !ok {
		return nil, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, r.wrongType(field, "boolean", err)
	}
	return &b, nil
}

// optionalText accepts either a JSON string or a JSON number and returns
// its textual form. The API reports execution times both ways.
func (r *record) optionalText(field string) (string, error) {
	raw, ok := r.lookup(field)
	if !ok {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", r.wrongType(field, "string or number", err)
	}
	return n.String(), nil
}

func (r *record) optionalRaw(field string) json.RawMessage {
	raw, ok := r.lookup(field)
	if !ok {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}

func (r *record) optionalArray(field string) ([]json.RawMessage, error) {
	raw, ok := r.lookup(field)
	if !ok {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, r.wrongType(field, "array", err)
	}
	return items, nil
}

// splitArray decodes a JSON array of records, reporting the failing index.
func splitArray(entity string, data []byte) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &errors.DecodingError{Entity: entity + " list", Reason: "expected array", Cause: err}
	}
	return items, nil
}

func indexed(entity string, i int, err error) error {
	return &errors.DecodingError{Entity: entity + " list", Field: "[" + strconv.Itoa(i) + "]", Reason: "invalid element", Cause: err}
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

