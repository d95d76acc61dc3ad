package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawRecord is one product as the backend returned it, before normalization.
// Numbers are kept as json.Number when decoded through DecodeRecords.
type RawRecord map[string]any

// DecodeRecords parses a JSON array of objects. Anything that is not an array
// yields no records; non-object elements are dropped.
func DecodeRecords(data []byte) []RawRecord {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var items []json.RawMessage
	if err := dec.Decode(&items); err != nil {
		return nil
	}

	out := make([]RawRecord, 0, len(items))
	for _, raw := range items {
		d := json.NewDecoder(bytes.NewReader(raw))
		d.UseNumber()
		var rec RawRecord
		if err := d.Decode(&rec); err != nil || rec == nil {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// value returns the field when it is present and not null.
func (r RawRecord) value(key string) (any, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// text returns the first candidate that renders to a non-empty string.
func (r RawRecord) text(keys ...string) string {
	for _, k := range keys {
		v, ok := r.value(k)
		if !ok {
			continue
		}
		if s, ok := asText(v); ok {
			return s
		}
	}
	return ""
}

// number returns the first candidate that parses to a finite float.
func (r RawRecord) number(keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := r.value(k)
		if !ok {
			continue
		}
		if f, ok := asNumber(v); ok {
			return f, true
		}
	}
	return 0, false
}

func asText(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func asNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		p, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
