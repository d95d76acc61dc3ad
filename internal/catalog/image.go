package catalog

import (
	"encoding/json"
	"strings"
)

var imageFields = []string{"imageUrl", "image_link", "imageLink", "image", "img", "thumbnail"}

// PickImage finds the best image URL a record carries. Distributors send a
// single URL field, an array field, or a raw delimited string.
func PickImage(r RawRecord) (string, bool) {
	if s := r.text(imageFields...); s != "" {
		return s, true
	}

	for _, key := range []string{"imagenes", "miniaturas"} {
		if s, ok := firstOf(r[key]); ok {
			return s, true
		}
	}

	raw, ok := r["imagenesRaw"].(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return "", false
	}

	// Valid JSON is only used when it is an array.
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		arr, _ := v.([]any)
		return firstOf(arr)
	}

	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ',' || r == '|'
	})
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			return p, true
		}
	}
	return "", false
}

func firstOf(v any) (string, bool) {
	switch arr := v.(type) {
	case []any:
		if len(arr) > 0 && arr[0] != nil {
			return asText(arr[0])
		}
	case []string:
		if len(arr) > 0 {
			return asText(arr[0])
		}
	}
	return "", false
}
