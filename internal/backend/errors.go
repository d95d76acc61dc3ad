package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrUnauthorized         = errors.New("no autorizado")
	ErrInvalidLoginResponse = errors.New("respuesta inválida del servidor")
	ErrInvalidResponse      = errors.New("invalid backend response")
)

// APIError is a non-2xx answer from the backend. A 401 unwraps to
// ErrUnauthorized.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	if e.Status == 401 {
		return ErrUnauthorized
	}
	return nil
}

// TransportError means the backend could not be reached at all.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func newAPIError(status int, contentType string, body []byte) *APIError {
	return &APIError{Status: status, Message: errorMessage(status, contentType, body)}
}

// errorMessage prefers the JSON error/message field, then the visible text
// of an HTML error page, then the raw body.
func errorMessage(status int, contentType string, body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return fmt.Sprintf("Error HTTP %d", status)
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}

	if strings.Contains(contentType, "html") || bytes.HasPrefix(body, []byte("<")) {
		if text := htmlText(body); text != "" {
			return text
		}
	}

	return string(body)
}

func htmlText(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Find("body").Text()), " ")
}
