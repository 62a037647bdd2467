package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationError carries the field-level messages of a 422 response, or of
// a local check that failed before any request was sent.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// APIError is every other failure: not-found, forbidden, server error,
// transport error. StatusCode is 0 when the request never got a response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// errorFromResponse normalizes an error body into the two error shapes.
func errorFromResponse(status int, body []byte) error {
	var envelope struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	if err := json.Unmarshal(body, &envelope); err == nil {
		if len(envelope.Errors) > 0 {
			messages := make([]string, 0, len(envelope.Errors))
			for _, e := range envelope.Errors {
				messages = append(messages, e.Message)
			}
			return &ValidationError{Messages: messages}
		}
		if envelope.Message != "" {
			return &APIError{StatusCode: status, Message: envelope.Message}
		}
		if envelope.Error != "" {
			return &APIError{StatusCode: status, Message: envelope.Error}
		}
	}

	return &APIError{StatusCode: status, Message: "an unexpected error occurred"}
}
