package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Error is a rejected API call. The backend answers in one of three body
// shapes: {"message": "..."}, {"errors": {"field": ["..."]}} or a bare
// string array; all three fold into this one type.
type Error struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("api error %d: %s (%d field errors)", e.Status, e.Message, len(e.Fields))
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *Error) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

func decodeError(status int, body []byte) *Error {
	apiErr := &Error{Status: status}

	var structured struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &structured); err == nil {
		apiErr.Message = structured.Message
		apiErr.Fields = structured.Errors
	} else {
		var messages []string
		if err := json.Unmarshal(body, &messages); err == nil {
			apiErr.Message = strings.Join(messages, "; ")
		}
	}

	if apiErr.Message == "" && len(apiErr.Fields) == 0 {
		apiErr.Message = http.StatusText(status)
	}
	if apiErr.Message == "" {
		apiErr.Message = "request failed"
	}

	return apiErr
}
