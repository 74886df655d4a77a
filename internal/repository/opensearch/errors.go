package opensearch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the index service with the structured
// OpenSearch error body, when one was present.
type APIError struct {
	StatusCode int
	Type       string
	Reason     string
	Raw        string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("index error %d: %s: %s", e.StatusCode, e.Type, e.Reason)
	}
	return fmt.Sprintf("index error %d: %s", e.StatusCode, e.Raw)
}

// decodeAPIError reads an error response, preferring the structured error
// object over raw prose.
func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))

	var parsed struct {
		Error struct {
			Type      string `json:"type"`
			Reason    string `json:"reason"`
			RootCause []struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"root_cause"`
		} `json:"error"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode, Raw: string(body)}
	if json.Unmarshal(body, &parsed) == nil {
		apiErr.Type = parsed.Error.Type
		apiErr.Reason = parsed.Error.Reason
		if apiErr.Type == "" && len(parsed.Error.RootCause) > 0 {
			apiErr.Type = parsed.Error.RootCause[0].Type
			apiErr.Reason = parsed.Error.RootCause[0].Reason
		}
	}
	return apiErr
}

// isUnsupportedKNN classifies an index error as "this deployment cannot parse
// vector queries". The structured error type is authoritative; the "Unknown
// key" prose match remains as a fallback for non-JSON error payloads.
func isUnsupportedKNN(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Type == "parsing_exception" || apiErr.Type == "x_content_parse_exception" {
			return true
		}
		if strings.Contains(apiErr.Reason, "Unknown key") || strings.Contains(apiErr.Raw, "Unknown key") {
			return true
		}
	}
	return false
}
