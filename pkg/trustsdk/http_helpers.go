package trustsdk

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jcarintoc/simple-applications-sub002/pkg/httpx"
)

// CSRFHeader carries the anti-forgery token.
const CSRFHeader = httpx.CSRFHeader

// decodeJSON reads resp into target, or returns an *APIError when the status
// is not expectedStatus.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// checkStatusNoContent returns an *APIError unless resp is a 204.
func checkStatusNoContent(resp *http.Response) error {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, bodyBytes)
	}
	return nil
}

// readError consumes an error response.
func readError(resp *http.Response) error {
	defer resp.Body.Close()
	bodyBytes, _ := io.ReadAll(resp.Body)
	if err := parseErrorResponse(resp, bodyBytes); err != nil {
		return err
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
