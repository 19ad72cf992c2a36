package sessionsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// GetLiveness checks whether the directory process is up.
func (d *HTTPDirectory) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return d.getHealth(ctx, "/livez")
}

// GetReadiness checks whether the directory can serve traffic. A degraded
// directory answers 503 but still returns a body describing which checks
// failed, so both outcomes decode.
func (d *HTTPDirectory) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return d.getHealth(ctx, "/readyz")
}

func (d *HTTPDirectory) getHealth(ctx context.Context, path string) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return nil, ErrDirectoryUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return nil, &APIError{StatusCode: resp.StatusCode, Code: ErrorCodeServerError, Description: "unexpected health response"}
	}

	var body HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &body, nil
}
