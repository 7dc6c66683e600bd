// Package httpadapter implements the ticketing, monitoring and alerting
// capability interfaces against real SaaS HTTP APIs (ServiceNow, Jira,
// Datadog, PagerDuty), sharing a single minimal JSON-over-HTTP client.
package httpadapter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jordigilh/runbookengine/internal/apperrors"
)

// client is a small JSON REST client shared by every live provider in
// this package. Each provider owns one, configured with its own base
// URL and auth header.
type client struct {
	baseURL    string
	authHeader string
	authValue  string
	httpClient *http.Client
}

func newClient(baseURL, authHeader, authValue string) *client {
	return &client{
		baseURL:    baseURL,
		authHeader: authHeader,
		authValue:  authValue,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrorTypeIntegration, "failed to encode request body")
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeIntegration, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.authHeader != "" {
		req.Header.Set(c.authHeader, c.authValue)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeIntegration, "request failed").WithDetailsf("%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return apperrors.Newf(apperrors.ErrorTypeIntegration, "%s %s returned %d", method, path, resp.StatusCode).
			WithDetails(string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeIntegration, "failed to decode response body")
	}
	return nil
}

func basicAuthValue(username, password string) string {
	return fmt.Sprintf("Basic %s", base64.StdEncoding.EncodeToString([]byte(username+":"+password)))
}
